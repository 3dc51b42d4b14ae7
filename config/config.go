package config

import (
	"log"
	"njatashiz_server/structs"
	"sync"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		cfg := &structs.Config{}
		if err := ParseEnv(cfg); err != nil {
			log.Fatalf("failed to load configuration: %v", err)
		}
		configInstance = cfg
	})
	return configInstance
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
