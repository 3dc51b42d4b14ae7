package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AdminUser struct {
	bun.BaseModel `bun:"table:admin_users,alias:au"`
	Id            uuid.UUID  `json:"id" bun:"id,pk,type:uuid"`
	Email         string     `json:"email" bun:"email,unique,notnull"`
	Name          string     `json:"name" bun:"name,notnull"`
	PasswordHash  string     `json:"-" bun:"password_hash,notnull"`
	Role          string     `json:"role" bun:"role,notnull"`
	LastLogin     *time.Time `json:"last_login,omitempty" bun:"last_login,nullzero"`
	CreatedAt     time.Time  `json:"created_at" bun:"created_at,notnull"`
}
