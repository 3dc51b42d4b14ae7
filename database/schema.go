package database

import (
	"context"
	"fmt"
	"njatashiz_server/structs/tables"
)

// CreateSchema creates missing tables and indexes
func CreateSchema(ctx context.Context, db *DB) error {
	models := []struct {
		model       any
		foreignKeys []string
	}{
		{model: (*tables.AdminUser)(nil)},
		{model: (*tables.JewelryPiece)(nil)},
		{
			model:       (*tables.JewelryTranslation)(nil),
			foreignKeys: []string{`("piece_id") REFERENCES "jewelry_pieces" ("id") ON DELETE CASCADE`},
		},
	}

	for _, m := range models {
		q := db.NewCreateTable().Model(m.model).IfNotExists()
		for _, fk := range m.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", m.model, err)
		}
	}

	_, err := db.NewCreateIndex().
		Model((*tables.JewelryPiece)(nil)).
		Index("jewelry_pieces_created_at_idx").
		Column("created_at").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create created_at index: %w", err)
	}

	return nil
}
