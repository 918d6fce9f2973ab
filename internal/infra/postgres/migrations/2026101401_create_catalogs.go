package migrations

import (
	"context"
	_ "embed"
	"encoding/json"

	"complexity-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

//go:embed 0001_create_catalogs.sql
var createCatalogsSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, createCatalogsSQL); err != nil {
				return err
			}
			return seedCatalog(ctx, db, domain.DefaultCatalog())
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS catalogs`)
			return err
		},
	)
}

func seedCatalog(ctx context.Context, db *bun.DB, catalog domain.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO catalogs (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO NOTHING`,
		catalog.ID, string(data))
	return err
}
