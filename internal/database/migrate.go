package database

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"kindremind/internal/database/migrations"
	"kindremind/internal/domain"
)

// gooseUp is a seam for testing goose.UpContext.
var gooseUp = func(ctx context.Context, db *gorm.DB, dialect string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, dialect)
}

// Migrate brings the schema up to date. MySQL and Postgres run the embedded
// goose migrations; SQLite, used for local runs and tests, is auto-migrated
// from the domain models.
func Migrate(ctx context.Context, db *gorm.DB) error {
	switch name := db.Dialector.Name(); name {
	case DialectSQLite:
		return db.WithContext(ctx).AutoMigrate(&domain.User{}, &domain.RevokedToken{})
	case DialectMySQL, DialectPostgres:
		if err := gooseUp(ctx, db, name); err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
		return nil
	default:
		return fmt.Errorf("migrate: unsupported dialect %q", name)
	}
}
