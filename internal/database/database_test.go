package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestDialect(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@localhost:5432/app", DialectPostgres},
		{"postgresql://u:p@localhost/app", DialectPostgres},
		{"mysql://root:pw@tcp(127.0.0.1:3307)/test", DialectMySQL},
		{"root:pw@tcp(127.0.0.1:3307)/test", DialectMySQL},
		{":memory:", DialectSQLite},
		{"file:dev.db?cache=shared", DialectSQLite},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Dialect(tc.dsn), tc.dsn)
	}
}

func TestNormalizeMySQLDSN_ForcesParseTime(t *testing.T) {
	out, err := normalizeMySQLDSN("mysql://root:pw@tcp(127.0.0.1:3307)/test")
	require.NoError(t, err)
	assert.Contains(t, out, "parseTime=true")
	assert.Contains(t, out, "tcp(127.0.0.1:3307)/test")
}

func TestConnect_SQLiteMigrateAndPing(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := Connect(dsn, zap.NewNop())
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(context.Background(), db))
	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("revoked_tokens"))
	assert.NoError(t, Ping(context.Background(), db))
}

func TestMigrate_MySQLUsesGoose(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	var gotDialect string
	orig := gooseUp
	gooseUp = func(_ context.Context, _ *gorm.DB, dialect string) error {
		gotDialect = dialect
		return errors.New("boom")
	}
	defer func() { gooseUp = orig }()

	err = Migrate(context.Background(), db)
	assert.ErrorContains(t, err, "migrate mysql: boom")
	assert.Equal(t, DialectMySQL, gotDialect)
	assert.NoError(t, mock.ExpectationsWereMet())
}
