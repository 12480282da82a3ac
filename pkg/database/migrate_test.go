package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"002_seed.up.sql":   {Data: []byte("INSERT INTO restaurants (id, name) VALUES ('1', 'x');")},
		"001_init.up.sql":   {Data: []byte("CREATE TABLE restaurants (id TEXT);")},
		"001_init.down.sql": {Data: []byte("DROP TABLE restaurants;")},
		"README.md":         {Data: []byte("ignored")},
	}
}

func existsRows(applied bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"exists"}).AddRow(applied)
}

func TestMigrationFiles_SortedUpOnly(t *testing.T) {
	files, err := migrationFiles(testMigrations())
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.up.sql", "002_seed.up.sql"}, files)
}

func TestRunMigrations_AppliesPendingInOrder(t *testing.T) {
	mock, err := NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	mock.ExpectQuery("SELECT EXISTS").WithArgs("001_init.up.sql").WillReturnRows(existsRows(true))

	mock.ExpectQuery("SELECT EXISTS").WithArgs("002_seed.up.sql").WillReturnRows(existsRows(false))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO restaurants").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("002_seed.up.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = RunMigrations(context.Background(), mock, testMigrations(), newTestLogger())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_SQLErrorRollsBackWithoutRetry(t *testing.T) {
	mock, err := NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("001_init.up.sql").WillReturnRows(existsRows(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE restaurants").WillReturnError(&pgconn.PgError{Code: "42601"})
	mock.ExpectRollback()

	err = RunMigrations(context.Background(), mock, testMigrations(), newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute migration 001_init.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_RetriesConnectionErrors(t *testing.T) {
	mock, err := NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	migrations := fstest.MapFS{"001_init.up.sql": {Data: []byte("CREATE TABLE restaurants (id TEXT);")}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnError(&pgconn.PgError{Code: "08006"})
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("001_init.up.sql").WillReturnRows(existsRows(true))

	err = RunMigrations(context.Background(), mock, migrations, newTestLogger())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_PlainErrorIsPermanent(t *testing.T) {
	mock, err := NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnError(errors.New("permission denied"))

	err = RunMigrations(context.Background(), mock, testMigrations(), newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create schema_migrations table")
	assert.NoError(t, mock.ExpectationsWereMet())
}
