package postgres

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB returns a gorm handle speaking the postgres dialect over sqlmock.
// Expectations are regular expressions matched against the generated SQL.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	require.NoError(t, err)
	return db, mock
}

var (
	carbonColumns      = []string{"id", "user_id", "fuel_name", "consumption", "electricity", "coefficient", "created_at"}
	deviceColumns      = []string{"id", "name", "status", "boot_time", "ratio", "runtime", "updated_at"}
	maintenanceColumns = []string{"id", "device_id", "user_id", "type", "description", "maintenance_time", "created_at"}
	userColumns        = []string{"id", "name", "password", "role", "mail", "create_time"}
)
