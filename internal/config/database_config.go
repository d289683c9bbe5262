package config

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DatabaseConfig interface {
	GetDatabaseDriver() string
	GetDatabaseURL() string
}

type Database struct{}

var _ DatabaseConfig = Database{}

func (Database) GetDatabaseDriver() string {
	return GetEnv("DB_DRIVER", DriverSQLite)
}

func (Database) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "file:finvofy.db?cache=shared&_pragma=foreign_keys(1)")
}
