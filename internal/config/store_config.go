package config

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetStoreDriver() string {
	return GetEnv("STORE_DRIVER", StoreMemory)
}

// GetDatabaseURL is the mongo URI, postgres DSN or sqlite file path depending on the driver.
func (Store) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}

func (Store) GetDatabaseName() string {
	return GetEnv("DATABASE_NAME", "accounts")
}
