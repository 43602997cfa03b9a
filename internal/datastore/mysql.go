package datastore

import (
	"context"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Chris-Schnaufer/sparcd-old/internal/conf"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
)

const mysqlTimeout = 10 * time.Second

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	DataStore
	Settings conf.MySQLSettings
}

// dsn builds the connection string with mysql.Config so credentials are escaped.
func (store *MySQLStore) dsn() string {
	cfg := mysql.Config{
		User:                 store.Settings.Username,
		Passwd:               store.Settings.Password,
		Net:                  "tcp",
		Addr:                 net.JoinHostPort(store.Settings.Host, store.Settings.Port),
		DBName:               store.Settings.Database,
		AllowNativePasswords: true,
		ParseTime:            true,
		Loc:                  time.Local,
		Timeout:              mysqlTimeout,
		ReadTimeout:          mysqlTimeout,
		WriteTimeout:         mysqlTimeout,
		Params:               map[string]string{"charset": "utf8mb4"},
	}
	return cfg.FormatDSN()
}

// Open connects to MySQL and migrates the catalog tables.
func (store *MySQLStore) Open(ctx context.Context) error {
	dsn := store.dsn()
	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{Logger: createGormLogger()})
	if err != nil {
		GetLogger().Error("failed to open MySQL database",
			logger.String("host", store.Settings.Host),
			logger.String("port", store.Settings.Port),
			logger.String("database", store.Settings.Database),
			logger.Error(err))
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "open").
			Context("db_type", "mysql").
			Build()
	}

	store.DB = db
	if store.Debug {
		GetLogger().Debug("mysql database opened",
			logger.RedactedString("connection", dsn),
			logger.String("database", store.Settings.Database))
	}
	return performAutoMigration(ctx, db, "mysql", store.metrics)
}

// Close closes the MySQL connection pool.
func (store *MySQLStore) Close() error {
	return closeDB(store.DB)
}

// isDuplicateKey reports whether err is a MySQL unique key violation.
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
