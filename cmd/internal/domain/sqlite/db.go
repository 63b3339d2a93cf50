package sqlite

import (
	"errors"
	"path/filepath"
	"portalmunicipal/cmd/internal/domain/entity"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	// Driver is either "sqlite" or "postgres".
	Driver string
	// DSN is the sqlite file path or the postgres connection string.
	DSN      string
	LogLevel logger.LogLevel
}

func Init(opts Options) (*gorm.DB, error) {
	opts.Driver = driverName(opts.Driver)
	dialector, err := openDialector(opts)
	if err != nil {
		return nil, err
	}

	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel(opts.LogLevel)),
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if opts.Driver == "sqlite" {
		// SQLite serializes writers anyway, a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate creates or updates every table of the portal.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.DocumentArea{},
		&entity.DocumentCategory{},
		&entity.Document{},
		&entity.DocumentPlacement{},
		&entity.DocumentVersion{},
		&entity.DocumentAudit{},
		&entity.Bidding{},
		&entity.BiddingDocument{},
		&entity.BiddingMovement{},
		&entity.News{},
		&entity.MunicipalService{},
		&entity.Project{},
	)
}

func openDialector(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "sqlite":
		dsn := opts.DSN
		if dsn == "" {
			dsn = filepath.Join(".", "database.db")
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		// Foreign keys are off by default in sqlite.
		return sqlite.Open(dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	case "postgres":
		if opts.DSN == "" {
			return nil, errors.New("postgres requires a DSN")
		}
		return postgres.Open(opts.DSN), nil
	}
	return nil, errors.New("unknown database driver: " + opts.Driver)
}

// driverName defaults to sqlite.
func driverName(driver string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		return "sqlite"
	}
	return driver
}

func logLevel(level logger.LogLevel) logger.LogLevel {
	if level == 0 {
		return logger.Warn
	}
	return level
}
