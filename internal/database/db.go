package database

import (
	"fmt"
	"strings"
	"time"

	"inventory-tracker/internal/config"
	"inventory-tracker/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// partial index: at most one Active assignment per equipment
const activeAssignmentIndex = `CREATE UNIQUE INDEX IF NOT EXISTS uq_assignments_active_equipment
ON assignments (equipment_id) WHERE status = 'Active'`

var retryDelay = 2 * time.Second

// Open connects to the configured database, retrying while it comes up, and migrates the schema.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	attempts := cfg.DBConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= attempts; i++ {
		log.Info("connecting to database",
			zap.String("driver", cfg.DBDriver),
			zap.Int("attempt", i),
			zap.Int("max_attempts", attempts),
		)

		db, err = gorm.Open(dialector(cfg), &gorm.Config{
			Logger: gormLogger(log),
		})
		if err == nil {
			err = ping(db)
		}
		if err == nil {
			break
		}

		log.Warn("database connection failed", zap.Error(err))
		if i < attempts {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to db after %d attempts: %w", attempts, err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// sqlite allows one writer; a single connection avoids "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("connected to database")
	return db, nil
}

// gormLogger routes gorm's slow-query and error output through zap.
func gormLogger(log *zap.Logger) logger.Interface {
	return logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func dialector(cfg *config.Config) gorm.Dialector {
	if cfg.DBDriver == config.DriverSQLite {
		return sqlite.Open(sqliteDSN(cfg.DBDSN))
	}
	return postgres.Open(cfg.DBDSN)
}

// sqliteDSN turns foreign keys on so cascades and references are enforced.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Area{},
		&models.Personnel{},
		&models.Equipment{},
		&models.Assignment{},
	)
	if err != nil {
		return err
	}
	return db.Exec(activeAssignmentIndex).Error
}
