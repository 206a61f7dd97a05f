package db

import (
	"fmt"
	"log/slog"

	"github.com/linskybing/csdesk/internal/config"
	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/identity"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/domain/user"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the configured database. The process cannot serve without it, so
// callers treat the error as fatal.
func Init() error {
	var dialector gorm.Dialector
	switch config.DbDriver {
	case "sqlite":
		dialector = sqlite.Open(config.SqlitePath)
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			config.DbHost,
			config.DbPort,
			config.DbUser,
			config.DbPassword,
			config.DbName,
		)
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", config.DbDriver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}

	slog.Info("database connected", "driver", config.DbDriver)
	return nil
}

// Models lists every table owned by the service in migration order.
func Models() []any {
	return []any{
		&identity.Identity{},
		&user.User{},
		&ticket.Ticket{},
		&ticket.Comment{},
		&ticket.Attachment{},
		&audit.AuditLog{},
	}
}

func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func InitWithGormDB(gormDB *gorm.DB) {
	DB = gormDB
}
