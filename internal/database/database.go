package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coursehub/backend/internal/config"
)

// Connect opens the Postgres connection. TranslateError is enabled so
// unique/foreign-key violations surface as gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated instead of raw driver errors. The containerized
// database sometimes needs a few seconds to accept connections, hence the
// retry loop.
func Connect(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 5; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("connected to database")
			return db, nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Msg("database connection failed, retrying")
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("could not connect to database after retries: %w", err)
}
