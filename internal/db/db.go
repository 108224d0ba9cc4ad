package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := applyPostgresConstraints(db); err != nil {
		// sem a constraint o sistema continua correto (checagens na aplicação)
		log.Warn("failed to apply booking exclusion constraint", zap.Error(err))
	}

	if err := backfillTimezones(db, cfg.DefaultTimezone); err != nil {
		log.Warn("failed to backfill barbershop timezones", zap.Error(err))
	}

	return db, nil
}

// Migrate cria/atualiza o schema. Usado também pelos testes (sqlite).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.User{},
		&models.Barber{},
		&models.Service{},
		&models.WorkingHours{},
		&models.Client{},
		&models.Booking{},
		&models.Absence{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// barbearias antigas sem fuso recebem o padrão
func backfillTimezones(db *gorm.DB, tz string) error {
	return db.Exec(`
        UPDATE barbershops
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, tz).Error
}

// Um barbeiro nunca tem dois agendamentos ativos sobrepostos.
func applyPostgresConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	return db.Exec(`
        DO $$
        BEGIN
            IF NOT EXISTS (
                SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap'
            ) THEN
                ALTER TABLE bookings
                ADD CONSTRAINT bookings_no_overlap
                EXCLUDE USING gist (
                    barber_id WITH =,
                    tstzrange(start_time, end_time) WITH &&
                ) WHERE (status IN ('pending', 'confirmed'));
            END IF;
        END $$;
    `).Error
}
