package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mbc-portail/models"
)

// Connect ouvre la base et applique les migrations. Le handle est rendu
// à l'appelant : pas de singleton de paquet, les services le reçoivent
// en injection.
func Connect(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		dialector = postgres.Open(dsn)
	case dsn != "":
		// DSN postgres supposé même sans préfixe de schéma
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open("portail.db")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connexion DB: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration: %w", err)
	}

	return db, nil
}

// Migrate crée ou met à jour les tables du portail.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserPreference{},
		&models.Lead{},
		&models.LeadInteraction{},
		&models.NotificationType{},
		&models.NotificationTemplate{},
		&models.Notification{},
		&models.NotificationPreference{},
		&models.Dossier{},
		&models.MessageHistorique{},
	)
}
