package database

import (
	"gorm.io/gorm"

	"mbc-portail/models"
)

// Seed garantit le catalogue minimal de types de notification et leurs
// gabarits. Idempotent : les lignes existantes sont laissées en place.
func Seed(db *gorm.DB) error {
	types := []struct {
		modele  models.NotificationType
		gabarit *models.NotificationTemplate
	}{
		{
			modele: models.NotificationType{
				Code:    models.TypeDocumentUploaded,
				Libelle: "Document déposé",
				Couleur: models.NotificationSuccess,
				Icone:   "file-text",
			},
			gabarit: &models.NotificationTemplate{
				Titre:     "Nouveau document : {{document_name}}",
				Message:   "Le document « {{document_name}} » est disponible dans votre espace client.",
				ActionURL: "/espace-client/documents/{{document_id}}",
			},
		},
		{
			modele: models.NotificationType{
				Code:    models.TypeMessageRecu,
				Libelle: "Message reçu",
				Couleur: models.NotificationInfo,
				Icone:   "mail",
			},
		},
		{
			modele: models.NotificationType{
				Code:    models.TypeRendezVousConfirme,
				Libelle: "Rendez-vous confirmé",
				Couleur: models.NotificationSuccess,
				Icone:   "calendar",
			},
		},
	}

	for _, t := range types {
		typ := t.modele
		if err := db.Where("code = ?", typ.Code).FirstOrCreate(&typ).Error; err != nil {
			return err
		}
		if t.gabarit == nil {
			continue
		}
		gabarit := *t.gabarit
		gabarit.TypeID = typ.ID
		if err := db.Where("type_id = ?", typ.ID).FirstOrCreate(&gabarit).Error; err != nil {
			return err
		}
	}
	return nil
}
