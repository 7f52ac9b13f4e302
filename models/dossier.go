package models

import (
	"time"

	"gorm.io/gorm"
)

// Dossier référence un document de l'espace client. Le fichier lui-même
// vit dans le stockage objet externe; seul le chemin est conservé ici.
type Dossier struct {
	gorm.Model
	ClientID uint   `gorm:"index;not null" json:"client_id"`
	Nom      string `gorm:"not null" json:"nom"`
	Fichier  string `json:"fichier"`
	Type     string `json:"type"`
	Taille   int64  `json:"taille"`
}

// MessageHistorique trace les échanges avec l'assistant conversationnel.
type MessageHistorique struct {
	gorm.Model
	ClientID  uint      `gorm:"index" json:"client_id"`
	Role      string    `json:"role"`
	Contenu   string    `json:"contenu"`
	Type      string    `json:"type"`
	DateEnvoi time.Time `json:"date_envoi"`
	Lu        bool      `gorm:"default:false" json:"lu"`
}
