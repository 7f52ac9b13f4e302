package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LeadStatutNouveau  = "nouveau"
	LeadStatutQualifie = "qualifié"
	LeadStatutClient   = "client"
	LeadStatutPerdu    = "perdu"
)

// Types d'interaction reconnus par le scoring. Un type hors liste
// est accepté mais ne rapporte aucun point.
const (
	InteractionFormulaire     = "formulaire"
	InteractionTelechargement = "telechargement"
	InteractionRendezVous     = "rdv"
	InteractionChat           = "chat"
	InteractionEmail          = "email"
	InteractionDevisEnLigne   = "devis_en_ligne"
)

const (
	CanalWeb      = "web"
	CanalCalendly = "calendly"
	CanalEmail    = "email"
)

// Lead est un prospect capté par un formulaire, un devis en ligne ou
// un questionnaire de création d'entreprise. Score n'est jamais saisi :
// il est recalculé depuis les interactions.
type Lead struct {
	gorm.Model
	Email       string            `gorm:"index;not null" json:"email"`
	Nom         string            `gorm:"not null" json:"nom"`
	Telephone   string            `json:"telephone,omitempty"`
	Societe     string            `json:"societe,omitempty"`
	Source      string            `json:"source"`
	TypeContact string            `json:"type_contact"`
	Statut      string            `gorm:"default:nouveau" json:"statut"`
	Score       int               `gorm:"default:0" json:"score"`
	GDPRConsent bool              `json:"gdpr_consent"`
	Metadata    datatypes.JSONMap `json:"metadata"`

	Interactions []LeadInteraction `gorm:"constraint:OnDelete:CASCADE" json:"interactions,omitempty"`
}

// LeadInteraction est en append-only : jamais modifiée ni supprimée ici.
type LeadInteraction struct {
	gorm.Model
	LeadID   uint   `gorm:"index;not null" json:"lead_id"`
	Type     string `gorm:"not null" json:"type"`
	Canal    string `json:"canal"`
	Contenu  string `json:"contenu,omitempty"`
	Resultat string `json:"resultat,omitempty"`
}
