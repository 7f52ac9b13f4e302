package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Codes lisibles des types de notification déclenchés par le portail.
const (
	TypeDocumentUploaded   = "document_uploaded"
	TypeMessageRecu        = "message_recu"
	TypeRendezVousConfirme = "rdv_confirme"
)

// NotificationType décrit une famille de notifications; Couleur alimente
// le champ Type des enregistrements créés (info/success/warning/error).
type NotificationType struct {
	gorm.Model
	Code    string `gorm:"uniqueIndex;not null" json:"code"`
	Libelle string `json:"libelle"`
	Couleur string `gorm:"default:info" json:"couleur"`
	Icone   string `json:"icone,omitempty"`
}

// NotificationTemplate fournit titre/message/action par défaut pour un
// type; les segments {{cle}} sont substitués depuis les metadata.
type NotificationTemplate struct {
	gorm.Model
	TypeID    uint   `gorm:"uniqueIndex;not null" json:"type_id"`
	Titre     string `json:"titre"`
	Message   string `json:"message"`
	ActionURL string `json:"action_url,omitempty"`
}

type Notification struct {
	gorm.Model
	UserID    uint              `gorm:"index;not null" json:"user_id"`
	TypeID    uint              `gorm:"index" json:"type_id"`
	Titre     string            `gorm:"not null" json:"titre"`
	Message   string            `json:"message"`
	Type      string            `gorm:"default:info" json:"type"`
	Lu        bool              `gorm:"default:false" json:"lu"`
	ActionURL string            `json:"action_url,omitempty"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
}

// NotificationPreference : au plus une ligne par (user, type). L'absence
// de ligne vaut tous-canaux-activés. Les drapeaux sont des pointeurs :
// avec un bool nu, gorm omet la valeur zéro des colonnes à défaut et un
// refus explicite (false) ne serait jamais écrit.
type NotificationPreference struct {
	gorm.Model
	UserID       uint  `gorm:"index:idx_pref_user_type,unique;not null" json:"user_id"`
	TypeID       uint  `gorm:"index:idx_pref_user_type,unique;not null" json:"type_id"`
	EmailEnabled *bool `gorm:"default:true" json:"email_enabled"`
	PushEnabled  *bool `gorm:"default:true" json:"push_enabled"`
	InAppEnabled *bool `gorm:"default:true" json:"in_app_enabled"`
}

// CanalActif interprète un drapeau de préférence : seul un false
// explicite désactive le canal.
func CanalActif(drapeau *bool) bool {
	return drapeau == nil || *drapeau
}
