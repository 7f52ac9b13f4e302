package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Nom       string `json:"nom"`
	Email     string `gorm:"uniqueIndex" json:"email"`
	Password  string `json:"-"`
	Telephone string `json:"telephone"`
}

// UserPreference porte les préférences globales du client, dont
// l'abonnement push du navigateur stocké tel quel (JSON opaque).
type UserPreference struct {
	gorm.Model
	UserID           uint   `gorm:"uniqueIndex" json:"user_id"`
	PushSubscription string `json:"push_subscription"`
}
