// Package services porte la logique métier du portail : CRM, scoring
// et notifications. Les échecs sont classés par erreurs sentinelles,
// jamais masqués en retour uniforme : l'appelant distingue une saisie
// invalide d'une panne du backend.
package services

import "errors"

var (
	// ErrValidation : champs obligatoires manquants ou invalides.
	ErrValidation = errors.New("saisie invalide")
	// ErrConsentement : le consentement RGPD doit être explicitement donné.
	ErrConsentement = errors.New("consentement RGPD requis")
	// ErrIntrouvable : la ressource visée n'existe pas.
	ErrIntrouvable = errors.New("introuvable")
	// ErrIndisponible : le backend de données n'a pas répondu.
	ErrIndisponible = errors.New("backend indisponible")
)
