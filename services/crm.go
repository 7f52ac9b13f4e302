package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mbc-portail/models"
)

// PointsInteraction est la table de points du scoring des leads. Un
// type d'interaction hors table ne rapporte rien.
var PointsInteraction = map[string]int{
	models.InteractionFormulaire:     10,
	models.InteractionTelechargement: 5,
	models.InteractionRendezVous:     20,
	models.InteractionChat:           3,
	models.InteractionEmail:          2,
	models.InteractionDevisEnLigne:   15,
}

// CRMService gère les leads et leurs interactions.
type CRMService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCRMService(db *gorm.DB, log *zap.Logger) *CRMService {
	return &CRMService{db: db, log: log}
}

// NouveauLead est la saisie d'un formulaire de contact, de devis ou du
// questionnaire de création d'entreprise. Metadata transporte les
// réponses du simulateur d'origine le cas échéant.
type NouveauLead struct {
	Email       string
	Nom         string
	Telephone   string
	Societe     string
	Source      string
	TypeContact string
	GDPRConsent bool
	Metadata    map[string]any
}

// CreateLead insère un lead au statut "nouveau", score 0. Email et nom
// sont obligatoires; le consentement RGPD doit être explicitement vrai —
// jamais présumé.
func (s *CRMService) CreateLead(n NouveauLead) (*models.Lead, error) {
	if n.Email == "" || n.Nom == "" {
		return nil, fmt.Errorf("%w: email et nom obligatoires", ErrValidation)
	}
	if !n.GDPRConsent {
		return nil, ErrConsentement
	}

	lead := models.Lead{
		Email:       n.Email,
		Nom:         n.Nom,
		Telephone:   n.Telephone,
		Societe:     n.Societe,
		Source:      n.Source,
		TypeContact: n.TypeContact,
		Statut:      models.LeadStatutNouveau,
		Score:       0,
		GDPRConsent: true,
		Metadata:    datatypes.JSONMap(n.Metadata),
	}
	if err := s.db.Create(&lead).Error; err != nil {
		s.log.Error("création lead échouée", zap.String("email", n.Email), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrIndisponible, err)
	}

	s.log.Info("lead créé",
		zap.Uint("lead_id", lead.ID),
		zap.String("source", lead.Source))
	return &lead, nil
}

// TrackInteraction ajoute une interaction (append-only). La prise de
// rendez-vous qualifie le lead au passage.
func (s *CRMService) TrackInteraction(inter models.LeadInteraction) error {
	if inter.LeadID == 0 || inter.Type == "" {
		return fmt.Errorf("%w: lead et type obligatoires", ErrValidation)
	}

	if err := s.db.Create(&inter).Error; err != nil {
		s.log.Error("interaction non enregistrée",
			zap.Uint("lead_id", inter.LeadID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrIndisponible, err)
	}

	if inter.Type == models.InteractionRendezVous {
		if err := s.UpdateLeadStatus(inter.LeadID, models.LeadStatutQualifie); err != nil {
			s.log.Warn("qualification du lead échouée",
				zap.Uint("lead_id", inter.LeadID), zap.Error(err))
		}
	}
	return nil
}

// CalculateLeadScore recalcule le score depuis l'historique complet des
// interactions, l'écrit sur le lead et le retourne. Fonction pure de
// l'historique : rejouer sans nouvelle interaction rend le même score.
func (s *CRMService) CalculateLeadScore(leadID uint) (int, error) {
	var interactions []models.LeadInteraction
	if err := s.db.Where("lead_id = ?", leadID).Find(&interactions).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndisponible, err)
	}

	score := 0
	for _, inter := range interactions {
		score += PointsInteraction[inter.Type]
	}

	if err := s.db.Model(&models.Lead{}).Where("id = ?", leadID).
		Update("score", score).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndisponible, err)
	}
	return score, nil
}

// UpdateLeadStatus change le statut d'un lead existant.
func (s *CRMService) UpdateLeadStatus(leadID uint, statut string) error {
	res := s.db.Model(&models.Lead{}).Where("id = ?", leadID).Update("statut", statut)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrIndisponible, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: lead %d", ErrIntrouvable, leadID)
	}
	return nil
}

// Pondération du score d'engagement, distinct du scoring des leads :
// un signal analytique tolérant à la dérive, pas une règle métier.
var poidsEngagement = map[string]float64{
	models.InteractionFormulaire:     10,
	models.InteractionDevisEnLigne:   15,
	models.InteractionRendezVous:     20,
	models.InteractionTelechargement: 5,
	models.InteractionChat:           3,
	models.InteractionEmail:          2,
}

// EngagementScore pondère les 100 dernières interactions par une décote
// de récence — max(0.5, 1.5 − jours×0.1) — puis applique un facteur de
// fréquence plafonné à 1.2 selon le nombre de jours actifs distincts.
func (s *CRMService) EngagementScore(leadID uint) (float64, error) {
	return s.engagementScoreA(leadID, time.Now())
}

func (s *CRMService) engagementScoreA(leadID uint, maintenant time.Time) (float64, error) {
	var interactions []models.LeadInteraction
	if err := s.db.Where("lead_id = ?", leadID).
		Order("created_at DESC").Limit(100).
		Find(&interactions).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndisponible, err)
	}

	joursActifs := map[string]struct{}{}
	total := 0.0
	for _, inter := range interactions {
		jours := maintenant.Sub(inter.CreatedAt).Hours() / 24
		decote := 1.5 - jours*0.1
		if decote < 0.5 {
			decote = 0.5
		}
		total += poidsEngagement[inter.Type] * decote
		joursActifs[inter.CreatedAt.Format("2006-01-02")] = struct{}{}
	}

	if len(joursActifs) > 1 {
		facteur := 1 + 0.05*float64(len(joursActifs)-1)
		if facteur > 1.2 {
			facteur = 1.2
		}
		total *= facteur
	}
	return total, nil
}
