package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mbc-portail/database"
	"mbc-portail/models"
)

func baseDeTest(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCreateLead(t *testing.T) {
	crm := NewCRMService(baseDeTest(t), zap.NewNop())

	lead, err := crm.CreateLead(NouveauLead{
		Email:       "jean@exemple.fr",
		Nom:         "Jean Dupont",
		Source:      "formulaire",
		TypeContact: "creation-entreprise",
		GDPRConsent: true,
		Metadata:    map[string]any{"chiffre_affaires": "50000"},
	})
	require.NoError(t, err)
	assert.NotZero(t, lead.ID)
	assert.Equal(t, models.LeadStatutNouveau, lead.Statut)
	assert.Equal(t, 0, lead.Score)
}

func TestCreateLeadChampsManquants(t *testing.T) {
	crm := NewCRMService(baseDeTest(t), zap.NewNop())

	_, err := crm.CreateLead(NouveauLead{Nom: "Sans Email", GDPRConsent: true})
	require.ErrorIs(t, err, ErrValidation)

	_, err = crm.CreateLead(NouveauLead{Email: "a@b.fr", GDPRConsent: true})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateLeadSansConsentement(t *testing.T) {
	crm := NewCRMService(baseDeTest(t), zap.NewNop())

	// le consentement absent n'est jamais présumé acquis
	_, err := crm.CreateLead(NouveauLead{Email: "a@b.fr", Nom: "X"})
	require.ErrorIs(t, err, ErrConsentement)
}

func TestCalculateLeadScore(t *testing.T) {
	db := baseDeTest(t)
	crm := NewCRMService(db, zap.NewNop())

	lead, err := crm.CreateLead(NouveauLead{Email: "a@b.fr", Nom: "X", GDPRConsent: true})
	require.NoError(t, err)

	for _, typ := range []string{
		models.InteractionFormulaire,     // 10
		models.InteractionTelechargement, // 5
		models.InteractionRendezVous,     // 20
	} {
		require.NoError(t, crm.TrackInteraction(models.LeadInteraction{
			LeadID: lead.ID,
			Type:   typ,
			Canal:  models.CanalWeb,
		}))
	}

	score, err := crm.CalculateLeadScore(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, score)

	// recalcul sans nouvelle interaction : même score
	score, err = crm.CalculateLeadScore(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, score)

	var relu models.Lead
	require.NoError(t, db.First(&relu, lead.ID).Error)
	assert.Equal(t, 35, relu.Score)
}

func TestCalculateLeadScoreTypeInconnu(t *testing.T) {
	crm := NewCRMService(baseDeTest(t), zap.NewNop())
	lead, err := crm.CreateLead(NouveauLead{Email: "a@b.fr", Nom: "X", GDPRConsent: true})
	require.NoError(t, err)

	require.NoError(t, crm.TrackInteraction(models.LeadInteraction{
		LeadID: lead.ID, Type: "visite-salon",
	}))

	score, err := crm.CalculateLeadScore(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

func TestRendezVousQualifieLeLead(t *testing.T) {
	db := baseDeTest(t)
	crm := NewCRMService(db, zap.NewNop())
	lead, err := crm.CreateLead(NouveauLead{Email: "a@b.fr", Nom: "X", GDPRConsent: true})
	require.NoError(t, err)

	require.NoError(t, crm.TrackInteraction(models.LeadInteraction{
		LeadID: lead.ID,
		Type:   models.InteractionRendezVous,
		Canal:  models.CanalCalendly,
	}))

	var relu models.Lead
	require.NoError(t, db.First(&relu, lead.ID).Error)
	assert.Equal(t, models.LeadStatutQualifie, relu.Statut)
}

func TestTrackInteractionInvalide(t *testing.T) {
	crm := NewCRMService(baseDeTest(t), zap.NewNop())
	err := crm.TrackInteraction(models.LeadInteraction{Type: "formulaire"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateLeadStatusIntrouvable(t *testing.T) {
	crm := NewCRMService(baseDeTest(t), zap.NewNop())
	err := crm.UpdateLeadStatus(9999, models.LeadStatutClient)
	require.ErrorIs(t, err, ErrIntrouvable)
}

func TestEngagementScore(t *testing.T) {
	db := baseDeTest(t)
	crm := NewCRMService(db, zap.NewNop())
	lead, err := crm.CreateLead(NouveauLead{Email: "a@b.fr", Nom: "X", GDPRConsent: true})
	require.NoError(t, err)

	maintenant := time.Now()

	// une interaction du jour : décote plafonnée à 1.5, un seul jour actif
	require.NoError(t, crm.TrackInteraction(models.LeadInteraction{
		LeadID: lead.ID, Type: models.InteractionFormulaire,
	}))

	score, err := crm.engagementScoreA(lead.ID, maintenant)
	require.NoError(t, err)
	assert.InDelta(t, 10*1.5, score, 0.1)
}

func TestEngagementScoreDecotePlancher(t *testing.T) {
	db := baseDeTest(t)
	crm := NewCRMService(db, zap.NewNop())
	lead, err := crm.CreateLead(NouveauLead{Email: "a@b.fr", Nom: "X", GDPRConsent: true})
	require.NoError(t, err)

	ancienne := models.LeadInteraction{LeadID: lead.ID, Type: models.InteractionRendezVous}
	require.NoError(t, db.Create(&ancienne).Error)
	// interaction vieille de 30 jours : décote au plancher 0.5
	require.NoError(t, db.Model(&ancienne).
		Update("created_at", time.Now().AddDate(0, 0, -30)).Error)

	score, err := crm.EngagementScore(lead.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20*0.5, score, 0.1)
}

func TestEngagementScoreFacteurFrequence(t *testing.T) {
	db := baseDeTest(t)
	crm := NewCRMService(db, zap.NewNop())
	lead, err := crm.CreateLead(NouveauLead{Email: "a@b.fr", Nom: "X", GDPRConsent: true})
	require.NoError(t, err)

	maintenant := time.Now()

	// deux jours actifs distincts : facteur 1 + 0.05×1 = 1.05
	jour := models.LeadInteraction{LeadID: lead.ID, Type: models.InteractionFormulaire}
	require.NoError(t, db.Create(&jour).Error)
	require.NoError(t, db.Model(&jour).Update("created_at", maintenant).Error)

	veille := models.LeadInteraction{LeadID: lead.ID, Type: models.InteractionEmail}
	require.NoError(t, db.Create(&veille).Error)
	require.NoError(t, db.Model(&veille).
		Update("created_at", maintenant.AddDate(0, 0, -1)).Error)

	score, err := crm.engagementScoreA(lead.ID, maintenant)
	require.NoError(t, err)
	// 10×1.5 + 2×1.4, le tout ×1.05
	assert.InDelta(t, (10*1.5+2*1.4)*1.05, score, 0.1)
}

func TestEngagementScoreFacteurPlafonne(t *testing.T) {
	db := baseDeTest(t)
	crm := NewCRMService(db, zap.NewNop())
	lead, err := crm.CreateLead(NouveauLead{Email: "a@b.fr", Nom: "X", GDPRConsent: true})
	require.NoError(t, err)

	maintenant := time.Now()

	// sept jours actifs distincts : facteur brut 1.3, plafonné à 1.2
	base := 0.0
	for i := 0; i < 7; i++ {
		inter := models.LeadInteraction{LeadID: lead.ID, Type: models.InteractionChat}
		require.NoError(t, db.Create(&inter).Error)
		require.NoError(t, db.Model(&inter).
			Update("created_at", maintenant.AddDate(0, 0, -i)).Error)
		base += 3 * (1.5 - float64(i)*0.1)
	}

	score, err := crm.engagementScoreA(lead.ID, maintenant)
	require.NoError(t, err)
	assert.InDelta(t, base*1.2, score, 0.2)
}
