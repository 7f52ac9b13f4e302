package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mbc-portail/config"
	"mbc-portail/database"
	"mbc-portail/services"
	"mbc-portail/simulateur"
	"mbc-portail/simulation"
)

const secretDeTest = "secret-de-test"

func appDeTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	log := zap.NewNop()
	cfg := config.Config{JWTSecret: secretDeTest, CabinetNom: "MBC Consulting"}
	store := simulation.NewStore(filepath.Join(t.TempDir(), "simulations.json"), log)
	crm := services.NewCRMService(db, log)
	notifs := services.NewNotificationService(db, log, nil)

	app := fiber.New()
	NewAuthHandler(db, cfg, log).Setup(app)
	NewSimulateurHandler(simulateur.BaremeParDefaut(), store, cfg.CabinetNom, log).Setup(app, secretDeTest)
	NewLeadHandler(crm, log).Setup(app)
	NewNotificationHandler(notifs).Setup(app, secretDeTest)
	NewDocumentHandler(db, notifs, log).Setup(app, secretDeTest)
	return app, db
}

func jetonDeTest(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signe, err := token.SignedString([]byte(secretDeTest))
	require.NoError(t, err)
	return signe
}

func requeteJSON(t *testing.T, methode, cible string, corps any, jeton string) *http.Request {
	t.Helper()
	var lecteur io.Reader
	if corps != nil {
		raw, err := json.Marshal(corps)
		require.NoError(t, err)
		lecteur = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(methode, cible, lecteur)
	req.Header.Set("Content-Type", "application/json")
	if jeton != "" {
		req.Header.Set("Authorization", "Bearer "+jeton)
	}
	return req
}

func decoder(t *testing.T, resp *http.Response, cible any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(cible))
}

func TestScenarioSimulationTVA(t *testing.T) {
	app, _ := appDeTest(t)
	jeton := jetonDeTest(t, 1)

	// calcul : 1000 HT à 20 % → 200 de TVA, 1200 TTC
	resp, err := app.Test(requeteJSON(t, http.MethodPost, "/api/simulateurs/tva/calculer", fiber.Map{
		"saisie": fiber.Map{"montant_ht": "1000", "taux": "20"},
	}, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var calcul struct {
		Lignes []simulateur.Ligne `json:"lignes"`
	}
	decoder(t, resp, &calcul)
	require.NotEmpty(t, calcul.Lignes)
	assert.Equal(t, "200,00 €", calcul.Lignes[2].Valeur)
	assert.Equal(t, "1 200,00 €", calcul.Lignes[3].Valeur)

	// sauvegarde sous le nom « Test »
	resp, err = app.Test(requeteJSON(t, http.MethodPost, "/api/simulations/", fiber.Map{
		"type":   "tva",
		"nom":    "Test",
		"saisie": fiber.Map{"montant_ht": "1000", "taux": "20"},
	}, jeton))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var enr simulation.Enregistrement
	decoder(t, resp, &enr)
	require.NotEmpty(t, enr.ID)

	// rechargement : la saisie est restituée, les sorties recalculées
	resp, err = app.Test(requeteJSON(t, http.MethodGet, "/api/simulations/tva/"+enr.ID, nil, jeton))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var recharge struct {
		Simulation simulation.Enregistrement `json:"simulation"`
		Lignes     []simulateur.Ligne        `json:"lignes"`
	}
	decoder(t, resp, &recharge)
	assert.Equal(t, "1000", recharge.Simulation.Donnees["montant_ht"])
	assert.Equal(t, "20", recharge.Simulation.Donnees["taux"])
	assert.Equal(t, "1 200,00 €", recharge.Lignes[3].Valeur)

	// export PDF
	resp, err = app.Test(requeteJSON(t, http.MethodGet, "/api/simulations/tva/"+enr.ID+"/export", nil, jeton))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "simulation-tva-")
	corps, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "%PDF", string(corps[:4]))
}

func TestSimulationSansNom(t *testing.T) {
	app, _ := appDeTest(t)
	resp, err := app.Test(requeteJSON(t, http.MethodPost, "/api/simulations/", fiber.Map{
		"type":   "tva",
		"saisie": fiber.Map{"montant_ht": "1000"},
	}, jetonDeTest(t, 1)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSimulateurInconnu(t *testing.T) {
	app, _ := appDeTest(t)
	resp, err := app.Test(requeteJSON(t, http.MethodPost, "/api/simulateurs/loterie/calculer", fiber.Map{
		"saisie": fiber.Map{},
	}, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSimulationsProtegees(t *testing.T) {
	app, _ := appDeTest(t)
	resp, err := app.Test(requeteJSON(t, http.MethodGet, "/api/simulations/tva", nil, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreationLead(t *testing.T) {
	app, db := appDeTest(t)

	resp, err := app.Test(requeteJSON(t, http.MethodPost, "/api/leads/", fiber.Map{
		"email":        "marie@exemple.fr",
		"nom":          "Marie Martin",
		"source":       "devis-en-ligne",
		"gdpr_consent": true,
		"metadata":     fiber.Map{"regime": "services"},
	}, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var compte int64
	require.NoError(t, db.Table("leads").Count(&compte).Error)
	assert.EqualValues(t, 1, compte)
}

func TestCreationLeadSansConsentement(t *testing.T) {
	app, db := appDeTest(t)

	resp, err := app.Test(requeteJSON(t, http.MethodPost, "/api/leads/", fiber.Map{
		"email": "marie@exemple.fr",
		"nom":   "Marie Martin",
	}, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var compte int64
	require.NoError(t, db.Table("leads").Count(&compte).Error)
	assert.Zero(t, compte)
}

func TestScoreLeadParRoute(t *testing.T) {
	app, _ := appDeTest(t)

	resp, err := app.Test(requeteJSON(t, http.MethodPost, "/api/leads/", fiber.Map{
		"email":        "p@exemple.fr",
		"nom":          "P",
		"gdpr_consent": true,
	}, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var lead struct {
		ID uint `json:"ID"`
	}
	decoder(t, resp, &lead)

	for _, typ := range []string{"formulaire", "telechargement", "rdv"} {
		resp, err = app.Test(requeteJSON(t, http.MethodPost,
			fmt.Sprintf("/api/leads/%d/interactions", lead.ID),
			fiber.Map{"type": typ, "canal": "web"}, ""))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err = app.Test(requeteJSON(t, http.MethodPost,
		fmt.Sprintf("/api/leads/%d/score", lead.ID), nil, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var score struct {
		Score int `json:"score"`
	}
	decoder(t, resp, &score)
	assert.Equal(t, 35, score.Score)
}

func TestNotificationsNonLues(t *testing.T) {
	app, db := appDeTest(t)
	jeton := jetonDeTest(t, 4)

	notifs := services.NewNotificationService(db, zap.NewNop(), nil)
	require.NoError(t, notifs.Send(services.EnvoiNotification{
		UserID:   4,
		TypeCode: "document_uploaded",
		Metadata: map[string]any{"document_name": "bilan.pdf", "document_id": "1"},
	}))

	resp, err := app.Test(requeteJSON(t, http.MethodGet, "/api/notifications/non-lues", nil, jeton))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var nonLues struct {
		NonLues int `json:"non_lues"`
	}
	decoder(t, resp, &nonLues)
	assert.Equal(t, 1, nonLues.NonLues)
}
