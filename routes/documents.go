package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mbc-portail/middleware"
	"mbc-portail/models"
	"mbc-portail/services"
)

// DocumentHandler enregistre les métadonnées des documents déposés.
// Le fichier lui-même part vers le stockage objet externe; ici on garde
// la fiche et on déclenche la notification de dépôt.
type DocumentHandler struct {
	db     *gorm.DB
	notifs *services.NotificationService
	log    *zap.Logger
}

func NewDocumentHandler(db *gorm.DB, notifs *services.NotificationService, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{db: db, notifs: notifs, log: log}
}

func (h *DocumentHandler) Setup(app *fiber.App, jwtSecret string) {
	docs := app.Group("/api/documents", middleware.JWT(jwtSecret))
	docs.Post("/", h.deposer)
	docs.Get("/", h.lister)
}

func (h *DocumentHandler) deposer(c *fiber.Ctx) error {
	file, err := c.FormFile("fichier")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Fichier requis"})
	}

	clientID := utilisateurCourant(c)
	dossier := models.Dossier{
		ClientID: clientID,
		Nom:      file.Filename,
		Fichier:  file.Filename,
		Type:     c.FormValue("type"),
		Taille:   file.Size,
	}
	if err := h.db.Create(&dossier).Error; err != nil {
		h.log.Error("dépôt document échoué", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur d'enregistrement"})
	}

	// la notification de dépôt est annexe : son échec n'annule pas le dépôt
	if err := h.notifs.Send(services.EnvoiNotification{
		UserID:   clientID,
		TypeCode: models.TypeDocumentUploaded,
		Metadata: map[string]any{
			"document_name": dossier.Nom,
			"document_id":   strconv.FormatUint(uint64(dossier.ID), 10),
		},
	}); err != nil {
		h.log.Warn("notification de dépôt non envoyée",
			zap.Uint("dossier_id", dossier.ID), zap.Error(err))
	}

	return c.Status(fiber.StatusCreated).JSON(dossier)
}

func (h *DocumentHandler) lister(c *fiber.Ctx) error {
	var dossiers []models.Dossier
	if err := h.db.Where("client_id = ?", utilisateurCourant(c)).
		Order("created_at DESC").Find(&dossiers).Error; err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Erreur de lecture"})
	}
	return c.JSON(fiber.Map{"documents": dossiers})
}
