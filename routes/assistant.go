package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mbc-portail/integrations/assistant"
	"mbc-portail/middleware"
	"mbc-portail/models"
)

// AssistantHandler relaie les questions vers l'agent conversationnel et
// archive l'échange dans l'historique du client.
type AssistantHandler struct {
	client *assistant.Client
	db     *gorm.DB
	log    *zap.Logger
}

// NewAssistantHandler accepte un client nul : l'assistant est alors
// désactivé et les requêtes reçoivent directement le message de repli.
func NewAssistantHandler(client *assistant.Client, db *gorm.DB, log *zap.Logger) *AssistantHandler {
	return &AssistantHandler{client: client, db: db, log: log}
}

func (h *AssistantHandler) Setup(app *fiber.App, jwtSecret string) {
	grp := app.Group("/api/assistant", middleware.JWT(jwtSecret))
	grp.Post("/message", h.message)
}

type messagePayload struct {
	Message string `json:"message"`
}

func (h *AssistantHandler) message(c *fiber.Ctx) error {
	var body messagePayload
	if err := c.BodyParser(&body); err != nil || body.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message requis"})
	}

	clientID := utilisateurCourant(c)
	h.archiver(clientID, "client", body.Message)

	reponse := assistant.MessageRepli
	depuisAgent := false
	if h.client != nil {
		reponse, depuisAgent = h.client.Repondre(c.Context(), body.Message)
	}
	h.archiver(clientID, "assistant", reponse)

	return c.JSON(fiber.Map{
		"reponse":      reponse,
		"depuis_agent": depuisAgent,
	})
}

func (h *AssistantHandler) archiver(clientID uint, role, contenu string) {
	err := h.db.Create(&models.MessageHistorique{
		ClientID:  clientID,
		Role:      role,
		Contenu:   contenu,
		Type:      "assistant",
		DateEnvoi: time.Now(),
	}).Error
	if err != nil {
		h.log.Warn("historique assistant non archivé", zap.Error(err))
	}
}
