package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mbc-portail/models"
	"mbc-portail/services"
)

// LeadHandler reçoit les soumissions publiques (formulaire de contact,
// devis en ligne, questionnaire de création) et le suivi d'interactions.
type LeadHandler struct {
	crm *services.CRMService
	log *zap.Logger
}

func NewLeadHandler(crm *services.CRMService, log *zap.Logger) *LeadHandler {
	return &LeadHandler{crm: crm, log: log}
}

func (h *LeadHandler) Setup(app *fiber.App) {
	leads := app.Group("/api/leads")
	leads.Post("/", h.creer)
	leads.Post("/:id/interactions", h.suivre)
	leads.Post("/:id/score", h.recalculerScore)
	leads.Get("/:id/engagement", h.engagement)
	leads.Patch("/:id/statut", h.changerStatut)
}

type leadPayload struct {
	Email       string         `json:"email"`
	Nom         string         `json:"nom"`
	Telephone   string         `json:"telephone"`
	Societe     string         `json:"societe"`
	Source      string         `json:"source"`
	TypeContact string         `json:"type_contact"`
	GDPRConsent bool           `json:"gdpr_consent"`
	Metadata    map[string]any `json:"metadata"`
}

func (h *LeadHandler) creer(c *fiber.Ctx) error {
	var body leadPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}

	lead, err := h.crm.CreateLead(services.NouveauLead{
		Email:       body.Email,
		Nom:         body.Nom,
		Telephone:   body.Telephone,
		Societe:     body.Societe,
		Source:      body.Source,
		TypeContact: body.TypeContact,
		GDPRConsent: body.GDPRConsent,
		Metadata:    body.Metadata,
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

type interactionPayload struct {
	Type     string `json:"type"`
	Canal    string `json:"canal"`
	Contenu  string `json:"contenu"`
	Resultat string `json:"resultat"`
}

func (h *LeadHandler) suivre(c *fiber.Ctx) error {
	leadID, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant invalide"})
	}

	var body interactionPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}

	if err := h.crm.TrackInteraction(models.LeadInteraction{
		LeadID:   leadID,
		Type:     body.Type,
		Canal:    body.Canal,
		Contenu:  body.Contenu,
		Resultat: body.Resultat,
	}); err != nil {
		return repondreErreur(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *LeadHandler) recalculerScore(c *fiber.Ctx) error {
	leadID, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant invalide"})
	}

	score, err := h.crm.CalculateLeadScore(leadID)
	if err != nil {
		return repondreErreur(c, err)
	}
	return c.JSON(fiber.Map{"score": score})
}

func (h *LeadHandler) engagement(c *fiber.Ctx) error {
	leadID, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant invalide"})
	}

	score, err := h.crm.EngagementScore(leadID)
	if err != nil {
		return repondreErreur(c, err)
	}
	return c.JSON(fiber.Map{"engagement": score})
}

type statutPayload struct {
	Statut string `json:"statut"`
}

func (h *LeadHandler) changerStatut(c *fiber.Ctx) error {
	leadID, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant invalide"})
	}

	var body statutPayload
	if err := c.BodyParser(&body); err != nil || body.Statut == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Statut requis"})
	}

	if err := h.crm.UpdateLeadStatus(leadID, body.Statut); err != nil {
		return repondreErreur(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
