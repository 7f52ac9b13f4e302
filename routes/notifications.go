package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"mbc-portail/middleware"
	"mbc-portail/services"
)

// NotificationHandler expose le centre de notifications de l'espace
// client. Toutes les routes sont authentifiées.
type NotificationHandler struct {
	notifs *services.NotificationService
}

func NewNotificationHandler(notifs *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifs: notifs}
}

func (h *NotificationHandler) Setup(app *fiber.App, jwtSecret string) {
	grp := app.Group("/api/notifications", middleware.JWT(jwtSecret))
	grp.Get("/", h.lister)
	grp.Get("/non-lues", h.compterNonLues)
	grp.Post("/abonnement", h.enregistrerAbonnement)
	grp.Patch("/tout-lu", h.toutMarquerLu)
	grp.Patch("/:id/lu", h.marquerLu)
	grp.Delete("/lues", h.supprimerLues)
	grp.Delete("/:id", h.supprimer)
}

func (h *NotificationHandler) lister(c *fiber.Ctx) error {
	notifs, err := h.notifs.List(utilisateurCourant(c))
	if err != nil {
		return repondreErreur(c, err)
	}
	return c.JSON(fiber.Map{"notifications": notifs})
}

func (h *NotificationHandler) compterNonLues(c *fiber.Ctx) error {
	n, err := h.notifs.UnreadCount(utilisateurCourant(c))
	if err != nil {
		return repondreErreur(c, err)
	}
	return c.JSON(fiber.Map{"non_lues": n})
}

func (h *NotificationHandler) marquerLu(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant invalide"})
	}
	if err := h.notifs.MarkAsRead(uint(id)); err != nil {
		return repondreErreur(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) toutMarquerLu(c *fiber.Ctx) error {
	if err := h.notifs.MarkAllAsRead(utilisateurCourant(c)); err != nil {
		return repondreErreur(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) supprimer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant invalide"})
	}
	if err := h.notifs.Delete(uint(id)); err != nil {
		return repondreErreur(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) supprimerLues(c *fiber.Ctx) error {
	if err := h.notifs.DeleteAllRead(utilisateurCourant(c)); err != nil {
		return repondreErreur(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type abonnementPayload struct {
	Subscription string `json:"subscription"`
}

func (h *NotificationHandler) enregistrerAbonnement(c *fiber.Ctx) error {
	var body abonnementPayload
	if err := c.BodyParser(&body); err != nil || body.Subscription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Abonnement requis"})
	}
	if err := h.notifs.SavePushSubscription(utilisateurCourant(c), body.Subscription); err != nil {
		return repondreErreur(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
