// Package routes expose l'API HTTP du portail. Les handlers reçoivent
// leurs dépendances à la construction; aucun singleton de paquet.
package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"mbc-portail/services"
)

// statutPour traduit la classe d'erreur des services en code HTTP.
func statutPour(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConsentement):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrIntrouvable):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrIndisponible):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func repondreErreur(c *fiber.Ctx, err error) error {
	return c.Status(statutPour(err)).JSON(fiber.Map{"error": err.Error()})
}

func utilisateurCourant(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}
