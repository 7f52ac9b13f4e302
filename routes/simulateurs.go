package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mbc-portail/export"
	"mbc-portail/middleware"
	"mbc-portail/simulateur"
	"mbc-portail/simulation"
)

// SimulateurHandler sert les calculs (publics) et les simulations
// enregistrées (espace client).
type SimulateurHandler struct {
	bareme  *simulateur.Bareme
	store   *simulation.Store
	cabinet string
	log     *zap.Logger
}

func NewSimulateurHandler(bareme *simulateur.Bareme, store *simulation.Store, cabinet string, log *zap.Logger) *SimulateurHandler {
	return &SimulateurHandler{bareme: bareme, store: store, cabinet: cabinet, log: log}
}

func (h *SimulateurHandler) Setup(app *fiber.App, jwtSecret string) {
	app.Post("/api/simulateurs/:type/calculer", h.calculer)

	sims := app.Group("/api/simulations", middleware.JWT(jwtSecret))
	sims.Post("/", h.enregistrer)
	sims.Get("/:type", h.lister)
	sims.Get("/:type/:id", h.recharger)
	sims.Put("/:id", h.mettreAJour)
	sims.Delete("/:id", h.supprimer)
	sims.Delete("/", h.toutVider)
	sims.Get("/:type/:id/export", h.exporterPDF)
}

type calculPayload struct {
	Saisie simulateur.Saisie `json:"saisie"`
}

func (h *SimulateurHandler) calculer(c *fiber.Ctx) error {
	t, err := simulateur.ParseTypeSimulation(c.Params("type"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	var body calculPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}

	resultat, lignes, err := h.bareme.Calculer(t, body.Saisie)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"resultat": resultat, "lignes": lignes})
}

type enregistrerPayload struct {
	Type   string            `json:"type"`
	Nom    string            `json:"nom"`
	Saisie simulateur.Saisie `json:"saisie"`
}

func (h *SimulateurHandler) enregistrer(c *fiber.Ctx) error {
	var body enregistrerPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}
	t, err := simulateur.ParseTypeSimulation(body.Type)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	enr, err := h.store.Save(t, body.Nom, body.Saisie)
	if err != nil {
		if errors.Is(err, simulation.ErrNomVide) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nom requis"})
		}
		h.log.Error("enregistrement simulation échoué", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Enregistrement impossible"})
	}
	return c.Status(fiber.StatusCreated).JSON(enr)
}

func (h *SimulateurHandler) lister(c *fiber.Ctx) error {
	t, err := simulateur.ParseTypeSimulation(c.Params("type"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"simulations": h.store.ListByType(t)})
}

// recharger rend la saisie persistée et les sorties recalculées :
// seules les entrées sont stockées.
func (h *SimulateurHandler) recharger(c *fiber.Ctx) error {
	enr, ok := h.store.GetByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Simulation introuvable"})
	}

	resultat, lignes, err := h.bareme.Calculer(enr.Type, enr.Donnees)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"simulation": enr, "resultat": resultat, "lignes": lignes})
}

type majPayload struct {
	Nom    string            `json:"nom"`
	Saisie simulateur.Saisie `json:"saisie"`
}

func (h *SimulateurHandler) mettreAJour(c *fiber.Ctx) error {
	var body majPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}
	if err := h.store.Update(c.Params("id"), simulation.MiseAJour{
		Nom:     body.Nom,
		Donnees: body.Saisie,
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Mise à jour impossible"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SimulateurHandler) supprimer(c *fiber.Ctx) error {
	if err := h.store.Delete(c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Suppression impossible"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SimulateurHandler) toutVider(c *fiber.Ctx) error {
	if err := h.store.ClearAll(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Suppression impossible"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SimulateurHandler) exporterPDF(c *fiber.Ctx) error {
	enr, ok := h.store.GetByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Simulation introuvable"})
	}

	_, lignes, err := h.bareme.Calculer(enr.Type, enr.Donnees)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	doc, err := export.PDF(h.cabinet, enr.Type, lignes)
	if err != nil {
		h.log.Error("export PDF échoué", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Export impossible"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.NomFichier(enr.Type)+`"`)
	return c.Send(doc)
}
