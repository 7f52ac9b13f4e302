package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mbc-portail/config"
	"mbc-portail/models"
	"mbc-portail/utils"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg config.Config
	log *zap.Logger
}

func NewAuthHandler(db *gorm.DB, cfg config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, log: log}
}

func (h *AuthHandler) Setup(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/register", h.register)
	auth.Post("/login", h.login)
}

type authPayload struct {
	Nom      string `json:"nom"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var body authPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}

	// vérifier si email déjà existant
	var existing models.User
	h.db.Where("email = ?", body.Email).First(&existing)
	if existing.ID != 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email déjà enregistré"})
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Impossible de hasher le mot de passe"})
	}

	user := models.User{
		Nom:      body.Nom,
		Email:    body.Email,
		Password: hash,
	}

	if err := h.db.Create(&user).Error; err != nil {
		h.log.Error("création utilisateur échouée", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur création utilisateur"})
	}

	return c.JSON(fiber.Map{"token": h.jeton(user.ID)})
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var body authPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}

	var user models.User
	h.db.Where("email = ?", body.Email).First(&user)
	if user.ID == 0 || !utils.CheckPassword(user.Password, body.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Email ou mot de passe invalide"})
	}

	return c.JSON(fiber.Map{"token": h.jeton(user.ID)})
}

func (h *AuthHandler) jeton(userID uint) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	t, _ := token.SignedString([]byte(h.cfg.JWTSecret))
	return t
}
