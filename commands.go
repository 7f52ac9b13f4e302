package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mbc-portail/config"
	"mbc-portail/database"
	"mbc-portail/integrations/assistant"
	"mbc-portail/routes"
	"mbc-portail/services"
	"mbc-portail/simulateur"
	"mbc-portail/simulation"
)

func racine() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portail",
		Short: "Portail client et simulateurs du cabinet MBC",
	}
	cmd.AddCommand(cmdServe(), cmdPurgeNotifications())
	return cmd
}

func nouveauLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func ouvrir(cfg config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Seed(db); err != nil {
		return nil, err
	}
	logger.Info("base connectée et migrée")
	return db, nil
}

func cmdServe() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Démarre l'API du portail",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			logger, err := nouveauLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := ouvrir(cfg, logger)
			if err != nil {
				return err
			}

			bareme := simulateur.BaremeParDefaut()
			if cfg.BaremeFichier != "" {
				bareme, err = simulateur.ChargerBareme(cfg.BaremeFichier)
				if err != nil {
					return err
				}
				logger.Info("barème chargé",
					zap.String("fichier", cfg.BaremeFichier),
					zap.Int("annee", bareme.Annee))
			}

			store := simulation.NewStore(cfg.SimulationsFichier, logger)
			push := services.NewWebPushSender(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject, logger)
			crm := services.NewCRMService(db, logger)
			notifs := services.NewNotificationService(db, logger, push)

			var agent *assistant.Client
			if cfg.AssistantAPIKey != "" {
				agent, err = assistant.NewClient(cfg.AssistantAPIKey, cfg.AssistantAgentID, cfg.AssistantBaseURL)
				if err != nil {
					logger.Warn("assistant désactivé", zap.Error(err))
				}
			}

			app := fiber.New()

			// CORS
			app.Use(cors.New(cors.Config{
				AllowOrigins: "*",
				AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			}))

			app.Get("/health", func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{"service": "mbc-portail", "status": "ok"})
			})

			routes.NewAuthHandler(db, cfg, logger).Setup(app)
			routes.NewSimulateurHandler(bareme, store, cfg.CabinetNom, logger).Setup(app, cfg.JWTSecret)
			routes.NewLeadHandler(crm, logger).Setup(app)
			routes.NewNotificationHandler(notifs).Setup(app, cfg.JWTSecret)
			routes.NewDocumentHandler(db, notifs, logger).Setup(app, cfg.JWTSecret)
			routes.NewAssistantHandler(agent, db, logger).Setup(app, cfg.JWTSecret)

			// Servir le site statique
			app.Static("/", "./public")

			// Démarrage gracieux
			go func() {
				logger.Info("serveur en écoute", zap.String("addr", cfg.HTTPAddr()))
				if err := app.Listen(cfg.HTTPAddr()); err != nil {
					logger.Error("serveur arrêté", zap.Error(err))
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			logger.Info("arrêt du portail")
			return app.Shutdown()
		},
	}
}

func cmdPurgeNotifications() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-notifications",
		Short: "Purge les notifications expirées (balayage d'entretien)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			logger, err := nouveauLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := ouvrir(cfg, logger)
			if err != nil {
				return err
			}

			notifs := services.NewNotificationService(db, logger, nil)
			n, err := notifs.CleanupExpired()
			if err != nil {
				return err
			}
			logger.Info("notifications purgées", zap.Int64("supprimees", n))
			return nil
		},
	}
}
