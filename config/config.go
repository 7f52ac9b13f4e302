package config

import (
	"log"
	"os"
)

// Config contient la configuration principale du portail.
type Config struct {
	Env       string
	Port      string
	JWTSecret string

	DatabaseURL string

	// Fichier local des simulations enregistrées.
	SimulationsFichier string

	// Barème fiscal externe (YAML); vide = constantes compilées.
	BaremeFichier string

	// Clés VAPID pour la livraison web push.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string

	// Assistant conversationnel hébergé.
	AssistantAPIKey  string
	AssistantAgentID string
	AssistantBaseURL string

	CabinetNom string
}

// Load charge la configuration à partir des variables d'environnement.
func Load() Config {
	cfg := Config{
		Env:                getEnv("PORTAIL_ENV", "development"),
		Port:               getEnv("PORT", "3030"),
		JWTSecret:          getEnv("JWT_SECRET", "changeme-super-secret"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SimulationsFichier: getEnv("SIMULATIONS_FICHIER", "simulations.json"),
		BaremeFichier:      getEnv("BAREME_FICHIER", ""),
		VAPIDPublicKey:     getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:    getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:       getEnv("VAPID_SUBJECT", "mailto:contact@mbc-consulting.fr"),
		AssistantAPIKey:    getEnv("ASSISTANT_API_KEY", ""),
		AssistantAgentID:   getEnv("ASSISTANT_AGENT_ID", ""),
		AssistantBaseURL:   getEnv("ASSISTANT_API_BASE", ""),
		CabinetNom:         getEnv("CABINET_NOM", "MBC Consulting"),
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == "changeme-super-secret" {
		log.Println("[AVERTISSEMENT] JWT_SECRET n'est pas configuré ou utilise la valeur par défaut. Ne pas utiliser en production.")
	}

	if cfg.VAPIDPrivateKey == "" {
		log.Println("[INFO] Clés VAPID absentes. La livraison push sera désactivée.")
	}

	return cfg
}

func (c Config) HTTPAddr() string {
	return ":" + c.Port
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
