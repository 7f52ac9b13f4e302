package services

import (
	"encoding/json"
	"errors"
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
)

// PushData est la charge utile annexe d'une notification push.
type PushData struct {
	URL string `json:"url"`
}

// PushPayload est le JSON envoyé au service worker du navigateur.
type PushPayload struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Icon  string   `json:"icon"`
	Badge string   `json:"badge"`
	Data  PushData `json:"data"`
}

// PushSender abstrait le fournisseur de push; les tests injectent un faux.
type PushSender interface {
	Envoyer(subscription string, payload PushPayload) error
}

// WebPushSender livre via le protocole Web Push avec des clés VAPID.
type WebPushSender struct {
	publique string
	privee   string
	sujet    string
	log      *zap.Logger
}

func NewWebPushSender(publique, privee, sujet string, log *zap.Logger) *WebPushSender {
	return &WebPushSender{publique: publique, privee: privee, sujet: sujet, log: log}
}

// Envoyer pousse la charge vers l'abonnement stocké (JSON opaque du
// navigateur). L'appelant décide quoi faire de l'erreur — ici elle est
// toujours avalée par le service de notifications.
func (w *WebPushSender) Envoyer(subscription string, payload PushPayload) error {
	if w.privee == "" {
		return errors.New("clés VAPID absentes")
	}

	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(subscription), &sub); err != nil {
		return fmt.Errorf("abonnement push illisible: %w", err)
	}

	corps, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := webpush.SendNotification(corps, &sub, &webpush.Options{
		Subscriber:      w.sujet,
		VAPIDPublicKey:  w.publique,
		VAPIDPrivateKey: w.privee,
		TTL:             60,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push refusé: statut %d", resp.StatusCode)
	}
	return nil
}
