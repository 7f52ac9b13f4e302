package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/osteele/liquid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mbc-portail/models"
)

// NotificationService compose et distribue les notifications : fiche
// in-app, et push navigateur en meilleur effort.
type NotificationService struct {
	db     *gorm.DB
	log    *zap.Logger
	push   PushSender
	moteur *liquid.Engine
}

func NewNotificationService(db *gorm.DB, log *zap.Logger, push PushSender) *NotificationService {
	return &NotificationService{
		db:     db,
		log:    log,
		push:   push,
		moteur: liquid.NewEngine(),
	}
}

// EnvoiNotification est la demande d'envoi. Le type se résout par
// identifiant ou par code lisible (ex. document_uploaded). Les champs
// laissés vides sont complétés depuis le gabarit du type, et les
// segments {{cle}} substitués depuis Metadata.
type EnvoiNotification struct {
	UserID    uint
	TypeID    uint
	TypeCode  string
	Titre     string
	Message   string
	ActionURL string
	Metadata  map[string]any
	ExpiresAt *time.Time
}

// Send crée la notification in-app sauf refus explicite du destinataire
// (préférence in_app désactivée : l'envoi est avalé, pas une erreur),
// puis tente la livraison push. Un échec push n'échoue jamais l'appel.
func (s *NotificationService) Send(e EnvoiNotification) error {
	typ, err := s.resoudreType(e)
	if err != nil {
		return err
	}

	var gabarit models.NotificationTemplate
	avecGabarit := s.db.Where("type_id = ?", typ.ID).First(&gabarit).Error == nil
	if avecGabarit {
		if e.Titre == "" {
			e.Titre = gabarit.Titre
		}
		if e.Message == "" {
			e.Message = gabarit.Message
		}
		if e.ActionURL == "" {
			e.ActionURL = gabarit.ActionURL
		}
	}

	e.Titre = s.substituer(e.Titre, e.Metadata)
	e.Message = s.substituer(e.Message, e.Metadata)
	e.ActionURL = s.substituer(e.ActionURL, e.Metadata)

	pref, avecPref := s.preference(e.UserID, typ.ID)

	if !avecPref || models.CanalActif(pref.InAppEnabled) {
		notif := models.Notification{
			UserID:    e.UserID,
			TypeID:    typ.ID,
			Titre:     e.Titre,
			Message:   e.Message,
			Type:      typ.Couleur,
			ActionURL: e.ActionURL,
			Metadata:  datatypes.JSONMap(e.Metadata),
			ExpiresAt: e.ExpiresAt,
		}
		if err := s.db.Create(&notif).Error; err != nil {
			s.log.Error("notification non créée",
				zap.Uint("user_id", e.UserID), zap.Error(err))
			return fmt.Errorf("%w: %v", ErrIndisponible, err)
		}
	} else {
		s.log.Debug("notification in-app désactivée pour ce type",
			zap.Uint("user_id", e.UserID), zap.Uint("type_id", typ.ID))
	}

	if !avecPref || models.CanalActif(pref.PushEnabled) {
		s.envoyerPush(e)
	}
	return nil
}

func (s *NotificationService) resoudreType(e EnvoiNotification) (models.NotificationType, error) {
	var typ models.NotificationType
	q := s.db
	switch {
	case e.TypeID != 0:
		q = q.Where("id = ?", e.TypeID)
	case e.TypeCode != "":
		q = q.Where("code = ?", e.TypeCode)
	default:
		return typ, fmt.Errorf("%w: type de notification requis", ErrValidation)
	}
	if err := q.First(&typ).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return typ, fmt.Errorf("%w: type de notification", ErrIntrouvable)
		}
		return typ, fmt.Errorf("%w: %v", ErrIndisponible, err)
	}
	return typ, nil
}

func (s *NotificationService) preference(userID, typeID uint) (models.NotificationPreference, bool) {
	var pref models.NotificationPreference
	err := s.db.Where("user_id = ? AND type_id = ?", userID, typeID).First(&pref).Error
	return pref, err == nil
}

// substituer remplace les segments {{cle}} par les metadata. Un gabarit
// illisible est rendu tel quel plutôt que de bloquer l'envoi.
func (s *NotificationService) substituer(texte string, metadata map[string]any) string {
	if texte == "" || metadata == nil {
		return texte
	}
	rendu, err := s.moteur.ParseAndRenderString(texte, metadata)
	if err != nil {
		s.log.Warn("substitution de gabarit échouée", zap.Error(err))
		return texte
	}
	return rendu
}

// envoyerPush tente la livraison via l'abonnement stocké. Meilleur
// effort : tout échec est journalisé puis ignoré.
func (s *NotificationService) envoyerPush(e EnvoiNotification) {
	if s.push == nil {
		return
	}
	var pref models.UserPreference
	if err := s.db.Where("user_id = ?", e.UserID).First(&pref).Error; err != nil {
		return
	}
	if pref.PushSubscription == "" {
		return
	}

	err := s.push.Envoyer(pref.PushSubscription, PushPayload{
		Title: e.Titre,
		Body:  e.Message,
		Icon:  "/icons/icon-192.png",
		Badge: "/icons/badge-72.png",
		Data:  PushData{URL: e.ActionURL},
	})
	if err != nil {
		s.log.Warn("livraison push échouée",
			zap.Uint("user_id", e.UserID), zap.Error(err))
	}
}

// List retourne les notifications du client, les plus récentes d'abord.
func (s *NotificationService) List(userID uint) ([]models.Notification, error) {
	var notifs []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&notifs).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndisponible, err)
	}
	return notifs, nil
}

// UnreadCount est toujours dérivé du stock — aucun compteur à tenir.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND lu = ?", userID, false).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndisponible, err)
	}
	return n, nil
}

// MarkAsRead passe lu à vrai. Transition monotone : jamais l'inverse.
func (s *NotificationService) MarkAsRead(id uint) error {
	res := s.db.Model(&models.Notification{}).Where("id = ?", id).Update("lu", true)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrIndisponible, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: notification %d", ErrIntrouvable, id)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(userID uint) error {
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND lu = ?", userID, false).
		Update("lu", true).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrIndisponible, err)
	}
	return nil
}

func (s *NotificationService) Delete(id uint) error {
	if err := s.db.Unscoped().Delete(&models.Notification{}, id).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrIndisponible, err)
	}
	return nil
}

func (s *NotificationService) DeleteAllRead(userID uint) error {
	if err := s.db.Unscoped().
		Where("user_id = ? AND lu = ?", userID, true).
		Delete(&models.Notification{}).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrIndisponible, err)
	}
	return nil
}

// CleanupExpired purge les notifications dont l'expiration est passée.
// Balayage d'entretien, déclenché par la commande dédiée.
func (s *NotificationService) CleanupExpired() (int64, error) {
	res := s.db.Unscoped().
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndisponible, res.Error)
	}
	return res.RowsAffected, nil
}

// SavePushSubscription stocke l'abonnement push du navigateur tel quel.
func (s *NotificationService) SavePushSubscription(userID uint, subscription string) error {
	pref := models.UserPreference{UserID: userID, PushSubscription: subscription}
	err := s.db.Where("user_id = ?", userID).
		Assign(models.UserPreference{PushSubscription: subscription}).
		FirstOrCreate(&pref).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndisponible, err)
	}
	return nil
}
