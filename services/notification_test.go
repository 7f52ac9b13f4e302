package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mbc-portail/models"
)

// fauxPush enregistre les livraisons; peut simuler une panne.
type fauxPush struct {
	envois []PushPayload
	panne  bool
}

func (f *fauxPush) Envoyer(_ string, p PushPayload) error {
	if f.panne {
		return errors.New("passerelle push en panne")
	}
	f.envois = append(f.envois, p)
	return nil
}

func preparerNotifications(t *testing.T) (*gorm.DB, *NotificationService, *fauxPush, models.NotificationType) {
	t.Helper()
	db := baseDeTest(t)
	push := &fauxPush{}
	svc := NewNotificationService(db, zap.NewNop(), push)

	typ := models.NotificationType{
		Code:    models.TypeDocumentUploaded,
		Libelle: "Document déposé",
		Couleur: models.NotificationSuccess,
	}
	require.NoError(t, db.Create(&typ).Error)

	// abonnement push factice pour l'utilisateur 1
	require.NoError(t, db.Create(&models.UserPreference{
		UserID:           1,
		PushSubscription: `{"endpoint":"https://push.example/abc"}`,
	}).Error)

	return db, svc, push, typ
}

func TestSendNotification(t *testing.T) {
	db, svc, push, typ := preparerNotifications(t)

	require.NoError(t, svc.Send(EnvoiNotification{
		UserID:   1,
		TypeCode: models.TypeDocumentUploaded,
		Titre:    "Nouveau document",
		Message:  "Votre liasse fiscale est disponible",
	}))

	var notifs []models.Notification
	require.NoError(t, db.Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, typ.ID, notifs[0].TypeID)
	assert.Equal(t, models.NotificationSuccess, notifs[0].Type)
	assert.False(t, notifs[0].Lu)

	require.Len(t, push.envois, 1)
	assert.Equal(t, "Nouveau document", push.envois[0].Title)
}

func TestSendAvecGabarit(t *testing.T) {
	db, svc, _, typ := preparerNotifications(t)

	require.NoError(t, db.Create(&models.NotificationTemplate{
		TypeID:    typ.ID,
		Titre:     "Document « {{document_name}} » déposé",
		Message:   "Le document {{document_name}} est disponible dans votre espace.",
		ActionURL: "/espace-client/documents/{{document_id}}",
	}).Error)

	require.NoError(t, svc.Send(EnvoiNotification{
		UserID:   1,
		TypeCode: models.TypeDocumentUploaded,
		Metadata: map[string]any{
			"document_name": "Bilan 2024.pdf",
			"document_id":   "42",
		},
	}))

	var notif models.Notification
	require.NoError(t, db.First(&notif).Error)
	assert.Equal(t, "Document « Bilan 2024.pdf » déposé", notif.Titre)
	assert.Equal(t, "Le document Bilan 2024.pdf est disponible dans votre espace.", notif.Message)
	assert.Equal(t, "/espace-client/documents/42", notif.ActionURL)
}

func drapeau(b bool) *bool { return &b }

func TestSendInAppDesactive(t *testing.T) {
	db, svc, push, typ := preparerNotifications(t)

	require.NoError(t, db.Create(&models.NotificationPreference{
		UserID:       1,
		TypeID:       typ.ID,
		InAppEnabled: drapeau(false),
	}).Error)

	// le refus explicite survit à l'insertion (colonne à défaut true)
	var pref models.NotificationPreference
	require.NoError(t, db.Where("user_id = ? AND type_id = ?", 1, typ.ID).First(&pref).Error)
	require.NotNil(t, pref.InAppEnabled)
	require.False(t, *pref.InAppEnabled)
	// les canaux non renseignés retombent sur le défaut activé
	assert.True(t, models.CanalActif(pref.PushEnabled))

	// refus explicite de l'in-app : pas de fiche, mais l'appel réussit
	require.NoError(t, svc.Send(EnvoiNotification{
		UserID:   1,
		TypeCode: models.TypeDocumentUploaded,
		Titre:    "invisible",
	}))

	var n int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&n).Error)
	assert.Zero(t, n)
	// le push, lui, part quand même
	assert.Len(t, push.envois, 1)
}

func TestSendPushDesactive(t *testing.T) {
	db, svc, push, typ := preparerNotifications(t)

	require.NoError(t, db.Create(&models.NotificationPreference{
		UserID:      1,
		TypeID:      typ.ID,
		PushEnabled: drapeau(false),
	}).Error)

	require.NoError(t, svc.Send(EnvoiNotification{
		UserID:   1,
		TypeCode: models.TypeDocumentUploaded,
		Titre:    "sans push",
	}))

	var n int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	assert.Empty(t, push.envois)
}

func TestSendPanneNonFatale(t *testing.T) {
	db, svc, push, _ := preparerNotifications(t)
	push.panne = true

	// l'échec de livraison push n'échoue jamais l'envoi
	require.NoError(t, svc.Send(EnvoiNotification{
		UserID:   1,
		TypeCode: models.TypeDocumentUploaded,
		Titre:    "quand même",
	}))

	var n int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestSendTypeInconnu(t *testing.T) {
	_, svc, _, _ := preparerNotifications(t)

	err := svc.Send(EnvoiNotification{UserID: 1, TypeCode: "inexistant"})
	require.ErrorIs(t, err, ErrIntrouvable)

	err = svc.Send(EnvoiNotification{UserID: 1})
	require.ErrorIs(t, err, ErrValidation)
}

func TestMarkAsReadMonotone(t *testing.T) {
	db, svc, _, typ := preparerNotifications(t)

	notif := models.Notification{UserID: 1, TypeID: typ.ID, Titre: "t"}
	require.NoError(t, db.Create(&notif).Error)

	require.NoError(t, svc.MarkAsRead(notif.ID))

	var relu models.Notification
	require.NoError(t, db.First(&relu, notif.ID).Error)
	assert.True(t, relu.Lu)

	// relire ne revient jamais en arrière
	require.NoError(t, svc.MarkAsRead(notif.ID))
	require.NoError(t, db.First(&relu, notif.ID).Error)
	assert.True(t, relu.Lu)

	require.ErrorIs(t, svc.MarkAsRead(9999), ErrIntrouvable)
}

func TestListEtUnreadCount(t *testing.T) {
	db, svc, _, typ := preparerNotifications(t)

	ancienne := models.Notification{UserID: 1, TypeID: typ.ID, Titre: "ancienne"}
	require.NoError(t, db.Create(&ancienne).Error)
	require.NoError(t, db.Model(&ancienne).
		Update("created_at", time.Now().Add(-time.Hour)).Error)
	require.NoError(t, db.Create(&models.Notification{UserID: 1, TypeID: typ.ID, Titre: "récente"}).Error)

	notifs, err := svc.List(1)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	// les plus récentes d'abord
	assert.Equal(t, "récente", notifs[0].Titre)

	n, err := svc.UnreadCount(1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, svc.MarkAllAsRead(1))
	n, err = svc.UnreadCount(1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteAllRead(t *testing.T) {
	db, svc, _, typ := preparerNotifications(t)

	lue := models.Notification{UserID: 1, TypeID: typ.ID, Titre: "lue", Lu: true}
	require.NoError(t, db.Create(&lue).Error)
	require.NoError(t, db.Create(&models.Notification{UserID: 1, TypeID: typ.ID, Titre: "non lue"}).Error)

	require.NoError(t, svc.DeleteAllRead(1))

	notifs, err := svc.List(1)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "non lue", notifs[0].Titre)
}

func TestCleanupExpired(t *testing.T) {
	db, svc, _, typ := preparerNotifications(t)

	passee := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&models.Notification{
		UserID: 1, TypeID: typ.ID, Titre: "expirée", ExpiresAt: &passee,
	}).Error)
	require.NoError(t, db.Create(&models.Notification{
		UserID: 1, TypeID: typ.ID, Titre: "valide", ExpiresAt: &future,
	}).Error)
	require.NoError(t, db.Create(&models.Notification{
		UserID: 1, TypeID: typ.ID, Titre: "sans expiration",
	}).Error)

	n, err := svc.CleanupExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	notifs, err := svc.List(1)
	require.NoError(t, err)
	assert.Len(t, notifs, 2)
}

func TestSavePushSubscription(t *testing.T) {
	db, svc, _, _ := preparerNotifications(t)

	require.NoError(t, svc.SavePushSubscription(7, `{"endpoint":"https://push.example/x"}`))
	// ré-enregistrer remplace l'abonnement, sans doublon
	require.NoError(t, svc.SavePushSubscription(7, `{"endpoint":"https://push.example/y"}`))

	var pref models.UserPreference
	require.NoError(t, db.Where("user_id = ?", 7).First(&pref).Error)
	assert.Contains(t, pref.PushSubscription, "/y")

	var n int64
	require.NoError(t, db.Model(&models.UserPreference{}).Where("user_id = ?", 7).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
