package services

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/models"
)

func newWebhookTarget() (*httptest.Server, *int32) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	return server, &hits
}

func newTestNotifier(globalURL string) *WebhookNotificationService {
	return &WebhookNotificationService{
		client:     resty.New().SetTimeout(2 * time.Second),
		webhookURL: globalURL,
	}
}

func TestNotifyUsesContractorWebhookURL(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	contractorTarget, contractorHits := newWebhookTarget()
	defer contractorTarget.Close()
	globalTarget, globalHits := newWebhookTarget()
	defer globalTarget.Close()

	contractor := models.Contractor{
		Auth0ID:      "auth0|webhook-owner",
		BusinessName: "Rowan Mechanical",
		Email:        "webhooks@rowanmechanical.com",
		WebhookURL:   contractorTarget.URL,
	}
	require.NoError(t, db.Create(&contractor).Error)

	svc := newTestNotifier(globalTarget.URL)

	err := svc.Notify(contractor.ID, "job.test", map[string]interface{}{"job_id": "j-1"})
	assert.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt32(contractorHits), "event should reach the contractor's endpoint")
	assert.EqualValues(t, 0, atomic.LoadInt32(globalHits), "global endpoint should not be used when the contractor has one")
}

func TestNotifyFallsBackToGlobalWebhookURL(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	globalTarget, globalHits := newWebhookTarget()
	defer globalTarget.Close()

	// Registered without a webhook URL of their own
	contractor := models.Contractor{
		Auth0ID:      "auth0|no-webhook",
		BusinessName: "Rowan Mechanical",
		Email:        "owner@rowanmechanical.com",
	}
	require.NoError(t, db.Create(&contractor).Error)

	svc := newTestNotifier(globalTarget.URL)

	err := svc.Notify(contractor.ID, "job.test", map[string]interface{}{"job_id": "j-2"})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(globalHits))

	// Unknown contractor also falls back to the global endpoint
	err = svc.Notify(9999, "job.test", nil)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(globalHits))
}

func TestNotifyWithoutAnyWebhookURL(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	svc := newTestNotifier("")

	err := svc.Notify(1, "job.test", nil)
	assert.Error(t, err)
}
