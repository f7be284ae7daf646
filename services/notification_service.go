package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/models"
)

// NotificationService delivers dispatch events to the contractor. Delivery is
// best-effort: callers log failures and move on, they never surface them as
// the primary operation's error.
type NotificationService interface {
	Notify(contractorID uint, eventType string, payload map[string]interface{}) error
}

// WebhookNotificationService posts events to a configured webhook endpoint.
type WebhookNotificationService struct {
	client     *resty.Client
	webhookURL string
}

var notificationServiceInstance NotificationService = &NoopNotificationService{}

// InitNotificationService initializes the webhook notifier from config
func InitNotificationService(cfg *config.Config) NotificationService {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2)

	notificationServiceInstance = &WebhookNotificationService{
		client:     client,
		webhookURL: cfg.NotifyWebhookURL,
	}
	return notificationServiceInstance
}

// GetNotificationService returns the notification service instance
func GetNotificationService() NotificationService {
	return notificationServiceInstance
}

// SetNotificationService sets the notification service instance (primarily
// for testing)
func SetNotificationService(service NotificationService) {
	notificationServiceInstance = service
}

// Notify posts the event to the contractor's registered webhook URL,
// falling back to the globally configured endpoint.
func (s *WebhookNotificationService) Notify(contractorID uint, eventType string, payload map[string]interface{}) error {
	url := s.resolveWebhookURL(contractorID)
	if url == "" {
		return errors.New("no webhook URL configured")
	}

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"contractor_id": contractorID,
			"event_type":    eventType,
			"payload":       payload,
			"sent_at":       time.Now().UTC(),
		}).
		Post(url)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode())
	}

	return nil
}

// resolveWebhookURL prefers the webhook URL the contractor registered with,
// then the global endpoint.
func (s *WebhookNotificationService) resolveWebhookURL(contractorID uint) string {
	if db := config.GetDB(); db != nil {
		var contractor models.Contractor
		if err := db.Select("webhook_url").First(&contractor, contractorID).Error; err == nil && contractor.WebhookURL != "" {
			return contractor.WebhookURL
		}
	}
	return s.webhookURL
}

// NoopNotificationService drops every event. Used until the real notifier is
// initialized.
type NoopNotificationService struct{}

// Notify discards the event
func (s *NoopNotificationService) Notify(contractorID uint, eventType string, payload map[string]interface{}) error {
	return nil
}
