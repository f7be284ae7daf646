package services

import "sync"

// MockNotification captures one delivered event for test assertions
type MockNotification struct {
	ContractorID uint
	EventType    string
	Payload      map[string]interface{}
}

// MockNotificationService is a mock implementation of NotificationService for
// testing
type MockNotificationService struct {
	notifications []MockNotification
	failWith      error
	mu            sync.Mutex
}

// NewMockNotificationService creates a new mock notification service
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SetAsMockForTesting sets this mock as the global notification service
// instance for testing
func (m *MockNotificationService) SetAsMockForTesting() {
	SetNotificationService(m)
}

// FailWith makes every subsequent Notify call return err
func (m *MockNotificationService) FailWith(err error) {
	m.mu.Lock()
	m.failWith = err
	m.mu.Unlock()
}

// Notify records the event, or fails when configured to
func (m *MockNotificationService) Notify(contractorID uint, eventType string, payload map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}

	m.notifications = append(m.notifications, MockNotification{
		ContractorID: contractorID,
		EventType:    eventType,
		Payload:      payload,
	})
	return nil
}

// Notifications returns all recorded events (for testing assertions)
func (m *MockNotificationService) Notifications() []MockNotification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]MockNotification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// Clear removes all recorded events
func (m *MockNotificationService) Clear() {
	m.mu.Lock()
	m.notifications = nil
	m.failWith = nil
	m.mu.Unlock()
}
