package services

import (
	"sync"
	"time"
)

// MockScheduleHoldService is a mock implementation of ScheduleHoldService for
// testing
type MockScheduleHoldService struct {
	holds    map[string]time.Time // key -> scheduled date
	failWith error
	mu       sync.Mutex
}

// NewMockScheduleHoldService creates a new mock schedule hold service
func NewMockScheduleHoldService() *MockScheduleHoldService {
	return &MockScheduleHoldService{holds: make(map[string]time.Time)}
}

// SetAsMockForTesting sets this mock as the global schedule hold service
// instance for testing
func (m *MockScheduleHoldService) SetAsMockForTesting() {
	SetScheduleHoldService(m)
}

// FailWith makes every subsequent call return err
func (m *MockScheduleHoldService) FailWith(err error) {
	m.mu.Lock()
	m.failWith = err
	m.mu.Unlock()
}

// PlaceHold records the hold
func (m *MockScheduleHoldService) PlaceHold(contractorID uint, jobID string, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	m.holds[holdKey(contractorID, jobID)] = date
	return nil
}

// ReleaseHold removes the hold
func (m *MockScheduleHoldService) ReleaseHold(contractorID uint, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	delete(m.holds, holdKey(contractorID, jobID))
	return nil
}

// HasHold checks whether a hold exists (for testing assertions)
func (m *MockScheduleHoldService) HasHold(contractorID uint, jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.holds[holdKey(contractorID, jobID)]
	return ok
}
