package mqtt

import (
	"context"
	"errors"
	"sync"

	coremqtt "github.com/kilianp07/teamday/core/mqtt"
	"github.com/kilianp07/teamday/core/model"
)

// Publisher mirrors the core mqtt.PlanPublisher interface.
type Publisher = coremqtt.PlanPublisher

// MockPublisher records published plans in memory.
type MockPublisher struct {
	mu     sync.Mutex
	Plans  []*model.Plan
	Fail   bool
	closed bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

// PublishPlan records the plan or fails when configured to.
func (m *MockPublisher) PublishPlan(_ context.Context, plan *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("publish failed")
	}
	m.Plans = append(m.Plans, plan)
	return nil
}

// Published returns the number of recorded plans.
func (m *MockPublisher) Published() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Plans)
}

// Close marks the publisher closed.
func (m *MockPublisher) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

// Closed reports whether Close was called.
func (m *MockPublisher) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
