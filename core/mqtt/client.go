package mqtt

import (
	"context"

	"github.com/kilianp07/teamday/core/model"
)

// PlanPublisher distributes computed plans to downstream collaborators.
type PlanPublisher interface {
	// PublishPlan sends the plan and returns once the broker accepted it or
	// ctx expires.
	PublishPlan(ctx context.Context, plan *model.Plan) error
	// Close releases the connection.
	Close()
}

// NopPublisher drops every plan.
type NopPublisher struct{}

func (NopPublisher) PublishPlan(context.Context, *model.Plan) error { return nil }
func (NopPublisher) Close()                                         {}
