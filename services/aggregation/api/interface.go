package api

import (
	"context"

	"github.com/iulianpascalau/kafka-flow-monitoring/flow"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/aggregation/common"
)

// Storage defines the interface for persisting and querying flow records
type Storage interface {
	// SaveFlow updates the scope definition and replaces its flow record
	SaveFlow(ctx context.Context, agent string, scope flow.Scope, record flow.MetricsRecord, recordedAt int64) error

	// GetFlow returns the latest flow record of a scope
	GetFlow(ctx context.Context, name string) (*common.FlowSnapshot, error)

	// ListScopes returns a summary of every known scope
	ListScopes(ctx context.Context) ([]common.ScopeInfo, error)

	// DeleteScope removes a scope and its flow record
	DeleteScope(ctx context.Context, name string) error

	// Close shuts down the database connection
	Close() error

	IsInterfaceNil() bool
}
