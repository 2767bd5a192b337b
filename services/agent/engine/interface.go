package engine

import (
	"context"

	"github.com/iulianpascalau/kafka-flow-monitoring/services/agent/common"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/agent/config"
)

// Poller defines the interface for fetching flow records from the Kafka manager endpoints
type Poller interface {
	// PollAll performs concurrent HTTP GETs to all configured scopes and decodes the flow record of each one.
	// Scopes that fail/timeout or hold a malformed record are omitted from the returned map.
	PollAll(ctx context.Context, scopes []config.ScopeConfig) map[string]common.ScopeResult

	IsInterfaceNil() bool
}

// Reporter defines the interface for pushing polled flow records to the aggregation service
type Reporter interface {
	// Report sends a payload containing the polled flow records to the server.
	// Reporting failures are logged and the batch is not retried.
	Report(ctx context.Context, results map[string]common.ScopeResult) error

	IsInterfaceNil() bool
}
