package testsCommon

import (
	"context"

	"github.com/iulianpascalau/kafka-flow-monitoring/services/agent/common"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/agent/config"
)

// PollerStub -
type PollerStub struct {
	PollAllHandler func(ctx context.Context, scopes []config.ScopeConfig) map[string]common.ScopeResult
}

// PollAll -
func (stub *PollerStub) PollAll(ctx context.Context, scopes []config.ScopeConfig) map[string]common.ScopeResult {
	if stub.PollAllHandler != nil {
		return stub.PollAllHandler(ctx, scopes)
	}

	return make(map[string]common.ScopeResult)
}

// IsInterfaceNil -
func (stub *PollerStub) IsInterfaceNil() bool {
	return stub == nil
}
