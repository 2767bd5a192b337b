package testsCommon

import (
	"context"

	"github.com/iulianpascalau/kafka-flow-monitoring/flow"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/aggregation/common"
)

// StoreStub -
type StoreStub struct {
	SaveFlowHandler    func(ctx context.Context, agent string, scope flow.Scope, record flow.MetricsRecord, recordedAt int64) error
	GetFlowHandler     func(ctx context.Context, name string) (*common.FlowSnapshot, error)
	ListScopesHandler  func(ctx context.Context) ([]common.ScopeInfo, error)
	DeleteScopeHandler func(ctx context.Context, name string) error
	CloseHandler       func() error
}

// SaveFlow -
func (stub *StoreStub) SaveFlow(ctx context.Context, agent string, scope flow.Scope, record flow.MetricsRecord, recordedAt int64) error {
	if stub.SaveFlowHandler != nil {
		return stub.SaveFlowHandler(ctx, agent, scope, record, recordedAt)
	}

	return nil
}

// GetFlow -
func (stub *StoreStub) GetFlow(ctx context.Context, name string) (*common.FlowSnapshot, error) {
	if stub.GetFlowHandler != nil {
		return stub.GetFlowHandler(ctx, name)
	}

	return &common.FlowSnapshot{}, nil
}

// ListScopes -
func (stub *StoreStub) ListScopes(ctx context.Context) ([]common.ScopeInfo, error) {
	if stub.ListScopesHandler != nil {
		return stub.ListScopesHandler(ctx)
	}

	return make([]common.ScopeInfo, 0), nil
}

// DeleteScope -
func (stub *StoreStub) DeleteScope(ctx context.Context, name string) error {
	if stub.DeleteScopeHandler != nil {
		return stub.DeleteScopeHandler(ctx, name)
	}

	return nil
}

// Close -
func (stub *StoreStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *StoreStub) IsInterfaceNil() bool {
	return stub == nil
}
