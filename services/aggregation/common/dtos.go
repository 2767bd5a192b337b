package common

import "github.com/iulianpascalau/kafka-flow-monitoring/flow"

// FlowSnapshot is the latest flow record stored for a scope
type FlowSnapshot struct {
	Scope      flow.Scope         `json:"scope"`
	Record     flow.MetricsRecord `json:"record"`
	RecordedAt int64              `json:"recordedAt"`
}

// ScopeInfo summarizes a known scope
type ScopeInfo struct {
	Name       string         `json:"name"`
	Kind       flow.ScopeKind `json:"kind"`
	Agent      string         `json:"agent"`
	RecordedAt int64          `json:"recordedAt"`
	NumMetrics int            `json:"numMetrics"`
}
