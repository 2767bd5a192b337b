package common

import (
	"github.com/iulianpascalau/kafka-flow-monitoring/flow"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/agent/config"
)

// ScopeResult holds the flow record polled for a specific scope configuration
type ScopeResult struct {
	Config config.ScopeConfig
	Record flow.MetricsRecord
}

// ReportPayload is the payload to be sent to the aggregation service
type ReportPayload struct {
	Agent string                 `json:"agent"`
	Flows map[string]FlowPayload `json:"flows"`
}

// FlowPayload defines the flow record of one scope
type FlowPayload struct {
	Kind    string             `json:"kind"`
	Metrics flow.MetricsRecord `json:"metrics"`
}
