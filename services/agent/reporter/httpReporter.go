package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/iulianpascalau/kafka-flow-monitoring/services/agent/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("reporter")

type httpReporter struct {
	endpoint string
	agentID  string
	client   *http.Client
}

// NewHTTPReporter creates a new reporter that pushes to the configured ReportEndpoint
func NewHTTPReporter(endpoint, agentID string, timeout time.Duration) *httpReporter {
	return &httpReporter{
		endpoint: endpoint,
		agentID:  agentID,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Report sends the polled flow records to the aggregation service
func (r *httpReporter) Report(ctx context.Context, results map[string]common.ScopeResult) error {
	payload := common.ReportPayload{
		Agent: r.agentID,
		Flows: make(map[string]common.FlowPayload, len(results)),
	}

	for name, res := range results {
		payload.Flows[name] = common.FlowPayload{
			Kind:    res.Config.Kind,
			Metrics: res.Record,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create report request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error sending report: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server rejected report with status code: %d", resp.StatusCode)
	}

	log.Debug("successfully sent flow report", "endpoint", r.endpoint, "scopes_count", len(payload.Flows))

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *httpReporter) IsInterfaceNil() bool {
	return r == nil
}
