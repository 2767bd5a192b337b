package poller

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/iulianpascalau/kafka-flow-monitoring/flow"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/agent/common"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/agent/config"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

var log = logger.GetOrCreate("poller")

type httpPoller struct {
	client *http.Client
}

// NewHTTPPoller creates a new HTTP-based poller with a default timeout
func NewHTTPPoller(timeout time.Duration) *httpPoller {
	return &httpPoller{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// PollAll performs concurrent HTTP GETs to all configured scopes and decodes the flow record found at each JSON path.
func (p *httpPoller) PollAll(ctx context.Context, scopes []config.ScopeConfig) map[string]common.ScopeResult {
	results := make(map[string]common.ScopeResult)
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(len(scopes))
	for _, sc := range scopes {
		go func(scope config.ScopeConfig) {
			defer wg.Done()

			record, err := p.pollScope(ctx, scope)
			if err != nil {
				log.Warn("scope poll failed", "name", scope.Name, "url", scope.URL, "error", err)
				return // Omits from report
			}

			mu.Lock()
			results[scope.Name] = common.ScopeResult{
				Config: scope,
				Record: record,
			}
			mu.Unlock()
		}(sc)
	}

	wg.Wait()
	return results
}

func (p *httpPoller) pollScope(ctx context.Context, scope config.ScopeConfig) (flow.MetricsRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scope.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errStatusNotOK(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return decodeRecord(body, scope.Path)
}

// decodeRecord extracts the object found at path (e.g. "data.flow") as a flow record
func decodeRecord(body []byte, path string) (flow.MetricsRecord, error) {
	result := gjson.ParseBytes(body)
	if len(path) > 0 {
		result = result.Get(path)
	}
	if !result.Exists() {
		return nil, errPathNotFound(path)
	}
	if !result.IsObject() {
		return nil, errNotAnObject(path)
	}

	record := make(flow.MetricsRecord)
	var err error
	result.ForEach(func(key, value gjson.Result) bool {
		series, ok := decodeSeries(value)
		if !ok {
			err = errNotASeries(key.String())
			return false
		}

		record[key.String()] = series
		return true
	})
	if err != nil {
		return nil, err
	}

	err = record.Validate()
	if err != nil {
		return nil, err
	}

	return record, nil
}

func decodeSeries(value gjson.Result) ([]float64, bool) {
	if !value.IsArray() {
		return nil, false
	}

	elements := value.Array()
	series := make([]float64, 0, len(elements))
	for _, element := range elements {
		if element.Type != gjson.Number {
			return nil, false
		}

		series = append(series, element.Float())
	}

	return series, true
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *httpPoller) IsInterfaceNil() bool {
	return p == nil
}
