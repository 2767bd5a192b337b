package flow

import (
	"fmt"
	"math"
	"sort"
)

// NumSamples is the number of samples consumed from every metric series
const NumSamples = 4

// Sample positions inside a metric series
const (
	IndexAverage = iota
	IndexPre1
	IndexPre5
	IndexPre15
)

// Well-known metric names reported by the brokers
const (
	MetricByteIn               = "byteIn"
	MetricByteOut              = "byteOut"
	MetricByteRejected         = "byteRejected"
	MetricFailedFetchRequest   = "failedFetchRequest"
	MetricFailedProduceRequest = "failedProduceRequest"
	MetricMessageIn            = "messageIn"
)

// MetricsRecord maps a metric name to its samples: running average, trailing 1, 5 and 15 minutes values.
// Callers may add other keys than the well-known ones.
type MetricsRecord map[string][]float64

// Keys returns the record keys in ascending order
func (r MetricsRecord) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Validate checks that every series holds at least NumSamples finite values
func (r MetricsRecord) Validate() error {
	for _, key := range r.Keys() {
		err := validateSeries(key, r[key])
		if err != nil {
			return err
		}
	}

	return nil
}

func validateSeries(key string, series []float64) error {
	if len(series) < NumSamples {
		return &MalformedMetricsError{
			Key:    key,
			Reason: fmt.Sprintf("expected at least %d samples, got %d", NumSamples, len(series)),
		}
	}

	for i := 0; i < NumSamples; i++ {
		if math.IsNaN(series[i]) || math.IsInf(series[i], 0) {
			return &MalformedMetricsError{
				Key:    key,
				Reason: fmt.Sprintf("sample %d is not a finite number", i),
			}
		}
	}

	return nil
}

// ScopeKind tells what a flow record describes
type ScopeKind string

// Supported scope kinds
const (
	KindTopic   ScopeKind = "topic"
	KindBroker  ScopeKind = "broker"
	KindCluster ScopeKind = "cluster"
)

// IsValid returns true for one of the supported kinds
func (k ScopeKind) IsValid() bool {
	switch k {
	case KindTopic, KindBroker, KindCluster:
		return true
	default:
		return false
	}
}

// Scope identifies the topic, broker or cluster a record belongs to
type Scope struct {
	Name string    `json:"name"`
	Kind ScopeKind `json:"kind"`
}
