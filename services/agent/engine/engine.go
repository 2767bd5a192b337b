package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iulianpascalau/kafka-flow-monitoring/flow"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/agent/config"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("engine")

const (
	defaultPollTimeout = 30 * time.Second
	reportTimeout      = 10 * time.Second
)

// agentEngine orchestrates polling and reporting at configured intervals
type agentEngine struct {
	config      config.Config
	poller      Poller
	reporter    Reporter
	pollTimeout time.Duration
}

// NewAgentEngine creates a new engine instance
func NewAgentEngine(cfg config.Config, p Poller, r Reporter) (*agentEngine, error) {
	if check.IfNil(p) {
		return nil, errors.New("nil poller")
	}
	if check.IfNil(r) {
		return nil, errors.New("nil reporter")
	}
	err := checkScopes(cfg.Scopes)
	if err != nil {
		return nil, err
	}

	pollTimeout := defaultPollTimeout
	if cfg.PollTimeoutInSeconds > 0 {
		pollTimeout = time.Duration(cfg.PollTimeoutInSeconds) * time.Second
	}

	return &agentEngine{
		config:      cfg,
		poller:      p,
		reporter:    r,
		pollTimeout: pollTimeout,
	}, nil
}

func checkScopes(scopes []config.ScopeConfig) error {
	names := make(map[string]struct{}, len(scopes))
	for _, scope := range scopes {
		if len(scope.Name) == 0 {
			return errors.New("empty scope name")
		}
		if !flow.ScopeKind(scope.Kind).IsValid() {
			return fmt.Errorf("invalid kind %q for scope %s", scope.Kind, scope.Name)
		}
		if _, found := names[scope.Name]; found {
			return fmt.Errorf("duplicate scope %s", scope.Name)
		}
		names[scope.Name] = struct{}{}
	}

	return nil
}

// Process will poll all scopes and try to send the report to the reporter
func (e *agentEngine) Process(ctx context.Context) {
	log.Debug("waking up to poll scopes", "count", len(e.config.Scopes))

	// 1. Poll all scopes concurrently
	pollCtx, cancelPoll := context.WithTimeout(ctx, e.pollTimeout)
	defer cancelPoll()
	results := e.poller.PollAll(pollCtx, e.config.Scopes)

	log.Debug("finished polling", "successful_results", len(results))
	if len(results) == 0 {
		log.Warn("no flow record could be polled, skipping report")
		return
	}

	// 2. Report them to aggregation backend
	reportCtx, cancelReport := context.WithTimeout(ctx, reportTimeout)
	defer cancelReport()

	err := e.reporter.Report(reportCtx, results)
	if err != nil {
		log.Warn("failed to report flow records, they will be discarded", "error", err)
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *agentEngine) IsInterfaceNil() bool {
	return e == nil
}
