package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iulianpascalau/kafka-flow-monitoring/flow"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/aggregation/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("storage")

const inMemoryPath = ":memory:"

// sqliteStorage is the sqlite implementation for flow records storage
type sqliteStorage struct {
	db               *sql.DB
	retentionSeconds int
	cancelFunc       context.CancelFunc
	wg               sync.WaitGroup
}

// NewSQLiteStorage creates the database, schema, and starts the retention cleaner
func NewSQLiteStorage(dbPath string, retentionSeconds int) (*sqliteStorage, error) {
	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == inMemoryPath {
		// every new connection to :memory: opens a distinct, empty database
		db.SetMaxOpenConns(1)
	}

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &sqliteStorage{
		db:               db,
		retentionSeconds: retentionSeconds,
		cancelFunc:       cancel,
	}

	s.startRetentionCleaner(ctx)

	return s, nil
}

func prepareDirectories(dbPath string) error {
	if dbPath == inMemoryPath {
		return nil
	}

	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

// cleanRetainedFlows executes the retention cleanup query synchronously.
func (s *sqliteStorage) cleanRetainedFlows(ctx context.Context) error {
	nowSec := time.Now().Unix()
	cutoff := nowSec - int64(s.retentionSeconds)
	_, err := s.db.ExecContext(ctx, "DELETE FROM flow_samples WHERE recorded_at < ?", cutoff)
	return err
}

func createSchema(db *sql.DB) error {

	schema := `
	CREATE TABLE IF NOT EXISTS scopes (
		name        TEXT    NOT NULL PRIMARY KEY,
		kind        TEXT    NOT NULL,
		agent       TEXT    NOT NULL DEFAULT '',
		recorded_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS flow_samples (
		scope_name  TEXT    NOT NULL REFERENCES scopes(name) ON DELETE CASCADE,
		metric      TEXT    NOT NULL,
		avr         REAL    NOT NULL,
		pre1        REAL    NOT NULL,
		pre5        REAL    NOT NULL,
		pre15       REAL    NOT NULL,
		recorded_at INTEGER NOT NULL,
		PRIMARY KEY (scope_name, metric)
	);

	CREATE INDEX IF NOT EXISTS idx_flow_samples_recorded_at ON flow_samples(recorded_at);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveFlow upserts the scope definition and replaces its flow record with the provided one
func (s *sqliteStorage) SaveFlow(ctx context.Context, agent string, scope flow.Scope, record flow.MetricsRecord, recordedAt int64) error {
	err := record.Validate()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scopes (name, kind, agent, recorded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			kind=excluded.kind,
			agent=excluded.agent,
			recorded_at=excluded.recorded_at
	`, scope.Name, string(scope.Kind), agent, recordedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert scope definition: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM flow_samples WHERE scope_name = ?", scope.Name)
	if err != nil {
		return fmt.Errorf("failed to drop previous flow record: %w", err)
	}

	for _, metric := range record.Keys() {
		series := record[metric]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO flow_samples (scope_name, metric, avr, pre1, pre5, pre15, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, scope.Name, metric,
			series[flow.IndexAverage], series[flow.IndexPre1], series[flow.IndexPre5], series[flow.IndexPre15],
			recordedAt)
		if err != nil {
			return fmt.Errorf("failed to insert flow sample %s: %w", metric, err)
		}
	}

	return tx.Commit()
}

// GetFlow returns the latest flow record of a scope
func (s *sqliteStorage) GetFlow(ctx context.Context, name string) (*common.FlowSnapshot, error) {
	var snapshot common.FlowSnapshot
	var kind string

	err := s.db.QueryRowContext(ctx, "SELECT name, kind, recorded_at FROM scopes WHERE name = ?", name).
		Scan(&snapshot.Scope.Name, &kind, &snapshot.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScopeNotFound
	}
	if err != nil {
		return nil, err
	}
	snapshot.Scope.Kind = flow.ScopeKind(kind)

	rows, err := s.db.QueryContext(ctx, `
		SELECT metric, avr, pre1, pre5, pre15
		FROM flow_samples
		WHERE scope_name = ?
	`, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	snapshot.Record = make(flow.MetricsRecord)
	for rows.Next() {
		var metric string
		series := make([]float64, flow.NumSamples)

		err = rows.Scan(&metric, &series[flow.IndexAverage], &series[flow.IndexPre1], &series[flow.IndexPre5], &series[flow.IndexPre15])
		if err != nil {
			return nil, err
		}

		snapshot.Record[metric] = series
	}

	return &snapshot, rows.Err()
}

// ListScopes returns all known scopes ordered by name
func (s *sqliteStorage) ListScopes(ctx context.Context) ([]common.ScopeInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.name, s.kind, s.agent, s.recorded_at, COUNT(f.metric)
		FROM scopes s
		LEFT JOIN flow_samples f ON f.scope_name = s.name
		GROUP BY s.name, s.kind, s.agent, s.recorded_at
		ORDER BY s.name
	`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.ScopeInfo, 0)
	for rows.Next() {
		var info common.ScopeInfo
		var kind string

		err = rows.Scan(&info.Name, &kind, &info.Agent, &info.RecordedAt, &info.NumMetrics)
		if err != nil {
			return nil, err
		}

		info.Kind = flow.ScopeKind(kind)
		results = append(results, info)
	}

	return results, rows.Err()
}

// DeleteScope removes a scope and its flow record
func (s *sqliteStorage) DeleteScope(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, "DELETE FROM flow_samples WHERE scope_name = ?", name)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM scopes WHERE name = ?", name)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *sqliteStorage) startRetentionCleaner(ctx context.Context) {
	s.wg.Add(1)

	// max(RetentionSeconds/10, 60)
	intervalSec := s.retentionSeconds / 10
	if intervalSec < 60 {
		intervalSec = 60
	}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Debug("running retention cleanup")

				err := s.cleanRetainedFlows(ctx)
				if err != nil {
					log.Warn("failed to cleanup retained flow records", "error", err)
				}
			}
		}
	}()
}

// Close closes the database and stops background routines
func (s *sqliteStorage) Close() error {
	s.cancelFunc()
	s.wg.Wait()
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
