package factory

import (
	"fmt"

	"github.com/iulianpascalau/kafka-flow-monitoring/services/aggregation/api"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/aggregation/config"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/aggregation/storage"
)

const minRetentionSeconds = 1

type componentsHandler struct {
	store  api.Storage
	server Server
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(
	sqlitePath string,
	cfg config.Config,
) (*componentsHandler, error) {
	if cfg.RetentionSeconds < minRetentionSeconds {
		return nil, fmt.Errorf("%w: %d", errInvalidRetention, cfg.RetentionSeconds)
	}

	store, err := storage.NewSQLiteStorage(sqlitePath, cfg.RetentionSeconds)
	if err != nil {
		return nil, err
	}

	serverArgs := api.ArgsWebServer{
		ListenAddress:  cfg.ListenAddress,
		StaticDir:      cfg.StaticDir,
		Storage:        store,
		GeneralHandler: api.CORSMiddleware,
	}

	server, err := api.NewServer(serverArgs)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &componentsHandler{
		store:  store,
		server: server,
	}, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() api.Storage {
	return ch.store
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.server.Start()
}

// Close closes the inner components. The server owns the storage and closes it as well.
func (ch *componentsHandler) Close() {
	err := ch.server.Close()
	if err != nil {
		log.Warn("error closing the aggregation components", "error", err)
	}
}
