package factory

import logger "github.com/multiversx/mx-chain-logger-go"

var log = logger.GetOrCreate("factory")

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}
