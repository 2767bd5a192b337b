package factory

import "context"

// Engine defines the operations of the polling engine
type Engine interface {
	Process(ctx context.Context)
	IsInterfaceNil() bool
}
