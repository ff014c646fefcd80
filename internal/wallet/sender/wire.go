//go:build wireinject

package sender

import (
	"context"
	"io"

	"github.com/google/wire"
	"github/chapool/go-sendtx/internal/config"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// readSet groups the providers needed to read chain state for the configured key
var readSet = wire.NewSet(
	NewIdentity,
	NewTarget,
	NewMetrics,
	NewNodeClient,
	NewReader,
)

var pipelineSet = wire.NewSet(
	readSet,
	NewRelayCaller,
	NewRouter,
	NewWatcher,
	newPipeline,
)

// InitPipeline validates cfg and connects everything a send needs.
// Configuration errors are returned before any connection is made.
func InitPipeline(
	_ context.Context,
	_ config.Sender,
	_ io.Writer,
) (*Pipeline, func(), error) {
	wire.Build(pipelineSet)
	return new(Pipeline), nil, nil
}

// InitProbe returns a read-only probe for the configured key.
func InitProbe(
	_ context.Context,
	_ config.Sender,
	_ io.Writer,
) (*Probe, func(), error) {
	wire.Build(readSet, newProbe)
	return new(Probe), nil, nil
}
