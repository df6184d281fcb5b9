package client

import (
	"context"

	"github.com/foomo/checkpointstore/pkg/handler"
)

type transport interface {
	call(ctx context.Context, route handler.Route, request any, response any) error
	shutdown()
}
