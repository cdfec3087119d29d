package delivery

import "context"

// Delivery is a long-running inbound adapter such as an HTTP server.
type Delivery interface {
	Serve(ctx context.Context) error
}
