// Package delivery defines the inbound transport contract. Every server
// (HTTP today, anything else later) is registered into the deliveries
// group and started by main.
package delivery

import "context"

// Delivery is a serving surface of the application.
type Delivery interface {
	Serve(ctx context.Context) error
}
