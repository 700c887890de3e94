package feedv1

import (
	"context"

	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// Publisher defines the interface for publishing trade events.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=feedv1_mock
type Publisher interface {
	// PublishTrades publishes executions to the trade feed topic.
	PublishTrades(ctx context.Context, trades []orderbookv1.Trade) error
	// Close closes the underlying writer.
	Close() error
}
