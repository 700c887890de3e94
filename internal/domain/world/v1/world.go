package worldv1

import (
	ledgerv1 "github.com/muhammadchandra19/marketsim/internal/domain/ledger/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// Config holds the discrete-event driver knobs.
type Config struct {
	DtNs orderbookv1.Ts // virtual tick interval in nanoseconds
}

// DefaultConfig returns a 1ms virtual tick.
func DefaultConfig() Config {
	return Config{DtNs: 1_000_000}
}

// Result is everything one simulation run produced.
type Result struct {
	Trades   []orderbookv1.Trade
	Tops     []orderbookv1.BookTop
	Accounts []ledgerv1.AccountSnapshot

	CancelFailures int64
	ModifyFailures int64
}
