// Package record writes simulation results to CSV files: the trade tape,
// the top-of-book series, and the final account snapshots.
package record

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	ledgerv1 "github.com/muhammadchandra19/marketsim/internal/domain/ledger/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	worldv1 "github.com/muhammadchandra19/marketsim/internal/domain/world/v1"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
	"go.uber.org/multierr"
)

// File names produced by WriteRunFiles.
const (
	TradesFile   = "trades.csv"
	TopsFile     = "top.csv"
	AccountsFile = "accounts.csv"
)

// WriteTrades writes the trade tape, one row per execution.
func WriteTrades(w io.Writer, trades []orderbookv1.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"trade_id", "ts", "price", "qty", "maker_id", "taker_id"}); err != nil {
		return errors.NewTracer("failed to write trades header").Wrap(err)
	}
	for _, t := range trades {
		row := []string{
			strconv.FormatUint(uint64(t.ID), 10),
			strconv.FormatInt(int64(t.Ts), 10),
			strconv.FormatInt(int64(t.Price), 10),
			strconv.FormatInt(int64(t.Qty), 10),
			strconv.FormatUint(uint64(t.MakerOrderID), 10),
			strconv.FormatUint(uint64(t.TakerOrderID), 10),
		}
		if err := cw.Write(row); err != nil {
			return errors.NewTracer("failed to write trade row").Wrap(err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTops writes the top-of-book series. Absent sides and mids are empty
// fields, never zeros.
func WriteTops(w io.Writer, tops []orderbookv1.BookTop) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ts", "best_bid", "best_ask", "mid"}); err != nil {
		return errors.NewTracer("failed to write tops header").Wrap(err)
	}
	for _, top := range tops {
		row := []string{
			strconv.FormatInt(int64(top.Ts), 10),
			optField(top.BestBid),
			optField(top.BestAsk),
			optField(top.Mid),
		}
		if err := cw.Write(row); err != nil {
			return errors.NewTracer("failed to write top row").Wrap(err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAccounts writes the final mark-to-market account snapshots.
func WriteAccounts(w io.Writer, snaps []ledgerv1.AccountSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ts", "owner", "cash_ticks", "position", "mtm_ticks"}); err != nil {
		return errors.NewTracer("failed to write accounts header").Wrap(err)
	}
	for _, s := range snaps {
		row := []string{
			strconv.FormatInt(int64(s.Ts), 10),
			strconv.FormatUint(uint64(s.Owner), 10),
			strconv.FormatInt(s.CashTicks, 10),
			strconv.FormatInt(s.Position, 10),
			strconv.FormatInt(s.MtmTicks, 10),
		}
		if err := cw.Write(row); err != nil {
			return errors.NewTracer("failed to write account row").Wrap(err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRunFiles writes trades.csv, top.csv, and accounts.csv under dir,
// creating the directory when missing.
func WriteRunFiles(dir string, res worldv1.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewTracer("failed to create output directory").Wrap(err)
	}

	return multierr.Combine(
		writeFile(filepath.Join(dir, TradesFile), func(w io.Writer) error {
			return WriteTrades(w, res.Trades)
		}),
		writeFile(filepath.Join(dir, TopsFile), func(w io.Writer) error {
			return WriteTops(w, res.Tops)
		}),
		writeFile(filepath.Join(dir, AccountsFile), func(w io.Writer) error {
			return WriteAccounts(w, res.Accounts)
		}),
	)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, createErr := os.Create(path)
	if createErr != nil {
		return errors.NewTracer("failed to create " + filepath.Base(path)).Wrap(createErr)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.NewTracer("failed to close " + filepath.Base(path)).Wrap(closeErr)
		}
	}()
	return write(f)
}

func optField(p *orderbookv1.Price) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(int64(*p), 10)
}
