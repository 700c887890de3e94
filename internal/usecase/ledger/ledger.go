// Package ledger folds trades into per-owner accounts and produces
// mark-to-market snapshots.
package ledger

import (
	"sort"

	ledgerv1 "github.com/muhammadchandra19/marketsim/internal/domain/ledger/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// ApplyTrades books each trade against the maker's and taker's accounts,
// creating accounts lazily on first fill. A trade whose maker or taker has
// no attribution entry is skipped: the order may have been cancelled before
// its fills were recorded.
func ApplyTrades(
	trades []orderbookv1.Trade,
	meta map[orderbookv1.OrderID]ledgerv1.OrderMeta,
	accounts map[orderbookv1.OwnerID]*ledgerv1.Account,
) {
	for _, tr := range trades {
		maker, okM := meta[tr.MakerOrderID]
		taker, okT := meta[tr.TakerOrderID]
		if !okM || !okT {
			continue
		}

		accountFor(accounts, maker.Owner).ApplyFill(maker.Side, tr.Price, tr.Qty)
		accountFor(accounts, taker.Owner).ApplyFill(taker.Side, tr.Price, tr.Qty)
	}
}

func accountFor(accounts map[orderbookv1.OwnerID]*ledgerv1.Account, owner orderbookv1.OwnerID) *ledgerv1.Account {
	a, ok := accounts[owner]
	if !ok {
		a = &ledgerv1.Account{Owner: owner}
		accounts[owner] = a
	}
	return a
}

// Snapshots returns a mark-to-market view of every account, ordered by
// ascending owner. Without a mid, the mark is cash only.
func Snapshots(
	ts orderbookv1.Ts,
	accounts map[orderbookv1.OwnerID]*ledgerv1.Account,
	mid *orderbookv1.Price,
) []ledgerv1.AccountSnapshot {
	owners := make([]orderbookv1.OwnerID, 0, len(accounts))
	for owner := range accounts {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })

	out := make([]ledgerv1.AccountSnapshot, 0, len(owners))
	for _, owner := range owners {
		a := accounts[owner]
		mtm := a.CashTicks
		if mid != nil {
			mtm += int64(*mid) * a.Position
		}
		out = append(out, ledgerv1.AccountSnapshot{
			Ts:        ts,
			Owner:     owner,
			CashTicks: a.CashTicks,
			Position:  a.Position,
			MtmTicks:  mtm,
		})
	}
	return out
}
