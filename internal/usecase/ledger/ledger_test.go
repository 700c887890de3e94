package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerv1 "github.com/muhammadchandra19/marketsim/internal/domain/ledger/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

func TestApplyTrades(t *testing.T) {
	meta := map[orderbookv1.OrderID]ledgerv1.OrderMeta{
		1: {Owner: 7, Side: orderbookv1.SideSell},
		2: {Owner: 8, Side: orderbookv1.SideBuy},
	}

	t.Run("books both sides of each trade", func(t *testing.T) {
		accounts := make(map[orderbookv1.OwnerID]*ledgerv1.Account)

		ApplyTrades([]orderbookv1.Trade{
			{ID: 1, Ts: 10, Price: 105, Qty: 4, MakerOrderID: 1, TakerOrderID: 2},
		}, meta, accounts)

		require.Len(t, accounts, 2)

		seller := accounts[7]
		assert.Equal(t, int64(-4), seller.Position)
		assert.Equal(t, int64(420), seller.CashTicks)
		assert.Equal(t, int64(4), seller.TradedQty)
		assert.Equal(t, int64(420), seller.NotionalTicks)

		buyer := accounts[8]
		assert.Equal(t, int64(4), buyer.Position)
		assert.Equal(t, int64(-420), buyer.CashTicks)
	})

	t.Run("conservation across a round trip", func(t *testing.T) {
		accounts := make(map[orderbookv1.OwnerID]*ledgerv1.Account)
		rt := map[orderbookv1.OrderID]ledgerv1.OrderMeta{
			1: {Owner: 7, Side: orderbookv1.SideSell},
			2: {Owner: 8, Side: orderbookv1.SideBuy},
			3: {Owner: 7, Side: orderbookv1.SideBuy},
			4: {Owner: 8, Side: orderbookv1.SideSell},
		}

		ApplyTrades([]orderbookv1.Trade{
			{ID: 1, Price: 100, Qty: 5, MakerOrderID: 1, TakerOrderID: 2},
			{ID: 2, Price: 110, Qty: 5, MakerOrderID: 3, TakerOrderID: 4},
		}, rt, accounts)

		// Positions are flat, cash is zero-sum.
		assert.Equal(t, int64(0), accounts[7].Position)
		assert.Equal(t, int64(0), accounts[8].Position)
		assert.Equal(t, int64(0), accounts[7].CashTicks+accounts[8].CashTicks)
		assert.Equal(t, int64(-50), accounts[7].CashTicks, "sold at 100, bought back at 110")
	})

	t.Run("missing attribution skips the trade", func(t *testing.T) {
		accounts := make(map[orderbookv1.OwnerID]*ledgerv1.Account)

		ApplyTrades([]orderbookv1.Trade{
			{ID: 1, Price: 105, Qty: 4, MakerOrderID: 99, TakerOrderID: 2},
		}, meta, accounts)

		assert.Empty(t, accounts)
	})
}

func TestSnapshots(t *testing.T) {
	accounts := map[orderbookv1.OwnerID]*ledgerv1.Account{
		9: {Owner: 9, CashTicks: -100, Position: 2},
		3: {Owner: 3, CashTicks: 100, Position: -2},
		5: {Owner: 5, CashTicks: 50, Position: 0},
	}

	t.Run("ascending owner order with mid mark", func(t *testing.T) {
		mid := orderbookv1.Price(60)
		snaps := Snapshots(1000, accounts, &mid)

		require.Len(t, snaps, 3)
		assert.Equal(t, orderbookv1.OwnerID(3), snaps[0].Owner)
		assert.Equal(t, orderbookv1.OwnerID(5), snaps[1].Owner)
		assert.Equal(t, orderbookv1.OwnerID(9), snaps[2].Owner)

		assert.Equal(t, int64(100-2*60), snaps[0].MtmTicks)
		assert.Equal(t, int64(50), snaps[1].MtmTicks)
		assert.Equal(t, int64(-100+2*60), snaps[2].MtmTicks)
		assert.Equal(t, orderbookv1.Ts(1000), snaps[0].Ts)
	})

	t.Run("no mid marks cash only", func(t *testing.T) {
		snaps := Snapshots(1000, accounts, nil)
		require.Len(t, snaps, 3)
		assert.Equal(t, int64(100), snaps[0].MtmTicks)
		assert.Equal(t, int64(-100), snaps[2].MtmTicks)
	})
}
