package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"

	enginev1 "github.com/muhammadchandra19/marketsim/internal/domain/engine/v1"
	livev1 "github.com/muhammadchandra19/marketsim/internal/domain/live/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	rulesv1 "github.com/muhammadchandra19/marketsim/internal/domain/rules/v1"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
)

const (
	defaultSnapshotTrades = 50
	maxSnapshotTrades     = 500
	defaultMidWindowS     = 60
	defaultBookLevels     = 5
	maxBookLevels         = 50
)

type orderResponse struct {
	ID           orderbookv1.OrderID `json:"id"`
	Status       string              `json:"status"`
	RejectReason string              `json:"reject_reason"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type midSeriesResponse struct {
	Points []livev1.MidPoint `json:"points"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(err, logger.NewField("where", "writeJSON"))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func intParam(r *http.Request, name string, def int) int {
	raw := r.FormValue(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	maxTrades := clamp(intParam(r, "max_trades", defaultSnapshotTrades), 0, maxSnapshotTrades)
	s.writeJSON(w, http.StatusOK, s.world.Snapshot(maxTrades))
}

func (s *Server) handleMidSeries(w http.ResponseWriter, r *http.Request) {
	windowS := intParam(r, "window_s", defaultMidWindowS)
	if windowS < 1 {
		windowS = 1
	}

	points := s.world.MidSeries(orderbookv1.Ts(windowS) * 1_000_000_000)
	if points == nil {
		points = []livev1.MidPoint{}
	}
	s.writeJSON(w, http.StatusOK, midSeriesResponse{Points: points})
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	levels := clamp(intParam(r, "levels", defaultBookLevels), 1, maxBookLevels)
	s.writeJSON(w, http.StatusOK, s.world.BookDepth(levels))
}

// handleOrder accepts manual orders: side, type, tif, price, qty. Market
// orders are coerced to price 0, pure-market style, IOC.
func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var o orderbookv1.Order

	switch r.FormValue("side") {
	case "buy":
		o.Side = orderbookv1.SideBuy
	case "sell":
		o.Side = orderbookv1.SideSell
	default:
		s.writeError(w, http.StatusBadRequest, "side must be buy or sell")
		return
	}

	switch r.FormValue("type") {
	case "limit", "":
		o.Type = orderbookv1.OrderTypeLimit
	case "market":
		o.Type = orderbookv1.OrderTypeMarket
	default:
		s.writeError(w, http.StatusBadRequest, "type must be limit or market")
		return
	}

	switch r.FormValue("tif") {
	case "gtc", "":
		o.TIF = orderbookv1.TifGTC
	case "ioc":
		o.TIF = orderbookv1.TifIOC
	case "fok":
		o.TIF = orderbookv1.TifFOK
	default:
		s.writeError(w, http.StatusBadRequest, "tif must be gtc, ioc, or fok")
		return
	}

	qty, err := strconv.ParseInt(r.FormValue("qty"), 10, 64)
	if err != nil || qty <= 0 {
		s.writeError(w, http.StatusBadRequest, "qty must be a positive integer")
		return
	}
	o.Qty = orderbookv1.Qty(qty)

	if o.Type == orderbookv1.OrderTypeLimit {
		price, err := strconv.ParseInt(r.FormValue("price"), 10, 64)
		if err != nil || price <= 0 {
			s.writeError(w, http.StatusBadRequest, "price must be a positive integer")
			return
		}
		o.Price = orderbookv1.Price(price)
	} else {
		o.Price = 0
		o.MarketStyle = orderbookv1.MarketStylePure
		if o.TIF == orderbookv1.TifGTC {
			o.TIF = orderbookv1.TifIOC
		}
	}

	ack := s.world.SubmitOrder(o)

	reason := ""
	if ack.Status == enginev1.StatusRejected || ack.RejectReason != rulesv1.RejectNone {
		reason = ack.RejectReason.String()
	}
	s.writeJSON(w, http.StatusOK, orderResponse{
		ID:           ack.ID,
		Status:       ack.Status.String(),
		RejectReason: reason,
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	id, err := strconv.ParseUint(r.FormValue("id"), 10, 64)
	if err != nil || id == 0 {
		s.writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}
	s.writeJSON(w, http.StatusOK, okResponse{OK: s.world.CancelOrder(orderbookv1.OrderID(id))})
}

func (s *Server) handleModify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	id, err := strconv.ParseUint(r.FormValue("id"), 10, 64)
	if err != nil || id == 0 {
		s.writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}
	newQty, err := strconv.ParseInt(r.FormValue("new_qty"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "new_qty must be an integer")
		return
	}
	ok := s.world.ModifyQty(orderbookv1.OrderID(id), orderbookv1.Qty(newQty))
	s.writeJSON(w, http.StatusOK, okResponse{OK: ok})
}
