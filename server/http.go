// Package server exposes the market engine over HTTP: a small JSON API for
// every entrypoint, a websocket event feed and the prometheus scrape
// endpoint. Identity is request-supplied; production deployments are
// expected to front this with their own authentication.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"curvemarket/market"
)

// CreditLedger is the optional faucet surface of the bundled ledger so the
// admin can fund accounts over the API and play through purchase flows.
type CreditLedger interface {
	Credit(acct market.Address, amount market.Amount) error
	BalanceOf(acct market.Address) (market.Amount, error)
}

type Server struct {
	engine *market.Engine
	hub    *Hub
	log    zerolog.Logger

	// ledger is nil when the deployment brings its own value ledger.
	ledger CreditLedger

	registry *prometheus.Registry
}

func New(engine *market.Engine, hub *Hub, ledger CreditLedger, registry *prometheus.Registry, log zerolog.Logger) *Server {
	return &Server{
		engine:   engine,
		hub:      hub,
		ledger:   ledger,
		registry: registry,
		log:      log.With().Str("component", "http").Logger(),
	}
}

// Handler assembles the route table wrapped in CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/mint", s.handleMint)
	mux.HandleFunc("POST /v1/purchase", s.handlePurchase)
	mux.HandleFunc("POST /v1/list", s.handleList)
	mux.HandleFunc("POST /v1/delist", s.handleDelist)
	mux.HandleFunc("POST /v1/deposit", s.handleDeposit)

	mux.HandleFunc("POST /v1/admin/mint", s.handleAdminMint)
	mux.HandleFunc("POST /v1/admin/params", s.handleAdminParams)
	mux.HandleFunc("POST /v1/admin/credit", s.handleAdminCredit)

	mux.HandleFunc("GET /v1/listings", s.handleListings)
	mux.HandleFunc("GET /v1/price", s.handlePrice)
	mux.HandleFunc("GET /v1/pool", s.handlePool)
	mux.HandleFunc("GET /v1/supply", s.handleSupply)

	mux.HandleFunc("GET /v1/events", s.hub.Handler())
	if s.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return cors.AllowAll().Handler(s.logged(mux))
}

// logged is a thin access-log middleware.
func (s *Server) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
	})
}

// -----------------------------------------------------------------------------
// Request/response plumbing
// -----------------------------------------------------------------------------

type errorBody struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeErr maps the engine error taxonomy onto HTTP statuses so clients can
// tell retry-later (state) from impossible (validation/authorization).
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	var me *market.Error
	if !errors.As(err, &me) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusInternalServerError
	switch me.Kind {
	case market.KindValidation:
		status = http.StatusBadRequest
	case market.KindAuthorization:
		status = http.StatusForbidden
	case market.KindState:
		status = http.StatusConflict
	case market.KindTransfer:
		status = http.StatusBadGateway
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]errorBody{"error": {
		Kind:    me.Kind.String(),
		Code:    me.Code,
		Message: me.Error(),
	}})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// amountField parses an optional decimal string field, defaulting to zero.
func amountField(s string) (market.Amount, error) {
	if s == "" {
		return 0, nil
	}
	return market.ParseAmount(s)
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

type mintReq struct {
	Sender string `json:"sender"`
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req mintReq
	if err := decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := s.engine.Mint(market.CallCtx{Sender: market.Address(req.Sender)})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, map[string]uint64{"id": id})
}

type adminMintReq struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
}

func (s *Server) handleAdminMint(w http.ResponseWriter, r *http.Request) {
	var req adminMintReq
	if err := decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := s.engine.AdminMint(market.CallCtx{Sender: market.Address(req.Sender)}, market.Address(req.Recipient))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, map[string]uint64{"id": id})
}

type listReq struct {
	Sender string `json:"sender"`
	ID     uint64 `json:"id"`
	// Price empty means list at the current floor
	Price string `json:"price,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var req listReq
	if err := decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx := market.CallCtx{Sender: market.Address(req.Sender)}
	if req.Price == "" {
		price, err := s.engine.ListAtFloor(ctx, req.ID)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"price": market.FormatAmount(price)})
		return
	}
	price, err := market.ParseAmount(req.Price)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.engine.ListAtPrice(ctx, req.ID, price); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"price": market.FormatAmount(price)})
}

type delistReq struct {
	Sender string `json:"sender"`
	ID     uint64 `json:"id"`
}

func (s *Server) handleDelist(w http.ResponseWriter, r *http.Request) {
	var req delistReq
	if err := decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.engine.Delist(market.CallCtx{Sender: market.Address(req.Sender)}, req.ID); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

type purchaseReq struct {
	Sender  string `json:"sender"`
	ID      uint64 `json:"id"`
	Payment string `json:"payment"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseReq
	if err := decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payment, err := amountField(req.Payment)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	receipt, err := s.engine.Purchase(market.CallCtx{Sender: market.Address(req.Sender), Payment: payment}, req.ID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, receipt)
}

type depositReq struct {
	Sender string `json:"sender"`
	Amount string `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositReq
	if err := decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	amount, err := amountField(req.Amount)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.engine.Deposit(market.CallCtx{Sender: market.Address(req.Sender)}, amount); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

type adminParamsReq struct {
	Sender       string `json:"sender"`
	Treasury     string `json:"treasury,omitempty"`
	Multiplier   uint64 `json:"multiplier_nano,omitempty"`
	MinPrice     string `json:"min_price,omitempty"`
	BaseMetadata string `json:"base_metadata,omitempty"`
	Admin        string `json:"admin,omitempty"`
}

// handleAdminParams applies any subset of the admin setters in one call.
func (s *Server) handleAdminParams(w http.ResponseWriter, r *http.Request) {
	var req adminParamsReq
	if err := decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx := market.CallCtx{Sender: market.Address(req.Sender)}
	if req.Treasury != "" {
		if err := s.engine.SetTreasury(ctx, market.Address(req.Treasury)); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	if req.Multiplier != 0 {
		if err := s.engine.SetMultiplier(ctx, req.Multiplier); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	if req.MinPrice != "" {
		min, err := market.ParseAmount(req.MinPrice)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		if err := s.engine.SetMinPrice(ctx, min); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	if req.BaseMetadata != "" {
		if err := s.engine.SetBaseMetadata(ctx, req.BaseMetadata); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	if req.Admin != "" {
		if err := s.engine.TransferAdmin(ctx, market.Address(req.Admin)); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	writeJSON(w, map[string]bool{"ok": true})
}

type creditReq struct {
	Sender  string `json:"sender"`
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// handleAdminCredit funds a dev-ledger account so purchase flows can be
// played through locally. Only available when the bundled ledger is in use.
func (s *Server) handleAdminCredit(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		http.Error(w, "no dev ledger", http.StatusNotFound)
		return
	}
	var req creditReq
	if err := decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	params, err := s.engine.Params()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if market.Address(req.Sender) != params.Admin {
		s.writeErr(w, market.ErrNotAdmin)
		return
	}
	amount, err := amountField(req.Amount)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.ledger.Credit(market.Address(req.Account), amount); err != nil {
		s.writeErr(w, err)
		return
	}
	balance, err := s.ledger.BalanceOf(market.Address(req.Account))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"balance": market.FormatAmount(balance)})
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.engine.ActiveListings()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	floor, err := s.engine.FloorPrice()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"floor":    market.FormatAmount(floor),
		"listings": listings,
	})
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	price, err := s.engine.CurrentPrice()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"next_price": market.FormatAmount(price)})
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	balance, err := s.engine.PoolBalance()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, map[string]string{"balance": market.FormatAmount(balance)})
}

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	issued, err := s.engine.TotalIssued()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	params, err := s.engine.Params()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, map[string]uint64{"issued": issued, "max_supply": params.MaxSupply})
}
