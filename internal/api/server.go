// Package api exposes the ledger over a JSON REST surface. Handlers stay
// thin: decode, delegate to a service, map the result. All domain decisions
// live in internal/service and internal/ledger.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/divvyhq/divvy/internal/auth"
	"github.com/divvyhq/divvy/internal/middleware"
	"github.com/divvyhq/divvy/internal/service"
	"github.com/divvyhq/divvy/internal/storage"
)

// Server wires the HTTP routes to the services.
type Server struct {
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
	groups        *service.GroupService
	expenses      *service.ExpenseService
	ledger        *service.LedgerService
}

// New creates a Server backed by the given store.
func New(store storage.Store, authenticator auth.Authenticator, jwt *auth.JWTManager) *Server {
	return &Server{
		authenticator: authenticator,
		jwt:           jwt,
		groups:        service.NewGroupService(store),
		expenses:      service.NewExpenseService(store),
		ledger:        service.NewLedgerService(store),
	}
}

// Handler returns the full middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Authenticated
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAuth(s.jwt, h))
	}
	protected("POST /groups", s.handleCreateGroup)
	protected("GET /groups", s.handleListGroups)
	protected("GET /groups/{id}", s.handleGetGroup)
	protected("POST /groups/{id}/members", s.handleAddMembers)
	protected("POST /groups/{id}/close", s.handleCloseGroup)

	protected("POST /groups/{id}/expenses", s.handleAddExpense)
	protected("GET /groups/{id}/expenses", s.handleListExpenses)
	protected("PUT /expenses/{id}", s.handleUpdateExpense)
	protected("DELETE /expenses/{id}", s.handleDeleteExpense)

	protected("GET /groups/{id}/settlement", s.handleGroupSettlement)
	protected("POST /groups/{id}/pay", s.handlePay)
	protected("GET /settlements/pending", s.handlePendingSettlements)
	protected("GET /settlements/history", s.handleSettlementHistory)

	return middleware.Metrics(middleware.Logging(middleware.CORS(mux)))
}
