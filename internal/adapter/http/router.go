package http

import "net/http"

// Router builds the HTTP handler chain. Routes are registered explicitly
// with method-prefixed patterns; the auth middleware wraps the whole mux so
// every endpoint except login and health requires a session token.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("POST /api/login/customer", s.loginCustomer)
	mux.HandleFunc("POST /api/login/admin", s.loginAdmin)
	mux.HandleFunc("POST /api/logout", s.logout)

	mux.HandleFunc("POST /api/create_account", s.createAccount)
	mux.HandleFunc("POST /api/deposit", s.deposit)
	mux.HandleFunc("POST /api/withdraw", s.withdraw)
	mux.HandleFunc("POST /api/delete_account", s.deleteAccount)
	mux.HandleFunc("GET /api/balance", s.balance)
	mux.HandleFunc("GET /api/transactions", s.transactions)
	mux.HandleFunc("GET /api/list_accounts", s.listAccounts)

	mux.HandleFunc("POST /api/transfer", s.submitTransfer)
	mux.HandleFunc("GET /api/admin/pending_transfers", s.pendingTransfers)
	mux.HandleFunc("POST /api/admin/approve_transfer", s.approveTransfer)
	mux.HandleFunc("POST /api/admin/reject_transfer", s.rejectTransfer)

	mux.HandleFunc("POST /api/admin/change_credentials", s.changeCredentials)
	mux.HandleFunc("POST /api/customer/change_password", s.changePassword)

	return s.withAuth(mux)
}
