// Package http provides the REST adapter over the usecase services. Each
// handler only decodes the request, calls one service and writes the
// uniform envelope; every business rule lives below this layer.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/snibank/snibank-backend/internal/domain"
	"github.com/snibank/snibank-backend/internal/usecase/account"
	"github.com/snibank/snibank-backend/internal/usecase/auth"
	"github.com/snibank/snibank-backend/internal/usecase/transfer"
)

// Server wires the usecase services to the HTTP routes
type Server struct {
	AccountService  *account.AccountService
	TransferService *transfer.TransferService
	AuthService     *auth.AuthService
}

// NewServer creates a new HTTP server instance
func NewServer(
	accountService *account.AccountService,
	transferService *transfer.TransferService,
	authService *auth.AuthService,
) *Server {
	return &Server{
		AccountService:  accountService,
		TransferService: transferService,
		AuthService:     authService,
	}
}

// decodeJSON parses the request body into dst
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// parseAmount accepts JSON numbers and numeric strings alike
func parseAmount(n json.Number) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return amount, nil
}

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]any{"status": "ok"})
}

// loginCustomer handles POST /api/login/customer
func (s *Server) loginCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccNo    string `json:"acc_no"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, domain.ErrAuthFailed)
		return
	}

	token, err := s.AuthService.LoginCustomer(r.Context(), req.AccNo, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{
		"message":  "Login Successful!",
		"token":    token,
		"redirect": "/customer",
	})
}

// loginAdmin handles POST /api/login/admin
func (s *Server) loginAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, domain.ErrAuthFailed)
		return
	}

	token, err := s.AuthService.LoginAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{
		"message":  "Login Successful!",
		"token":    token,
		"redirect": "/admin",
	})
}

// logout handles POST /api/logout. Sessions are stateless bearer tokens,
// so logout is the client discarding its token.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]any{"message": "Logged Out Successfully!"})
}

// createAccount handles POST /api/create_account
func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	if adminSession(w, r) == nil {
		return
	}

	var req struct {
		Name           string      `json:"name"`
		Age            json.Number `json:"age"`
		Aadhar         string      `json:"aadhar"`
		Phone          string      `json:"phone"`
		InitialDeposit json.Number `json:"initial_deposit"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, domain.ErrInvalidName)
		return
	}

	age, err := strconv.Atoi(req.Age.String())
	if err != nil {
		respondError(w, domain.ErrInvalidAge)
		return
	}
	deposit, err := parseAmount(req.InitialDeposit)
	if err != nil {
		respondError(w, domain.ErrMinimumDeposit)
		return
	}

	out, err := s.AccountService.Open(r.Context(), account.OpenAccountInput{
		Name:           req.Name,
		Age:            age,
		NationalID:     req.Aadhar,
		Phone:          req.Phone,
		InitialDeposit: deposit,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{
		"message":      "Account Created Successfully!",
		"acc_no":       out.Account.AccNo,
		"password":     out.Password,
		"account_type": string(out.Account.AccountType),
	})
}

// deposit handles POST /api/deposit
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	if adminSession(w, r) == nil {
		return
	}

	accNo, amount, err := decodeAmountRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	acct, err := s.AccountService.Deposit(r.Context(), accNo, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{
		"message": "Amount Deposited Successfully!",
		"balance": acct.Balance,
	})
}

// withdraw handles POST /api/withdraw
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	if adminSession(w, r) == nil {
		return
	}

	accNo, amount, err := decodeAmountRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	acct, err := s.AccountService.Withdraw(r.Context(), accNo, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{
		"message": "Amount Withdrawn Successfully!",
		"balance": acct.Balance,
	})
}

// deleteAccount handles POST /api/delete_account
func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if adminSession(w, r) == nil {
		return
	}

	var req struct {
		AccNo string `json:"acc_no"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, domain.ErrAccountNotFound)
		return
	}

	if err := s.AccountService.Delete(r.Context(), req.AccNo); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{"message": "Account Deleted Successfully!"})
}

// balance handles GET /api/balance. With an acc_no query parameter it is
// the admin lookup; without one it reads the customer session's account.
func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	accNo := r.URL.Query().Get("acc_no")
	if accNo != "" {
		if adminSession(w, r) == nil {
			return
		}
	} else {
		session := customerSession(w, r)
		if session == nil {
			return
		}
		accNo = session.AccountNo
	}

	acct, err := s.AccountService.Details(r.Context(), accNo)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{
		"details": map[string]any{
			"acc_no":       acct.AccNo,
			"name":         acct.Name,
			"balance":      acct.Balance,
			"account_type": string(acct.AccountType),
			"bank_name":    s.AccountService.BankName,
		},
	})
}

// transactions handles GET /api/transactions, scoped like balance
func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	accNo := r.URL.Query().Get("acc_no")
	if accNo != "" {
		if adminSession(w, r) == nil {
			return
		}
	} else {
		session := customerSession(w, r)
		if session == nil {
			return
		}
		accNo = session.AccountNo
	}

	entries, err := s.AccountService.Transactions(r.Context(), accNo)
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]transactionView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, transactionView{
			ID:          entry.ID.String(),
			Type:        string(entry.Type),
			Amount:      entry.Amount,
			Timestamp:   entry.Timestamp,
			Description: entry.Description,
		})
	}
	respondOK(w, map[string]any{"transactions": views})
}

// submitTransfer handles POST /api/transfer; the sender is always the
// logged-in customer
func (s *Server) submitTransfer(w http.ResponseWriter, r *http.Request) {
	session := customerSession(w, r)
	if session == nil {
		return
	}

	var req struct {
		TargetAccNo string      `json:"target_acc_no"`
		Amount      json.Number `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, domain.ErrInvalidAmount)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	t, err := s.TransferService.Submit(r.Context(), transfer.SubmitTransferInput{
		Sender:    session.AccountNo,
		Recipient: req.TargetAccNo,
		Amount:    amount,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{
		"message":     "Transfer submitted for approval.",
		"transfer_id": t.ID.String(),
	})
}

// listAccounts handles GET /api/list_accounts
func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	if adminSession(w, r) == nil {
		return
	}

	accounts, err := s.AccountService.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]accountView, 0, len(accounts))
	for _, acct := range accounts {
		views = append(views, accountView{
			AccNo:       acct.AccNo,
			Name:        acct.Name,
			Balance:     acct.Balance,
			AccountType: string(acct.AccountType),
		})
	}
	respondOK(w, map[string]any{"accounts": views})
}

// pendingTransfers handles GET /api/admin/pending_transfers
func (s *Server) pendingTransfers(w http.ResponseWriter, r *http.Request) {
	if adminSession(w, r) == nil {
		return
	}

	transfers, err := s.TransferService.ListPending(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]transferView, 0, len(transfers))
	for _, t := range transfers {
		views = append(views, transferView{
			ID:        t.ID.String(),
			Sender:    t.Sender,
			Recipient: t.Recipient,
			Amount:    t.Amount,
			CreatedAt: t.CreatedAt,
		})
	}
	respondOK(w, map[string]any{"transfers": views})
}

// approveTransfer handles POST /api/admin/approve_transfer
func (s *Server) approveTransfer(w http.ResponseWriter, r *http.Request) {
	if adminSession(w, r) == nil {
		return
	}

	id, err := decodeTransferID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	t, err := s.TransferService.Approve(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{
		"message": "Transfer Approved!",
		"status":  string(t.Status),
	})
}

// rejectTransfer handles POST /api/admin/reject_transfer
func (s *Server) rejectTransfer(w http.ResponseWriter, r *http.Request) {
	if adminSession(w, r) == nil {
		return
	}

	id, err := decodeTransferID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	t, err := s.TransferService.Reject(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{
		"message": "Transfer Rejected.",
		"status":  string(t.Status),
	})
}

// changeCredentials handles POST /api/admin/change_credentials
func (s *Server) changeCredentials(w http.ResponseWriter, r *http.Request) {
	if adminSession(w, r) == nil {
		return
	}

	var req struct {
		NewUsername string `json:"new_username"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, domain.ErrInvalidUsername)
		return
	}

	if err := s.AuthService.ChangeAdminCredentials(r.Context(), req.NewUsername, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{"message": "Credentials Updated Successfully!"})
}

// changePassword handles POST /api/customer/change_password
func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	session := customerSession(w, r)
	if session == nil {
		return
	}

	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, domain.ErrWeakPassword)
		return
	}

	if err := s.AccountService.ChangePassword(r.Context(), session.AccountNo, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{"message": "Password Updated Successfully!"})
}

// decodeAmountRequest parses the common {acc_no, amount} body
func decodeAmountRequest(r *http.Request) (string, decimal.Decimal, error) {
	var req struct {
		AccNo  string      `json:"acc_no"`
		Amount json.Number `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return "", decimal.Decimal{}, domain.ErrInvalidAmount
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	return req.AccNo, amount, nil
}

// decodeTransferID parses the common {transfer_id} body
func decodeTransferID(r *http.Request) (uuid.UUID, error) {
	var req struct {
		TransferID string `json:"transfer_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return uuid.Nil, domain.ErrTransferNotFound
	}
	id, err := uuid.Parse(req.TransferID)
	if err != nil {
		return uuid.Nil, domain.ErrTransferNotFound
	}
	return id, nil
}

// accountView is the admin listing projection. Credentials are stored as
// bcrypt hashes and are never echoed back.
type accountView struct {
	AccNo       string          `json:"acc_no"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"`
	AccountType string          `json:"account_type"`
}

// transactionView projects a structured ledger entry; display strings are
// derived client-side from the type and amount
type transactionView struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description"`
}

// transferView projects a pending transfer for the disposition queue
type transferView struct {
	ID        string          `json:"id"`
	Sender    string          `json:"sender"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}
