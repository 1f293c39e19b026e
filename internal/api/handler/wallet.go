package handler

import (
	"encoding/json"
	"net/http"

	"github.com/skillduel/skillduel/internal/api/middleware"
	"github.com/skillduel/skillduel/internal/api/request"
	"github.com/skillduel/skillduel/internal/api/response"
	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/services/ledger"
)

// WalletHandler handles balance and deposit endpoints
type WalletHandler struct {
	ledgerService *ledger.Service
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(ledgerService *ledger.Service) *WalletHandler {
	return &WalletHandler{
		ledgerService: ledgerService,
	}
}

// GetBalance handles GET /api/v1/wallet
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	wallet, err := h.ledgerService.GetBalance(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WalletFromModel(wallet))
}

// Deposit handles POST /api/v1/wallet/deposit
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	amount, err := model.ParseMoney(req.Amount)
	if err != nil {
		WriteError(w, NewInvalidRequestError("amount must be a decimal string like \"1.50\""))
		return
	}

	wallet, err := h.ledgerService.Deposit(r.Context(), player.ID, amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WalletFromModel(wallet))
}

// Sync handles POST /api/v1/wallet/sync
func (h *WalletHandler) Sync(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	wallet, err := h.ledgerService.SyncRemote(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WalletFromModel(wallet))
}
