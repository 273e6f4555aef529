package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"nfc-transactions-api/common"
	"nfc-transactions-api/model"
	"nfc-transactions-api/service"
)

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	service *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// ListTransactions godoc
// @Summary      List transactions
// @Description  Returns a filtered, paginated view over the recorded transactions. The date filter only applies when both bounds are present.
// @Tags         transactions
// @Produce      json
// @Param        start_date query string false "Inclusive lower bound on transaction_date (RFC 3339 or YYYY-MM-DD)"
// @Param        end_date   query string false "Inclusive upper bound on transaction_date"
// @Param        type       query string false "Filter by type (debit or credit)"
// @Param        status     query string false "Filter by status (pending, completed or failed)"
// @Param        nfc_only   query bool   false "Only rows carrying NFC data"
// @Param        search     query string false "Case-insensitive substring over merchant_name, transaction_id and category"
// @Param        per_page   query int    false "Page size (default 20, max 100)"
// @Param        page       query int    false "Page number (default 1)"
// @Success      200  {object}  model.PaginatedTransactions
// @Failure      400  {object}  common.AppError "Malformed date bound"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	params, appErr := parseListParams(r)
	if appErr != nil {
		return appErr
	}

	page, err := h.service.ListTransactions(*params)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transactions", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(page)
	return nil
}

// CreateTransaction godoc
// @Summary      Record a transaction
// @Description  Validates the payload, generates the business identifier and persists the row atomically.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        transaction body model.CreateTransactionRequest true "The transaction to record"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Malformed request body"
// @Failure      422  {object}  common.AppError "Validation failure with per-field reasons"
// @Failure      500  {object}  common.AppError "Persistence failure; nothing was written"
// @Router       /api/v1/transactions [post]
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateTransactionRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	transaction, err := h.service.CreateTransaction(r.Context(), req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create transaction", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// GetTransaction godoc
// @Summary      Get a single transaction
// @Tags         transactions
// @Produce      json
// @Param        id path int true "The surrogate identifier of the transaction"
// @Success      200  {object}  model.Transaction
// @Failure      404  {object}  common.AppError "No transaction with that identifier"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/v1/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return common.NewAppError(http.StatusNotFound, "Transaction not found", nil)
	}

	transaction, err := h.service.GetTransaction(id)
	if err != nil {
		if err == service.ErrTransactionNotFound {
			return common.NewAppError(http.StatusNotFound, "Transaction not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transaction", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// RecentNFCTransactions godoc
// @Summary      List the most recent NFC transactions
// @Description  Returns up to 10 rows carrying NFC data, newest first. Not paginated.
// @Tags         transactions
// @Produce      json
// @Success      200  {array}   model.Transaction
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/v1/transactions/nfc/recent [get]
func (h *TransactionHandler) RecentNFCTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	transactions, err := h.service.GetRecentNFCTransactions(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve NFC transactions", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transactions)
	return nil
}

// TransactionSummary godoc
// @Summary      Summarize transactions over a date window
// @Description  Counts and decimal-safe sums over the window. Missing bounds default to the current calendar month in UTC.
// @Tags         transactions
// @Produce      json
// @Param        start_date query string false "Inclusive lower bound on transaction_date"
// @Param        end_date   query string false "Inclusive upper bound on transaction_date"
// @Success      200  {object}  model.TransactionSummary
// @Failure      400  {object}  common.AppError "Malformed date bound"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/v1/transactions/stats/summary [get]
func (h *TransactionHandler) TransactionSummary(w http.ResponseWriter, r *http.Request) *common.AppError {
	start, appErr := parseDateParam(r, "start_date")
	if appErr != nil {
		return appErr
	}
	end, appErr := parseDateParam(r, "end_date")
	if appErr != nil {
		return appErr
	}

	summary, err := h.service.GetSummary(start, end)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not compute summary", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
	return nil
}

func parseListParams(r *http.Request) (*service.ListTransactionsParams, *common.AppError) {
	params := service.ListTransactionsParams{}

	start, appErr := parseDateParam(r, "start_date")
	if appErr != nil {
		return nil, appErr
	}
	end, appErr := parseDateParam(r, "end_date")
	if appErr != nil {
		return nil, appErr
	}
	// The range only applies when both bounds were supplied.
	if start != nil && end != nil {
		params.StartDate = start
		params.EndDate = end
	}

	// Enum values pass through as given; an unknown value simply matches no
	// rows instead of being an error.
	if v := r.URL.Query().Get("type"); v != "" {
		t := model.TransactionType(v)
		params.Type = &t
	}
	if v := r.URL.Query().Get("status"); v != "" {
		st := model.TransactionStatus(v)
		params.Status = &st
	}

	if v := r.URL.Query().Get("nfc_only"); v != "" {
		nfcOnly, err := strconv.ParseBool(v)
		if err == nil {
			params.NFCOnly = nfcOnly
		}
	}

	params.Search = r.URL.Query().Get("search")

	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.PerPage = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.Page = n
		}
	}

	return &params, nil
}

// parseDateParam reads an optional date bound, accepting RFC 3339 timestamps
// or plain dates. A missing parameter yields nil without error.
func parseDateParam(r *http.Request, name string) (*time.Time, *common.AppError) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
	}
	if err != nil {
		return nil, common.NewAppError(http.StatusBadRequest, "Invalid "+name+" parameter", err)
	}
	return &t, nil
}
