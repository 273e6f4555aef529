package router

import (
	"net/http"

	"nfc-transactions-api/handler"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "nfc-transactions-api/docs" // swagger docs registration
)

func NewRouter(transactionHandler *handler.TransactionHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// The literal sub-paths must be registered alongside the {id} pattern;
	// ServeMux prefers the more specific literal match, so nfc/recent and
	// stats/summary are never swallowed by {id}.
	mux.Handle("GET /api/v1/transactions", handler.ErrorHandlingMiddleware(transactionHandler.ListTransactions))
	mux.Handle("POST /api/v1/transactions", handler.ErrorHandlingMiddleware(transactionHandler.CreateTransaction))
	mux.Handle("GET /api/v1/transactions/nfc/recent", handler.ErrorHandlingMiddleware(transactionHandler.RecentNFCTransactions))
	mux.Handle("GET /api/v1/transactions/stats/summary", handler.ErrorHandlingMiddleware(transactionHandler.TransactionSummary))
	mux.Handle("GET /api/v1/transactions/{id}", handler.ErrorHandlingMiddleware(transactionHandler.GetTransaction))

	return mux
}
