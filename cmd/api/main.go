package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rdelacruz/lendbook/pkg/config"
	"github.com/rdelacruz/lendbook/pkg/ledger"
	"github.com/rdelacruz/lendbook/pkg/logging"
	"github.com/rdelacruz/lendbook/pkg/store"
)

// Server holds the ledger instance.
type Server struct {
	ledger  *ledger.Ledger
	storage store.Storage // Keep a reference to the storage to close it
}

func NewServer(s store.Storage) *Server {
	return &Server{
		ledger:  ledger.NewLedger(s),
		storage: s,
	}
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/transactions", s.listTransactionsHandler).Methods("GET")
	router.HandleFunc("/transactions", s.createTransactionHandler).Methods("POST")
	router.HandleFunc("/transactions/{id}", s.getTransactionHandler).Methods("GET")
	router.HandleFunc("/transactions/{id}", s.updateTransactionHandler).Methods("PUT")
	router.HandleFunc("/transactions/{id}", s.deleteTransactionHandler).Methods("DELETE")

	router.HandleFunc("/rates", s.listRateRulesHandler).Methods("GET")
	router.HandleFunc("/rates", s.createRateRuleHandler).Methods("POST")
	router.HandleFunc("/rates/{id}", s.updateRateRuleHandler).Methods("PUT")
	router.HandleFunc("/rates/{id}", s.deleteRateRuleHandler).Methods("DELETE")

	router.HandleFunc("/groups", s.listGroupsHandler).Methods("GET")
	router.HandleFunc("/groups", s.createGroupHandler).Methods("POST")
	router.HandleFunc("/groups/{id}", s.deleteGroupHandler).Methods("DELETE")

	router.HandleFunc("/groups/{name}/balances", s.groupBalancesHandler).Methods("GET")
	router.HandleFunc("/groups/{name}/billing", s.billingBreakdownHandler).Methods("GET")
	router.HandleFunc("/groups/{name}/ledger", s.groupLedgerHandler).Methods("GET")
	router.HandleFunc("/summary", s.summaryHandler).Methods("GET")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.Use(loggingMiddleware, metricsMiddleware)
	return router
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level)

	sqliteStore, err := store.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		slog.Error("Failed to initialize SQLite store", "error", err)
		os.Exit(1)
	}
	defer sqliteStore.Close()

	server := NewServer(sqliteStore)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Server starting", "addr", addr)
	if err := http.ListenAndServe(addr, server.routes()); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
