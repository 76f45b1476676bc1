// Package api serves the correlated cross-chain tables over a small
// read-only JSON API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"bridgescan/internal/bridges"
	"bridgescan/internal/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Server struct {
	repo   *repository.Repository
	router *mux.Router
}

func NewServer(repo *repository.Repository) *Server {
	s := &Server{repo: repo, router: mux.NewRouter()}
	s.router.Use(loggingMiddleware)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/v1/{bridge}/transactions", s.handleTransactions).Methods("GET")
	s.router.HandleFunc("/v1/{bridge}/stats", s.handleStats).Methods("GET")
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start(addr string) error {
	log.Printf("[api] listening on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return srv.ListenAndServe()
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[api] %s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// usdColumns maps each bridge to the USD columns its stats total. Most
// bridges carry the input/output pair; CoW and the message bridges differ.
var usdColumns = map[string][2]string{
	"ccip":     {"input_amount_usd", "output_amount_usd"},
	"cow":      {"sell_amount_usd", "buy_amount_usd"},
	"debridge": {"input_amount_usd", "output_amount_usd"},
	"eco":      {"input_amount_usd", "output_amount_usd"},
	"fly":      {"input_amount_usd", "output_amount_usd"},
	"mayan":    {"amount_usd", "amount_usd"},
	"portal":   {"amount_usd", "amount_usd"},
	"router":   {"input_amount_usd", "output_amount_usd"},
	"synapse":  {"input_amount_usd", "output_amount_usd"},
	"wormhole": {"input_amount_usd", "output_amount_usd"},
}

// bridgeTable validates the path segment against the registry before it is
// spliced into SQL.
func bridgeTable(name string) (string, bool) {
	for _, b := range bridges.Names() {
		if b == name {
			return name + "_cross_chain_transactions", true
		}
	}
	return "", false
}

// crossChainRow is the shared column prefix every correlated table carries.
type crossChainRow struct {
	SrcBlockchain      string   `json:"src_blockchain"`
	SrcTransactionHash string   `json:"src_transaction_hash"`
	SrcFromAddress     *string  `json:"src_from_address"`
	SrcToAddress       *string  `json:"src_to_address"`
	SrcFeeUSD          *float64 `json:"src_fee_usd"`
	SrcTimestamp       *int64   `json:"src_timestamp"`
	DstBlockchain      string   `json:"dst_blockchain"`
	DstTransactionHash string   `json:"dst_transaction_hash"`
	DstFromAddress     *string  `json:"dst_from_address"`
	DstToAddress       *string  `json:"dst_to_address"`
	DstFeeUSD          *float64 `json:"dst_fee_usd"`
	DstTimestamp       *int64   `json:"dst_timestamp"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	table, ok := bridgeTable(mux.Vars(r)["bridge"])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown bridge")
		return
	}

	limit := queryInt(r, "limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.Query(r.Context(), fmt.Sprintf(`SELECT
			src_blockchain, src_transaction_hash, src_from_address, src_to_address, src_fee_usd, src_timestamp,
			dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address, dst_fee_usd, dst_timestamp
		FROM %s
		ORDER BY src_timestamp DESC NULLS LAST
		LIMIT $1 OFFSET $2`, table), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	out := []crossChainRow{}
	for rows.Next() {
		var row crossChainRow
		if err := rows.Scan(
			&row.SrcBlockchain, &row.SrcTransactionHash, &row.SrcFromAddress, &row.SrcToAddress, &row.SrcFeeUSD, &row.SrcTimestamp,
			&row.DstBlockchain, &row.DstTransactionHash, &row.DstFromAddress, &row.DstToAddress, &row.DstFeeUSD, &row.DstTimestamp,
		); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": out,
		"limit":        limit,
		"offset":       offset,
	})
}

type bridgeStats struct {
	Count        int64    `json:"count"`
	MinTimestamp *int64   `json:"min_timestamp"`
	MaxTimestamp *int64   `json:"max_timestamp"`
	InputUSD     *float64 `json:"input_usd"`
	OutputUSD    *float64 `json:"output_usd"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	bridge := mux.Vars(r)["bridge"]
	table, ok := bridgeTable(bridge)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown bridge")
		return
	}
	cols := usdColumns[bridge]

	var stats bridgeStats
	err := s.statsRow(r.Context(), table, cols, &stats)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) statsRow(ctx context.Context, table string, cols [2]string, stats *bridgeStats) error {
	return s.repo.QueryRow(ctx, fmt.Sprintf(`SELECT
			COUNT(1), MIN(src_timestamp), MAX(src_timestamp), SUM(%s), SUM(%s)
		FROM %s`, cols[0], cols[1], table)).
		Scan(&stats.Count, &stats.MinTimestamp, &stats.MaxTimestamp, &stats.InputUSD, &stats.OutputUSD)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
