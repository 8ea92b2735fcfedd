// Package teams exposes team generation over HTTP.
package teams

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/teamgen/core/balance"
	"github.com/kilianp07/teamgen/core/balance/history"
	"github.com/kilianp07/teamgen/core/model"
	"github.com/kilianp07/teamgen/core/roster"
)

const maxBodyBytes = 1 << 20

// Generator is the part of balance.Generator the API needs.
type Generator interface {
	Generate(ctx context.Context, players []model.Player, c model.Constraints) (balance.Generation, error)
	GenerateExact(ctx context.Context, players []model.Player, c model.Constraints) (balance.Generation, error)
	Last() (balance.Generation, bool)
}

// Options configures the router.
type Options struct {
	// Token, when set, is required as "Bearer <token>" on every request.
	Token string
	// OnRoster is called after a roster body has been parsed.
	OnRoster func(source string, r roster.Roster)
}

// GenerateRequest is the body of POST /api/teams.
type GenerateRequest struct {
	Players     []model.Player     `json:"players"`
	Constraints ConstraintsRequest `json:"constraints"`
}

// ConstraintsRequest holds the requested constraints. An absent
// max_rating_delta uses the configured one; an explicit 0 is kept and can
// never be met. An absent min_position_counts uses the configured counts.
type ConstraintsRequest struct {
	MaxRatingDelta    *float64       `json:"max_rating_delta,omitempty"`
	MinPositionCounts map[string]int `json:"min_position_counts,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Trials int    `json:"trials,omitempty"`
}

// NewRouter returns the API handler:
//
//	POST /api/teams          generate teams from a JSON roster
//	GET  /api/teams/last     last accepted generation
//	GET  /api/teams/history  stored generations, filtered by query parameters
//	POST /api/roster         parse a CSV roster body
//
// store may be nil, in which case history requests answer 404.
func NewRouter(gen Generator, store history.Store, opts Options) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/teams", generateHandler(gen))
	mux.Handle("GET /api/teams/last", lastHandler(gen))
	mux.Handle("GET /api/teams/history", NewHistoryHandler(store))
	mux.Handle("POST /api/roster", rosterHandler(opts.OnRoster))
	return requireToken(opts.Token, mux)
}

func requireToken(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func generateHandler(gen Generator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
			return
		}
		c := model.Constraints{MinPositionCounts: req.Constraints.MinPositionCounts}
		generate := gen.Generate
		if d := req.Constraints.MaxRatingDelta; d != nil {
			c.MaxRatingDelta = *d
			generate = gen.GenerateExact
		}
		res, err := generate(r.Context(), req.Players, c)
		if err != nil {
			writeGenerateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
}

// StatusFor maps a generation error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, balance.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, balance.ErrUnsatisfiable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeGenerateError(w http.ResponseWriter, err error) {
	body := errorResponse{Error: err.Error()}
	var ue *balance.UnsatisfiableError
	if errors.As(err, &ue) {
		body.Trials = ue.Trials
	}
	writeJSON(w, StatusFor(err), body)
}

func lastHandler(gen Generator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		last, ok := gen.Last()
		if !ok {
			writeError(w, http.StatusNotFound, errors.New("no teams generated yet"))
			return
		}
		writeJSON(w, http.StatusOK, last)
	})
}

func rosterHandler(onRoster func(string, roster.Roster)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ros, err := roster.Parse(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if onRoster != nil {
			onRoster("request", ros)
		}
		writeJSON(w, http.StatusOK, ros)
	})
}

// NewHistoryHandler serves stored generations. Supported query parameters:
// start and end (RFC3339), player, outcome and limit.
func NewHistoryHandler(store history.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			writeError(w, http.StatusNotFound, errors.New("history is disabled"))
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if records == nil {
			records = []history.Record{}
		}
		writeJSON(w, http.StatusOK, records)
	})
}

func parseQuery(r *http.Request) (history.Query, error) {
	v := r.URL.Query()
	q := history.Query{Player: v.Get("player"), Outcome: v.Get("outcome")}
	if s := v.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, fmt.Errorf("start: %w", err)
		}
		q.Start = t
	}
	if s := v.Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, fmt.Errorf("end: %w", err)
		}
		q.End = t
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, fmt.Errorf("limit must be a non-negative integer")
		}
		q.Limit = n
	}
	return q, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
