package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/yourusername/bgplaytree/pkg/engine"
)

var (
	errMissingPosition = errors.New("position or points is required")
	errBusy            = errors.New("server busy")
)

// Handlers holds the HTTP handlers and their shared settings.
type Handlers struct {
	version      string
	rules        engine.RuleSet
	pool         *WorkerPool
	cache        *engine.TreeCache
	queueTimeout time.Duration
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(version string, rules engine.RuleSet) *Handlers {
	return &Handlers{version: version, rules: rules}
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
// Requests wait at most queueTimeout for a slot; zero waits as long as the
// request lives.
func NewHandlersWithPool(version string, rules engine.RuleSet, pool *WorkerPool, queueTimeout time.Duration) *Handlers {
	return &Handlers{version: version, rules: rules, pool: pool, queueTimeout: queueTimeout}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("writing response")
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// resolvePosition builds the position a request refers to.
func resolvePosition(spec PositionSpec) (engine.Position, error) {
	switch {
	case spec.Position != "":
		return engine.PositionFromID(spec.Position)
	case spec.Points != nil:
		zone := spec.InnerZone
		if zone == 0 {
			zone = engine.DefaultInnerZone
		}
		return engine.NewPositionWithZone(spec.Points, spec.Off, spec.OppOff, zone)
	}
	return engine.Position{}, errMissingPosition
}

// WithCache makes single roll builds go through cache.
func (h *Handlers) WithCache(cache *engine.TreeCache) *Handlers {
	h.cache = cache
	return h
}

func (h *Handlers) buildTree(rules engine.RuleSet, pos engine.Position, roll engine.Roll) engine.RootNode {
	if h.cache != nil {
		return h.cache.BuildTree(rules, pos, roll)
	}
	return engine.BuildTree(rules, pos, roll)
}

// ruleSet picks the named rule set or the server default.
func (h *Handlers) ruleSet(name string) (engine.RuleSet, error) {
	if name == "" {
		return h.rules, nil
	}
	return engine.RulesByName(name)
}

// acquire takes a slot in the build or batch lane. The returned release
// func is always safe to call.
func (h *Handlers) acquire(ctx context.Context, batch bool) (func(), error) {
	if h.pool == nil {
		return func() {}, nil
	}
	if batch && h.pool.TryAcquireBatch() {
		return h.pool.ReleaseBatch, nil
	}
	if !batch && h.pool.TryAcquireBuild() {
		return h.pool.ReleaseBuild, nil
	}
	if h.queueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.queueTimeout)
		defer cancel()
	}
	if batch {
		if err := h.pool.AcquireBatch(ctx); err != nil {
			return func() {}, errBusy
		}
		return h.pool.ReleaseBatch, nil
	}
	if err := h.pool.AcquireBuild(ctx); err != nil {
		return func() {}, errBusy
	}
	return h.pool.ReleaseBuild, nil
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Rules:   engine.RuleNames(),
	}

	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	if h.cache != nil {
		lookups, hits, _ := h.cache.Stats()
		resp.Cache = &CacheStats{Lookups: lookups, Hits: hits, HitRate: h.cache.HitRate()}
	}

	writeJSON(w, http.StatusOK, resp)
}

// requestError carries the HTTP status and code for a failed request.
type requestError struct {
	status int
	code   string
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }

func badRequest(code string, err error) *requestError {
	return &requestError{status: http.StatusBadRequest, code: code, err: err}
}

func writeRequestError(w http.ResponseWriter, err error) {
	var re *requestError
	if errors.As(err, &re) {
		writeError(w, re.status, re.Error(), re.code)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error(), "INTERNAL")
}

// moves enumerates the plays of a roll. Shared by HTTP and WebSocket.
func (h *Handlers) moves(ctx context.Context, req MovesRequest) (*MovesResponse, error) {
	rules, err := h.ruleSet(req.Rules)
	if err != nil {
		return nil, badRequest("INVALID_RULES", err)
	}
	roll, err := engine.NewRoll(req.Dice[0], req.Dice[1])
	if err != nil {
		return nil, badRequest("INVALID_DICE", err)
	}
	pos, err := resolvePosition(req.PositionSpec)
	if err != nil {
		return nil, badRequest("INVALID_POSITION", err)
	}

	release, err := h.acquire(ctx, false)
	defer release()
	if err != nil {
		return nil, &requestError{status: http.StatusServiceUnavailable, code: "SERVER_BUSY", err: err}
	}

	root := h.buildTree(rules, pos, roll)
	all := root.Plays()

	var plays []engine.Play
	switch {
	case req.Distinct:
		plays = root.DistinctPlays()
	case req.Redundant:
		plays = all
	default:
		plays = root.CanonicalPlays()
	}

	_, hasAlt := root.Alternate()
	return &MovesResponse{
		Roll:      roll.String(),
		Rules:     rules.Name,
		Usage:     root.Usage(),
		Dice:      root.Dice(),
		Alternate: hasAlt,
		NumPlays:  len(all),
		Plays:     lo.Map(plays, func(p engine.Play, _ int) PlayResponse { return PlayToResponse(p) }),
	}, nil
}

// summarize computes statistics for one roll or for all 21.
func (h *Handlers) summarize(ctx context.Context, req SummaryRequest) (*SummaryResponse, error) {
	rules, err := h.ruleSet(req.Rules)
	if err != nil {
		return nil, badRequest("INVALID_RULES", err)
	}
	pos, err := resolvePosition(req.PositionSpec)
	if err != nil {
		return nil, badRequest("INVALID_POSITION", err)
	}

	var roots []engine.RootNode
	if req.Dice != nil {
		roll, err := engine.NewRoll(req.Dice[0], req.Dice[1])
		if err != nil {
			return nil, badRequest("INVALID_DICE", err)
		}
		release, err := h.acquire(ctx, false)
		defer release()
		if err != nil {
			return nil, &requestError{status: http.StatusServiceUnavailable, code: "SERVER_BUSY", err: err}
		}
		roots = []engine.RootNode{h.buildTree(rules, pos, roll)}
	} else {
		release, err := h.acquire(ctx, true)
		defer release()
		if err != nil {
			return nil, &requestError{status: http.StatusServiceUnavailable, code: "SERVER_BUSY", err: err}
		}
		roots, err = engine.BuildAllRolls(ctx, rules, pos)
		if err != nil {
			return nil, &requestError{status: http.StatusServiceUnavailable, code: "CANCELLED", err: err}
		}
	}

	return &SummaryResponse{
		Rules:     rules.Name,
		Summaries: lo.Map(roots, func(r engine.RootNode, _ int) engine.Summary { return engine.Summarize(r) }),
	}, nil
}

// Moves handles POST /api/moves
func (h *Handlers) Moves(w http.ResponseWriter, r *http.Request) {
	var req MovesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	resp, err := h.moves(r.Context(), req)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Legal handles POST /api/legal
func (h *Handlers) Legal(w http.ResponseWriter, r *http.Request) {
	var req LegalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	rules, err := h.ruleSet(req.Rules)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_RULES")
		return
	}
	pos, err := resolvePosition(req.PositionSpec)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_POSITION")
		return
	}
	if req.Pip < 1 || req.Pip > 6 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("pip must be 1-6, got %d", req.Pip), "INVALID_PIP")
		return
	}

	after, m, ok := rules.Move(pos, req.From, req.Pip)
	if !ok {
		writeJSON(w, http.StatusOK, LegalResponse{Legal: false})
		return
	}

	resp := LegalResponse{
		Legal:  true,
		Move:   lo.ToPtr(moveToResponse(m)),
		Points: after.Points(),
	}
	if id, err := after.ID(); err == nil {
		resp.Position = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// Summary handles POST /api/summary
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	resp, err := h.summarize(r.Context(), req)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
