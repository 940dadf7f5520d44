package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rebarplan/pkg/buildinfo"
	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/errors"
	"github.com/matzehuels/rebarplan/pkg/filling"
	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/orchestrator"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 4 << 20

// Handler serves the design API. It holds no per-request state.
type Handler struct {
	orch     *orchestrator.Orchestrator
	settings config.Settings
	logger   *log.Logger
}

// NewHandler returns a handler solving with o. Requests that carry no
// settings use s; requests that do are decoded on top of s.
func NewHandler(o *orchestrator.Orchestrator, s config.Settings, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Handler{orch: o, settings: s.Clone(), logger: logger}
}

// =============================================================================
// Requests & Responses
// =============================================================================

// SolveRequest is the body of POST /v1/floors/solve.
type SolveRequest struct {
	Floor    config.Floor    `json:"floor"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// RecalculateRequest is the body of POST /v1/beams/recalculate.
type RecalculateRequest struct {
	Floor    config.Floor    `json:"floor"`
	Beam     string          `json:"beam"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// RecalculateResponse lists the proposals of one beam.
type RecalculateResponse struct {
	Beam      string            `json:"beam"`
	Proposals []*model.Solution `json:"proposals"`
}

// FillRequest is the body of POST /v1/fill.
type FillRequest struct {
	Strategy string          `json:"strategy"`
	Context  filling.Context `json:"context"`
}

// FillResponse is the outcome of one filling run.
type FillResponse struct {
	Strategy string         `json:"strategy"`
	Result   filling.Result `json:"result"`
	Total    int            `json:"total"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// CheckInfo describes one registered rule or constraint.
type CheckInfo struct {
	Tier        string `json:"tier"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Priority    int    `json:"priority"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
}

type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// =============================================================================
// Endpoints
// =============================================================================

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (h *Handler) solveFloor(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, beams, pc, err := h.prepare(req.Floor, req.Settings)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.orch.SolveFloor(r.Context(), beams, s, &pc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	loggerFrom(r.Context(), h.logger).Info("floor solved",
		"floor", req.Floor.Name,
		"run", res.RunID,
		"solved", len(res.Solutions),
		"unsolved", len(res.Unsolved))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) recalculate(w http.ResponseWriter, r *http.Request) {
	var req RecalculateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Beam == "" {
		h.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "beam is required"))
		return
	}
	s, beams, pc, err := h.prepare(req.Floor, req.Settings)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	props, err := h.orch.Recalculate(r.Context(), beams, req.Beam, s, &pc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if props == nil {
		props = []*model.Solution{}
	}
	writeJSON(w, http.StatusOK, RecalculateResponse{Beam: req.Beam, Proposals: props})
}

func (h *Handler) fill(w http.ResponseWriter, r *http.Request) {
	var req FillRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Strategy == "" {
		req.Strategy = filling.NameGreedy
	}
	strat, err := filling.Lookup(req.Strategy)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res := strat.Calculate(req.Context)
	writeJSON(w, http.StatusOK, FillResponse{Strategy: strat.Name(), Result: res, Total: res.Total()})
}

func (h *Handler) constraints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog())
}

// catalog lists the rules of the pipeline, then its constraints.
func (h *Handler) catalog() []CheckInfo {
	opts := h.orch.Pipeline.Options()
	var out []CheckInfo
	for _, r := range opts.Rules.Rules() {
		out = append(out, CheckInfo{Tier: "rule", Name: r.Name, Priority: r.Priority, Enabled: true})
	}
	for _, c := range opts.Constraints.List() {
		out = append(out, CheckInfo{
			Tier:        "constraint",
			Name:        c.Name,
			Category:    c.Category.String(),
			Priority:    c.Priority,
			Enabled:     !c.Disabled,
			Description: c.Description,
		})
	}
	return out
}

// =============================================================================
// Helpers
// =============================================================================

// prepare resolves the request settings and converts the floor.
func (h *Handler) prepare(f config.Floor, raw json.RawMessage) (config.Settings, []orchestrator.Beam, model.ProjectConstraints, error) {
	s := h.settings.Clone()
	if len(raw) > 0 {
		if err := config.Decode(raw, config.FormatJSON, &s); err != nil {
			return config.Settings{}, nil, model.ProjectConstraints{}, errors.Wrap(errors.ErrCodeInvalidSettings, err, "settings")
		}
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, nil, model.ProjectConstraints{}, err
	}
	if len(f.Beams) == 0 {
		return config.Settings{}, nil, model.ProjectConstraints{}, errors.New(errors.ErrCodeInvalidInput, "floor lists no beams")
	}
	beams, pc, err := orchestrator.FromFloor(f, s)
	if err != nil {
		return config.Settings{}, nil, model.ProjectConstraints{}, err
	}
	return s, beams, pc, nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid json body"))
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	logger := loggerFrom(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	} else {
		logger.Debug("request rejected", "code", code, "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Error: errors.UserMessage(err)})
}

func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeCanceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
