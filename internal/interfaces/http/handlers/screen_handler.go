package handlers

import (
	"net/http"
	"strings"

	"github.com/aushadhiai/screening-console/internal/application/viewmodel"
	"github.com/aushadhiai/screening-console/internal/domain/potency"
	"github.com/aushadhiai/screening-console/internal/domain/ranking"
	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/logging"
	"github.com/aushadhiai/screening-console/pkg/errors"
)

// ScreenHandler serves the four screening screens.  Each request mounts a
// fresh page, loads it once and renders its snapshot.
type ScreenHandler struct {
	backend   viewmodel.Backend
	collation *ranking.Collation
	logger    logging.Logger
	metrics   viewmodel.Metrics
}

// NewScreenHandler creates a ScreenHandler.  metrics may be nil.
func NewScreenHandler(backend viewmodel.Backend, collation *ranking.Collation, logger logging.Logger, metrics viewmodel.Metrics) *ScreenHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ScreenHandler{backend: backend, collation: collation, logger: logger.Named("screens"), metrics: metrics}
}

func (h *ScreenHandler) pageOptions(r *http.Request) []viewmodel.Option {
	return []viewmodel.Option{
		viewmodel.WithLogger(h.logger.WithContext(r.Context())),
		viewmodel.WithMetrics(h.metrics),
	}
}

// Targets handles GET /api/v1/targets?disease=.
func (h *ScreenHandler) Targets(w http.ResponseWriter, r *http.Request) {
	disease, err := requiredQuery(r, "disease")
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := viewmodel.NewTargetsPage(h.backend, h.collation, h.pageOptions(r)...)
	if err != nil {
		writeError(w, err)
		return
	}
	serveScreen(w, r, page, disease, renderTarget, nil)
}

// Hits handles GET /api/v1/hits?disease= and GET /api/v1/hits?target_id=.
// Exactly one of the two must be given.
func (h *ScreenHandler) Hits(w http.ResponseWriter, r *http.Request) {
	disease := strings.TrimSpace(r.URL.Query().Get("disease"))
	targetID := strings.TrimSpace(r.URL.Query().Get("target_id"))

	by, param := viewmodel.HitsByDisease, disease
	switch {
	case disease != "" && targetID != "":
		writeError(w, errors.InvalidParam("give either disease or target_id, not both"))
		return
	case targetID != "":
		by, param = viewmodel.HitsByTarget, targetID
	case disease == "":
		writeError(w, errors.InvalidParam("disease or target_id is required"))
		return
	}

	page, err := viewmodel.NewHitsPage(h.backend, by, h.collation, h.pageOptions(r)...)
	if err != nil {
		writeError(w, err)
		return
	}
	serveScreen(w, r, page, param, renderHit, hitPoint)
}

// Alternates handles GET /api/v1/alternates?disease=.
func (h *ScreenHandler) Alternates(w http.ResponseWriter, r *http.Request) {
	disease, err := requiredQuery(r, "disease")
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := viewmodel.NewAlternatesPage(h.backend, h.collation, h.pageOptions(r)...)
	if err != nil {
		writeError(w, err)
		return
	}
	serveScreen(w, r, page, disease, renderAlternate, alternatePoint)
}

// Evaluations handles GET /api/v1/evaluations?smiles=.
func (h *ScreenHandler) Evaluations(w http.ResponseWriter, r *http.Request) {
	smiles, err := requiredQuery(r, "smiles")
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := viewmodel.NewEvaluationPage(h.backend, h.collation, h.pageOptions(r)...)
	if err != nil {
		writeError(w, err)
		return
	}
	serveScreen(w, r, page, smiles, renderEvaluation, evaluationPoint)
}

func requiredQuery(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", errors.InvalidParam(name + " is required")
	}
	return v, nil
}

// serveScreen applies the requested ordering, loads page and renders it.
// Sorting is validated before the backend is called so a bad query costs
// nothing upstream.
func serveScreen[T, I any](w http.ResponseWriter, r *http.Request, page *viewmodel.Page[T], param string, render func(T) I, point func(T) potency.ChartPoint) {
	sq, err := parseSort(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if sq.state != nil {
		if err := page.SetSort(*sq.state); err != nil {
			writeError(w, err)
			return
		}
	}
	for _, f := range sq.toggles {
		if err := page.ToggleSort(f); err != nil {
			writeError(w, err)
			return
		}
	}

	// Failures are part of the view; the page has already logged them.
	_ = page.Load(r.Context(), param)

	v := page.Snapshot()
	resp := ScreenResponse[I]{
		State:      v.State.String(),
		Query:      v.Param,
		Generation: v.Generation,
		Sort:       SortView{Field: v.Sort.Field.String(), Direction: v.Sort.Direction.String()},
		Count:      len(v.Items),
		Items:      make([]I, 0, len(v.Items)),
		ErrorCode:  string(v.ErrCode),
	}
	for _, f := range page.Fields() {
		resp.Fields = append(resp.Fields, f.String())
	}
	for _, item := range v.Items {
		resp.Items = append(resp.Items, render(item))
	}
	if point != nil && len(v.Items) > 0 {
		points := make([]potency.ChartPoint, 0, len(v.Items))
		for _, item := range v.Items {
			points = append(points, point(item))
		}
		resp.Chart = potency.Chart(points)
	}
	writeJSON(w, http.StatusOK, resp)
}
