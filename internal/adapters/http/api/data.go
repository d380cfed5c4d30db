package api

import (
	"net/http"
	"time"

	service "github.com/okian/brent/internal/app"
	"github.com/okian/brent/internal/domain/model"
	"github.com/okian/brent/internal/domain/series"
	"github.com/okian/brent/pkg/logger"
	"github.com/shopspring/decimal"
)

type priceDTO struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

type eventDTO struct {
	EventDate       string `json:"event_date"`
	EventName       string `json:"event_name"`
	ExpectedImpact  string `json:"expected_impact"`
	ImpactDirection string `json:"impact_direction"`
}

type pricesResponse struct {
	MinDate string     `json:"min_date"`
	MaxDate string     `json:"max_date"`
	Start   string     `json:"start"`
	End     string     `json:"end"`
	Count   int        `json:"count"`
	Prices  []priceDTO `json:"prices"`
}

type eventsResponse struct {
	Count  int        `json:"count"`
	Events []eventDTO `json:"events"`
}

type impactResponse struct {
	Impact []series.ImpactCount `json:"impact"`
}

type summaryResponse struct {
	Start   string         `json:"start"`
	End     string         `json:"end"`
	Summary series.Summary `json:"summary"`
}

func toPriceDTOs(prices []model.PricePoint) []priceDTO {
	out := make([]priceDTO, len(prices))
	for i, p := range prices {
		out[i] = priceDTO{Date: dateString(p.Date), Price: p.Price}
	}
	return out
}

func toEventDTOs(events []model.Event) []eventDTO {
	out := make([]eventDTO, len(events))
	for i, e := range events {
		out[i] = eventDTO{
			EventDate:       e.Date.Format(model.DateLayout),
			EventName:       e.Name,
			ExpectedImpact:  e.ExpectedImpact,
			ImpactDirection: e.ImpactDirection,
		}
	}
	return out
}

// dateString formats t as YYYY-MM-DD, or "" for the zero time.
func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}

// DataHandler serves the dashboard's panels as JSON.
type DataHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps Dependencies, l logger.Logger) *DataHandler {
	return &DataHandler{deps: deps, logger: l}
}

// view parses the range, derives the view and writes the error response on failure.
func (h *DataHandler) view(w http.ResponseWriter, r *http.Request) (*service.View, bool) {
	if !allowGet(w, r) {
		return nil, false
	}
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return nil, false
	}
	v, err := h.deps.View(r.Context(), sel)
	if err != nil {
		h.logger.Error(r.Context(), "view failed", logger.Error(err),
			logger.String("request_id", RequestIDFromContext(r.Context())))
		writeViewError(w, err)
		return nil, false
	}
	return v, true
}

// HandlePrices handles GET /api/prices?start=&end= requests.
func (h *DataHandler) HandlePrices(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, pricesResponse{
		MinDate: dateString(v.MinDate),
		MaxDate: dateString(v.MaxDate),
		Start:   dateString(v.Range.Start),
		End:     dateString(v.Range.End),
		Count:   len(v.Prices),
		Prices:  toPriceDTOs(v.Prices),
	})
}

// HandleSummary handles GET /api/summary?start=&end= requests.
func (h *DataHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Start:   dateString(v.Range.Start),
		End:     dateString(v.Range.End),
		Summary: v.Summary,
	})
}

func (h *DataHandler) panels(w http.ResponseWriter, r *http.Request) (*service.EventPanels, bool) {
	if !allowGet(w, r) {
		return nil, false
	}
	p, err := h.deps.Events(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "events failed", logger.Error(err),
			logger.String("request_id", RequestIDFromContext(r.Context())))
		writeViewError(w, err)
		return nil, false
	}
	return p, true
}

// HandleEvents handles GET /api/events requests. Events are never range filtered.
func (h *DataHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panels(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Count: len(p.Events), Events: toEventDTOs(p.Events)})
}

// HandleImpact handles GET /api/impact requests.
func (h *DataHandler) HandleImpact(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panels(w, r)
	if !ok {
		return
	}
	impact := p.Impact
	if impact == nil {
		impact = []series.ImpactCount{}
	}
	writeJSON(w, http.StatusOK, impactResponse{Impact: impact})
}
