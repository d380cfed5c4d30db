package api

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"sync"

	"github.com/Rhymond/go-money"
	"github.com/okian/brent/internal/adapters/http/charts"
	service "github.com/okian/brent/internal/app"
	"github.com/okian/brent/internal/domain/model"
	"github.com/okian/brent/pkg/logger"
	"github.com/shopspring/decimal"
)

const dashboardTitle = "Brent Oil Price Analysis Dashboard"

type summaryCard struct {
	Label string
	Value string
}

type eventRow struct {
	Date           string
	Name           string
	ExpectedImpact string
}

type priceRow struct {
	Date  string
	Price string
}

type dashboardPage struct {
	Title      string
	AssetsHost string
	MinDate    string
	MaxDate    string
	Start      string
	End        string
	Count      int
	Cards      []summaryCard
	Trend      charts.Snippet
	Pie        charts.Snippet
	Events     []eventRow
	Prices     []priceRow
	About      template.HTML
	RequestID  string
}

// eventView holds the range-independent parts of the page, built once per event panel set.
type eventView struct {
	of     *service.EventPanels
	pie    charts.Snippet
	events []eventRow
}

// dashboardHandler renders the interactive dashboard page.
type dashboardHandler struct {
	deps   Dependencies
	logger logger.Logger
	charts charts.Options
	tmpl   *template.Template

	about template.HTML

	mu     sync.Mutex
	events *eventView
}

// newDashboardHandler parses the page template and renders the About markdown once.
func newDashboardHandler(deps Dependencies, cfg settings) (*dashboardHandler, error) {
	src := cfg.about
	if src == "" {
		src = defaultAbout
	}
	about, err := cfg.renderMarkdown(src)
	if err != nil {
		return nil, WrapKind("api.about", ErrRender, err)
	}
	return &dashboardHandler{
		deps:   deps,
		logger: cfg.logger,
		charts: cfg.charts,
		tmpl:   template.Must(template.ParseFS(staticFS, "dashboard.html.tmpl")),
		about:  template.HTML(about), //nolint:gosec // goldmark output with raw HTML disabled
	}, nil
}

// HandleDashboard handles GET /dashboard?start=&end= requests.
// Every change of the date controls is a new request; only the price panels depend on it.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	sel, err := parseSelection(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := h.deps.View(r.Context(), sel)
	if err != nil {
		h.logger.Error(r.Context(), "dashboard view failed", logger.Error(err),
			logger.String("request_id", RequestIDFromContext(r.Context())))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ev := h.eventView(v.EventPanels)
	page := dashboardPage{
		Title:      dashboardTitle,
		AssetsHost: h.charts.AssetsHost,
		MinDate:    dateString(v.MinDate),
		MaxDate:    dateString(v.MaxDate),
		Start:      dateString(v.Range.Start),
		End:        dateString(v.Range.End),
		Count:      len(v.Prices),
		Cards:      summaryCards(v),
		Trend:      charts.Embed(charts.PriceTrend(v.Prices, v.Events, h.charts)),
		Pie:        ev.pie,
		Events:     ev.events,
		Prices:     priceRows(v.Prices),
		About:      h.about,
		RequestID:  RequestIDFromContext(r.Context()),
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, page); err != nil {
		err = WrapKind("api.dashboard", ErrRender, err)
		h.logger.Error(r.Context(), "dashboard render failed", logger.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *dashboardHandler) eventView(p *service.EventPanels) *eventView {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.events != nil && h.events.of == p {
		return h.events
	}
	rows := make([]eventRow, len(p.Events))
	for i, e := range p.Events {
		rows[i] = eventRow{Date: dateString(e.Date), Name: e.Name, ExpectedImpact: e.ExpectedImpact}
	}
	h.events = &eventView{
		of:     p,
		pie:    charts.Embed(charts.ImpactPie(p.Impact, h.charts)),
		events: rows,
	}
	return h.events
}

// usd formats a price as US dollars, e.g. $1,234.50.
func usd(d decimal.Decimal) string {
	return money.New(d.Shift(2).Round(0).IntPart(), money.USD).Display()
}

func summaryCards(v *service.View) []summaryCard {
	s := v.Summary
	if s.Count == 0 {
		return []summaryCard{{Label: "Observations", Value: "0"}}
	}
	return []summaryCard{
		{Label: "Observations", Value: strconv.Itoa(s.Count)},
		{Label: "Mean", Value: usd(s.Mean)},
		{Label: "Std", Value: usd(s.Std)},
		{Label: "Min", Value: usd(s.Min)},
		{Label: "25%", Value: usd(s.P25)},
		{Label: "Median", Value: usd(s.P50)},
		{Label: "75%", Value: usd(s.P75)},
		{Label: "Max", Value: usd(s.Max)},
	}
}

func priceRows(prices []model.PricePoint) []priceRow {
	rows := make([]priceRow, len(prices))
	for i, p := range prices {
		rows[i] = priceRow{Date: dateString(p.Date), Price: usd(p.Price)}
	}
	return rows
}
