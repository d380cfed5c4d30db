// Package charts builds the dashboard's echarts figures.
package charts

import (
	"html/template"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
	"github.com/okian/brent/internal/domain/model"
	"github.com/okian/brent/internal/domain/series"
)

// Element ids of the two figures on the dashboard page.
const (
	PriceTrendID = "price-trend"
	ImpactPieID  = "impact-pie"
)

// Event marker style.
const (
	markerColor   = "red"
	markerType    = "dashed"
	markerOpacity = 0.3
)

// Options carries presentation settings shared by every chart.
type Options struct {
	AssetsHost string
	Width      string
	Height     string
}

func (o Options) initOpts(id string) opts.Initialization {
	in := opts.Initialization{ChartID: id, AssetsHost: o.AssetsHost, Width: o.Width, Height: o.Height}
	if in.Width == "" {
		in.Width = "100%"
	}
	if in.Height == "" {
		in.Height = "480px"
	}
	return in
}

// PriceTrend plots price over date with one dashed vertical marker per event.
// Markers are drawn for every event, whatever the plotted range.
func PriceTrend(prices []model.PricePoint, events []model.Event, o Options) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(o.initOpts(PriceTrendID)),
		charts.WithTitleOpts(opts.Title{Title: "Brent Crude Oil Prices Over Time"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Price (USD/barrel)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)

	data := make([]opts.LineData, 0, len(prices))
	for _, p := range prices {
		data = append(data, opts.LineData{
			Value: []interface{}{p.Date.Format(model.DateLayout), p.Price.InexactFloat64()},
		})
	}

	markers := make([]opts.MarkLineNameXAxisItem, 0, len(events))
	for _, e := range events {
		markers = append(markers, opts.MarkLineNameXAxisItem{
			Name:  e.Name,
			XAxis: e.Date.Format(model.DateLayout),
		})
	}

	line.AddSeries("Price", data,
		charts.WithMarkLineNameXAxisItemOpts(markers...),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol: []string{"none", "none"},
			LineStyle: &opts.LineStyle{
				Color:   markerColor,
				Type:    markerType,
				Opacity: markerOpacity,
			},
			Label: &opts.Label{Show: opts.Bool(false)},
		}),
	)
	return line
}

// ImpactPie shows how many events share each impact direction. No counts gives an empty pie.
func ImpactPie(counts []series.ImpactCount, o Options) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(o.initOpts(ImpactPieID)),
		charts.WithTitleOpts(opts.Title{Title: "Impact Direction Distribution"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)

	data := make([]opts.PieData, 0, len(counts))
	for _, c := range counts {
		data = append(data, opts.PieData{Name: c.Direction, Value: c.Count})
	}
	pie.AddSeries("impact_direction", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

// Snippet is a chart prepared for a larger page: the container element and its init script.
type Snippet struct {
	Element template.HTML
	Script  template.HTML
}

type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

// scriptEscaper keeps option strings such as event names from ending the script element.
var scriptEscaper = strings.NewReplacer("</", `<\/`, "<!--", `<\!--`) //nolint:gochecknoglobals // stateless

// Embed renders c as a page fragment. The page must load echarts.min.js from the assets host.
// Option strings come from the CSV files, so end tags and comment openers inside the script
// are escaped; the JavaScript string values are unchanged.
func Embed(c snippetRenderer) Snippet {
	s := c.RenderSnippet()
	return Snippet{
		Element: template.HTML(s.Element),              //nolint:gosec // ids and sizes from Options only
		Script:  template.HTML(escapeScript(s.Script)), //nolint:gosec // data strings escaped by escapeScript
	}
}

// escapeScript escapes the body of a single <script>...</script> element.
func escapeScript(script string) string {
	open := strings.Index(script, ">") + 1
	end := strings.LastIndex(script, "</script>")
	if open == 0 || end < open {
		return scriptEscaper.Replace(script)
	}
	return script[:open] + scriptEscaper.Replace(script[open:end]) + script[end:]
}
