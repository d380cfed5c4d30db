package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/brent/internal/adapters/http/api"
	"github.com/okian/brent/internal/adapters/http/charts"
	service "github.com/okian/brent/internal/app"
	"github.com/okian/brent/internal/domain/model"
	"github.com/okian/brent/internal/domain/series"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

type fakeStore struct {
	ds  *model.Dataset
	err error
}

func (f *fakeStore) Dataset(context.Context) (*model.Dataset, error) {
	return f.ds, f.err
}

func day(y int, m time.Month, d int) time.Time { return model.NewDate(y, m, d) }

func sampleDataset() *model.Dataset {
	return &model.Dataset{
		Prices: []model.PricePoint{
			{Date: day(2020, time.January, 1), Price: decimal.RequireFromString("50.0")},
			{Date: day(2020, time.June, 1), Price: decimal.RequireFromString("40.0")},
			{Date: day(2020, time.December, 31), Price: decimal.RequireFromString("45.0")},
		},
		Events: []model.Event{
			{Date: day(2020, time.March, 6), Name: "OPEC+ talks fail", ExpectedImpact: "Price war", ImpactDirection: "positive"},
			{Date: day(2020, time.April, 12), Name: "Demand collapse", ExpectedImpact: "Lockdowns", ImpactDirection: "negative"},
			{Date: day(2021, time.January, 5), Name: "Saudi cut", ExpectedImpact: "Supply cut", ImpactDirection: "positive"},
		},
	}
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(store *fakeStore, opts ...api.Option) *http.ServeMux {
	svc := service.New(service.WithStore(store))
	server, err := api.NewServer(svc, &mockStatsProvider{stats: map[string]interface{}{"started": true}}, opts...)
	So(err, ShouldBeNil)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

type pricesBody struct {
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Count   int    `json:"count"`
	Prices  []struct {
		Date  string          `json:"date"`
		Price decimal.Decimal `json:"price"`
	} `json:"prices"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&fakeStore{ds: sampleDataset()})

		Convey("Then the health endpoint exposes metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint answers JSON", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then write methods are rejected", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/prices", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
		})
	})
}

func TestPrices(t *testing.T) {
	Convey("Given prices on 2020-01-01, 2020-06-01 and 2020-12-31", t, func() {
		mux := newMux(&fakeStore{ds: sampleDataset()})

		Convey("When asking for 2020-01-01..2020-06-01", func() {
			w := get(mux, "/api/prices?start=2020-01-01&end=2020-06-01")

			Convey("Then exactly the first two rows come back in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body pricesBody
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Count, ShouldEqual, 2)
				So(body.Prices, ShouldHaveLength, 2)
				So(body.Prices[0].Date, ShouldEqual, "2020-01-01")
				So(body.Prices[0].Price.Equal(decimal.NewFromInt(50)), ShouldBeTrue)
				So(body.Prices[1].Date, ShouldEqual, "2020-06-01")
				So(body.Prices[1].Price.Equal(decimal.NewFromInt(40)), ShouldBeTrue)
				So(body.MinDate, ShouldEqual, "2020-01-01")
				So(body.MaxDate, ShouldEqual, "2020-12-31")
			})
		})

		Convey("When no range is given", func() {
			w := get(mux, "/api/prices")

			Convey("Then the whole series is returned", func() {
				var body pricesBody
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Count, ShouldEqual, 3)
				So(body.Start, ShouldEqual, "2020-01-01")
				So(body.End, ShouldEqual, "2020-12-31")
			})
		})

		Convey("When start is after end", func() {
			w := get(mux, "/api/prices?start=2020-12-31&end=2020-01-01")

			Convey("Then the view is empty, not an error", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"prices":[]`)
				So(w.Body.String(), ShouldContainSubstring, `"count":0`)
			})
		})

		Convey("When a date is malformed", func() {
			w := get(mux, "/api/prices?start=01/02/2020")

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var body errorBody
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Code, ShouldEqual, "bad_request")
				So(body.Message, ShouldContainSubstring, "start")
			})
		})
	})
}

func TestSummary(t *testing.T) {
	Convey("Given the sample dataset", t, func() {
		mux := newMux(&fakeStore{ds: sampleDataset()})

		Convey("When asking for the summary of the first half", func() {
			w := get(mux, "/api/summary?start=2020-01-01&end=2020-06-01")

			Convey("Then statistics describe the filtered rows", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Start   string         `json:"start"`
					Summary series.Summary `json:"summary"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Start, ShouldEqual, "2020-01-01")
				So(body.Summary.Count, ShouldEqual, 2)
				So(body.Summary.Mean.Equal(decimal.NewFromInt(45)), ShouldBeTrue)
				So(body.Summary.Min.Equal(decimal.NewFromInt(40)), ShouldBeTrue)
				So(body.Summary.Max.Equal(decimal.NewFromInt(50)), ShouldBeTrue)
			})
		})
	})
}

func TestEventsAndImpact(t *testing.T) {
	Convey("Given events with directions positive, negative, positive", t, func() {
		mux := newMux(&fakeStore{ds: sampleDataset()})

		Convey("When listing events", func() {
			w := get(mux, "/api/events?start=2020-01-01&end=2020-01-02")

			Convey("Then all of them are returned whatever the range", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Count  int `json:"count"`
					Events []struct {
						EventDate      string `json:"event_date"`
						EventName      string `json:"event_name"`
						ExpectedImpact string `json:"expected_impact"`
					} `json:"events"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Count, ShouldEqual, 3)
				So(body.Events[0].EventDate, ShouldEqual, "2020-03-06")
				So(body.Events[2].EventName, ShouldEqual, "Saudi cut")
			})
		})

		Convey("When counting impact directions", func() {
			w := get(mux, "/api/impact")

			Convey("Then positive is 2 and negative is 1", func() {
				var body struct {
					Impact []series.ImpactCount `json:"impact"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Impact, ShouldResemble, []series.ImpactCount{
					{Direction: "negative", Count: 1},
					{Direction: "positive", Count: 2},
				})
			})
		})

		Convey("When there are no events", func() {
			empty := newMux(&fakeStore{ds: &model.Dataset{Prices: sampleDataset().Prices}})
			w := get(empty, "/api/impact")

			Convey("Then the counts are an empty list", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"impact":[]`)
			})
		})
	})
}

func TestLoadFailure(t *testing.T) {
	Convey("Given a store that cannot read its files", t, func() {
		loadErr := errors.New("csvload.load: open data/raw/BrentOilPrices.csv: no such file or directory")
		mux := newMux(&fakeStore{err: loadErr})

		for _, target := range []string{"/api/prices", "/api/summary", "/api/events", "/api/impact", "/export/prices.csv"} {
			w := get(mux, target)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			var body errorBody
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Code, ShouldEqual, "load_failed")
			So(body.Message, ShouldContainSubstring, "BrentOilPrices.csv")
		}

		Convey("Then the dashboard fails with the error text", func() {
			w := get(mux, "/dashboard")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, "no such file or directory")
		})
	})
}

func TestDashboard(t *testing.T) {
	Convey("Given the dashboard", t, func() {
		mux := newMux(&fakeStore{ds: sampleDataset()},
			api.WithChartOptions(charts.Options{AssetsHost: "http://assets.local/"}),
			api.WithAbout("### About\n\n**Data Source**: test fixture\n"),
		)

		Convey("When rendered for the first half of 2020", func() {
			w := get(mux, "/dashboard?start=2020-01-01&end=2020-06-01")
			html := w.Body.String()

			Convey("Then the page carries every panel", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
				So(html, ShouldContainSubstring, "Brent Oil Price Analysis Dashboard")
				So(html, ShouldContainSubstring, "http://assets.local/echarts.min.js")
				So(html, ShouldContainSubstring, charts.PriceTrendID)
				So(html, ShouldContainSubstring, charts.ImpactPieID)
				So(html, ShouldContainSubstring, "Key Events")
				So(html, ShouldContainSubstring, "Saudi cut")
				So(html, ShouldContainSubstring, "View Raw Data (2 rows)")
				So(html, ShouldContainSubstring, "<td>$50.00</td>")
				So(html, ShouldContainSubstring, "<strong>Data Source</strong>")
			})

			Convey("Then the date controls are bounded by the data", func() {
				So(html, ShouldContainSubstring, `min="2020-01-01"`)
				So(html, ShouldContainSubstring, `max="2020-12-31"`)
				So(html, ShouldContainSubstring, `name="end" value="2020-06-01"`)
			})

			Convey("Then the download links keep the range", func() {
				So(html, ShouldContainSubstring, "/export/prices.csv?start=2020-01-01&end=2020-06-01")
			})
		})

		Convey("When rendered twice with different ranges", func() {
			a := get(mux, "/dashboard?start=2020-01-01&end=2020-01-01").Body.String()
			b := get(mux, "/dashboard").Body.String()

			Convey("Then the event table is the same", func() {
				table := func(s string) string {
					start := strings.Index(s, `<table class="events">`)
					end := strings.Index(s[start:], "</table>")
					return s[start : start+end]
				}
				So(table(a), ShouldEqual, table(b))
			})
		})

		Convey("When a date is malformed", func() {
			w := get(mux, "/dashboard?end=yesterday")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When an event name contains a script end tag", func() {
			ds := sampleDataset()
			ds.Events[0].Name = "</script><script>alert(1)</script>"
			html := get(newMux(&fakeStore{ds: ds}), "/dashboard").Body.String()

			Convey("Then it stays inside the chart script and the table cell", func() {
				So(html, ShouldNotContainSubstring, "</script><script>alert(1)")
				So(html, ShouldContainSubstring, `<\/script><script>alert(1)<\/script>`)
				So(html, ShouldContainSubstring, "&lt;/script&gt;&lt;script&gt;alert(1)&lt;/script&gt;")
			})
		})
	})
}

func TestExports(t *testing.T) {
	Convey("Given the sample dataset", t, func() {
		mux := newMux(&fakeStore{ds: sampleDataset()})

		Convey("When downloading the CSV export", func() {
			w := get(mux, "/export/prices.csv?start=2020-01-01&end=2020-06-01")

			Convey("Then it holds the filtered rows", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
				So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "brent_prices_2020-01-01_2020-06-01.csv")
				So(w.Body.String(), ShouldEqual, "Date,Price\n2020-01-01,50\n2020-06-01,40\n")
			})
		})

		Convey("When downloading the Excel export", func() {
			w := get(mux, "/export/prices.xlsx?start=2020-06-01")

			Convey("Then the workbook has a Prices sheet", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
				So(err, ShouldBeNil)
				defer func() { _ = f.Close() }()
				rows, err := f.GetRows("Prices")
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, [][]string{
					{"Date", "Price"},
					{"2020-06-01", "40"},
					{"2020-12-31", "45"},
				})
			})
		})
	})
}

func TestNotebookPreview(t *testing.T) {
	Convey("Given the API server", t, func() {
		mux := newMux(&fakeStore{ds: sampleDataset()})

		Convey("When previewing the notebook", func() {
			w := get(mux, "/notebook")

			Convey("Then every cell is rendered", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "<h1>Brent Oil Price Analysis - Initial Exploration</h1>")
				So(w.Body.String(), ShouldContainSubstring, "10 cells")
				So(w.Body.String(), ShouldContainSubstring, `class="language-python"`)
			})
		})

		Convey("When downloading the notebook", func() {
			w := get(mux, "/notebook.ipynb")

			Convey("Then it is the nbformat document", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var doc map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &doc), ShouldBeNil)
				So(doc["nbformat"], ShouldEqual, 4.0)
				So(doc["cells"], ShouldHaveLength, 10)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler behind the request id middleware", t, func() {
		var seen string
		h := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFromContext(r.Context())
		}))

		Convey("When the client sends no id", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

			Convey("Then one is generated and echoed", func() {
				So(seen, ShouldHaveLength, 36)
				So(w.Header().Get(api.HeaderRequestID), ShouldEqual, seen)
			})
		})

		Convey("When the client sends an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(api.HeaderRequestID, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it is kept", func() {
				So(seen, ShouldEqual, "abc-123")
				So(w.Header().Get(api.HeaderRequestID), ShouldEqual, "abc-123")
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler that fails", t, func() {
		h := api.MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}, "teapot")

		Convey("Then the status and body pass through", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusTeapot)
			So(w.Body.String(), ShouldEqual, "short and stout")
		})
	})
}
