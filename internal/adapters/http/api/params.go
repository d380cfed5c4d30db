package api

import (
	"net/http"
	"strings"
	"time"

	service "github.com/okian/brent/internal/app"
	"github.com/okian/brent/internal/domain/model"
)

// Query parameters of the date range controls.
const (
	paramStart = "start"
	paramEnd   = "end"
)

// parseSelection reads start and end (YYYY-MM-DD) from the query. Missing or empty values
// leave the bound open.
func parseSelection(r *http.Request) (service.Selection, error) {
	const op = "api.parse_selection"
	var sel service.Selection
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{paramStart, &sel.Start}, {paramEnd, &sel.End}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		t, err := time.Parse(model.DateLayout, raw)
		if err != nil {
			return service.Selection{}, NewKind(op, ErrInvalidDate, "%s=%q, want YYYY-MM-DD", p.name, raw)
		}
		*p.dst = t
	}
	return sel, nil
}
