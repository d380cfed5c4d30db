package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"

	service "github.com/okian/brent/internal/app"
	"github.com/okian/brent/internal/domain/model"
	"github.com/okian/brent/pkg/logger"
	"github.com/okian/brent/pkg/metrics"
	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
	exportSheet     = "Prices"
)

var exportHeader = []string{"Date", "Price"} //nolint:gochecknoglobals // column titles of both formats

// ExportHandler serves the filtered view as a download.
type ExportHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies, l logger.Logger) *ExportHandler {
	return &ExportHandler{deps: deps, logger: l}
}

// HandleXLSX handles GET /export/prices.xlsx?start=&end= requests.
func (h *ExportHandler) HandleXLSX(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, FormatXLSX, contentTypeXLSX, encodeXLSX)
}

// HandleCSV handles GET /export/prices.csv?start=&end= requests.
func (h *ExportHandler) HandleCSV(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, FormatCSV, contentTypeCSV, encodeCSV)
}

func (h *ExportHandler) serve(
	w http.ResponseWriter, r *http.Request,
	format, contentType string,
	encode func([]model.PricePoint) ([]byte, error),
) {
	if !allowGet(w, r) {
		return
	}
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	v, err := h.deps.View(r.Context(), sel)
	if err != nil {
		h.logger.Error(r.Context(), "export view failed", logger.Error(err), logger.String("format", format))
		writeViewError(w, err)
		return
	}
	body, err := encode(v.Prices)
	if err != nil {
		err = WrapKind("api.export", ErrExport, err)
		h.logger.Error(r.Context(), "export encode failed", logger.Error(err), logger.String("format", format))
		writeError(w, http.StatusInternalServerError, codeInternal, err)
		return
	}

	metrics.RecordExport(format)
	h.logger.Info(r.Context(), "export served",
		logger.String("format", format),
		logger.Int("rows", len(v.Prices)),
		logger.String("request_id", RequestIDFromContext(r.Context())),
	)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportName(v, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// exportName is brent_prices_<start>_<end>.<ext>, or brent_prices.<ext> for an empty dataset.
func exportName(v *service.View, ext string) string {
	if v.Range.Start.IsZero() {
		return "brent_prices." + ext
	}
	return fmt.Sprintf("brent_prices_%s_%s.%s", dateString(v.Range.Start), dateString(v.Range.End), ext)
}

func encodeCSV(prices []model.PricePoint) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, p := range prices {
		if err := cw.Write([]string{dateString(p.Date), p.Price.String()}); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeXLSX(prices []model.PricePoint) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, p := range prices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{dateString(p.Date), p.Price.InexactFloat64()}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "B", 14); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
