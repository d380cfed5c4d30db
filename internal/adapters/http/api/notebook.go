package api

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/okian/brent/internal/markdown"
	"github.com/okian/brent/internal/notebook"
	"github.com/okian/brent/pkg/logger"
)

type notebookPage struct {
	Title  string
	Cells  int
	Format string
	Kernel string
	Body   template.HTML
}

// NotebookHandler previews and serves the generated analysis notebook.
type NotebookHandler struct {
	build  func() *notebook.Notebook
	logger logger.Logger
	tmpl   *template.Template
}

// NewNotebookHandler creates a new notebook handler.
func NewNotebookHandler(build func() *notebook.Notebook, l logger.Logger) *NotebookHandler {
	return &NotebookHandler{
		build:  build,
		logger: l,
		tmpl:   template.Must(template.ParseFS(staticFS, "notebook.html.tmpl")),
	}
}

// HandlePreview handles GET /notebook requests with an HTML rendering of every cell.
func (h *NotebookHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	nb := h.build()
	body, err := markdown.HTML(nb.Markdown())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page := notebookPage{
		Title:  "Notebook preview",
		Cells:  len(nb.Cells),
		Format: fmt.Sprintf("%d.%d", notebook.NBFormat, notebook.NBFormatMinor),
		Kernel: nb.Metadata.KernelSpec.DisplayName,
		Body:   template.HTML(body), //nolint:gosec // goldmark output with raw HTML disabled
	}
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, page); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// HandleDownload handles GET /notebook.ipynb requests.
func (h *NotebookHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	data, err := notebook.Encode(h.build())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-ipynb+json")
	w.Header().Set("Content-Disposition", `attachment; filename="01_initial_analysis.ipynb"`)
	_, _ = w.Write(data)
}

func (h *NotebookHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	err = WrapKind("api.notebook", ErrRender, err)
	h.logger.Error(r.Context(), "notebook render failed", logger.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
