// Package notebook builds and writes the initial-analysis Jupyter notebook.
//
// Cell sources are stored as the Python a reader would type: single quotes stay
// plain and line breaks are real newlines split into source lines. Notebooks from
// the earlier generator double-escaped quotes and kept literal "\n" sequences, so
// their code cells did not run; the output here intentionally differs from them.
// Escapes such as print("\n...") inside the Python itself are kept as written.
package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/okian/brent/pkg/metrics"
)

// Cell types.
const (
	Markdown = "markdown"
	Code     = "code"
)

// Format version written to every notebook.
const (
	NBFormat      = 4
	NBFormatMinor = 4
)

// Cell is one notebook block. Source is the raw text; it is split into lines on write.
type Cell struct {
	Type   string
	Source string
}

// Notebook is an ordered list of cells plus fixed execution environment metadata.
type Notebook struct {
	Cells    []Cell
	Metadata Metadata
}

// Metadata describes the kernel the notebook is meant to run on.
type Metadata struct {
	KernelSpec   KernelSpec   `json:"kernelspec"`
	LanguageInfo LanguageInfo `json:"language_info"`
}

// KernelSpec is the nbformat kernelspec block.
type KernelSpec struct {
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
	Name        string `json:"name"`
}

// LanguageInfo is the nbformat language_info block.
type LanguageInfo struct {
	CodemirrorMode    CodemirrorMode `json:"codemirror_mode"`
	FileExtension     string         `json:"file_extension"`
	Mimetype          string         `json:"mimetype"`
	Name              string         `json:"name"`
	NbconvertExporter string         `json:"nbconvert_exporter"`
	PygmentsLexer     string         `json:"pygments_lexer"`
	Version           string         `json:"version"`
}

// CodemirrorMode selects the editor highlighting mode.
type CodemirrorMode struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// Python3 is the metadata of a stock IPython 3 kernel.
func Python3() Metadata {
	return Metadata{
		KernelSpec: KernelSpec{DisplayName: "Python 3", Language: "python", Name: "python3"},
		LanguageInfo: LanguageInfo{
			CodemirrorMode:    CodemirrorMode{Name: "ipython", Version: 3},
			FileExtension:     ".py",
			Mimetype:          "text/x-python",
			Name:              "python",
			NbconvertExporter: "python",
			PygmentsLexer:     "ipython3",
			Version:           "3.8.0",
		},
	}
}

type markdownCellJSON struct {
	CellType string         `json:"cell_type"`
	Metadata map[string]any `json:"metadata"`
	Source   []string       `json:"source"`
}

type codeCellJSON struct {
	CellType       string         `json:"cell_type"`
	ExecutionCount *int           `json:"execution_count"`
	Metadata       map[string]any `json:"metadata"`
	Outputs        []any          `json:"outputs"`
	Source         []string       `json:"source"`
}

// MarshalJSON writes the nbformat v4 shape for the cell type.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case Markdown:
		return marshal(markdownCellJSON{CellType: Markdown, Metadata: map[string]any{}, Source: Lines(c.Source)})
	case Code:
		return marshal(codeCellJSON{CellType: Code, Metadata: map[string]any{}, Outputs: []any{}, Source: Lines(c.Source)})
	}
	return nil, fmt.Errorf("unknown cell type %q", c.Type)
}

type notebookJSON struct {
	Cells         []Cell   `json:"cells"`
	Metadata      Metadata `json:"metadata"`
	NBFormat      int      `json:"nbformat"`
	NBFormatMinor int      `json:"nbformat_minor"`
}

// MarshalJSON writes the top-level nbformat document.
func (n *Notebook) MarshalJSON() ([]byte, error) {
	return marshal(notebookJSON{
		Cells:         n.Cells,
		Metadata:      n.Metadata,
		NBFormat:      NBFormat,
		NBFormatMinor: NBFormatMinor,
	})
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Lines splits text the way notebooks store sources: every line but the last keeps its "\n".
func Lines(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.SplitAfter(text, "\n")
}

// Encode renders n as indented JSON without HTML escaping.
func Encode(n *Notebook) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes n to path, replacing any existing file. The parent directory must exist.
func Write(path string, n *Notebook) error {
	const op = "notebook.write"
	data, err := Encode(n)
	if err != nil {
		metrics.RecordNotebookWrite(metrics.ResultError)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // notebooks are meant to be shared
		metrics.RecordNotebookWrite(metrics.ResultError)
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordNotebookWrite(metrics.ResultSuccess)
	return nil
}

// Markdown flattens the notebook into one markdown document, code cells as fenced python blocks.
func (n *Notebook) Markdown() string {
	var b strings.Builder
	for i, c := range n.Cells {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch c.Type {
		case Code:
			b.WriteString("```python\n")
			b.WriteString(c.Source)
			b.WriteString("\n```")
		default:
			b.WriteString(c.Source)
		}
	}
	b.WriteString("\n")
	return b.String()
}
