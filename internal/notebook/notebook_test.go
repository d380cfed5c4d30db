package notebook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PaesslerAG/jsonpath"
	. "github.com/smartystreets/goconvey/convey"
)

func decode(data []byte) any {
	var v any
	So(json.Unmarshal(data, &v), ShouldBeNil)
	return v
}

func get(path string, doc any) any {
	v, err := jsonpath.Get(path, doc)
	So(err, ShouldBeNil)
	return v
}

func TestWrite(t *testing.T) {
	Convey("Given an empty target directory", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "01_initial_analysis.ipynb")

		Convey("When writing the initial notebook", func() {
			So(Write(path, Initial()), ShouldBeNil)
			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			doc := decode(data)

			Convey("Then the cells come out in the fixed order", func() {
				types := get("$.cells[*].cell_type", doc)
				So(types, ShouldResemble, []any{
					"markdown", "code", "markdown", "code", "markdown",
					"code", "markdown", "code", "markdown", "markdown",
				})
				So(get("$.cells[0].source[0]", doc), ShouldEqual, "# Brent Oil Price Analysis - Initial Exploration\n")
				So(get("$.cells[2].source[0]", doc), ShouldEqual, "## 1. Load and Inspect Data")
				So(get("$.cells[8].source[0]", doc), ShouldEqual, "## 4. Next Steps for Analysis")
			})

			Convey("Then the format metadata is fixed", func() {
				So(get("$.nbformat", doc), ShouldEqual, 4.0)
				So(get("$.nbformat_minor", doc), ShouldEqual, 4.0)
				So(get("$.metadata.kernelspec.name", doc), ShouldEqual, "python3")
				So(get("$.metadata.language_info.version", doc), ShouldEqual, "3.8.0")
				So(get("$.metadata.language_info.codemirror_mode.version", doc), ShouldEqual, 3.0)
			})

			Convey("Then code cells carry empty outputs and a null execution count", func() {
				So(get("$.cells[1].outputs", doc), ShouldResemble, []any{})
				So(get("$.cells[1].execution_count", doc), ShouldBeNil)
				So(get("$.cells[1].metadata", doc), ShouldResemble, map[string]any{})
			})

			Convey("Then markdown cells have no code fields", func() {
				cell := get("$.cells[0]", doc).(map[string]any)
				_, hasOutputs := cell["outputs"]
				_, hasCount := cell["execution_count"]
				So(hasOutputs, ShouldBeFalse)
				So(hasCount, ShouldBeFalse)
			})

			Convey("Then the file is indented and not HTML escaped", func() {
				text := string(data)
				So(text, ShouldStartWith, "{\n  \"cells\": [\n")
				So(text, ShouldContainSubstring, "'figure.figsize'] = [14, 6]")
				So(text, ShouldNotContainSubstring, `\u00`)
				So(text, ShouldContainSubstring, "data_dir / 'raw/BrentOilPrices.csv'")
			})
		})

		Convey("When a file already exists at the path", func() {
			So(os.WriteFile(path, []byte("stale content that is longer than nothing"), 0o600), ShouldBeNil)
			So(Write(path, Initial()), ShouldBeNil)

			Convey("Then it is replaced", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldNotContainSubstring, "stale")
				So(get("$.nbformat", decode(data)), ShouldEqual, 4.0)
			})
		})

		Convey("When the parent directory is missing", func() {
			err := Write(filepath.Join(dir, "notebooks", "out.ipynb"), Initial())

			Convey("Then it fails without creating the directory", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "notebook.write")
				_, statErr := os.Stat(filepath.Join(dir, "notebooks"))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})
}

func TestLines(t *testing.T) {
	Convey("Given cell sources", t, func() {
		So(Lines(""), ShouldResemble, []string{})
		So(Lines("one"), ShouldResemble, []string{"one"})
		So(Lines("a\nb"), ShouldResemble, []string{"a\n", "b"})
		So(Lines("a\n\nb"), ShouldResemble, []string{"a\n", "\n", "b"})
	})
}

func TestInitialIsDeterministic(t *testing.T) {
	Convey("Given two builds of the initial notebook", t, func() {
		a, err := Encode(Initial())
		So(err, ShouldBeNil)
		b, err := Encode(Initial())
		So(err, ShouldBeNil)

		Convey("Then they encode identically", func() {
			So(string(a), ShouldEqual, string(b))
		})
	})
}

func TestInitialSourcesArePlainPython(t *testing.T) {
	Convey("Given the encoded initial notebook", t, func() {
		data, err := Encode(Initial())
		So(err, ShouldBeNil)
		doc := decode(data)

		Convey("Then code lines keep plain quotes and end in real newlines", func() {
			src := get("$.cells[1].source", doc).([]any)
			So(src, ShouldContain, "sns.set(style='whitegrid')\n")
			for _, line := range src[:len(src)-1] {
				So(line.(string), ShouldEndWith, "\n")
				So(line.(string), ShouldNotContainSubstring, `\'`)
			}
		})

		Convey("Then escaped newlines appear only inside print calls", func() {
			for _, cell := range get("$.cells[*].source", doc).([]any) {
				for _, line := range cell.([]any) {
					if strings.Contains(line.(string), `\n`) {
						So(line.(string), ShouldStartWith, "print(")
					}
				}
			}
			So(string(data), ShouldNotContainSubstring, `\\'`)
		})
	})
}

func TestEncodeKeepsHTML(t *testing.T) {
	Convey("Given a cell with markup characters", t, func() {
		nb := &Notebook{Cells: []Cell{{Type: Code, Source: "if a < b && b > c:\n    pass"}}, Metadata: Python3()}

		Convey("Then they are written literally", func() {
			data, err := Encode(nb)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"if a < b && b > c:\n"`)
		})
	})
}

func TestMarshalUnknownCell(t *testing.T) {
	Convey("Given a cell of an unknown type", t, func() {
		_, err := json.Marshal(Cell{Type: "raw", Source: "x"})
		So(err, ShouldNotBeNil)
	})
}

func TestMarkdown(t *testing.T) {
	Convey("Given the initial notebook", t, func() {
		md := Initial().Markdown()

		Convey("Then code cells are fenced and prose is kept", func() {
			So(md, ShouldStartWith, "# Brent Oil Price Analysis")
			So(strings.Count(md, "```python\n"), ShouldEqual, 4)
			So(md, ShouldContainSubstring, "## 3. Basic Statistics and Data Quality")
			So(md, ShouldEndWith, "Build interactive visualizations\n")
		})
	})
}
