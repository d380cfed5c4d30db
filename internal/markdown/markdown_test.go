package markdown

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHTML(t *testing.T) {
	Convey("Given a markdown document", t, func() {
		src := "## About\n\nPrices from **EIA**.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"

		Convey("When converting to HTML", func() {
			out, err := HTML(src)

			Convey("Then headings, emphasis and tables are rendered", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "<h2>About</h2>")
				So(out, ShouldContainSubstring, "<strong>EIA</strong>")
				So(out, ShouldContainSubstring, "<table>")
			})
		})

		Convey("When the document embeds raw HTML", func() {
			out, err := HTML("<script>alert(1)</script>\n")

			Convey("Then it is not passed through", func() {
				So(err, ShouldBeNil)
				So(out, ShouldNotContainSubstring, "<script>")
			})
		})
	})
}

func TestTerminal(t *testing.T) {
	Convey("Given a markdown document", t, func() {
		Convey("When rendering with the plain style", func() {
			out, err := Terminal("# Title\n\nbody text\n", StylePlain, 60)

			Convey("Then the text survives", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Title")
				So(out, ShouldContainSubstring, "body text")
			})
		})

		Convey("When style and width are zero values", func() {
			_, err := Terminal("text", "", 0)

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}
