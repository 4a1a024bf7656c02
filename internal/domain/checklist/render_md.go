package checklist

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// MarkdownRenderer writes the report as Markdown tables.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Extension() string { return "md" }

func (MarkdownRenderer) Render(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n\n", ReportTitle)
	fmt.Fprintf(bw, "**Paciente:** %s\n\n", mdEscape(r.PatientName))
	fmt.Fprintf(bw, "**Fecha:** %s\n", r.Date)
	for _, s := range r.Sections {
		fmt.Fprintf(bw, "\n## %s\n\n", mdEscape(s.Phase))
		bw.WriteString("| Ítem | Cumple |\n")
		bw.WriteString("|------|:------:|\n")
		for _, row := range s.Rows {
			fmt.Fprintf(bw, "| %s | %s |\n", mdEscape(row.Item), Glyph(row.Passed))
		}
	}
	return bw.Flush()
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
