package bench

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// csvPrecision is the float precision of the machine-readable output;
// htmlPrecision is used in the HTML email tables.
const (
	csvPrecision  = 3
	htmlPrecision = 2
)

// cell renders the value of column idx of cmp.Header for the given row.
func (c *Comparison) cell(row ComparisonRow, idx, prec int) string {
	switch c.Header[idx] {
	case ColName:
		return row.Name
	case ColIterations:
		return strconv.FormatInt(row.Iterations, 10)
	case ColRealTime:
		return strconv.FormatFloat(row.RealTime, 'f', prec, 64)
	case ColCPUTime:
		return strconv.FormatFloat(row.CPUTime, 'f', prec, 64)
	case ColTimeUnit:
		return row.TimeUnit
	case ColRelativeChange:
		if row.RelativeChange == nil {
			return ""
		}
		return strconv.FormatFloat(*row.RelativeChange, 'f', prec, 64)
	}

	extraBase := 5
	if c.HasBaseline {
		extraBase = 6
	}
	if i := idx - extraBase; i >= 0 && i < len(row.Extra) {
		return row.Extra[i]
	}
	return ""
}

// RenderCSV renders the comparison as CSV with floats at 3 decimal places.
// This is the format published to the snippet store and used as the plain
// text email body.
func RenderCSV(cmp *Comparison) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	w.Write(cmp.Header)
	fields := make([]string, len(cmp.Header))
	for _, row := range cmp.Rows {
		for i := range cmp.Header {
			fields[i] = cmp.cell(row, i, csvPrecision)
		}
		w.Write(fields)
	}
	w.Flush()
	return sb.String()
}

var htmlTableTmpl = template.Must(template.New("table").Parse(`<table style="border-collapse: collapse;">
<thead><tr>{{range .Header}}<th style="text-align: right; padding: 2px 8px; border-bottom: 1px solid #999;">{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td style="text-align: right; padding: 2px 8px;{{if .Color}} color: {{.Color}};{{end}}">{{.Value}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>`))

type htmlCell struct {
	Value string
	Color template.CSS
}

// angleBrackets in benchmark names (template parameters) read poorly in
// mail clients, so they are rewritten to square brackets.
var angleBrackets = strings.NewReplacer("<", "[", ">", "]")

// RenderHTML renders the comparison as an inline-styled HTML table. The
// relative_change column is colored red for negative values and green
// otherwise.
func RenderHTML(cmp *Comparison) string {
	data := struct {
		Header []string
		Rows   [][]htmlCell
	}{Header: cmp.Header}

	for _, row := range cmp.Rows {
		cells := make([]htmlCell, len(cmp.Header))
		for i, col := range cmp.Header {
			cells[i] = htmlCell{Value: cmp.cell(row, i, htmlPrecision)}
			if col == ColName {
				cells[i].Value = angleBrackets.Replace(cells[i].Value)
			}
			if col == ColRelativeChange && row.RelativeChange != nil {
				if *row.RelativeChange < 0 {
					cells[i].Color = "rgba(255, 0, 0, 1)"
				} else {
					cells[i].Color = "rgba(0, 255, 0, 1)"
				}
			}
		}
		data.Rows = append(data.Rows, cells)
	}

	var sb strings.Builder
	if err := htmlTableTmpl.Execute(&sb, data); err != nil {
		// The template is static and the data is plain values; execution
		// cannot fail at runtime.
		panic(err)
	}
	return sb.String()
}

// RenderEmailHTML builds the HTML email body: the top-n worst movers
// followed by the full table when a baseline exists, otherwise just the
// full table.
func RenderEmailHTML(cmp *Comparison, topN int) string {
	if !cmp.HasBaseline {
		return RenderHTML(cmp)
	}
	return RenderHTML(TopNByAbsChange(cmp, topN)) + "<br><br>" + RenderHTML(cmp)
}

var (
	termHeaderStyle     = lipgloss.NewStyle().Bold(true)
	termRegressionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	termImproveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// RenderTerminal renders the comparison as an aligned, color-highlighted
// table for console output.
func RenderTerminal(cmp *Comparison) string {
	widths := make([]int, len(cmp.Header))
	for i, col := range cmp.Header {
		widths[i] = len(col)
	}
	for _, row := range cmp.Rows {
		for i := range cmp.Header {
			if n := len(cmp.cell(row, i, csvPrecision)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder
	for i, col := range cmp.Header {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(termHeaderStyle.Render(fmt.Sprintf("%-*s", widths[i], col)))
	}
	sb.WriteString("\n")

	for _, row := range cmp.Rows {
		for i, col := range cmp.Header {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := fmt.Sprintf("%*s", widths[i], cmp.cell(row, i, csvPrecision))
			if col == ColRelativeChange && row.RelativeChange != nil {
				if *row.RelativeChange < 0 {
					val = termRegressionStyle.Render(val)
				} else {
					val = termImproveStyle.Render(val)
				}
			}
			sb.WriteString(val)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
