package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/mwiater/metricview/internal/table"
)

// TableElementID is the id of the data table on the report page.
const TableElementID = "metricTable"

// PageOptions controls how the chart and tree are placed on the page.
type PageOptions struct {
	// ChartSrc loads the chart frame from a URL. It wins over ChartHTML.
	ChartSrc string
	// ChartHTML is a standalone chart page embedded through srcdoc.
	ChartHTML []byte
	// ToggleAction turns tree entries into forms posting the node id to this URL.
	ToggleAction string
	// ResetAction adds a form that clears the selection.
	ResetAction string
	Generated   time.Time
}

// PageNode is one tree entry as shown on the page.
type PageNode struct {
	ID      string
	Label   string
	Indent  int
	Leaf    bool
	Checked bool
	// Selected and Total count the leaves below a category.
	Selected int
	Total    int
}

type pageData struct {
	Title        string
	Generated    string
	State        string
	Nodes        []PageNode
	Table        template.HTML
	ChartSrc     string
	ChartDoc     string
	Summaries    []MetricSummary
	ToggleAction string
	ResetAction  string
}

// Nodes returns the tree in display order with the current checkbox state.
func (c *Controller) Nodes() []PageNode {
	tree := c.tree.Tree()
	selected := make(map[string]bool)
	for _, id := range c.Selection() {
		selected[id] = true
	}
	out := make([]PageNode, 0, tree.Len())
	for _, n := range tree.Nodes() {
		pn := PageNode{
			ID:      n.ID,
			Label:   n.Label,
			Indent:  n.Depth * 18,
			Leaf:    n.IsLeaf(),
			Checked: c.tree.IsChecked(n.ID),
		}
		if !pn.Leaf {
			leaves, _ := tree.DescendantLeaves(n.ID)
			pn.Total = len(leaves)
			for _, id := range leaves {
				if selected[id] {
					pn.Selected++
				}
			}
		}
		out = append(out, pn)
	}
	return out
}

// WritePage renders the full report page for the controller's current selection.
func WritePage(w io.Writer, c *Controller, opts PageOptions) error {
	tbl := table.NewHTML(TableElementID)
	if err := table.Render(tbl, c.Raw(), c.Timestamps(), c.Selection()); err != nil {
		return fmt.Errorf("render page table: %w", err)
	}
	fragment, err := tbl.Fragment()
	if err != nil {
		return fmt.Errorf("render page table: %w", err)
	}
	generated := opts.Generated
	if generated.IsZero() {
		generated = time.Now()
	}
	title := c.Title()
	if title == "" {
		title = "metricview report"
	}
	data := pageData{
		Title:        title,
		Generated:    generated.UTC().Format(time.RFC3339),
		State:        c.State().String(),
		Nodes:        c.Nodes(),
		Table:        fragment,
		ChartSrc:     opts.ChartSrc,
		Summaries:    c.Summaries(),
		ToggleAction: opts.ToggleAction,
		ResetAction:  opts.ResetAction,
	}
	if data.ChartSrc == "" {
		data.ChartDoc = string(opts.ChartHTML)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

var pageTemplate = template.Must(template.New("report-page").Funcs(template.FuncMap{
	"num": func(f float64) string { return fmt.Sprintf("%.4g", f) },
}).Parse(pageTemplateHTML))

const pageTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --border: #E2E8F0;
    }
    body { background-color: var(--light); color: var(--text); }
    .navbar-dark { background-color: var(--primary) !important; }
    .card { border: 1px solid var(--border); background-color: var(--background); }
    .tree-list { list-style: none; padding-left: 0; margin: 0; }
    .tree-list li { padding: 0.15rem 0; }
    .tree-list .category { font-weight: 600; }
    .tree-list form { display: inline; }
    .tree-list button { border: 0; background: none; padding: 0; color: var(--text); text-align: left; }
    .chart-frame { width: 100%; height: 460px; border: 0; }
    .table th, .table td { white-space: nowrap; font-variant-numeric: tabular-nums; }
    .table-wrap { overflow-x: auto; }
    .empty-state { color: var(--secondary); }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark mb-4">
    <div class="container-fluid">
      <span class="navbar-brand">{{ .Title }}</span>
      <span class="text-light small">generated {{ .Generated }}</span>
    </div>
  </nav>
  <div class="container-fluid">
    <div class="row g-4">
      <div class="col-lg-3">
        <div class="card p-3">
          <h6 class="text-uppercase text-secondary">Metrics</h6>
          <ul class="tree-list" id="metricTree">
{{- range .Nodes }}
            <li class="{{ if .Leaf }}leaf{{ else }}category{{ end }}" style="padding-left: {{ .Indent }}px">
{{- if $.ToggleAction }}
              <form method="post" action="{{ $.ToggleAction }}">
                <input type="hidden" name="id" value="{{ .ID }}">
                <button type="submit" title="{{ .ID }}"><input type="checkbox" tabindex="-1" {{ if .Checked }}checked{{ end }}> {{ .Label }}{{ if not .Leaf }} <span class="badge text-bg-light">{{ .Selected }}/{{ .Total }}</span>{{ end }}</button>
              </form>
{{- else }}
              <label title="{{ .ID }}"><input type="checkbox" disabled {{ if .Checked }}checked{{ end }}> {{ .Label }}{{ if not .Leaf }} <span class="badge text-bg-light">{{ .Selected }}/{{ .Total }}</span>{{ end }}</label>
{{- end }}
            </li>
{{- end }}
          </ul>
{{- if .ResetAction }}
          <form method="post" action="{{ .ResetAction }}" class="mt-3">
            <button type="submit" class="btn btn-sm btn-outline-secondary">Clear selection</button>
          </form>
{{- end }}
        </div>
      </div>
      <div class="col-lg-9">
        <div class="card p-3 mb-4" data-state="{{ .State }}">
{{- if .ChartSrc }}
          <iframe class="chart-frame" title="chart" src="{{ .ChartSrc }}"></iframe>
{{- else if .ChartDoc }}
          <iframe class="chart-frame" title="chart" srcdoc="{{ .ChartDoc }}"></iframe>
{{- end }}
{{- if eq .State "empty" }}
          <p class="empty-state mb-0">No metrics selected.</p>
{{- end }}
        </div>
        <div class="card p-3 mb-4 table-wrap">
          {{ .Table }}
        </div>
{{- if .Summaries }}
        <div class="card p-3 mb-4">
          <h6 class="text-uppercase text-secondary">Summary</h6>
          <table class="table table-sm" id="summaryTable">
            <thead><tr><th>Metric</th><th>Count</th><th>Min</th><th>Max</th><th>Mean</th><th>Std dev</th></tr></thead>
            <tbody>
{{- range .Summaries }}
              <tr><th scope="row">{{ .ID }}</th><td>{{ .Count }}</td>{{ if .Count }}<td>{{ num .Min }}</td><td>{{ num .Max }}</td><td>{{ num .Mean }}</td><td>{{ num .StdDev }}</td>{{ else }}<td></td><td></td><td></td><td></td>{{ end }}</tr>
{{- end }}
            </tbody>
          </table>
        </div>
{{- end }}
      </div>
    </div>
  </div>
</body>
</html>
`
