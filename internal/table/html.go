package table

import (
	"bytes"
	"html/template"
	"io"
)

// HTML renders the grid as a <table> fragment.
type HTML struct {
	*Grid
	ID string
}

// NewHTML returns an empty HTML table with the given element id.
func NewHTML(id string) *HTML {
	return &HTML{Grid: NewGrid(), ID: id}
}

var htmlTableTemplate = template.Must(template.New("table").Parse(`<table id="{{ .ID }}" class="table table-hover table-sm">
  <thead><tr>{{ range .Grid.Header }}<th>{{ . }}</th>{{ end }}</tr></thead>
  <tbody>
{{- range .Grid.Rows }}
    <tr>{{ range $i, $c := . }}{{ if eq $i 0 }}<th scope="row">{{ $c }}</th>{{ else }}<td>{{ $c }}</td>{{ end }}{{ end }}</tr>
{{- end }}
  </tbody>
</table>`))

// WriteTo writes the fragment to w.
func (h *HTML) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := htmlTableTemplate.Execute(&buf, h); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// Fragment returns the rendered table for embedding into a page template.
func (h *HTML) Fragment() (template.HTML, error) {
	var buf bytes.Buffer
	if _, err := h.WriteTo(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
