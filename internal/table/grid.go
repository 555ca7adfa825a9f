package table

// Grid keeps the table in memory. It backs the JSON API and the other widgets.
type Grid struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{Rows: [][]string{}}
}

// Clear implements Widget.
func (g *Grid) Clear() error {
	g.Header = nil
	g.Rows = [][]string{}
	return nil
}

// SetHeader implements Widget.
func (g *Grid) SetHeader(cells []string) error {
	g.Header = append([]string(nil), cells...)
	return nil
}

// AppendRow implements Widget.
func (g *Grid) AppendRow(cells []string) error {
	g.Rows = append(g.Rows, append([]string(nil), cells...))
	return nil
}

// RowCount counts the header row (when set) plus every data row.
func (g *Grid) RowCount() int {
	n := len(g.Rows)
	if g.Header != nil {
		n++
	}
	return n
}
