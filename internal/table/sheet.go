package table

// Sheet is the plain-text form of a grid, used for exports.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// Plain drops action columns and formatting from g. Loading and empty
// grids produce a sheet without rows.
func Plain(g Grid) Sheet {
	keep := make([]bool, len(g.Headers))
	var s Sheet
	for i, h := range g.Headers {
		if h.ID == ActionsColumn {
			continue
		}
		keep[i] = true
		s.Headers = append(s.Headers, h.Label)
	}
	for _, row := range g.Rows {
		if row.Skeleton || row.Empty {
			continue
		}
		out := make([]string, 0, len(s.Headers))
		for i, cell := range row.Cells {
			if i < len(keep) && keep[i] {
				out = append(out, cell.Text)
			}
		}
		s.Rows = append(s.Rows, out)
	}
	return s
}

// Field is one labelled value of a single record.
type Field struct {
	ID    string
	Label string
	Cell  Cell
}

// Record renders every column of row except actions, hidden columns
// included.
func Record[T any](cols []Column[T], row T) []Field {
	out := make([]Field, 0, len(cols))
	for _, c := range cols {
		if c.Kind == Actions {
			continue
		}
		out = append(out, Field{ID: c.ID, Label: c.Header, Cell: c.cell(row)})
	}
	return out
}
