package table

import "sort"

// Visibility records which columns are hidden. The zero value shows
// every column.
type Visibility map[string]bool

// NewVisibility hides the given column ids.
func NewVisibility(hidden []string) Visibility {
	v := Visibility{}
	for _, id := range hidden {
		v[id] = true
	}
	return v
}

func (v Visibility) IsHidden(id string) bool {
	return v[id]
}

// Toggle flips column id and returns the updated set.
func (v Visibility) Toggle(id string) Visibility {
	out := Visibility{}
	for k, hidden := range v {
		if hidden {
			out[k] = true
		}
	}
	if out[id] {
		delete(out, id)
	} else {
		out[id] = true
	}
	return out
}

// Hidden returns the hidden column ids in sorted order.
func (v Visibility) Hidden() []string {
	out := make([]string, 0, len(v))
	for id, hidden := range v {
		if hidden {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
