// Package table turns one page of records into a renderable grid.
package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"kiosk-admin-console/internal/model"
)

// Kind selects how a column's value is formatted.
type Kind int

const (
	Text Kind = iota
	ShortID
	Badge
	Money
	DateTime
	Bool
	Actions
)

func (k Kind) String() string {
	switch k {
	case ShortID:
		return "shortid"
	case Badge:
		return "badge"
	case Money:
		return "money"
	case DateTime:
		return "datetime"
	case Bool:
		return "bool"
	case Actions:
		return "actions"
	default:
		return "text"
	}
}

// ActionsColumn is the conventional id of a row menu column.
const ActionsColumn = "actions"

// Action is one entry of a row's action menu.
type Action struct {
	Label string
	URL   string
	// Method is "GET" for links and "POST" for form buttons.
	Method  string
	Confirm string
}

// Column declares one column over records of type T.
type Column[T any] struct {
	ID       string
	Header   string
	Kind     Kind
	Sortable bool
	Hideable bool
	// Value extracts the cell value. Expected types per Kind: string for
	// Text, ShortID and Badge; float64 for Money; model.Timestamp or
	// time.Time for DateTime; bool for Bool.
	Value func(T) any
	// Enum supplies Badge labels and tones.
	Enum model.Enum
	// Prefix is prepended to ShortID values.
	Prefix string
	// Labels replaces "true"/"false" for Bool columns.
	Labels [2]string
	// Actions builds the menu of an Actions column.
	Actions func(T) []Action
}

// Cell is a formatted value.
type Cell struct {
	Kind    string
	Text    string
	Title   string
	Tone    model.Tone
	Actions []Action
}

const (
	emptyText  = "Không có"
	shortIDLen = 8
)

func (c Column[T]) cell(row T) Cell {
	out := Cell{Kind: c.Kind.String()}
	if c.Kind == Actions {
		if c.Actions != nil {
			out.Actions = c.Actions(row)
		}
		return out
	}
	if c.Value == nil {
		return out
	}
	v := c.Value(row)

	switch c.Kind {
	case ShortID:
		id := fmt.Sprint(v)
		out.Title = id
		if len(id) > shortIDLen {
			id = id[:shortIDLen]
		}
		out.Text = c.Prefix + id
	case Badge:
		ev := c.Enum.Lookup(fmt.Sprint(v))
		out.Text = ev.Label
		out.Tone = ev.Tone
	case Money:
		out.Text = FormatMoney(toFloat(v))
	case DateTime:
		out.Text = FormatTime(v)
	case Bool:
		b, _ := v.(bool)
		labels := c.Labels
		if labels[0] == "" {
			labels = [2]string{"Có", "Không"}
		}
		if b {
			out.Text = labels[0]
			out.Tone = model.ToneSuccess
		} else {
			out.Text = labels[1]
			out.Tone = model.ToneMuted
		}
	default:
		s := fmt.Sprint(v)
		if v == nil || s == "" {
			s = emptyText
		}
		out.Text = s
	}
	return out
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// FormatMoney renders an amount in dong with dot thousand separators.
func FormatMoney(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(int64(amount+0.5), 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteString(" VND")
	return b.String()
}

const dateTimeLayout = "02/01/2006 15:04"

// FormatTime renders a timestamp as dd/MM/yyyy HH:mm, or "Không có" when unset.
func FormatTime(v any) string {
	var t time.Time
	switch ts := v.(type) {
	case model.Timestamp:
		t = ts.Time
	case *model.Timestamp:
		if ts != nil {
			t = ts.Time
		}
	case time.Time:
		t = ts
	}
	if t.IsZero() {
		return emptyText
	}
	return t.Format(dateTimeLayout)
}
