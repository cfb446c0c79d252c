// Package view projects store contents and server aggregates into chart
// series with an explicit render state.
package view

import (
	"github.com/theirongolddev/budgetsync/internal/model"
)

// State is the render state of a projection. Exactly one applies.
type State int

// Render states.
const (
	Loading State = iota
	Error
	NoData
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case NoData:
		return "no data"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Series is an ordered list of labelled values.
type Series struct {
	Labels []string
	Values []float64
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Labels)
}

// Total returns the sum of all values.
func (s Series) Total() float64 {
	var sum float64
	for _, v := range s.Values {
		sum += v
	}
	return sum
}

// Projection is what a view hands to a renderer.
type Projection struct {
	State  State
	Series Series
	Err    string // set when State is Error
}

// resolve picks the state for a finished projection.
func resolve(s Series, errText string) Projection {
	switch {
	case errText != "":
		return Projection{State: Error, Series: s, Err: errText}
	case s.Len() == 0:
		return Projection{State: NoData, Series: s}
	default:
		return Projection{State: Ready, Series: s}
	}
}

func (s *Series) add(label string, value float64) {
	s.Labels = append(s.Labels, label)
	s.Values = append(s.Values, value)
}

// FromBudgets projects budgets to (description, amount).
func FromBudgets(budgets []model.Budget) Series {
	var s Series
	for _, b := range budgets {
		s.add(b.Description, b.Amount.InexactFloat64())
	}
	return s
}

// FromCategoryTotals projects chart aggregates to (name, amount).
func FromCategoryTotals(totals []model.CategoryTotal) Series {
	var s Series
	for _, t := range totals {
		s.add(t.Name, t.Amount.InexactFloat64())
	}
	return s
}

// FromTotals projects an ordered label map, keeping its order.
func FromTotals(totals model.Totals) Series {
	return FromCategoryTotals(totals.Entries())
}

// FromExpenses projects expenses to (description, amount).
func FromExpenses(expenses []model.Expense) Series {
	var s Series
	for _, e := range expenses {
		s.add(e.Description, e.Amount.InexactFloat64())
	}
	return s
}
