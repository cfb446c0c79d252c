package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CategoryTotal is one bar of a server-computed chart aggregate.
type CategoryTotal struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Totals is a label to amount mapping that keeps the order in which the
// server sent its keys.
type Totals struct {
	keys   []string
	values map[string]decimal.Decimal
}

// NewTotals builds Totals from entries, in order.
func NewTotals(entries ...CategoryTotal) Totals {
	var t Totals
	for _, e := range entries {
		t.Set(e.Name, e.Amount)
	}
	return t
}

// Set assigns amount to label, appending label if it is new.
func (t *Totals) Set(label string, amount decimal.Decimal) {
	if t.values == nil {
		t.values = make(map[string]decimal.Decimal)
	}
	if _, ok := t.values[label]; !ok {
		t.keys = append(t.keys, label)
	}
	t.values[label] = amount
}

// Get returns the amount for label.
func (t Totals) Get(label string) (decimal.Decimal, bool) {
	v, ok := t.values[label]
	return v, ok
}

// Len returns the number of labels.
func (t Totals) Len() int {
	return len(t.keys)
}

// Entries returns the totals in server order.
func (t Totals) Entries() []CategoryTotal {
	out := make([]CategoryTotal, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, CategoryTotal{Name: k, Amount: t.values[k]})
	}
	return out
}

// MarshalJSON writes the totals as a JSON object in insertion order.
func (t Totals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(t.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of numbers, keeping key order.
func (t *Totals) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("totals: expected JSON object")
	}

	out := Totals{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("totals: unexpected key %v", tok)
		}

		var amount decimal.Decimal
		if err := dec.Decode(&amount); err != nil {
			return fmt.Errorf("totals: value for %q: %w", key, err)
		}
		out.Set(key, amount)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = out
	return nil
}
