package i18n

import (
	"regexp"
	"strings"
)

var quotedName = regexp.MustCompile(`"([^"]+)"`)

// Table maps the legacy free-text service errors of one collection to keys.
type Table struct {
	// ExistsPrefix starts every duplicate-name message.
	ExistsPrefix string
	ExistsKey    Key
	// Known maps whole messages, after Normalize, to keys.
	Known     map[string]Key
	Normalize func(string) string
}

// BudgetTable classifies budget service messages. Matching is exact.
var BudgetTable = Table{
	ExistsPrefix: "A budget with the name",
	ExistsKey:    KeyBudgetExists,
	Known: map[string]Key{
		"Invalid input: Budget amount cannot be negative or zero.": KeyInvalidBudgetInput,
		"Invalid input: BudgetDescription must be alphanumeric":    KeyBudgetDescriptionError,
	},
}

// ExpenseTable classifies expense service messages. Matching ignores case.
var ExpenseTable = Table{
	ExistsPrefix: "An expense with the name",
	ExistsKey:    KeyExpenseExists,
	Known: map[string]Key{
		"invalid input: expenses amount cannot be negative.":    KeyInvalidExpenseInput,
		"invalid input: expensesdescription must be alphanumeric": KeyExpenseDescription,
	},
	Normalize: strings.ToLower,
}

// Classify maps a raw service message to a key and its parameters. Unknown
// messages map to KeyUnexpected.
func Classify(raw string, t Table) (Key, Params) {
	if t.ExistsPrefix != "" && strings.HasPrefix(raw, t.ExistsPrefix) {
		name := "Unknown"
		if m := quotedName.FindStringSubmatch(raw); m != nil {
			name = m[1]
		}
		return t.ExistsKey, Params{"name": name}
	}

	msg := raw
	if t.Normalize != nil {
		msg = t.Normalize(msg)
	}
	if key, ok := t.Known[msg]; ok {
		return key, nil
	}
	return KeyUnexpected, nil
}

// Error codes sent by the service alongside structured error bodies.
const (
	CodeBudgetExists              = "budget_exists"
	CodeInvalidBudgetAmount       = "invalid_budget_amount"
	CodeInvalidBudgetDescription  = "invalid_budget_description"
	CodeExpenseExists             = "expense_exists"
	CodeInvalidExpenseAmount      = "invalid_expense_amount"
	CodeInvalidExpenseDescription = "invalid_expense_description"
)

var codeKeys = map[string]Key{
	CodeBudgetExists:              KeyBudgetExists,
	CodeInvalidBudgetAmount:       KeyInvalidBudgetInput,
	CodeInvalidBudgetDescription:  KeyBudgetDescriptionError,
	CodeExpenseExists:             KeyExpenseExists,
	CodeInvalidExpenseAmount:      KeyInvalidExpenseInput,
	CodeInvalidExpenseDescription: KeyExpenseDescription,
}

// FromCode maps a structured service error code to a key. Only the parameters
// the key declares are kept. ok is false for empty or unknown codes.
func FromCode(code string, params map[string]string) (key Key, out Params, ok bool) {
	key, ok = codeKeys[code]
	if !ok {
		return "", nil, false
	}
	for _, name := range paramNames[key] {
		if out == nil {
			out = Params{}
		}
		value, found := params[name]
		if !found || value == "" {
			value = "Unknown"
		}
		out[name] = value
	}
	return key, out, true
}
