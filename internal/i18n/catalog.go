package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Supported lists the languages with a full catalog. The first is the default.
var Supported = []language.Tag{language.English, language.French}

var messages = map[language.Tag]map[Key]string{
	language.English: {
		KeyBudgetExists:           `A budget with the name "%[1]s" already exists.`,
		KeyInvalidBudgetInput:     "Invalid input: the budget amount must be greater than zero.",
		KeyBudgetDescriptionError: "Invalid input: the budget description must be alphanumeric.",
		KeyExpenseExists:          `An expense with the name "%[1]s" already exists.`,
		KeyInvalidExpenseInput:    "Invalid input: the expense amount cannot be negative.",
		KeyExpenseDescription:     "Invalid input: the expense description must be alphanumeric.",
		KeyMissingID:              MissingBudgetIDMessage,
		KeyMissingExpenseID:       MissingExpenseIDMessage,
		KeyFetchBudgets:           FetchBudgetsMessage,
		KeyFetchExpenses:          FetchExpensesMessage,
		KeyNotAuthenticated:       "You must be signed in to do that.",
		KeyRemote:                 "%[1]s",
		KeyUnexpected:             "An unexpected error occurred. Please try again later.",
	},
	language.French: {
		KeyBudgetExists:           `Un budget nommé « %[1]s » existe déjà.`,
		KeyInvalidBudgetInput:     "Entrée invalide : le montant du budget doit être supérieur à zéro.",
		KeyBudgetDescriptionError: "Entrée invalide : la description du budget doit être alphanumérique.",
		KeyExpenseExists:          `Une dépense nommée « %[1]s » existe déjà.`,
		KeyInvalidExpenseInput:    "Entrée invalide : le montant de la dépense ne peut pas être négatif.",
		KeyExpenseDescription:     "Entrée invalide : la description de la dépense doit être alphanumérique.",
		KeyMissingID:              "Échec de la mise à jour du budget : identifiant manquant",
		KeyMissingExpenseID:       "Échec de la mise à jour de la dépense : identifiant manquant",
		KeyFetchBudgets:           "Impossible de récupérer correctement les budgets",
		KeyFetchExpenses:          "Impossible de récupérer correctement les dépenses",
		KeyNotAuthenticated:       "Vous devez être connecté pour effectuer cette action.",
		KeyRemote:                 "%[1]s",
		KeyUnexpected:             "Une erreur inattendue s'est produite. Veuillez réessayer plus tard.",
	},
}

// NewCatalog builds the message catalog for every supported language.
func NewCatalog() (catalog.Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(Supported[0]))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, string(key), msg); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}
