package cmd

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetsync/internal/cli"
	"github.com/theirongolddev/budgetsync/internal/dashboard"
	"github.com/theirongolddev/budgetsync/internal/model"
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"expense", "e"},
	Short:   "List and manage expenses",
	RunE:    runExpensesList,
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses, newest first",
	Args:  cobra.NoArgs,
	RunE:  runExpensesList,
}

var expensesAddCmd = &cobra.Command{
	Use:   "add DESCRIPTION AMOUNT",
	Short: "Record an expense",
	Args:  cobra.ExactArgs(2),
	RunE:  runExpensesAdd,
}

var expensesUpdateCmd = &cobra.Command{
	Use:   "update EXPENSE",
	Short: "Change an expense",
	Long:  "Update an expense given by id or description. Fields without a flag keep their value.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpensesUpdate,
}

var expensesDeleteCmd = &cobra.Command{
	Use:     "delete EXPENSE",
	Aliases: []string{"rm"},
	Short:   "Delete an expense",
	Args:    cobra.ExactArgs(1),
	RunE:    runExpensesDelete,
}

var (
	expensesMatch       string
	expensesBudget      string
	expensesDescription string
	expensesAmount      string
	expensesDate        string
)

func init() {
	expensesListCmd.Flags().StringVarP(&expensesMatch, "match", "m", "", "Only expenses whose description matches this glob")
	expensesListCmd.Flags().StringVarP(&expensesBudget, "budget", "b", "", "Only expenses of this budget")
	expensesCmd.Flags().AddFlagSet(expensesListCmd.Flags())

	expensesAddCmd.Flags().StringVar(&expensesDate, "date", "", "Day of the expense, YYYY-MM-DD (default today)")
	expensesAddCmd.Flags().StringVarP(&expensesBudget, "budget", "b", "", "Budget to charge, by id or name")

	uf := expensesUpdateCmd.Flags()
	uf.StringVar(&expensesDescription, "description", "", "New description")
	uf.StringVar(&expensesAmount, "amount", "", "New amount")
	uf.StringVar(&expensesDate, "date", "", "New day, YYYY-MM-DD")
	uf.StringVarP(&expensesBudget, "budget", "b", "", "Budget to charge, by id or name")

	expensesCmd.AddCommand(expensesListCmd, expensesAddCmd, expensesUpdateCmd, expensesDeleteCmd)
	rootCmd.AddCommand(expensesCmd)
}

func runExpensesList(cmd *cobra.Command, _ []string) error {
	d, uid, err := openDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if err := d.Expenses.List(ctx, uid); err != nil {
		return storeError(d.Expenses.Error(), err)
	}
	if err := d.Budgets.List(ctx, uid); err != nil {
		return storeError(d.Budgets.Error(), err)
	}

	expenses := cli.FilterExpenses(d.Expenses.Expenses(), expensesMatch)
	title := fmt.Sprintf("EXPENSES  user %d", uid)
	if expensesBudget != "" {
		b, err := findBudget(d, expensesBudget)
		if err != nil {
			return err
		}
		kept := expenses[:0]
		for _, e := range expenses {
			if e.BudgetID() == b.ID {
				kept = append(kept, e)
			}
		}
		expenses = kept
		title += "  " + b.Description
	}

	if len(expenses) == 0 {
		fmt.Println("\n  No expenses found.")
		return nil
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.String() > expenses[j].Date.String()
	})

	var total decimal.Decimal
	rows := make([][]string, 0, len(expenses)+2)
	for _, e := range expenses {
		total = total.Add(e.Amount)
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.ID),
			cli.FormatDate(e.Date),
			e.Description,
			budgetLabel(d, e.BudgetID()),
			cli.FormatAmount(e.Amount),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"", "", "Total", "", cli.FormatAmount(total)})

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s (%d)", title, len(expenses))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "Description", "Budget", "Amount"},
		Rows:    rows,
	}))
	return nil
}

func runExpensesAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	date := model.Today()
	if expensesDate != "" {
		if date, err = model.ParseDate(expensesDate); err != nil {
			return err
		}
	}

	d, uid, err := openDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	in := model.ExpenseInput{Description: args[0], Amount: amount, Date: date}
	if expensesBudget != "" {
		if in.BudgetID, err = resolveBudgetFlag(cmd, d, uid); err != nil {
			return err
		}
	}

	e, err := d.Expenses.Create(ctx, in)
	if err != nil {
		return storeError(d.Expenses.Error(), err)
	}
	fmt.Printf("  Recorded expense %d %q (%s on %s)\n", e.ID, e.Description, cli.FormatAmount(e.Amount), cli.FormatDate(e.Date))
	return nil
}

func runExpensesUpdate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("description") && !flags.Changed("amount") &&
		!flags.Changed("date") && !flags.Changed("budget") {
		return fmt.Errorf("nothing to update: pass --description, --amount, --date or --budget")
	}

	d, uid, err := openDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if err := d.Expenses.List(ctx, uid); err != nil {
		return storeError(d.Expenses.Error(), err)
	}
	e, err := findExpense(d, args[0])
	if err != nil {
		return err
	}

	in := model.ExpenseInput{
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		BudgetID:    e.BudgetID(),
	}
	if flags.Changed("description") {
		in.Description = expensesDescription
	}
	if flags.Changed("amount") {
		if in.Amount, err = parseAmount(expensesAmount); err != nil {
			return err
		}
	}
	if flags.Changed("date") {
		if in.Date, err = model.ParseDate(expensesDate); err != nil {
			return err
		}
	}
	if flags.Changed("budget") {
		if in.BudgetID, err = resolveBudgetFlag(cmd, d, uid); err != nil {
			return err
		}
	}

	updated, err := d.Expenses.Update(ctx, e.ID, in)
	if err != nil {
		return storeError(d.Expenses.Error(), err)
	}
	fmt.Printf("  Updated expense %d %q (%s on %s)\n", updated.ID, updated.Description, cli.FormatAmount(updated.Amount), cli.FormatDate(updated.Date))
	return nil
}

func runExpensesDelete(cmd *cobra.Command, args []string) error {
	d, uid, err := openDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if err := d.Expenses.List(ctx, uid); err != nil {
		return storeError(d.Expenses.Error(), err)
	}
	e, err := findExpense(d, args[0])
	if err != nil {
		return err
	}

	if err := d.Expenses.Delete(ctx, e.ID); err != nil {
		return storeError(d.Expenses.Error(), err)
	}
	fmt.Printf("  Deleted expense %d %q\n", e.ID, e.Description)
	return nil
}

// resolveBudgetFlag lists the user's budgets and resolves --budget.
func resolveBudgetFlag(cmd *cobra.Command, d *dashboard.Dashboard, uid int64) (int64, error) {
	if err := d.Budgets.List(cmd.Context(), uid); err != nil {
		return 0, storeError(d.Budgets.Error(), err)
	}
	b, err := findBudget(d, expensesBudget)
	if err != nil {
		return 0, err
	}
	return b.ID, nil
}

func budgetLabel(d *dashboard.Dashboard, id int64) string {
	if id == 0 {
		return "-"
	}
	if b, ok := d.Budgets.Get(id); ok {
		return b.Description
	}
	return fmt.Sprintf("#%d", id)
}
