package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetsync/internal/cli"
	"github.com/theirongolddev/budgetsync/internal/model"
)

var budgetsCmd = &cobra.Command{
	Use:     "budgets",
	Aliases: []string{"budget", "b"},
	Short:   "List and manage budgets",
	RunE:    runBudgetsList,
}

var budgetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets with what was spent against each",
	Args:  cobra.NoArgs,
	RunE:  runBudgetsList,
}

var budgetsAddCmd = &cobra.Command{
	Use:   "add NAME AMOUNT",
	Short: "Create a budget",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetsAdd,
}

var budgetsUpdateCmd = &cobra.Command{
	Use:   "update BUDGET",
	Short: "Rename a budget or change its amount",
	Long:  "Update a budget given by id or name. Fields without a flag keep their value.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetsUpdate,
}

var budgetsDeleteCmd = &cobra.Command{
	Use:     "delete BUDGET",
	Aliases: []string{"rm"},
	Short:   "Delete a budget; its expenses are kept without a budget",
	Args:    cobra.ExactArgs(1),
	RunE:    runBudgetsDelete,
}

var (
	budgetsMatch  string
	budgetsName   string
	budgetsAmount string
)

func init() {
	budgetsCmd.PersistentFlags().StringVarP(&budgetsMatch, "match", "m", "", "Only budgets whose name matches this glob")
	budgetsUpdateCmd.Flags().StringVar(&budgetsName, "name", "", "New name")
	budgetsUpdateCmd.Flags().StringVar(&budgetsAmount, "amount", "", "New amount")

	budgetsCmd.AddCommand(budgetsListCmd, budgetsAddCmd, budgetsUpdateCmd, budgetsDeleteCmd)
	rootCmd.AddCommand(budgetsCmd)
}

func runBudgetsList(cmd *cobra.Command, _ []string) error {
	d, uid, err := openDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if err := d.Budgets.List(ctx, uid); err != nil {
		return storeError(d.Budgets.Error(), err)
	}
	// Spent totals are best effort.
	spent := map[int64]decimal.Decimal{}
	if err := d.Expenses.List(ctx, uid); err == nil {
		for _, e := range d.Expenses.Expenses() {
			if id := e.BudgetID(); id != 0 {
				spent[id] = spent[id].Add(e.Amount)
			}
		}
	}

	all := d.Budgets.Budgets()
	budgets := cli.FilterBudgets(all, budgetsMatch)
	if len(budgets) == 0 {
		if budgetsMatch == "" {
			fmt.Println("\n  No budgets yet. Add one with `budgetsync budgets add NAME AMOUNT`.")
			return nil
		}
		fmt.Printf("\n  No budgets match %q.\n", budgetsMatch)
		names := make([]string, len(all))
		for i, b := range all {
			names[i] = b.Description
		}
		if hints := cli.Suggest(budgetsMatch, names, maxSuggestions); len(hints) > 0 {
			fmt.Printf("  Did you mean: %s\n", joinQuoted(hints))
		}
		return nil
	}

	var total, totalSpent decimal.Decimal
	rows := make([][]string, 0, len(budgets)+2)
	for _, b := range budgets {
		s := spent[b.ID]
		total = total.Add(b.Amount)
		totalSpent = totalSpent.Add(s)
		rows = append(rows, []string{
			fmt.Sprintf("%d", b.ID),
			b.Description,
			cli.FormatAmount(b.Amount),
			cli.FormatAmount(s),
			cli.FormatAmount(b.Amount.Sub(s)),
			cli.FormatPercent(usedFraction(s, b.Amount)),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"", "Total",
		cli.FormatAmount(total),
		cli.FormatAmount(totalSpent),
		cli.FormatAmount(total.Sub(totalSpent)),
		cli.FormatPercent(usedFraction(totalSpent, total)),
	})

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGETS  user %d (%d)", uid, len(budgets))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Budget", "Amount", "Spent", "Left", "Used"},
		Rows:    rows,
	}))
	return nil
}

func runBudgetsAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	d, _, err := openDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	b, err := d.Budgets.Create(cmd.Context(), model.BudgetInput{Description: args[0], Amount: amount})
	if err != nil {
		return storeError(d.Budgets.Error(), err)
	}
	fmt.Printf("  Created budget %d %q (%s)\n", b.ID, b.Description, cli.FormatAmount(b.Amount))
	return nil
}

func runBudgetsUpdate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("name") && !flags.Changed("amount") {
		return fmt.Errorf("nothing to update: pass --name or --amount")
	}

	d, uid, err := openDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if err := d.Budgets.List(ctx, uid); err != nil {
		return storeError(d.Budgets.Error(), err)
	}
	b, err := findBudget(d, args[0])
	if err != nil {
		return err
	}

	// The service replaces the whole record.
	in := model.BudgetInput{Description: b.Description, Amount: b.Amount}
	if flags.Changed("name") {
		in.Description = budgetsName
	}
	if flags.Changed("amount") {
		if in.Amount, err = parseAmount(budgetsAmount); err != nil {
			return err
		}
	}

	updated, err := d.Budgets.Update(ctx, b.ID, in)
	if err != nil {
		return storeError(d.Budgets.Error(), err)
	}
	fmt.Printf("  Updated budget %d %q (%s)\n", updated.ID, updated.Description, cli.FormatAmount(updated.Amount))
	return nil
}

func runBudgetsDelete(cmd *cobra.Command, args []string) error {
	d, uid, err := openDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if err := d.Budgets.List(ctx, uid); err != nil {
		return storeError(d.Budgets.Error(), err)
	}
	b, err := findBudget(d, args[0])
	if err != nil {
		return err
	}

	if err := d.Budgets.Delete(ctx, b.ID); err != nil {
		return storeError(d.Budgets.Error(), err)
	}
	fmt.Printf("  Deleted budget %d %q\n", b.ID, b.Description)
	return nil
}

// usedFraction returns spent/amount, or 0 for an empty budget.
func usedFraction(spent, amount decimal.Decimal) float64 {
	if !amount.IsPositive() {
		return 0
	}
	return spent.Div(amount).InexactFloat64()
}
