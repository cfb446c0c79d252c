package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetsync/internal/cli"
	"github.com/theirongolddev/budgetsync/internal/dashboard"
	"github.com/theirongolddev/budgetsync/internal/view"
)

var chartsCmd = &cobra.Command{
	Use:     "charts",
	Aliases: []string{"chart", "c"},
	Short:   "Show every chart",
	Args:    cobra.NoArgs,
	RunE:    runChartsAll,
}

var chartsBarWidth int

// chart is one renderable chart and how to fetch it.
type chart struct {
	use   string
	title string
	short string
	fetch func(ctx context.Context, d *dashboard.Dashboard, uid int64) error
	view  func(d *dashboard.Dashboard) view.Projection
}

var charts = []chart{
	{
		use:   "budgets",
		title: "Budgets",
		short: "Budget amounts",
		fetch: func(ctx context.Context, d *dashboard.Dashboard, uid int64) error {
			return d.Budgets.FetchChart(ctx, uid)
		},
		view: func(d *dashboard.Dashboard) view.Projection { return d.BudgetChart.Current() },
	},
	{
		use:   "categories",
		title: "Expenses by category",
		short: "Your expenses summed per budget",
		fetch: func(ctx context.Context, d *dashboard.Dashboard, _ int64) error {
			return d.CategoryChart.Refresh(ctx)
		},
		view: func(d *dashboard.Dashboard) view.Projection { return d.CategoryChart.Current() },
	},
	{
		use:   "totals",
		title: "Total expenses by budget (all users)",
		short: "Expenses of every user summed per budget name",
		fetch: func(ctx context.Context, d *dashboard.Dashboard, _ int64) error {
			return d.BudgetTotals.Refresh(ctx)
		},
		view: func(d *dashboard.Dashboard) view.Projection { return d.BudgetTotals.Current() },
	},
}

func init() {
	chartsCmd.PersistentFlags().IntVar(&chartsBarWidth, "width", 30, "Bar width in columns")

	for _, c := range charts {
		chartsCmd.AddCommand(&cobra.Command{
			Use:   c.use,
			Short: c.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runChart(cmd, c)
			},
		})
	}
	rootCmd.AddCommand(chartsCmd)
}

func runChart(cmd *cobra.Command, c chart) error {
	d, uid, err := openDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	fetchErr := c.fetch(cmd.Context(), d, uid)

	fmt.Println()
	fmt.Print(cli.RenderProjection(c.title, c.view(d), chartsBarWidth))
	if fetchErr != nil {
		return fmt.Errorf("%s: %w", c.use, fetchErr)
	}
	return nil
}

func runChartsAll(cmd *cobra.Command, _ []string) error {
	d, _, err := openDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	// Failed charts render their own error.
	loadErr := d.Load(cmd.Context())

	fmt.Println()
	fmt.Println(cli.RenderTitle("CHARTS"))
	for _, c := range charts {
		fmt.Println()
		fmt.Print(cli.RenderProjection(c.title, c.view(d), chartsBarWidth))
	}
	return loadErr
}
