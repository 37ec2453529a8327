package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorwatch/internal/output"
)

var (
	spendFrom string
	spendTo   string
)

var spendCmd = &cobra.Command{
	Use:   "spend",
	Short: "Team spending summary",
	RunE:  runSpend,
}

func init() {
	spendCmd.Flags().StringVar(&spendFrom, "from", "", "Range start (YYYY-MM-DD)")
	spendCmd.Flags().StringVar(&spendTo, "to", "", "Range end (YYYY-MM-DD)")
	rootCmd.AddCommand(spendCmd)
}

func runSpend(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	from, to, err := dateRange(spendFrom, spendTo, cfg.WindowDays)
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	sp, err := svc.Spending(ctx, from, to)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(sp)
	}

	currency := sp.Currency
	if currency == "" {
		currency = "USD"
	}

	fmt.Println(output.Section(fmt.Sprintf("Spending %s to %s", from.Format(isoDate), to.Format(isoDate))))
	fmt.Println()
	line := func(label string, amount float64) {
		fmt.Printf("  %s%s\n", output.StyleLabel.Render(label),
			output.StyleValue.Render(fmt.Sprintf("%.2f %s", amount, currency)))
	}
	line("Total", sp.TotalSpent)
	line("Usage based", sp.Breakdown.UsageBased)
	line("Subscription", sp.Breakdown.Subscription)
	fmt.Println()
	return nil
}
