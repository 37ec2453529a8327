package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorwatch/internal/metrics"
	"github.com/blackwell-systems/cursorwatch/internal/output"
)

var (
	usageFrom        string
	usageTo          string
	usageDays        int
	usageLeaderboard bool
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Per-user usage aggregates and team summary",
	Long: `Fetch daily usage data for the date range, fold it into one row per
user, and display request counts, tab acceptance rate, productivity
score, and activity. Defaults to the trailing 30 days.`,
	RunE: runUsage,
}

func init() {
	usageCmd.Flags().StringVar(&usageFrom, "from", "", "Range start (YYYY-MM-DD)")
	usageCmd.Flags().StringVar(&usageTo, "to", "", "Range end (YYYY-MM-DD)")
	usageCmd.Flags().IntVar(&usageDays, "days", 0, "Trailing window in days (ignored when --from is set)")
	usageCmd.Flags().BoolVar(&usageLeaderboard, "leaderboard", false, "Show top and bottom users by requests")
	rootCmd.AddCommand(usageCmd)
}

// usageOutput is the JSON-serializable output for the usage command.
type usageOutput struct {
	From    string               `json:"from"`
	To      string               `json:"to"`
	Summary metrics.Summary      `json:"summary"`
	Users   []*metrics.Aggregate `json:"users"`
}

func runUsage(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	window := cfg.WindowDays
	if usageDays > 0 {
		window = usageDays
	}
	from, to, err := dateRange(usageFrom, usageTo, window)
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	aggs, err := svc.UsageAggregates(ctx, from, to)
	if err != nil {
		return err
	}
	summary := metrics.Summarize(aggs)

	if flagJSON {
		return writeJSON(usageOutput{
			From:    from.Format(isoDate),
			To:      to.Format(isoDate),
			Summary: summary,
			Users:   aggs,
		})
	}

	fmt.Println(output.Section(fmt.Sprintf("Usage %s to %s", from.Format(isoDate), to.Format(isoDate))))
	fmt.Println()
	renderSummary(summary)

	if usageLeaderboard {
		top, bottom := metrics.TopBottomByRequests(aggs, cfg.LeaderboardSize)
		fmt.Println(output.Section("Most requests"))
		fmt.Println()
		renderUsageTable(top)
		fmt.Println(output.Section("Fewest requests"))
		fmt.Println()
		renderUsageTable(bottom)
		return nil
	}

	sorted, _ := metrics.TopBottomByRequests(aggs, len(aggs))
	fmt.Println(output.Section("Users"))
	fmt.Println()
	renderUsageTable(sorted)
	return nil
}

// renderSummary prints the team-wide rollup block.
func renderSummary(s metrics.Summary) {
	line := func(label string, value string) {
		fmt.Printf("  %s%s\n", output.StyleLabel.Render(label), output.StyleValue.Render(value))
	}
	line("Users", strconv.Itoa(s.Users))
	line("Active users", strconv.Itoa(s.ActiveUsers))
	line("Total requests", strconv.FormatInt(s.TotalRequests, 10))
	line("Lines accepted", strconv.FormatInt(s.AcceptedLinesAdded, 10))
	line("Avg acceptance rate", fmt.Sprintf("%.1f%%", s.AvgAcceptanceRate))
	fmt.Printf("  %s%s\n", output.StyleLabel.Render("Avg productivity"), output.ScoreBar(s.AvgProductivityScore, 20))
	fmt.Println()
}

// renderUsageTable prints one row per aggregate.
func renderUsageTable(aggs []*metrics.Aggregate) {
	if len(aggs) == 0 {
		fmt.Println(output.StyleMuted.Render("  no usage data in range"))
		fmt.Println()
		return
	}

	now := time.Now()
	tbl := output.NewTable("User", "Requests", "Accept %", "Score", "Last Active", "Level")
	for _, a := range aggs {
		name := a.UserEmail
		if a.UserName != "" {
			name = fmt.Sprintf("%s <%s>", a.UserName, a.UserEmail)
		}
		level := metrics.ActivityLevel(metrics.DaysSince(a.LastActiveAt, now))
		tbl.AddRow(
			name,
			strconv.FormatInt(a.TotalRequests, 10),
			strconv.Itoa(a.AcceptanceRate),
			strconv.Itoa(a.ProductivityScore),
			lastActiveLabel(a, now),
			output.ActivityBadge(level),
		)
	}
	tbl.Print()
	fmt.Println()
}
