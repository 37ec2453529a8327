package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorwatch/internal/cursor"
	"github.com/blackwell-systems/cursorwatch/internal/output"
)

var (
	eventsFrom  string
	eventsTo    string
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Individual model-request events",
	Long: `List individual model requests for the date range: who made them, which
model, what kind of request, and the token spend. Defaults to the
trailing 7 days.`,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventsFrom, "from", "", "Range start (YYYY-MM-DD)")
	eventsCmd.Flags().StringVar(&eventsTo, "to", "", "Range end (YYYY-MM-DD)")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "Maximum events to display (0 for all)")
	rootCmd.AddCommand(eventsCmd)
}

// eventsOutput is the JSON-serializable output for the events command.
type eventsOutput struct {
	From   string              `json:"from"`
	To     string              `json:"to"`
	Count  int                 `json:"count"`
	Events []cursor.UsageEvent `json:"events"`
}

func runEvents(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	from, to, err := dateRange(eventsFrom, eventsTo, 7)
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	events, err := svc.UsageEvents(ctx, from, to)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(eventsOutput{
			From:   from.Format(isoDate),
			To:     to.Format(isoDate),
			Count:  len(events),
			Events: events,
		})
	}

	fmt.Println(output.Section(fmt.Sprintf("Events %s to %s", from.Format(isoDate), to.Format(isoDate))))
	fmt.Println()

	if len(events) == 0 {
		fmt.Println(output.StyleMuted.Render("  no events in range"))
		fmt.Println()
		return nil
	}

	shown := events
	if eventsLimit > 0 && len(shown) > eventsLimit {
		shown = shown[:eventsLimit]
	}

	tbl := output.NewTable("When", "User", "Model", "Kind", "Tokens")
	for _, e := range shown {
		when := "-"
		if ts := e.Timestamp.Int(); ts > 0 {
			when = time.UnixMilli(ts).UTC().Format("2006-01-02 15:04")
		}
		tokens := e.TokenUsage.InputTokens.Int() + e.TokenUsage.OutputTokens.Int()
		tbl.AddRow(when, e.UserEmail, e.Model, e.KindLabel, strconv.FormatInt(tokens, 10))
	}
	tbl.Print()
	fmt.Println()
	if len(shown) < len(events) {
		fmt.Printf("  %s\n\n", output.StyleMuted.Render(
			fmt.Sprintf("showing %d of %d events (use --limit 0 for all)", len(shown), len(events))))
	}
	return nil
}
