package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorwatch/internal/metrics"
	"github.com/blackwell-systems/cursorwatch/internal/output"
)

var inactiveDays int

var inactiveCmd = &cobra.Command{
	Use:   "inactive",
	Short: "Licensed users with no recent activity",
	Long: `List users who have had no recorded activity in the trailing window.
These are license reclaim candidates. Users whose activity data is
missing or unreadable are listed too rather than silently skipped.`,
	RunE: runInactive,
}

func init() {
	inactiveCmd.Flags().IntVar(&inactiveDays, "days", 0, "Inactivity window in days (default from config)")
	rootCmd.AddCommand(inactiveCmd)
}

// inactiveOutput is the JSON-serializable output for the inactive command.
type inactiveOutput struct {
	Days  int                  `json:"days"`
	Count int                  `json:"count"`
	Users []*metrics.Aggregate `json:"users"`
}

func runInactive(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	days := cfg.InactiveDays
	if inactiveDays > 0 {
		days = inactiveDays
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	inactive, err := svc.InactiveUsers(ctx, days)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(inactiveOutput{Days: days, Count: len(inactive), Users: inactive})
	}

	fmt.Println(output.Section(fmt.Sprintf("Inactive for %d+ days", days)))
	fmt.Println()

	if len(inactive) == 0 {
		fmt.Println(output.StyleSuccess.Render("  every licensed user has recent activity"))
		fmt.Println()
		return nil
	}

	now := time.Now()
	tbl := output.NewTable("User", "Role", "Last Active", "Requests")
	for _, a := range inactive {
		name := a.UserEmail
		if a.UserName != "" {
			name = fmt.Sprintf("%s <%s>", a.UserName, a.UserEmail)
		}
		tbl.AddRow(name, a.Role, lastActiveLabel(a, now), fmt.Sprintf("%d", a.TotalRequests))
	}
	tbl.Print()
	fmt.Println()
	fmt.Printf("  %s\n\n", output.StyleWarning.Render(fmt.Sprintf("%d reclaim candidate(s)", len(inactive))))
	return nil
}
