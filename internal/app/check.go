package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorwatch/internal/config"
	"github.com/blackwell-systems/cursorwatch/internal/cursor"
	"github.com/blackwell-systems/cursorwatch/internal/output"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify API connectivity and credentials",
	Long: `Probe the Cursor Admin API with the configured credentials and report
what was reachable. Useful after rotating the API key or pointing at a
different deployment.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Println(output.StyleError.Render("  ✗ no API key configured"))
			fmt.Println(output.StyleMuted.Render("    set CURSOR_API_KEY in the environment or a .env file"))
		}
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	status, err := svc.CheckConnection(ctx)
	if err != nil {
		if flagJSON {
			return writeJSON(map[string]any{"ok": false, "error": err.Error()})
		}
		fmt.Println(output.Section("Connection check"))
		fmt.Println()
		fmt.Printf("  %s %s\n", output.StyleError.Render("✗"), "API unreachable")
		var apiErr *cursor.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == 401 || apiErr.StatusCode == 403) {
			fmt.Println(output.StyleMuted.Render("    credential rejected, check CURSOR_API_KEY"))
		}
		return err
	}

	if flagJSON {
		return writeJSON(status)
	}

	fmt.Println(output.Section("Connection check"))
	fmt.Println()
	fmt.Printf("  %s %s\n", output.StyleSuccess.Render("✓"), "API reachable")
	fmt.Printf("  %s%s\n", output.StyleLabel.Render("Base URL"), status.BaseURL)
	if status.OrgID != "" {
		fmt.Printf("  %s%s\n", output.StyleLabel.Render("Organization"), status.OrgID)
	}
	fmt.Printf("  %s%d\n", output.StyleLabel.Render("Team members"), status.UserCount)
	fmt.Println()
	return nil
}
