package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorwatch/internal/cursor"
	"github.com/blackwell-systems/cursorwatch/internal/output"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Team roster",
	RunE:  runMembers,
}

func init() {
	rootCmd.AddCommand(membersCmd)
}

// membersOutput is the JSON-serializable output for the members command.
type membersOutput struct {
	Count   int                 `json:"count"`
	Members []cursor.TeamMember `json:"members"`
}

func runMembers(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	members, err := svc.TeamMembers(ctx)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(membersOutput{Count: len(members), Members: members})
	}

	fmt.Println(output.Section("Team members"))
	fmt.Println()

	tbl := output.NewTable("Email", "Name", "Role")
	for _, m := range members {
		tbl.AddRow(m.Email, m.Name, m.Role)
	}
	tbl.Print()
	fmt.Println()
	fmt.Printf("  %s\n\n", output.StyleMuted.Render(fmt.Sprintf("%d member(s)", len(members))))
	return nil
}
