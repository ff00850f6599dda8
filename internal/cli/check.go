package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/damoang/angple-content/internal/domain"
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var tables []string
	cmd := &cobra.Command{
		Use:   "check <workspace-id>",
		Short: "Run the integrity checks over a workspace's versioned records",
		Long: `Collect the workspace versions of the given tables (all configured tables
when --table is omitted), combine them with their live rows and report
localization issues. Exits 1 when the overall status is error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			workspaceID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || workspaceID <= 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid workspace id %q", args[0]))
			}

			return withSession(rootOpts, cmd, func(s *session) error {
				if len(tables) == 0 {
					tables = s.rt.Schemas.Tables()
				}
				report, err := s.rt.Workspaces.CheckWorkspace(cmd.Context(), s.locale, workspaceID, tables)
				if err != nil {
					return s.fail(err)
				}
				if err := s.out.Success(report, func(w io.Writer) { printReport(w, report) }); err != nil {
					return err
				}
				if report.Status == domain.SeverityError {
					return NewExitError(ExitFailure, "integrity errors found")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVarP(&tables, "table", "t", nil, "table to check (repeatable)")
	return cmd
}

func printReport(w io.Writer, report *domain.IntegrityReport) {
	fmt.Fprintf(w, "status: %s (%s), checked %d\n", report.StatusLabel, report.Status, report.Checked)

	ids := make([]string, 0, len(report.Issues))
	for id := range report.Issues {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, issue := range report.Issues[id] {
			fmt.Fprintf(w, "  %-8s %s  %s\n", issue.Status, id, issue.Message)
		}
	}
}
