package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	editsCmd := &cobra.Command{
		Use:   "edits",
		Short: "List recent edits, newest first",
		Run:   runEdits,
	}
	editsCmd.Flags().IntP("count", "n", 10, "Number of edits")

	deletionsCmd := &cobra.Command{
		Use:   "deletions",
		Short: "List recent deletions, newest first",
		Run:   runDeletions,
	}
	deletionsCmd.Flags().IntP("count", "n", 10, "Number of deletions")

	relatedCmd := &cobra.Command{
		Use:   "related <term>",
		Short: "Find deletions containing a term",
		Long:  "Case-insensitive substring search over deleted text, newest matches first.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRelated,
	}
	relatedCmd.Flags().Int("max", 5, "Maximum results")

	RootCmd.AddCommand(editsCmd, deletionsCmd, relatedCmd)
}

func runEdits(cmd *cobra.Command, args []string) {
	count, _ := cmd.Flags().GetInt("count")

	a := mustOpenApp(cmd)
	defer a.Close()

	edits, err := a.svc.RecentEdits(cmd.Context(), projectFlag, count)
	if err != nil {
		exitErr("edits", err)
	}
	printJSON(cmd, edits)
}

func runDeletions(cmd *cobra.Command, args []string) {
	count, _ := cmd.Flags().GetInt("count")

	a := mustOpenApp(cmd)
	defer a.Close()

	deletions, err := a.svc.RecentDeletions(cmd.Context(), projectFlag, count)
	if err != nil {
		exitErr("deletions", err)
	}
	printJSON(cmd, deletions)
}

func runRelated(cmd *cobra.Command, args []string) {
	maxResults, _ := cmd.Flags().GetInt("max")
	term := strings.Join(args, " ")
	if strings.TrimSpace(term) == "" {
		exitErr("related", fmt.Errorf("search term is required"))
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	related, err := a.svc.RelatedDeletions(cmd.Context(), projectFlag, term, maxResults)
	if err != nil {
		exitErr("related", err)
	}
	printJSON(cmd, related)
}
