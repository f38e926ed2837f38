package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show project statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	stats, err := a.svc.Stats(cmd.Context(), projectFlag)
	if err != nil {
		exitErr("stats", err)
	}
	printJSON(cmd, stats)
}
