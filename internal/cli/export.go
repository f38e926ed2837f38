package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project as JSON",
		Long:  "Export the project's edit history, memories and content as one JSON bundle, to stdout or --out.",
		Run:   runExport,
	}

	cmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")

	a := mustOpenApp(cmd)
	defer a.Close()

	bundle, err := a.svc.Export(cmd.Context(), projectFlag)
	if err != nil {
		exitErr("export", err)
	}

	if out == "" {
		printJSON(cmd, bundle)
		return
	}
	b, _ := json.MarshalIndent(bundle, "", "  ")
	if err := os.WriteFile(out, append(b, '\n'), 0o644); err != nil {
		exitErr("write export", err)
	}
}
