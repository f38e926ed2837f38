package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/vibe-writer/internal/service"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a project bundle",
		Long:  "Replace the project's documents with a bundle produced by export, read from stdin or --file.",
		Run:   runImport,
	}

	cmd.Flags().String("file", "", "Read the bundle from a file instead of stdin")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	path, _ := cmd.Flags().GetString("file")

	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		exitErr("read bundle", err)
	}

	var bundle service.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		exitErr("parse json", err)
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	res, err := a.svc.Import(cmd.Context(), projectFlag, bundle)
	if err != nil {
		exitErr("import", err)
	}
	printJSON(cmd, map[string]any{"ok": true, "imported": res})
}
