package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/vibe-writer/internal/model"
)

func init() {
	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Record an edit",
		Long:  "Record the change from --old to --new in the project history. Either side can be read from a file with --old-file / --new-file.",
		Run:   runEdit,
	}
	editCmd.Flags().String("old", "", "Text before the edit")
	editCmd.Flags().String("new", "", "Text after the edit")
	editCmd.Flags().String("old-file", "", "Read the text before the edit from a file")
	editCmd.Flags().String("new-file", "", "Read the text after the edit from a file")
	editCmd.Flags().StringP("type", "t", model.EditTypeTextChange, "Edit type: text_change, initial_content, restore_deletion, format_change")
	editCmd.Flags().IntP("cursor", "c", -1, "Cursor position to record (omitted when negative)")

	deleteCmd := &cobra.Command{
		Use:   "delete [text]",
		Short: "Record a deletion",
		Long:  "Record deleted text. Text can be a positional arg or piped via stdin.",
		Run:   runDelete,
	}
	deleteCmd.Flags().IntP("cursor", "c", -1, "Cursor position to record (omitted when negative)")

	RootCmd.AddCommand(editCmd, deleteCmd)
}

func textFlag(cmd *cobra.Command, name string) string {
	if path, _ := cmd.Flags().GetString(name + "-file"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			exitErr("read "+name, err)
		}
		return string(b)
	}
	s, _ := cmd.Flags().GetString(name)
	return s
}

func cursorLocation(cmd *cobra.Command) model.Location {
	cursor, _ := cmd.Flags().GetInt("cursor")
	if cursor < 0 {
		return nil
	}
	return model.Location{"cursor_position": cursor}
}

func runEdit(cmd *cobra.Command, args []string) {
	editType, _ := cmd.Flags().GetString("type")
	if !model.ValidEditTypes[editType] {
		exitErr("edit", fmt.Errorf("invalid edit type %q", editType))
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	rec, err := a.svc.RecordEdit(cmd.Context(), projectFlag, textFlag(cmd, "old"), textFlag(cmd, "new"), cursorLocation(cmd), editType)
	if err != nil {
		exitErr("edit", err)
	}
	printJSON(cmd, rec)
}

func runDelete(cmd *cobra.Command, args []string) {
	text, err := readInput(cmd, args)
	if err != nil {
		exitErr("delete", err)
	}
	if text == "" {
		exitErr("delete", fmt.Errorf("deleted text is required (positional arg or stdin)"))
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	rec, err := a.svc.RecordDeletion(cmd.Context(), projectFlag, text, cursorLocation(cmd))
	if err != nil {
		exitErr("delete", err)
	}
	printJSON(cmd, rec)
}
