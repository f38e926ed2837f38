package cli

import (
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context [text]",
		Short: "Show the completion context for text at a cursor",
		Long:  "Assemble the text before the cursor, the recent edits and their patterns. Text can be a positional arg or piped via stdin; the cursor defaults to the end.",
		Run:   runContext,
	}
	cmd.Flags().IntP("cursor", "c", -1, "Cursor position in runes (default: end of text)")

	RootCmd.AddCommand(cmd)
}

// cursorOrEnd reads --cursor, selecting the end of text when unset.
func cursorOrEnd(cmd *cobra.Command, text string) int {
	cursor, _ := cmd.Flags().GetInt("cursor")
	if !cmd.Flags().Changed("cursor") {
		return utf8.RuneCountInString(text)
	}
	return cursor
}

func runContext(cmd *cobra.Command, args []string) {
	text, err := readInput(cmd, args)
	if err != nil {
		exitErr("context", err)
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	cc, err := a.svc.CompletionContext(cmd.Context(), projectFlag, text, cursorOrEnd(cmd, text))
	if err != nil {
		exitErr("context", err)
	}
	printJSON(cmd, cc)
}
