package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/vibe-writer/internal/service"
)

func init() {
	completeCmd := &cobra.Command{
		Use:   "complete [text]",
		Short: "Continue text with the language model",
		Long:  "Generate a continuation at the cursor, guided by the project's recent edits. Text can be a positional arg or piped via stdin.",
		Run:   runComplete,
	}
	completeCmd.Flags().IntP("cursor", "c", -1, "Cursor position in runes (default: end of text)")
	completeCmd.Flags().Int("max-tokens", 0, "Maximum tokens to generate (default: llm.max_tokens)")
	completeCmd.Flags().Float64("temperature", 0, "Sampling temperature between 0 and 1 (default: llm.temperature)")
	completeCmd.Flags().String("model", "", "Model override")

	suggestCmd := &cobra.Command{
		Use:   "suggest [text]",
		Short: "Offer alternative continuations",
		Run:   runSuggest,
	}
	suggestCmd.Flags().IntP("count", "n", service.DefaultSuggestions, "Number of suggestions (max 5)")
	suggestCmd.Flags().Float64("temperature", 0, "Sampling temperature between 0 and 1 (default: llm.temperature)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Describe the writing style of a text",
		Run:   runAnalyze,
	}

	RootCmd.AddCommand(completeCmd, suggestCmd, analyzeCmd)
}

func generateParams(cmd *cobra.Command) service.GenerateParams {
	var p service.GenerateParams
	p.Model, _ = cmd.Flags().GetString("model")
	p.MaxTokens, _ = cmd.Flags().GetInt("max-tokens")
	if cmd.Flags().Changed("temperature") {
		t, _ := cmd.Flags().GetFloat64("temperature")
		p.Temperature = &t
	}
	return p
}

func inputOrExit(cmd *cobra.Command, args []string, name string) string {
	text, err := readInput(cmd, args)
	if err != nil {
		exitErr(name, err)
	}
	if text == "" {
		exitErr(name, fmt.Errorf("text is required (positional arg or stdin)"))
	}
	return text
}

func runComplete(cmd *cobra.Command, args []string) {
	text := inputOrExit(cmd, args, "complete")

	a := mustOpenApp(cmd)
	defer a.Close()

	out, err := a.svc.Complete(cmd.Context(), projectFlag, text, cursorOrEnd(cmd, text), generateParams(cmd))
	if err != nil {
		exitErr("complete", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
}

func runSuggest(cmd *cobra.Command, args []string) {
	count, _ := cmd.Flags().GetInt("count")
	text := inputOrExit(cmd, args, "suggest")

	a := mustOpenApp(cmd)
	defer a.Close()

	out, err := a.svc.Suggest(cmd.Context(), projectFlag, text, count, generateParams(cmd))
	if err != nil {
		exitErr("suggest", err)
	}
	printJSON(cmd, out)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	text := inputOrExit(cmd, args, "analyze")

	a := mustOpenApp(cmd)
	defer a.Close()

	analysis, err := a.svc.AnalyzeStyle(cmd.Context(), text)
	if err != nil {
		exitErr("analyze", err)
	}
	printJSON(cmd, analysis)
}
