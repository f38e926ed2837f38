package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	memoryCmd := &cobra.Command{
		Use:   "memory",
		Short: "Manage story memories",
	}

	addCmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a story memory",
		Long:  "Add a memory summarizing a story segment. Text can be a positional arg or piped via stdin.",
		Run:   runMemoryAdd,
	}
	addCmd.Flags().Int("position", 0, "Position in the text the memory refers to")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List memories in creation order",
		Run:   runMemoryList,
	}

	editCmd := &cobra.Command{
		Use:   "edit <id> [text]",
		Short: "Replace a memory's text",
		Args:  cobra.MinimumNArgs(1),
		Run:   runMemoryEdit,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a memory",
		Args:  cobra.ExactArgs(1),
		Run:   runMemoryRm,
	}

	memoryCmd.AddCommand(addCmd, listCmd, editCmd, rmCmd)
	RootCmd.AddCommand(memoryCmd)
}

func runMemoryAdd(cmd *cobra.Command, args []string) {
	position, _ := cmd.Flags().GetInt("position")
	text, err := readInput(cmd, args)
	if err != nil {
		exitErr("memory add", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		exitErr("memory add", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	mem, err := a.svc.AddMemory(cmd.Context(), projectFlag, text, position)
	if err != nil {
		exitErr("memory add", err)
	}
	printJSON(cmd, mem)
}

func runMemoryList(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	mems, err := a.svc.Memories(cmd.Context(), projectFlag)
	if err != nil {
		exitErr("memory list", err)
	}
	printJSON(cmd, mems)
}

func runMemoryEdit(cmd *cobra.Command, args []string) {
	id := args[0]
	text, err := readInput(cmd, args[1:])
	if err != nil {
		exitErr("memory edit", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		exitErr("memory edit", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	mem, found, err := a.svc.EditMemory(cmd.Context(), projectFlag, id, text)
	if err != nil {
		exitErr("memory edit", err)
	}
	if !found {
		exitErr("memory edit", fmt.Errorf("memory %s not found", id))
	}
	printJSON(cmd, mem)
}

func runMemoryRm(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	found, err := a.svc.DeleteMemory(cmd.Context(), projectFlag, args[0])
	if err != nil {
		exitErr("memory rm", err)
	}
	if !found {
		exitErr("memory rm", fmt.Errorf("memory %s not found", args[0]))
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"project":%q,"id":%q}`+"\n", projectFlag, args[0])
}
