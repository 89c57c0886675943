package cmd

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var heapCmd = &cobra.Command{
	Use:   "heap <program>",
	Short: "List the heap variables of a program",
	Long: `List every populated heap address of a program, sorted by address,
with the symbol naming it. The bytecode is not decoded.`,
	Example: `
# List variables
udondis heap program.json
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		color := settings.UseColor(term.IsTerminal(os.Stdout.Fd()))
		return writeHeap(cmd.OutOrStdout(), p, settings, color)
	},
}
