package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"udondis/internal/program"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <program>",
	Short: "Print a program in a dump format",
	Long: `Load a program and print it again in one of the registered dump
formats. Symbols and heap values are sorted by address.`,
	Example: `
# Show a CBOR program as JSON
udondis dump program.cbor

# Show it as YAML
udondis dump -f yaml program.cbor
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("format")
		f, ok := program.LookupFormat(name)
		if !ok {
			return fmt.Errorf("%w: %q (known: %s)", program.ErrUnknownFormat, name, strings.Join(program.Formats(), ", "))
		}

		p, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		data, err := f.Encode(p)
		if err != nil {
			return err
		}
		slog.Debug("Dumped program", "format", f.Name, "bytes", len(data))

		out := cmd.OutOrStdout()
		if _, err := out.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' && f.Name != "cbor" {
			_, err = fmt.Fprintln(out)
		}
		return err
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert a program between dump formats",
	Long: `Convert a program dump to another format. Both formats are chosen by
file extension: ` + "`.json`, `.toml`, `.yaml`, `.yml`, `.cbor` and `.udonb`.",
	Example: `
# JSON to CBOR
udondis convert program.json program.cbor
  `,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		if err := program.Save(args[1], p); err != nil {
			return err
		}
		slog.Info("Converted program", "from", args[0], "to", args[1])
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringP("format", "f", "json", "Output format ("+strings.Join(program.Formats(), ", ")+")")
}
