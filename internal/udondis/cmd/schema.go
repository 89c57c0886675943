package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"udondis/internal/config"
	"udondis/internal/program"
)

var schemaCmd = &cobra.Command{
	Use:    "schema [config|program]",
	Short:  "Generate JSON schema for configuration or program dumps",
	Long:   "Generate JSON schema for udondis.toml or for the program dump format",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v any = &config.Config{}
		if len(args) == 1 {
			switch args[0] {
			case "config":
			case "program":
				v = &program.Dump{}
			default:
				return fmt.Errorf("unknown schema %q (want config or program)", args[0])
			}
		}

		reflector := new(jsonschema.Reflector)
		bts, err := json.MarshalIndent(reflector.Reflect(v), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}
