package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-stepform"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a form definition",
	Long: `Load a definition, compile it and report structural problems such as
duplicate field names or rules that reference unknown fields.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := stepform.LoadDefinition(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		compiled, err := def.Compile()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %s: %d steps, %d fields\n",
			def.ID, len(compiled.Form.Groups()), def.FieldCount())
		return err
	},
}

var inspectFlags struct {
	yaml bool
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Print the normalised form definition",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		def, err := stepform.LoadDefinition(cmd.Context(), path)
		if err != nil {
			return err
		}

		var out []byte
		if inspectFlags.yaml {
			out, err = yaml.Marshal(def)
		} else {
			out, err = json.MarshalIndent(def, "", "  ")
		}
		if err != nil {
			return fmt.Errorf("encode definition: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectFlags.yaml, "yaml", false, "print YAML instead of JSON")
}
