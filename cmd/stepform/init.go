package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform/internal/config"
)

var initFlags struct {
	project bool
	force   bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a stepform configuration file",
	Long: `Create a stepform configuration file from the current settings.

By default, writes the global config at ~/.config/stepform/stepform.yml.
Use --project to write ./stepform.yml instead.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		target := config.GlobalPath()
		if initFlags.project {
			target = config.ProjectPath()
		}
		if !initFlags.force && fileExists(target) {
			return fmt.Errorf("config file already exists at %s; use --force to overwrite", target)
		}

		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if initFlags.project {
			err = config.WriteProject(cfg)
		} else {
			err = config.WriteGlobal(cfg)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
		return err
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initFlags.project, "project", "p", false, "write ./stepform.yml instead of the global config")
	initCmd.Flags().BoolVarP(&initFlags.force, "force", "f", false, "overwrite an existing config file")
}
