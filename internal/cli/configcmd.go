package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/ui"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
		Args:  exactArgs(0, "todo config <init|show>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("usage: todo config <init|show>")
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the effective settings to the config file",
			Args:  exactArgs(0, "todo config init"),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.cfg.WriteExample(a.cfgPath); err != nil {
					return fmt.Errorf("config init: %w", err)
				}
				ui.OK("wrote " + a.cfgPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings",
			Args:  exactArgs(0, "todo config show"),
			RunE: func(cmd *cobra.Command, args []string) error {
				c := a.cfg
				ui.Panel([]string{
					ui.Current().Title.Render("Config") + "  " + ui.Current().Muted.Render(a.cfgPath),
					"",
					"backend:   " + c.Backend,
					"api_url:   " + c.APIURL,
					"data_file: " + c.DataFile,
					"timeout:   " + c.Timeout.String(),
					"theme:     " + c.Theme,
					"log:       " + c.Log.Level + " → " + c.Log.File,
				})
				return nil
			},
		},
	)
	return cmd
}
