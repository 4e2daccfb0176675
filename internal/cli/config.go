package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shiplog/shiplog/internal/config"
	clierrors "github.com/shiplog/shiplog/internal/errors"
)

var configPathFlag string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration as YAML after merging defaults,
user config (~/.config/shiplog/config.yml), project config
(.shiplog/config.yml), and SHIPLOG_* environment variables.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPathFlag)
		if err != nil {
			return NewExitError(ExitRuntimeError, clierrors.Wrap(err, clierrors.Configuration))
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return NewExitError(ExitRuntimeError, clierrors.Wrap(err, clierrors.Runtime))
		}

		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVar(&configPathFlag, "config", "", "Project config file path")
}
