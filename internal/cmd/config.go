package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write configuration values",
	Long: heredoc.Doc(`
		Read values from the merged configuration, or write them to the
		configuration file vlist owns. Keys use dotted paths such as
		list.overscan or list.heights.
	`),
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Example: heredoc.Doc(`
		# Print the overscan
		vlist config get list.overscan

		# Print the whole list section
		vlist config get list
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		value, err := configValue(cfg, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a configuration value",
	Long: heredoc.Doc(`
		Write a value to the configuration file vlist owns. Values that are
		valid JSON are stored as such, anything else is stored as a string.
		A running vlist picks the change up immediately.
	`),
	Example: heredoc.Doc(`
		# Render 10 rows above and below the viewport
		vlist config set list.overscan 10

		# Rows of 1, 2 and 3 lines
		vlist config set list.heights '[1,2,3]'
	`),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := ResolveCwd(cmd)
		if err != nil {
			return err
		}
		cfg, err := config.Load(cwd, false)
		if err != nil {
			return err
		}
		if err := cfg.SetConfigField(args[0], parseValue(args[1])); err != nil {
			return err
		}
		if _, err := config.Load(cwd, false); err != nil {
			return fmt.Errorf("value written but the configuration is now invalid: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func configValue(cfg *config.Config, key string) (string, error) {
	value := cfg.Get(key)
	if !value.Exists() {
		return "", fmt.Errorf("%s is not set", key)
	}
	if value.IsObject() || value.IsArray() {
		return value.Raw, nil
	}
	return value.String(), nil
}

func parseValue(s string) any {
	if gjson.Valid(s) {
		return gjson.Parse(s).Value()
	}
	return s
}
