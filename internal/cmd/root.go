package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/charmbracelet/vlist/internal/log"
	"github.com/charmbracelet/vlist/internal/tui"
	"github.com/charmbracelet/vlist/internal/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.PersistentFlags().Int("items", 0, "Number of rows in the list")
	rootCmd.PersistentFlags().Int("height", 0, "Constant row height")
	rootCmd.PersistentFlags().IntSlice("heights", nil, "Repeating pattern of row heights (switches to computed heights)")
	rootCmd.PersistentFlags().Int("overscan", config.DefaultOverscan, "Rows rendered above and below the viewport")
	rootCmd.PersistentFlags().String("filter", "", "Fuzzy filter applied to row labels")
	rootCmd.PersistentFlags().Bool("prefix-sums", false, "Cache cumulative row heights")
}

var rootCmd = &cobra.Command{
	Use:   "vlist",
	Short: "Virtual scrolling for very long lists",
	Long: heredoc.Doc(`
		vlist scrolls through lists of any length while only rendering the
		rows that are on screen, plus a few above and below.
	`),
	Example: heredoc.Doc(`
		# Scroll through a million rows
		vlist --items 1000000

		# Rows of 1, 2 and 3 lines
		vlist --heights 1,2,3 --prefix-sums

		# Only rows matching a fuzzy pattern
		vlist --filter onyx

		# Run with debug logging
		vlist -d
	`),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		program := tea.NewProgram(
			tui.New(cfg),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithMouseCellMotion(),
		)

		go func() {
			defer log.RecoverPanic("config-watcher", nil)
			err := config.Watch(ctx, cfg.WorkingDir(), func(reloaded *config.Config) {
				if err := applyListFlags(cmd, reloaded); err != nil {
					slog.Warn("Ignoring reloaded configuration", "error", err)
					return
				}
				program.Send(tui.ConfigChangedMsg{Config: reloaded})
			})
			if err != nil {
				slog.Warn("Config hot reload disabled", "error", err)
			}
		}()

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
	); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and starts file logging.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log.Setup(cfg.LogFile(), cfg.Options.Debug)
	slog.Info("Starting vlist",
		"version", version.Version,
		"items", cfg.List.Items,
		"overscan", cfg.Overscan(),
		"heights", cfg.List.Heights,
	)
	return cfg, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cwd, debug)
	if err != nil {
		return nil, err
	}
	if err := applyListFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyListFlags overrides the list configuration with the flags given on the
// command line.
func applyListFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("items") {
		cfg.List.Items, _ = flags.GetInt("items")
	}
	if flags.Changed("height") {
		cfg.List.ItemHeight, _ = flags.GetInt("height")
		cfg.List.Heights = nil
	}
	if flags.Changed("heights") {
		cfg.List.Heights, _ = flags.GetIntSlice("heights")
	}
	if flags.Changed("overscan") {
		overscan, _ := flags.GetInt("overscan")
		cfg.List.Overscan = &overscan
	}
	if flags.Changed("filter") {
		cfg.List.Filter, _ = flags.GetString("filter")
	}
	if flags.Changed("prefix-sums") {
		cfg.List.PrefixSums, _ = flags.GetBool("prefix-sums")
	}
	if cfg.List.Items < 0 {
		return fmt.Errorf("items must not be negative, got %d", cfg.List.Items)
	}
	if cfg.List.ItemHeight <= 0 {
		return fmt.Errorf("height must be positive, got %d", cfg.List.ItemHeight)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// ResolveCwd returns the working directory, changing into --cwd first when
// it is set.
func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
