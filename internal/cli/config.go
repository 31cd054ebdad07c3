package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dshills/fermicfg/internal/config"
)

var flagShowKeys bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fermicfg settings",
	Long: "Settings are read from the settings file, then FERMICFG_* environment\n" +
		"variables, then command-line flags; later layers win.",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a settings file holding the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Settings file already exists at %s\n", path)
			return nil
		}
		if err := config.Save(config.Default()); err != nil {
			return fmt.Errorf("writing settings: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Settings file created at %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the settings file",
	Long:  "Set a value in the settings file. Keys: " + strings.Join(config.Keys, ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if _, err := config.Set(key, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		if env, ok := config.EnvVars[key]; ok && os.Getenv(env) != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s is set and overrides %s\n", env, key)
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Long:  "Show effective settings as JSON, or with --keys as a table of every key with\nits value and environment variable.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		if flagShowKeys {
			return writeSettingsTable(cmd, cfg)
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func writeSettingsTable(cmd *cobra.Command, cfg config.Config) error {
	rows := make([][]string, 0, len(config.Keys))
	for _, key := range config.Keys {
		value, err := config.Field(cfg, key)
		if err != nil {
			return err
		}
		if value == "" {
			value = "-"
		}
		env := config.EnvVars[key]
		if env == "" {
			env = "-"
		}
		rows = append(rows, []string{key, value, env})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("KEY", "VALUE", "ENV").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			return s
		})
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	if path, err := config.ConfigPath(); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "settings file: %s\n", path)
	}
	return nil
}

func init() {
	configShowCmd.Flags().BoolVar(&flagShowKeys, "keys", false, "List every key with its value and environment variable")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
