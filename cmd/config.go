package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/argnoun/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the argnoun configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write a commented default config",
	Long: `Write the default configuration with comments to PATH (default
.argnoun/config.yaml). Use --force to overwrite an existing file.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipConfigCheck: "true"},
	RunE:        runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one setting, keeping comments",
	Long: `Set a dotted key such as window.line_radius in the active config file
(--config, the file that was loaded, or .argnoun/config.yaml). VALUE is YAML:
"20" is a number and "[and, or]" a list.`,
	Example:     `  argnoun config set resolver.reserved_words '[and, or, not]'`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipConfigCheck: "true"},
	ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runConfigSet,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigCheck: "true"},
	RunE:        runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configSetCmd, configShowCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := localConfigPath
	if len(args) == 1 {
		path = args[0]
	}
	if fileExists(path) && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := activeConfigPath(viper.GetViper())
	if err := config.SetValue(path, args[0], args[1]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: set %s\n", path, args[0])
	return err
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent(2)
	if err := encoder.Encode(viper.AllSettings()); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return encoder.Close()
}

// activeConfigPath is the file config set edits.
func activeConfigPath(v *viper.Viper) string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	return localConfigPath
}
