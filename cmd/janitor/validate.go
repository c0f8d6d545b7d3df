package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trainingportal-hq/janitor/pkg/cli"
	"trainingportal-hq/janitor/pkg/config"
	"trainingportal-hq/janitor/pkg/janitor/policy"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and policy files",
	Long: `Validate the janitor configuration and the cleanup policy file
without connecting to the store or starting any runs.

Checks performed:
  - configuration file parses, defaults apply, and all fields validate
  - the policy file parses and every rule is well-formed
  - rule IDs are unique and actions are recognized

Examples:
  # Validate the default config and its policy file
  janitor validate

  # Validate a specific config
  janitor validate --config /etc/janitor/config.yaml`,
	RunE: validateFiles,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateFiles(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}
	fmt.Printf("✓ Configuration valid (%s)\n", cfgFile)

	table, err := policy.LoadFile(cfg.Policy.FilePath)
	if err != nil {
		return cli.NewConfigError("policy.file_path", err.Error())
	}
	fmt.Printf("✓ Policy valid (%d rules, %s)\n", table.Len(), cfg.Policy.FilePath)

	for _, rule := range table.Rules() {
		fmt.Printf("  - %s: %s %s after %s\n", rule.ID, rule.Action, rule.Category, rule.MaxAge)
	}

	return nil
}
