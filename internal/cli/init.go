package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gzhole/remindshield/internal/policy"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in policy to the policy file for editing",
	Long: `Write the default threat patterns, instructor calendar and intent rules
to ~/.remindshield/policy.yaml (or --policy) so they can be customized.
An existing file is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing policy file")
	rootCmd.AddCommand(initCmd)
}

func initCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.PolicyPath); err == nil && !initForce {
		fmt.Fprintf(cmd.OutOrStdout(), "Policy file already exists: %s (use --force to overwrite)\n", cfg.PolicyPath)
		return nil
	}

	data, err := policy.Marshal(policy.DefaultPolicy())
	if err != nil {
		return fmt.Errorf("failed to render default policy: %w", err)
	}
	if err := os.WriteFile(cfg.PolicyPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write policy: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote default policy to %s\n", cfg.PolicyPath)
	return nil
}
