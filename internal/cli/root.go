package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gzhole/remindshield/internal/logging"
)

var (
	policyPath string
	logPath    string
	noLog      bool
	debug      bool

	zlog = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "remindshield",
	Short: "RemindShield - guardrails for a classroom reminder assistant",
	Long: `RemindShield sits between a student's free-text request and a reminder
assistant that can take actions. It rejects prompt-injection attempts,
checks claimed dates against the instructor's calendar before any save,
refuses to answer about events the calendar does not list, and keeps an
audit log of every rejected or flagged request.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(debug)
		if err != nil {
			return err
		}
		zlog = logger
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zlog.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "Path to policy YAML file (default: ~/.remindshield/policy.yaml)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to audit mirror file (default: ~/.remindshield/audit.jsonl)")
	rootCmd.PersistentFlags().BoolVar(&noLog, "no-log", false, "Keep the audit log in memory only")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}
