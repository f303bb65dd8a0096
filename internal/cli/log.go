package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/gzhole/remindshield/internal/audit"
	"github.com/gzhole/remindshield/internal/logger"
	"github.com/gzhole/remindshield/internal/redact"
)

var (
	logFilterKind string
	logLast       int
	logSummary    bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the audit mirror file",
	Long: `View security events mirrored to the audit file by previous sessions.

Examples:
  remindshield log                                 # Show all entries
  remindshield log --last 20                       # Show last 20 entries
  remindshield log --kind prompt_injection         # Only rejected requests
  remindshield log --kind hallucination_prevention # Only refused lookups
  remindshield log --summary                       # Show summary stats`,
	Args: cobra.NoArgs,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().StringVar(&logFilterKind, "kind", "", "Filter by kind (prompt_injection, hallucination_prevention)")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show last N entries")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "Show summary statistics")
	rootCmd.AddCommand(logCmd)
}

func logCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.LogPath == "" {
		fmt.Fprintln(out, "Audit mirroring is disabled.")
		return nil
	}

	records, err := logger.ReadAll(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No audit log entries found.")
		return nil
	}

	filtered := records
	if logFilterKind != "" {
		kind, err := audit.ParseKind(logFilterKind)
		if err != nil {
			return err
		}
		filtered = filterRecords(records, kind)
	}

	if logLast > 0 && logLast < len(filtered) {
		filtered = filtered[len(filtered)-logLast:]
	}

	if logSummary {
		printSummary(out, filtered)
		return nil
	}

	printRecords(out, filtered)
	return nil
}

func filterRecords(records []audit.Record, kind audit.Kind) []audit.Record {
	var filtered []audit.Record
	for _, r := range records {
		if r.Issue == kind.String() {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func printRecords(w io.Writer, records []audit.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "%s %s %s\n", issueIcon(r.Issue), formatTimestamp(r.Timestamp), r.Issue)
		fmt.Fprintf(w, "     Input: %s\n", redact.Preview(r.Input))
		fmt.Fprintln(w)
	}
}

func printSummary(w io.Writer, all []audit.Record) {
	counts := map[string]int{}
	for _, r := range all {
		counts[r.Issue]++
	}

	fmt.Fprintln(w, "═══════════════════════════════════════════")
	fmt.Fprintln(w, "  RemindShield Audit Summary")
	fmt.Fprintln(w, "═══════════════════════════════════════════")
	fmt.Fprintf(w, "  Total events:             %d\n", len(all))
	fmt.Fprintf(w, "  Prompt injection:         %d\n", counts[audit.PromptInjectionDetected.String()])
	fmt.Fprintf(w, "  Hallucination prevention: %d\n", counts[audit.HallucinationPreventionTriggered.String()])
	fmt.Fprintln(w, "═══════════════════════════════════════════")

	if len(all) > 0 {
		fmt.Fprintf(w, "  First event:     %s\n", formatTimestamp(all[0].Timestamp))
		fmt.Fprintf(w, "  Last event:      %s\n", formatTimestamp(all[len(all)-1].Timestamp))
	}
	fmt.Fprintln(w)
}

func issueIcon(issue string) string {
	switch issue {
	case audit.PromptInjectionDetected.String():
		return "🛑"
	case audit.HallucinationPreventionTriggered.String():
		return "🔍"
	default:
		return "❓"
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
