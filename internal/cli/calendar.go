package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gzhole/remindshield/internal/calendar"
	"github.com/gzhole/remindshield/internal/guardian"
	"github.com/gzhole/remindshield/internal/taxonomy"
)

var patternsCompliance bool

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the instructor's calendar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		compiled, _, err := loadPolicy(cfg)
		if err != nil {
			return err
		}
		writeCalendar(cmd.OutOrStdout(), compiled.Calendar.Entries())
		return nil
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show the monitored threat rules in evaluation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		compiled, _, err := loadPolicy(cfg)
		if err != nil {
			return err
		}
		if patternsCompliance {
			return writeCompliance(cmd.OutOrStdout(), taxonomy.Default())
		}
		writePatterns(cmd.OutOrStdout(), compiled.Detector.Rules())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	patternsCmd.Flags().BoolVar(&patternsCompliance, "compliance", false, "Show the OWASP LLM Top 10 coverage instead")
	rootCmd.AddCommand(patternsCmd)
}

func writeCalendar(w io.Writer, entries []calendar.Entry) {
	fmt.Fprintln(w, "📅 Instructor's Calendar")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "  %-24s %s\n", e.Event, e.Date)
	}
}

func writePatterns(w io.Writer, rules []guardian.Rule) {
	fmt.Fprintln(w, "🔍 Monitored Patterns")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if len(rules) == 0 {
		fmt.Fprintln(w, "  (none: every request is allowed)")
		return
	}
	cat := taxonomy.Default()
	for _, r := range rules {
		fmt.Fprintf(w, "  %-20s %-16s %-12s %s\n", r.ID(), r.Category(), cat.Refs(r.Category()), r.Describe())
	}
}

func writeCompliance(w io.Writer, cat *taxonomy.Catalog) error {
	idx, err := cat.BuildComplianceIndex(taxonomy.OWASPLLM)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%s)\n", idx.Standard.Name, idx.Standard.Version)
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, item := range idx.Standard.Items {
		covered := idx.Mappings[item.ID]
		if len(covered) == 0 {
			fmt.Fprintf(w, "  ⬚  %s %s\n", item.ID, item.Name)
			continue
		}
		fmt.Fprintf(w, "  ✅ %s %s: %s\n", item.ID, item.Name, strings.Join(covered, ", "))
	}
	return nil
}
