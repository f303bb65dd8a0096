package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show RemindShield status: policy, packs, audit mirror",
	Long: `Check which policy file is in effect, whether it compiles, which packs
are enabled and where security events are mirrored.

  remindshield status`,
	Args: cobra.NoArgs,
	RunE: statusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(out, "  RemindShield Status")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	binPath, err := os.Executable()
	if err != nil {
		binPath = "unknown"
	}
	fmt.Fprintf(out, "  Binary:    %s (%s)\n", binPath, Version)
	fmt.Fprintf(out, "  Config:    %s\n", cfg.ConfigDir)
	fmt.Fprintf(out, "  Debug:     %t\n", cfg.Debug)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "─── Policy ────────────────────────────────────────────")
	checkPolicyFile(out, cfg.PolicyPath)

	compiled, packs, err := loadPolicy(cfg)
	if err != nil {
		fmt.Fprintf(out, "  ❌ Policy does not compile: %v\n", err)
	} else {
		fmt.Fprintf(out, "  ✅ %d threat rules, %d calendar entries, %d intent rules\n",
			len(compiled.Detector.Rules()), compiled.Calendar.Len(), len(compiled.Classifier.Rules()))
		if len(packs) > 0 {
			enabled := 0
			for _, info := range packs {
				if info.Enabled && info.Err == nil {
					enabled++
				}
			}
			fmt.Fprintf(out, "  ✅ Pattern packs: %d installed, %d enabled\n", len(packs), enabled)
		} else {
			fmt.Fprintln(out, "  ⬚  No pattern packs installed")
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "─── Audit Mirror ──────────────────────────────────────")
	checkAuditLog(out, cfg.LogPath)
	fmt.Fprintln(out)

	return nil
}

func checkPolicyFile(w io.Writer, path string) {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  ✅ Policy file: %s\n", path)
	} else {
		fmt.Fprintln(w, "  ⬚  Policy file: using built-in defaults (no custom file)")
	}
}

func checkAuditLog(w io.Writer, path string) {
	if path == "" {
		fmt.Fprintln(w, "  ⬚  Mirroring disabled (--no-log)")
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(w, "  ⬚  %s (not yet created, will start on first event)\n", path)
		return
	}

	sizeKB := info.Size() / 1024
	if sizeKB == 0 {
		fmt.Fprintf(w, "  ✅ %s (<1 KB)\n", path)
	} else {
		fmt.Fprintf(w, "  ✅ %s (%d KB)\n", path, sizeKB)
	}
}
