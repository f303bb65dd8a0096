package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gzhole/remindshield/internal/approval"
	"github.com/gzhole/remindshield/internal/audit"
	"github.com/gzhole/remindshield/internal/intent"
	"github.com/gzhole/remindshield/internal/pipeline"
	"github.com/gzhole/remindshield/internal/redact"
)

const shellHelp = `Type a request and press Enter. Commands:
  :event [name]   set the event hint (no name clears it)
  :date [date]    set the date hint (no date clears it)
  :log [n]        show the last n security events (default 5)
  :clear          clear the session audit log
  :export [dir]   write the full audit log as JSON
  :calendar       show the instructor's calendar
  :patterns       show the monitored threat rules
  :help           show this help
  :quit           exit`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session with a live audit log",
	Long: `Start an interactive session. Every request goes through the guardrails;
security events accumulate in the session log, which you can inspect,
clear or export without leaving the shell.`,
	Args: cobra.NoArgs,
	RunE: shellCommand,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

type shellState struct {
	s      *session
	out    io.Writer
	in     *bufio.Reader
	event  string
	date   string
	now    func() time.Time
	prompt *approval.Prompter
}

func shellCommand(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	in := bufio.NewReader(cmd.InOrStdin())
	st := &shellState{
		s:   s,
		out: cmd.OutOrStdout(),
		in:  in,
		now: time.Now,
		// Answers come from the same stream as requests.
		prompt: &approval.Prompter{In: in, Out: cmd.OutOrStdout(), Interactive: true},
	}

	fmt.Fprintln(st.out, "RemindShield interactive session. Type :help for commands.")
	for {
		fmt.Fprint(st.out, "> ")
		line, err := in.ReadString('\n')
		if line == "" && err != nil {
			if err == io.EOF {
				fmt.Fprintln(st.out)
				return nil
			}
			return err
		}
		if quit := st.dispatch(strings.TrimRight(line, "\r\n")); quit {
			return nil
		}
	}
}

// dispatch handles one line and reports whether the shell should exit.
func (st *shellState) dispatch(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		st.request(line)
		return false
	}

	name, arg, _ := strings.Cut(trimmed[1:], " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "exit", "q":
		return true
	case "help", "h":
		fmt.Fprintln(st.out, shellHelp)
	case "event":
		st.event = arg
		fmt.Fprintf(st.out, "event = %q\n", st.event)
	case "date":
		st.date = arg
		fmt.Fprintf(st.out, "date = %q\n", st.date)
	case "log":
		n := 5
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 0 {
				fmt.Fprintln(st.out, "usage: :log [n]")
				return false
			}
			n = v
		}
		writeRecentEvents(st.out, st.s.handler.AuditRecent(n))
	case "clear":
		st.s.handler.AuditClear()
		fmt.Fprintln(st.out, "Security log cleared.")
	case "export":
		path, err := exportAuditLog(st.s.log, arg, st.now())
		if err != nil {
			fmt.Fprintf(st.out, "export failed: %v\n", err)
			return false
		}
		fmt.Fprintf(st.out, "Exported %d events to %s\n", st.s.log.Len(), path)
	case "calendar":
		writeCalendar(st.out, st.s.handler.Calendar().Entries())
	case "patterns":
		writePatterns(st.out, st.s.handler.Rules())
	default:
		fmt.Fprintf(st.out, "unknown command :%s (try :help)\n", name)
	}
	return false
}

func (st *shellState) request(text string) {
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(st.out, pipeline.EmptyInputMessage)
		return
	}

	res := st.s.handler.Handle(text, st.event, st.date)
	printOutcome(st.out, res)
	if res.Intent != intent.Save {
		return
	}

	confirmSave(st.out, st.s.handler, st.event, st.date, res, st.prompt.Ask)
}

func writeRecentEvents(w io.Writer, events []audit.SecurityEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No security events yet.")
		return
	}
	for _, e := range events {
		icon := "🛑"
		if e.Kind == audit.HallucinationPreventionTriggered {
			icon = "🔍"
		}
		fmt.Fprintf(w, "%s %s  %s\n", icon, e.Kind, e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "     %s\n", redact.Preview(e.Input))
	}
}

// exportAuditLog writes the full log to dir (default: working directory)
// under the standard export file name.
func exportAuditLog(log *audit.Log, dir string, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, audit.ExportFileName(now))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return "", err
	}
	if err := log.WriteJSON(f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}
