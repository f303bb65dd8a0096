package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gzhole/remindshield/internal/approval"
	"github.com/gzhole/remindshield/internal/calendar"
	"github.com/gzhole/remindshield/internal/intent"
	"github.com/gzhole/remindshield/internal/pipeline"
)

var (
	askEvent string
	askDate  string
	askYes   bool
)

// newPrompter is replaced in tests.
var newPrompter = func(cmd *cobra.Command) *approval.Prompter {
	p := approval.NewTerminalPrompter()
	p.Out = cmd.ErrOrStderr()
	return p
}

var askCmd = &cobra.Command{
	Use:   "ask <request text>",
	Short: "Send one request through the guardrails",
	Long: `Run a single request through threat detection, intent classification and
calendar verification, and print the assistant's reply.

A save request always asks for confirmation before it counts as saved.
Without a terminal the confirmation is denied unless --yes is given.

Examples:
  remindshield ask "Where's my exam?"
  remindshield ask --event "Math test" --date 2025-06-27 "Save Math test"`,
	Args: cobra.ArbitraryArgs,
	RunE: askCommand,
}

func init() {
	askCmd.Flags().StringVar(&askEvent, "event", "", "Event name the request refers to")
	askCmd.Flags().StringVar(&askDate, "date", "", "Claimed date (YYYY-MM-DD)")
	askCmd.Flags().BoolVar(&askYes, "yes", false, "Confirm a save without prompting")
	rootCmd.AddCommand(askCmd)
}

func askCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(out, pipeline.EmptyInputMessage)
		return nil
	}

	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	res := s.handler.Handle(text, askEvent, askDate)
	printOutcome(out, res)

	if res.Intent == intent.Save {
		ask := newPrompter(cmd).Ask
		if askYes {
			ask = func(approval.Prompt) approval.Result {
				return approval.Result{Approved: true, UserAction: "confirm_flag"}
			}
		}
		confirmSave(out, s.handler, askEvent, askDate, res, ask)
	}
	return nil
}

// confirmSave runs the human gate after a save proposal. Nothing is
// persisted either way; the answer is reported and logged.
func confirmSave(out io.Writer, h *pipeline.Handler, event, date string, res pipeline.Outcome, ask func(approval.Prompt) approval.Result) {
	verified := h.Verify(event, date) == calendar.Matched

	result := ask(approval.Prompt{
		Event:    event,
		Date:     date,
		Verified: verified,
		Message:  res.Message,
	})

	zlog.Info("save confirmation",
		zap.String("event", event),
		zap.String("date", date),
		zap.Bool("verified", verified),
		zap.Bool("approved", result.Approved),
		zap.String("action", result.UserAction))

	if result.Approved {
		fmt.Fprintf(out, "📝 Confirmed: reminder for %s on %s.\n", event, date)
		return
	}
	fmt.Fprintln(out, "Not saved.")
}

func printOutcome(w io.Writer, res pipeline.Outcome) {
	fmt.Fprintln(w, res.Message)
	if debug && len(res.Signals) > 0 {
		ids := make([]string, len(res.Signals))
		for i, sig := range res.Signals {
			ids[i] = sig.RuleID
		}
		fmt.Fprintf(w, "   rules: %s\n", strings.Join(ids, ", "))
	}
}
