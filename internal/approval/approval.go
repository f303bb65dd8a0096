// Package approval is the human confirmation gate in front of a save. The
// pipeline only ever proposes a save; nothing is considered saved until a
// person answers yes here.
package approval

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Result struct {
	Approved   bool
	UserAction string
}

type Prompt struct {
	Event    string
	Date     string
	Verified bool
	// Message is the pipeline's confirmation request, shown verbatim.
	Message string
}

// Prompter asks for confirmation on In and writes the prompt to Out.
type Prompter struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
}

func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// NewTerminalPrompter reads stdin and writes stderr. It denies without
// asking when stdin is not a terminal.
func NewTerminalPrompter() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr, Interactive: IsInteractive()}
}

func (p *Prompter) Ask(pr Prompt) Result {
	if !p.Interactive {
		return Result{
			Approved:   false,
			UserAction: "auto_deny_non_interactive",
		}
	}

	fmt.Fprintln(p.Out, "")
	fmt.Fprintln(p.Out, "╔══════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(p.Out, "║              ⚠️  CONFIRMATION REQUIRED                        ║")
	fmt.Fprintln(p.Out, "╚══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(p.Out, "")
	fmt.Fprintln(p.Out, pr.Message)
	fmt.Fprintln(p.Out, "")
	fmt.Fprintf(p.Out, "Event: %s\n", pr.Event)
	fmt.Fprintf(p.Out, "Date:  %s\n", pr.Date)
	if !pr.Verified {
		fmt.Fprintln(p.Out, "Note:  this date is NOT on the instructor's calendar.")
	}
	fmt.Fprintln(p.Out, "")

	reader := bufio.NewReader(p.In)

	for {
		fmt.Fprint(p.Out, "Save this reminder? [y/n]: ")
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			return Result{
				Approved:   false,
				UserAction: "error_reading_input",
			}
		}

		switch strings.TrimSpace(strings.ToLower(input)) {
		case "y", "yes", "s", "save":
			return Result{
				Approved:   true,
				UserAction: "confirm_save",
			}
		case "n", "no", "c", "cancel":
			return Result{
				Approved:   false,
				UserAction: "cancel",
			}
		default:
			if err != nil {
				return Result{Approved: false, UserAction: "error_reading_input"}
			}
			fmt.Fprintln(p.Out, "Invalid input. Please enter 'y' to save or 'n' to cancel.")
		}
	}
}
