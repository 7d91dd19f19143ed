// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// ask.go - Single question command handler.
//
// Command: sugarai ask "question"
// Short:   Ask Sugar-AI one question and print the answer
//
// Examples:
//   sugarai ask "How do I share a Sugar activity?"
//   sugarai ask --no-rag "Write a haiku about turtles"
//   cat traceback.txt | sugarai ask
//   sugarai ask --json "What is Pippy?"
//
// Flags:
//   --no-rag        Answer without document retrieval
//   --mode rag|llm  Select the answer mode explicitly
//   --json          Emit a JSON envelope instead of rendered text
//
// The answer goes to stdout; progress notices go to stderr so piped
// output stays clean. Retries and failure messages come from the same
// orchestrator the TUI uses, so both frontends behave identically.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/sugarlabs/sugarai-tui/internal/ask"
	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/model"
	"github.com/sugarlabs/sugarai-tui/internal/sugarai"
)

// markdownRenderer renders answers for interactive terminals.
// nil when initialization fails; renderMarkdown then passes text through.
var markdownRenderer *glamour.TermRenderer

func init() {
	width := GetTerminalWidth()
	if width > 100 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		markdownRenderer = renderer
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the content unchanged if rendering is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// newServiceClient builds a Sugar-AI client from the active configuration.
func newServiceClient(cfg *config.Config) *sugarai.Client {
	return sugarai.NewClient(cfg.APIKey).
		WithBaseURL(cfg.Service.BaseURL).
		WithTimeout(time.Duration(cfg.Service.TimeoutSecs) * time.Second)
}

// resolveAskMode picks the answer mode from flags and configuration.
// Precedence: --no-rag, then --mode, then the configured default.
func resolveAskMode(args Args, cfg *config.Config) (model.AskMode, error) {
	if args.NoRAG {
		return model.ModeFor(false), nil
	}

	name := args.Mode
	if name == "" {
		name = cfg.Service.DefaultMode
	}
	if name == "" {
		return model.DefaultMode(), nil
	}

	mode, ok := model.GetMode(name)
	if !ok {
		return model.AskMode{}, NewValidationErrorWithExample(
			"mode", name, "unknown answer mode", "rag or llm")
	}
	return mode, nil
}

// =============================================================================
// NOTIFIER
// =============================================================================

// askNotifier adapts the orchestrator's notifications to a one-shot
// CLI run. Progress notices go to stderr as they arrive; the terminal
// outcome is collected for the handler to print after done closes.
type askNotifier struct {
	quiet bool

	answer         string
	errMsg         string
	quotaRemaining string
	quotaTotal     string

	done chan struct{}
}

func newAskNotifier(quiet bool) *askNotifier {
	n := &askNotifier{quiet: quiet}
	n.arm()
	return n
}

// arm resets the collected outcome and the done channel for the next
// submission. The chat REPL reuses one notifier across questions; the
// previous orchestration has always finished before arm runs, because
// the caller blocked on done.
func (n *askNotifier) arm() {
	n.answer = ""
	n.errMsg = ""
	n.quotaRemaining = ""
	n.quotaTotal = ""
	n.done = make(chan struct{})
}

func (n *askNotifier) OnWaiting(message string)  { n.notice(message) }
func (n *askNotifier) OnRetrying(message string) { n.notice(message) }

func (n *askNotifier) OnQuota(remaining, total string) {
	n.quotaRemaining = remaining
	n.quotaTotal = total
}

func (n *askNotifier) OnAnswer(text string)   { n.answer = text }
func (n *askNotifier) OnError(message string) { n.errMsg = message }

// OnInputReenabled is the orchestration's final notification; closing
// done releases HandleAskCommand.
func (n *askNotifier) OnInputReenabled() { close(n.done) }

func (n *askNotifier) notice(message string) {
	if n.quiet {
		return
	}
	stderrNotice(message)
}

// stderrNotice prints a progress notice, styled when stderr is a terminal.
func stderrNotice(message string) {
	if IsStderrTTY() {
		fmt.Fprintf(os.Stderr, "%s %s\n", DimStyle.Render("[*]"), message)
		return
	}
	fmt.Fprintln(os.Stderr, message)
}

// =============================================================================
// HANDLER
// =============================================================================

// HandleAskCommand asks one question and prints the answer.
func HandleAskCommand(args Args) error {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		question = readStdinQuestion()
	}
	if question == "" {
		err := ErrMissingArgument("question", `sugarai ask "How do I install an activity?"`)
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
		}
		return err
	}

	cfg := config.Global()

	mode, err := resolveAskMode(args, cfg)
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
		}
		return err
	}

	client := newServiceClient(cfg)
	if !client.IsConfigured() {
		err := fmt.Errorf("%w. Run 'sugarai setup' to create your configuration", ask.ErrMissingAPIKey)
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
		}
		return err
	}

	notifier := newAskNotifier(args.Quiet)
	orch := ask.New(client, notifier)

	if !args.Quiet {
		stderrNotice(ask.ThinkingNotice)
	}

	start := time.Now()
	if err := orch.Submit(question, mode.UseRAG); err != nil {
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
		}
		return err
	}

	// The orchestration runs to a terminal outcome on its own
	// goroutine; OnInputReenabled closes done, exactly once.
	<-notifier.done
	duration := time.Since(start)

	if notifier.errMsg != "" {
		err := errors.New(notifier.errMsg)
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
		}
		return err
	}

	if args.JSON {
		data := AskData{
			Question:       question,
			Answer:         notifier.answer,
			Mode:           mode.ID,
			QuotaRemaining: notifier.quotaRemaining,
			QuotaTotal:     notifier.quotaTotal,
			DurationMs:     duration.Milliseconds(),
		}
		return NewJSONResponse("ask", data).Print()
	}

	displayAnswer(notifier.answer)

	if !args.Quiet && notifier.quotaRemaining != "" {
		stderrNotice(ask.QuotaNotice(notifier.quotaRemaining, notifier.quotaTotal))
	}
	return nil
}

// displayAnswer renders markdown when stdout is a terminal and prints
// plain text when piped so the output stays script-friendly.
func displayAnswer(answer string) {
	switch {
	case !IsStdoutTTY():
		fmt.Print(answer)
	case markdownRenderer != nil:
		fmt.Print(renderMarkdown(answer))
	default:
		// No renderer; wrap by hand so long answers stay readable.
		fmt.Print(WrapText(answer, GetTerminalWidth()))
	}
	if !strings.HasSuffix(answer, "\n") {
		fmt.Println()
	}
}

// readStdinQuestion reads a piped question from stdin.
// Returns "" when stdin is an interactive terminal.
func readStdinQuestion() string {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return ""
	}
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
