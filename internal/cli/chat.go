// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/companion/internal/config"
	"github.com/jeranaias/companion/internal/model"
	"github.com/jeranaias/companion/internal/orchestrator"
	"github.com/jeranaias/companion/internal/ui/chat"
	"github.com/jeranaias/companion/internal/ui/render"
)

// =============================================================================
// TUI COMMAND
// =============================================================================

func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Full-screen terminal chat (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	a, err := loadApp(opts, loadOptions{mode: loadModel, quietLogs: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := RequiresTTY("start the chat UI"); err != nil {
		return err
	}

	return chat.Run(cmd.Context(), a.newSession(nil), chat.Options{
		Title:       a.cfg.UI.Title,
		Suggestions: a.cfg.UI.Suggestions,
		Theme:       a.cfg.UI.Theme,
	})
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

func newChatCommand(opts *rootOptions) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Line-based chat with input history",
		Long: `Start a line-based chat session.

Type a message and press enter. Commands:
  /suggest [N]   list suggestions or send suggestion N
  /summary       summarize the conversation
  /fact          tell a fun fact
  /clear         clear the conversation
  /help          show commands
  /quit          exit (also Ctrl+D)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print replies as plain text instead of rendered markdown")
	return cmd
}

func runChat(cmd *cobra.Command, opts *rootOptions, raw bool) error {
	a, err := loadApp(opts, loadOptions{mode: loadModel})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	repl := &chatREPL{
		suggestions: a.cfg.UI.Suggestions,
		out:         out,
		width:       GetTerminalWidth(),
	}
	if !raw && IsStdoutTTY() {
		repl.md = render.NewMarkdown(a.cfg.UI.Theme)
	}
	repl.sess = a.newSession(repl.showFrame)

	input := newChatInput()
	defer input.Close()

	fmt.Fprintln(out, TitleStyle.Render(a.cfg.UI.Title))
	fmt.Fprintln(out, DimStyle.Render("Type a message, /help for commands, /quit to exit."))
	repl.listSuggestions()

	ctx := cmd.Context()
	for {
		line, err := input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D or a closed stdin.
			fmt.Fprintln(out)
			return nil
		}

		// Ctrl+C while a request is in flight cancels only that request.
		reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		quit := repl.handle(reqCtx, line)
		stop()
		if quit || ctx.Err() != nil {
			return nil
		}
	}
}

// =============================================================================
// REPL
// =============================================================================

// chatREPL executes chat input against one conversation.
type chatREPL struct {
	sess        *orchestrator.Session
	suggestions []string
	out         io.Writer
	// md renders replies; nil prints them as-is.
	md    *render.Markdown
	width int

	frameShown bool
}

// handle executes one line of input. It returns true when the user asked to
// quit.
func (r *chatREPL) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !strings.HasPrefix(line, "/") {
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return true
		}
		r.submit(ctx, line)
		return false
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(name) {
	case "/quit", "/q", "/exit":
		return true
	case "/help", "/h", "/?":
		r.help()
	case "/clear", "/c":
		r.sess.Reset()
		fmt.Fprintln(r.out, DimStyle.Render("🔄 Conversation cleared."))
	case "/summary":
		text := r.sess.Summarize(ctx)
		r.clearFrame()
		fmt.Fprintln(r.out, summaryStyle.Render("📚 Chat Summary:"))
		r.printReply(text)
	case "/fact":
		text := r.sess.RandomFact(ctx)
		r.clearFrame()
		fmt.Fprint(r.out, factStyle.Render("🎉 "))
		r.printReply(text)
	case "/suggest", "/s":
		if arg == "" {
			r.listSuggestions()
			return false
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(r.suggestions) {
			fmt.Fprintf(r.out, "%s pick a suggestion between 1 and %d\n", errorStyle.Render("[Error]"), len(r.suggestions))
			return false
		}
		prompt := r.suggestions[n-1]
		fmt.Fprintln(r.out, userStyle.Render("🧑‍💻 "+prompt))
		r.submit(ctx, prompt)
	default:
		fmt.Fprintf(r.out, "%s unknown command %s (try /help)\n", errorStyle.Render("[Error]"), name)
	}
	return false
}

func (r *chatREPL) submit(ctx context.Context, utterance string) {
	r.sess.Submit(ctx, utterance)
	r.clearFrame()

	msgs := r.sess.Transcript()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	if last.Role != model.RoleAssistant {
		return
	}
	fmt.Fprint(r.out, assistantStyle.Render(last.Role.Icon()+" "))
	r.printReply(last.Content)
}

func (r *chatREPL) printReply(text string) {
	if strings.HasPrefix(text, model.ErrorPrefix) {
		fmt.Fprintln(r.out, errorStyle.Render(text))
		return
	}
	if r.md != nil {
		fmt.Fprintln(r.out, strings.TrimLeft(r.md.Render(text, r.width), " \n"))
		return
	}
	fmt.Fprintln(r.out, text)
}

// showFrame draws a thinking frame over the previous one.
func (r *chatREPL) showFrame(frame string) {
	fmt.Fprint(r.out, "\r"+DimStyle.Render(frame))
	r.frameShown = true
}

func (r *chatREPL) clearFrame() {
	if r.frameShown {
		fmt.Fprint(r.out, "\r\033[K")
		r.frameShown = false
	}
}

func (r *chatREPL) listSuggestions() {
	if len(r.suggestions) == 0 {
		return
	}
	fmt.Fprintln(r.out, SectionStyle.Render("💡 Quick Suggestions:"))
	for i, s := range r.suggestions {
		fmt.Fprintf(r.out, "  %s %s\n", commandStyle.Render(fmt.Sprintf("/suggest %d", i+1)), s)
	}
}

func (r *chatREPL) help() {
	cmds := []struct{ name, desc string }{
		{"/suggest [N]", "list suggestions or send suggestion N"},
		{"/summary", "summarize the conversation"},
		{"/fact", "tell a fun fact"},
		{"/clear", "clear the conversation"},
		{"/quit", "exit"},
	}
	for _, c := range cmds {
		fmt.Fprintf(r.out, "  %s %s\n", commandStyle.Render(fmt.Sprintf("%-14s", c.name)), DimStyle.Render(c.desc))
	}
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// chatInput provides input history and line editing for interactive chat.
type chatInput struct {
	line        *liner.State
	historyFile string
}

func newChatInput() *chatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &chatInput{line: line, historyFile: filepath.Join(dir, "chat_history")}

	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

// ReadInput reads a line of input with the given prompt.
func (c *chatInput) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (c *chatInput) Close() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}
