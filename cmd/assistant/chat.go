package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abc-assistant/assistant/internal/chat"
	"github.com/abc-assistant/assistant/internal/language"
	"github.com/abc-assistant/assistant/internal/render"
)

// TerminalConversation is the conversation id of the terminal chat.
const TerminalConversation = "terminal"

const replHelp = `Commands:
  :lang <en|es>  switch the conversation language
  :clear         clear the conversation
  :help          show this help
  :quit          leave`

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			tr, err := a.translator(ctx)
			if err != nil {
				return err
			}
			sess := a.sessions(tr).Get(ctx, TerminalConversation)

			return runREPL(ctx, cmd.InOrStdin(), render.NewTerminal(cmd.OutOrStdout()), sess)
		},
	}
}

// replCommand splits a ":name arg" line. ok is false for a question.
func replCommand(line string) (name, arg string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		return "", "", false
	}
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return "", "", true
	}
	name = strings.ToLower(fields[0])
	if len(fields) > 1 {
		arg = fields[1]
	}
	return name, arg, true
}

// runREPL reads questions and commands from in until EOF, :quit or ctx is
// cancelled.
func runREPL(ctx context.Context, in io.Reader, term *render.Terminal, sess *chat.Session) error {
	term.Welcome(language.TextFor(sess.Language()))
	term.Notice(replHelp)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			line = l
		}

		txt := language.TextFor(sess.Language())

		if name, arg, ok := replCommand(line); ok {
			switch name {
			case "quit", "q", "exit":
				return nil
			case "clear":
				sess.Reset()
				term.Notice("Conversation cleared.")
			case "lang", "language":
				switchTerminalLanguage(ctx, term, sess, arg)
			case "help", "":
				term.Notice(replHelp)
			default:
				term.Notice(fmt.Sprintf("Unknown command :%s", name))
			}
			continue
		}

		term.Notice(txt.Processing + "...")
		turn, err := sess.Submit(ctx, line)
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			term.Notice(txt.EmptyMessage)
			continue
		case err != nil:
			term.Notice(err.Error())
			continue
		}
		term.Block(turn.Bot, txt)
	}
}

func switchTerminalLanguage(ctx context.Context, term *render.Terminal, sess *chat.Session, arg string) {
	if arg == "" {
		term.Notice(fmt.Sprintf("%s: %s", language.TextFor(sess.Language()).LanguageSelector, sess.Language().Name()))
		return
	}
	code, err := language.Parse(arg)
	if err != nil {
		term.Notice(err.Error())
		return
	}
	changed, err := sess.SetLanguage(ctx, code)
	if err != nil {
		term.Notice(err.Error())
		return
	}
	txt := language.TextFor(code)
	term.Notice(txt.LanguageChanged)
	if changed {
		term.Conversation(sess.Store().Snapshot(), txt)
	}
}
