package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/ds-tutor-cli/internal/application"
	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/spf13/cobra"
)

const (
	inputPrompt   = "> "
	maxInputBytes = 1 << 20
)

func newChatCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive tutoring session",
		Long:  "Start an interactive tutoring session. Type a question and press Enter; type /help for the session commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tutor, err := app.startTutor(cmd, true)
			if err != nil {
				return err
			}

			return runChat(cmd, app, tutor)
		},
	}
}

func runChat(cmd *cobra.Command, app *app, tutor *application.TutorService) error {
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, app.renderer.Banner(tutor.Config())); err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputBytes)

	for {
		if _, err := fmt.Fprint(out, inputPrompt); err != nil {
			return err
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := runChatCommand(cmd, app, tutor, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			continue
		}

		if err := runChatTurn(cmd, app, tutor, line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	_, err := fmt.Fprintln(out)
	return err
}

// runChatTurn only returns an error when the session cannot continue. Failed
// turns are reported inline and leave the history untouched.
func runChatTurn(cmd *cobra.Command, app *app, tutor *application.TutorService, text string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if _, err := fmt.Fprintln(out, app.renderer.Message(domain.Message{Role: domain.RoleUser, Content: text})); err != nil {
		return err
	}

	var reply string
	err := runWithSpinner(ctx, cmd.ErrOrStderr(), thinkingLabel, func(ctx context.Context) error {
		answer, err := tutor.Process(ctx, text)
		reply = answer
		return err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		_, writeErr := fmt.Fprintln(out, app.renderer.Failure("Error: "+app.scrub(err.Error())))
		return writeErr
	}

	_, err = fmt.Fprintln(out, app.renderer.Message(domain.Message{Role: domain.RoleAssistant, Content: reply}))
	return err
}

func runChatCommand(cmd *cobra.Command, app *app, tutor *application.TutorService, line string) (bool, error) {
	out := cmd.OutOrStdout()
	name := strings.ToLower(strings.Fields(line)[0])

	switch name {
	case "/exit", "/quit":
		return true, nil
	case "/help":
		return false, writeLine(out, app.renderer.Help())
	case "/history":
		return false, writeLine(out, app.renderer.History(tutor.Store().DisplayWindow()))
	case "/clear":
		tutor.Store().Clear()
		app.logger.Debug("history cleared", "session_id", tutor.Store().ID())
		return false, writeLine(out, app.renderer.Notice("Chat history cleared."))
	case "/new":
		tutor.Store().Reset()
		app.logger.Debug("new chat", "session_id", tutor.Store().ID())
		return false, writeLine(out, app.renderer.Notice("Started a new chat."))
	case "/save":
		path, err := app.transcripts.Export(cmd.Context(), tutor)
		if errors.Is(err, domain.ErrEmptyTranscript) {
			return false, writeLine(out, app.renderer.Notice("Nothing to save yet."))
		}
		if err != nil {
			return false, writeLine(out, app.renderer.Failure("Error: "+app.scrub(err.Error())))
		}
		return false, writeLine(out, app.renderer.Notice("Transcript saved to "+path))
	default:
		return false, writeLine(out, app.renderer.Notice(fmt.Sprintf("Unknown command %s. Type /help for the list.", name)))
	}
}

func writeLine(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, text)
	return err
}
