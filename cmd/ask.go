package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/ds-tutor-cli/internal/application"
	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/spf13/cobra"
)

type askMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type askExchange struct {
	Human string `json:"human"`
	AI    string `json:"ai"`
}

type askOutput struct {
	SessionID string        `json:"session_id"`
	Provider  string        `json:"provider"`
	Model     string        `json:"model"`
	Messages  []askMessage  `json:"messages"`
	Memory    []askExchange `json:"memory"`
	History   []string      `json:"history"`
}

func newAskCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask QUESTION [QUESTION...]",
		Short: "Ask one or more questions in a single session",
		Long:  "Ask one or more questions in a single session. Each argument is a separate turn, so later questions can refer to earlier answers.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tutor, err := app.startTutor(cmd, false)
			if err != nil {
				return err
			}

			for _, question := range args {
				if err := askOne(cmd, app, tutor, question, asJSON); err != nil {
					return err
				}
			}

			if asJSON {
				return writeAskJSON(cmd, tutor)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON instead of rendered messages")

	return cmd
}

func askOne(cmd *cobra.Command, app *app, tutor *application.TutorService, question string, quiet bool) error {
	var reply string
	process := func(ctx context.Context) error {
		answer, err := tutor.Process(ctx, question)
		reply = answer
		return err
	}

	var err error
	if quiet {
		err = process(cmd.Context())
	} else {
		err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), thinkingLabel, process)
	}
	if err != nil {
		return fmt.Errorf("ask %q: %w", question, err)
	}
	if quiet {
		return nil
	}

	out := cmd.OutOrStdout()
	if err := writeLine(out, app.renderer.Message(domain.Message{Role: domain.RoleUser, Content: question})); err != nil {
		return err
	}
	return writeLine(out, app.renderer.Message(domain.Message{Role: domain.RoleAssistant, Content: reply}))
}

func writeAskJSON(cmd *cobra.Command, tutor *application.TutorService) error {
	store := tutor.Store()
	cfg := tutor.Config()

	messages := store.Messages()
	memory := store.ReadMemory()
	output := askOutput{
		SessionID: store.ID(),
		Provider:  string(cfg.Provider),
		Model:     cfg.Model,
		Messages:  make([]askMessage, 0, len(messages)),
		Memory:    make([]askExchange, 0, len(memory)),
		History:   store.DisplayWindow(),
	}
	for _, msg := range messages {
		output.Messages = append(output.Messages, askMessage{Role: string(msg.Role), Content: msg.Content})
	}

	for _, exchange := range memory {
		output.Memory = append(output.Memory, askExchange{Human: exchange.Human, AI: exchange.AI})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
