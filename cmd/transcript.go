package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTranscriptCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Read saved chat transcripts",
	}

	cmd.AddCommand(newTranscriptListCmd(app), newTranscriptShowCmd(app))

	return cmd
}

func newTranscriptListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved transcripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := app.transcripts.List(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.renderer.TranscriptList(summaries))
			return err
		},
	}
}

func newTranscriptShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show SESSION_ID",
		Short: "Print a saved transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, err := app.transcripts.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.renderer.Transcript(transcript))
			return err
		},
	}
}
