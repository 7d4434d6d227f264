package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored API key",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app), newAuthStatusCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the API key in the secret store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.redactor.AddSecret(value)
			if err := app.credentials.Save(cmd.Context(), value); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "API key stored under %s\n", app.credentials.Key())
			return err
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "API key to store")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the stored API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.credentials.Forget(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "API key removed")
			return err
		},
	}
}

func newAuthStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the API key would be read from",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			cred, source, err := app.credentials.Resolve(cmd.Context(), app.flags.apiKey)
			if errors.Is(err, domain.ErrCredentialMissing) {
				_, err = fmt.Fprintln(out, "API key: not configured")
				return err
			}
			if err != nil {
				return err
			}

			app.redactor.AddSecret(cred.Reveal())
			_, err = fmt.Fprintf(out, "API key: configured (source: %s)\n", source)
			return err
		},
	}
}
