package cmd

import (
	"fmt"

	"github.com/bnema/ds-tutor-cli/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dst",
		Short:         "Data science tutor (dst): a terminal chat assistant for data science questions",
		Long:          "dst is a conversational data science tutor. It answers data science questions only, remembers earlier turns of the current chat and can save transcripts for later reading.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.flags.configFile, "config", "", "Config file (default ~/.config/dstutor/config.toml)")
	flags.StringVar(&app.flags.apiKey, "api-key", "", "API key for the model provider (overrides env and secret store)")
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	flags.String("provider", "", "Model provider (gemini|anthropic|openai|http)")
	flags.String("model", "", "Model name (provider default when empty)")
	flags.Float64("temperature", 0, "Sampling temperature (default 0.7)")
	flags.String("base-url", "", "Override the provider API base URL")

	if err := bindModelFlags(app.viper, flags); err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations[skipSetupAnnotation] == "true" {
			return nil
		}
		return app.setup(cmd)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(app),
		newAskCmd(app),
		newAuthCmd(app),
		newTranscriptCmd(app),
	)

	return rootCmd
}

// bindModelFlags lets the model flags override config file and environment.
func bindModelFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		config.KeyProvider:    "provider",
		config.KeyModel:       "model",
		config.KeyTemperature: "temperature",
		config.KeyBaseURL:     "base-url",
	}

	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	return nil
}
