package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/bnema/ds-tutor-cli/internal/adapters/generator"
	"github.com/bnema/ds-tutor-cli/internal/adapters/logging"
	chatrender "github.com/bnema/ds-tutor-cli/internal/adapters/render/chat"
	tomlrepo "github.com/bnema/ds-tutor-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/ds-tutor-cli/internal/adapters/secrets/chain"
	"github.com/bnema/ds-tutor-cli/internal/application"
	"github.com/bnema/ds-tutor-cli/internal/config"
	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/bnema/ds-tutor-cli/internal/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	skipSetupAnnotation = "dst/skip-setup"
	apiKeyRequiredText  = "Please enter your API key to continue."
)

type globalFlags struct {
	configFile string
	apiKey     string
	verbose    bool
}

type app struct {
	viper        *viper.Viper
	flags        globalFlags
	clock        ports.Clock
	newGenerator application.GeneratorFactory
	promptAPIKey func(*cobra.Command) (string, error)

	cfg         config.Config
	logger      *slog.Logger
	redactor    *logging.Redactor
	credentials *application.CredentialService
	transcripts *application.TranscriptService
	renderer    *chatrender.Renderer
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	return &app{
		viper:        config.NewViper(homeDir),
		clock:        ports.SystemClock{},
		newGenerator: generator.NewFactory(http.DefaultClient),
		promptAPIKey: promptAPIKey,
		renderer:     chatrender.NewRenderer(chatrender.DefaultWidth),
	}, nil
}

// setup loads configuration and builds the services every command shares.
func (a *app) setup(cmd *cobra.Command) error {
	if a.flags.configFile != "" {
		a.viper.SetConfigFile(a.flags.configFile)
	}

	cfg, err := config.Load(a.viper)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logOpts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if a.flags.verbose {
		logOpts.Level = slog.LevelDebug.String()
	}
	logger, redactor, err := logging.New(cmd.ErrOrStderr(), logOpts)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	a.logger = logger
	a.redactor = redactor
	a.redactor.AddSecret(a.flags.apiKey)
	a.redactor.AddSecret(cfg.Credential.APIKey)

	secretStore, err := chainstore.NewPassWithFileFallback(cfg.Secrets.Dir)
	if err != nil {
		return fmt.Errorf("wire secret store chain: %w", err)
	}
	a.credentials = application.NewCredentialService(secretStore, cfg.Credential.Key, func() string {
		return cfg.Credential.APIKey
	})

	repo, err := tomlrepo.NewRepository(a.viper, logger)
	if err != nil {
		return fmt.Errorf("wire transcript repository: %w", err)
	}
	a.transcripts = application.NewTranscriptService(repo, a.clock)

	return nil
}

// startTutor resolves the credential and opens a new session. With
// interactive set, a missing credential is asked for on the terminal.
func (a *app) startTutor(cmd *cobra.Command, interactive bool) (*application.TutorService, error) {
	ctx := cmd.Context()

	cred, source, err := a.credentials.Resolve(ctx, a.flags.apiKey)
	if err != nil {
		if !errors.Is(err, domain.ErrCredentialMissing) || !interactive {
			return nil, fmt.Errorf("%w (run `dst auth set --value KEY` or set DSTUTOR_API_KEY)", err)
		}

		raw, promptErr := a.promptAPIKey(cmd)
		if promptErr != nil {
			return nil, promptErr
		}
		cred = domain.NewCredential(raw)
		if cred.IsZero() {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), a.renderer.Notice(apiKeyRequiredText))
			return nil, domain.ErrCredentialMissing
		}
		source = "prompt"
	}

	a.redactor.AddSecret(cred.Reveal())
	a.logger.Debug("credential resolved", slog.String("source", string(source)))

	genCfg := a.cfg.Generation()
	if genCfg.Model == "" {
		genCfg.Model = generator.DefaultModel(genCfg.Provider)
	}

	tutor, err := application.StartSession(ctx, a.newGenerator, cred, genCfg, application.SessionOptions{
		DisplayWindow: a.cfg.History.Window,
		SummaryWidth:  a.cfg.History.SummaryWidth,
	}, a.clock, a.logger)
	if err != nil {
		return nil, fmt.Errorf("invalid api key or model initialization failed: %w", err)
	}

	return tutor, nil
}

// scrub removes any loaded secret from text shown to the user.
func (a *app) scrub(text string) string {
	if a.redactor == nil {
		return text
	}
	return a.redactor.Scrub(text)
}
