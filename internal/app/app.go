package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/TWRT/teamwork-tasks/internal/client"
	"github.com/TWRT/teamwork-tasks/internal/client/smtp"
	"github.com/TWRT/teamwork-tasks/internal/config"
	"github.com/TWRT/teamwork-tasks/internal/service"
)

// App holds the wired registry and notifier shared by the shell and the
// HTTP API.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Registry *service.TaskRegistry
	Notifier *service.Notifier

	closeStore func() error
}

// New opens the store, loads the registry and the mail credentials.
// transport may be nil, in which case SMTP from the config is used.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, transport client.MailTransport) (*App, error) {
	store, closeStore, err := OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	registry, err := service.NewTaskRegistry(ctx, store, logger.With().Str("component", "registry").Logger())
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	creds, err := config.LoadOrCreateMail(cfg.Mail.CredentialsPath)
	if err != nil {
		logger.Error().
			Err(err).
			Str("path", cfg.Mail.CredentialsPath).
			Msg("failed to load mail config")
		_ = closeStore()
		return nil, err
	}
	if !creds.Configured() {
		logger.Warn().
			Str("path", cfg.Mail.CredentialsPath).
			Msg("email configuration is not set up")
	}

	if transport == nil {
		transport = smtp.NewSMTPClient(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.Timeout)
	}
	notifier := service.NewNotifier(
		registry,
		transport,
		service.NotifierConfig{
			Credentials: client.Credentials{
				Address: creds.Email.SenderEmail,
				Secret:  creds.Email.SenderPassword,
			},
			WindowDays: cfg.Reminder.WindowDays,
		},
		logger.With().Str("component", "notifier").Logger(),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Registry:   registry,
		Notifier:   notifier,
		closeStore: closeStore,
	}, nil
}

// ConfigureEmail persists new sender credentials and hands them to the
// notifier.
func (a *App) ConfigureEmail(address, secret string) error {
	creds := config.MailCredentials{Email: config.SenderSection{
		SenderEmail:    address,
		SenderPassword: secret,
	}}
	if err := config.SaveMail(a.Config.Mail.CredentialsPath, creds); err != nil {
		a.Logger.Error().
			Err(err).
			Msg("failed to save mail config")
		return err
	}
	a.Notifier.SetCredentials(client.Credentials{Address: address, Secret: secret})
	return nil
}

func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	err := a.closeStore()
	a.closeStore = nil
	if err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
