package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/api"
	"github.com/segmentation-fault/forum/internal/api/session"
	"github.com/segmentation-fault/forum/internal/api/transport"
	"github.com/segmentation-fault/forum/internal/core/service"
	"github.com/segmentation-fault/forum/internal/infrastructure/credentials"
	"github.com/segmentation-fault/forum/internal/pkg/config"
	"github.com/segmentation-fault/forum/pkg/logger"
)

// app is built once per invocation by the root command.
type app struct {
	cfg      *config.ClientConfig
	log      zerolog.Logger
	out      io.Writer
	client   *api.Client
	sessions *service.SessionService
	votes    *service.VoteService
	token    tokenFile
}

func newApp(cfg *config.ClientConfig, out io.Writer) (*app, error) {
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  config.IsDevelopment(cfg.Env),
		Service: "segfault",
	})

	store, err := credentials.NewFileStore(cfg.RememberFile, cfg.RememberKey)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, out: out, token: tokenFile(cfg.TokenFile)}

	// The CLI has no screens, so the session never sits on a login page and
	// a 401 always surfaces as an error.
	sess := session.New(nil)
	token, err := a.token.load()
	if err != nil {
		return nil, err
	}
	sess.SetToken(token)

	t := transport.New(cfg.APIURL,
		transport.WithTimeout(cfg.HTTPTimeout),
		transport.WithLogger(logger.Component("transport")),
	)
	a.client = api.New(t, sess,
		api.WithLogger(logger.Component("api")),
		api.WithFanOutLimit(cfg.FanOutLimit),
	)
	a.sessions = service.NewSessionService(a.client.Auth, sess, store)
	a.votes = service.NewVoteService(a.client.Posts, a.client.Comments)
	return a, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// tokenFile keeps the bearer token between invocations.
type tokenFile string

func (f tokenFile) load() (string, error) {
	if f == "" {
		return "", nil
	}
	raw, err := os.ReadFile(string(f))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (f tokenFile) save(token string) error {
	if f == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(string(f)), 0o700); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.WriteFile(string(f), []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (f tokenFile) clear() error {
	if f == "" {
		return nil
	}
	if err := os.Remove(string(f)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("forget token: %w", err)
	}
	return nil
}
