package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/naveenspark/xpboard/internal/config"
	"github.com/naveenspark/xpboard/internal/dashboard"
	"github.com/naveenspark/xpboard/internal/logging"
	"github.com/naveenspark/xpboard/internal/session"
	"github.com/naveenspark/xpboard/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs, opened from config.
type env struct {
	cfg *config.Config
	svc *dashboard.Service
	kv  session.KV
	log io.Closer
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logFile, err := logging.Setup(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	kv, err := session.OpenKV(ctx, cfg.Store, cfg.StateDir)
	if err != nil {
		logFile.Close() //nolint:errcheck
		return nil, err
	}
	gw := client.New(cfg.SigninURL, cfg.GraphQLURL, cfg.Timeout)
	log.Debug().Str("store", cfg.Store).Str("state_dir", cfg.StateDir).Msg("environment ready")
	return &env{
		cfg: cfg,
		svc: dashboard.NewService(gw, session.NewStore(kv)),
		kv:  kv,
		log: logFile,
	}, nil
}

func (e *env) Close() {
	if err := e.kv.Close(); err != nil {
		log.Err(err).Msg("close session store")
	}
	e.log.Close() //nolint:errcheck
}

// credential returns the credential to use with precedence: token from
// config/env > stored session > none.
func (e *env) credential(ctx context.Context) (session.Credential, bool) {
	if tok := strings.TrimSpace(e.cfg.Token); tok != "" {
		return session.Credential{Token: tok}, true
	}
	return e.svc.Credential(ctx)
}

// override is the config/env token as a TUI override, or nil.
func (e *env) override() *session.Credential {
	if tok := strings.TrimSpace(e.cfg.Token); tok != "" {
		return &session.Credential{Token: tok}
	}
	return nil
}
