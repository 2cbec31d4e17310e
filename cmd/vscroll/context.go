package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/xqrs/vscroll/internal/config"
	"github.com/xqrs/vscroll/internal/logging"
	"github.com/xqrs/vscroll/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// newLogger builds the command logger. An interactive session owns the
// terminal, so its logs go to the configured file or nowhere.
func (c *commandContext) newLogger(cfg *config.Config, interactive bool) (*slog.Logger, error) {
	outputs := []string{"stderr"}
	switch {
	case cfg.Logging.File != "":
		outputs = []string{cfg.Logging.File}
	case interactive:
		outputs = []string{"discard"}
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func (c *commandContext) openStore(cfg *config.Config) (store.Backend, error) {
	backend, err := store.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	return backend, nil
}

func (c *commandContext) withStore(fn func(store.Backend) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	backend, err := c.openStore(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	return fn(backend)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
