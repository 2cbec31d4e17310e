package config

import (
	"errors"
	"fmt"

	"github.com/xqrs/vscroll/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateList(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateList() error {
	if c.List.ItemHeight <= 0 {
		return fmt.Errorf("list.item_height must be positive, got %d", c.List.ItemHeight)
	}
	if c.List.Overscan < 0 {
		return errors.New("list.overscan must be zero or greater")
	}
	if c.List.Height < 0 || c.List.MaxHeight < 0 {
		return errors.New("list.height and list.max_height must be zero or greater")
	}
	switch c.List.Role {
	case "listbox", "log":
	default:
		return fmt.Errorf("list.role must be listbox or log, got %q", c.List.Role)
	}
	switch c.List.Border {
	case "plain", "round", "thick", "double", "hidden":
	default:
		return fmt.Errorf("list.border must be plain, round, thick, double or hidden, got %q", c.List.Border)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "memory":
		return nil
	case "file", "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
		return nil
	default:
		return fmt.Errorf("store.backend must be memory, file or sqlite, got %q", c.Store.Backend)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
