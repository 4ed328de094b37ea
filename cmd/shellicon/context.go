package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justyntemme/shellicon/internal/config"
	"github.com/justyntemme/shellicon/internal/debug"
	"github.com/justyntemme/shellicon/internal/icon"
	"github.com/justyntemme/shellicon/internal/metrics"
	"github.com/justyntemme/shellicon/internal/shell"
)

// newShell is replaced in tests.
var newShell = func() shell.Shell { return shell.New() }

type globalFlags struct {
	size        string
	linkOverlay bool
	metrics     bool
	metricsOut  string
	debug       string
}

type commandContext struct {
	flags *globalFlags

	config  *config.Manager
	metrics *metrics.Metrics
	cache   *icon.Cache
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{
		flags:  flags,
		config: config.NewManager(),
	}
}

// ensureConfig loads the config file and builds the resolver stack. A
// malformed file leaves defaults in place; see Manager.ParseError.
func (c *commandContext) ensureConfig() error {
	if c.cache != nil {
		return nil
	}
	if err := c.config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := c.config.ParseError(); err != nil {
		debug.Log(debug.CLI, "config %s unusable: %v", config.ConfigPath(), err)
	}

	c.metrics = metrics.New()
	resolver := icon.NewResolver(newShell(), icon.WithResolverObserver(c.metrics))
	c.cache = icon.NewCache(resolver, icon.WithCacheObserver(c.metrics))
	return nil
}

// size returns the --size flag, falling back to icons.size.
func (c *commandContext) size() (icon.Size, error) {
	s := strings.ToLower(strings.TrimSpace(c.flags.size))
	if s == "" {
		s = c.config.Get().Icons.Size
	}
	switch s {
	case "", "small", "large":
		return icon.ParseSize(s), nil
	default:
		return icon.Small, fmt.Errorf("invalid size %q (want small or large)", s)
	}
}

// linkOverlay is true when either --link-overlay or icons.linkOverlay is set.
func (c *commandContext) linkOverlay() bool {
	return c.flags.linkOverlay || c.config.Get().Icons.LinkOverlay
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
