// Package handlers implements the kubecloud commands.
//
// Handlers hold the command logic; the commands package only binds flags.
// Collaborators that touch the outside world (the Pulumi engine, the state
// bucket, the cluster API, the wizard) are package-level function variables
// so tests can replace them.
package handlers

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/settings"
	"github.com/imamik/kubecloud/internal/util/prerequisites"
)

// projectName is the Pulumi project every stack belongs to.
const projectName = "kubecloud"

// Options holds the flags shared by the stack commands.
type Options struct {
	Stack       string
	ConfigPath  string
	Backend     string
	MetricsFile string
	Verbose     bool
}

// Factory function variables - can be replaced in tests.
var (
	loadSettings = settings.Load
	newLogger    = defaultLogger
	checkTools   = prerequisites.CheckFor
)

// defaultLogger builds a console logger; verbose enables debug output.
func defaultLogger(verbose bool) (logr.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.DisableStacktrace = true
	zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zl, err := zc.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("failed to build logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}

// loadConfig resolves the settings and validates them locally, so
// configuration errors surface before the engine is started.
func loadConfig(path string) (*settings.Settings, *config.ClusterConfig, error) {
	s, err := loadSettings(path)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(s)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, cfg, nil
}

// stackName returns the explicit stack or falls back to the environment.
func stackName(opts Options, s *settings.Settings) string {
	if opts.Stack != "" {
		return opts.Stack
	}
	env, _ := s.Get(config.KeyEnvironment)
	return env
}

// checkPrerequisites fails on missing required tools and warns about the
// optional ones.
func checkPrerequisites(cfg *config.ClusterConfig, log logr.Logger) error {
	results := checkTools(cfg)
	if err := results.Error(); err != nil {
		return err
	}
	for _, tool := range results.Optional() {
		log.Info("Optional tool not found", "tool", tool.Name, "purpose", tool.Description, "install", tool.InstallURL)
	}
	for _, r := range results.Results {
		if r.Found {
			log.V(1).Info("Found tool", "tool", r.Tool.Name, "path", r.Path, "version", r.Version)
		}
	}
	return nil
}
