package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ledgerconv/internal/config"
	"ledgerconv/internal/history"
	"ledgerconv/internal/logging"
	"ledgerconv/internal/pipeline"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
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
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				cfg.Logging.Level = strings.ToLower(level)
				if err := cfg.Validate(); err != nil {
					c.configErr = err
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// runLogger opens the per-run log file and prunes expired ones.
func (c *commandContext) runLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if removed := logging.CleanupOldLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, ""); removed > 0 {
		logger.Debug("pruned old run logs", logging.Int("removed", removed))
	}
	return logger, nil
}

// stderrLogger logs to stderr only so inspection commands keep stdout clean.
func (c *commandContext) stderrLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
}

// pipelineEnv bundles everything a run needs and how to release it.
type pipelineEnv struct {
	runner  *pipeline.Runner
	cleanup func()
}

func (c *commandContext) openPipeline(logger *slog.Logger) (*pipelineEnv, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	directory, closeDirectory, err := pipeline.OpenDirectory(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	processor := pipeline.NewProcessor(cfg,
		pipeline.WithDirectory(directory),
		pipeline.WithHistory(store),
		pipeline.WithLogger(logger),
	)
	return &pipelineEnv{
		runner:  pipeline.NewRunner(cfg, processor, store, logger),
		cleanup: func() {
			closeDirectory()
			_ = store.Close()
		},
	}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
