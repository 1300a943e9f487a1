package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/vyPal/bbcountdiff/lib/config"
	"github.com/vyPal/bbcountdiff/lib/counts"
	"github.com/vyPal/bbcountdiff/lib/toolchain"
)

type settings struct {
	conf   config.Config
	format counts.Format
	logger *slog.Logger
}

// loadSettings merges the config file with command line flags. Flags and
// their environment variables win over the file.
func loadSettings(c *cli.Context) (*settings, error) {
	var conf config.Config
	var confPath string
	var err error

	if p := c.String("config"); p != "" {
		conf, err = config.Load(p)
		confPath = p
	} else {
		var cwd string
		cwd, err = os.Getwd()
		if err != nil {
			return nil, err
		}
		conf, confPath, err = config.Find(cwd)
	}
	if err != nil {
		return nil, err
	}

	if c.IsSet("profdata") {
		conf.Tools.Profdata = c.String("profdata")
	}
	if c.IsSet("opt") {
		conf.Tools.Opt = c.String("opt")
	}
	if c.IsSet("log-level") {
		conf.LogLevel = c.String("log-level")
	}
	if c.IsSet("format") {
		conf.Format = c.String("format")
	}

	format, err := counts.ParseFormat(conf.Format)
	if err != nil {
		return nil, err
	}

	level, err := parseLevel(conf.LogLevel)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))
	if confPath != "" {
		logger.Debug("loaded config", "path", confPath)
	}

	return &settings{conf: conf, format: format, logger: logger}, nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}

func (s *settings) extractor() *toolchain.Extractor {
	ext := toolchain.NewExtractor(s.conf.Tools.Profdata, s.conf.Tools.Opt)
	ext.OptArgs = s.conf.Tools.OptArgs
	ext.Logger = s.logger
	return ext
}
