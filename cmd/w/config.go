package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"fortio.org/log"
	"gopkg.in/yaml.v3"

	"github.com/Wicin-134/W/wlang"
)

const defaultConfigName = ".w.yaml"

// fileConfig is the YAML configuration shared by every subcommand.
type fileConfig struct {
	MaxIterations  int    `yaml:"max_iterations"`
	MaxLines       int    `yaml:"max_lines"`
	RecursionLimit int    `yaml:"recursion_limit"`
	TempDir        string `yaml:"temp_dir"`
	HistoryFile    string `yaml:"history_file"`
	Prompt         string `yaml:"prompt"`
	Debug          bool   `yaml:"debug"`
}

// loadConfig reads path, or $HOME/.w.yaml when path is empty. Only an
// explicitly named file has to exist.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, defaultConfigName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxIterations < 0 || cfg.MaxLines < 0 || cfg.RecursionLimit < 0 {
		return cfg, fmt.Errorf("config %s: limits must not be negative", path)
	}
	log.Debugf("loaded config from %s", path)
	return cfg, nil
}

// engineFlags are the flags that tune the interpreter, registered on every
// subcommand that builds an Engine.
type engineFlags struct {
	configPath     *string
	debug          *bool
	maxIterations  *int
	maxLines       *int
	recursionLimit *int
	tempDir        *string
}

func registerEngineFlags(fs *flag.FlagSet) *engineFlags {
	return &engineFlags{
		configPath:     fs.String("config", "", "path to a YAML config file (default $HOME/.w.yaml)"),
		debug:          fs.Bool("debug", false, "enable debug logging"),
		maxIterations:  fs.Int("max-iterations", wlang.DefaultMaxIterations, "maximum body runs of one while loop"),
		maxLines:       fs.Int("max-lines", wlang.DefaultMaxLines, "maximum lines in one script"),
		recursionLimit: fs.Int("max-depth", 0, "maximum call depth, 0 for no limit"),
		tempDir:        fs.String("tempdir", "", "directory used by write and read (default the system temp dir)"),
	}
}

// resolve loads the config file and applies every flag that was set on the
// command line over it.
func (f *engineFlags) resolve(fs *flag.FlagSet) (fileConfig, error) {
	cfg, err := loadConfig(*f.configPath)
	if err != nil {
		return cfg, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			cfg.Debug = *f.debug
		case "max-iterations":
			cfg.MaxIterations = *f.maxIterations
		case "max-lines":
			cfg.MaxLines = *f.maxLines
		case "max-depth":
			cfg.RecursionLimit = *f.recursionLimit
		case "tempdir":
			cfg.TempDir = *f.tempDir
		}
	})
	if cfg.Debug {
		log.SetLogLevel(log.Debug)
	}
	return cfg, nil
}

func (c fileConfig) engineConfig() wlang.Config {
	return wlang.Config{
		MaxIterations:  c.MaxIterations,
		MaxLines:       c.MaxLines,
		RecursionLimit: c.RecursionLimit,
		TempDir:        c.TempDir,
	}
}

func (c fileConfig) promptOr(fallback string) string {
	if c.Prompt != "" {
		return c.Prompt
	}
	return fallback
}

// historyPath returns the REPL history file, or "" when history is off.
func (c fileConfig) historyPath() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".w_history")
}
