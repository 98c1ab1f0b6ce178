package config

// This file contains loading of the optional YAML configuration file.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is looked up in the working directory first.
	FileName = ".qadesk.yaml"
	// EnvData overrides data_file.
	EnvData = "QADESK_DATA"

	appDir = "qadesk"
)

type Config struct {
	DataFile    string      `yaml:"data_file"`
	ExportDir   string      `yaml:"export_dir"`
	IDScheme    string      `yaml:"id_scheme"`
	Screenshots Screenshots `yaml:"screenshots"`
	PDF         PDF         `yaml:"pdf"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-"`
}

type Screenshots struct {
	// Copy attached screenshots into Dir instead of storing the given path
	Copy bool   `yaml:"copy"`
	Dir  string `yaml:"dir"`
}

type PDF struct {
	// TrueType font used for non-Latin-1 text
	Font string `yaml:"font"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		DataFile:  "qa_data_gui.json",
		ExportDir: ".",
		IDScheme:  "sequence",
		Screenshots: Screenshots{
			Dir: "assets",
		},
	}
}

// Load reads the config at path, or the first file found by Find when path
// is empty. A missing default file yields Default. The QADESK_DATA
// environment variable overrides data_file either way.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = Find()
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if v := os.Getenv(EnvData); v != "" {
		cfg.DataFile = v
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.fillDefaults()
	c.Source = path
	return nil
}

// fillDefaults restores defaults for keys set to empty values.
func (c *Config) fillDefaults() {
	d := Default()
	if c.DataFile == "" {
		c.DataFile = d.DataFile
	}
	if c.ExportDir == "" {
		c.ExportDir = d.ExportDir
	}
	if c.IDScheme == "" {
		c.IDScheme = d.IDScheme
	}
	if c.Screenshots.Dir == "" {
		c.Screenshots.Dir = d.Screenshots.Dir
	}
}

// Find returns the config file to use: FileName in the working directory,
// else config.yaml under $XDG_CONFIG_HOME/qadesk (or ~/.config/qadesk). It
// returns "" when neither exists.
func Find() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home := os.Getenv("HOME"); home != "" {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome == "" {
		return ""
	}

	p := filepath.Join(configHome, appDir, "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
