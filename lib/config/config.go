package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "bbcountdiff.yaml"

type Config struct {
	Tools    Tools  `yaml:"tools"`
	LogLevel string `yaml:"log_level"`
	Format   string `yaml:"format"`
}

type Tools struct {
	Profdata string   `yaml:"profdata"`
	Opt      string   `yaml:"opt"`
	OptArgs  []string `yaml:"opt_args,omitempty"`
}

func Default() Config {
	return Config{
		Tools: Tools{
			Profdata: "llvm-profdata",
			Opt:      "opt",
		},
		LogLevel: "info",
		Format:   "text",
	}
}

// Load reads the config at path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	conf := Default()

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	err = decoder.Decode(&conf)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return conf, nil
}

// Find loads FileName from dir, falling back to the defaults when the file
// does not exist.
func Find(dir string) (Config, string, error) {
	p := filepath.Join(dir, FileName)
	conf, err := Load(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), "", nil
	}
	if err != nil {
		return Config{}, "", err
	}
	return conf, p, nil
}

// Save writes the config to path. An existing file is only replaced when
// overwrite is set.
func (c Config) Save(path string, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	yml, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	_, err = file.Write(yml)
	if err != nil {
		return err
	}

	return file.Close()
}
