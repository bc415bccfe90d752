// Package config loads startup configuration the way the teacher's
// cmd/berith/config.go does: an optional TOML file decoded with
// field-name-preserving settings, then overridden by CLI flags in
// cmd/chainweb-mining-worker/main.go. CLI argument parsing itself
// stays out of this package and out of the mining core (spec.md §6).
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
)

// tomlSettings mirrors the teacher's: TOML keys use the same names as
// Go struct fields, and an unrecognized key is a hard error rather
// than silently ignored.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) {
			link = fmt.Sprintf(", see %s for available fields", rt.String())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// Config is the worker's startup configuration (SPEC_FULL.md §3.2).
type Config struct {
	// Cores is the number of parallel kernel workers per mining run.
	Cores uint16
	// Version selects the digest algorithm and wire/text encodings via
	// chainweb.ParseVersion.
	Version string
	// ListenAddr is the HTTP submit/poll listen address, e.g. ":1917".
	ListenAddr string
}

// Default returns the configuration used when no file and no flags
// override it.
func Default() Config {
	return Config{
		Cores:      1,
		Version:    "test",
		ListenAddr: ":1917",
	}
}

// Load decodes a TOML file into cfg, starting from cfg's current
// values as defaults (fields the file doesn't mention are untouched).
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add the file name to errors that already carry a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}
