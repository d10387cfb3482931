// Copyright 2025 The ciprobe Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/ciprobe-project/ciprobe/internal/flags"
	"github.com/ciprobe-project/ciprobe/internal/fspath"
	"github.com/ciprobe-project/ciprobe/internal/log"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// textUnmarshalerType is a helper variable for checking if types of fields in
// Config implement [encoding.TextUnmarshaler].
//
//nolint:gochecknoglobals // used like constant
var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// ParseOptions are the options for [Parse].
type ParseOptions struct {
	// Fs is the file system the settings file is read from. If it is nil, the
	// operating system's file system is used.
	Fs afero.Fs

	// FlagSet contains the parsed command-line flags. If it is nil, the flags
	// are not checked.
	FlagSet *flags.FlagSet

	// LookupEnv looks up the environment variables. If it is nil,
	// [os.LookupEnv] is used.
	LookupEnv func(key string) (string, bool)

	// Dir is the directory where the settings file is looked up from if it is
	// not given explicitly. If it is empty, the current working directory is
	// used.
	Dir fspath.Path
}

// A ValueParser is a helper type that holds the current values for the config
// value that is currently being parsed.
type ValueParser struct {
	// FlagSet is the flag set used for checking the values.
	FlagSet *flags.FlagSet

	// lookupEnv looks up the environment variables.
	lookupEnv func(key string) (string, bool)

	// FullName is the name of the field including the names of the parent
	// fields before it separated by dots.
	FullName string

	// EnvName is the name of the environment variable for checking the value
	// for the current field.
	EnvName string

	// EnvValue is the value of the environment variable for the current field.
	EnvValue string

	// FlagName is the name of the command-line flag for checking the value for
	// the current field.
	FlagName string

	// InvertedFlagName is the name of the command-line flag that sets
	// the inverse of a boolean field.
	InvertedFlagName string

	// Value is the Value of the currently parsed field.
	Value reflect.Value

	// Field is the currently parsed struct Field.
	Field reflect.StructField
}

// LogValue implements [slog.LogValuer] for [ValueParser]. It returns a group
// containing the fields of the parser that are relevant for logging.
func (p *ValueParser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("FullName", p.FullName),
		slog.String("EnvName", p.EnvName),
		slog.String("EnvValue", p.EnvValue),
		slog.String("FlagName", p.FlagName),
		slog.String("InvertedFlagName", p.InvertedFlagName),
		slog.String("type", p.Value.Type().String()),
	)
}

// Parse parses the settings. It first reads the settings file if there is
// one, and then applies the overrides from the environment variables and
// the command-line flags in opts.
//
// The settings file is resolved from the "--config" flag, from
// the CIPROBE_CONFIG_FILE environment variable, or from the standard file
// names in the directory in opts. It is not an error if there is no settings
// file unless the file is given explicitly.
func Parse(ctx context.Context, opts ParseOptions) (*Config, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	cfg := DefaultConfig()

	configFile, err := resolveFile(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config file: %w", err)
	}

	if configFile != "" {
		if err := decodeFile(ctx, opts.Fs, configFile, cfg); err != nil {
			return nil, err
		}
	} else {
		log.Debug(ctx, "no config file found, using defaults")
	}

	parser := &ValueParser{
		FlagSet:          opts.FlagSet,
		lookupEnv:        opts.LookupEnv,
		Value:            reflect.ValueOf(cfg).Elem(),
		Field:            reflect.StructField{}, //nolint:exhaustruct // zero value wanted
		FullName:         "",
		EnvName:          EnvPrefix,
		EnvValue:         "",
		FlagName:         "",
		InvertedFlagName: "",
	}

	if err := parser.ApplyOverrides(ctx); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	log.Debug(ctx, "parsed config", "cfg", cfg)

	return cfg, nil
}

// decodeFile reads the TOML file at path and decodes it into cfg.
func decodeFile(ctx context.Context, fsys afero.Fs, path fspath.Path, cfg *Config) error {
	log.Trace(ctx, "reading config file", "path", path)

	data, err := path.Clean().ReadFile(fsys)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	rawCfg := make(map[string]any)

	if err = toml.Unmarshal(data, &rawCfg); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %w", ErrInvalidConfig, path, err)
	}

	normalizeKeys(rawCfg)
	log.Trace(ctx, "normalized keys", "cfg", rawCfg)

	decoderConfig := &mapstructure.DecoderConfig{ //nolint:exhaustruct // use default values
		DecodeHook:  mapstructure.TextUnmarshallerHookFunc(),
		ErrorUnused: true,
		Result:      cfg,
	}

	d, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := d.Decode(rawCfg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	return nil
}

// resolveFile returns the settings file to use. If the file is not given
// explicitly and none of the standard files exist, it returns an empty path.
func resolveFile(opts ParseOptions) (fspath.Path, error) {
	fileValue, _ := opts.LookupEnv(ConfigFileEnv)

	if opts.FlagSet != nil && opts.FlagSet.Changed("config") {
		fileValue = opts.FlagSet.Lookup("config").Value.String()
	}

	if fileValue != "" {
		file, err := fspath.Path(fileValue).ExpandUser()
		if err != nil {
			return "", fmt.Errorf("%w", err)
		}

		file = file.ExpandEnv()
		if !file.IsAbs() && opts.Dir != "" {
			file = fspath.New(string(opts.Dir), string(file))
		}

		ok, err := file.IsFile(opts.Fs)
		if err != nil {
			return "", fmt.Errorf("%w", err)
		}

		// If the file is given but it didn't resolve, fail so that the program
		// doesn't use a config file from some other location by surprise.
		if !ok {
			return "", fmt.Errorf("%w: %s", errConfigFileNotFound, fileValue)
		}

		return file.Clean(), nil
	}

	for _, name := range []string{defaultFileName, "." + defaultFileName} {
		file := fspath.New(string(opts.Dir), name+".toml")

		ok, err := file.IsFile(opts.Fs)
		if err != nil {
			return "", fmt.Errorf("%w", err)
		}

		if ok {
			return file, nil
		}
	}

	return "", nil
}

// normalizeKeys changes the keys in the given raw config map into
// "kebab-case" in case the config contains keys in "camelCase" or
// "snake_case".
func normalizeKeys(cfg map[string]any) {
	for k, v := range cfg {
		var sb strings.Builder

		for i, r := range k {
			if r == '_' || r == '-' {
				sb.WriteByte('-')

				continue
			}

			if i > 0 && unicode.IsUpper(r) && !strings.HasSuffix(sb.String(), "-") {
				sb.WriteByte('-')
			}

			sb.WriteRune(unicode.ToLower(r))
		}

		key := sb.String()

		if k != key {
			delete(cfg, k)

			cfg[key] = v
		}

		if m, ok := v.(map[string]any); ok {
			normalizeKeys(m)
		}
	}
}

// ApplyOverrides applies the overrides of the config values from environment
// variables and command-line flags to the struct in p. It modifies the pointed
// value.
func (p *ValueParser) ApplyOverrides(ctx context.Context) error {
	for i := range p.Value.NumField() {
		parser := &ValueParser{
			FlagSet:          p.FlagSet,
			lookupEnv:        p.lookupEnv,
			Value:            p.Value.Field(i),
			Field:            p.Value.Type().Field(i),
			FullName:         "",
			EnvName:          "",
			EnvValue:         "",
			FlagName:         "",
			InvertedFlagName: "",
		}

		if !parser.Value.CanSet() {
			continue
		}

		if p.FullName != "" {
			parser.FullName = p.FullName + "."
		}

		parser.FullName += parser.Field.Name
		parser.EnvName = toEnv(parser.Field.Name, p.EnvName)
		parser.EnvValue, _ = p.lookupEnv(parser.EnvName)

		if tag, ok := parser.Field.Tag.Lookup("flag"); ok {
			parser.FlagName, parser.InvertedFlagName, _ = strings.Cut(tag, ",")
		}

		log.Trace(ctx, "checking config field", "parser", parser)

		if parser.Value.Kind() == reflect.Struct && !parser.canUnmarshal() {
			if err := parser.ApplyOverrides(ctx); err != nil {
				return err
			}

			continue
		}

		var err error

		switch {
		case parser.canUnmarshal():
			err = parser.setText()
		case parser.Value.Kind() == reflect.Bool:
			err = parser.setBool()
		case parser.Value.Kind() == reflect.String:
			err = parser.setString()
		default:
			panic(fmt.Sprintf("unsupported config field type for %s: %s", parser.FullName, parser.Value.Kind()))
		}

		if err != nil {
			return fmt.Errorf("failed to set config value %s: %w", parser.FullName, err)
		}
	}

	return nil
}

// toEnv converts a struct field from camel case to snake case and upper case in
// order to make the resulting environment variable names more natural.
func toEnv(name, prefix string) string {
	var sb strings.Builder

	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			sb.WriteByte('_')
		}

		sb.WriteRune(r)
	}

	return strings.ToUpper(prefix + "_" + sb.String())
}

// flagChanged reports whether the named flag is defined and set by the user.
func (p *ValueParser) flagChanged(name string) bool {
	return p.FlagSet != nil && name != "" && p.FlagSet.Changed(name)
}

// setBool sets a boolean value from the environment variable or
// the command-line flag to the currently parsed value.
func (p *ValueParser) setBool() error {
	x := p.Value.Bool()

	if p.EnvValue != "" {
		var err error

		x, err = strconv.ParseBool(p.EnvValue)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", p.EnvName, p.EnvValue, err)
		}
	}

	if p.flagChanged(p.FlagName) {
		var err error

		x, err = p.FlagSet.GetBool(p.FlagName)
		if err != nil {
			return fmt.Errorf("failed to get value for --%s: %w", p.FlagName, err)
		}
	}

	if p.flagChanged(p.InvertedFlagName) {
		inverted, err := p.FlagSet.GetBool(p.InvertedFlagName)
		if err != nil {
			return fmt.Errorf("failed to get value for --%s: %w", p.InvertedFlagName, err)
		}

		x = !inverted
	}

	p.Value.SetBool(x)

	return nil
}

// setString sets a string value from the environment variable or
// the command-line flag to the currently parsed value. Values of named string
// types, such as [fspath.Path], are set the same way.
func (p *ValueParser) setString() error {
	x := p.Value.String()

	if p.EnvValue != "" {
		x = p.EnvValue
	}

	if p.flagChanged(p.FlagName) {
		x = p.FlagSet.Lookup(p.FlagName).Value.String()
	}

	p.Value.SetString(x)

	return nil
}

// setText sets a value that implements [encoding.TextUnmarshaler] from
// the environment variable or the command-line flag to the currently parsed
// value.
func (p *ValueParser) setText() error {
	if p.EnvValue != "" {
		if err := p.unmarshal(p.EnvValue); err != nil {
			return fmt.Errorf("%s=%q: %w", p.EnvName, p.EnvValue, err)
		}
	}

	if p.flagChanged(p.FlagName) {
		s := p.FlagSet.Lookup(p.FlagName).Value.String()
		if err := p.unmarshal(s); err != nil {
			return fmt.Errorf("failed to get value for --%s: %w", p.FlagName, err)
		}
	}

	return nil
}

// canUnmarshal reports whether the field can be cast to
// [encoding.TextUnmarshaler] and unmarshaled using it.
func (p *ValueParser) canUnmarshal() bool {
	return reflect.PointerTo(p.Value.Type()).Implements(textUnmarshalerType)
}

// unmarshal converts the string s to the type of the value that is currently
// being parsed by calling the type's UnmarshalText function and sets it as
// the value.
func (p *ValueParser) unmarshal(s string) error {
	ptr := reflect.New(p.Value.Type())

	unmarshaler, ok := ptr.Interface().(encoding.TextUnmarshaler)
	if !ok {
		panic(fmt.Sprintf("casting type of field %q to TextUnmarshaler", p.Field.Name))
	}

	if err := unmarshaler.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("failed to unmarshal %q: %w", s, err)
	}

	p.Value.Set(ptr.Elem())

	return nil
}
