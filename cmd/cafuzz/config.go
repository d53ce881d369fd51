package main

import (
	"encoding/hex"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/fieldtype"
	"github.com/maelig/go-cafuzz/logger"
	"github.com/maelig/go-cafuzz/vocab"
)

// config carries the resolved settings of one invocation.
type config struct {
	generatorPath string
	strength      uint
	timeout       time.Duration
	outputDir     string
	split         bool
	logLevel      string
	symbols       []symbolFileConfig
}

type fileConfig struct {
	Generator generatorFileConfig `toml:"generator"`
	Output    outputFileConfig    `toml:"output"`
	Logging   loggingFileConfig   `toml:"logging"`
	Symbols   []symbolFileConfig  `toml:"symbol"`
}

type generatorFileConfig struct {
	Path     string `toml:"path"`
	Strength uint   `toml:"strength"`
	Timeout  string `toml:"timeout"`
}

type outputFileConfig struct {
	Dir   string `toml:"dir"`
	Split bool   `toml:"split"`
}

type loggingFileConfig struct {
	Level string `toml:"level"`
}

type symbolFileConfig struct {
	Name   string            `toml:"name"`
	Fields []fieldFileConfig `toml:"field"`
}

// fieldFileConfig describes one field. A field with nested fields is a
// group, a field with size_of targets is a size over the named data fields,
// and anything else is a data leaf of the given type.
type fieldFileConfig struct {
	Name     string   `toml:"name"`
	Type     string   `toml:"type"`
	MinBits  uint     `toml:"min_bits"`
	MaxBits  uint     `toml:"max_bits"`
	Alphabet string   `toml:"alphabet"`
	Network  string   `toml:"network"`
	Address  string   `toml:"address"`
	Endian   string   `toml:"endian"`
	Sign     string   `toml:"sign"`
	Value    string   `toml:"value"`
	SizeOf   []string `toml:"size_of"`
	Width    uint     `toml:"width"`
	Factor   float64  `toml:"factor"`
	Offset   uint64   `toml:"offset"`

	Fields []fieldFileConfig `toml:"field"`
}

func defaultConfig() config {
	return config{
		generatorPath: "pict",
		strength:      2,
		timeout:       30 * time.Second,
		outputDir:     "cafuzz-out",
		logLevel:      "info",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("generator", "path") {
		cfg.generatorPath = strings.TrimSpace(raw.Generator.Path)
	}
	if meta.IsDefined("generator", "strength") {
		cfg.strength = raw.Generator.Strength
	}
	if meta.IsDefined("generator", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Generator.Timeout))
		if err != nil {
			return config{}, fmt.Errorf("parse generator timeout: %w", err)
		}
		cfg.timeout = d
	}
	if meta.IsDefined("output", "dir") {
		cfg.outputDir = strings.TrimSpace(raw.Output.Dir)
	}
	if meta.IsDefined("output", "split") {
		cfg.split = raw.Output.Split
	}
	if meta.IsDefined("logging", "level") {
		cfg.logLevel = strings.ToLower(strings.TrimSpace(raw.Logging.Level))
	}
	cfg.symbols = raw.Symbols

	return cfg, nil
}

func buildSymbols(configs []symbolFileConfig) ([]*vocab.Symbol, error) {
	out := make([]*vocab.Symbol, 0, len(configs))
	for _, sc := range configs {
		sym, err := buildSymbol(sc)
		if err != nil {
			return nil, fmt.Errorf("symbol %q: %w", sc.Name, err)
		}
		out = append(out, sym)
	}

	return out, nil
}

func buildSymbol(sc symbolFileConfig) (*vocab.Symbol, error) {
	registry := make(map[string]*vocab.Field)
	if err := registerDataFields(sc.Fields, registry); err != nil {
		return nil, err
	}

	fields, err := buildFields(sc.Fields, registry)
	if err != nil {
		return nil, err
	}

	return vocab.NewSymbol(sc.Name, fields...)
}

// registerDataFields builds every data leaf up front, so size fields may
// precede the targets they reference.
func registerDataFields(configs []fieldFileConfig, registry map[string]*vocab.Field) error {
	for _, fc := range configs {
		if len(fc.Fields) > 0 {
			if err := registerDataFields(fc.Fields, registry); err != nil {
				return err
			}
			continue
		}
		if len(fc.SizeOf) > 0 {
			continue
		}
		if _, ok := registry[fc.Name]; ok {
			return fmt.Errorf("duplicate data field name %q", fc.Name)
		}
		dt, err := buildDataType(fc)
		if err != nil {
			return fmt.Errorf("field %q: %w", fc.Name, err)
		}
		registry[fc.Name] = vocab.NewField(fc.Name, vocab.NewData(dt))
	}

	return nil
}

func buildFields(configs []fieldFileConfig, registry map[string]*vocab.Field) ([]*vocab.Field, error) {
	out := make([]*vocab.Field, 0, len(configs))
	for _, fc := range configs {
		switch {
		case len(fc.Fields) > 0:
			children, err := buildFields(fc.Fields, registry)
			if err != nil {
				return nil, err
			}
			out = append(out, vocab.NewFieldGroup(fc.Name, children...))
		case len(fc.SizeOf) > 0:
			f, err := buildSizeField(fc, registry)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		default:
			out = append(out, registry[fc.Name])
		}
	}

	return out, nil
}

// buildSizeField resolves size targets by name; targets must be data fields
// of the same symbol.
func buildSizeField(fc fieldFileConfig, registry map[string]*vocab.Field) (*vocab.Field, error) {
	targets := make([]*vocab.Field, 0, len(fc.SizeOf))
	for _, name := range fc.SizeOf {
		target, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("field %q: size target %q is not a data field", fc.Name, name)
		}
		targets = append(targets, target)
	}

	var opts []vocab.SizeOption
	if fc.Width > 0 {
		opts = append(opts, vocab.WithWidth(fc.Width))
	}
	if fc.Factor > 0 {
		opts = append(opts, vocab.WithFactor(fc.Factor))
	}
	if fc.Offset > 0 {
		opts = append(opts, vocab.WithOffset(fc.Offset))
	}
	if fc.Endian != "" {
		endian, err := parseEndian(fc.Endian)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fc.Name, err)
		}
		opts = append(opts, vocab.WithEndian(endian))
	}

	return vocab.NewField(fc.Name, vocab.NewSizeOf(targets, opts...)), nil
}

func buildDataType(fc fieldFileConfig) (fieldtype.DataType, error) {
	opts, err := dataOptions(fc)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(fc.Type)) {
	case "bits":
		return fieldtype.NewBits(opts...)
	case "bytes":
		return fieldtype.NewBytes(opts...)
	case "hexstring":
		return fieldtype.NewHexString(opts...)
	case "ipv4":
		return fieldtype.NewIPv4(opts...)
	default:
		return nil, fmt.Errorf("unknown field type %q", fc.Type)
	}
}

func dataOptions(fc fieldFileConfig) ([]fieldtype.Option, error) {
	// Resolved up front so a pinned value is built with the field's own
	// byte order.
	endian := bitstring.BigEndian
	if fc.Endian != "" {
		var err error
		endian, err = parseEndian(fc.Endian)
		if err != nil {
			return nil, err
		}
	}

	var opts []fieldtype.Option
	if fc.MinBits > 0 || fc.MaxBits > 0 {
		opts = append(opts, fieldtype.WithSizeRange(fc.MinBits, fc.MaxBits))
	}
	if fc.Value != "" {
		data, err := hex.DecodeString(strings.TrimSpace(fc.Value))
		if err != nil {
			return nil, fmt.Errorf("value %q is not hex: %w", fc.Value, err)
		}
		opts = append(opts, fieldtype.WithValue(bitstring.FromBytes(data, endian)))
	}
	if fc.Alphabet != "" {
		opts = append(opts, fieldtype.WithAlphabet(fc.Alphabet))
	}
	if fc.Network != "" {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(fc.Network))
		if err != nil {
			return nil, fmt.Errorf("parse network: %w", err)
		}
		opts = append(opts, fieldtype.WithNetwork(prefix))
	}
	if fc.Address != "" {
		addr, err := netip.ParseAddr(strings.TrimSpace(fc.Address))
		if err != nil {
			return nil, fmt.Errorf("parse address: %w", err)
		}
		opts = append(opts, fieldtype.WithAddress(addr))
	}
	if fc.Endian != "" {
		opts = append(opts, fieldtype.WithEndian(endian))
	}
	if fc.Sign != "" {
		sign, err := parseSign(fc.Sign)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fieldtype.WithSign(sign))
	}

	return opts, nil
}

func parseEndian(s string) (bitstring.Endian, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "big":
		return bitstring.BigEndian, nil
	case "little":
		return bitstring.LittleEndian, nil
	default:
		return bitstring.BigEndian, fmt.Errorf("unknown endianness %q", s)
	}
}

func parseSign(s string) (fieldtype.Sign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unsigned":
		return fieldtype.Unsigned, nil
	case "signed":
		return fieldtype.Signed, nil
	default:
		return fieldtype.Unsigned, fmt.Errorf("unknown sign %q", s)
	}
}

func parseLevel(s string) (logger.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "warn":
		return logger.WarnLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	default:
		return logger.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
