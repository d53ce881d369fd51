package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maelig/go-cafuzz/ipm"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cafuzz.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	require := require.New(t)

	path := writeConfig(t, `
[[symbol]]
name = "msg"

[[symbol.field]]
name = "payload"
type = "bytes"
`)

	cfg, err := loadConfig(path)
	require.NoError(err)
	require.Equal("pict", cfg.generatorPath)
	require.Equal(uint(2), cfg.strength)
	require.Equal(30*time.Second, cfg.timeout)
	require.Equal("cafuzz-out", cfg.outputDir)
	require.False(cfg.split)
	require.Equal("info", cfg.logLevel)
	require.Len(cfg.symbols, 1)
}

func TestLoadConfigOverrides(t *testing.T) {
	require := require.New(t)

	path := writeConfig(t, `
[generator]
path = "/opt/pict/pict"
strength = 3
timeout = "5s"

[output]
dir = "out"
split = true

[logging]
level = "Debug"
`)

	cfg, err := loadConfig(path)
	require.NoError(err)
	require.Equal("/opt/pict/pict", cfg.generatorPath)
	require.Equal(uint(3), cfg.strength)
	require.Equal(5*time.Second, cfg.timeout)
	require.Equal("out", cfg.outputDir)
	require.True(cfg.split)
	require.Equal("debug", cfg.logLevel)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		description string
		content     string
	}{
		{
			description: "bad timeout",
			content:     "[generator]\ntimeout = \"soon\"\n",
		},
		{
			description: "malformed toml",
			content:     "[[symbol\n",
		},
	}

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)

		_, err := loadConfig(writeConfig(t, test.content))
		require.Error(t, err)
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestBuildSymbolsExampleConfig(t *testing.T) {
	require := require.New(t)

	cfg, err := loadConfig("ex.config.toml")
	require.NoError(err)

	symbols, err := buildSymbols(cfg.symbols)
	require.NoError(err)
	require.Len(symbols, 1)

	sym := symbols[0]
	require.Equal("udp_probe", sym.Name())
	_, ok := sym.FieldByName("src")
	require.True(ok)
	_, ok = sym.FieldByName("payload")
	require.True(ok)

	model, err := sym.BuildModel()
	require.NoError(err)
	require.Equal([]string{
		"udp_probe_length",
		"udp_probe_length_var_BoundaryValue",
		"udp_probe_header_src",
		"udp_probe_header_src_type_BoundaryValue",
		"udp_probe_header_magic",
		"udp_probe_header_magic_type_BoundaryValue",
		"udp_probe_payload",
		"udp_probe_payload_type_BoundaryValue",
		"udp_probe_payload_type_Size",
	}, model.Names())

	kind, ok := model.Column("udp_probe_payload_type_Size")
	require.True(ok)
	sizes, ok := kind.(ipm.CandidateList)
	require.True(ok)
	require.Equal("8", sizes[0].Tag)
	require.Equal("64", sizes[len(sizes)-1].Tag)
}

func TestBuildSymbolsErrors(t *testing.T) {
	tests := []struct {
		description string
		symbol      symbolFileConfig
		expected    string
	}{
		{
			description: "unknown field type",
			symbol: symbolFileConfig{Name: "msg", Fields: []fieldFileConfig{
				{Name: "payload", Type: "utf32"},
			}},
			expected: "unknown field type",
		},
		{
			description: "size target not a data field",
			symbol: symbolFileConfig{Name: "msg", Fields: []fieldFileConfig{
				{Name: "len", SizeOf: []string{"body"}},
				{Name: "payload", Type: "bytes"},
			}},
			expected: `size target "body"`,
		},
		{
			description: "duplicate data field name",
			symbol: symbolFileConfig{Name: "msg", Fields: []fieldFileConfig{
				{Name: "payload", Type: "bytes"},
				{Name: "payload", Type: "bits"},
			}},
			expected: "duplicate data field name",
		},
		{
			description: "bad network",
			symbol: symbolFileConfig{Name: "msg", Fields: []fieldFileConfig{
				{Name: "addr", Type: "ipv4", Network: "not-a-prefix"},
			}},
			expected: "parse network",
		},
		{
			description: "bad pinned value",
			symbol: symbolFileConfig{Name: "msg", Fields: []fieldFileConfig{
				{Name: "magic", Type: "bits", Value: "zz"},
			}},
			expected: "is not hex",
		},
		{
			description: "bad endianness",
			symbol: symbolFileConfig{Name: "msg", Fields: []fieldFileConfig{
				{Name: "payload", Type: "bytes", Endian: "middle"},
			}},
			expected: "unknown endianness",
		},
	}

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)

		_, err := buildSymbols([]symbolFileConfig{test.symbol})
		require.Error(t, err)
		require.ErrorContains(t, err, test.expected)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	require := require.New(t)

	cfg := defaultConfig()
	opts := options{
		pictPath: "/usr/local/bin/pict",
		strength: 4,
		outDir:   "elsewhere",
		split:    true,
		logLevel: "debug",
		set: map[string]bool{
			"pict":      true,
			"strength":  true,
			"out":       true,
			"split":     true,
			"log-level": true,
		},
	}

	applyFlagOverrides(&cfg, opts)
	require.Equal("/usr/local/bin/pict", cfg.generatorPath)
	require.Equal(uint(4), cfg.strength)
	require.Equal("elsewhere", cfg.outputDir)
	require.True(cfg.split)
	require.Equal("debug", cfg.logLevel)

	// unset flags leave file settings alone
	cfg = defaultConfig()
	applyFlagOverrides(&cfg, options{set: map[string]bool{}})
	require.Equal("pict", cfg.generatorPath)
	require.Equal(uint(2), cfg.strength)
}
