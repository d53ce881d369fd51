package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/maelig/go-cafuzz/fuzzer"
	"github.com/maelig/go-cafuzz/logger"
	"github.com/maelig/go-cafuzz/pict"
	"github.com/maelig/go-cafuzz/vocab"
)

type options struct {
	mode     string
	config   string
	symbol   string
	pictPath string
	strength uint
	outDir   string
	split    bool
	logLevel string
	set      map[string]bool
}

func main() {
	opts := parseFlags()

	cfg, err := loadConfig(opts.config)
	if err != nil {
		fatalf("%v", err)
	}
	applyFlagOverrides(&cfg, opts)

	level, err := parseLevel(cfg.logLevel)
	if err != nil {
		fatalf("%v", err)
	}
	logger.SetLevel(level)

	symbols, err := buildSymbols(cfg.symbols)
	if err != nil {
		fatalf("%v", err)
	}
	selected, err := selectSymbols(symbols, opts.symbol)
	if err != nil {
		fatalf("%v", err)
	}

	switch opts.mode {
	case "model":
		err = writeModels(selected)
	case "run":
		err = runCampaign(cfg, selected)
	default:
		fatalf("unknown mode %q (supported: model, run)", opts.mode)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.mode, "mode", "run", "mode: model | run")
	flag.StringVar(&opts.config, "config", "cafuzz.toml", "campaign configuration file")
	flag.StringVar(&opts.symbol, "symbol", "", "restrict to one symbol name")
	flag.StringVar(&opts.pictPath, "pict", "", "covering array generator binary")
	flag.UintVar(&opts.strength, "strength", 0, "covering array interaction strength")
	flag.StringVar(&opts.outDir, "out", "", "output directory")
	flag.BoolVar(&opts.split, "split", false, "generate separate type and variable arrays")
	flag.StringVar(&opts.logLevel, "log-level", "", "log level: debug | info | warn | error")
	flag.Parse()

	opts.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	return opts
}

// applyFlagOverrides lets explicitly set flags win over file settings.
func applyFlagOverrides(cfg *config, opts options) {
	if opts.set["pict"] {
		cfg.generatorPath = opts.pictPath
	}
	if opts.set["strength"] {
		cfg.strength = opts.strength
	}
	if opts.set["out"] {
		cfg.outputDir = opts.outDir
	}
	if opts.set["split"] {
		cfg.split = opts.split
	}
	if opts.set["log-level"] {
		cfg.logLevel = opts.logLevel
	}
}

func selectSymbols(symbols []*vocab.Symbol, only string) ([]*vocab.Symbol, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols defined")
	}
	if only == "" {
		return symbols, nil
	}
	for _, sym := range symbols {
		if sym.Name() == only {
			return []*vocab.Symbol{sym}, nil
		}
	}

	return nil, fmt.Errorf("symbol %q is not defined", only)
}

// writeModels prints the generator input of every selected symbol to stdout.
func writeModels(symbols []*vocab.Symbol) error {
	for _, sym := range symbols {
		model, err := sym.BuildModel()
		if err != nil {
			return fmt.Errorf("build model for %q: %w", sym.Name(), err)
		}
		if err := pict.WriteModel(os.Stdout, model); err != nil {
			return fmt.Errorf("write model for %q: %w", sym.Name(), err)
		}
	}

	return nil
}

func runCampaign(cfg config, symbols []*vocab.Symbol) error {
	runner := pict.NewRunner(cfg.generatorPath, pict.WithStrength(cfg.strength))
	campaign, err := fuzzer.NewCampaign(runner,
		fuzzer.WithOutputDir(cfg.outputDir),
		fuzzer.WithSplitModel(cfg.split),
	)
	if err != nil {
		return err
	}

	for _, sym := range symbols {
		if err := campaign.Register(sym); err != nil {
			return err
		}
	}

	mem := vocab.NewMemory()
	for _, sym := range symbols {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
		report, err := campaign.Run(ctx, sym.Name(), mem, nil)
		cancel()
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d rows, %d messages -> %s\n",
			report.Symbol, report.Rows, report.Messages, cfg.outputDir)
	}

	metrics := campaign.Metrics()
	fmt.Printf("total: %d generated, %d failed\n", metrics.Generated(), metrics.Failed())

	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "cafuzz: "+format+"\n", args...)
	os.Exit(1)
}
