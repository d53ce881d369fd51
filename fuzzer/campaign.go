package fuzzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/ipm"
	"github.com/maelig/go-cafuzz/logger"
	"github.com/maelig/go-cafuzz/pict"
	"github.com/maelig/go-cafuzz/vocab"
)

const defaultOutputDir = "cafuzz-out"

// CampaignMetrics counts messages across every run of a campaign. All
// methods are safe for concurrent use.
type CampaignMetrics struct {
	generated *xsync.Counter
	failed    *xsync.Counter
}

func newCampaignMetrics() *CampaignMetrics {
	return &CampaignMetrics{
		generated: xsync.NewCounter(),
		failed:    xsync.NewCounter(),
	}
}

// Generated returns the number of messages specialized and written.
func (m *CampaignMetrics) Generated() int64 {
	return m.generated.Value()
}

// Failed returns the number of runs stopped by an error.
func (m *CampaignMetrics) Failed() int64 {
	return m.failed.Value()
}

// Campaign owns a set of named symbols and drives the full pipeline for
// each: build the parameter model, write it as generator input, run the
// external generator, read the covering array back and write one message
// file per produced message. Registration and metrics are safe for
// concurrent use; each Run is one synchronous pipeline.
type Campaign struct {
	runner *pict.Runner
	outDir string
	split  bool
	logger logger.Logger

	symbols *xsync.MapOf[string, *vocab.Symbol]
	metrics *CampaignMetrics
}

// CampaignOption configures a Campaign.
type CampaignOption interface {
	apply(*Campaign)
}

type campaignOptFunc func(*Campaign)

func (f campaignOptFunc) apply(c *Campaign) { f(c) }

// WithOutputDir sets the directory receiving model, covering array and
// message files. The default is "cafuzz-out".
func WithOutputDir(dir string) CampaignOption {
	return campaignOptFunc(func(c *Campaign) {
		if dir != "" {
			c.outDir = dir
		}
	})
}

// WithSplitModel toggles split mode: the type and variable halves of the
// model become separate generator inputs and each run crosses every
// variable row against every type row.
func WithSplitModel(enabled bool) CampaignOption {
	return campaignOptFunc(func(c *Campaign) {
		c.split = enabled
	})
}

// WithCampaignLogger replaces the default logger.
func WithCampaignLogger(l logger.Logger) CampaignOption {
	return campaignOptFunc(func(c *Campaign) {
		if l != nil {
			c.logger = l
		}
	})
}

// NewCampaign creates a campaign using the given generator runner.
func NewCampaign(runner *pict.Runner, opts ...CampaignOption) (*Campaign, error) {
	if runner == nil {
		return nil, ErrNoRunner
	}

	c := &Campaign{
		runner:  runner,
		outDir:  defaultOutputDir,
		logger:  logger.GetLogger(),
		symbols: xsync.NewMapOf[string, *vocab.Symbol](),
		metrics: newCampaignMetrics(),
	}
	for _, opt := range opts {
		opt.apply(c)
	}

	return c, nil
}

// Register adds a symbol under its own name.
func (c *Campaign) Register(sym *vocab.Symbol) error {
	if sym == nil {
		return ErrNilSymbol
	}
	if _, loaded := c.symbols.LoadOrStore(sym.Name(), sym); loaded {
		return fmt.Errorf("%w: %q", ErrDuplicateSymbol, sym.Name())
	}

	return nil
}

// Symbol returns the registered symbol with the given name.
func (c *Campaign) Symbol(name string) (*vocab.Symbol, bool) {
	return c.symbols.Load(name)
}

// Metrics returns the campaign-wide counters.
func (c *Campaign) Metrics() *CampaignMetrics {
	return c.metrics
}

// Report summarizes one campaign run. Counts are valid even when an error
// stopped the run early.
type Report struct {
	// Symbol is the name of the symbol driven by the run.
	Symbol string
	// Rows is the number of primary covering array rows.
	Rows int
	// VarRows is the number of variable covering array rows; zero outside
	// split mode.
	VarRows int
	// Messages is the number of message files written.
	Messages int
	// ModelPath and ArrayPath locate the primary generator input and its
	// covering array.
	ModelPath string
	ArrayPath string
	// VarModelPath and VarArrayPath locate the variable half in split mode.
	VarModelPath string
	VarArrayPath string
}

// Run drives the full pipeline for the named symbol, writing one message
// file per covering array row into the output directory. Memory carries
// generated values across runs and presets pin individual fields; both may
// be nil.
func (c *Campaign) Run(ctx context.Context, name string, mem *vocab.Memory, presets vocab.Presets) (*Report, error) {
	sym, ok := c.symbols.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
	}

	report := &Report{Symbol: name}
	fail := func(err error) (*Report, error) {
		c.metrics.failed.Inc()
		return report, err
	}

	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return fail(fmt.Errorf("create output dir: %w", err))
	}

	model, err := sym.BuildModel()
	if err != nil {
		return fail(fmt.Errorf("build model for %q: %w", name, err))
	}

	primaryModel := model
	var varModel *ipm.Model
	if c.split {
		primaryModel, varModel = model.Split()
	}

	base := name
	if c.split {
		base = name + "_types"
	}
	c.logger.Info("campaign run started", "symbol", name, "split", c.split)

	primary, err := c.generateArray(ctx, base, primaryModel, &report.ModelPath, &report.ArrayPath)
	if err != nil {
		return fail(err)
	}
	report.Rows = len(primary.Rows)

	var vars *pict.Array
	if c.split && varModel.Len() > 0 {
		vars, err = c.generateArray(ctx, name+"_vars", varModel, &report.VarModelPath, &report.VarArrayPath)
		if err != nil {
			return fail(err)
		}
		report.VarRows = len(vars.Rows)
	}

	driver, err := NewDriver(model, func() (*bitstring.BitString, error) {
		return sym.Specialize(mem, presets)
	}, WithDriverLogger(c.logger))
	if err != nil {
		return fail(err)
	}

	seq, err := driver.Messages(primary, vars)
	if err != nil {
		return fail(err)
	}

	for seq.Next() {
		msg := seq.Message()
		path := filepath.Join(c.outDir, fmt.Sprintf("%s_%06d.bin", name, report.Messages))
		if err := os.WriteFile(path, msg.Bytes(), 0o644); err != nil {
			return fail(fmt.Errorf("write message %d: %w", report.Messages, err))
		}
		report.Messages++
		c.metrics.generated.Inc()
	}
	if err := seq.Err(); err != nil {
		return fail(fmt.Errorf("run %q: %w", name, err))
	}

	c.logger.Info("campaign run finished",
		"symbol", name,
		"rows", report.Rows,
		"varRows", report.VarRows,
		"messages", report.Messages,
	)

	return report, nil
}

// generateArray writes the model as generator input, runs the generator and
// reads the covering array back.
func (c *Campaign) generateArray(ctx context.Context, base string, model *ipm.Model, modelPath, arrayPath *string) (*pict.Array, error) {
	*modelPath = filepath.Join(c.outDir, base+".model.txt")
	*arrayPath = filepath.Join(c.outDir, base+".ca.txt")

	f, err := os.Create(*modelPath)
	if err != nil {
		return nil, fmt.Errorf("create model file: %w", err)
	}
	werr := pict.WriteModel(f, model)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return nil, fmt.Errorf("write model %s: %w", *modelPath, werr)
	}

	if err := c.runner.Generate(ctx, *modelPath, *arrayPath); err != nil {
		return nil, err
	}

	af, err := os.Open(*arrayPath)
	if err != nil {
		return nil, fmt.Errorf("open covering array: %w", err)
	}
	defer af.Close()

	arr, err := pict.ReadArray(af)
	if err != nil {
		return nil, fmt.Errorf("read covering array %s: %w", *arrayPath, err)
	}

	return arr, nil
}
