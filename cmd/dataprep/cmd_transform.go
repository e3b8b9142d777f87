package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/dataprep/cache"
	"github.com/kbukum/dataprep/dataset"
	"github.com/kbukum/dataprep/format"
	"github.com/kbukum/dataprep/logger"
	"github.com/kbukum/dataprep/preparation"
	"github.com/kbukum/dataprep/transform"
)

type transformOptions struct {
	preparation string
	output      string
	outputDir   string
	csv         bool
	separator   string
	noHeader    bool
	analyze     bool
}

func newTransformCmd(a *app) *cobra.Command {
	var opts transformOptions
	cmd := &cobra.Command{
		Use:   "transform [input...]",
		Short: "Apply a preparation to one or more datasets",
		Long: `Reads a JSON envelope or CSV file, applies the preparation and writes the
{"records":[...],"metadata":{...}} envelope.

With no input, or "-", the dataset is read from stdin. Several inputs run as
independent partitions of the same preparation and need --output-dir.

The preparation is a YAML or JSON file path, or the name of a preparation
stored in one of pipeline.preparation_dirs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTransform(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.preparation, "preparation", "p", "", "Preparation file or stored preparation name (default: no steps)")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	f.StringVar(&opts.outputDir, "output-dir", "", "Output directory when transforming several inputs")
	f.BoolVar(&opts.csv, "csv", false, "Read inputs as CSV (default: by file extension)")
	f.StringVar(&opts.separator, "separator", ",", "CSV field separator")
	f.BoolVar(&opts.noHeader, "no-header", false, "CSV inputs have no header line")
	f.BoolVar(&opts.analyze, "analyze", false, "Compute column statistics into the written metadata")
	return cmd
}

func (a *app) runTransform(cmd *cobra.Command, args []string, opts transformOptions) error {
	if len([]rune(opts.separator)) != 1 {
		return fmt.Errorf("--separator must be a single character (got %q)", opts.separator)
	}
	if len(args) > 1 && opts.outputDir == "" {
		return errors.New("--output-dir is required with several inputs")
	}

	prep, err := a.loadPreparation(opts.preparation)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	shutdown, metrics, err := a.telemetry(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(ctx) }()

	c, err := cache.New(a.cfg.Cache, a.log)
	if err != nil {
		return err
	}
	defer a.closeCache(c)
	svc := a.newService(c, metrics)

	if len(args) <= 1 {
		input := "-"
		if len(args) == 1 {
			input = args[0]
		}
		return a.transformOne(cmd, svc, input, prep, opts)
	}
	return a.transformMany(cmd, svc, args, prep, opts)
}

func (a *app) transformOne(cmd *cobra.Command, svc *transform.Service, input string, prep *preparation.Preparation, opts transformOptions) error {
	in, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer in.Close()

	ds, err := readInput(in, input, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.output, err)
		}
		defer f.Close()
		out = f
	}

	res, err := svc.Transform(cmd.Context(), transform.Request{
		DataSet:     ds,
		Preparation: prep,
		Output:      out,
		Analyze:     opts.analyze,
	})
	if err != nil {
		return err
	}
	a.report(res)
	return nil
}

func (a *app) transformMany(cmd *cobra.Command, svc *transform.Service, inputs []string, prep *preparation.Preparation, opts transformOptions) error {
	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.outputDir, err)
	}

	partitions := make([]*dataset.DataSet, 0, len(inputs))
	outputs := make([]io.Writer, 0, len(inputs))
	for _, input := range inputs {
		in, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", input, err)
		}
		defer in.Close()
		ds, err := readInput(in, input, opts)
		if err != nil {
			return err
		}

		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		out, err := os.Create(filepath.Join(opts.outputDir, base+".json"))
		if err != nil {
			return fmt.Errorf("failed to create output for %s: %w", input, err)
		}
		defer out.Close()

		partitions = append(partitions, ds)
		outputs = append(outputs, out)
	}

	results, err := svc.TransformPartitions(cmd.Context(), partitions, prep, outputs)
	if err != nil {
		return err
	}
	for _, res := range results {
		a.report(res)
	}
	return nil
}

func (a *app) report(res *transform.Result) {
	fields := logger.Fields(
		logger.FieldStepID, res.StepID,
		logger.FieldRows, res.Rows,
		logger.FieldDuration, res.Duration.Milliseconds(),
	)
	if len(res.Canceled) > 0 {
		fields["canceled"] = strings.Join(res.Canceled, ",")
	}
	a.log.Info("transformation complete", fields)
}

// loadPreparation reads ref as a file when it exists, otherwise resolves it
// as a stored preparation name.
func (a *app) loadPreparation(ref string) (*preparation.Preparation, error) {
	if ref == "" {
		return nil, nil
	}
	if _, err := os.Stat(ref); err == nil {
		return preparation.LoadFile(ref)
	}
	return preparation.NewFileLoader(a.cfg.Pipeline.PreparationDirs...).Load(ref)
}

func openInput(cmd *cobra.Command, input string) (io.ReadCloser, error) {
	if input == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", input, err)
	}
	return f, nil
}

func readInput(r io.Reader, name string, opts transformOptions) (*dataset.DataSet, error) {
	if opts.csv || strings.EqualFold(filepath.Ext(name), ".csv") {
		return format.ReadCSV(r, format.CSVOptions{
			Separator: []rune(opts.separator)[0],
			NoHeader:  opts.noHeader,
		})
	}
	return format.ReadJSON(r)
}
