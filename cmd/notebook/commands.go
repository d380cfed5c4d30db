package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"
	"github.com/okian/brent/internal/config"
	"github.com/okian/brent/internal/markdown"
	"github.com/okian/brent/internal/notebook"
	"github.com/okian/brent/pkg/logger"
)

// setup loads the configuration and initializes logging on stderr.
func setup(ctx context.Context, stderr io.Writer) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(stderr)); err != nil {
		return nil, nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	return cfg, logger.Named(name), nil
}

type writeCmd struct {
	stdout io.Writer
	stderr io.Writer
	output string
}

func (*writeCmd) Name() string     { return "write" }
func (*writeCmd) Synopsis() string { return "write the initial analysis notebook to disk" }
func (*writeCmd) Usage() string {
	return `notebook write [-o <path>]

  Writes the fixed initial-analysis notebook (nbformat 4.4) and replaces any
  existing file. The parent directory must already exist. The default path
  is notebook_path from the configuration.
`
}

func (c *writeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output path. Overrides notebook_path.")
}

func (c *writeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup(ctx, c.stderr)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return subcommands.ExitFailure
	}
	path := cfg.NotebookPath
	if c.output != "" {
		path = c.output
	}

	nb := notebook.Initial()
	if err := notebook.Write(path, nb); err != nil {
		log.Error(ctx, "notebook not written", logger.String("path", path), logger.Error(err))
		return subcommands.ExitFailure
	}
	log.Info(ctx, "notebook written", logger.String("path", path), logger.Int("cells", len(nb.Cells)))
	fmt.Fprintln(c.stdout, path)
	return subcommands.ExitSuccess
}

type previewCmd struct {
	stdout io.Writer
	stderr io.Writer
	style  string
	width  int
}

func (*previewCmd) Name() string     { return "preview" }
func (*previewCmd) Synopsis() string { return "render the notebook cells in the terminal" }
func (*previewCmd) Usage() string {
	return `notebook preview [-style dark|light|notty] [-width <columns>]

  Prints every cell of the initial-analysis notebook as styled markdown,
  code cells as python blocks. Nothing is written to disk.
`
}

func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.style, "style", markdown.StyleDark, "Terminal style: dark, light or notty.")
	f.IntVar(&c.width, "width", 100, "Word wrap width in columns.")
}

func (c *previewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, log, err := setup(ctx, c.stderr)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return subcommands.ExitFailure
	}
	out, err := markdown.Terminal(notebook.Initial().Markdown(), c.style, c.width)
	if err != nil {
		log.Error(ctx, "preview failed", logger.String("style", c.style), logger.Error(err))
		return subcommands.ExitFailure
	}
	fmt.Fprint(c.stdout, out)
	return subcommands.ExitSuccess
}
