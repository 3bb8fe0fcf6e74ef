package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lldpgraph/internal/codec"
	"lldpgraph/internal/domain"
	"lldpgraph/internal/render"
	"lldpgraph/internal/ui"
)

func newRenderCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <topology.json|topology.yaml>",
		Short: "Redraw a diagram from an exported topology",
		Long: `Render a topology written by --export json or --export yaml again,
for example with another title or layout, without polling the devices.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, o, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.output, "output", "o", "", "diagram file (default: diagram.html)")
	flags.StringVar(&o.title, "title", "", "diagram title (default: dated LLDP title)")
	flags.BoolVar(&o.noColor, "no-color", false, "do not color links by interface speed")
	flags.BoolVar(&o.cdn, "cdn", false, "load vis-network from the CDN instead of files/")
	flags.BoolVar(&o.physics, "physics", false, "enable the physics layout")
	return cmd
}

func runRender(cmd *cobra.Command, o *options, path string) error {
	start := time.Now()
	ui.Output = cmd.OutOrStdout()

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError("Failed to load config", err.Error(), ""))
		return reported(err)
	}

	fragment, err := importTopology(path)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError("Failed to read topology", err.Error(), "export one with --export json"))
		return reported(err)
	}

	opts := renderOptions(cfg)
	graph := render.DeriveGraph(fragment, opts)
	if err := render.WriteFile(cfg.Output.Path, graph, opts); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError("Failed to write output", err.Error(), ""))
		return reported(err)
	}

	ui.Success(fmt.Sprintf("Wrote %s (%s)", cfg.Output.Path, render.Summary(graph)))
	ui.Finish(time.Since(start))
	return nil
}

func importTopology(path string) (*domain.GraphFragment, error) {
	importer, err := codec.ImporterFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open topology: %w", err)
	}
	defer f.Close()

	return importer.Parse(f)
}
