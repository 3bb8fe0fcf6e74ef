package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lldpgraph/internal/adapter"
	"lldpgraph/internal/codec"
	"lldpgraph/internal/config"
	"lldpgraph/internal/domain"
	"lldpgraph/internal/inventory"
	"lldpgraph/internal/render"
	"lldpgraph/internal/service"
	"lldpgraph/internal/ui"
)

const noInputMessage = "***ERROR: must supply at least one argument***"

var errNoInput = errors.New("no devices to poll: use -i or --scan")

// options holds the flags of the discovery command
type options struct {
	cfgFile      string
	inputFile    string
	scanTargets  []string
	output       string
	title        string
	workers      int
	noColor      bool
	cdn          bool
	physics      bool
	exportFormat string
	exportPath   string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "lldpgraph -i <hostsFile>",
		Short: "Draw a network diagram from LLDP neighbor tables",
		Long: `lldpgraph logs in to every device in the hosts file over SSH, reads
"show lldp neighbors" and draws the links it finds as an interactive
vis-network HTML diagram.

Credentials come from the config file, then TACACS_USER, TACACS_PASS and
TACACS_SECRET (a .env file in the working directory is read first).`,
		Example: `  lldpgraph -i hosts.txt
  lldpgraph -i devices.yaml -o campus.html --export json
  lldpgraph --scan 10.10.0.0/24 --workers 20`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(o.verbose, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd, o)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.inputFile, "input", "i", "", "hosts file: one address per line, .csv or .yaml")
	flags.StringSliceVar(&o.scanTargets, "scan", nil, "CIDR range to scan for SSH hosts instead of a hosts file (repeatable)")
	flags.StringVarP(&o.output, "output", "o", "", "diagram file (default: diagram.html)")
	flags.StringVar(&o.title, "title", "", "diagram title (default: dated LLDP title)")
	flags.IntVarP(&o.workers, "workers", "w", 0, "devices polled in parallel")
	flags.BoolVar(&o.noColor, "no-color", false, "do not color links by interface speed")
	flags.BoolVar(&o.cdn, "cdn", false, "load vis-network from the CDN instead of files/")
	flags.BoolVar(&o.physics, "physics", false, "enable the physics layout")
	flags.StringVar(&o.exportFormat, "export", "", "also export the topology: json, yaml or ansible")
	flags.StringVar(&o.exportPath, "export-path", "", "export file (default: diagram name with the format's extension)")

	persistent := cmd.PersistentFlags()
	persistent.StringVarP(&o.cfgFile, "config", "c", "", "config file (default: lldpgraph.yaml or ~/.config/lldpgraph/config.yaml)")
	persistent.BoolVarP(&o.verbose, "verbose", "v", false, "print diagnostic logs to stderr")

	cmd.AddCommand(newServeCmd(), newRenderCmd(o), newInitCmd(o))
	return cmd
}

// setupLogging routes the log package to stderr only in verbose mode
func setupLogging(verbose bool, w io.Writer) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if verbose {
		log.SetOutput(w)
	} else {
		log.SetOutput(io.Discard)
	}
}

// loadConfig layers the config file, .env, environment and flags
func loadConfig(o *options) (*config.Config, error) {
	if err := config.LoadDotEnv(config.DotEnvFile); err != nil {
		ui.Warn(fmt.Sprintf("ignoring %s: %v", config.DotEnvFile, err))
	}

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if o.cfgFile != "" {
		cfg, path, err = config.LoadFromPath(o.cfgFile)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Printf("Config: loaded %s", path)
	}

	cfg.ApplyEnvironment()
	applyFlagOverrides(cfg, o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Printf("Config: %s", cfg.Summary())
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config, o *options) {
	if len(o.scanTargets) > 0 {
		cfg.Scan.Targets = o.scanTargets
	}
	if o.output != "" {
		cfg.Output.Path = o.output
	}
	if o.title != "" {
		cfg.Output.Title = o.title
	}
	if o.workers > 0 {
		cfg.Discovery.MaxConcurrent = o.workers
	}
	if o.noColor {
		cfg.Output.Colorize = false
	}
	if o.cdn {
		cfg.Output.LocalAssets = false
	}
	if o.physics {
		cfg.Output.Physics = true
	}
	if o.exportFormat != "" {
		cfg.Export.Format = strings.ToLower(o.exportFormat)
	}
	if o.exportPath != "" {
		cfg.Export.Path = o.exportPath
	}
}

func renderOptions(cfg *config.Config) render.Options {
	opts := render.DefaultOptions()
	if cfg.Output.Title != "" {
		opts.Title = cfg.Output.Title
	}
	opts.Colorize = cfg.Output.Colorize
	opts.LocalAssets = cfg.Output.LocalAssets
	opts.Physics = cfg.Output.Physics
	opts.NodeDistance = cfg.Output.NodeDistance
	opts.SpringLength = cfg.Output.SpringLength
	opts.Seed = cfg.Output.Seed
	opts.IconDir = cfg.Output.IconDir
	return opts
}

// exportPath returns where the topology export is written
func exportPath(cfg *config.Config) string {
	if cfg.Export.Path != "" {
		return cfg.Export.Path
	}
	base := strings.TrimSuffix(cfg.Output.Path, filepath.Ext(cfg.Output.Path))
	return base + codec.Extension(cfg.Export.Format)
}

func runDiscover(cmd *cobra.Command, o *options) error {
	start := time.Now()
	out := cmd.OutOrStdout()
	ui.Output = out

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError("Failed to load config", err.Error(), "run 'lldpgraph init' to create a config file"))
		return reported(err)
	}

	if o.inputFile == "" && len(cfg.Scan.Targets) == 0 {
		fmt.Fprintln(out, noInputMessage)
		_ = cmd.Usage()
		return reported(errNoInput)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventBus := service.NewEventBus()

	devices, err := loadDevices(ctx, cfg, o.inputFile, eventBus)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(out, ui.FormatError("Script ended by User", "", ""))
			return reported(service.ErrInterrupted)
		}
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError("No devices to poll", err.Error(), ""))
		return reported(err)
	}

	dialer := adapter.NewSSHDialer(adapter.SSHConfig{
		ConnectionTimeout: cfg.SSH.ConnectTimeout.Duration(),
		CommandTimeout:    cfg.SSH.CommandTimeout.Duration(),
		TerminalWidth:     cfg.SSH.TerminalWidth,
	})
	collector := adapter.NewLLDPCollector(dialer)
	collector.SetEventPublisher(eventBus)

	result, err := discover(ctx, service.NewDiscovery(collector, eventBus, cfg.Discovery.MaxConcurrent), eventBus, devices)
	if err != nil {
		return reportRunError(cmd, err)
	}

	if len(result.Failures) > 0 {
		ui.Warn(fmt.Sprintf("%d of %d devices skipped", len(result.Failures), result.Devices))
	}

	if err := writeOutputs(cfg, result); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError("Failed to write output", err.Error(), ""))
		return reported(err)
	}

	ui.Finish(time.Since(start))
	return nil
}

// loadDevices reads the hosts file, or scans for SSH hosts when none is given
func loadDevices(ctx context.Context, cfg *config.Config, inputFile string, eventBus *service.EventBus) ([]domain.Device, error) {
	defaults := inventory.Defaults{Credentials: cfg.Credentials, Port: cfg.SSH.Port}

	if inputFile != "" {
		return inventory.Load(inputFile, defaults)
	}

	scanner := adapter.NewNmapScanner(
		adapter.WithScanPort(cfg.Scan.Port),
		adapter.WithScanTimeout(cfg.Scan.Timeout.Duration()),
		adapter.WithSkipHostDiscovery(cfg.Scan.SkipHostDiscovery),
	)
	scanner.SetEventPublisher(eventBus)

	fmt.Fprintln(ui.Output, ui.Bold("Scanning "+strings.Join(cfg.Scan.Targets, ", ")+" for SSH hosts..."))
	addrs, err := scanner.Scan(ctx, cfg.Scan.Targets)
	if err != nil {
		return nil, err
	}
	return inventory.FromAddresses(addrs, defaults)
}

// discover runs the poll while printing one status line per device
func discover(ctx context.Context, discovery *service.Discovery, eventBus *service.EventBus, devices []domain.Device) (*service.Result, error) {
	// sized so a full run never drops a status line
	events := make(chan service.Event, 3*len(devices)+8)
	eventBus.Subscribe(events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			printEvent(event)
		}
	}()

	result, err := discovery.Run(ctx, devices)

	eventBus.Unsubscribe(events)
	close(events)
	<-done

	return result, err
}

func printEvent(event service.Event) {
	switch event.Type {
	case service.EventDeviceComplete:
		if report, ok := event.Payload.(adapter.DeviceReport); ok {
			ui.DeviceDone(report.Hostname, report.Neighbors)
		}
	case service.EventDeviceFailed:
		if ev, ok := event.Payload.(service.DeviceEvent); ok {
			ui.DeviceFailed(ev.Address, errors.New(ev.Error))
		}
	}
}

func reportRunError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, service.ErrInterrupted):
		fmt.Fprint(cmd.OutOrStdout(), ui.FormatError("Script ended by User", "", ""))
	case errors.Is(err, adapter.ErrAuthentication):
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError("Authentication failed", err.Error(),
			"check "+config.EnvUsername+", "+config.EnvPassword+" and "+config.EnvSecret))
	default:
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError("Discovery failed", err.Error(), ""))
	}
	return reported(err)
}

// writeOutputs renders the diagram and the optional topology export
func writeOutputs(cfg *config.Config, result *service.Result) error {
	opts := renderOptions(cfg)
	graph := render.DeriveGraph(result.Fragment, opts)
	if err := render.WriteFile(cfg.Output.Path, graph, opts); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Wrote %s (%s)", cfg.Output.Path, render.Summary(graph)))

	if cfg.Export.Format == "" {
		return nil
	}

	path := exportPath(cfg)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := result.Export(f, cfg.Export.Format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	ui.Success(fmt.Sprintf("Exported topology to %s", path))
	return nil
}
