package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/srg/blimp/internal/goble"
	"github.com/srg/blimp/internal/peripheral"
	"golang.org/x/term"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Advertise and notify subscribed centrals",
	Long: `Start the BLE peripheral: advertise the configured device name and
service, and push a fresh random value to every subscribed central once per
notify period. Runs until interrupted (Ctrl+C) or until --duration elapses.

Subscriptions and departures are printed as they happen; notification and
read counters are printed on exit.`,
	Example: `  blimp serve
  blimp serve --name bench-01 --period 500ms
  blimp serve --config blimp.yaml --duration 1m`,
	RunE: runServe,
}

var (
	serveName     string
	servePeriod   time.Duration
	serveDuration time.Duration
	serveVerbose  bool
	serveNoColor  bool
)

func init() {
	serveCmd.Flags().StringVarP(&serveName, "name", "n", "", "Advertised device name (overrides config)")
	serveCmd.Flags().DurationVarP(&servePeriod, "period", "p", 0, "Notification period (overrides config)")
	serveCmd.Flags().DurationVarP(&serveDuration, "duration", "d", 0, "Stop after this long (0 runs until interrupted)")
	serveCmd.Flags().BoolVar(&serveVerbose, "verbose", false, "Enable debug logging")
	serveCmd.Flags().BoolVar(&serveNoColor, "no-color", false, "Disable coloured event output")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serveName != "" {
		cfg.DeviceName = serveName
	}
	if servePeriod != 0 {
		cfg.NotifyPeriod = servePeriod
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	logger := configureLogger(cmd, cfg, "verbose")

	server, err := goble.NewServer(cfg.ServerOptions(), logger)
	if err != nil {
		return err
	}
	p, err := peripheral.New(cfg.PeripheralOptions(), server, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if serveDuration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, serveDuration)
		defer stop()
	}

	out := cmd.OutOrStdout()
	printer := newEventPrinter(out, !serveNoColor && isColorTerminal(out))

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for ev := range p.Events() {
			printer.Print(ev)
		}
	}()

	fmt.Fprintf(out, "Advertising %q (service %s), notifying every %s. Press Ctrl+C to stop.\n",
		cfg.DeviceName, cfg.ServiceUUID, cfg.NotifyPeriod)

	serveErr := server.Serve(ctx, p)

	if err := p.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close peripheral")
	}
	<-printed

	printer.PrintStats(p.Stats())

	if serveErr != nil {
		logger.WithError(serveErr).Debug("serve failed")
		return serveErr
	}
	return nil
}

// eventPrinter renders peer events one per line
type eventPrinter struct {
	out        io.Writer
	connected  *color.Color
	departed   *color.Color
	dim        *color.Color
	timeFormat string
}

func newEventPrinter(out io.Writer, colors bool) *eventPrinter {
	p := &eventPrinter{
		out:        out,
		connected:  color.New(color.FgGreen, color.Bold),
		departed:   color.New(color.FgYellow),
		dim:        color.New(color.Faint),
		timeFormat: "15:04:05",
	}
	for _, c := range []*color.Color{p.connected, p.departed, p.dim} {
		if colors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Print writes one event line
func (p *eventPrinter) Print(ev peripheral.PeerEvent) {
	ts := p.dim.Sprint(ev.At.Format(p.timeFormat))

	switch ev.Type {
	case peripheral.PeerConnected:
		fmt.Fprintf(p.out, "%s %s %s (peers: %d)\n", ts, p.connected.Sprint("+ connected   "), ev.Peer, ev.Connected)
	case peripheral.PeerDisconnected:
		fmt.Fprintf(p.out, "%s %s %s (peers: %d)\n", ts, p.departed.Sprint("- disconnected"), ev.Peer, ev.Connected)
	default:
		fmt.Fprintf(p.out, "%s %s %s\n", ts, ev.Type, ev.Peer)
	}
}

// PrintStats writes the shutdown summary
func (p *eventPrinter) PrintStats(st peripheral.Stats) {
	fmt.Fprintf(p.out, "\nNotification cycles: %d (idle: %d)\n", st.Cycles, st.CyclesSkipped)
	fmt.Fprintf(p.out, "Notifications:       %d sent, %d failed\n", st.NotificationsSent, st.NotificationsFail)
	fmt.Fprintf(p.out, "Reads:               %d served, %d rejected\n", st.ReadsServed, st.ReadsRejected)
}

// isColorTerminal reports whether out is a terminal that accepts colour
func isColorTerminal(out io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

