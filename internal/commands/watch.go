package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okra-platform/tagstream/internal/config"
	"github.com/okra-platform/tagstream/internal/dev"
)

// WatchDependencies for the watch command
type WatchDependencies struct {
	ConfigLoader   ConfigLoader
	SessionFactory SessionFactory
	SignalNotifier SignalNotifier
	Output         Output
}

type SessionFactory interface {
	NewSession(cfg *config.Config, projectRoot string, out io.Writer) Session
}

type Session interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// SignalNotifier abstracts os/signal for tests
type SignalNotifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// Output receives the progress messages of a command
type Output interface {
	io.Writer
	Printf(format string, args ...any)
	Println(args ...any)
}

type defaultSessionFactory struct{}

func (f *defaultSessionFactory) NewSession(cfg *config.Config, projectRoot string, out io.Writer) Session {
	return dev.NewSession(cfg, projectRoot, out)
}

type defaultSignalNotifier struct{}

func (n *defaultSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (n *defaultSignalNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

type writerOutput struct {
	io.Writer
}

func (o writerOutput) Printf(format string, args ...any) {
	fmt.Fprintf(o.Writer, format, args...)
}

func (o writerOutput) Println(args ...any) {
	fmt.Fprintln(o.Writer, args...)
}

// WatchCommand encapsulates the watch logic with injected dependencies
type WatchCommand struct {
	deps  WatchDependencies
	flags *Flags
}

// NewWatchCommand creates a new watch command with default dependencies
func NewWatchCommand(out io.Writer) *WatchCommand {
	return &WatchCommand{
		deps: WatchDependencies{
			ConfigLoader:   &defaultConfigLoader{},
			SessionFactory: &defaultSessionFactory{},
			SignalNotifier: &defaultSignalNotifier{},
			Output:         writerOutput{out},
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (wc *WatchCommand) WithDependencies(deps WatchDependencies) *WatchCommand {
	wc.deps = deps
	return wc
}

// WithFlags applies flag overrides to the loaded config
func (wc *WatchCommand) WithFlags(flags *Flags) *WatchCommand {
	wc.flags = flags
	return wc
}

// Execute runs the watch command
func (wc *WatchCommand) Execute(ctx context.Context) error {
	cfg, projectRoot, err := wc.deps.ConfigLoader.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}
	if wc.flags != nil {
		if wc.flags.Root != "" {
			cfg.Root = wc.flags.Root
		}
		if wc.flags.Data != "" {
			cfg.Data = wc.flags.Data
		}
		if wc.flags.Format != "" {
			cfg.Format = wc.flags.Format
		}
	}

	wc.deps.Output.Printf("Watching %s\n", cfg.Name)
	wc.deps.Output.Printf("Project root: %s\n", projectRoot)
	wc.deps.Output.Printf("Schema: %s\n", cfg.Path(projectRoot, cfg.Schema))
	if cfg.Data != "" {
		wc.deps.Output.Printf("Data: %s\n", cfg.Path(projectRoot, cfg.Data))
	}
	wc.deps.Output.Printf("Format: %s\n", cfg.Format)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	wc.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer wc.deps.SignalNotifier.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			wc.deps.Output.Println("Stopping watch...")
			cancel()
		case <-ctx.Done():
		}
	}()

	session := wc.deps.SessionFactory.NewSession(cfg, projectRoot, wc.deps.Output)
	if err := session.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("watch error: %w", err)
	}

	return nil
}

// Watch re-checks and re-drains the project shape on every change
func (c *Controller) Watch(ctx context.Context) error {
	cmd := NewWatchCommand(c.out()).WithFlags(c.flags())
	if c.loader != nil {
		cmd.deps.ConfigLoader = c.loader
	}
	return cmd.Execute(ctx)
}
