// Package main provides the CLI entry point for gifplayer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/AT-290690/gif-player/pkg/adapters/dropfolder"
	"github.com/AT-290690/gif-player/pkg/adapters/filesink"
	"github.com/AT-290690/gif-player/pkg/adapters/ggrenderer"
	"github.com/AT-290690/gif-player/pkg/adapters/ggsurface"
	"github.com/AT-290690/gif-player/pkg/adapters/gifdecoder"
	"github.com/AT-290690/gif-player/pkg/adapters/gifencoder"
	"github.com/AT-290690/gif-player/pkg/adapters/logger"
	"github.com/AT-290690/gif-player/pkg/adapters/nullsink"
	"github.com/AT-290690/gif-player/pkg/adapters/nullsurface"
	"github.com/AT-290690/gif-player/pkg/adapters/osfilesystem"
	"github.com/AT-290690/gif-player/pkg/config"
	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/playback"
	"github.com/AT-290690/gif-player/pkg/ports"
	"github.com/AT-290690/gif-player/pkg/stages/decode"
	"github.com/AT-290690/gif-player/pkg/summarizer"
	"github.com/AT-290690/gif-player/pkg/workspace"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			os.Exit(ec.ExitCode())
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "gifplayer",
		Usage:   l10n.T("Play, scrub and cut animated GIFs"),
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML or TOML configuration file")},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: l10n.T("Suppress all log output")},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Save decoded sequences, painted frames and clips")},
			&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output")},
		},
		Commands: []*cli.Command{
			probeCommand(),
			cutCommand(),
			framesCommand(),
			playCommand(),
			watchCommand(),
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("gifplayer version %s", version))
					return nil
				},
			},
		},
		// Exit codes are applied by main so that Run can be called from tests.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// env holds what every command needs.
type env struct {
	cfg      config.Config
	log      ports.Logger
	fs       *osfilesystem.FileSystem
	renderer *ggrenderer.Renderer
	sink     ports.DebugSink
	out      io.Writer
}

func setup(c *cli.Context) (*env, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, cli.Exit(err.Error(), 2)
		}
		cfg = loaded
	}
	if c.IsSet("log-level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(c.String("log-level"))); err != nil {
			return nil, cli.Exit(err.Error(), 2)
		}
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}

	e := &env{
		cfg:      cfg,
		fs:       osfilesystem.New(),
		renderer: ggrenderer.New(),
		out:      c.App.Writer,
	}

	switch {
	case c.Bool("quiet") || cfg.LogLevel == ports.LevelQuiet:
		e.log = logger.NewNoop()
	case c.App.Writer == os.Stdout:
		e.log = logger.NewConsole(cfg.LogLevel)
	default:
		e.log = logger.NewWriter(cfg.LogLevel, c.App.Writer, c.App.ErrWriter)
	}

	if cfg.Debug {
		if err := e.fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		e.sink = filesink.New(cfg.DebugDir, e.fs, e.renderer)
	} else {
		e.sink = nullsink.New()
	}
	return e, nil
}

func (e *env) workspace(workers int) *workspace.Workspace {
	if workers <= 0 {
		workers = e.cfg.Workers
	}
	return workspace.New(
		gifdecoder.New(),
		gifencoder.New(workers),
		e.renderer,
		e.sink,
		e.log,
		e.cfg.ToWorkspaceConfig(),
	)
}

// readGIF reads path, refusing files that do not look like GIFs before any
// decoding is attempted.
func (e *env) readGIF(path string) ([]byte, error) {
	if !dropfolder.IsGIFName(path) {
		return nil, cli.Exit(l10n.F("%s: only .gif files are accepted", path), 2)
	}
	data, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gifdecoder.IsGIF(data) {
		return nil, fmt.Errorf("%s: %w", path, pipeline.ErrMalformedContainer)
	}
	return data, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func (e *env) signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			e.log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func fileArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(l10n.F("%s requires exactly one FILE argument", c.Command.Name), 2)
	}
	return c.Args().First(), nil
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Show the header and frame table of a GIF"),
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: l10n.T("Report format (text, markdown)")},
			&cli.StringFlag{Name: "report", Usage: l10n.T("Also write the report to this file")},
		},
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			formatter, err := summarizer.ForName(c.String("format"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			data, err := e.readGIF(path)
			if err != nil {
				return err
			}

			stage := decode.NewStage(gifdecoder.New(), e.sink, e.log)
			res, err := stage.Execute(c.Context, pipeline.DecodeInput{Name: filepath.Base(path), Data: data})
			if err != nil {
				return err
			}

			// The controller reports the delays a player actually waits.
			ctrl, err := playback.New(res.Sequence, nullsurface.New(),
				playback.WithMinDelay(time.Duration(e.cfg.MinDelayMs)*time.Millisecond),
				playback.WithDefaultDelay(time.Duration(e.cfg.DefaultDelayMs)*time.Millisecond),
			)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			summary := summarizer.NewBuilder().
				WithSource(path, len(data)).
				WithSequence(res.Sequence, ctrl.EffectiveDelay).
				Build()

			w := summarizer.NewWriter(formatter, e.fs)
			if err := w.Print(e.out, summary); err != nil {
				return err
			}
			if report := c.String("report"); report != "" {
				if err := w.Write(report, summary); err != nil {
					return err
				}
				e.log.Info("Report written to %s", report)
			}
			return nil
		},
	}
}

func cutCommand() *cli.Command {
	return &cli.Command{
		Name:      "cut",
		Usage:     l10n.T("Cut a frame range into a new GIF (reversed when start > end)"),
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "start", Aliases: []string{"s"}, Usage: l10n.T("First frame of the clip")},
			&cli.IntFlag{Name: "end", Aliases: []string{"e"}, Value: -1, Usage: l10n.T("Last frame of the clip (-1 for the last frame)")},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: l10n.T("Output GIF file path")},
			&cli.BoolFlag{Name: "no-flatten", Usage: l10n.T("Keep partial frames instead of compositing each onto the canvas")},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: l10n.T("Frames compressed in parallel")},
		},
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			if c.Bool("no-flatten") {
				e.cfg.Flatten = false
			}
			data, err := e.readGIF(path)
			if err != nil {
				return err
			}

			ctx, cancel := e.signalContext(c.Context)
			defer cancel()

			ws := e.workspace(c.Int("workers"))
			src, err := ws.Load(ctx, filepath.Base(path), data)
			if err != nil {
				return err
			}
			defer src.Remove()

			r := pipeline.ClipRange{Start: c.Int("start"), End: c.Int("end")}
			if r.End < 0 {
				r.End = src.Len() - 1
			}
			if err := src.SetCutRange(r); err != nil {
				return cli.Exit(err.Error(), 2)
			}

			job := src.Cut()
			select {
			case <-job.Done():
			case <-ctx.Done():
				src.Remove()
			}
			clip, err := job.Result()
			if err != nil {
				return err
			}
			defer clip.Remove()

			output := c.String("output")
			if err := e.fs.WriteFile(output, clip.Data()); err != nil {
				e.log.Error("Failed to write output: %v", err)
				return fmt.Errorf("write output: %w", err)
			}
			e.log.Info("Output saved to %s (%d frames, %s)", output, clip.Len(), humanize.Bytes(uint64(len(clip.Data()))))
			return nil
		},
	}
}

func framesCommand() *cli.Command {
	return &cli.Command{
		Name:      "frames",
		Usage:     l10n.T("Export every composited frame as PNG"),
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: l10n.T("Output directory")},
		},
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			data, err := e.readGIF(path)
			if err != nil {
				return err
			}

			name := filepath.Base(path)
			res, err := decode.NewStage(gifdecoder.New(), e.sink, e.log).
				Execute(c.Context, pipeline.DecodeInput{Name: name, Data: data})
			if err != nil {
				return err
			}
			seq := res.Sequence

			dir := c.String("output")
			if err := e.fs.MkdirAll(dir); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			sink := filesink.New(dir, e.fs, e.renderer)
			surface := ggsurface.New(seq, e.renderer, e.cfg.SurfaceOptions()).WithSink(sink, name)

			// Stepping paints every frame in order, starting with frame 0.
			ctrl, err := playback.New(seq, surface, playback.WithLogger(e.log))
			if err != nil {
				return err
			}
			defer ctrl.Close()
			for i := 1; i < seq.Len(); i++ {
				ctrl.StepForward()
			}
			if surface.Paints() != seq.Len() {
				return fmt.Errorf("painted %d of %d frames", surface.Paints(), seq.Len())
			}

			e.log.Info("Wrote %d frames to %s", seq.Len(), dir)
			return nil
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     l10n.T("Play a GIF headlessly and report progress"),
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "duration", Usage: l10n.T("How long to play (default: one loop)")},
		},
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			data, err := e.readGIF(path)
			if err != nil {
				return err
			}

			ctx, cancel := e.signalContext(c.Context)
			defer cancel()

			inst, err := e.workspace(0).Load(ctx, filepath.Base(path), data)
			if err != nil {
				return err
			}
			defer inst.Remove()

			d := c.Duration("duration")
			if d <= 0 {
				ctrl, err := playback.New(inst.Sequence(), nullsurface.New(),
					playback.WithMinDelay(time.Duration(e.cfg.MinDelayMs)*time.Millisecond),
					playback.WithDefaultDelay(time.Duration(e.cfg.DefaultDelayMs)*time.Millisecond),
				)
				if err != nil {
					return err
				}
				for _, f := range inst.Sequence().Frames {
					d += ctrl.EffectiveDelay(f)
				}
				ctrl.Close()
			}

			start := time.Now()
			inst.Play()
			select {
			case <-time.After(d):
			case <-ctx.Done():
			}
			inst.Pause()

			fmt.Fprintln(e.out, l10n.F("Painted %d frames in %v, stopped at frame %d",
				inst.Surface().Paints(), time.Since(start).Round(time.Millisecond), inst.Current()))
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     l10n.T("Load every GIF dropped into a directory"),
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "existing", Usage: l10n.T("Also load GIFs already in the directory")},
			&cli.BoolFlag{Name: "play", Usage: l10n.T("Start playing each loaded GIF")},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit(l10n.T("watch requires exactly one DIR argument"), 2)
			}
			dir := c.Args().First()
			e, err := setup(c)
			if err != nil {
				return err
			}

			ctx, cancel := e.signalContext(c.Context)
			defer cancel()

			ws := e.workspace(0)
			var loaded []*workspace.Instance
			defer func() {
				for _, inst := range loaded {
					inst.Remove()
				}
			}()

			load := func(batch dropfolder.Batch) {
				if !batch.Accepted() {
					e.log.Warn("Refusing %d files: only .gif files can be dropped", len(batch.Files)+len(batch.Rejected))
					return
				}
				for _, path := range batch.Files {
					data, err := e.fs.ReadFile(path)
					if err != nil {
						e.log.Error("Failed to load %s: %v", path, err)
						continue
					}
					inst, err := ws.Load(ctx, filepath.Base(path), data)
					if err != nil {
						continue
					}
					loaded = append(loaded, inst)
					seq := inst.Sequence()
					fmt.Fprintln(e.out, l10n.F("instance %d: %s (%dx%d, %d frames)",
						inst.ID(), inst.Name(), seq.Width, seq.Height, seq.Len()))
					if c.Bool("play") {
						inst.Play()
					}
				}
			}

			batches := make(chan dropfolder.Batch)
			w, err := dropfolder.NewWatcher(ctx, dir, batches, e.cfg.WatchDebounce(), e.log)
			if err != nil {
				return err
			}
			defer w.Close()

			if c.Bool("existing") {
				batch, err := dropfolder.Scan(e.fs, dir)
				if err != nil {
					return err
				}
				// Existing files are loaded one by one; stray files in the
				// directory do not block the GIFs next to them.
				if len(batch.Files) > 0 {
					load(dropfolder.Batch{Files: batch.Files})
				}
				if len(batch.Rejected) > 0 {
					e.log.Debug("Skipping %s", strings.Join(batch.Rejected, ", "))
				}
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case batch := <-batches:
					load(batch)
				}
			}
		},
	}
}
