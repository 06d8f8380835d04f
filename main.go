package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/renderer"
	"github.com/df07/go-loom/pkg/scene"
	"github.com/df07/go-loom/pkg/summary"
	"github.com/df07/go-loom/web/server"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "loom: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "loom"
	app.Usage = "sharded, resumable path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "quiet, q",
			Usage:  "disable progress logging",
			EnvVar: "LOOM_QUIET",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene into a checkpoint and an image",
			Description: `
Render a built-in scene or a JSON scene document. Samples are split across
independent shards; every --interval samples per shard the merged result is
written to <output>.ckpt and <output>.<format>, so an interrupted render keeps
its progress and can be continued with --resume.`,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "scene, s", Value: "default", Usage: "built-in scene name", EnvVar: "LOOM_SCENE"},
				cli.StringFlag{Name: "input, i", Usage: "JSON scene document (overrides --scene)", EnvVar: "LOOM_INPUT"},
				cli.StringFlag{Name: "output, o", Usage: "output path without extension (default output/<scene>/render_<timestamp>)", EnvVar: "LOOM_OUTPUT"},
				cli.StringFlag{Name: "format, f", Value: "png", Usage: "image format: png, ppm or raw", EnvVar: "LOOM_FORMAT"},
				cli.IntFlag{Name: "width", Usage: "image width (0 = height times camera aspect)", EnvVar: "LOOM_WIDTH"},
				cli.IntFlag{Name: "height", Value: renderer.DefaultConfig().Height, Usage: "image height", EnvVar: "LOOM_HEIGHT"},
				cli.IntFlag{Name: "samples, n", Value: renderer.DefaultConfig().Samples, Usage: "samples per pixel", EnvVar: "LOOM_SAMPLES"},
				cli.IntFlag{Name: "shards", Value: renderer.DefaultConfig().Shards, Usage: "independent sample streams (0 = logical CPUs, which makes output host dependent)", EnvVar: "LOOM_SHARDS"},
				cli.IntFlag{Name: "interval", Usage: "samples per shard between checkpoints (0 = only at the end)", EnvVar: "LOOM_INTERVAL"},
				cli.Int64Flag{Name: "seed", Value: renderer.DefaultConfig().Seed, Usage: "base random seed", EnvVar: "LOOM_SEED"},
				cli.IntFlag{Name: "max-bounces", Value: renderer.DefaultConfig().MaxBounces, Usage: "path length cap", EnvVar: "LOOM_MAX_BOUNCES"},
				cli.StringFlag{Name: "resume, r", Usage: "checkpoint to continue from", EnvVar: "LOOM_RESUME"},
			},
			Action: renderAction,
		},
		{
			Name:      "combine",
			Usage:     "merge checkpoints of the same image",
			ArgsUsage: "a.ckpt b.ckpt ...",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "output, o", Usage: "merged checkpoint path"},
				cli.StringFlag{Name: "image", Usage: "also write the merged image (format from extension)"},
			},
			Action: combineAction,
		},
		{
			Name:      "export",
			Usage:     "write the image stored in a checkpoint",
			ArgsUsage: "render.ckpt",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "output, o", Usage: "image path (format from extension unless --format is given)"},
				cli.StringFlag{Name: "format, f", Usage: "png, ppm or raw"},
				cli.IntFlag{Name: "subsample", Value: 1, Usage: "average NxN pixel blocks"},
				cli.BoolFlag{Name: "tonemap", Usage: "apply Reinhard tone mapping (png only)"},
				cli.Float64Flag{Name: "key", Value: summary.DefaultKey, Usage: "tone mapping key"},
				cli.Float64Flag{Name: "white", Usage: "tone mapping white point (0 = brightest pixel)"},
			},
			Action: exportAction,
		},
		{
			Name:  "info",
			Usage: "describe the host and the available scenes",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "scenes-dir", Value: "scenes", Usage: "directory searched for JSON scene documents", EnvVar: "LOOM_SCENES_DIR"},
			},
			Action: infoAction,
		},
		{
			Name:  "serve",
			Usage: "stream progressive renders over HTTP",
			Description: `
Serve /api/scenes, /api/render and /api/inspect. Render requests stream every
checkpoint round as a base64 PNG using server-sent events.`,
			Flags: []cli.Flag{
				cli.IntFlag{Name: "port, p", Value: 8080, Usage: "port to serve on", EnvVar: "LOOM_PORT"},
				cli.StringFlag{Name: "scenes-dir", Value: "scenes", Usage: "directory searched for JSON scene documents", EnvVar: "LOOM_SCENES_DIR"},
			},
			Action: serveAction,
		},
	}
	return app
}

func newLogger(c *cli.Context) core.Logger {
	if c.GlobalBool("quiet") {
		return core.NopLogger{}
	}
	return renderer.NewDefaultLogger()
}

// createScene returns the scene document at input if given, otherwise the
// named built-in scene
func createScene(sceneType, input string, seed int64, logger core.Logger) (*scene.Scene, error) {
	if input != "" {
		return scene.LoadFile(input, seed, logger)
	}
	if sceneType == "" {
		return nil, errors.New("no scene given")
	}
	return scene.Builtin(sceneType)
}

func renderConfig(c *cli.Context) (renderer.Config, error) {
	cfg := renderer.DefaultConfig()
	cfg.Width = c.Int("width")
	cfg.Height = c.Int("height")
	cfg.Samples = c.Int("samples")
	cfg.Shards = c.Int("shards")
	cfg.CheckpointInterval = c.Int("interval")
	cfg.Seed = c.Int64("seed")
	cfg.MaxBounces = c.Int("max-bounces")

	if path := c.String("resume"); path != "" {
		resume, err := summary.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg.Resume = resume
	}
	return cfg, cfg.Validate()
}

func renderAction(c *cli.Context) error {
	logger := newLogger(c)

	format := strings.ToLower(c.String("format"))
	if !validFormat(format) {
		return fmt.Errorf("unknown image format %q", format)
	}

	cfg, err := renderConfig(c)
	if err != nil {
		return err
	}

	s, err := createScene(c.String("scene"), c.String("input"), cfg.Seed, logger)
	if err != nil {
		return err
	}
	world, camera, err := s.Compile(cfg.Seed)
	if err != nil {
		return err
	}
	logger.Printf("scene has %d primitives", s.GetPrimitiveCount())

	output := c.String("output")
	if output == "" {
		name := c.String("scene")
		if input := c.String("input"); input != "" {
			name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		}
		output = filepath.Join("output", name, "render_"+time.Now().Format("20060102_150405"))
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	save := func(merged *summary.ImageSummary) error {
		if err := merged.Save(output + ".ckpt"); err != nil {
			return err
		}
		return writeImage(merged, output+"."+format, format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	merged, stats, err := renderer.Render(ctx, world, camera, cfg, logger,
		func(merged *summary.ImageSummary, stats renderer.RenderStats) error {
			return save(merged)
		})
	if err != nil {
		if merged != nil && errors.Is(err, context.Canceled) {
			if saveErr := save(merged); saveErr != nil {
				return saveErr
			}
			return fmt.Errorf("render interrupted at %d samples per pixel, partial result in %s.ckpt: %w",
				merged.Samples, output, err)
		}
		return err
	}

	logger.Printf("wrote %s.ckpt and %s.%s (%dx%d, %d samples per pixel)",
		output, output, format, stats.Width, stats.Height, stats.SamplesPerPixel)
	return nil
}

func combineAction(c *cli.Context) error {
	logger := newLogger(c)

	if c.NArg() == 0 {
		return errors.New("combine needs at least one checkpoint")
	}
	output := c.String("output")
	if output == "" && c.String("image") == "" {
		return errors.New("combine needs --output or --image")
	}

	parts := make([]*summary.ImageSummary, 0, c.NArg())
	for _, path := range c.Args() {
		part, err := summary.Load(path)
		if err != nil {
			return err
		}
		parts = append(parts, part)
	}

	merged, err := summary.MergeAll(parts...)
	if err != nil {
		return err
	}

	if output != "" {
		if err := merged.Save(output); err != nil {
			return err
		}
		logger.Printf("merged %d checkpoints into %s (%d samples per pixel)", len(parts), output, merged.Samples)
	}
	if image := c.String("image"); image != "" {
		if err := writeImage(merged, image, formatFromPath(image)); err != nil {
			return err
		}
	}
	return nil
}

func exportAction(c *cli.Context) error {
	logger := newLogger(c)

	if c.NArg() != 1 {
		return errors.New("export needs exactly one checkpoint")
	}
	input := c.Args().First()
	s, err := summary.Load(input)
	if err != nil {
		return err
	}

	output := c.String("output")
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
	}
	format := strings.ToLower(c.String("format"))
	if format == "" {
		format = formatFromPath(output)
	}
	if !validFormat(format) {
		return fmt.Errorf("unknown image format %q", format)
	}

	if factor := c.Int("subsample"); factor > 1 {
		s = s.Subsample(factor)
	}

	if c.Bool("tonemap") {
		if format != "png" {
			return fmt.Errorf("tone mapping writes png, not %s", format)
		}
		file, err := os.Create(output)
		if err != nil {
			return err
		}
		if err := png.Encode(file, s.ToneMapReinhard(c.Float64("key"), c.Float64("white"))); err != nil {
			file.Close()
			return fmt.Errorf("encoding png: %w", err)
		}
		if err := file.Close(); err != nil {
			return err
		}
	} else if err := writeImage(s, output, format); err != nil {
		return err
	}

	logger.Printf("exported %s (%dx%d) to %s", input, s.Width, s.Height, output)
	return nil
}

func infoAction(c *cli.Context) error {
	out := c.App.Writer

	host, err := renderer.DetectHost()
	if err != nil {
		newLogger(c).Printf("host detection incomplete: %v", err)
	}
	fmt.Fprintf(out, "CPU:     %s\n", host.ModelName)
	fmt.Fprintf(out, "Cores:   %d logical, %d physical\n", host.LogicalCores, host.PhysicalCores)
	fmt.Fprintf(out, "Memory:  %d MiB total, %d MiB available\n", host.TotalMemory>>20, host.AvailableMemory>>20)

	scenes, err := scene.ListAllScenes(c.String("scenes-dir"))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Scenes:")
	for _, info := range scenes {
		label := info.ID
		if info.Type == "file" {
			label = info.FilePath
		}
		fmt.Fprintf(out, "  %-24s %s", label, info.Name)
		if info.Description != "" {
			fmt.Fprintf(out, ": %s", info.Description)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func serveAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := c.Int("port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}
	return server.NewServer(port, c.String("scenes-dir"), newLogger(c)).Start(ctx)
}

func validFormat(format string) bool {
	switch format {
	case "png", "ppm", "raw":
		return true
	}
	return false
}

// formatFromPath maps .ppm and .raw/.txt extensions to their formats and
// everything else to png
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return "ppm"
	case ".raw", ".txt":
		return "raw"
	default:
		return "png"
	}
}

// writeImage writes s to path in the given format
func writeImage(s *summary.ImageSummary, path, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}

	switch format {
	case "ppm":
		err = s.WritePPM(file)
	case "raw":
		err = s.WriteRaw(file)
	case "png":
		err = s.WritePNG(file)
	default:
		err = fmt.Errorf("unknown image format %q", format)
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
