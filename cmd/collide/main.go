// collide is a CLI utility for inspecting collision meshes and resolving
// sphere positions against them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshcollide/internal/config"
	"github.com/Faultbox/meshcollide/internal/controller"
	"github.com/Faultbox/meshcollide/internal/logger"
	"github.com/Faultbox/meshcollide/internal/meshio"
	"github.com/Faultbox/meshcollide/pkg/collision"
	"github.com/Faultbox/meshcollide/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "resolve":
		cmdResolve(args)
	case "contacts":
		cmdContacts(args)
	case "watch":
		cmdWatch(args)
	case "convert":
		cmdConvert(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
}

func printUsage() {
	fmt.Println(`collide - sphere vs triangle mesh collision utility

Usage:
  collide <command> [flags] [arguments]

Commands:
  info [mesh]                  Show triangle count, skipped triangles and bounds
  resolve [mesh] <x> <y> <z>   Push a sphere at (x, y, z) out of the mesh
  contacts [mesh] <x> <y> <z>  List triangles the sphere penetrates
  watch [mesh]                 Rebuild the mesh whenever the file changes
  convert <in> <out.tri>       Convert a mesh to the raw TRI format (applies mesh.scale)
  config [path]                Write the effective configuration as YAML

Flags (before arguments):
  -config <file>      Config file (default ./meshcollide.yaml)
  -radius <r>         Sphere radius
  -iterations <n>     Resolve passes
  -front-face cw|ccw  Outward winding
  -deepest            Apply only the deepest contact per pass
  -mesh <file>        Mesh file when not given as an argument
  -watch              resolve: re-resolve whenever the mesh file changes
  -debug              Debug logging
  -log-file <file>    Also log to a rotating file

Examples:
  collide info level.stl
  collide resolve -radius 0.5 -front-face ccw level.stl 0.25 0.25 0.1
  collide watch -mesh level.tri`)
}

// setup parses flags, loads the config and starts the logger.
// It returns the remaining positional arguments.
func setup(args []string) (*config.Config, []string) {
	if err := config.ParseArgs(args); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	return cfg, config.Args()
}

// meshPath takes the mesh from the first argument when more than want
// arguments remain, falling back to the configured path.
func meshPath(cfg *config.Config, args []string, want int) (string, []string) {
	if len(args) > want {
		return args[0], args[1:]
	}
	return cfg.Mesh.Path, args
}

// scaled applies mesh.scale to a vertex buffer.
func scaled(cfg *config.Config, vertices []float32) []float32 {
	if s := cfg.Mesh.Scale; s != 1 {
		return meshio.Transform(vertices, math.Scale(s, s, s))
	}
	return vertices
}

func builder(cfg *config.Config) meshio.BuildFunc {
	opts := cfg.BuildOptions()
	return func(vertices []float32) *collision.Mesh {
		return collision.Build(scaled(cfg, vertices), opts...)
	}
}

func loadMesh(cfg *config.Config, path string) *collision.Mesh {
	if path == "" {
		fail("no mesh given (argument or -mesh)")
	}
	vertices, err := meshio.Load(path)
	if err != nil {
		fail(err.Error())
	}
	if len(vertices)%9 != 0 {
		logger.Debug("dropping trailing partial triangle", zap.String("path", path))
	}
	mesh := builder(cfg)(vertices)
	if mesh.Skipped() > 0 {
		logger.Warn("dropped degenerate or tiny triangles",
			zap.String("path", path),
			zap.Int("skipped", mesh.Skipped()),
			zap.Float32("min_area", cfg.Collision.MinTriangleArea))
	}
	return mesh
}

func cmdInfo(args []string) {
	cfg, rest := setup(args)
	path, _ := meshPath(cfg, rest, 0)
	mesh := loadMesh(cfg, path)

	degenerate := 0
	var area float32
	for _, tri := range mesh.Triangles() {
		if tri.Degenerate() {
			degenerate++
			continue
		}
		area += tri.Area()
	}

	b := mesh.Bounds()
	fmt.Printf("Mesh:       %s\n", path)
	fmt.Printf("Triangles:  %d\n", mesh.Len())
	fmt.Printf("Skipped:    %d\n", mesh.Skipped())
	fmt.Printf("Degenerate: %d\n", degenerate)
	fmt.Printf("Area:       %.4f\n", area)
	fmt.Printf("Front face: %s\n", cfg.Collision.FrontFace)
	if b.Empty() {
		fmt.Println("Bounds:     (empty)")
		return
	}
	size := b.Size()
	fmt.Printf("Bounds:     (%.4f, %.4f, %.4f) - (%.4f, %.4f, %.4f)\n",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	center := b.Center()
	fmt.Printf("Size:       %.4f x %.4f x %.4f\n", size.X, size.Y, size.Z)
	fmt.Printf("Center:     (%.4f, %.4f, %.4f)\n", center.X, center.Y, center.Z)
}

func parsePoint(args []string) math.Vec3 {
	if len(args) != 3 {
		fail("expected a point: <x> <y> <z>")
	}
	var v [3]float32
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			fail(fmt.Sprintf("invalid coordinate %q: %v", a, err))
		}
		v[i] = float32(f)
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func cmdResolve(args []string) {
	cfg, rest := setup(args)
	path, rest := meshPath(cfg, rest, 3)
	if path == "" {
		fail("no mesh given (argument or -mesh)")
	}
	start := parsePoint(rest)

	var source controller.MeshSource
	var watcher *meshio.Watcher
	if cfg.Mesh.Watch {
		w, err := meshio.NewWatcher(path, builder(cfg), logger.Named("watch"))
		if err != nil {
			fail(err.Error())
		}
		defer w.Close()
		source, watcher = w, w
	} else {
		source = controller.StaticMesh(loadMesh(cfg, path))
	}

	c := controller.NewController(source, start, cfg.Collision.Radius)
	c.MaxIterations = cfg.Collision.MaxIterations
	c.Deepest = cfg.Collision.Deepest

	moved, err := c.Update(context.Background())
	if err != nil {
		fail(err.Error())
	}
	fmt.Printf("Start:  (%g, %g, %g)\n", start.X, start.Y, start.Z)
	printResolved(c, start, moved)

	if watcher == nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Watching %s, Ctrl+C to stop\n", path)
	err = c.Follow(ctx, watcher, func(moved bool) {
		fmt.Printf("Reloaded: %d triangles\n", watcher.Mesh().Len())
		printResolved(c, start, moved)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fail(err.Error())
	}
}

func printResolved(c *controller.Controller, start math.Vec3, moved bool) {
	p := c.Position()
	fmt.Printf("Result: (%g, %g, %g)\n", p.X, p.Y, p.Z)
	fmt.Printf("Moved:  %v (%.6f)\n", moved, p.Distance(start))
}

func cmdContacts(args []string) {
	cfg, rest := setup(args)
	path, rest := meshPath(cfg, rest, 3)
	mesh := loadMesh(cfg, path)
	point := parsePoint(rest)

	contacts, err := mesh.Contacts(context.Background(), point, cfg.Collision.Radius)
	if err != nil {
		fail(err.Error())
	}

	fmt.Printf("%-8s %-10s %-10s %-12s %-12s %s\n", "INDEX", "S", "T", "DISTANCE", "PENETRATION", "NORMAL")
	for _, c := range contacts {
		fmt.Printf("%-8d %-10.4f %-10.4f %-12.6f %-12.6f (%.3f, %.3f, %.3f)\n",
			c.Index, c.S, c.T, math32.Sqrt(c.SqrDistance), c.Penetration,
			c.Normal.X, c.Normal.Y, c.Normal.Z)
	}
	fmt.Printf("\n%d of %d triangles in contact\n", len(contacts), mesh.Len())
}

func cmdWatch(args []string) {
	cfg, rest := setup(args)
	path, _ := meshPath(cfg, rest, 0)
	if path == "" {
		fail("no mesh given (argument or -mesh)")
	}

	w, err := meshio.NewWatcher(path, builder(cfg), logger.Named("watch"))
	if err != nil {
		fail(err.Error())
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Watching %s (%d triangles), Ctrl+C to stop\n", path, w.Mesh().Len())
	for {
		select {
		case m, ok := <-w.Reloads():
			if !ok {
				return
			}
			logger.Info("mesh reloaded", zap.Int("triangles", m.Len()), zap.Int("skipped", m.Skipped()))
			fmt.Printf("Reloaded: %d triangles, %d skipped\n", m.Len(), m.Skipped())
		case <-ctx.Done():
			return
		}
	}
}

func cmdConvert(args []string) {
	cfg, rest := setup(args)
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: collide convert <in> <out.tri>")
		os.Exit(1)
	}

	vertices, err := meshio.Load(rest[0])
	if err != nil {
		fail(err.Error())
	}
	vertices = scaled(cfg, vertices)

	if err := os.MkdirAll(filepath.Dir(rest[1]), 0755); err != nil {
		fail(err.Error())
	}
	if err := os.WriteFile(rest[1], meshio.EncodeTRI(vertices), 0644); err != nil {
		fail(err.Error())
	}
	logger.Info("mesh converted",
		zap.String("from", rest[0]),
		zap.String("to", rest[1]),
		zap.Float32("scale", cfg.Mesh.Scale))
	fmt.Printf("Wrote %d triangles to %s\n", len(vertices)/9, rest[1])
}

func cmdConfig(args []string) {
	cfg, rest := setup(args)

	var err error
	target := config.DefaultPath()
	if len(rest) > 0 {
		target = rest[0]
		err = cfg.SaveTo(target)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		fail(err.Error())
	}
	fmt.Printf("Wrote %s\n", target)
}

func fail(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	logger.Error("command failed", zap.String("error", msg))
	logger.Sync()
	os.Exit(1)
}
