package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagRadius     = flag.Float64("radius", 0, "Sphere radius")
	flagIterations = flag.Int("iterations", 0, "Resolve passes per update")
	flagFrontFace  = flag.String("front-face", "", "Outward winding: cw or ccw")
	flagDeepest    = flag.Bool("deepest", false, "Apply only the deepest contact per pass")
	flagMesh       = flag.String("mesh", "", "Collision mesh file (.stl or .tri)")
	flagWatch      = flag.Bool("watch", false, "Rebuild the mesh when the file changes")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file")
)

// ParseArgs parses flags from args, for tools that consume a subcommand first.
func ParseArgs(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the non-flag arguments left after parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagRadius > 0 {
		cfg.Collision.Radius = float32(*flagRadius)
	}
	if *flagIterations > 0 {
		cfg.Collision.MaxIterations = *flagIterations
	}
	if *flagFrontFace != "" {
		cfg.Collision.FrontFace = *flagFrontFace
	}
	if *flagDeepest {
		cfg.Collision.Deepest = true
	}
	if *flagMesh != "" {
		cfg.Mesh.Path = *flagMesh
	}
	if *flagWatch {
		cfg.Mesh.Watch = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
