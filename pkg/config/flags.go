package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config alone.
type Flags struct {
	Config   string
	Out      string
	Font     string
	Renderer string
	Workers  int
	Debug    bool
	Compress bool
	Scene    bool
	DryRun   bool
}

// Bind registers the config flags on fs.
func Bind(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.StringVar(&f.Out, "out", "", "Output directory")
	fs.StringVar(&f.Font, "font", "", "TrueType font for labels")
	fs.StringVar(&f.Renderer, "renderer", "", "Mesher: octree or uniform")
	fs.IntVar(&f.Workers, "workers", 0, "Bricks built in parallel")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Compress, "compress", false, "Write zstd-compressed STL")
	fs.BoolVar(&f.Scene, "scene", false, "Export bricks at their layout offset")
	fs.BoolVar(&f.DryRun, "dry-run", false, "Build trees without meshing")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Out != "" {
		cfg.Output.Dir = f.Out
	}
	if f.Font != "" {
		cfg.Assets.FontPath = f.Font
	}
	if f.Renderer != "" {
		cfg.Mesh.Renderer = f.Renderer
	}
	if f.Workers > 0 {
		cfg.Batch.Workers = f.Workers
	}
	if f.Compress {
		cfg.Output.Compress = true
	}
	if f.Scene {
		cfg.Output.Scene = true
	}
	if f.DryRun {
		cfg.Batch.DryRun = true
	}
}
