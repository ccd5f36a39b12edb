package config

import "flag"

// Flags holds command-line overrides. Only flags set explicitly on the
// command line override file values.
type Flags struct {
	ConfigPath string
	Scene      string
	Width      int
	Height     int
	Strategy   string
	Workers    int
	Output     string
	Debug      bool
	Compare    string
	Port       int

	fs *flag.FlagSet
}

// RegisterFlags defines the raycaster flags on fs. Call fs.Parse before Load.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.StringVar(&f.Scene, "scene", "", "Scene to render: built-in name, yaml:<name>, or path to a .yaml scene")
	fs.IntVar(&f.Width, "width", 0, "Image width (0 keeps the scene default)")
	fs.IntVar(&f.Height, "height", 0, "Image height (0 keeps the scene default)")
	fs.StringVar(&f.Strategy, "strategy", "", "Render strategy: 'sequential' or 'parallel'")
	fs.IntVar(&f.Workers, "workers", 0, "Parallel worker count (0 = one per CPU)")
	fs.StringVar(&f.Output, "output", "", "Output image path (.png, .bmp, .tiff, .jpg)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Compare, "compare", "", "Reference image to compare the render against")
	fs.IntVar(&f.Port, "port", 0, "Port for the web server")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil || f.fs == nil {
		return
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "scene":
			cfg.Render.Scene = f.Scene
		case "width":
			cfg.Render.Width = f.Width
		case "height":
			cfg.Render.Height = f.Height
		case "strategy":
			cfg.Render.Strategy = f.Strategy
		case "workers":
			cfg.Render.Workers = f.Workers
		case "output":
			cfg.Output.Path = f.Output
			cfg.Output.Format = ""
		case "debug":
			if f.Debug {
				cfg.Logging.Level = "debug"
			}
		case "compare":
			cfg.Output.Compare = f.Compare
		case "port":
			cfg.Server.Port = f.Port
		}
	})
}
