package main

import (
	"flag"
	"log"

	"github.com/rgilks/galacto"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config overlaying the built-in defaults")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := galacto.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := galacto.NewAppBuilder().
		UseModule(
			galacto.LoggingModule{Prefix: "galacto", Debug: *debug},
			galacto.NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title),
			galacto.GpuModule{},
			galacto.TimeModule{},
			galacto.InputModule{},
			galacto.OrbitCameraModule{Config: cfg.Camera},
			galacto.SimulationModule{Config: cfg.Simulation},
			galacto.RenderModule{Config: cfg.Render},
		).
		Build()

	app.Run()
}
