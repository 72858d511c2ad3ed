package galacto

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable of the simulation. The embedded defaults always
// load first; an optional user file overlays individual fields on top.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Simulation SimulationConfig `yaml:"simulation"`
	Camera     CameraConfig     `yaml:"camera"`
	Render     RenderConfig     `yaml:"render"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// SimulationConfig holds the physics constants shared by the GPU kernel and
// its CPU mirror. Drag, restitution and the speed clamp are deliberately
// tunable; observed useful ranges vary widely between scenes.
type SimulationConfig struct {
	ParticleCount uint32  `yaml:"particle_count"`
	WorkgroupSize uint32  `yaml:"workgroup_size"`
	Gm            float32 `yaml:"gm"`          // gravitational parameter G * central mass
	Dt            float32 `yaml:"dt"`          // fallback fixed step, seconds
	MaxDt         float32 `yaml:"max_dt"`      // cap on the measured frame step
	Drag          float32 `yaml:"drag"`        // velocity retained per step, (0, 1]
	Restitution   float32 `yaml:"restitution"` // velocity retained after a boundary bounce
	MaxSpeed      float32 `yaml:"max_speed"`   // 0 disables the clamp
	Boundary      float32 `yaml:"boundary"`    // half-extent of the world cube
	Seed          int64   `yaml:"seed"`
}

// CameraConfig holds the orbit controller defaults and limits.
type CameraConfig struct {
	Fov         float32 `yaml:"fov"` // vertical field of view, degrees
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	Yaw         float32 `yaml:"yaw"`   // degrees
	Pitch       float32 `yaml:"pitch"` // degrees
	Distance    float32 `yaml:"distance"`
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`

	OrbitSensitivity float32 `yaml:"orbit_sensitivity"` // degrees per pixel
	PanSensitivity   float32 `yaml:"pan_sensitivity"`   // fraction of distance per pixel
	ZoomSensitivity  float32 `yaml:"zoom_sensitivity"`  // fraction of distance per wheel tick
}

// RenderConfig holds the particle render pass tunables.
type RenderConfig struct {
	ReferenceSpeed float32    `yaml:"reference_speed"` // speed mapped to the hot end of the palette
	ClearColor     [3]float64 `yaml:"clear_color"`
}

// LoadConfig parses the embedded defaults and, if path is non-empty, overlays
// the user file. The result is validated; an invalid configuration aborts
// before any GPU resource is created.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	s := &c.Simulation
	if s.ParticleCount == 0 {
		return fmt.Errorf("simulation.particle_count must be positive")
	}
	if s.ParticleCount > 1<<24 {
		return fmt.Errorf("simulation.particle_count %d is absurd (max %d)", s.ParticleCount, 1<<24)
	}
	if s.WorkgroupSize == 0 || s.WorkgroupSize > 256 {
		return fmt.Errorf("simulation.workgroup_size %d out of range [1, 256]", s.WorkgroupSize)
	}
	if s.Dt <= 0 {
		return fmt.Errorf("simulation.dt must be positive")
	}
	if s.MaxDt < s.Dt {
		return fmt.Errorf("simulation.max_dt %g is below simulation.dt %g", s.MaxDt, s.Dt)
	}
	if s.Gm < 0 {
		return fmt.Errorf("simulation.gm must not be negative")
	}
	if s.Drag <= 0 || s.Drag > 1 {
		return fmt.Errorf("simulation.drag %g out of range (0, 1]", s.Drag)
	}
	if s.Restitution < 0 || s.Restitution > 1 {
		return fmt.Errorf("simulation.restitution %g out of range [0, 1]", s.Restitution)
	}
	if s.MaxSpeed < 0 {
		return fmt.Errorf("simulation.max_speed must not be negative")
	}
	if s.Boundary <= 0 {
		return fmt.Errorf("simulation.boundary must be positive")
	}

	cam := &c.Camera
	if cam.Fov <= 0 || cam.Fov >= 180 {
		return fmt.Errorf("camera.fov %g out of range (0, 180)", cam.Fov)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		return fmt.Errorf("camera near/far planes degenerate: near %g, far %g", cam.Near, cam.Far)
	}
	if cam.MinDistance <= 0 || cam.MaxDistance <= cam.MinDistance {
		return fmt.Errorf("camera distance limits degenerate: min %g, max %g", cam.MinDistance, cam.MaxDistance)
	}
	if cam.Distance < cam.MinDistance || cam.Distance > cam.MaxDistance {
		return fmt.Errorf("camera.distance %g outside [%g, %g]", cam.Distance, cam.MinDistance, cam.MaxDistance)
	}

	if c.Render.ReferenceSpeed <= 0 {
		return fmt.Errorf("render.reference_speed must be positive")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive: %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}
