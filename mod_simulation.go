package galacto

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rgilks/galacto/shaders"
)

// Simulation owns the GPU-resident particle state and the compute pipeline
// advancing it. The particle buffer is created once at startup and never
// resized; its length and SimParams.ParticleCount are set together and never
// diverge.
type Simulation struct {
	cfg    SimulationConfig
	params SimParams

	// Paused stops kernel dispatch; rendering continues on the frozen
	// buffer and the camera stays live.
	Paused bool

	particleBuffer   *wgpu.Buffer
	paramsBuffer     *wgpu.Buffer
	computePipeline  *wgpu.ComputePipeline
	computeBindGroup *wgpu.BindGroup
	workgroups       uint32

	stepQueued bool
}

// updateShaderSource bakes the tunable kernel constants into the WGSL.
// Keeping them out of SimParams preserves the fixed 16-byte uniform layout.
func updateShaderSource(kp KernelParams, workgroupSize uint32) string {
	return fmt.Sprintf(
		"const DRAG: f32 = %g;\nconst RESTITUTION: f32 = %g;\nconst MAX_SPEED: f32 = %g;\nconst BOUNDARY: f32 = %g;\nconst WG_SIZE: u32 = %du;\n\n",
		kp.Drag, kp.Restitution, kp.MaxSpeed, kp.Boundary, workgroupSize,
	) + shaders.UpdateWGSL
}

// workgroupCount rounds the dispatch up so every particle gets an invocation;
// the shader guards the overhang.
func workgroupCount(particles, workgroupSize uint32) uint32 {
	return (particles + workgroupSize - 1) / workgroupSize
}

func NewSimulation(gpu *GpuState, cfg SimulationConfig, log *DefaultLogger) (*Simulation, error) {
	particles := GenerateParticles(cfg)

	particleBuffer, err := gpu.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Particle Buffer",
		Contents: wgpu.ToBytes(particles),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating particle buffer: %w", err)
	}

	params := SimParams{
		Dt:            cfg.Dt,
		Gm:            cfg.Gm,
		ParticleCount: cfg.ParticleCount,
	}
	paramsBuffer, err := gpu.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Params Buffer",
		Contents: wgpu.ToBytes([]SimParams{params}),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		particleBuffer.Release()
		return nil, fmt.Errorf("creating params buffer: %w", err)
	}

	shader, err := gpu.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Update CS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: updateShaderSource(cfg.KernelParams(), cfg.WorkgroupSize)},
	})
	if err != nil {
		return nil, fmt.Errorf("creating update shader: %w", err)
	}
	defer shader.Release()

	pipeline, err := gpu.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "Update Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: "update_particles",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating compute pipeline: %w", err)
	}

	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	bindGroup, err := gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Compute Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: particleBuffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: paramsBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating compute bind group: %w", err)
	}

	workgroups := workgroupCount(cfg.ParticleCount, cfg.WorkgroupSize)

	log.Infof("simulation ready: %d particles, %d workgroups of %d",
		cfg.ParticleCount, workgroups, cfg.WorkgroupSize)

	return &Simulation{
		cfg:              cfg,
		params:           params,
		particleBuffer:   particleBuffer,
		paramsBuffer:     paramsBuffer,
		computePipeline:  pipeline,
		computeBindGroup: bindGroup,
		workgroups:       workgroups,
	}, nil
}

// Reseed rewrites the particle buffer with a fresh copy of the seeded
// distribution. The buffer itself is reused; only its contents change.
func (sim *Simulation) Reseed(gpu *GpuState) {
	particles := GenerateParticles(sim.cfg)
	gpu.queue.WriteBuffer(sim.particleBuffer, 0, wgpu.ToBytes(particles))
}

// encodeStep records the compute pass for this frame, if one was queued by
// simulationSystem. Sharing the render encoder keeps kernel and draw on one
// command stream, so the buffer accesses never overlap.
func (sim *Simulation) encodeStep(encoder *wgpu.CommandEncoder) error {
	if !sim.stepQueued {
		return nil
	}
	sim.stepQueued = false

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(sim.computePipeline)
	pass.SetBindGroup(0, sim.computeBindGroup, nil)
	pass.DispatchWorkgroups(sim.workgroups, 1, 1)
	if err := pass.End(); err != nil {
		return fmt.Errorf("compute pass: %w", err)
	}
	return nil
}

func (sim *Simulation) release() {
	sim.computeBindGroup.Release()
	sim.computePipeline.Release()
	sim.paramsBuffer.Release()
	sim.particleBuffer.Release()
}

// SimulationModule provides the Simulation resource and the per-frame system
// that handles pause/reseed and queues the kernel dispatch. Requires
// GpuModule.
type SimulationModule struct {
	Config SimulationConfig
}

func (m SimulationModule) Install(app *App, cmd *Commands) {
	gpu := ResourceOf[GpuState](app)
	log := ResourceOf[DefaultLogger](app)

	sim, err := NewSimulation(gpu, m.Config, log)
	if err != nil {
		panic(fmt.Sprintf("simulation init failed: %v", err))
	}
	cmd.AddResources(sim)
	app.UseSystem(System(simulationSystem).InStage(Update))
}

func simulationSystem(input *Input, sim *Simulation, gpu *GpuState, t *Time, log *DefaultLogger) {
	if input.JustPressed[KeySpace] {
		sim.Paused = !sim.Paused
		if sim.Paused {
			log.Infof("simulation paused")
		} else {
			log.Infof("simulation resumed")
		}
	}

	if input.JustPressed[KeyR] && input.Pressed[KeyShift] {
		sim.Reseed(gpu)
		log.Infof("simulation reseeded")
	}

	if sim.Paused {
		sim.stepQueued = false
		return
	}

	// Measured frame time, capped for integration stability; the fixed dt
	// is the fallback for the first frame.
	dt := float32(t.Dt.Seconds())
	if dt <= 0 {
		dt = sim.cfg.Dt
	}
	if dt > sim.cfg.MaxDt {
		dt = sim.cfg.MaxDt
	}
	sim.params.Dt = dt

	gpu.queue.WriteBuffer(sim.paramsBuffer, 0, wgpu.ToBytes([]SimParams{sim.params}))
	sim.stepQueued = true
}
