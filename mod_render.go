package galacto

import (
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rgilks/galacto/shaders"
)

// RenderState owns the particle render pipeline and the camera uniform. The
// render pass reads the same particle buffer the kernel writes, strictly
// after it on the frame's command stream.
type RenderState struct {
	cfg        RenderConfig
	clearColor wgpu.Color

	cameraBuffer    *wgpu.Buffer
	renderPipeline  *wgpu.RenderPipeline
	renderBindGroup *wgpu.BindGroup

	frameCount int
	fpsSince   time.Time
}

func renderShaderSource(cfg RenderConfig) string {
	return fmt.Sprintf("const REF_SPEED: f32 = %g;\n\n", cfg.ReferenceSpeed) + shaders.RenderWGSL
}

func NewRenderState(gpu *GpuState, sim *Simulation, cfg RenderConfig) (*RenderState, error) {
	cameraBuffer, err := gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Buffer",
		Size:  64, // one mat4x4<f32>
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating camera buffer: %w", err)
	}

	shader, err := gpu.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Particle VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: renderShaderSource(cfg)},
	})
	if err != nil {
		return nil, fmt.Errorf("creating render shader: %w", err)
	}
	defer shader.Release()

	pipeline, err := gpu.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Particle Pipeline",
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: gpu.surfaceConfig.Format,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
					},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyPointList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth32Float,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare:     wgpu.CompareFunctionAlways,
				FailOp:      wgpu.StencilOperationKeep,
				DepthFailOp: wgpu.StencilOperationKeep,
				PassOp:      wgpu.StencilOperationKeep,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare:     wgpu.CompareFunctionAlways,
				FailOp:      wgpu.StencilOperationKeep,
				DepthFailOp: wgpu.StencilOperationKeep,
				PassOp:      wgpu.StencilOperationKeep,
			},
			StencilReadMask:  0xFFFFFFFF,
			StencilWriteMask: 0xFFFFFFFF,
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating render pipeline: %w", err)
	}

	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	bindGroup, err := gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Render Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: cameraBuffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: sim.particleBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating render bind group: %w", err)
	}

	return &RenderState{
		cfg: cfg,
		clearColor: wgpu.Color{
			R: cfg.ClearColor[0],
			G: cfg.ClearColor[1],
			B: cfg.ClearColor[2],
			A: 1,
		},
		cameraBuffer:    cameraBuffer,
		renderPipeline:  pipeline,
		renderBindGroup: bindGroup,
		fpsSince:        time.Now(),
	}, nil
}

func (rs *RenderState) release() {
	rs.renderBindGroup.Release()
	rs.renderPipeline.Release()
	rs.cameraBuffer.Release()
}

// RenderModule provides the RenderState resource and the frame system that
// sequences param upload, kernel dispatch, camera upload, render pass and
// presentation. Requires GpuModule and SimulationModule.
type RenderModule struct {
	Config RenderConfig
}

func (m RenderModule) Install(app *App, cmd *Commands) {
	gpu := ResourceOf[GpuState](app)
	sim := ResourceOf[Simulation](app)

	rs, err := NewRenderState(gpu, sim, m.Config)
	if err != nil {
		panic(fmt.Sprintf("render init failed: %v", err))
	}
	cmd.AddResources(rs)
	app.UseSystem(System(renderSystem).InStage(Render))
}

// renderSystem draws one frame. A frame either fully completes — kernel,
// camera upload, render pass, present — or the error is logged and nothing
// is presented.
func renderSystem(sim *Simulation, cam *OrbitCamera, gpu *GpuState, rs *RenderState, log *DefaultLogger) {
	viewProj := cam.ViewProjection()
	gpu.queue.WriteBuffer(rs.cameraBuffer, 0, wgpu.ToBytes(viewProj[:]))

	surfaceTexture, err := gpu.surface.GetCurrentTexture()
	if err != nil {
		log.Errorf("acquiring surface texture: %v", err)
		return
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		log.Errorf("creating surface view: %v", err)
		return
	}
	defer view.Release()

	encoder, err := gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		log.Errorf("creating command encoder: %v", err)
		return
	}

	// Kernel first: the render pass below reads the buffer it writes, and
	// command-stream order is the only synchronization needed.
	if err := sim.encodeStep(encoder); err != nil {
		log.Errorf("encoding kernel dispatch: %v", err)
		return
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Particle Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: rs.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            gpu.depthView,
			DepthClearValue: 1.0,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
		},
	})
	pass.SetPipeline(rs.renderPipeline)
	pass.SetBindGroup(0, rs.renderBindGroup, nil)
	pass.Draw(sim.params.ParticleCount, 1, 0, 0)
	if err := pass.End(); err != nil {
		log.Errorf("render pass: %v", err)
		return
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		log.Errorf("finishing encoder: %v", err)
		return
	}
	gpu.queue.Submit(cmdBuffer)
	gpu.surface.Present()

	rs.frameCount++
	if elapsed := time.Since(rs.fpsSince); elapsed >= time.Second {
		log.Debugf("fps: %.1f", float64(rs.frameCount)/elapsed.Seconds())
		rs.frameCount = 0
		rs.fpsSince = time.Now()
	}
}
