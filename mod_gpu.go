package galacto

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
)

// GpuState owns the WebGPU device objects shared by the simulation and render
// modules: surface, device, queue and the depth buffer sized to the surface.
type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
}

func createGpuState(s *WindowState) (*GpuState, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps the GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	// finds a suitable GPU (discrete GPU preferred)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting adapter: %w", err)
	}
	// allocates the device and command queue
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("requesting device: %w", err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	// swapchain behavior: Fifo present mode gives vsync frame pacing
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}

	surface.Configure(adapter, device, &surfaceConfig)

	g := &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}
	if err := g.createDepthTexture(surfaceConfig.Width, surfaceConfig.Height); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GpuState) createDepthTexture(width, height uint32) error {
	if g.depthTexture != nil {
		g.depthView.Release()
		g.depthTexture.Release()
	}
	tex, err := g.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("creating depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("creating depth view: %w", err)
	}
	g.depthTexture = tex
	g.depthView = view
	return nil
}

// resize reconfigures the surface and recreates the depth buffer. Zero-sized
// framebuffers (minimized window) are ignored.
func (g *GpuState) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	g.surfaceConfig.Width = uint32(width)
	g.surfaceConfig.Height = uint32(height)
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)
	return g.createDepthTexture(uint32(width), uint32(height))
}

// AspectRatio of the current render target.
func (g *GpuState) AspectRatio() float32 {
	if g.surfaceConfig.Height == 0 {
		return 1
	}
	return float32(g.surfaceConfig.Width) / float32(g.surfaceConfig.Height)
}

func (g *GpuState) release() {
	if g.depthView != nil {
		g.depthView.Release()
		g.depthTexture.Release()
	}
	g.device.Release()
	g.adapter.Release()
	g.surface.Release()
}

// GpuModule provides the GpuState resource. Requires PlatformWindowModule.
type GpuModule struct{}

func (m GpuModule) Install(app *App, cmd *Commands) {
	ws := ResourceOf[WindowState](app)
	gpu, err := createGpuState(ws)
	if err != nil {
		panic(fmt.Sprintf("GPU init failed: %v", err))
	}
	cmd.AddResources(gpu)
	app.UseSystem(System(gpuResizeSystem).InStage(PreUpdate))
}

func gpuResizeSystem(s *WindowState, gpu *GpuState, log *DefaultLogger) {
	w, h, ok := s.takeResize()
	if !ok {
		return
	}
	if err := gpu.resize(w, h); err != nil {
		log.Errorf("resize to %dx%d failed: %v", w, h, err)
		return
	}
	log.Debugf("viewport resized to %dx%d", w, h)
}
