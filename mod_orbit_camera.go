package galacto

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits a target point at a clamped distance. Angles are stored
// in degrees; the eye position is derived spherically on every matrix build,
// so there is no drift between the stored state and the rendered view.
type OrbitCamera struct {
	Target   mgl32.Vec3
	Yaw      float32 // around world Y
	Pitch    float32 // clamped to avoid gimbal flip
	Distance float32

	Fov    float32
	Aspect float32
	Near   float32
	Far    float32

	minDistance float32
	maxDistance float32

	orbitSensitivity float32
	panSensitivity   float32
	zoomSensitivity  float32

	home CameraConfig
}

const pitchLimit = 89.0

func NewOrbitCamera(cfg CameraConfig) *OrbitCamera {
	cam := &OrbitCamera{
		Fov:              cfg.Fov,
		Aspect:           1,
		Near:             cfg.Near,
		Far:              cfg.Far,
		minDistance:      cfg.MinDistance,
		maxDistance:      cfg.MaxDistance,
		orbitSensitivity: cfg.OrbitSensitivity,
		panSensitivity:   cfg.PanSensitivity,
		zoomSensitivity:  cfg.ZoomSensitivity,
		home:             cfg,
	}
	cam.Reset()
	return cam
}

// Orbit adjusts the yaw and pitch angles around the target, in degrees.
func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	if c.Pitch > pitchLimit {
		c.Pitch = pitchLimit
	}
	if c.Pitch < -pitchLimit {
		c.Pitch = -pitchLimit
	}
}

// Pan translates the target in the camera's local right/up plane. The offset
// scales with the current distance so pan speed feels the same at any zoom.
func (c *OrbitCamera) Pan(deltaX, deltaY float32) {
	forward := c.Target.Sub(c.Eye()).Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up := right.Cross(forward)

	scale := c.panSensitivity * c.Distance
	c.Target = c.Target.Add(right.Mul(-deltaX * scale)).Add(up.Mul(deltaY * scale))
}

// Zoom scales the eye-to-target distance multiplicatively. Positive delta
// (wheel up) moves closer. Distance never leaves [min, max].
func (c *OrbitCamera) Zoom(delta float32) {
	factor := 1 - delta*c.zoomSensitivity
	if factor < 0.1 {
		factor = 0.1
	}
	if factor > 10 {
		factor = 10
	}
	c.Distance = clampf(c.Distance*factor, c.minDistance, c.maxDistance)
}

// Reset restores the configured home view. The aspect ratio is left alone;
// it tracks the viewport, not the user.
func (c *OrbitCamera) Reset() {
	c.Target = mgl32.Vec3{0, 0, 0}
	c.Yaw = c.home.Yaw
	c.Pitch = c.home.Pitch
	c.Distance = clampf(c.home.Distance, c.minDistance, c.maxDistance)
}

// Eye derives the camera position from target, angles and distance.
func (c *OrbitCamera) Eye() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	dist := clampf(c.Distance, c.minDistance, c.maxDistance)

	offset := mgl32.Vec3{
		float32(math.Cos(pitch) * math.Sin(yaw)),
		float32(math.Sin(pitch)),
		float32(math.Cos(pitch) * math.Cos(yaw)),
	}.Mul(dist)
	return c.Target.Add(offset)
}

// ViewProjection builds the combined clip-space transform for the frame.
// Pure function of the camera state.
func (c *OrbitCamera) ViewProjection() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	view := mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
	return proj.Mul4(view)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// OrbitCameraModule provides the OrbitCamera resource and the system mapping
// raw input onto it: left-drag orbits, right-drag pans, wheel zooms, R resets
// the view and Escape closes the window. Each event is applied exactly once,
// in receipt order, before the frame renders.
type OrbitCameraModule struct {
	Config CameraConfig
}

func (m OrbitCameraModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewOrbitCamera(m.Config))
	app.UseSystem(System(orbitCameraSystem).InStage(Update))
}

func orbitCameraSystem(input *Input, cam *OrbitCamera, gpu *GpuState, s *WindowState, log *DefaultLogger) {
	cam.Aspect = gpu.AspectRatio()

	dx := float32(input.MouseDeltaX)
	dy := float32(input.MouseDeltaY)

	if input.Pressed[MouseButtonLeft] {
		cam.Orbit(dx*cam.orbitSensitivity, -dy*cam.orbitSensitivity)
	} else if input.Pressed[MouseButtonRight] {
		cam.Pan(dx, dy)
	}

	if input.WheelDelta != 0 {
		cam.Zoom(float32(input.WheelDelta))
	}

	if input.JustPressed[KeyR] && !input.Pressed[KeyShift] {
		cam.Reset()
		log.Infof("camera reset")
	}

	if input.JustPressed[KeyEscape] {
		s.Close()
	}
}
