package galacto

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Particle is the GPU-shared state of one point mass: tightly packed
// position and velocity, 24-byte stride, no padding. The buffer layout must
// match struct Particle in shaders/update.wgsl and shaders/render.wgsl.
type Particle struct {
	Pos [3]float32
	Vel [3]float32
}

// SimParams is the kernel uniform, rewritten once per frame. 16 bytes,
// matching WGSL uniform alignment.
type SimParams struct {
	Dt            float32
	Gm            float32
	ParticleCount uint32
	_             uint32
}

// KernelParams bundles the physics constants the kernel needs beyond
// SimParams. Drag, restitution and the speed clamp are tunables (see
// defaults.yaml); they are baked into the shader as constants and carried
// here for the CPU mirror.
type KernelParams struct {
	Dt          float32
	Gm          float32
	Drag        float32
	Restitution float32
	MaxSpeed    float32 // 0 disables the clamp
	Boundary    float32
}

func (c SimulationConfig) KernelParams() KernelParams {
	return KernelParams{
		Dt:          c.Dt,
		Gm:          c.Gm,
		Drag:        c.Drag,
		Restitution: c.Restitution,
		MaxSpeed:    c.MaxSpeed,
		Boundary:    c.Boundary,
	}
}

// kernelEpsilon keeps the inverse-distance finite for a particle sitting
// exactly on the central mass.
const kernelEpsilon = 1e-6

// StepParticle advances one particle by one explicit-Euler step under
// central gravity. This is the CPU mirror of update_particles in
// shaders/update.wgsl — the two must stay in sync, same math, same order.
// A zero dt is a no-op, so dispatching with dt = 0 leaves state unchanged.
//
// Particles are independent: the kernel reads and writes only particle i,
// so invocation order never matters.
func StepParticle(p *Particle, kp KernelParams) {
	if kp.Dt == 0 {
		return
	}

	pos := mgl32.Vec3{p.Pos[0], p.Pos[1], p.Pos[2]}
	vel := mgl32.Vec3{p.Vel[0], p.Vel[1], p.Vel[2]}

	// a = -gm * r / |r|^3
	r2 := pos.Dot(pos) + kernelEpsilon
	invR := float32(1.0 / math.Sqrt(float64(r2)))
	invR3 := invR * invR * invR
	accel := pos.Mul(-kp.Gm * invR3)

	vel = vel.Mul(kp.Drag).Add(accel.Mul(kp.Dt))
	pos = pos.Add(vel.Mul(kp.Dt))

	if kp.MaxSpeed > 0 {
		if speed := vel.Len(); speed > kp.MaxSpeed {
			vel = vel.Mul(kp.MaxSpeed / speed)
		}
	}

	// Reflect off the world cube axis by axis, losing energy per bounce.
	for axis := 0; axis < 3; axis++ {
		if pos[axis] > kp.Boundary {
			pos[axis] = kp.Boundary
			vel[axis] = -vel[axis] * kp.Restitution
		} else if pos[axis] < -kp.Boundary {
			pos[axis] = -kp.Boundary
			vel[axis] = -vel[axis] * kp.Restitution
		}
	}

	p.Pos = [3]float32{pos[0], pos[1], pos[2]}
	p.Vel = [3]float32{vel[0], vel[1], vel[2]}
}

// StepParticles advances a whole slice through the CPU kernel. Used by the
// headless tooling and tests; the windowed app dispatches the GPU kernel
// instead.
func StepParticles(particles []Particle, kp KernelParams) {
	for i := range particles {
		StepParticle(&particles[i], kp)
	}
}
