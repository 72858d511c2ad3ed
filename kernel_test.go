package galacto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func radius(p Particle) float64 {
	x := float64(p.Pos[0])
	y := float64(p.Pos[1])
	z := float64(p.Pos[2])
	return math.Sqrt(x*x + y*y + z*z)
}

func speed(p Particle) float64 {
	x := float64(p.Vel[0])
	y := float64(p.Vel[1])
	z := float64(p.Vel[2])
	return math.Sqrt(x*x + y*y + z*z)
}

// circularOrbit places a particle on a circular orbit of the given radius in
// the XZ plane: v = sqrt(gm / r), tangential.
func circularOrbit(r, gm float32) Particle {
	v := float32(math.Sqrt(float64(gm / r)))
	return Particle{
		Pos: [3]float32{r, 0, 0},
		Vel: [3]float32{0, 0, v},
	}
}

func TestStepParticleZeroDtIsNoop(t *testing.T) {
	p := Particle{
		Pos: [3]float32{100, -20, 3},
		Vel: [3]float32{5, 12, -7},
	}
	before := p

	kp := KernelParams{Dt: 0, Gm: 40000, Drag: 0.999, Restitution: 0.8, MaxSpeed: 500, Boundary: 1500}
	StepParticle(&p, kp)

	if p != before {
		t.Errorf("zero dt changed state: before %+v, after %+v", before, p)
	}
}

func TestStepParticleDragDecay(t *testing.T) {
	// With gm = 0 nothing accelerates, so velocity decays geometrically.
	p := Particle{Vel: [3]float32{100, 0, 0}}
	kp := KernelParams{Dt: 0.01, Gm: 0, Drag: 0.9, Restitution: 1, Boundary: 1e6}

	for i := 0; i < 10; i++ {
		StepParticle(&p, kp)
	}

	want := 100 * math.Pow(0.9, 10)
	assert.InDelta(t, want, float64(p.Vel[0]), want*1e-4)
	assert.Zero(t, p.Vel[1])
	assert.Zero(t, p.Vel[2])
}

func TestStepParticleBoundaryReflection(t *testing.T) {
	// Moving +X past the wall: position snaps onto the wall exactly and the
	// X velocity flips, scaled by restitution.
	const boundary = 100
	p := Particle{
		Pos: [3]float32{99, 0, 0},
		Vel: [3]float32{50, 0, 0},
	}
	kp := KernelParams{Dt: 0.1, Gm: 0, Drag: 1, Restitution: 0.8, Boundary: boundary}

	StepParticle(&p, kp)

	require.Equal(t, float32(boundary), p.Pos[0])
	require.Equal(t, float32(-50*0.8), p.Vel[0])

	// And the opposite wall.
	p = Particle{
		Pos: [3]float32{0, -99, 0},
		Vel: [3]float32{0, -50, 0},
	}
	StepParticle(&p, kp)

	require.Equal(t, float32(-boundary), p.Pos[1])
	require.Equal(t, float32(50*0.8), p.Vel[1])
}

func TestStepParticleSpeedClamp(t *testing.T) {
	p := Particle{Vel: [3]float32{300, 400, 0}} // speed 500
	kp := KernelParams{Dt: 0.01, Gm: 0, Drag: 1, MaxSpeed: 10, Boundary: 1e6}

	StepParticle(&p, kp)

	assert.InDelta(t, 10, speed(p), 1e-3)
	// Direction is preserved.
	assert.InDelta(t, 300.0/400.0, float64(p.Vel[0]/p.Vel[1]), 1e-5)
}

func TestStepParticleSpeedClampDisabled(t *testing.T) {
	p := Particle{Vel: [3]float32{300, 400, 0}}
	kp := KernelParams{Dt: 0.01, Gm: 0, Drag: 1, MaxSpeed: 0, Boundary: 1e6}

	StepParticle(&p, kp)

	assert.InDelta(t, 500, speed(p), 1e-3)
}

func TestStepParticleOriginStaysFinite(t *testing.T) {
	// A particle exactly on the central mass must not blow up.
	p := Particle{}
	kp := KernelParams{Dt: 0.016, Gm: 40000, Drag: 1, Restitution: 0.8, Boundary: 1500}

	for i := 0; i < 100; i++ {
		StepParticle(&p, kp)
	}

	for axis := 0; axis < 3; axis++ {
		require.False(t, math.IsNaN(float64(p.Pos[axis])), "pos[%d] is NaN", axis)
		require.False(t, math.IsNaN(float64(p.Vel[axis])), "vel[%d] is NaN", axis)
	}
}

func TestCircularOrbitHoldsRadius(t *testing.T) {
	// Explicit Euler drifts, but over 600 steps at this dt a circular orbit
	// must hold its radius to within a few percent.
	const gm = 40000
	p := circularOrbit(100, gm)
	kp := KernelParams{Dt: 0.016, Gm: gm, Drag: 1, Restitution: 0.8, Boundary: 1e6}

	for i := 0; i < 600; i++ {
		StepParticle(&p, kp)
	}

	r := radius(p)
	if r < 95 || r > 105 {
		t.Errorf("orbit radius drifted to %f, want within [95, 105]", r)
	}
}

func TestStepParticlesOrbitsStayBounded(t *testing.T) {
	const gm = 40000
	radii := []float32{60, 100, 200, 400}

	particles := make([]Particle, len(radii))
	for i, r := range radii {
		particles[i] = circularOrbit(r, gm)
	}

	kp := KernelParams{Dt: 0.016, Gm: gm, Drag: 1, Restitution: 0.8, Boundary: 1e6}
	for step := 0; step < 600; step++ {
		StepParticles(particles, kp)
	}

	for i, r0 := range radii {
		r := radius(particles[i])
		drift := math.Abs(r/float64(r0) - 1)
		assert.Lessf(t, drift, 0.05, "orbit %d: radius %f drifted %.2f%% from %f", i, r, drift*100, r0)

		for axis := 0; axis < 3; axis++ {
			require.False(t, math.IsNaN(float64(particles[i].Pos[axis])))
			require.False(t, math.IsNaN(float64(particles[i].Vel[axis])))
		}
	}
}

func TestKernelParamsFromConfig(t *testing.T) {
	cfg := SimulationConfig{
		Dt:          0.02,
		Gm:          1234,
		Drag:        0.99,
		Restitution: 0.5,
		MaxSpeed:    250,
		Boundary:    900,
	}

	kp := cfg.KernelParams()
	assert.Equal(t, cfg.Dt, kp.Dt)
	assert.Equal(t, cfg.Gm, kp.Gm)
	assert.Equal(t, cfg.Drag, kp.Drag)
	assert.Equal(t, cfg.Restitution, kp.Restitution)
	assert.Equal(t, cfg.MaxSpeed, kp.MaxSpeed)
	assert.Equal(t, cfg.Boundary, kp.Boundary)
}
