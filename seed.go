package galacto

import (
	"math"
	"math/rand"
)

// Seeding constants for the initial distribution: a loose disk of stars near
// the central mass plus a broad tangential stream falling in from one side.
const (
	seedCloseStars   = 500
	seedDiskMinR     = 20.0
	seedDiskMaxR     = 80.0
	seedDiskFlatten  = 0.3
	seedOrbitFactor  = 0.8 // slightly below circular-orbit speed
	seedStreamX      = 10.0
	seedStreamZ      = 100.0
	seedStreamHalfY  = 150.0
	seedStreamSpeedX = 150.0
)

// GenerateParticles builds the initial particle population. The distribution
// is a pure function of the configured seed, so a given config always
// produces the same starting state.
func GenerateParticles(cfg SimulationConfig) []Particle {
	rng := rand.New(rand.NewSource(cfg.Seed))
	particles := make([]Particle, 0, cfg.ParticleCount)

	closeStars := uint32(seedCloseStars)
	if closeStars > cfg.ParticleCount {
		closeStars = cfg.ParticleCount
	}

	// Scattered stars on roughly circular orbits, flattened toward the disk
	// plane.
	for i := uint32(0); i < closeStars; i++ {
		radius := seedDiskMinR + rng.Float64()*(seedDiskMaxR-seedDiskMinR)
		theta := rng.Float64() * 2 * math.Pi
		phi := rng.Float64() - 0.5

		x := radius * math.Cos(theta) * math.Cos(phi)
		y := radius * math.Sin(phi) * seedDiskFlatten
		z := radius * math.Sin(theta) * math.Cos(phi)

		// Tangential velocity, slightly below the circular-orbit speed so
		// the disk slowly tightens instead of dispersing.
		speed := math.Sqrt(float64(cfg.Gm)/radius) * seedOrbitFactor

		particles = append(particles, Particle{
			Pos: [3]float32{float32(x), float32(y), float32(z)},
			Vel: [3]float32{float32(-math.Sin(theta) * speed), 0, float32(math.Cos(theta) * speed)},
		})
	}

	// The main stream: a sheet of particles with tangential velocity,
	// spread along Y.
	for i := closeStars; i < cfg.ParticleCount; i++ {
		y := -seedStreamHalfY + rng.Float64()*(2*seedStreamHalfY)

		particles = append(particles, Particle{
			Pos: [3]float32{seedStreamX, float32(y), seedStreamZ},
			Vel: [3]float32{seedStreamSpeedX, 0, 0},
		})
	}

	return particles
}
