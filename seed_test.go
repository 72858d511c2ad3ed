package galacto

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSimConfig(count uint32, seed int64) SimulationConfig {
	return SimulationConfig{
		ParticleCount: count,
		WorkgroupSize: 64,
		Gm:            40000,
		Dt:            0.016666,
		MaxDt:         0.033,
		Drag:          0.999,
		Restitution:   0.8,
		MaxSpeed:      500,
		Boundary:      1500,
		Seed:          seed,
	}
}

func TestGenerateParticlesDeterministic(t *testing.T) {
	cfg := testSimConfig(2048, 42)

	a := GenerateParticles(cfg)
	b := GenerateParticles(cfg)

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different populations")
	}

	cfg.Seed = 43
	c := GenerateParticles(cfg)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical populations")
	}
}

func TestGenerateParticlesCount(t *testing.T) {
	for _, count := range []uint32{1, 100, 500, 501, 4096} {
		cfg := testSimConfig(count, 42)
		assert.Len(t, GenerateParticles(cfg), int(count))
	}
}

func TestGenerateParticlesDistribution(t *testing.T) {
	cfg := testSimConfig(2048, 42)
	particles := GenerateParticles(cfg)
	require.Len(t, particles, 2048)

	// The first particles form the near disk: bounded radius, moving.
	for i := 0; i < seedCloseStars; i++ {
		p := particles[i]
		r := math.Sqrt(float64(p.Pos[0]*p.Pos[0] + p.Pos[1]*p.Pos[1] + p.Pos[2]*p.Pos[2]))
		require.Greaterf(t, r, 0.0, "disk particle %d at origin", i)
		require.LessOrEqualf(t, r, float64(seedDiskMaxR)+1e-3, "disk particle %d outside the disk", i)

		v := math.Sqrt(float64(p.Vel[0]*p.Vel[0] + p.Vel[1]*p.Vel[1] + p.Vel[2]*p.Vel[2]))
		require.Greaterf(t, v, 0.0, "disk particle %d at rest", i)
	}

	// The rest are the infalling stream: fixed X/Z column, spread along Y,
	// uniform velocity.
	for i := seedCloseStars; i < len(particles); i++ {
		p := particles[i]
		require.Equal(t, float32(seedStreamX), p.Pos[0])
		require.Equal(t, float32(seedStreamZ), p.Pos[2])
		require.LessOrEqual(t, math.Abs(float64(p.Pos[1])), float64(seedStreamHalfY))
		require.Equal(t, [3]float32{seedStreamSpeedX, 0, 0}, p.Vel)
	}
}

func TestGenerateParticlesSmallPopulationIsAllDisk(t *testing.T) {
	cfg := testSimConfig(10, 42)
	particles := GenerateParticles(cfg)
	require.Len(t, particles, 10)

	for i, p := range particles {
		assert.NotEqualf(t, float32(seedStreamX), p.Pos[0],
			"particle %d looks like a stream particle in an all-disk population", i)
	}
}
