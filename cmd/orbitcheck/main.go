// orbitcheck runs the CPU mirror of the particle kernel on circular-orbit
// initial conditions and reports how far each orbit drifts from its starting
// radius. Forward Euler accumulates energy; this tool pins down how much,
// for the current constants, without needing a GPU. Per-sample radii land in
// a CSV under a fresh run directory for plotting.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/rgilks/galacto"
)

type radiusSample struct {
	Step     int     `csv:"step"`
	Particle int     `csv:"particle"`
	Radius   float64 `csv:"radius"`
	Drift    float64 `csv:"drift"` // relative to the starting radius
}

func main() {
	particles := flag.Int("particles", 64, "number of test orbits")
	steps := flag.Int("steps", 6000, "integration steps")
	sampleEvery := flag.Int("sample-every", 60, "steps between CSV samples")
	dt := flag.Float64("dt", 1.0/60.0, "time step in seconds")
	gm := flag.Float64("gm", 40000, "gravitational parameter")
	minRadius := flag.Float64("min-radius", 50, "innermost orbit radius")
	maxRadius := flag.Float64("max-radius", 400, "outermost orbit radius")
	tolerance := flag.Float64("tolerance", 0.05, "maximum allowed relative drift")
	outDir := flag.String("out", "runs", "base directory for run output")
	flag.Parse()

	if *particles < 1 || *steps < 1 || *dt <= 0 || *gm <= 0 || *minRadius <= 0 || *maxRadius < *minRadius {
		log.Fatal("invalid arguments; see -help")
	}

	kp := galacto.KernelParams{
		Dt:       float32(*dt),
		Gm:       float32(*gm),
		Drag:     1.0, // isolate integrator drift from deliberate damping
		Boundary: float32(*maxRadius * 10),
	}

	// Circular orbits: v = sqrt(gm / r), tangential.
	pop := make([]galacto.Particle, *particles)
	radius0 := make([]float64, *particles)
	for i := range pop {
		frac := 0.0
		if *particles > 1 {
			frac = float64(i) / float64(*particles-1)
		}
		r := *minRadius + frac*(*maxRadius-*minRadius)
		v := math.Sqrt(*gm / r)
		radius0[i] = r
		pop[i] = galacto.Particle{
			Pos: [3]float32{float32(r), 0, 0},
			Vel: [3]float32{0, float32(v), 0},
		}
	}

	runID := uuid.New().String()
	runDir := filepath.Join(*outDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		log.Fatalf("creating run directory: %v", err)
	}

	samples := make([]radiusSample, 0, (*steps / *sampleEvery + 1) * *particles)
	sample := func(step int) {
		for i := range pop {
			r := radiusOf(&pop[i])
			samples = append(samples, radiusSample{
				Step:     step,
				Particle: i,
				Radius:   r,
				Drift:    r/radius0[i] - 1,
			})
		}
	}

	sample(0)
	for step := 1; step <= *steps; step++ {
		galacto.StepParticles(pop, kp)
		if step%*sampleEvery == 0 {
			sample(step)
		}
	}

	csvPath := filepath.Join(runDir, "radii.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		log.Fatalf("creating %s: %v", csvPath, err)
	}
	if err := gocsv.Marshal(&samples, f); err != nil {
		f.Close()
		log.Fatalf("writing %s: %v", csvPath, err)
	}
	f.Close()

	drifts := make([]float64, *particles)
	maxDrift := 0.0
	for i := range pop {
		d := math.Abs(radiusOf(&pop[i])/radius0[i] - 1)
		drifts[i] = d
		if d > maxDrift {
			maxDrift = d
		}
	}

	fmt.Printf("run %s: %d orbits, %d steps at dt=%g\n", runID, *particles, *steps, *dt)
	fmt.Printf("drift mean=%.4f stddev=%.4f max=%.4f (tolerance %.4f)\n",
		stat.Mean(drifts, nil), stat.StdDev(drifts, nil), maxDrift, *tolerance)
	fmt.Printf("samples: %s\n", csvPath)

	if maxDrift > *tolerance {
		fmt.Println("FAIL: drift exceeds tolerance")
		os.Exit(1)
	}
	fmt.Println("OK")
}

func radiusOf(p *galacto.Particle) float64 {
	x := float64(p.Pos[0])
	y := float64(p.Pos[1])
	z := float64(p.Pos[2])
	return math.Sqrt(x*x + y*y + z*z)
}
