// Command psatdbench measures the cost of the spectral field update on
// cubic domains of increasing size.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"
	"strings"
	"time"

	algopsatd "github.com/cwbudde/algo-psatd"
)

const modeAdvance = "advance"

type benchResult struct {
	size    int
	mode    string
	nsPerOp float64
}

func main() {
	var (
		sizeList = flag.String("sizes", "16,32,64", "comma-separated cubic domain sizes")
		iters    = flag.Int("iters", 20, "benchmark iterations")
		warmup   = flag.Int("warmup", 3, "warmup iterations")
		mode     = flag.String("mode", "all", "benchmark mode: transform, advance, all")
		order    = flag.Int("order", 16, "spectral derivative order (0 = exact)")
		galilean = flag.Bool("galilean", false, "benchmark the Galilean update scheme")
		seed     = flag.Int64("seed", 1, "rng seed")
	)
	flag.Parse()

	sizes := parseSizes(*sizeList)
	if len(sizes) == 0 {
		fmt.Println("no sizes specified")
		return
	}

	rnd := rand.New(rand.NewSource(*seed))

	fmt.Printf("iters=%d warmup=%d order=%d galilean=%v\n", *iters, *warmup, *order, *galilean)
	fmt.Printf("%8s  %10s  %12s\n", "size", "mode", "ns/op")

	for _, n := range sizes {
		for _, runMode := range resolveModes(*mode) {
			res, err := benchmarkSize(rnd, n, *iters, *warmup, *order, *galilean, runMode)
			if err != nil {
				fmt.Printf("%8d  %10s  error: %v\n", n, runMode, err)
				continue
			}
			fmt.Printf("%8d  %10s  %12.1f\n", res.size, res.mode, res.nsPerOp)
		}
	}
}

func benchmarkSize(rnd *rand.Rand, n, iters, warmup, order int, galilean bool, mode string) (benchResult, error) {
	domain := algopsatd.NewBox([3]int{0, 0, 0}, [3]int{n, n, n})
	cfg := algopsatd.Config{
		Levels: []algopsatd.LevelConfig{{
			Domain:   domain,
			Patches:  []algopsatd.Box{domain},
			CellSize: [3]float64{1e-6, 1e-6, 1e-6},
		}},
		TimeStep:      1e-15,
		SpectralOrder: order,
	}
	if galilean {
		cfg.DriftVelocity = [3]float64{0, 0, 0.9 * 299792458.0}
		cfg.UseRho = true
	}

	s, err := algopsatd.New(cfg)
	if err != nil {
		return benchResult{}, err
	}

	layout, err := s.Layout(0)
	if err != nil {
		return benchResult{}, err
	}

	fields := make(map[algopsatd.FieldName]*algopsatd.Field)
	names := []algopsatd.FieldName{
		algopsatd.Ex, algopsatd.Ey, algopsatd.Ez,
		algopsatd.Bx, algopsatd.By, algopsatd.Bz,
		algopsatd.Jx, algopsatd.Jy, algopsatd.Jz,
	}
	if galilean {
		names = append(names, algopsatd.RhoOld, algopsatd.RhoNew)
	}
	for _, name := range names {
		f := algopsatd.NewField(layout, s.FieldStaggering(name), 1, 0)
		f.FillComp(0, func(i, j, k int) float64 { return rnd.Float64() - 0.5 })
		fields[name] = f
	}

	step := func() error {
		for _, name := range names {
			if err := s.ForwardTransform(0, fields[name], 0, name); err != nil {
				return err
			}
		}
		if mode == modeAdvance {
			if err := s.Advance(0); err != nil {
				return err
			}
		}
		for _, name := range names[:6] {
			if err := s.BackwardTransform(0, name, fields[name], 0); err != nil {
				return err
			}
		}
		return nil
	}

	for rep := 0; rep < warmup; rep++ {
		if err := step(); err != nil {
			return benchResult{}, err
		}
	}

	runtime.GC()

	start := time.Now()
	for rep := 0; rep < iters; rep++ {
		if err := step(); err != nil {
			return benchResult{}, err
		}
	}
	elapsed := time.Since(start)

	return benchResult{
		size:    n,
		mode:    mode,
		nsPerOp: float64(elapsed.Nanoseconds()) / float64(iters),
	}, nil
}

func resolveModes(mode string) []string {
	switch mode {
	case "all":
		return []string{"transform", modeAdvance}
	case "transform", modeAdvance:
		return []string{mode}
	default:
		return []string{modeAdvance}
	}
}

func parseSizes(list string) []int {
	parts := strings.Split(list, ",")

	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}
