// Command benchsort benchmarks the bitonic sorting backends against
// each other across a range of sequence lengths.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	bitonic "github.com/cwbudde/algo-bitonic"
	"github.com/cwbudde/algo-bitonic/cl"
)

type benchResult struct {
	size      int
	backend   string
	wallPerOp float64
	purePerOp float64
}

func main() {
	var (
		sizeList = flag.String("sizes", "1024,4096,16384,65536", "comma-separated power-of-two sizes")
		iters    = flag.Int("iters", 50, "benchmark iterations")
		warmup   = flag.Int("warmup", 5, "warmup iterations")
		tile     = flag.Int("tile", 256, "tile width for the local backend")
		backends = flag.String("backends", "sequential,naive,local", "comma-separated backends to run")
		seed     = flag.Int64("seed", 1, "rng seed")
	)
	flag.Parse()

	sizes := parseSizes(*sizeList)
	if len(sizes) == 0 {
		fmt.Println("no sizes specified")
		return
	}

	sorters, err := buildSorters(*backends, *tile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "benchsort: %v\n", err)
		os.Exit(1)
	}

	rnd := rand.New(rand.NewSource(*seed))

	fmt.Printf("iters=%d warmup=%d tile=%d\n", *iters, *warmup, *tile)
	fmt.Printf("%8s  %12s  %14s  %14s\n", "size", "backend", "wall ns/op", "pure ns/op")

	for _, n := range sizes {
		input := make([]int32, n)
		for i := range input {
			input[i] = rnd.Int31()
		}

		var results []benchResult
		for name, s := range sorters {
			res, err := benchmarkOne(s, input, *iters, *warmup)
			if err != nil {
				fmt.Fprintf(os.Stderr, "benchsort: %s (n=%d): %v\n", name, n, err)
				os.Exit(1)
			}
			res.size = n
			res.backend = name
			results = append(results, res)
		}

		sort.Slice(results, func(i, j int) bool {
			return results[i].wallPerOp < results[j].wallPerOp
		})
		for _, res := range results {
			fmt.Printf("%8d  %12s  %14.1f  %14.1f\n", res.size, res.backend, res.wallPerOp, res.purePerOp)
		}
	}
}

func buildSorters(list string, tile int) (map[string]bitonic.Sorter[int32], error) {
	sorters := make(map[string]bitonic.Sorter[int32])
	for _, name := range strings.Split(list, ",") {
		switch strings.TrimSpace(name) {
		case "sequential":
			sorters["sequential"] = bitonic.NewSequentialSorter[int32]()
		case "naive":
			s, err := bitonic.NewNaiveSorter[int32](bitonic.DeviceOptions{})
			if err != nil {
				return nil, err
			}
			sorters["naive"] = s
		case "local":
			s, err := bitonic.NewLocalSorter[int32](tile, bitonic.DeviceOptions{})
			if err != nil {
				return nil, err
			}
			sorters["local"] = s
		case "":
		default:
			return nil, fmt.Errorf("unknown backend %q", name)
		}
	}
	if len(sorters) == 0 {
		return nil, fmt.Errorf("no backends selected")
	}
	if b, err := cl.Select(bitonic.DefaultMinVersion); err == nil {
		fmt.Printf("device backend: %s (%s)\n", b.Info().Name, b.Info().Description)
	}
	return sorters, nil
}

func benchmarkOne(s bitonic.Sorter[int32], input []int32, iters, warmup int) (benchResult, error) {
	scratch := make([]int32, len(input))

	for i := 0; i < warmup; i++ {
		copy(scratch, input)
		if err := s.Sort(scratch, nil); err != nil {
			return benchResult{}, err
		}
	}

	var wall, pure time.Duration
	for i := 0; i < iters; i++ {
		copy(scratch, input)
		var info bitonic.ProfilingInfo
		if err := s.Sort(scratch, &info); err != nil {
			return benchResult{}, err
		}
		wall += info.Wall
		pure += info.Pure
	}
	return benchResult{
		wallPerOp: float64(wall.Nanoseconds()) / float64(iters),
		purePerOp: float64(pure.Nanoseconds()) / float64(iters),
	}, nil
}

func parseSizes(list string) []int {
	var sizes []int
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 2 {
			continue
		}
		sizes = append(sizes, n)
	}
	return sizes
}
