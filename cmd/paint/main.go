package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"paintbrush/internal/batch"
	"paintbrush/internal/config"
	"paintbrush/internal/grid"
	"paintbrush/internal/imageio"
	"paintbrush/internal/monitoring"
	"paintbrush/internal/pipeline"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	alpha := flag.Float64("alpha", pipeline.DefaultAlpha, "Color variation threshold for clumping (>= 0)")
	radius := flag.Int("radius", pipeline.DefaultRadius, "Median filter radius (>= 0)")
	metric := flag.String("metric", "", "Color distance: euclidean, chebyshev or cie76 (default: euclidean)")
	connectivity := flag.String("connectivity", "", "Pixel adjacency: four or eight (default: four)")
	recolor := flag.String("recolor", "", "Region color: mean or seed (default: mean)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 for .jpg outputs (default: 90)")
	batchDir := flag.String("batch", "", "Paint every image in this directory")
	outputDir := flag.String("output", "", "Output directory for -batch (default: <batch>/painted)")
	open := flag.Bool("open", false, "Open input and output images when done")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input> [<output>]\n       %s [flags] -batch <dir> [-output <dir>]\n\n",
			filepath.Base(os.Args[0]), filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// alpha and radius have meaningful zero values, so only explicitly
	// given flags override the config file.
	flags := config.Flags{
		Metric:       *metric,
		Connectivity: *connectivity,
		Recolor:      *recolor,
		OutputDir:    *outputDir,
		Quality:      *quality,
		Workers:      *workers,
		Open:         *open,
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "alpha":
			flags.Alpha = alpha
		case "radius":
			flags.Radius = radius
		}
	})
	cfg.Resolve(flags)

	params, err := cfg.Params()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *batchDir != "" {
		os.Exit(runBatch(cfg, params, *batchDir))
	}

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		flag.Usage()
		os.Exit(2)
	}
	input := args[0]
	output := imageio.OutputPath(input)
	if len(args) == 2 {
		output = args[1]
	}
	os.Exit(runSingle(cfg, params, input, output))
}

func runSingle(cfg config.Config, params pipeline.Params, input, output string) int {
	g, err := imageio.Load(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println()
	fmt.Print(imageio.FormatMeta(imageio.Meta(input, g)))
	fmt.Println()

	start := time.Now()
	out, err := pipeline.Run(g, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := imageio.Save(output, out, cfg.JPEGQuality); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(formatElapsed(time.Since(start)))
	fmt.Printf("Roughness: %.1f -> %.1f\n", grid.Roughness(g), grid.Roughness(out))
	fmt.Printf("Output: %s\n", output)

	if cfg.Open {
		openFiles(input, output)
	}
	return 0
}

func runBatch(cfg config.Config, params pipeline.Params, dir string) int {
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Join(dir, "painted")
	}

	jobs, err := batch.CollectJobs(dir, outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(jobs) == 0 {
		fmt.Println("No images to paint.")
		return 0
	}

	// Files are spread over the workers; each file smooths on one goroutine.
	fileWorkers := cfg.Workers
	params.Workers = 1

	fmt.Printf("Images: %d, Workers: %d, alpha=%g radius=%d\n", len(jobs), fileWorkers, params.Alpha, params.Radius)
	fmt.Printf("Output: %s\n", outDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batch.Config{
		Params:      params,
		JPEGQuality: cfg.JPEGQuality,
		Workers:     fileWorkers,
	}, jobs)

	fmt.Println("------------------------------------------------------------")
	fmt.Println(formatElapsed(time.Since(start)))

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}
	fmt.Printf("Painted: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Input, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(outDir, "manifest.json")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		monitoring.Logf("Warning: create %s: %v", outDir, err)
	}
	if err := batch.WriteManifest(manifestPath, batch.NewManifest(params, results)); err != nil {
		monitoring.Logf("Warning: manifest write failed: %v", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		return 1
	}
	return 0
}

// formatElapsed renders whole seconds as "[Time]: 2m 5s", dropping the
// minutes part under one minute.
func formatElapsed(d time.Duration) string {
	t := int(d.Seconds())
	s := ""
	if t/60 > 0 {
		s = fmt.Sprintf("%dm ", t/60)
	}
	return fmt.Sprintf("[Time]: %s%ds", s, t%60)
}

// openFiles shows the images in the platform viewer. Failure is not fatal.
func openFiles(paths ...string) {
	for _, argv := range viewerCommands(runtime.GOOS, paths) {
		// The launchers hand off to the viewer and return promptly.
		if out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput(); err != nil {
			monitoring.Logf("Warning: %s: %v %s", strings.Join(argv, " "), err, strings.TrimSpace(string(out)))
		}
	}
}

// viewerCommands returns the launcher invocations that open paths.
// macOS open takes many files; xdg-open and start take one each.
func viewerCommands(goos string, paths []string) [][]string {
	if len(paths) == 0 {
		return nil
	}
	if goos == "darwin" {
		return [][]string{append([]string{"open"}, paths...)}
	}
	cmds := make([][]string, 0, len(paths))
	for _, p := range paths {
		if goos == "windows" {
			cmds = append(cmds, []string{"cmd", "/c", "start", "", p})
		} else {
			cmds = append(cmds, []string{"xdg-open", p})
		}
	}
	return cmds
}
