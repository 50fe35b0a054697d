package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"paintbrush/internal/imageio"
	"paintbrush/internal/monitoring"
	"paintbrush/internal/pipeline"
)

// Config holds all shared settings for a batch run.
type Config struct {
	Params      pipeline.Params
	JPEGQuality int
	Workers     int // files painted concurrently
}

// Job is one input file and where its result goes.
type Job struct {
	Input  string
	Output string
}

// Result holds the outcome of processing one job.
type Result struct {
	Input   string
	Output  string
	Width   int
	Height  int
	Elapsed time.Duration
	Success bool
	Error   string
}

// CollectJobs lists the image files directly inside inputDir, sorted by
// name, each mapped to <outputDir>/<stem>.png. Inputs sharing a stem
// (a.png, a.bmp) keep their extension in the name: a_png.png, a_bmp.png.
func CollectJobs(inputDir, outputDir string) ([]Job, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", inputDir, err)
	}
	var names []string
	stems := make(map[string]int)
	for _, e := range entries {
		if e.IsDir() || !imageio.Supported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
		stems[strings.ToLower(stemOf(e.Name()))]++
	}
	sort.Strings(names)

	jobs := make([]Job, 0, len(names))
	outputs := make(map[string]string)
	for _, name := range names {
		out := stemOf(name)
		if stems[strings.ToLower(out)] > 1 {
			out += "_" + strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		}
		out = filepath.Join(outputDir, out+".png")

		// Case-insensitive filesystems would still merge these.
		key := strings.ToLower(out)
		if prev, ok := outputs[key]; ok {
			return nil, fmt.Errorf("batch: %s and %s both map to %s", prev, name, out)
		}
		outputs[key] = name

		jobs = append(jobs, Job{Input: filepath.Join(inputDir, name), Output: out})
	}
	return jobs, nil
}

func stemOf(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Run paints all jobs using a worker pool. Results are in job order.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					monitoring.Logf("  [%d/%d] %.2f images/sec", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, job Job) (res Result) {
	start := time.Now()
	res = Result{Input: job.Input, Output: job.Output}
	defer func() { res.Elapsed = time.Since(start) }()

	g, err := imageio.Load(job.Input)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Width, res.Height = g.Width(), g.Height()

	out, err := pipeline.Run(g, cfg.Params)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if err := imageio.Save(job.Output, out, cfg.JPEGQuality); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}
