// Package export renders the grid into shareable artifacts: a single PNG
// mosaic or a static HTML gallery with lazy-loaded WebP thumbnails. Jobs run
// on their own goroutine, one at a time; the caller polls progress and drains
// the completion channel.
package export

import (
	"sync/atomic"

	"github.com/varimat/varimat/internal/grid"
	"github.com/varimat/varimat/internal/logging"
)

// Kind selects the artifact a job produces.
type Kind int

const (
	PNG Kind = iota
	HTML
)

func (k Kind) String() string {
	if k == HTML {
		return "HTML"
	}
	return "PNG"
}

// Snapshot is the immutable input handed to the worker at start. The grid is
// never mutated after build, so sharing the pointer is safe.
type Snapshot struct {
	Grid     *grid.Grid
	CellSize int
	// Dir is the output directory. Empty means the current directory.
	Dir string
}

// Result is delivered exactly once per job.
type Result struct {
	Kind Kind
	// Path is the finished artifact: the PNG file, or the gallery's
	// index.html.
	Path string
	Err  error
}

// Job is a running export. Progress and Message may be read from any
// goroutine; Done receives exactly one Result.
type Job struct {
	kind    Kind
	message string
	done    chan Result

	processed atomic.Int64
	total     atomic.Int64
}

// Progress reports completion in [0, 1]. It reads 0 until the worker has
// sized the job.
func (j *Job) Progress() float64 {
	total := j.total.Load()
	if total <= 0 {
		return 0
	}
	processed := j.processed.Load()
	if processed > total {
		processed = total
	}
	return float64(processed) / float64(total)
}

// Message is the status line shown next to the progress bar.
func (j *Job) Message() string { return j.message }

// Done yields the job's single Result.
func (j *Job) Done() <-chan Result { return j.done }

func (j *Job) step() { j.processed.Add(1) }

// Pipeline runs at most one export job at a time.
type Pipeline struct {
	running atomic.Bool
}

// Start launches a worker for the snapshot and returns its Job, or nil when
// another job is still in flight.
func (p *Pipeline) Start(kind Kind, snap Snapshot) *Job {
	if !p.running.CompareAndSwap(false, true) {
		return nil
	}

	job := &Job{
		kind:    kind,
		message: "Exporting " + kind.String() + "...",
		done:    make(chan Result, 1),
	}
	go func() {
		res := Result{Kind: kind}
		switch kind {
		case HTML:
			res.Path, res.Err = exportHTML(snap, job)
		default:
			res.Path, res.Err = exportPNG(snap, job)
		}
		if res.Err != nil {
			logging.Export.Printf("%s export failed: %v", kind, res.Err)
		} else {
			logging.Export.Printf("%s export done: %s", kind, res.Path)
		}
		// Release the flag before delivering the result so whoever drains
		// Done can immediately start the next job.
		p.running.Store(false)
		job.done <- res
	}()
	return job
}

// Busy reports whether a job is currently running.
func (p *Pipeline) Busy() bool { return p.running.Load() }
