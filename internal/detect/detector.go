// Package detect holds the decision logic of the pipeline: thresholding raw
// score vectors, running the preprocess-infer-decide chain per image, and
// orchestrating batches.
package detect

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adzetto/ADAS-LITE/internal/preprocess"
)

// Engine is the forward-pass capability the detector needs from a loaded
// model. model.Model satisfies it; tests substitute a fake.
type Engine interface {
	// Infer runs one forward pass and reports its latency in milliseconds.
	Infer(input []float32) (scores []float32, elapsedMS float64, err error)
	Path() string
	InputShape() []int64
}

// Detector is the immutable per-run configuration: one engine handle, one
// threshold, shared read-only across any number of images.
type Detector struct {
	engine    Engine
	threshold float64
	workers   int
	timeout   time.Duration
}

// Option configures a Detector.
type Option func(*Detector)

// WithWorkers sets how many images a batch processes concurrently.
// Anything below 2 keeps the default sequential behavior.
func WithWorkers(n int) Option {
	return func(d *Detector) { d.workers = n }
}

// WithTimeout bounds the time spent on a single image. Zero (the default)
// means no limit. The deadline is checked between pipeline stages; a
// forward pass already running is not preempted.
func WithTimeout(t time.Duration) Option {
	return func(d *Detector) { d.timeout = t }
}

// New builds a Detector. threshold must be in [0,1].
func New(engine Engine, threshold float64, opts ...Option) (*Detector, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("confidence threshold %v out of range [0,1]", threshold)
	}
	d := &Detector{engine: engine, threshold: threshold, workers: 1}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Threshold returns the configured confidence threshold.
func (d *Detector) Threshold() float64 { return d.threshold }

// Detect classifies one image. It never fails: preprocessing and inference
// errors are folded into the returned Result's Error field so a batch can
// keep going.
func (d *Detector) Detect(ctx context.Context, path string) Result {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	res := Result{
		ImagePath:      path,
		Timestamp:      time.Now().Format(time.RFC3339),
		TopPredictions: []Detection{},
	}

	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	shape := d.engine.InputShape()
	input, err := preprocess.Image(path, int(shape[2]), int(shape[1]))
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	scores, elapsedMS, err := d.engine.Infer(input)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	decision := Decide(scores, d.threshold)
	res.InferenceTimeMS = elapsedMS
	res.Detected = decision.Detected
	res.Primary = decision.Primary
	res.TopPredictions = decision.Top
	res.ModelInfo = &ModelInfo{
		ModelPath:           d.engine.Path(),
		ConfidenceThreshold: d.threshold,
		InputShape:          shape,
		TotalClasses:        len(Labels),
	}
	return res
}

// DetectBatch classifies every path and returns one Result per input, in
// input order. A failed image is recorded and processing continues; only
// context cancellation stops the batch early (remaining items then carry
// the cancellation as their error, so the length invariant still holds).
func (d *Detector) DetectBatch(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	if d.workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.workers)
		for i, path := range paths {
			i, path := i, path
			g.Go(func() error {
				results[i] = d.Detect(gctx, path)
				return nil
			})
		}
		g.Wait() // goroutines never return errors
		return results
	}

	for i, path := range paths {
		results[i] = d.Detect(ctx, path)
	}
	return results
}
