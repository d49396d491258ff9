// Package model wraps the ONNX Runtime session behind a small, reusable
// handle: one Load per process, many Infer calls, one Close.
package model

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"
)

const (
	// InputSize is the spatial resolution the classifier was trained on.
	InputSize = 224

	numChannels = 3
)

// Model is a loaded GTSRB classifier. The input and output tensors are
// allocated once and reused across Infer calls, which makes the session
// non-reentrant; Infer serializes callers with a mutex so the handle is
// safe to share across goroutines.
type Model struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	info         Info
	path         string
}

// Load reads an ONNX model from path and validates its tensor contract:
// input (batch, 224, 224, 3) float32, output vector of numClasses scores.
// A model that violates the contract fails here, not at first inference.
func Load(path string, numClasses int) (*Model, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("%w: initialize ONNX environment: %v", ErrLoad, err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("%w: read model metadata from %s: %v", ErrLoad, path, err)
	}

	info, err := validate(inputs, outputs, numClasses)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, err
	}

	inputTensor, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, InputSize, InputSize, numChannels))
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("%w: create input tensor: %v", ErrLoad, err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(numClasses)))
	if err != nil {
		inputTensor.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("%w: create output tensor: %v", ErrLoad, err)
	}

	session, err := ort.NewAdvancedSession(path,
		[]string{info.InputName}, []string{info.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("%w: create ONNX session for %s: %v", ErrLoad, path, err)
	}

	return &Model{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		info:         info,
		path:         path,
	}, nil
}

// validate checks the model's declared tensors against the fixed contract.
// The batch dimension may be dynamic (-1); everything else must match.
func validate(inputs, outputs []ort.InputOutputInfo, numClasses int) (Info, error) {
	if len(inputs) != 1 || len(outputs) != 1 {
		return Info{}, fmt.Errorf("%w: want 1 input and 1 output tensor, model declares %d and %d",
			ErrShape, len(inputs), len(outputs))
	}

	in := []int64(inputs[0].Dimensions)
	if len(in) != 4 || !dimOK(in[0], 1) || in[1] != InputSize || in[2] != InputSize || in[3] != numChannels {
		return Info{}, fmt.Errorf("%w: input shape %v, want (1, %d, %d, %d)",
			ErrShape, in, InputSize, InputSize, numChannels)
	}

	out := []int64(outputs[0].Dimensions)
	ok := (len(out) == 2 && dimOK(out[0], 1) && out[1] == int64(numClasses)) ||
		(len(out) == 1 && out[0] == int64(numClasses))
	if !ok {
		return Info{}, fmt.Errorf("%w: output shape %v, want (1, %d)", ErrShape, out, numClasses)
	}

	return Info{
		InputName:   inputs[0].Name,
		OutputName:  outputs[0].Name,
		InputShape:  in,
		OutputShape: out,
	}, nil
}

func dimOK(d, want int64) bool {
	return d == want || d < 0 // negative means dynamic
}

// Infer runs one forward pass and returns the raw score vector plus the
// wall-clock latency of the pass alone, in milliseconds rounded to two
// decimal places. The returned slice is a copy and stays valid after the
// next call.
func (m *Model) Infer(input []float32) ([]float32, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(input) != len(m.inputTensor.GetData()) {
		return nil, 0, fmt.Errorf("%w: input has %d values, model expects %d",
			ErrInference, len(input), len(m.inputTensor.GetData()))
	}
	copy(m.inputTensor.GetData(), input)

	start := time.Now()
	if err := m.session.Run(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInference, err)
	}
	elapsed := time.Since(start)

	scores := make([]float32, len(m.outputTensor.GetData()))
	copy(scores, m.outputTensor.GetData())

	return scores, roundMS(elapsed), nil
}

// roundMS converts a duration to milliseconds rounded to 2 decimal places.
func roundMS(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000*100) / 100
}

// Path returns the file the model was loaded from.
func (m *Model) Path() string { return m.path }

// InputShape returns the model's declared input tensor shape.
func (m *Model) InputShape() []int64 { return m.info.InputShape }

// Close releases the session and tensors. The handle is unusable after.
func (m *Model) Close() {
	if m.inputTensor != nil {
		m.inputTensor.Destroy()
	}
	if m.outputTensor != nil {
		m.outputTensor.Destroy()
	}
	if m.session != nil {
		m.session.Destroy()
	}
	ort.DestroyEnvironment()
}
