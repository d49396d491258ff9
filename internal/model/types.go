package model

import "errors"

// Errors returned by this package, checked with errors.Is. Load failures
// are fatal to the caller; inference failures are scoped to one image.
var (
	ErrLoad      = errors.New("model load failed")
	ErrShape     = errors.New("model tensor shape mismatch")
	ErrInference = errors.New("inference failed")
)

// Info describes the tensor contract of a loaded model.
type Info struct {
	InputName   string
	OutputName  string
	InputShape  []int64
	OutputShape []int64
}
