// Package preprocess turns image files into the normalized float32 tensors
// the classification model was trained on. The 224x224 target and the /255
// scaling are part of the model contract; changing either silently breaks
// every prediction.
package preprocess

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrDecode marks files that opened fine but could not be decoded as an
// image in any registered format.
var ErrDecode = errors.New("undecodable image")

// Image decodes the file at path and returns it as a normalized tensor of
// shape (1, height, width, 3): interleaved RGB, float32, every sample in
// [0,1]. The leading batch dimension is implicit in the flat layout.
func Image(path string, width, height int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w: %v", path, ErrDecode, err)
	}

	return Tensor(img, width, height), nil
}

// Tensor resizes an already-decoded image and flattens it NHWC-normalized.
func Tensor(img image.Image, width, height int) []float32 {
	resized := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)

	data := make([]float32, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()

			// RGBA returns 16-bit samples; shift back to 8-bit
			// before the /255 normalization the model expects.
			i := (y*width + x) * 3
			data[i] = float32(r>>8) / 255.0
			data[i+1] = float32(g>>8) / 255.0
			data[i+2] = float32(b>>8) / 255.0
		}
	}

	return data
}
