package stream

import (
	"encoding/binary"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const numPixels = 500

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels [numPixels]colorful.Color
}

// NewFrame creates a new Frame instance.
func NewFrame() *Frame {
	f := new(Frame)
	return f
}

// Len is the number of pixels in a frame.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// Pixel returns the colour of pixel i.
func (f *Frame) Pixel(i int) colorful.Color {
	return f.pixels[i]
}

// Paint blends colour over the pixels between start and end, given as
// fractions of the strip. feather is the width, also as a fraction, of the
// soft edge at each end. alpha scales the whole stroke.
func (f *Frame) Paint(start, end, feather float64, colour colorful.Color, alpha float64) {
	if end < start {
		start, end = end, start
	}
	if alpha <= 0 || end <= 0 || start >= 1 {
		return
	}
	alpha = math.Min(alpha, 1)

	n := float64(len(f.pixels))
	first := int(math.Max(0, math.Floor((start-feather)*n)))
	last := int(math.Min(n-1, math.Ceil((end+feather)*n)))
	for i := first; i <= last; i++ {
		pos := (float64(i) + 0.5) / n
		cover := coverage(pos, start, end, feather)
		if cover > 0 {
			f.pixels[i] = f.pixels[i].BlendRgb(colour, cover*alpha)
		}
	}
}

func coverage(pos, start, end, feather float64) float64 {
	if pos >= start && pos <= end {
		return 1
	}
	if feather <= 0 {
		return 0
	}
	d := start - pos
	if pos > end {
		d = pos - end
	}
	return math.Max(0, 1-d/feather)
}

// InterpolateFrame merges two frames.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	out := NewFrame()
	for i := 0; i < len(f.pixels); i++ {
		out.pixels[i] = f.pixels[i].BlendHcl(f2.pixels[i], transitionPoint).Clamped()
	}

	return out
}

// MarshalBinary converts a Frame into binary data.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, (numPixels*3)+2)
	binary.LittleEndian.PutUint16(data, numPixels)
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
