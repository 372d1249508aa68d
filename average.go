// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package photomosaic

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// AverageColor describes the mean of several RGB colors. Each component is the
// mean channel intensity, a value between 0 and 255.
type AverageColor struct {
	R, G, B float64
}

// NewAverageColor returns a new average color.
func NewAverageColor(r, g, b float64) AverageColor {
	return AverageColor{R: r, G: g, B: b}
}

// ConvertAverageColor converts a generic color into an AverageColor, the
// components are taken from the 8 bit representation of c.
func ConvertAverageColor(c color.Color) AverageColor {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return AverageColor{R: float64(nrgba.R), G: float64(nrgba.G), B: float64(nrgba.B)}
}

// ComputeAverageColor computes the average color of an image.
// For empty images the zero color is returned.
func ComputeAverageColor(img image.Image) AverageColor {
	bounds := img.Bounds()

	// don't do anything for empty images
	if bounds.Empty() {
		return AverageColor{}
	}
	var r, g, b uint64
	numPixels := float64(bounds.Dx() * bounds.Dy())
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := nrgba.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r += uint64(nrgba.Pix[i])
				g += uint64(nrgba.Pix[i+1])
				b += uint64(nrgba.Pix[i+2])
				i += 4
			}
		}
	} else {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				r += uint64(c.R)
				g += uint64(c.G)
				b += uint64(c.B)
			}
		}
	}
	return AverageColor{
		R: float64(r) / numPixels,
		G: float64(g) / numPixels,
		B: float64(b) / numPixels,
	}
}

// nrgba returns the color rounded to 8 bit components, it is always opaque.
func (c AverageColor) nrgba() color.NRGBA {
	return color.NRGBA{R: roundChannel(c.R), G: roundChannel(c.G), B: roundChannel(c.B), A: 0xff}
}

// Hex returns the hex representation of the color, for example "#ff8000".
func (c AverageColor) Hex() string {
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}.Clamped().Hex()
}

func (c AverageColor) String() string {
	return c.Hex()
}

// roundChannel rounds a channel value to the nearest uint8, values outside of
// [0, 255] are clamped.
func roundChannel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
