// Copyright 2019 Fabian Wenzelmann
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

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
)

// Parameters of the unsharp mask applied after blending. The sigma of the
// gaussian is 1.5, edges are amplified by 140% and only differences of at
// least 3 (of 255) are sharpened.
const (
	SharpenSigma     float32 = 1.5
	SharpenAmount    float32 = 1.4
	SharpenThreshold float32 = 3.0 / 255.0
)

// BlendImages scales original to the size of canvas and interpolates each
// pixel linearly: (1 - alpha) * original + alpha * canvas. alpha is clamped to
// [0, 1]. The result is opaque and starts at (0, 0).
//
// Usually Blend should be used, it also sharpens the result.
func BlendImages(original, canvas image.Image, alpha float64, resizer ImageResizer) *image.NRGBA {
	alpha = FloatClamp(alpha, 0, 1)
	canvasBounds := canvas.Bounds()
	width, height := canvasBounds.Dx(), canvasBounds.Dy()
	mosaic := imaging.Clone(canvas)
	scaled := imaging.Clone(resizer.Resize(uint(width), uint(height), original))
	res := image.NewNRGBA(image.Rect(0, 0, width, height))
	if scaled.Bounds().Dx() != width || scaled.Bounds().Dy() != height {
		// should not happen, the resizer is required to return the exact size
		scaled = imaging.Resize(scaled, width, height, imaging.Lanczos)
	}
	for y := 0; y < height; y++ {
		o := scaled.Pix[y*scaled.Stride : y*scaled.Stride+4*width]
		c := mosaic.Pix[y*mosaic.Stride : y*mosaic.Stride+4*width]
		dst := res.Pix[y*res.Stride : y*res.Stride+4*width]
		for i := 0; i < 4*width; i += 4 {
			dst[i] = lerpChannel(o[i], c[i], alpha)
			dst[i+1] = lerpChannel(o[i+1], c[i+1], alpha)
			dst[i+2] = lerpChannel(o[i+2], c[i+2], alpha)
			dst[i+3] = 0xff
		}
	}
	return res
}

func lerpChannel(o, c uint8, alpha float64) uint8 {
	return roundChannel((1-alpha)*float64(o) + alpha*float64(c))
}

// Sharpen applies the fixed unsharp mask (see SharpenSigma, SharpenAmount
// and SharpenThreshold) to img.
func Sharpen(img image.Image) *image.NRGBA {
	g := gift.New(gift.UnsharpMask(SharpenSigma, SharpenAmount, SharpenThreshold))
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// Blend blends original and canvas (see BlendImages) and sharpens the result.
// Sharpening always happens after blending.
func Blend(original, canvas image.Image, alpha float64, resizer ImageResizer) *image.NRGBA {
	return Sharpen(BlendImages(original, canvas, alpha, resizer))
}
