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
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	// imaging registers jpeg, png, gif, bmp and tiff
	_ "golang.org/x/image/webp"
)

// LoadImage decodes the image stored in path. The EXIF orientation of jpg
// files is applied.
func LoadImage(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// LoadSourceImage loads the query image of a mosaic. If the file does not exist
// the error wraps ErrSourceImageMissing.
func LoadSourceImage(path string) (image.Image, error) {
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceImageMissing, path)
		}
		return nil, statErr
	}
	img, loadErr := LoadImage(path)
	if loadErr != nil {
		return nil, fmt.Errorf("Can't read source image %s: %w", path, loadErr)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("Source image %s is empty", path)
	}
	return img, nil
}

// SaveImage encodes img to path, the format is given by the file extension
// (jpg, png, gif, tif or bmp). jpgQuality is the quality between 1 and 100
// used for jpg files.
func SaveImage(path string, img image.Image, jpgQuality int) error {
	if _, formatErr := imaging.FormatFromFilename(path); formatErr != nil {
		return fmt.Errorf("Unsupported output file %s: %w", path, formatErr)
	}
	return imaging.Save(img, path, imaging.JPEGQuality(jpgQuality))
}
