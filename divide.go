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
)

// TileDivision represents the division of the mosaic into rectangles, one for
// each grid cell.
//
// Tiles are not stored in the fashion (x, y) but (y, x). That means each entry
// in the division describes one row of the mosaic.
// The get method does this correctly.
type TileDivision [][]image.Rectangle

// Get returns the rectangle at position div[y][x], that is the rectangle
// in row y and column x.
func (div TileDivision) Get(x, y int) image.Rectangle {
	return div[y][x]
}

// Size returns the number of rectangles in the division.
func (div TileDivision) Size() int {
	res := 0
	for _, row := range div {
		res += len(row)
	}
	return res
}

// FixedSizeDivider divides an area into tiles where each tile has the given
// width and height. Remaining pixels at the right and bottom border that don't
// fill a whole tile are discarded.
type FixedSizeDivider struct {
	Width, Height int
}

// NewFixedSizeDivider returns a new FixedSizeDivider.
func NewFixedSizeDivider(width, height int) FixedSizeDivider {
	return FixedSizeDivider{Width: width, Height: height}
}

// Divide divides bounds into tiles, the tile at (0, 0) is the top left corner.
// The result is nil if bounds is empty or smaller than a single tile.
func (divider FixedSizeDivider) Divide(bounds image.Rectangle) TileDivision {
	if bounds.Empty() || divider.Width <= 0 || divider.Height <= 0 {
		return nil
	}
	numRows := bounds.Dy() / divider.Height
	numCols := bounds.Dx() / divider.Width
	if numRows == 0 || numCols == 0 {
		return nil
	}
	res := make(TileDivision, numRows)
	for i := 0; i < numRows; i++ {
		res[i] = make([]image.Rectangle, numCols)
		for j := 0; j < numCols; j++ {
			x0 := bounds.Min.X + j*divider.Width
			y0 := bounds.Min.Y + i*divider.Height
			res[i][j] = image.Rect(x0, y0, x0+divider.Width, y0+divider.Height)
		}
	}
	return res
}
