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
	"fmt"
	"image"
	"math"
)

// Grid is the number of columns and rows of a mosaic.
type Grid struct {
	Cols, Rows int
}

// NumCells returns Cols * Rows.
func (g Grid) NumCells() int {
	return g.Cols * g.Rows
}

// Bounds returns the bounds of the mosaic given the tile size, it starts at
// (0, 0).
func (g Grid) Bounds(tileWidth, tileHeight int) image.Rectangle {
	return image.Rect(0, 0, g.Cols*tileWidth, g.Rows*tileHeight)
}

// Division returns the rectangle of each cell in a mosaic with the given tile
// size.
func (g Grid) Division(tileWidth, tileHeight int) TileDivision {
	return NewFixedSizeDivider(tileWidth, tileHeight).Divide(g.Bounds(tileWidth, tileHeight))
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Cols, g.Rows)
}

// GridPlanner derives the grid and the blend strength of a mosaic from the
// size of the query image.
type GridPlanner struct {
	MinCols, MaxCols   int
	AlphaMin, AlphaMax float64
}

// ChooseGrid computes the grid for a query image. The number of columns is
// the number of tiles that fit into the query width, clamped to
// [MinCols, MaxCols]. The number of rows keeps the aspect ratio of the query
// and is at least one.
//
// Column count does not depend on the query height, thus portrait images never
// end up with an (almost) empty grid, and the cap on columns bounds the costs
// of selection independent of the query resolution.
func (planner GridPlanner) ChooseGrid(sourceWidth, sourceHeight, tileWidth, tileHeight int) Grid {
	cols := planner.MinCols
	if tileWidth > 0 {
		cols = IntClamp(sourceWidth/tileWidth, planner.MinCols, planner.MaxCols)
	}
	rows := 1
	if sourceWidth > 0 {
		ratio := float64(sourceHeight) / float64(sourceWidth)
		rows = int(math.RoundToEven(float64(cols) * ratio))
	}
	return Grid{Cols: cols, Rows: IntMax(rows, 1)}
}

// ChooseAlpha computes the blend strength of the mosaic. Dense grids look
// noisy, so alpha decreases with the number of cells:
// alpha = 0.42 - 0.000008 * cols * rows, clamped to [AlphaMin, AlphaMax].
func (planner GridPlanner) ChooseAlpha(cols, rows int) float64 {
	density := float64(cols * rows)
	alpha := 0.42 - 0.000008*density
	return FloatClamp(alpha, planner.AlphaMin, planner.AlphaMax)
}
