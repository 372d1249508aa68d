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
	"errors"
	"fmt"
	"image"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
)

// TargetColorField contains the target color for each cell of the grid, it
// is stored as field[row][column].
type TargetColorField [][]AverageColor

// Grid returns the dimensions of the field.
func (field TargetColorField) Grid() Grid {
	if len(field) == 0 {
		return Grid{}
	}
	return Grid{Cols: len(field[0]), Rows: len(field)}
}

// ComputeTargetColors shrinks the query image to exactly grid.Cols x grid.Rows
// pixels, each pixel is the target color of one cell.
func ComputeTargetColors(query image.Image, grid Grid, resizer ImageResizer) TargetColorField {
	small := resizer.Resize(uint(grid.Cols), uint(grid.Rows), query)
	bounds := small.Bounds()
	res := make(TargetColorField, grid.Rows)
	for i := 0; i < grid.Rows; i++ {
		res[i] = make([]AverageColor, grid.Cols)
		for j := 0; j < grid.Cols; j++ {
			res[i][j] = ConvertAverageColor(small.At(bounds.Min.X+j, bounds.Min.Y+i))
		}
	}
	return res
}

// Selection is the tile selected for each cell, stored as
// selection[row][column].
type Selection [][]ImageID

// CandidateField contains the query result of the color index for each cell.
type CandidateField [][][]Candidate

// ComputeCandidates queries the index for the k closest tiles of each cell.
// The queries run in numRoutines go routines, progress (may be nil) is called
// after each cell.
func ComputeCandidates(field TargetColorField, index ColorIndex, k, numRoutines int,
	progress ProgressFunc) CandidateField {
	if numRoutines <= 0 {
		numRoutines = 1
	}
	res := make(CandidateField, len(field))
	numCells := 0
	for i, row := range field {
		res[i] = make([][]Candidate, len(row))
		numCells += len(row)
	}

	type job struct {
		i, j int
	}

	jobs := make(chan job, BufferSize)
	done := make(chan bool, BufferSize)

	for w := 0; w < numRoutines; w++ {
		go func() {
			for next := range jobs {
				res[next.i][next.j] = index.Query(field[next.i][next.j], k)
				done <- true
			}
		}()
	}

	go func() {
		for i, row := range field {
			for j := range row {
				jobs <- job{i, j}
			}
		}
		close(jobs)
	}()

	for numDone := 1; numDone <= numCells; numDone++ {
		<-done
		if progress != nil {
			progress(numDone)
		}
	}
	return res
}

// RandomTileSelector selects the tile of each cell at random from the k
// closest tiles. It avoids to select the tile that was selected for the
// previous cell (in row-major order).
//
// Note that instances of this selector are not safe for concurrent use.
type RandomTileSelector struct {
	randGen *rand.Rand

	// NumRoutines is the number of go routines used to query the color index,
	// the selection itself is always sequential.
	NumRoutines int

	// Progress is called after each index query if not nil.
	Progress ProgressFunc
}

// NewRandomTileSelector returns a new random selector.
// The provided random generator is used to generate random numbers. You can
// use nil and a random generator will be created.
//
// Note that rand.Rand instances are not safe for concurrent use.
// Thus using the same generator on two instances that run concurrently is
// not allowed.
func NewRandomTileSelector(randGen *rand.Rand) *RandomTileSelector {
	if randGen == nil {
		seed := time.Now().UnixNano()
		randGen = rand.New(rand.NewSource(seed))
	}
	return &RandomTileSelector{randGen: randGen, NumRoutines: 1}
}

// SelectAll selects a tile for each cell in field. The cells are processed in
// row-major order (row 0 first, each row from left to right):
//
// The index is queried for the min(topK, index.Len()) closest tiles. If there
// is more than one candidate the tile selected for the previous cell is
// removed from the candidates. Then one of the remaining candidates is
// chosen uniformly at random.
//
// The previous cell is the previous cell in scan order, that is the last cell
// of the previous row for the first cell in a row.
func (sel *RandomTileSelector) SelectAll(field TargetColorField, index ColorIndex, topK int) (Selection, error) {
	if topK < 1 {
		return nil, fmt.Errorf("Invalid number of candidates %d, must be at least 1", topK)
	}
	if field.Grid().NumCells() == 0 {
		return nil, errors.New("Can't select tiles for an empty field")
	}
	if index.Len() == 0 {
		return nil, errors.New("Can't select tiles from an empty index")
	}
	k := IntMin(topK, index.Len())
	candidates := ComputeCandidates(field, index, k, sel.NumRoutines, sel.Progress)

	res := make(Selection, len(field))
	last := NoImageID
	for i, row := range candidates {
		res[i] = make([]ImageID, len(row))
		for j, cellCandidates := range row {
			chosen := sel.selectCell(cellCandidates, last)
			if chosen == NoImageID {
				return nil, fmt.Errorf("No candidate for cell in row %d, column %d", i, j)
			}
			res[i][j] = chosen
			last = chosen
		}
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields{
			"cells":    field.Grid().NumCells(),
			"k":        k,
			"distinct": len(CountUsage(res)),
		}).Debug("Selected tiles")
	}
	return res, nil
}

// selectCell chooses one of the candidates, avoiding last if there is another
// candidate. Returns NoImageID if candidates is empty.
func (sel *RandomTileSelector) selectCell(candidates []Candidate, last ImageID) ImageID {
	switch len(candidates) {
	case 0:
		return NoImageID
	case 1:
		return candidates[0].Image
	}
	filtered := make([]ImageID, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Image != last {
			filtered = append(filtered, candidate.Image)
		}
	}
	if len(filtered) == 0 {
		// can only happen if all candidates are the same tile
		return candidates[sel.randGen.Intn(len(candidates))].Image
	}
	return filtered[sel.randGen.Intn(len(filtered))]
}

// CountUsage returns how often each tile is used in a selection.
func CountUsage(selection Selection) map[ImageID]int {
	res := make(map[ImageID]int)
	for _, row := range selection {
		for _, id := range row {
			res[id]++
		}
	}
	return res
}
