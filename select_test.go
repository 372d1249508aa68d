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
	"math/rand"
	"testing"
)

func randomField(r *rand.Rand, grid Grid) TargetColorField {
	res := make(TargetColorField, grid.Rows)
	for i := range res {
		res[i] = randomColors(r, grid.Cols)
	}
	return res
}

func constantField(grid Grid, c AverageColor) TargetColorField {
	res := make(TargetColorField, grid.Rows)
	for i := range res {
		res[i] = make([]AverageColor, grid.Cols)
		for j := range res[i] {
			res[i][j] = c
		}
	}
	return res
}

func TestSelectAllNoConsecutiveRepeats(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	index := NewBruteForceIndex(randomColors(r, 30))
	grid := Grid{Cols: 12, Rows: 9}
	// a constant field is the worst case, all cells share the same candidates
	for _, field := range []TargetColorField{randomField(r, grid), constantField(grid, NewAverageColor(90, 90, 90))} {
		selection, err := NewRandomTileSelector(rand.New(rand.NewSource(11))).SelectAll(field, index, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		last := NoImageID
		for i, row := range selection {
			if len(row) != grid.Cols {
				t.Fatalf("row %d has %d columns, expected %d", i, len(row), grid.Cols)
			}
			for j, id := range row {
				if id == last {
					t.Fatalf("tile %d repeated at row %d, column %d", id, i, j)
				}
				last = id
			}
		}
	}
}

func TestSelectAllChoosesFromTopK(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	index := NewKDTreeIndex(randomColors(r, 300))
	field := randomField(r, Grid{Cols: 8, Rows: 6})
	selection, err := NewRandomTileSelector(rand.New(rand.NewSource(1))).SelectAll(field, index, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range selection {
		for j, id := range row {
			found := false
			for _, candidate := range index.Query(field[i][j], 4) {
				if candidate.Image == id {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("tile %d at row %d, column %d is not one of the 4 closest tiles", id, i, j)
			}
		}
	}
}

func TestSelectAllSingleCandidate(t *testing.T) {
	colors := randomColors(rand.New(rand.NewSource(8)), 25)
	index := NewBruteForceIndex(colors)
	field := constantField(Grid{Cols: 5, Rows: 4}, colors[17])
	selection, err := NewRandomTileSelector(nil).SelectAll(field, index, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range selection {
		for j, id := range row {
			if id != 17 {
				t.Fatalf("expected the sole candidate 17 at row %d, column %d, got %d", i, j, id)
			}
		}
	}
	// a single tile is always its own sole candidate
	single := NewBruteForceIndex(colors[:1])
	selection, err = NewRandomTileSelector(nil).SelectAll(field, single, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage := CountUsage(selection); usage[0] != 20 || len(usage) != 1 {
		t.Errorf("unexpected usage %v", usage)
	}
}

func TestSelectAllReproducible(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	index := NewBruteForceIndex(randomColors(r, 40))
	field := randomField(r, Grid{Cols: 10, Rows: 7})
	sequential := NewRandomTileSelector(rand.New(rand.NewSource(99)))
	concurrent := NewRandomTileSelector(rand.New(rand.NewSource(99)))
	concurrent.NumRoutines = 4
	a, errA := sequential.SelectAll(field, index, 6)
	b, errB := concurrent.SelectAll(field, index, 6)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("selections differ at row %d, column %d: %d != %d", i, j, a[i][j], b[i][j])
			}
		}
	}
}

func TestSelectAllErrors(t *testing.T) {
	index := NewBruteForceIndex(randomColors(rand.New(rand.NewSource(1)), 5))
	field := constantField(Grid{Cols: 2, Rows: 2}, NewAverageColor(1, 1, 1))
	sel := NewRandomTileSelector(nil)
	if _, err := sel.SelectAll(field, index, 0); err == nil {
		t.Error("expected error for top k 0")
	}
	if _, err := sel.SelectAll(field, NewBruteForceIndex(nil), 5); err == nil {
		t.Error("expected error for empty index")
	}
	if _, err := sel.SelectAll(TargetColorField{}, index, 5); err == nil {
		t.Error("expected error for empty field")
	}
}

func TestSelectCell(t *testing.T) {
	sel := NewRandomTileSelector(rand.New(rand.NewSource(4)))
	candidates := []Candidate{{Image: 3}, {Image: 7}}
	for i := 0; i < 20; i++ {
		if got := sel.selectCell(candidates, 3); got != 7 {
			t.Fatalf("expected 7, got %d", got)
		}
	}
	if got := sel.selectCell(candidates[:1], 3); got != 3 {
		t.Errorf("expected the sole candidate 3, got %d", got)
	}
	if got := sel.selectCell(nil, 3); got != NoImageID {
		t.Errorf("expected NoImageID for no candidates, got %d", got)
	}
}

func TestComputeTargetColors(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	left := color.NRGBA{R: 200, G: 10, B: 10, A: 0xff}
	right := color.NRGBA{R: 10, G: 10, B: 200, A: 0xff}
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if x < 20 {
				img.Set(x, y, left)
			} else {
				img.Set(x, y, right)
			}
		}
	}
	field := ComputeTargetColors(img, Grid{Cols: 4, Rows: 2}, TargetResizer)
	if g := field.Grid(); g.Cols != 4 || g.Rows != 2 {
		t.Fatalf("unexpected field size %s", g)
	}
	for _, row := range field {
		if row[0].R < row[0].B || row[3].B < row[3].R {
			t.Errorf("unexpected target colors %v", row)
		}
	}
}
