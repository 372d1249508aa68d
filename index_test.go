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
	"image/color"
	"math"
	"math/rand"
	"testing"
)

func randomColors(r *rand.Rand, n int) []AverageColor {
	res := make([]AverageColor, n)
	for i := range res {
		res[i] = NewAverageColor(r.Float64()*255, r.Float64()*255, r.Float64()*255)
	}
	return res
}

func indexVariants(colors []AverageColor) map[string]ColorIndex {
	return map[string]ColorIndex{
		"brute-force": NewBruteForceIndex(colors),
		"kd-tree":     NewKDTreeIndex(colors),
	}
}

func TestQueryExactMatch(t *testing.T) {
	colors := randomColors(rand.New(rand.NewSource(1)), 100)
	for name, index := range indexVariants(colors) {
		for id, c := range colors {
			res := index.Query(c, 1)
			if len(res) != 1 {
				t.Fatalf("%s: expected one candidate, got %d", name, len(res))
			}
			if res[0].Image != ImageID(id) || res[0].Distance != 0 {
				t.Errorf("%s: query of color %d returned %v", name, id, res[0])
			}
		}
	}
}

func TestQueryOrder(t *testing.T) {
	colors := []AverageColor{
		NewAverageColor(0, 0, 0),
		NewAverageColor(10, 0, 0),
		NewAverageColor(0, 3, 4),
		NewAverageColor(255, 255, 255),
		NewAverageColor(0, 0, 5),
	}
	for name, index := range indexVariants(colors) {
		res := index.Query(NewAverageColor(0, 0, 0), 4)
		expected := []Candidate{{0, 0}, {2, 5}, {4, 5}, {1, 10}}
		if len(res) != len(expected) {
			t.Fatalf("%s: expected %d candidates, got %d", name, len(expected), len(res))
		}
		for i := range expected {
			if res[i].Image != expected[i].Image || math.Abs(res[i].Distance-expected[i].Distance) > 1e-9 {
				t.Errorf("%s: position %d: expected %v, got %v", name, i, expected[i], res[i])
			}
		}
	}
}

func TestQueryClampsK(t *testing.T) {
	colors := randomColors(rand.New(rand.NewSource(2)), 10)
	for name, index := range indexVariants(colors) {
		if res := index.Query(NewAverageColor(1, 2, 3), 50); len(res) != 10 {
			t.Errorf("%s: expected k to be clamped to 10, got %d", name, len(res))
		}
		if res := index.Query(NewAverageColor(1, 2, 3), 0); len(res) != 0 {
			t.Errorf("%s: expected no candidates for k = 0, got %d", name, len(res))
		}
		if res := index.Query(NewAverageColor(1, 2, 3), -3); len(res) != 0 {
			t.Errorf("%s: expected no candidates for negative k, got %d", name, len(res))
		}
	}
}

func TestIndexVariantsAgree(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	colors := randomColors(r, 600)
	brute := NewBruteForceIndex(colors)
	tree := NewKDTreeIndex(colors)
	for _, k := range []int{1, 5, 50, 600} {
		for q := 0; q < 30; q++ {
			query := NewAverageColor(r.Float64()*255, r.Float64()*255, r.Float64()*255)
			expected := brute.Query(query, k)
			got := tree.Query(query, k)
			if len(got) != len(expected) {
				t.Fatalf("k = %d: kd-tree returned %d candidates, brute force %d", k, len(got), len(expected))
			}
			for i := range expected {
				if got[i].Image != expected[i].Image || math.Abs(got[i].Distance-expected[i].Distance) > 1e-9 {
					t.Fatalf("k = %d, query %s, position %d: kd-tree returned %v, brute force %v",
						k, query, i, got[i], expected[i])
				}
			}
		}
	}
}

func TestKDTreeTies(t *testing.T) {
	colors := make([]AverageColor, 12)
	for i := range colors {
		colors[i] = NewAverageColor(100, 100, 100)
	}
	res := NewKDTreeIndex(colors).Query(NewAverageColor(100, 100, 101), 5)
	for i, candidate := range res {
		if candidate.Image != ImageID(i) {
			t.Fatalf("expected equal colors to be ordered by id, got %v", res)
		}
	}
}

func TestBuildColorIndex(t *testing.T) {
	tiles := solidTiles(gradientColors(20), 2, 2)
	if _, err := BuildColorIndex(tiles[:19], 20, 256); err == nil {
		t.Fatal("expected error for 19 tiles")
	} else {
		var insufficient *InsufficientTilesError
		if !errors.As(err, &insufficient) {
			t.Fatalf("expected InsufficientTilesError, got %v", err)
		}
		if insufficient.Found != 19 || insufficient.Required != 20 {
			t.Errorf("unexpected error values %+v", insufficient)
		}
	}
	index, err := BuildColorIndex(tiles, 20, 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind := IndexKind(index); kind != "brute-force" {
		t.Errorf("expected brute-force index, got %s", kind)
	}
	if index.Len() != 20 {
		t.Errorf("expected 20 tiles in index, got %d", index.Len())
	}
	index, err = BuildColorIndex(tiles, 20, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind := IndexKind(index); kind != "kd-tree" {
		t.Errorf("expected kd-tree index, got %s", kind)
	}
	if c := index.Color(3); c.nrgba() != gradientColors(20)[3] {
		t.Errorf("unexpected color %v for tile 3", c)
	}
	if _, err := BuildColorIndex(tiles, 0, 10); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildColorIndexChecksIDs(t *testing.T) {
	tiles := solidTiles([]color.NRGBA{{A: 0xff}, {R: 1, A: 0xff}}, 2, 2)
	tiles[0], tiles[1] = tiles[1], tiles[0]
	if _, err := BuildColorIndex(tiles, 1, 256); err == nil {
		t.Error("expected error for tiles not ordered by id")
	}
}
