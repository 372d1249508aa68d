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
	"container/heap"
	"fmt"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Candidate is the result of a color index query: a tile and the euclidean
// distance between its average color and the query color.
type Candidate struct {
	Image    ImageID
	Distance float64
}

// ColorIndex supports k-nearest neighbor queries over the average colors of
// the tile library.
//
// Implementations are immutable after construction and must be safe for
// concurrent use.
type ColorIndex interface {
	// Len returns the number of tiles in the index.
	Len() int

	// Color returns the average color of a tile.
	Color(id ImageID) AverageColor

	// Query returns the (up to) k tiles closest to c by euclidean distance in
	// RGB space. The result is sorted by ascending distance, tiles with equal
	// distance are sorted by id. k is clamped to Len.
	Query(c AverageColor, k int) []Candidate
}

// BuildColorIndex builds a color index over the average colors of tiles. The
// id of each tile must be its position in tiles.
//
// If fewer than minTiles tiles are given an *InsufficientTilesError is
// returned. If the number of tiles is at most bruteForceLimit the index is a
// BruteForceIndex, otherwise a KDTreeIndex.
func BuildColorIndex(tiles []*Tile, minTiles, bruteForceLimit int) (ColorIndex, error) {
	if len(tiles) < minTiles {
		return nil, &InsufficientTilesError{Found: len(tiles), Required: minTiles}
	}
	colors := make([]AverageColor, len(tiles))
	for i, tile := range tiles {
		if tile.ID != ImageID(i) {
			return nil, fmt.Errorf("Tile at position %d has id %d", i, tile.ID)
		}
		colors[i] = tile.Average
	}
	if len(colors) <= bruteForceLimit {
		log.WithField("tiles", len(colors)).Debug("Using brute force color index")
		return NewBruteForceIndex(colors), nil
	}
	log.WithField("tiles", len(colors)).Debug("Using kd-tree color index")
	return NewKDTreeIndex(colors), nil
}

// IndexKind returns a short description of the index type, used in reports.
func IndexKind(index ColorIndex) string {
	switch index.(type) {
	case *BruteForceIndex:
		return "brute-force"
	case *KDTreeIndex:
		return "kd-tree"
	default:
		return fmt.Sprintf("%T", index)
	}
}

func clampK(k, n int) int {
	return IntClamp(k, 0, n)
}

// BruteForceIndex is a ColorIndex that compares the query with each tile.
// A bounded ImageHeap retains the k best tiles.
// It is a good choice for small tile libraries.
type BruteForceIndex struct {
	colors []AverageColor
}

// NewBruteForceIndex returns a new index, the id of each color is its position
// in colors.
func NewBruteForceIndex(colors []AverageColor) *BruteForceIndex {
	cp := make([]AverageColor, len(colors))
	copy(cp, colors)
	return &BruteForceIndex{colors: cp}
}

// Len returns the number of tiles.
func (index *BruteForceIndex) Len() int {
	return len(index.colors)
}

// Color returns the average color of a tile.
func (index *BruteForceIndex) Color(id ImageID) AverageColor {
	return index.colors[id]
}

// Query implements ColorIndex.
func (index *BruteForceIndex) Query(c AverageColor, k int) []Candidate {
	k = clampK(k, len(index.colors))
	if k == 0 {
		return nil
	}
	h := NewImageHeap(k)
	for i, tileColor := range index.colors {
		h.Add(ImageID(i), squaredColorDist(c, tileColor))
	}
	view := h.GetView()
	res := make([]Candidate, len(view))
	for i, entry := range view {
		res[i] = Candidate{Image: entry.Image, Distance: math.Sqrt(entry.Value)}
	}
	return res
}

// KDTreeIndex is a ColorIndex backed by a kd-tree over the RGB space.
// It should be used for big tile libraries.
type KDTreeIndex struct {
	colors []AverageColor
	tree   *kdtree.Tree
}

// NewKDTreeIndex returns a new index, the id of each color is its position in
// colors.
func NewKDTreeIndex(colors []AverageColor) *KDTreeIndex {
	cp := make([]AverageColor, len(colors))
	copy(cp, colors)
	points := make(tilePoints, len(cp))
	for i, c := range cp {
		points[i] = tilePoint{id: ImageID(i), color: [3]float64{c.R, c.G, c.B}}
	}
	return &KDTreeIndex{colors: cp, tree: kdtree.New(points, false)}
}

// Len returns the number of tiles.
func (index *KDTreeIndex) Len() int {
	return len(index.colors)
}

// Color returns the average color of a tile.
func (index *KDTreeIndex) Color(id ImageID) AverageColor {
	return index.colors[id]
}

// Query implements ColorIndex.
func (index *KDTreeIndex) Query(c AverageColor, k int) []Candidate {
	k = clampK(k, len(index.colors))
	if k == 0 {
		return nil
	}
	keeper := newCandidateKeeper(k)
	query := tilePoint{id: NoImageID, color: [3]float64{c.R, c.G, c.B}}
	index.tree.NearestSet(keeper, query)
	res := make([]Candidate, 0, k)
	for _, entry := range keeper.entries {
		if entry.Comparable == nil {
			// sentinel, if not removed by the tree
			continue
		}
		res = append(res, Candidate{
			Image:    entry.Comparable.(tilePoint).id,
			Distance: math.Sqrt(entry.Dist),
		})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Distance != res[j].Distance {
			return res[i].Distance < res[j].Distance
		}
		return res[i].Image < res[j].Image
	})
	return res
}

// tilePoint is a tile color in the kd-tree, it implements kdtree.Comparable.
type tilePoint struct {
	id    ImageID
	color [3]float64
}

func (p tilePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(tilePoint)
	return p.color[d] - q.color[d]
}

func (p tilePoint) Dims() int {
	return 3
}

// Distance returns the squared euclidean distance, this is what the tree
// compares plane distances against.
func (p tilePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(tilePoint)
	return SquaredEuclideanDistance(p.color[:], q.color[:])
}

// tilePoints implements kdtree.Interface.
type tilePoints []tilePoint

func (p tilePoints) Index(i int) kdtree.Comparable {
	return p[i]
}

func (p tilePoints) Len() int {
	return len(p)
}

func (p tilePoints) Pivot(d kdtree.Dim) int {
	return tilePlane{tilePoints: p, Dim: d}.Pivot()
}

func (p tilePoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

// tilePlane sorts tile points along one dimension.
type tilePlane struct {
	kdtree.Dim
	tilePoints
}

func (p tilePlane) Less(i, j int) bool {
	return p.tilePoints[i].color[p.Dim] < p.tilePoints[j].color[p.Dim]
}

func (p tilePlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (p tilePlane) Slice(start, end int) kdtree.SortSlicer {
	p.tilePoints = p.tilePoints[start:end]
	return p
}

func (p tilePlane) Swap(i, j int) {
	p.tilePoints[i], p.tilePoints[j] = p.tilePoints[j], p.tilePoints[i]
}

// candidateKeeper implements kdtree.Keeper. It retains the n nearest points,
// points with equal distance are ordered by tile id so the result is the same
// as the one of BruteForceIndex.
//
// Until n points are found a sentinel with infinite distance and a nil
// Comparable is the maximum of the heap.
type candidateKeeper struct {
	entries []kdtree.ComparableDist
	n       int
}

func newCandidateKeeper(n int) *candidateKeeper {
	entries := make([]kdtree.ComparableDist, 1, n+1)
	entries[0] = kdtree.ComparableDist{Comparable: nil, Dist: math.Inf(1)}
	return &candidateKeeper{entries: entries, n: n}
}

func keeperWorse(a, b kdtree.ComparableDist) bool {
	if a.Dist != b.Dist {
		return a.Dist > b.Dist
	}
	switch {
	case a.Comparable == nil:
		return b.Comparable != nil
	case b.Comparable == nil:
		return false
	default:
		return a.Comparable.(tilePoint).id > b.Comparable.(tilePoint).id
	}
}

func (k *candidateKeeper) Keep(c kdtree.ComparableDist) {
	if !keeperWorse(k.entries[0], c) {
		return
	}
	if len(k.entries) >= k.n {
		heap.Pop(k)
	}
	heap.Push(k, c)
}

func (k *candidateKeeper) Max() kdtree.ComparableDist {
	return k.entries[0]
}

func (k *candidateKeeper) Len() int {
	return len(k.entries)
}

func (k *candidateKeeper) Less(i, j int) bool {
	return keeperWorse(k.entries[i], k.entries[j])
}

func (k *candidateKeeper) Swap(i, j int) {
	k.entries[i], k.entries[j] = k.entries[j], k.entries[i]
}

func (k *candidateKeeper) Push(x interface{}) {
	k.entries = append(k.entries, x.(kdtree.ComparableDist))
}

func (k *candidateKeeper) Pop() interface{} {
	old := k.entries
	n := len(old)
	x := old[n-1]
	k.entries = old[:n-1]
	return x
}
