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
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

var (
	// ImageCacheSize is the size of image caches. If a tile does not have the
	// size of the mosaic cells it is resized during composition, the resized
	// versions are cached.
	ImageCacheSize = 15
)

// FillResize scales img to exactly tileWidth x tileHeight and keeps the ratio
// of the original image: It cuts the biggest centered area with the ratio of
// the tile from img and resizes that area with resizer.
func FillResize(resizer ImageResizer, tileWidth, tileHeight uint, img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()
	if srcWidth == 0 || srcHeight == 0 || tileWidth == 0 || tileHeight == 0 {
		return image.NewNRGBA(image.Rect(0, 0, int(tileWidth), int(tileHeight)))
	}
	cropWidth, cropHeight := srcWidth, srcHeight
	// compare srcWidth / srcHeight with tileWidth / tileHeight
	if srcWidth*int(tileHeight) > srcHeight*int(tileWidth) {
		// too wide
		cropWidth = IntMax(int(float64(srcHeight)*float64(tileWidth)/float64(tileHeight)+0.5), 1)
	} else {
		cropHeight = IntMax(int(float64(srcWidth)*float64(tileHeight)/float64(tileWidth)+0.5), 1)
	}
	x0 := bounds.Min.X + (srcWidth-cropWidth)/2
	y0 := bounds.Min.Y + (srcHeight-cropHeight)/2
	cropped := imaging.Crop(img, image.Rect(x0, y0, x0+cropWidth, y0+cropHeight))
	if cropWidth == int(tileWidth) && cropHeight == int(tileHeight) {
		return cropped
	}
	return resizer.Resize(tileWidth, tileHeight, cropped)
}

// ImageCache is used to cache resized versions of tiles during mosaic
// composition.
//
// Caches are safe for concurrent use.
type ImageCache struct {
	m           *sync.Mutex
	size        int
	content     map[string]image.Image
	insertOrder []string
}

// NewImageCache returns an empty image cache. size is the number of images that
// will be cached. size must be ≥ 1.
func NewImageCache(size int) *ImageCache {
	if size <= 0 {
		size = 1
	}
	var m sync.Mutex
	return &ImageCache{
		m:           &m,
		size:        size,
		content:     make(map[string]image.Image, size),
		insertOrder: make([]string, 0, size),
	}
}

func (cache *ImageCache) keyFormat(id ImageID, width, height int) string {
	return fmt.Sprintf("%d-%d-%d", id, width, height)
}

func (cache *ImageCache) lookup(key string) image.Image {
	if img, has := cache.content[key]; has {
		return img
	}
	return nil
}

// Put adds an image to the cache. Usually Put is called after Get: If the
// image was not found in the cache it is scaled and then added to the cache via
// Put. If the cache is full the oldest entry is removed.
func (cache *ImageCache) Put(id ImageID, width, height int, img image.Image) {
	cache.m.Lock()
	defer cache.m.Unlock()
	keyFmt := cache.keyFormat(id, width, height)
	// first check if image already in cache, if yes do nothing
	if lookup := cache.lookup(keyFmt); lookup != nil {
		return
	}
	if len(cache.insertOrder) >= cache.size {
		// cache full, remove first element form cache
		fst := cache.insertOrder[0]
		cache.insertOrder = cache.insertOrder[1:]
		delete(cache.content, fst)
	}
	cache.insertOrder = append(cache.insertOrder, keyFmt)
	cache.content[keyFmt] = img
}

// Get returns the image from the cache. If the return value is nil the image
// was not found in the cache and should be added to the cache by Put.
func (cache *ImageCache) Get(id ImageID, width, height int) image.Image {
	cache.m.Lock()
	defer cache.m.Unlock()
	return cache.lookup(cache.keyFormat(id, width, height))
}

// Len returns the number of cached images.
func (cache *ImageCache) Len() int {
	cache.m.Lock()
	defer cache.m.Unlock()
	return len(cache.insertOrder)
}

func insertTile(into *image.NRGBA, area image.Rectangle, tile *Tile,
	resizer ImageResizer, cache *ImageCache) {
	tileWidth, tileHeight := area.Dx(), area.Dy()
	var img image.Image = tile.Image
	tileBounds := tile.Image.Bounds()
	if tileBounds.Dx() != tileWidth || tileBounds.Dy() != tileHeight {
		img = cache.Get(tile.ID, tileWidth, tileHeight)
		if img == nil {
			img = FillResize(resizer, uint(tileWidth), uint(tileHeight), tile.Image)
			cache.Put(tile.ID, tileWidth, tileHeight, img)
		}
	}
	draw.Draw(into, area, img, img.Bounds().Min, draw.Src)
}

// ComposeMosaic renders the selection into a canvas of size
// (cols * tileWidth) x (rows * tileHeight). The tile selected for the cell in
// row i and column j is drawn with its top left corner at
// (j * tileWidth, i * tileHeight).
//
// Tiles are usually already normalized to the tile size, tiles of a different
// size are scaled with FillResize.
func ComposeMosaic(selection Selection, tiles TileLookup, grid Grid,
	tileWidth, tileHeight int, resizer ImageResizer) (*image.NRGBA, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("Invalid tile size %dx%d", tileWidth, tileHeight)
	}
	if len(selection) != grid.Rows {
		return nil, fmt.Errorf("Selection has %d rows, grid has %d", len(selection), grid.Rows)
	}
	division := grid.Division(tileWidth, tileHeight)
	if grid.NumCells() <= 0 || division.Size() != grid.NumCells() {
		return nil, fmt.Errorf("Invalid grid %s", grid)
	}
	res := image.NewNRGBA(grid.Bounds(tileWidth, tileHeight))
	cache := NewImageCache(ImageCacheSize)
	for i, row := range selection {
		if len(row) != grid.Cols {
			return nil, fmt.Errorf("Row %d of the selection has %d columns, grid has %d",
				i, len(row), grid.Cols)
		}
		for j, id := range row {
			tile := tiles(id)
			if tile == nil {
				return nil, fmt.Errorf("No tile with id %d (row %d, column %d)", id, i, j)
			}
			insertTile(res, division.Get(j, i), tile, resizer, cache)
		}
	}
	return res, nil
}
