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

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
)

// Tile is a normalized tile image together with its average color.
// Tiles are immutable once created.
type Tile struct {
	// ID is the position of the tile in the tile library.
	ID ImageID
	// Path is the file the tile was read from, empty for tiles not read from
	// disk.
	Path string
	// Image has exactly the configured tile size.
	Image *image.NRGBA
	// Average is the average color of Image.
	Average AverageColor
}

// NewTile normalizes img to tileWidth x tileHeight with FillResize and
// computes the average color of the result.
func NewTile(id ImageID, img image.Image, tileWidth, tileHeight int, resizer ImageResizer) *Tile {
	normalized := imaging.Clone(FillResize(resizer, uint(tileWidth), uint(tileHeight), img))
	return &Tile{
		ID:      id,
		Image:   normalized,
		Average: ComputeAverageColor(normalized),
	}
}

// TileLookup returns the tile with a given id, nil if there is no such tile.
type TileLookup func(id ImageID) *Tile

// TileSliceLookup returns a TileLookup for tiles where the id of each tile is
// its position in the slice.
func TileSliceLookup(tiles []*Tile) TileLookup {
	return func(id ImageID) *Tile {
		if id < 0 || int(id) >= len(tiles) {
			return nil
		}
		return tiles[id]
	}
}

// LoadTiles decodes and normalizes all images from db. Files that can't be
// decoded are skipped and reported in the second return value, this is not an
// error. The returned tiles keep the order of db and are numbered 0, 1, ...
//
// numRoutines files are processed concurrently, progress (may be nil) is
// called after each file.
func LoadTiles(db *FSTileDB, tileWidth, tileHeight int, resizer ImageResizer,
	numRoutines int, progress ProgressFunc) ([]*Tile, []*TileDecodeError) {
	if numRoutines <= 0 {
		numRoutines = 1
	}
	numImages := int(db.NumImages())
	loaded := make([]*Tile, numImages)
	failed := make([]*TileDecodeError, numImages)

	jobs := make(chan ImageID, BufferSize)
	done := make(chan bool, BufferSize)

	for w := 0; w < numRoutines; w++ {
		go func() {
			for id := range jobs {
				img, imgErr := db.LoadImage(id)
				if imgErr != nil {
					failed[id] = &TileDecodeError{Path: db.GetPath(id), Err: imgErr}
				} else if img.Bounds().Empty() {
					failed[id] = &TileDecodeError{Path: db.GetPath(id), Err: errEmptyImage}
				} else {
					tile := NewTile(id, img, tileWidth, tileHeight, resizer)
					tile.Path = db.GetPath(id)
					loaded[id] = tile
				}
				done <- true
			}
		}()
	}

	go func() {
		for id := 0; id < numImages; id++ {
			jobs <- ImageID(id)
		}
		close(jobs)
	}()

	for i := 0; i < numImages; i++ {
		<-done
		if progress != nil {
			progress(i + 1)
		}
	}

	// compact the result, ids are positions in the result
	tiles := make([]*Tile, 0, numImages)
	var skipped []*TileDecodeError
	for id := 0; id < numImages; id++ {
		if decodeErr := failed[id]; decodeErr != nil {
			log.WithFields(log.Fields{
				log.ErrorKey: decodeErr.Err,
				"path":       decodeErr.Path,
			}).Warn("Can't read tile image, skipping it")
			skipped = append(skipped, decodeErr)
			continue
		}
		tile := loaded[id]
		tile.ID = ImageID(len(tiles))
		tiles = append(tiles, tile)
		if log.IsLevelEnabled(log.DebugLevel) {
			log.WithFields(log.Fields{
				"id":      tile.ID,
				"path":    tile.Path,
				"average": tile.Average.Hex(),
			}).Debug("Loaded tile")
		}
	}
	return tiles, skipped
}
