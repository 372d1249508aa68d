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
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Summary describes a finished mosaic run.
type Summary struct {
	RunID                     string
	Grid                      Grid
	TileWidth, TileHeight     int
	OutputWidth, OutputHeight int
	Alpha                     float64
	TilesLoaded, TilesSkipped int
	DistinctTiles             int
	IndexKind                 string

	// SourceColor is the average color of the query image as hex string.
	SourceColor string

	LoadTime, SelectionTime, CompositionTime, TotalTime time.Duration
}

// Fields returns the summary as log fields.
func (summary *Summary) Fields() log.Fields {
	return log.Fields{
		"run":      summary.RunID,
		"grid":     summary.Grid.String(),
		"tile":     fmt.Sprintf("%dx%d", summary.TileWidth, summary.TileHeight),
		"output":   fmt.Sprintf("%dx%d", summary.OutputWidth, summary.OutputHeight),
		"alpha":    fmt.Sprintf("%.3f", summary.Alpha),
		"tiles":    summary.TilesLoaded,
		"skipped":  summary.TilesSkipped,
		"distinct": summary.DistinctTiles,
		"index":    summary.IndexKind,
		"source":   summary.SourceColor,
		"total":    summary.TotalTime,
	}
}

func (summary *Summary) String() string {
	return fmt.Sprintf(`Run:            %s
Grid:           %s
Tile size:      %dx%d
Output size:    %dx%d
Alpha:          %.3f
Tiles loaded:   %d (%d skipped)
Distinct tiles: %d
Index:          %s
Source color:   %s
Loading:        %v
Selection:      %v
Composition:    %v
Total:          %v`,
		summary.RunID, summary.Grid,
		summary.TileWidth, summary.TileHeight,
		summary.OutputWidth, summary.OutputHeight,
		summary.Alpha,
		summary.TilesLoaded, summary.TilesSkipped,
		summary.DistinctTiles, summary.IndexKind, summary.SourceColor,
		summary.LoadTime, summary.SelectionTime, summary.CompositionTime,
		summary.TotalTime)
}

// Result is the outcome of Generate.
type Result struct {
	// Image is the blended and sharpened mosaic.
	Image *image.NRGBA
	// Canvas is the mosaic before blending.
	Canvas    *image.NRGBA
	Selection Selection
	Summary   *Summary
}

func newSummary(config Config) *Summary {
	return &Summary{
		RunID:      uuid.New().String(),
		TileWidth:  config.TileWidth,
		TileHeight: config.TileHeight,
	}
}

// Generate creates a mosaic of query from the given tiles. The tiles must be
// normalized to the tile size of config and numbered 0, 1, ... as returned by
// LoadTiles.
func Generate(config Config, query image.Image, tiles []*Tile) (*Result, error) {
	return generate(config, query, tiles, newSummary(config))
}

func generate(config Config, query image.Image, tiles []*Tile, summary *Summary) (*Result, error) {
	start := time.Now()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if query == nil || query.Bounds().Empty() {
		return nil, errEmptyImage
	}
	logger := log.WithField("run", summary.RunID)
	summary.TilesLoaded = len(tiles)

	index, indexErr := BuildColorIndex(tiles, config.MinTiles, config.BruteForceLimit)
	if indexErr != nil {
		return nil, indexErr
	}
	summary.IndexKind = IndexKind(index)

	queryBounds := query.Bounds()
	summary.SourceColor = ComputeAverageColor(query).Hex()
	planner := config.Planner()
	grid := planner.ChooseGrid(queryBounds.Dx(), queryBounds.Dy(), config.TileWidth, config.TileHeight)
	summary.Grid = grid
	summary.Alpha = planner.ChooseAlpha(grid.Cols, grid.Rows)
	logger.WithFields(log.Fields{
		"grid":   grid.String(),
		"alpha":  summary.Alpha,
		"index":  summary.IndexKind,
		"source": summary.SourceColor,
	}).Info("Planned mosaic")

	selectionStart := time.Now()
	field := ComputeTargetColors(query, grid, TargetResizer)
	selector := NewRandomTileSelector(config.NewRand())
	selector.NumRoutines = config.routines()
	selection, selectErr := selector.SelectAll(field, index, config.TopK)
	if selectErr != nil {
		return nil, selectErr
	}
	summary.SelectionTime = time.Since(selectionStart)
	summary.DistinctTiles = len(CountUsage(selection))

	compositionStart := time.Now()
	resizer := config.Resizer()
	canvas, composeErr := ComposeMosaic(selection, TileSliceLookup(tiles), grid,
		config.TileWidth, config.TileHeight, resizer)
	if composeErr != nil {
		return nil, composeErr
	}
	blended := Blend(query, canvas, summary.Alpha, resizer)
	summary.CompositionTime = time.Since(compositionStart)
	outBounds := blended.Bounds()
	summary.OutputWidth, summary.OutputHeight = outBounds.Dx(), outBounds.Dy()
	summary.TotalTime += time.Since(start)

	return &Result{
		Image:     blended,
		Canvas:    canvas,
		Selection: selection,
		Summary:   summary,
	}, nil
}

// GenerateFile creates a mosaic of the image in sourcePath with the tile images
// in tileDir and writes it to outPath. The output file is only written if all
// steps succeeded.
//
// A missing source image is reported with ErrSourceImageMissing, a missing tile
// directory with ErrTileDirectoryMissing and too few readable tiles with an
// *InsufficientTilesError.
func GenerateFile(config Config, sourcePath, tileDir, outPath string) (*Summary, error) {
	start := time.Now()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	summary := newSummary(config)
	logger := log.WithField("run", summary.RunID)

	query, queryErr := LoadSourceImage(sourcePath)
	if queryErr != nil {
		return nil, queryErr
	}
	db, dbErr := GenFSTileDB(tileDir, nil)
	if dbErr != nil {
		return nil, dbErr
	}
	logger.WithFields(log.Fields{
		"dir":   tileDir,
		"files": db.NumImages(),
	}).Info("Loading tiles")
	progress := LoggerProgressFunc("Loading tiles", int(db.NumImages()), 100)
	tiles, failed := LoadTiles(db, config.TileWidth, config.TileHeight, config.Resizer(),
		config.routines(), progress)
	summary.TilesSkipped = len(failed)
	summary.LoadTime = time.Since(start)

	res, genErr := generate(config, query, tiles, summary)
	if genErr != nil {
		return nil, genErr
	}
	if saveErr := SaveImage(outPath, res.Image, config.JPEGQuality); saveErr != nil {
		return nil, fmt.Errorf("Can't write mosaic: %w", saveErr)
	}
	summary.TotalTime = time.Since(start)
	logger.WithFields(summary.Fields()).WithField("out", outPath).Info("Mosaic created")
	return summary, nil
}
