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
	"os"
	"path/filepath"
	"testing"
)

func testConfig() Config {
	config := DefaultConfig()
	config.TileWidth, config.TileHeight = 2, 2
	config.MinCols, config.MaxCols = 4, 4
	config.NumRoutines = 2
	return config.WithSeed(17)
}

func TestGenerate(t *testing.T) {
	config := testConfig()
	query := solidImage(40, 30, color.NRGBA{R: 120, G: 90, B: 60, A: 0xff})
	tiles := solidTiles(gradientColors(25), 2, 2)

	res, err := Generate(config, query, tiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Summary.Grid != (Grid{Cols: 4, Rows: 3}) {
		t.Errorf("expected a 4x3 grid, got %s", res.Summary.Grid)
	}
	for _, img := range []struct {
		name          string
		width, height int
	}{
		{"image", res.Image.Bounds().Dx(), res.Image.Bounds().Dy()},
		{"canvas", res.Canvas.Bounds().Dx(), res.Canvas.Bounds().Dy()},
	} {
		if img.width != 8 || img.height != 6 {
			t.Errorf("%s: expected 8x6, got %dx%d", img.name, img.width, img.height)
		}
	}
	summary := res.Summary
	if summary.OutputWidth != 8 || summary.OutputHeight != 6 {
		t.Errorf("unexpected output size in summary %dx%d", summary.OutputWidth, summary.OutputHeight)
	}
	if summary.TilesLoaded != 25 || summary.IndexKind != "brute-force" || summary.RunID == "" {
		t.Errorf("unexpected summary %+v", summary)
	}
	if summary.SourceColor != "#785a3c" {
		t.Errorf("expected source color #785a3c, got %s", summary.SourceColor)
	}
	if summary.Alpha < config.AlphaMin || summary.Alpha > config.AlphaMax {
		t.Errorf("alpha %g not in [%g, %g]", summary.Alpha, config.AlphaMin, config.AlphaMax)
	}
	last := NoImageID
	for _, row := range res.Selection {
		for _, id := range row {
			if id == last {
				t.Fatalf("tile %d used in two consecutive cells", id)
			}
			last = id
		}
	}

	again, err := Generate(config, query, tiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range res.Selection {
		for j := range res.Selection[i] {
			if res.Selection[i][j] != again.Selection[i][j] {
				t.Fatalf("same seed gave different selections at row %d, column %d", i, j)
			}
		}
	}
	if again.Summary.RunID == summary.RunID {
		t.Error("expected a new run id for each run")
	}
}

func TestGenerateNearestTile(t *testing.T) {
	config := testConfig()
	config.TopK = 1
	colors := gradientColors(25)
	query := solidImage(40, 30, colors[7])
	res, err := Generate(config, query, solidTiles(colors, 2, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bounds := res.Canvas.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if got := res.Canvas.NRGBAAt(x, y); got != colors[7] {
				t.Fatalf("pixel (%d, %d): expected the nearest tile color %v, got %v", x, y, colors[7], got)
			}
		}
	}
	if usage := CountUsage(res.Selection); usage[7] != 12 {
		t.Errorf("expected tile 7 in all 12 cells, got %v", usage)
	}
}

func TestGenerateErrors(t *testing.T) {
	config := testConfig()
	query := solidImage(40, 30, color.NRGBA{A: 0xff})
	var insufficient *InsufficientTilesError
	if _, err := Generate(config, query, solidTiles(gradientColors(19), 2, 2)); !errors.As(err, &insufficient) {
		t.Errorf("expected InsufficientTilesError, got %v", err)
	}
	invalid := config
	invalid.TopK = 0
	if _, err := Generate(invalid, query, solidTiles(gradientColors(25), 2, 2)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := Generate(config, solidImage(0, 0, color.NRGBA{}), solidTiles(gradientColors(25), 2, 2)); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestGenerateFile(t *testing.T) {
	config := testConfig()
	tileDir := writeTileDir(t, 25, 5, 5)
	dir := t.TempDir()
	source := filepath.Join(dir, "source.png")
	writePNG(t, source, solidImage(40, 30, color.NRGBA{R: 200, G: 30, B: 30, A: 0xff}))
	out := filepath.Join(dir, "mosaic.png")

	summary, err := GenerateFile(config, source, tileDir, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TilesLoaded != 25 || summary.TilesSkipped != 0 {
		t.Errorf("unexpected tile counts %d / %d", summary.TilesLoaded, summary.TilesSkipped)
	}
	img, err := LoadImage(out)
	if err != nil {
		t.Fatalf("can't read output: %v", err)
	}
	if bounds := img.Bounds(); bounds.Dx() != 8 || bounds.Dy() != 6 {
		t.Errorf("expected 8x6 output, got %v", bounds)
	}
}

func TestGenerateFileErrors(t *testing.T) {
	config := testConfig()
	dir := t.TempDir()
	source := filepath.Join(dir, "source.png")
	writePNG(t, source, solidImage(40, 30, color.NRGBA{A: 0xff}))
	out := filepath.Join(dir, "mosaic.png")

	if _, err := GenerateFile(config, filepath.Join(dir, "missing.png"), filepath.Join(dir, "missing"), out); !errors.Is(err, ErrSourceImageMissing) {
		t.Errorf("expected ErrSourceImageMissing first, got %v", err)
	}
	if _, err := GenerateFile(config, source, filepath.Join(dir, "missing"), out); !errors.Is(err, ErrTileDirectoryMissing) {
		t.Errorf("expected ErrTileDirectoryMissing, got %v", err)
	}
	var insufficient *InsufficientTilesError
	if _, err := GenerateFile(config, source, writeTileDir(t, 5, 2, 2), out); !errors.As(err, &insufficient) {
		t.Errorf("expected InsufficientTilesError, got %v", err)
	} else if insufficient.Found != 5 || insufficient.Required != DefaultMinTiles {
		t.Errorf("unexpected error values %+v", insufficient)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("no output must be written on errors, stat returned %v", statErr)
	}
}
