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

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	photomosaic "github.com/spbraden2007-ux/photo-mosaic-generator"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
)

func main() {
	defaults := photomosaic.DefaultConfig()
	in := flag.String("in", "", "the image to create a mosaic of")
	tiles := flag.String("tiles", "", "directory containing the tile images")
	out := flag.String("out", "mosaic.jpg", "output file (jpg, png, gif, tif or bmp)")
	tileSize := flag.String("tile", fmt.Sprintf("%dx%d", defaults.TileWidth, defaults.TileHeight),
		"size of each tile, given as \"WIDTHxHEIGHT\"")
	topK := flag.Int("topk", defaults.TopK, "number of closest tiles considered for each cell")
	seed := flag.Int64("seed", 0, "seed of the tile selection, 0 means random")
	minCols := flag.Int("min-cols", defaults.MinCols, "minimal number of columns")
	maxCols := flag.Int("max-cols", defaults.MaxCols, "maximal number of columns")
	minTiles := flag.Int("min-tiles", defaults.MinTiles, "minimal number of readable tile images")
	quality := flag.Int("quality", defaults.JPEGQuality, "jpg quality between 1 and 100")
	routines := flag.Int("routines", defaults.NumRoutines, "number of go routines")
	interp := flag.Uint("interp", defaults.ResizeQuality,
		"interpolation used for resizing, 0 (nearest neighbor) to 5 (Lanczos3)")
	verbose := flag.Bool("verbose", false, "print debug output")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *in == "" || *tiles == "" {
		fmt.Fprintln(os.Stderr, "Error: -in and -tiles are required")
		flag.Usage()
		os.Exit(2)
	}

	config := defaults
	tileWidth, tileHeight, dimErr := photomosaic.ParseDimensions(*tileSize)
	if dimErr != nil {
		exitErr(dimErr)
	}
	config.TileWidth, config.TileHeight = tileWidth, tileHeight
	config.TopK = *topK
	config.MinCols, config.MaxCols = *minCols, *maxCols
	config.MinTiles = *minTiles
	config.JPEGQuality = *quality
	config.NumRoutines = *routines
	config.ResizeQuality = *interp
	if *seed != 0 {
		config = config.WithSeed(*seed)
	}

	inPath, inErr := expandPath(*in)
	if inErr != nil {
		exitErr(inErr)
	}
	tilesPath, tilesErr := expandPath(*tiles)
	if tilesErr != nil {
		exitErr(tilesErr)
	}
	outPath, outErr := expandPath(*out)
	if outErr != nil {
		exitErr(outErr)
	}

	summary, err := photomosaic.GenerateFile(config, inPath, tilesPath, outPath)
	if err != nil {
		var insufficient *photomosaic.InsufficientTilesError
		switch {
		case errors.Is(err, photomosaic.ErrSourceImageMissing):
			fmt.Fprintln(os.Stderr, "Error: source image does not exist:", inPath)
		case errors.Is(err, photomosaic.ErrTileDirectoryMissing):
			fmt.Fprintln(os.Stderr, "Error: tile directory does not exist:", tilesPath)
		case errors.As(err, &insufficient):
			fmt.Fprintf(os.Stderr, "Error: found %d readable tile images in %s, need at least %d\n",
				insufficient.Found, tilesPath, insufficient.Required)
		}
		exitErr(err)
	}
	fmt.Println(summary)
	fmt.Println("Mosaic written to", outPath)
}

// expandPath expands the home directory and returns the absolute path.
func expandPath(path string) (string, error) {
	expanded, expandErr := homedir.Expand(path)
	if expandErr != nil {
		return "", expandErr
	}
	return filepath.Abs(expanded)
}

func exitErr(err error) {
	log.WithField(log.ErrorKey, err).Error("Can't create mosaic")
	os.Exit(1)
}
