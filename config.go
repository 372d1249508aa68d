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
	"math/rand"
	"runtime"
	"time"
)

// Default values for Config, see the Config fields for a description.
const (
	DefaultTileWidth       = 40
	DefaultTileHeight      = 40
	DefaultMinCols         = 60
	DefaultMaxCols         = 160
	DefaultTopK            = 50
	DefaultAlphaMin        = 0.18
	DefaultAlphaMax        = 0.45
	DefaultMinTiles        = 20
	DefaultBruteForceLimit = 256
	DefaultJPEGQuality     = 95
	DefaultResizeQuality   = 5
)

// Config contains all parameters of a mosaic run. They're fixed once a run
// starts.
type Config struct {
	// TileWidth and TileHeight are the size of each tile in the mosaic (in
	// pixels). All tiles are normalized to this size.
	TileWidth, TileHeight int

	// MinCols and MaxCols bound the number of grid columns. The number of
	// columns is derived from the query width, the number of rows from the
	// aspect ratio.
	MinCols, MaxCols int

	// TopK is the number of nearest tiles considered for each cell. One of them
	// is chosen at random.
	TopK int

	// AlphaMin and AlphaMax bound the blend strength of the mosaic, see
	// GridPlanner.ChooseAlpha.
	AlphaMin, AlphaMax float64

	// MinTiles is the minimum number of tiles that must be loaded.
	MinTiles int

	// Seed is used to seed the random generator of the tile selection. If nil
	// the generator is seeded with the current time.
	Seed *int64

	// BruteForceLimit is the maximal number of tiles for which a linear scan
	// is used in the color index. Bigger tile libraries use a kd-tree.
	BruteForceLimit int

	// NumRoutines is the number of go routines used to load tiles and to query
	// the color index.
	NumRoutines int

	// JPEGQuality is the quality between 1 and 100 used when storing jpg
	// images.
	JPEGQuality int

	// ResizeQuality selects the interpolation used to normalize tiles and to
	// scale the query image for blending, see GetInterP. The default is
	// Lanczos3.
	ResizeQuality uint
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	numRoutines := runtime.NumCPU()
	if numRoutines <= 0 {
		numRoutines = 4
	}
	return Config{
		TileWidth:       DefaultTileWidth,
		TileHeight:      DefaultTileHeight,
		MinCols:         DefaultMinCols,
		MaxCols:         DefaultMaxCols,
		TopK:            DefaultTopK,
		AlphaMin:        DefaultAlphaMin,
		AlphaMax:        DefaultAlphaMax,
		MinTiles:        DefaultMinTiles,
		Seed:            nil,
		BruteForceLimit: DefaultBruteForceLimit,
		NumRoutines:     numRoutines,
		JPEGQuality:     DefaultJPEGQuality,
		ResizeQuality:   DefaultResizeQuality,
	}
}

// Validate checks the configuration, all returned errors wrap
// ErrInvalidConfig.
func (config Config) Validate() error {
	switch {
	case config.TileWidth <= 0 || config.TileHeight <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %dx%d",
			ErrInvalidConfig, config.TileWidth, config.TileHeight)
	case config.MinCols < 1 || config.MaxCols < config.MinCols:
		return fmt.Errorf("%w: invalid column bounds [%d, %d]",
			ErrInvalidConfig, config.MinCols, config.MaxCols)
	case config.TopK < 1:
		return fmt.Errorf("%w: top k must be at least 1, got %d",
			ErrInvalidConfig, config.TopK)
	case config.AlphaMin < 0 || config.AlphaMax > 1 || config.AlphaMin > config.AlphaMax:
		return fmt.Errorf("%w: invalid alpha bounds [%g, %g]",
			ErrInvalidConfig, config.AlphaMin, config.AlphaMax)
	case config.MinTiles < 1:
		return fmt.Errorf("%w: minimum number of tiles must be at least 1, got %d",
			ErrInvalidConfig, config.MinTiles)
	case config.JPEGQuality < 1 || config.JPEGQuality > 100:
		return fmt.Errorf("%w: jpeg quality must be between 1 and 100, got %d",
			ErrInvalidConfig, config.JPEGQuality)
	default:
		return nil
	}
}

// Planner returns the grid planner described by the config.
func (config Config) Planner() GridPlanner {
	return GridPlanner{
		MinCols:  config.MinCols,
		MaxCols:  config.MaxCols,
		AlphaMin: config.AlphaMin,
		AlphaMax: config.AlphaMax,
	}
}

// NewRand returns the random generator for the tile selection, seeded with
// Seed if set.
func (config Config) NewRand() *rand.Rand {
	seed := time.Now().UnixNano()
	if config.Seed != nil {
		seed = *config.Seed
	}
	return rand.New(rand.NewSource(seed))
}

// WithSeed returns a copy of the config with the given seed.
func (config Config) WithSeed(seed int64) Config {
	config.Seed = &seed
	return config
}

// Resizer returns the resizer for tiles and blending.
func (config Config) Resizer() ImageResizer {
	return NewNfntResizer(GetInterP(config.ResizeQuality))
}

func (config Config) routines() int {
	if config.NumRoutines <= 0 {
		return 1
	}
	return config.NumRoutines
}
