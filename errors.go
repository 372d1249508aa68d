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
	"errors"
	"fmt"
)

var (
	// ErrSourceImageMissing is returned if the query image does not exist.
	ErrSourceImageMissing = errors.New("Source image not found")

	// ErrTileDirectoryMissing is returned if the tile directory does not exist
	// or is not a directory.
	ErrTileDirectoryMissing = errors.New("Tile directory not found")

	// ErrInvalidConfig is wrapped by all errors returned from Config.Validate.
	ErrInvalidConfig = errors.New("Invalid configuration")

	errEmptyImage = errors.New("Image is empty")
)

// InsufficientTilesError is returned if fewer tiles than required could be
// loaded. The color index can't give meaningful variety below this floor.
type InsufficientTilesError struct {
	Found, Required int
}

func (err *InsufficientTilesError) Error() string {
	return fmt.Sprintf("Not enough tile images: need at least %d, found %d",
		err.Required, err.Found)
}

// TileDecodeError describes a tile file that could not be read. These errors
// are not fatal, the tile is skipped.
type TileDecodeError struct {
	Path string
	Err  error
}

func (err *TileDecodeError) Error() string {
	return fmt.Sprintf("Can't decode tile %s: %v", err.Path, err.Err)
}

func (err *TileDecodeError) Unwrap() error {
	return err.Err
}
