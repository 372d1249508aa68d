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
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
)

// FSTileDB is the collection of tile files in a directory. The paths are
// stored relative to the Root directory and sorted, the position of a path is
// the id used to access the file.
type FSTileDB struct {
	Root  string
	Paths []string
}

// NewFSTileDB returns an empty database for the given directory.
func NewFSTileDB(root string) *FSTileDB {
	return &FSTileDB{Root: root, Paths: nil}
}

// GetPath returns the path of the file with the given id.
func (db *FSTileDB) GetPath(id ImageID) string {
	return filepath.Join(db.Root, db.Paths[id])
}

// NumImages returns the number of files in the database.
func (db *FSTileDB) NumImages() ImageID {
	return ImageID(len(db.Paths))
}

// LoadImage decodes the file with the given id.
func (db *FSTileDB) LoadImage(id ImageID) (image.Image, error) {
	if id < 0 || id >= db.NumImages() {
		return nil, fmt.Errorf("Invalid image id: Not associated with an image %d", id)
	}
	return LoadImage(db.GetPath(id))
}

// GenFSTileDB lists all files directly inside root (the directory is not
// searched recursively) that are accepted by filter. If filter is nil
// CommonImageFormats is used.
//
// If root does not exist or is not a directory the returned error wraps
// ErrTileDirectoryMissing.
func GenFSTileDB(root string, filter SupportedImageFunc) (*FSTileDB, error) {
	root, absErr := filepath.Abs(root)
	if absErr != nil {
		return nil, absErr
	}
	if filter == nil {
		filter = CommonImageFormats
	}
	info, statErr := os.Stat(root)
	switch {
	case statErr != nil && errors.Is(statErr, os.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrTileDirectoryMissing, root)
	case statErr != nil:
		return nil, statErr
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrTileDirectoryMissing, root)
	}
	entries, readErr := os.ReadDir(root)
	if readErr != nil {
		return nil, readErr
	}
	result := NewFSTileDB(root)
	for _, entry := range entries {
		if !entry.IsDir() && filter(filepath.Ext(entry.Name())) {
			result.Paths = append(result.Paths, entry.Name())
		}
	}
	sort.Strings(result.Paths)
	return result, nil
}
