// Package photomosaic generates blended photomosaics. Given a query image and a
// library of tile images it replaces every cell of a grid laid over the query
// with the tile whose average color comes closest, then blends the tile canvas
// with the original so the query stays recognizable.
//
// The workflow is: plan the grid (GridPlanner), build a color index over the
// tile library (ColorIndex), compute one target color per cell
// (ComputeTargetColors), select a tile for each cell (RandomTileSelector),
// compose the canvas (ComposeMosaic) and blend it with the original (Blend).
// Generate runs all of these steps.
//
// It ships with an executable program in cmd/photomosaic.
package photomosaic
