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

// SquaredEuclideanDistance returns (p1 - q1)² + ... + (pn - qn)².
// It preserves the order of the euclidean distance and is cheaper to compute,
// the color indexes compare squared distances and take the square root only
// for the returned candidates.
func SquaredEuclideanDistance(p, q []float64) float64 {
	var sum float64
	for i, e1 := range p {
		e2 := q[i]
		diff := (e1 - e2)
		sum += (diff * diff)
	}
	return sum
}

// squaredColorDist is SquaredEuclideanDistance for two colors without the
// slice allocations.
func squaredColorDist(a, b AverageColor) float64 {
	dr, dg, db := a.R-b.R, a.G-b.G, a.B-b.B
	return dr*dr + dg*dg + db*db
}
