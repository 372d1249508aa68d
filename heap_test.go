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

import "testing"

func TestImageHeapBound(t *testing.T) {
	h := NewImageHeap(3)
	values := []float64{5, 1, 9, 3, 7, 0.5}
	for i, v := range values {
		h.Add(ImageID(i), v)
	}
	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}
	view := h.GetView()
	expected := []ImageID{5, 1, 3}
	for i, entry := range view {
		if entry.Image != expected[i] {
			t.Errorf("position %d: expected image %d, got %d", i, expected[i], entry.Image)
		}
	}
}

func TestImageHeapTies(t *testing.T) {
	h := NewImageHeap(2)
	h.Add(4, 1)
	h.Add(2, 1)
	h.Add(3, 1)
	h.Add(0, 2)
	view := h.GetView()
	if len(view) != 2 || view[0].Image != 2 || view[1].Image != 3 {
		t.Errorf("expected images [2 3] on ties, got %v", view)
	}
}

func TestImageHeapZeroBound(t *testing.T) {
	h := NewImageHeap(0)
	h.Add(0, 1)
	if h.Len() != 0 || len(h.GetView()) != 0 {
		t.Errorf("heap with bound 0 must be empty, got %d entries", h.Len())
	}
}
