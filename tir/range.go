// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tir

import "fmt"

// Range is the half-open interval [Min, Min+Extent).
type Range struct {
	Min    Expr
	Extent Expr
}

// RangeFromExtent normalizes a plain extent to the range [0, extent).
func RangeFromExtent(extent Expr) Range {
	return Range{Min: Const(0), Extent: extent}
}

// NewRange returns the range [min, min+extent).
func NewRange(min, extent Expr) Range {
	return Range{Min: min, Extent: extent}
}

// String representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("range(%v, %v)", r.Min, r.Extent)
}
