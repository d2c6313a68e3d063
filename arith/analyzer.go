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

// Package arith is the default symbolic prover over tir expressions.
//
// The prover is sound but deliberately incomplete: every operation
// terminates, and anything it cannot establish by rewriting is reported
// as not provable. It also hosts the iterator-map analysis used to
// invert index mappings over rectangular domains.
package arith

import (
	"github.com/gx-org/tir/tir"
)

// Analyzer proves properties of integer expressions by normalization.
// An Analyzer is stateless: a single instance may be shared by
// concurrent callers.
type Analyzer struct{}

var _ tir.Analyzer = (*Analyzer)(nil)

// New returns an analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// CanProveEqual returns true if x and y provably evaluate to the same
// value for every assignment of their variables. A false result means
// the equality could not be established, not that it does not hold.
func (an *Analyzer) CanProveEqual(x, y tir.Expr) bool {
	if x == nil || y == nil {
		return false
	}
	if tir.Equal(x, y) {
		return true
	}
	lz := newLinearizer()
	lz.add(an.Simplify(x), 1)
	lz.add(an.Simplify(y), -1)
	lz.eliminateDivMod()
	return lz.isZero()
}

// constInt returns the value of a constant integer expression.
func constInt(e tir.Expr) (int64, bool) {
	imm, ok := e.(*tir.IntImm)
	if !ok {
		return 0, false
	}
	return imm.Value, true
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

// floorMod is the remainder of floorDiv. It has the sign of the divisor.
func floorMod(x, y int64) int64 {
	return x - floorDiv(x, y)*y
}

// ceilDiv divides rounding toward positive infinity.
func ceilDiv(x, y int64) int64 {
	return floorDiv(x+y-1, y)
}
