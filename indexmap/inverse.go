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

package indexmap

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gx-org/tir/arith"
	"github.com/gx-org/tir/base/uname"
	"github.com/gx-org/tir/tir"
)

// ErrNonBijective reports that a map could not be proven bijective
// over the requested domain. Callers for which padding-tolerant
// semantics are acceptable should fall back to NonSurjectiveInverse.
var ErrNonBijective = errors.New("index map is not provably bijective")

// RangesFromExtents normalizes plain extents to half-open ranges
// starting at zero.
func RangesFromExtents(extents ...tir.Expr) []tir.Range {
	ranges := make([]tir.Range, len(extents))
	for i, extent := range extents {
		ranges[i] = tir.RangeFromExtent(extent)
	}
	return ranges
}

// Inverse returns the mathematical inverse of the map, valid when the
// map restricted to the box described by shape is a bijection onto its
// image. The returned error matches ErrNonBijective when bijectivity
// cannot be proven.
func (m *IndexMap) Inverse(an *arith.Analyzer, shape []tir.Range) (*IndexMap, error) {
	outputs, extents, err := m.inverseDomain(an, shape)
	if err != nil {
		return nil, err
	}
	iterMap, err := an.DetectIterMap(m.FinalIndices, m.InitialIndices, extents)
	if err != nil {
		return nil, errors.Wrapf(ErrNonBijective, "cannot invert %v: %s", m, err)
	}
	if !iterMap.IsBijective() {
		return nil, errors.Wrapf(ErrNonBijective, "%v does not cover its codomain box exactly over %v", m, shape)
	}
	inverse, _, err := m.buildInverse(iterMap, outputs)
	return inverse, err
}

// NonSurjectiveInverse returns the inverse of a map that need not be
// surjective over its codomain box, typically because it introduces
// padding. The inverse is defined everywhere on the box; the second
// result is a predicate over the inverse map's own variables that is
// true exactly where the inverse lands back inside shape. Callers must
// conjoin this predicate with any use of the inverse to exclude the
// padding region.
func (m *IndexMap) NonSurjectiveInverse(an *arith.Analyzer, shape []tir.Range) (*IndexMap, tir.Expr, error) {
	outputs, extents, err := m.inverseDomain(an, shape)
	if err != nil {
		return nil, nil, err
	}
	iterMap, err := an.DetectIterMap(m.FinalIndices, m.InitialIndices, extents)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot invert %v", m)
	}
	return m.buildInverse(iterMap, outputs)
}

// inverseDomain normalizes the shape the map is inverted over and
// synthesizes the inverse's domain variables.
func (m *IndexMap) inverseDomain(an *arith.Analyzer, shape []tir.Range) ([]*tir.Var, []tir.Expr, error) {
	if len(shape) != len(m.InitialIndices) {
		return nil, nil, errors.Errorf("got a %d-dimensional shape but the map has %d initial indices", len(shape), len(m.InitialIndices))
	}
	reserved := make([]string, len(m.InitialIndices))
	extents := make([]tir.Expr, len(shape))
	for i, r := range shape {
		min := r.Min
		if min == nil {
			min = tir.Const(0)
		}
		if !an.CanProveEqual(min, tir.Const(0)) {
			return nil, nil, errors.Errorf("range %v of %s must start at zero", r, m.InitialIndices[i].Name)
		}
		extents[i] = r.Extent
		reserved[i] = m.InitialIndices[i].Name
	}
	names := uname.New(reserved...)
	outputs := make([]*tir.Var, len(m.FinalIndices))
	for j := range outputs {
		outputs[j] = tir.NewVar(names.Name(fmt.Sprintf("axis%d", j)))
	}
	return outputs, extents, nil
}

func (m *IndexMap) buildInverse(iterMap *arith.IterMap, outputs []*tir.Var) (*IndexMap, tir.Expr, error) {
	exprs, predicate, err := iterMap.Inverse(outputs)
	if err != nil {
		return nil, nil, err
	}
	inverse, err := New(outputs, exprs)
	if err != nil {
		return nil, nil, err
	}
	return inverse, predicate, nil
}
