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

// Package indexmap implements mappings between multi-dimensional index
// spaces: construction from a declarative generator, application to
// indices and shapes, symbolic equivalence, and inversion, exact or
// padding-tolerant.
package indexmap

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/gx-org/tir/tir"
)

// IndexMap describes a function f: Z^n -> Z^m from tuples of
// InitialIndices values to tuples of FinalIndices values. A map is
// immutable once built: every operation allocates fresh results and
// leaves its receiver untouched.
type IndexMap struct {
	// InitialIndices are the domain coordinates, in order.
	InitialIndices []*tir.Var
	// FinalIndices are the codomain coordinates, expressions over
	// InitialIndices.
	FinalIndices []tir.Expr
}

// New returns an index map. The initial variables must be distinct and
// every free variable of a final expression must be one of them.
func New(initial []*tir.Var, final []tir.Expr) (*IndexMap, error) {
	domain := make(map[*tir.Var]bool, len(initial))
	for _, v := range initial {
		if domain[v] {
			return nil, errors.Errorf("duplicate initial index %s", v.Name)
		}
		domain[v] = true
	}
	for j, e := range final {
		if e == nil {
			return nil, errors.Errorf("final index %d is nil", j)
		}
		for _, free := range tir.FreeVars(e) {
			if !domain[free] {
				return nil, errors.Errorf("final index %d uses %s which is not an initial index", j, free.Name)
			}
		}
	}
	return &IndexMap{InitialIndices: initial, FinalIndices: final}, nil
}

// MapIndices applies the map to an index tuple: each initial variable
// is substituted by the corresponding input expression in every final
// expression. The substitution is purely symbolic.
func (m *IndexMap) MapIndices(indices []tir.Expr) ([]tir.Expr, error) {
	if len(indices) != len(m.InitialIndices) {
		return nil, errors.Errorf("got %d indices but the map has %d initial indices", len(indices), len(m.InitialIndices))
	}
	sub := make(map[*tir.Var]tir.Expr, len(indices))
	for i, v := range m.InitialIndices {
		sub[v] = indices[i]
	}
	mapped := make([]tir.Expr, len(m.FinalIndices))
	for j, e := range m.FinalIndices {
		mapped[j] = tir.Substitute(e, sub)
	}
	return mapped, nil
}

// MapShape applies the map to a buffer shape. The inputs are
// interpreted as per-dimension extents rather than as concrete
// indices; the substitution contract is the same as MapIndices.
func (m *IndexMap) MapShape(shape []tir.Expr) ([]tir.Expr, error) {
	if len(shape) != len(m.InitialIndices) {
		return nil, errors.Errorf("got a %d-dimensional shape but the map has %d initial indices", len(shape), len(m.InitialIndices))
	}
	return m.MapIndices(shape)
}

// IsEquivalentTo returns true if the two maps provably represent the
// same transformation: other is applied to the receiver's own domain
// variables and each resulting coordinate must be provably equal to
// the receiver's. Maps of different arities are not equivalent. The
// check is conservative: an equality the analyzer cannot prove counts
// as a mismatch.
func (m *IndexMap) IsEquivalentTo(an tir.Analyzer, other *IndexMap) bool {
	if len(m.InitialIndices) != len(other.InitialIndices) {
		return false
	}
	if len(m.FinalIndices) != len(other.FinalIndices) {
		return false
	}
	args := make([]tir.Expr, len(m.InitialIndices))
	for i, v := range m.InitialIndices {
		args[i] = v
	}
	mapped, err := other.MapIndices(args)
	if err != nil {
		return false
	}
	for j, e := range m.FinalIndices {
		if !an.CanProveEqual(e, mapped[j]) {
			return false
		}
	}
	return true
}

// String representation of the map, as a lambda from its initial to
// its final indices.
func (m *IndexMap) String() string {
	initial := make([]string, len(m.InitialIndices))
	for i, v := range m.InitialIndices {
		initial[i] = v.Name
	}
	final := make([]string, len(m.FinalIndices))
	for j, e := range m.FinalIndices {
		final[j] = e.String()
	}
	return fmt.Sprintf("(%s) -> (%s)", strings.Join(initial, ", "), strings.Join(final, ", "))
}
