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
	"go.uber.org/multierr"

	"github.com/gx-org/tir/tir"
)

// Coordinate is one element of a generator's return sequence: either
// an output coordinate expression or an axis separator.
type Coordinate interface {
	coordinate()
}

type axisCoordinate struct {
	expr tir.Expr
}

func (axisCoordinate) coordinate() {}

// Axis returns a coordinate produced by an expression.
func Axis(expr tir.Expr) Coordinate {
	return axisCoordinate{expr: expr}
}

type axisSeparator struct{}

func (axisSeparator) coordinate() {}

// Separator marks a split point between groups of output coordinates.
// It is not a coordinate itself: layout-flattening policies consume
// its position, the mapping algebra ignores it.
func Separator() Coordinate {
	return axisSeparator{}
}

// Generator produces the output coordinates of a map from its domain
// variables. A generator is invoked exactly once, with one variable
// per domain dimension.
type Generator func(indices []*tir.Var) []Coordinate

// FuncSpec describes the signature a generator is invoked with.
// The domain variables are synthesized in order: one per name in
// Params, then the variables filling the variadic slot, then one per
// name in Keyword.
type FuncSpec struct {
	// Params are the fixed positional parameters.
	Params []string

	// Keyword are the keyword-only parameters, appended after the
	// positional ones.
	Keyword []string

	// Variadic, when non-empty, is the name of a variadic positional
	// slot. NDim must then be set, and the slot receives
	// NDim-len(Params)-len(Keyword) variables named after it.
	Variadic string

	// NDim is the total number of domain dimensions. Zero means
	// unspecified, which is only valid without a variadic slot.
	NDim int
}

func (spec FuncSpec) domainVars() ([]*tir.Var, error) {
	fixed := len(spec.Params) + len(spec.Keyword)
	names := append([]string{}, spec.Params...)
	if spec.Variadic != "" {
		if spec.NDim == 0 {
			return nil, errors.Errorf("ndim must be specified when %s is variadic", spec.Variadic)
		}
		extra := spec.NDim - fixed
		if extra < 0 {
			return nil, errors.Errorf("ndim %d is below the declared parameter count %d", spec.NDim, fixed)
		}
		for i := range extra {
			names = append(names, fmt.Sprintf("%s_%d", spec.Variadic, i))
		}
	} else if spec.NDim != 0 && spec.NDim != fixed {
		return nil, errors.Errorf("ndim %d does not match the parameter count %d", spec.NDim, fixed)
	}
	names = append(names, spec.Keyword...)
	seen := make(map[string]bool, len(names))
	vars := make([]*tir.Var, len(names))
	for i, name := range names {
		if seen[name] {
			return nil, errors.Errorf("duplicate parameter name %s", name)
		}
		seen[name] = true
		vars[i] = tir.NewVar(name)
	}
	return vars, nil
}

// FromFunc builds an index map from a generator. The generator may not
// return separators; use FromFuncWithSeparators to build layouts with
// axis groups.
func FromFunc(spec FuncSpec, g Generator) (*IndexMap, error) {
	m, separators, err := FromFuncWithSeparators(spec, g)
	if err != nil {
		return nil, err
	}
	if len(separators) > 0 {
		return nil, errors.Errorf("the generator returned %d axis separators; use FromFuncWithSeparators", len(separators))
	}
	return m, nil
}

// FromFuncWithSeparators builds an index map from a generator, along
// with the positions of the axis separators it returned. A separator's
// position is the number of coordinate expressions preceding it.
func FromFuncWithSeparators(spec FuncSpec, g Generator) (*IndexMap, []int, error) {
	vars, err := spec.domainVars()
	if err != nil {
		return nil, nil, err
	}
	var final []tir.Expr
	var separators []int
	var errs error
	for pos, coord := range g(vars) {
		switch cT := coord.(type) {
		case axisCoordinate:
			if cT.expr == nil {
				errs = multierr.Append(errs, errors.Errorf("coordinate %d: nil expression", pos))
				continue
			}
			final = append(final, cT.expr)
		case axisSeparator:
			separators = append(separators, len(final))
		case nil:
			errs = multierr.Append(errs, errors.Errorf("coordinate %d is nil", pos))
		}
	}
	if errs != nil {
		return nil, nil, errs
	}
	m, err := New(vars, final)
	if err != nil {
		return nil, nil, err
	}
	return m, separators, nil
}
