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

package arith

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"

	"github.com/gx-org/tir/tir"
)

// iterSplit is one contiguous piece of a domain variable: the value
// floormod(floordiv(source, lowerFactor), extent), taken scale times
// in the sum it belongs to.
type iterSplit struct {
	source      *tir.Var
	lowerFactor int64
	extent      tir.Expr
	scale       int64
}

// iterSum is one output coordinate: a fusion of splits plus a constant
// offset. After finalization, splits are ordered by decreasing scale
// and the scales telescope (scale_k = scale_{k+1} * extent_{k+1}).
type iterSum struct {
	splits []*iterSplit
	base   int64
}

// IterMap is the decomposition of a list of output expressions over a
// rectangular variable domain into disjoint iterator splits. It proves
// injectivity by construction: detection fails unless every domain
// variable is tiled contiguously and exactly once by the splits.
type IterMap struct {
	an       *Analyzer
	vars     []*tir.Var
	domain   map[*tir.Var]tir.Expr
	sums     []*iterSum
	bySource map[*tir.Var][]*iterSplit
	padded   map[*tir.Var]bool
}

// DetectIterMap parses output index expressions over a variable domain
// into an iterator map. The recognized grammar is the split/fuse
// algebra: variables, floordiv and floormod by positive constants,
// multiplication by positive constants, sums, and constant zero
// offsets. Detection is conservative: any expression outside the
// grammar, or any set of splits that does not tile its source
// variables, is an error.
func (an *Analyzer) DetectIterMap(indices []tir.Expr, vars []*tir.Var, extents []tir.Expr) (*IterMap, error) {
	if len(vars) != len(extents) {
		return nil, errors.Errorf("got %d extents for %d domain variables", len(extents), len(vars))
	}
	m := &IterMap{
		an:       an,
		vars:     vars,
		domain:   make(map[*tir.Var]tir.Expr, len(vars)),
		bySource: make(map[*tir.Var][]*iterSplit),
		padded:   make(map[*tir.Var]bool),
	}
	for i, v := range vars {
		if _, dup := m.domain[v]; dup {
			return nil, errors.Errorf("duplicate variable %s in the domain", v.Name)
		}
		m.domain[v] = an.Simplify(extents[i])
	}
	for _, index := range indices {
		sum, err := m.parse(an.Simplify(index))
		if err != nil {
			return nil, errors.Wrapf(err, "cannot analyze index %v", index)
		}
		if err := finalizeSum(sum); err != nil {
			return nil, errors.Wrapf(err, "cannot analyze index %v", index)
		}
		m.sums = append(m.sums, sum)
	}
	if err := m.validateTiling(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *IterMap) parse(e tir.Expr) (*iterSum, error) {
	switch eT := e.(type) {
	case *tir.IntImm:
		return &iterSum{base: eT.Value}, nil
	case *tir.Var:
		extent, ok := m.domain[eT]
		if !ok {
			return nil, errors.Errorf("%s is not a domain variable", eT.Name)
		}
		return &iterSum{splits: []*iterSplit{{
			source: eT, lowerFactor: 1, extent: extent, scale: 1,
		}}}, nil
	case *tir.BinaryExpr:
		switch eT.Op {
		case tir.OpAdd:
			x, err := m.parse(eT.X)
			if err != nil {
				return nil, err
			}
			y, err := m.parse(eT.Y)
			if err != nil {
				return nil, err
			}
			return &iterSum{splits: append(x.splits, y.splits...), base: x.base + y.base}, nil
		case tir.OpSub:
			x, err := m.parse(eT.X)
			if err != nil {
				return nil, err
			}
			y, err := m.parse(eT.Y)
			if err != nil {
				return nil, err
			}
			if len(y.splits) > 0 {
				return nil, errors.Errorf("cannot subtract iterator %v", eT.Y)
			}
			x.base -= y.base
			return x, nil
		case tir.OpMul:
			return m.parseMul(eT)
		case tir.OpFloorDiv:
			return m.parseDiv(eT)
		case tir.OpFloorMod:
			return m.parseMod(eT)
		}
	}
	return nil, errors.Errorf("%v is outside the split/fuse grammar", e)
}

func (m *IterMap) parseMul(e *tir.BinaryExpr) (*iterSum, error) {
	factor := e.Y
	inner := e.X
	if _, ok := constInt(factor); !ok {
		factor, inner = inner, factor
	}
	c, ok := constInt(factor)
	if !ok {
		return nil, errors.Errorf("%v is not a product by a constant", e)
	}
	if c <= 0 {
		return nil, errors.Errorf("cannot scale iterator %v by the non-positive constant %d", inner, c)
	}
	sum, err := m.parse(inner)
	if err != nil {
		return nil, err
	}
	for _, split := range sum.splits {
		split.scale *= c
	}
	sum.base *= c
	return sum, nil
}

// parseSingle parses an expression that must reduce to exactly one
// unscaled split, the form floordiv and floormod peel pieces from.
func (m *IterMap) parseSingle(e tir.Expr) (*iterSplit, error) {
	sum, err := m.parse(e)
	if err != nil {
		return nil, err
	}
	if len(sum.splits) != 1 || sum.base != 0 || sum.splits[0].scale != 1 {
		return nil, errors.Errorf("%v is not a single iterator", e)
	}
	return sum.splits[0], nil
}

func (m *IterMap) parseDiv(e *tir.BinaryExpr) (*iterSum, error) {
	c, ok := constInt(e.Y)
	if !ok || c <= 0 {
		return nil, errors.Errorf("cannot divide %v by %v", e.X, e.Y)
	}
	split, err := m.parseSingle(e.X)
	if err != nil {
		return nil, err
	}
	if extent, ok := constInt(split.extent); ok {
		if c >= extent {
			// The split always divides to zero.
			return &iterSum{}, nil
		}
		return &iterSum{splits: []*iterSplit{{
			source:      split.source,
			lowerFactor: split.lowerFactor * c,
			extent:      tir.Const(ceilDiv(extent, c)),
			scale:       1,
		}}}, nil
	}
	padded := m.an.Simplify(tir.FloorDiv(tir.Add(split.extent, tir.Const(c-1)), tir.Const(c)))
	return &iterSum{splits: []*iterSplit{{
		source:      split.source,
		lowerFactor: split.lowerFactor * c,
		extent:      padded,
		scale:       1,
	}}}, nil
}

func (m *IterMap) parseMod(e *tir.BinaryExpr) (*iterSum, error) {
	c, ok := constInt(e.Y)
	if !ok || c <= 0 {
		return nil, errors.Errorf("cannot take %v modulo %v", e.X, e.Y)
	}
	split, err := m.parseSingle(e.X)
	if err != nil {
		return nil, err
	}
	if extent, ok := constInt(split.extent); ok && extent <= c {
		// The modulo never strips anything.
		return &iterSum{splits: []*iterSplit{split}}, nil
	}
	return &iterSum{splits: []*iterSplit{{
		source:      split.source,
		lowerFactor: split.lowerFactor,
		extent:      tir.Const(c),
		scale:       1,
	}}}, nil
}

// finalizeSum orders the splits of a fused output by decreasing scale
// and checks that the scales telescope, so that the output covers
// exactly [0, scale_0*extent_0) with a unique decomposition.
func finalizeSum(sum *iterSum) error {
	if sum.base != 0 {
		return errors.Errorf("offset iterators are not supported")
	}
	slices.SortFunc(sum.splits, func(a, b *iterSplit) int {
		return cmp.Compare(b.scale, a.scale)
	})
	last := len(sum.splits) - 1
	if last >= 0 && sum.splits[last].scale != 1 {
		return errors.Errorf("fusion is not compact: smallest scale is %d", sum.splits[last].scale)
	}
	for k := 0; k < last; k++ {
		inner := sum.splits[k+1]
		extent, ok := constInt(inner.extent)
		if !ok {
			return errors.Errorf("fused iterator %s has a non-constant extent %v", inner.source.Name, inner.extent)
		}
		if sum.splits[k].scale != inner.scale*extent {
			return errors.Errorf("fusion is not compact: scale %d does not match %d*%v", sum.splits[k].scale, inner.scale, inner.extent)
		}
	}
	return nil
}

// validateTiling checks that, across all outputs, the splits of every
// domain variable tile it contiguously and exactly once, and records
// which variables are padded beyond their declared extent.
func (m *IterMap) validateTiling() error {
	for _, sum := range m.sums {
		for _, split := range sum.splits {
			m.bySource[split.source] = append(m.bySource[split.source], split)
		}
	}
	for _, v := range m.vars {
		splits := m.bySource[v]
		extent := m.domain[v]
		if len(splits) == 0 {
			if !m.an.CanProveEqual(extent, tir.Const(1)) {
				return errors.Errorf("input %s is not covered by the mapping", v.Name)
			}
			continue
		}
		slices.SortFunc(splits, func(a, b *iterSplit) int {
			return cmp.Compare(a.lowerFactor, b.lowerFactor)
		})
		m.bySource[v] = splits
		if splits[0].lowerFactor != 1 {
			return errors.Errorf("input %s: lowest split starts at factor %d", v.Name, splits[0].lowerFactor)
		}
		for k := 0; k+1 < len(splits); k++ {
			ext, ok := constInt(splits[k].extent)
			if !ok {
				return errors.Errorf("input %s: split with non-constant extent %v below another split", v.Name, splits[k].extent)
			}
			next := splits[k].lowerFactor * ext
			if splits[k+1].lowerFactor != next {
				return errors.Errorf("input %s: splits overlap or leave a gap at factor %d", v.Name, splits[k+1].lowerFactor)
			}
		}
		top := splits[len(splits)-1]
		covered := coveredExtent(top)
		if ext, extConst := constInt(extent); extConst {
			if cov, covConst := constInt(covered); covConst {
				if cov < ext {
					return errors.Errorf("input %s: the mapping only covers %d of %d values", v.Name, cov, ext)
				}
				m.padded[v] = cov > ext
				continue
			}
		}
		m.padded[v] = !m.an.CanProveEqual(covered, extent)
	}
	return nil
}

// coveredExtent returns lowerFactor*extent of the topmost split,
// the number of source values the tiling accounts for.
func coveredExtent(top *iterSplit) tir.Expr {
	if ext, ok := constInt(top.extent); ok {
		return tir.Const(top.lowerFactor * ext)
	}
	return tir.Mul(top.extent, tir.Const(top.lowerFactor))
}

// IsBijective returns true if the detected map is a bijection between
// the domain box and the box spanned by the output extents: every
// source is tiled exactly, with no padding.
func (m *IterMap) IsBijective() bool {
	for _, v := range m.vars {
		if m.padded[v] {
			return false
		}
	}
	return true
}

// Inverse reconstructs every domain variable as an expression of the
// given output variables, one per detected output. The second result
// is the validity predicate over the output variables: it is true
// exactly where the reconstruction falls inside the declared domain,
// and the constant true when no source is padded. The reconstruction
// is the canonical preimage: the unique one inside the padded box.
func (m *IterMap) Inverse(outputs []*tir.Var) ([]tir.Expr, tir.Expr, error) {
	if len(outputs) != len(m.sums) {
		return nil, nil, errors.Errorf("got %d output variables but the map has %d outputs", len(outputs), len(m.sums))
	}
	values := make(map[*iterSplit]tir.Expr)
	for j, sum := range m.sums {
		y := outputs[j]
		for k, split := range sum.splits {
			var v tir.Expr = y
			if split.scale > 1 {
				v = tir.FloorDiv(v, tir.Const(split.scale))
			}
			if k > 0 {
				v = tir.FloorMod(v, split.extent)
			}
			values[split] = v
		}
	}
	exprs := make([]tir.Expr, len(m.vars))
	pred := tir.Expr(tir.True())
	for i, v := range m.vars {
		splits := m.bySource[v]
		var recon tir.Expr
		for k := len(splits) - 1; k >= 0; k-- {
			split := splits[k]
			term := values[split]
			if split.lowerFactor > 1 {
				term = tir.Mul(term, tir.Const(split.lowerFactor))
			}
			if recon == nil {
				recon = term
			} else {
				recon = tir.Add(recon, term)
			}
		}
		if recon == nil {
			recon = tir.Const(0)
		}
		recon = m.an.Simplify(recon)
		exprs[i] = recon
		if m.padded[v] {
			pred = tir.And(pred, tir.Lt(recon, m.domain[v]))
		}
	}
	return exprs, m.an.Simplify(pred), nil
}
