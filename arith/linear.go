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
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/gx-org/tir/tir"
)

// linearizer normalizes an expression to an integer linear combination
// of atoms plus a constant. An atom is a variable or any subexpression
// the normalization cannot see through (floordiv, floormod, min, max,
// non-constant products, loads). Atoms are keyed by structure, with
// variables numbered by identity in encounter order so that the rebuilt
// expression is deterministic.
type linearizer struct {
	terms  map[string]*linearTerm
	konst  int64
	varIDs map[*tir.Var]int
	nextID int
	order  int
}

type linearTerm struct {
	atom tir.Expr
	coef int64
	ord  int
}

func newLinearizer() *linearizer {
	return &linearizer{
		terms:  make(map[string]*linearTerm),
		varIDs: make(map[*tir.Var]int),
	}
}

// add accumulates scale*e into the linear form.
func (lz *linearizer) add(e tir.Expr, scale int64) {
	switch eT := e.(type) {
	case *tir.IntImm:
		lz.konst += scale * eT.Value
	case *tir.BinaryExpr:
		switch eT.Op {
		case tir.OpAdd:
			lz.add(eT.X, scale)
			lz.add(eT.Y, scale)
			return
		case tir.OpSub:
			lz.add(eT.X, scale)
			lz.add(eT.Y, -scale)
			return
		case tir.OpMul:
			if c, ok := constInt(eT.X); ok {
				lz.add(eT.Y, scale*c)
				return
			}
			if c, ok := constInt(eT.Y); ok {
				lz.add(eT.X, scale*c)
				return
			}
		}
		lz.addAtom(eT, scale)
	default:
		lz.addAtom(e, scale)
	}
}

func (lz *linearizer) addAtom(e tir.Expr, coef int64) {
	key := lz.key(e)
	term := lz.terms[key]
	if term == nil {
		term = &linearTerm{atom: e, ord: lz.order}
		lz.order++
		lz.terms[key] = term
	}
	term.coef += coef
}

// key returns the canonical structure of an atom. Two structurally
// equal expressions over the same variables share a key.
func (lz *linearizer) key(e tir.Expr) string {
	switch eT := e.(type) {
	case *tir.Var:
		id, ok := lz.varIDs[eT]
		if !ok {
			id = lz.nextID
			lz.nextID++
			lz.varIDs[eT] = id
		}
		return "v" + strconv.Itoa(id)
	case *tir.IntImm:
		return strconv.FormatInt(eT.Value, 10)
	case *tir.BinaryExpr:
		return eT.Op.String() + "(" + lz.key(eT.X) + "," + lz.key(eT.Y) + ")"
	case *tir.NotExpr:
		return "!(" + lz.key(eT.X) + ")"
	case *tir.BufferLoad:
		keys := make([]string, len(eT.Indices))
		for i, index := range eT.Indices {
			keys[i] = lz.key(index)
		}
		return fmt.Sprintf("load%p(%s)", eT.Buffer, strings.Join(keys, ","))
	}
	return fmt.Sprintf("%v", e)
}

// eliminateDivMod cancels pairs c*floordiv(x, c) + floormod(x, c) back
// into x. The pass repeats until no pair remains so that nested
// divisions collapse as well.
func (lz *linearizer) eliminateDivMod() {
	for changed := true; changed; {
		changed = false
		keys := maps.Keys(lz.terms)
		slices.Sort(keys)
		for _, key := range keys {
			term := lz.terms[key]
			if term == nil || term.coef == 0 {
				continue
			}
			div, ok := term.atom.(*tir.BinaryExpr)
			if !ok || div.Op != tir.OpFloorDiv {
				continue
			}
			c, ok := constInt(div.Y)
			if !ok || c <= 0 {
				continue
			}
			modKey := lz.key(tir.FloorMod(div.X, div.Y))
			mod := lz.terms[modKey]
			if mod == nil || mod.coef == 0 || term.coef != mod.coef*c {
				continue
			}
			coef := mod.coef
			delete(lz.terms, key)
			delete(lz.terms, modKey)
			lz.add(div.X, coef)
			changed = true
			break
		}
	}
}

// isZero returns true if the form is the constant zero.
func (lz *linearizer) isZero() bool {
	if lz.konst != 0 {
		return false
	}
	for _, term := range lz.terms {
		if term.coef != 0 {
			return false
		}
	}
	return true
}

// expr rebuilds an expression from the linear form, with terms in
// encounter order.
func (lz *linearizer) expr() tir.Expr {
	terms := make([]*linearTerm, 0, len(lz.terms))
	for _, term := range lz.terms {
		if term.coef != 0 {
			terms = append(terms, term)
		}
	}
	slices.SortFunc(terms, func(a, b *linearTerm) int { return a.ord - b.ord })

	var acc tir.Expr
	for _, term := range terms {
		switch {
		case acc == nil && term.coef == 1:
			acc = term.atom
		case acc == nil:
			acc = tir.Mul(term.atom, tir.Const(term.coef))
		case term.coef == 1:
			acc = tir.Add(acc, term.atom)
		case term.coef == -1:
			acc = tir.Sub(acc, term.atom)
		case term.coef > 0:
			acc = tir.Add(acc, tir.Mul(term.atom, tir.Const(term.coef)))
		default:
			acc = tir.Sub(acc, tir.Mul(term.atom, tir.Const(-term.coef)))
		}
	}
	switch {
	case acc == nil:
		return tir.Const(lz.konst)
	case lz.konst > 0:
		return tir.Add(acc, tir.Const(lz.konst))
	case lz.konst < 0:
		return tir.Sub(acc, tir.Const(-lz.konst))
	}
	return acc
}
