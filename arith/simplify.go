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
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tir/tir"
)

// Simplify returns an expression provably equal to e. The rewrite is a
// single bottom-up pass: constant folding, identity elimination, and
// linear recombination of sums (which cancels matching floordiv/floormod
// pairs).
func (an *Analyzer) Simplify(e tir.Expr) tir.Expr {
	if e == nil {
		return nil
	}
	switch eT := e.(type) {
	case *tir.Var, *tir.IntImm:
		return eT
	case *tir.NotExpr:
		return an.simplifyNot(eT)
	case *tir.BufferLoad:
		return eT
	case *tir.BinaryExpr:
		return an.simplifyBinary(eT)
	}
	return e
}

func (an *Analyzer) simplifyNot(e *tir.NotExpr) tir.Expr {
	x := an.Simplify(e.X)
	if v, ok := boolConst(x); ok {
		if v {
			return tir.False()
		}
		return tir.True()
	}
	if inner, ok := x.(*tir.NotExpr); ok {
		return inner.X
	}
	if x == e.X {
		return e
	}
	return tir.Not(x)
}

func (an *Analyzer) simplifyBinary(e *tir.BinaryExpr) tir.Expr {
	x := an.Simplify(e.X)
	y := an.Simplify(e.Y)
	if folded := foldConst(e.Op, x, y); folded != nil {
		return folded
	}
	if rewritten := rewriteIdentity(e.Op, x, y); rewritten != nil {
		return rewritten
	}
	node := e
	if x != e.X || y != e.Y {
		node = &tir.BinaryExpr{Op: e.Op, X: x, Y: y}
	}
	if e.Op == tir.OpAdd || e.Op == tir.OpSub {
		if linear := an.linearSimplify(node); linear != nil {
			return linear
		}
	}
	return node
}

// linearSimplify normalizes a sum to a linear combination, cancels
// floordiv/floormod pairs, and keeps the rebuilt expression when it is
// strictly smaller than the input.
func (an *Analyzer) linearSimplify(e tir.Expr) tir.Expr {
	lz := newLinearizer()
	lz.add(e, 1)
	lz.eliminateDivMod()
	rebuilt := lz.expr()
	if countNodes(rebuilt) < countNodes(e) {
		return rebuilt
	}
	return nil
}

func boolConst(e tir.Expr) (bool, bool) {
	imm, ok := e.(*tir.IntImm)
	if !ok || imm.Typ != dtype.Bool {
		return false, false
	}
	return imm.Value != 0, true
}

func boolImm(v bool) tir.Expr {
	if v {
		return tir.True()
	}
	return tir.False()
}

// foldConst folds an operation on two constants, or nil if either
// operand is not constant.
func foldConst(op tir.BinaryOp, x, y tir.Expr) tir.Expr {
	if op.IsLogical() {
		return nil
	}
	xv, okX := constInt(x)
	yv, okY := constInt(y)
	if !okX || !okY {
		return nil
	}
	if op.IsCompare() {
		var v bool
		switch op {
		case tir.OpEq:
			v = xv == yv
		case tir.OpNe:
			v = xv != yv
		case tir.OpLt:
			v = xv < yv
		case tir.OpLe:
			v = xv <= yv
		case tir.OpGt:
			v = xv > yv
		case tir.OpGe:
			v = xv >= yv
		}
		return boolImm(v)
	}
	var v int64
	switch op {
	case tir.OpAdd:
		v = xv + yv
	case tir.OpSub:
		v = xv - yv
	case tir.OpMul:
		v = xv * yv
	case tir.OpFloorDiv:
		if yv == 0 {
			return nil
		}
		v = floorDiv(xv, yv)
	case tir.OpFloorMod:
		if yv == 0 {
			return nil
		}
		v = floorMod(xv, yv)
	case tir.OpMin:
		v = min(xv, yv)
	case tir.OpMax:
		v = max(xv, yv)
	default:
		return nil
	}
	return &tir.IntImm{Value: v, Typ: x.DType()}
}

// rewriteIdentity applies the algebraic identities that do not need
// operand normalization, or nil if none applies.
func rewriteIdentity(op tir.BinaryOp, x, y tir.Expr) tir.Expr {
	xv, xConst := constInt(x)
	yv, yConst := constInt(y)
	xBool, xIsBool := boolConst(x)
	yBool, yIsBool := boolConst(y)
	switch op {
	case tir.OpAdd:
		if xConst && xv == 0 {
			return y
		}
		if yConst && yv == 0 {
			return x
		}
	case tir.OpSub:
		if yConst && yv == 0 {
			return x
		}
		if tir.Equal(x, y) {
			return &tir.IntImm{Value: 0, Typ: x.DType()}
		}
	case tir.OpMul:
		if xConst && xv == 1 {
			return y
		}
		if yConst && yv == 1 {
			return x
		}
		if (xConst && xv == 0) || (yConst && yv == 0) {
			return &tir.IntImm{Value: 0, Typ: x.DType()}
		}
	case tir.OpFloorDiv:
		if yConst && yv == 1 {
			return x
		}
		if xConst && xv == 0 {
			return x
		}
	case tir.OpFloorMod:
		if yConst && yv == 1 {
			return &tir.IntImm{Value: 0, Typ: x.DType()}
		}
		if xConst && xv == 0 {
			return x
		}
	case tir.OpMin, tir.OpMax:
		if tir.Equal(x, y) {
			return x
		}
	case tir.OpEq, tir.OpLe, tir.OpGe:
		if tir.Equal(x, y) {
			return tir.True()
		}
	case tir.OpNe, tir.OpLt, tir.OpGt:
		if tir.Equal(x, y) {
			return tir.False()
		}
	case tir.OpAnd:
		if xIsBool {
			return boolShortCircuit(xBool, true, y)
		}
		if yIsBool {
			return boolShortCircuit(yBool, true, x)
		}
	case tir.OpOr:
		if xIsBool {
			return boolShortCircuit(xBool, false, y)
		}
		if yIsBool {
			return boolShortCircuit(yBool, false, x)
		}
	}
	return nil
}

// boolShortCircuit reduces a logical operation with one constant
// operand: the neutral element yields the other operand, the absorbing
// element yields itself.
func boolShortCircuit(v, neutral bool, other tir.Expr) tir.Expr {
	if v == neutral {
		return other
	}
	return boolImm(v)
}

func countNodes(e tir.Expr) int {
	switch eT := e.(type) {
	case *tir.BinaryExpr:
		return 1 + countNodes(eT.X) + countNodes(eT.Y)
	case *tir.NotExpr:
		return 1 + countNodes(eT.X)
	case *tir.BufferLoad:
		n := 1
		for _, index := range eT.Indices {
			n += countNodes(index)
		}
		return n
	default:
		return 1
	}
}
