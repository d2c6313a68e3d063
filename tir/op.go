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

// BinaryOp is the operator of a binary expression.
type BinaryOp int

// Binary operators.
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	// OpFloorDiv divides rounding toward negative infinity.
	OpFloorDiv
	// OpFloorMod is the remainder of OpFloorDiv. Its result
	// has the sign of the divisor.
	OpFloorMod
	OpMin
	OpMax

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpAnd
	OpOr
)

var binaryOpNames = [...]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpFloorDiv: "floordiv",
	OpFloorMod: "floormod",
	OpMin:      "min",
	OpMax:      "max",
	OpEq:       "==",
	OpNe:       "!=",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
	OpAnd:      "&&",
	OpOr:       "||",
}

// String representation of the operator.
func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// IsCompare returns true for comparison operators.
func (op BinaryOp) IsCompare() bool {
	return op >= OpEq && op <= OpGe
}

// IsLogical returns true for the boolean connectives.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// Constructor helpers. All helpers build raw nodes:
// simplification is left to an Analyzer.

// Add returns x+y.
func Add(x, y Expr) Expr { return &BinaryExpr{Op: OpAdd, X: x, Y: y} }

// Sub returns x-y.
func Sub(x, y Expr) Expr { return &BinaryExpr{Op: OpSub, X: x, Y: y} }

// Mul returns x*y.
func Mul(x, y Expr) Expr { return &BinaryExpr{Op: OpMul, X: x, Y: y} }

// FloorDiv returns x divided by y, rounded toward negative infinity.
func FloorDiv(x, y Expr) Expr { return &BinaryExpr{Op: OpFloorDiv, X: x, Y: y} }

// FloorMod returns the remainder of FloorDiv(x, y).
func FloorMod(x, y Expr) Expr { return &BinaryExpr{Op: OpFloorMod, X: x, Y: y} }

// Min returns the smaller of x and y.
func Min(x, y Expr) Expr { return &BinaryExpr{Op: OpMin, X: x, Y: y} }

// Max returns the larger of x and y.
func Max(x, y Expr) Expr { return &BinaryExpr{Op: OpMax, X: x, Y: y} }

// Eq returns the predicate x==y.
func Eq(x, y Expr) Expr { return &BinaryExpr{Op: OpEq, X: x, Y: y} }

// Ne returns the predicate x!=y.
func Ne(x, y Expr) Expr { return &BinaryExpr{Op: OpNe, X: x, Y: y} }

// Lt returns the predicate x<y.
func Lt(x, y Expr) Expr { return &BinaryExpr{Op: OpLt, X: x, Y: y} }

// Le returns the predicate x<=y.
func Le(x, y Expr) Expr { return &BinaryExpr{Op: OpLe, X: x, Y: y} }

// Gt returns the predicate x>y.
func Gt(x, y Expr) Expr { return &BinaryExpr{Op: OpGt, X: x, Y: y} }

// Ge returns the predicate x>=y.
func Ge(x, y Expr) Expr { return &BinaryExpr{Op: OpGe, X: x, Y: y} }

// And returns the conjunction of two predicates.
func And(x, y Expr) Expr { return &BinaryExpr{Op: OpAnd, X: x, Y: y} }

// Or returns the disjunction of two predicates.
func Or(x, y Expr) Expr { return &BinaryExpr{Op: OpOr, X: x, Y: y} }

// Not returns the negation of a predicate.
func Not(x Expr) Expr { return &NotExpr{X: x} }
