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

// Package tir is the symbolic surface of a tensor-program intermediate
// representation: integer-valued expressions over variables, ranges,
// buffers, a minimal statement tree, and function declarations.
//
// All values in the package are immutable once built. Transformations
// (substitution, specialization) return new values and may share untouched
// subtrees with their input.
package tir

import (
	"github.com/gx-org/backend/dtype"
)

// DefaultIndexDType is the data type of index variables
// when no type is specified.
var DefaultIndexDType = dtype.Int32

// HandleDType is the data type of buffer-handle parameters.
// Buffer handles are opaque device addresses.
var HandleDType = dtype.Uint64

type (
	// Node in the IR tree.
	Node interface {
		// node marks a structure as a node of the tree.
		// It prevents external implementations of the interface.
		node()
	}

	// Expr is a node producing a value.
	Expr interface {
		Node

		// DType returns the data type of the value produced by the expression.
		DType() dtype.DataType

		// String representation of the expression.
		String() string

		expr()
	}
)

// Var is a symbolic variable. A variable is identified by its pointer:
// two distinct instances with the same name are different variables.
type Var struct {
	Name string
	Typ  dtype.DataType
}

var _ Expr = (*Var)(nil)

// NewVar returns a new variable with the default index type.
func NewVar(name string) *Var {
	return &Var{Name: name, Typ: DefaultIndexDType}
}

// NewTypedVar returns a new variable with an explicit data type.
func NewTypedVar(name string, typ dtype.DataType) *Var {
	return &Var{Name: name, Typ: typ}
}

func (*Var) node() {}
func (*Var) expr() {}

// DType returns the data type of the variable.
func (v *Var) DType() dtype.DataType { return v.Typ }

// IntImm is an integer immediate. Immediates of type dtype.Bool
// encode the boolean constants with the values 0 and 1.
type IntImm struct {
	Value int64
	Typ   dtype.DataType
}

var _ Expr = (*IntImm)(nil)

// Const returns an immediate with the default index type.
func Const(value int64) *IntImm {
	return &IntImm{Value: value, Typ: DefaultIndexDType}
}

// True returns the boolean constant true.
func True() *IntImm {
	return &IntImm{Value: 1, Typ: dtype.Bool}
}

// False returns the boolean constant false.
func False() *IntImm {
	return &IntImm{Value: 0, Typ: dtype.Bool}
}

func (*IntImm) node() {}
func (*IntImm) expr() {}

// DType returns the data type of the immediate.
func (i *IntImm) DType() dtype.DataType { return i.Typ }

// BinaryExpr combines two expressions with a binary operator.
type BinaryExpr struct {
	Op BinaryOp
	X  Expr
	Y  Expr
}

var _ Expr = (*BinaryExpr)(nil)

func (*BinaryExpr) node() {}
func (*BinaryExpr) expr() {}

// DType returns the data type of the value produced by the expression.
// Comparisons and logical connectives produce booleans;
// arithmetic produces the type of its left operand.
func (e *BinaryExpr) DType() dtype.DataType {
	if e.Op.IsCompare() || e.Op.IsLogical() {
		return dtype.Bool
	}
	return e.X.DType()
}

// NotExpr is a boolean negation.
type NotExpr struct {
	X Expr
}

var _ Expr = (*NotExpr)(nil)

func (*NotExpr) node() {}
func (*NotExpr) expr() {}

// DType returns dtype.Bool.
func (*NotExpr) DType() dtype.DataType { return dtype.Bool }

// BufferLoad reads one element of a buffer.
type BufferLoad struct {
	Buffer  *Buffer
	Indices []Expr
}

var _ Expr = (*BufferLoad)(nil)

func (*BufferLoad) node() {}
func (*BufferLoad) expr() {}

// DType returns the element type of the buffer being read.
func (l *BufferLoad) DType() dtype.DataType { return l.Buffer.DType }
