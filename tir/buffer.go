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

import "github.com/gx-org/backend/dtype"

// Buffer describes a multi-dimensional region of memory.
// Shape and strides may be symbolic. Like variables, buffers are
// identified by pointer.
type Buffer struct {
	Name       string
	DType      dtype.DataType
	Shape      []Expr
	Strides    []Expr
	ElemOffset Expr
}

var _ FuncParam = (*Buffer)(nil)

// NewBuffer declares a buffer with a shape and no explicit strides.
func NewBuffer(name string, typ dtype.DataType, shape ...Expr) *Buffer {
	return &Buffer{Name: name, DType: typ, Shape: shape}
}

func (*Buffer) funcParam() {}

// NDim returns the number of dimensions of the buffer.
func (b *Buffer) NDim() int { return len(b.Shape) }

// substituteBuffer rebuilds a buffer under a variable substitution.
// The receiver is returned unchanged if no variable matched.
func substituteBuffer(b *Buffer, vars map[*Var]Expr) *Buffer {
	sub := substituter{vars: vars}
	shape, shapeChanged := sub.exprs(b.Shape)
	strides, stridesChanged := sub.exprs(b.Strides)
	elemOffset := sub.expr(b.ElemOffset)
	if !shapeChanged && !stridesChanged && elemOffset == b.ElemOffset {
		return b
	}
	return &Buffer{
		Name:       b.Name,
		DType:      b.DType,
		Shape:      shape,
		Strides:    strides,
		ElemOffset: elemOffset,
	}
}
