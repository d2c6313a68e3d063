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

import (
	"maps"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tir/base/ordered"
)

// FuncParam is a value usable in the parameter list of a function
// declaration: a *Var or a *Buffer.
type FuncParam interface {
	funcParam()
}

var _ FuncParam = (*Var)(nil)

func (*Var) funcParam() {}

// PrimFunc is a function declaration: an ordered parameter list, a body,
// and the binding of handle parameters to the buffers they carry.
// A declaration is immutable: WithBody, WithAttrs and Specialize return
// new declarations.
type PrimFunc struct {
	Params  []*Var
	Body    Stmt
	RetType dtype.DataType

	// BufferMap binds handle parameters to buffers.
	BufferMap *ordered.Map[*Var, *Buffer]

	// PreflattenedBufferMap binds handle parameters to their buffer
	// descriptions prior to any layout flattening.
	PreflattenedBufferMap *ordered.Map[*Var, *Buffer]

	Attrs map[string]any
}

// NewPrimFunc returns a function declaration. A *Buffer in the parameter
// list synthesizes its handle variable and buffer-map entry.
func NewPrimFunc(params []FuncParam, body Stmt) *PrimFunc {
	f := &PrimFunc{
		Body:                  body,
		BufferMap:             ordered.NewMap[*Var, *Buffer](),
		PreflattenedBufferMap: ordered.NewMap[*Var, *Buffer](),
	}
	for _, param := range params {
		switch pT := param.(type) {
		case *Var:
			f.Params = append(f.Params, pT)
		case *Buffer:
			handle := NewTypedVar(pT.Name, HandleDType)
			f.Params = append(f.Params, handle)
			f.BufferMap.Store(handle, pT)
		}
	}
	return f
}

// WithBody returns a declaration with the same signature and a new body.
func (f *PrimFunc) WithBody(body Stmt) *PrimFunc {
	next := f.clone()
	next.Body = body
	return next
}

// WithAttrs returns a declaration with additional attributes.
// Existing attributes with the same key are replaced.
func (f *PrimFunc) WithAttrs(attrs map[string]any) *PrimFunc {
	next := f.clone()
	if next.Attrs == nil {
		next.Attrs = make(map[string]any, len(attrs))
	}
	maps.Copy(next.Attrs, attrs)
	return next
}

func (f *PrimFunc) clone() *PrimFunc {
	return &PrimFunc{
		Params:                append([]*Var{}, f.Params...),
		Body:                  f.Body,
		RetType:               f.RetType,
		BufferMap:             f.BufferMap.Clone(),
		PreflattenedBufferMap: f.PreflattenedBufferMap.Clone(),
		Attrs:                 maps.Clone(f.Attrs),
	}
}

// isParam returns true if v is a parameter of the function.
func (f *PrimFunc) isParam(v *Var) bool {
	for _, param := range f.Params {
		if param == v {
			return true
		}
	}
	return false
}
