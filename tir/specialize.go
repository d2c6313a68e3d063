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

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/gx-org/tir/base/ordered"
)

// SpecializeMap binds a subset of a function's parameters to concrete
// values: an expression for a scalar parameter, a buffer for a handle
// parameter. Bindings are kept in insertion order so that rewrites and
// diagnostics are deterministic.
type SpecializeMap struct {
	bindings *ordered.Map[*Var, specializeArg]
}

type specializeArg struct {
	expr   Expr
	buffer *Buffer
}

// NewSpecializeMap returns an empty binding set.
func NewSpecializeMap() *SpecializeMap {
	return &SpecializeMap{bindings: ordered.NewMap[*Var, specializeArg]()}
}

// BindExpr binds a scalar parameter to an expression.
func (sm *SpecializeMap) BindExpr(param *Var, x Expr) *SpecializeMap {
	sm.bindings.Store(param, specializeArg{expr: x})
	return sm
}

// BindBuffer binds a handle parameter to a buffer.
func (sm *SpecializeMap) BindBuffer(param *Var, b *Buffer) *SpecializeMap {
	sm.bindings.Store(param, specializeArg{buffer: b})
	return sm
}

// Specialize substitutes a subset of a function's parameters with
// concrete expressions or buffers, returning a new, consistently
// rewritten declaration. The input declaration is never modified,
// including when an error is returned.
//
// Scalar bindings remove their parameter from the new declaration.
// Buffer bindings keep the handle parameter but replace its buffer;
// symbolic variables appearing in the declared buffer's shape, strides
// or element offset are resolved against the concrete buffer, and are
// removed from the parameter list as well when they are parameters.
func Specialize(an Analyzer, f *PrimFunc, sm *SpecializeMap) (*PrimFunc, error) {
	var errs error
	for param := range sm.bindings.Keys() {
		if !f.isParam(param) {
			errs = multierr.Append(errs, errors.Errorf("%s is not a parameter of the function", param.Name))
		}
	}
	if errs != nil {
		return nil, errs
	}

	varMap := make(map[*Var]Expr)
	bind := func(dim *Var, value Expr) error {
		prev, bound := varMap[dim]
		if !bound {
			varMap[dim] = value
			return nil
		}
		if !Equal(prev, value) && !an.CanProveEqual(prev, value) {
			return errors.Errorf("conflicting values for %s: %v and %v", dim.Name, prev, value)
		}
		return nil
	}
	bufferReplace := make(map[*Buffer]*Buffer)
	for param, arg := range sm.bindings.All() {
		if arg.buffer != nil {
			declared, isHandle := f.BufferMap.Load(param)
			if !isHandle {
				errs = multierr.Append(errs, errors.Errorf("parameter %s does not bind a buffer", param.Name))
				continue
			}
			if err := matchBuffer(an, bind, declared, arg.buffer); err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "cannot specialize buffer %s", declared.Name))
				continue
			}
			bufferReplace[declared] = arg.buffer
			continue
		}
		if f.BufferMap.Has(param) {
			errs = multierr.Append(errs, errors.Errorf("parameter %s binds a buffer and cannot be specialized with an expression", param.Name))
			continue
		}
		if arg.expr.DType() != param.Typ {
			errs = multierr.Append(errs, errors.Errorf("cannot specialize %s of type %v with a value of type %v", param.Name, param.Typ, arg.expr.DType()))
			continue
		}
		if err := bind(param, arg.expr); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	resolved := make(map[*Var]bool)
	for dim := range varMap {
		if f.isParam(dim) {
			resolved[dim] = true
		}
	}
	var params []*Var
	for _, param := range f.Params {
		if !resolved[param] {
			params = append(params, param)
		}
	}
	// Rewrite both buffer maps before the body: they record every
	// buffer replacement the body substitution must apply.
	bufferMap := specializeBufferMap(f.BufferMap, varMap, bufferReplace)
	preflattened := specializeBufferMap(f.PreflattenedBufferMap, varMap, bufferReplace)
	return &PrimFunc{
		Params:                params,
		Body:                  SubstituteStmt(f.Body, varMap, bufferReplace),
		RetType:               f.RetType,
		BufferMap:             bufferMap,
		PreflattenedBufferMap: preflattened,
		Attrs:                 maps.Clone(f.Attrs),
	}, nil
}

// specializeBufferMap rewrites every buffer of a binding map: buffers
// specialized directly are replaced, the others have the variable
// substitution applied to their shape, strides and element offset.
// Rewritten buffers are recorded in bufferReplace so that loads and
// stores in the body are retargeted consistently.
func specializeBufferMap(bufferMap *ordered.Map[*Var, *Buffer], varMap map[*Var]Expr, bufferReplace map[*Buffer]*Buffer) *ordered.Map[*Var, *Buffer] {
	next := ordered.NewMap[*Var, *Buffer]()
	for handle, buf := range bufferMap.All() {
		repl, ok := bufferReplace[buf]
		if !ok {
			repl = substituteBuffer(buf, varMap)
			if repl != buf {
				bufferReplace[buf] = repl
			}
		}
		next.Store(handle, repl)
	}
	return next
}

func matchBuffer(an Analyzer, bind func(*Var, Expr) error, declared, concrete *Buffer) error {
	if concrete.NDim() != declared.NDim() {
		return errors.Errorf("rank mismatch: got %d but want %d", concrete.NDim(), declared.NDim())
	}
	if concrete.DType != declared.DType {
		return errors.Errorf("data type mismatch: got %v but want %v", concrete.DType, declared.DType)
	}
	if err := matchExprs(an, bind, declared.Shape, concrete.Shape, "shape"); err != nil {
		return err
	}
	if len(declared.Strides) > 0 {
		if len(concrete.Strides) != len(declared.Strides) {
			return errors.Errorf("stride count mismatch: got %d but want %d", len(concrete.Strides), len(declared.Strides))
		}
		if err := matchExprs(an, bind, declared.Strides, concrete.Strides, "strides"); err != nil {
			return err
		}
	}
	if declared.ElemOffset != nil && concrete.ElemOffset != nil {
		if err := matchExpr(an, bind, declared.ElemOffset, concrete.ElemOffset, "element offset", -1); err != nil {
			return err
		}
	}
	return nil
}

func matchExprs(an Analyzer, bind func(*Var, Expr) error, declared, concrete []Expr, what string) error {
	var errs error
	for i, decl := range declared {
		errs = multierr.Append(errs, matchExpr(an, bind, decl, concrete[i], what, i))
	}
	return errs
}

// matchExpr unifies one declared dimension with its concrete value:
// a declared variable is resolved to the concrete expression, anything
// else must be provably equal to it.
func matchExpr(an Analyzer, bind func(*Var, Expr) error, declared, concrete Expr, what string, dim int) error {
	if dimVar, ok := declared.(*Var); ok {
		return bind(dimVar, concrete)
	}
	if Equal(declared, concrete) || an.CanProveEqual(declared, concrete) {
		return nil
	}
	if dim < 0 {
		return errors.Errorf("%s mismatch: %v is not provably equal to %v", what, concrete, declared)
	}
	return errors.Errorf("%s mismatch at dimension %d: %v is not provably equal to %v", what, dim, concrete, declared)
}
