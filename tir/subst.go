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

// Substitute replaces variables in an expression. Variables are matched
// by identity. Subtrees containing no replaced variable are shared with
// the input expression.
func Substitute(e Expr, vars map[*Var]Expr) Expr {
	return substituter{vars: vars}.expr(e)
}

// SubstituteStmt replaces variables and buffers in a statement tree.
// Either map may be nil.
func SubstituteStmt(s Stmt, vars map[*Var]Expr, buffers map[*Buffer]*Buffer) Stmt {
	return substituter{vars: vars, buffers: buffers}.stmt(s)
}

type substituter struct {
	vars    map[*Var]Expr
	buffers map[*Buffer]*Buffer
}

func (s substituter) expr(e Expr) Expr {
	switch eT := e.(type) {
	case nil:
		return nil
	case *Var:
		if repl, ok := s.vars[eT]; ok {
			return repl
		}
		return eT
	case *IntImm:
		return eT
	case *BinaryExpr:
		x, y := s.expr(eT.X), s.expr(eT.Y)
		if x == eT.X && y == eT.Y {
			return eT
		}
		return &BinaryExpr{Op: eT.Op, X: x, Y: y}
	case *NotExpr:
		x := s.expr(eT.X)
		if x == eT.X {
			return eT
		}
		return &NotExpr{X: x}
	case *BufferLoad:
		buf := s.buffer(eT.Buffer)
		indices, changed := s.exprs(eT.Indices)
		if buf == eT.Buffer && !changed {
			return eT
		}
		return &BufferLoad{Buffer: buf, Indices: indices}
	}
	// The Expr interface cannot be implemented outside this package.
	panic("tir: expression type not supported")
}

func (s substituter) exprs(es []Expr) ([]Expr, bool) {
	changed := false
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = s.expr(e)
		if out[i] != e {
			changed = true
		}
	}
	if !changed {
		return es, false
	}
	return out, true
}

func (s substituter) buffer(b *Buffer) *Buffer {
	if repl, ok := s.buffers[b]; ok {
		return repl
	}
	return b
}

func (s substituter) stmt(st Stmt) Stmt {
	switch sT := st.(type) {
	case nil:
		return nil
	case *SeqStmt:
		stmts := make([]Stmt, len(sT.Stmts))
		changed := false
		for i, sub := range sT.Stmts {
			stmts[i] = s.stmt(sub)
			if stmts[i] != sub {
				changed = true
			}
		}
		if !changed {
			return sT
		}
		return &SeqStmt{Stmts: stmts}
	case *ForStmt:
		min, extent := s.expr(sT.Min), s.expr(sT.Extent)
		body := s.stmt(sT.Body)
		if min == sT.Min && extent == sT.Extent && body == sT.Body {
			return sT
		}
		return &ForStmt{LoopVar: sT.LoopVar, Min: min, Extent: extent, Body: body}
	case *BufferStore:
		buf := s.buffer(sT.Buffer)
		value := s.expr(sT.Value)
		indices, changed := s.exprs(sT.Indices)
		if buf == sT.Buffer && value == sT.Value && !changed {
			return sT
		}
		return &BufferStore{Buffer: buf, Value: value, Indices: indices}
	case *EvalStmt:
		value := s.expr(sT.Value)
		if value == sT.Value {
			return sT
		}
		return &EvalStmt{Value: value}
	}
	panic("tir: statement type not supported")
}

// FreeVars returns the variables appearing in an expression,
// in first-occurrence order.
func FreeVars(e Expr) []*Var {
	var vars []*Var
	seen := make(map[*Var]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch eT := e.(type) {
		case *Var:
			if !seen[eT] {
				seen[eT] = true
				vars = append(vars, eT)
			}
		case *BinaryExpr:
			walk(eT.X)
			walk(eT.Y)
		case *NotExpr:
			walk(eT.X)
		case *BufferLoad:
			for _, index := range eT.Indices {
				walk(index)
			}
		}
	}
	walk(e)
	return vars
}

// ContainsVar returns true if the variable appears in the expression.
func ContainsVar(e Expr, v *Var) bool {
	for _, free := range FreeVars(e) {
		if free == v {
			return true
		}
	}
	return false
}

// Equal returns true if two expressions are structurally identical:
// same tree shape, same variables and buffers by identity, same
// constants. It is the syntactic baseline under an Analyzer's
// provable equality.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch aT := a.(type) {
	case *Var:
		return aT == b
	case *IntImm:
		bT, ok := b.(*IntImm)
		return ok && aT.Value == bT.Value && aT.Typ == bT.Typ
	case *BinaryExpr:
		bT, ok := b.(*BinaryExpr)
		return ok && aT.Op == bT.Op && Equal(aT.X, bT.X) && Equal(aT.Y, bT.Y)
	case *NotExpr:
		bT, ok := b.(*NotExpr)
		return ok && Equal(aT.X, bT.X)
	case *BufferLoad:
		bT, ok := b.(*BufferLoad)
		if !ok || aT.Buffer != bT.Buffer || len(aT.Indices) != len(bT.Indices) {
			return false
		}
		for i, index := range aT.Indices {
			if !Equal(index, bT.Indices[i]) {
				return false
			}
		}
		return true
	}
	panic("tir: expression type not supported")
}
