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

// Stmt is a statement node of a function body.
type Stmt interface {
	Node
	stmt()
}

// SeqStmt executes statements in order.
type SeqStmt struct {
	Stmts []Stmt
}

var _ Stmt = (*SeqStmt)(nil)

func (*SeqStmt) node() {}
func (*SeqStmt) stmt() {}

// ForStmt iterates its loop variable over [Min, Min+Extent).
type ForStmt struct {
	LoopVar *Var
	Min     Expr
	Extent  Expr
	Body    Stmt
}

var _ Stmt = (*ForStmt)(nil)

func (*ForStmt) node() {}
func (*ForStmt) stmt() {}

// BufferStore writes one element of a buffer.
type BufferStore struct {
	Buffer  *Buffer
	Value   Expr
	Indices []Expr
}

var _ Stmt = (*BufferStore)(nil)

func (*BufferStore) node() {}
func (*BufferStore) stmt() {}

// EvalStmt evaluates an expression for its effect.
type EvalStmt struct {
	Value Expr
}

var _ Stmt = (*EvalStmt)(nil)

func (*EvalStmt) node() {}
func (*EvalStmt) stmt() {}
