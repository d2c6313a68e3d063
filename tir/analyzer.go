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

// Analyzer is the symbolic prover capability supplied by the surrounding
// compiler infrastructure (see the arith package for the default
// implementation). Every method must terminate: inability to prove a
// property reports a negative answer, never an error.
type Analyzer interface {
	// CanProveEqual returns true if the two expressions can be proven
	// to always evaluate to the same value. A false result means
	// "cannot prove", not "provably different".
	CanProveEqual(x, y Expr) bool

	// Simplify returns an expression provably equal to e.
	Simplify(e Expr) Expr
}
