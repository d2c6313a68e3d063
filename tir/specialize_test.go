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

package tir_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tir/tir"
)

// syntacticAnalyzer proves nothing beyond what specialization already
// establishes syntactically. Tests exercising symbolic reasoning
// inject an arith.Analyzer instead.
type syntacticAnalyzer struct{}

func (syntacticAnalyzer) CanProveEqual(x, y tir.Expr) bool { return tir.Equal(x, y) }

func (syntacticAnalyzer) Simplify(e tir.Expr) tir.Expr { return e }

// copyFunc declares memcopy(A: (m, n), B: (m, n), m, n):
// B[i, j] = A[i, j] for every i, j.
func copyFunc() (f *tir.PrimFunc, m, n *tir.Var, bufA, bufB *tir.Buffer) {
	m, n = tir.NewVar("m"), tir.NewVar("n")
	bufA = tir.NewBuffer("A", dtype.Float32, m, n)
	bufB = tir.NewBuffer("B", dtype.Float32, m, n)
	i, j := tir.NewVar("i"), tir.NewVar("j")
	body := &tir.ForStmt{LoopVar: i, Min: tir.Const(0), Extent: m,
		Body: &tir.ForStmt{LoopVar: j, Min: tir.Const(0), Extent: n,
			Body: &tir.BufferStore{
				Buffer:  bufB,
				Value:   &tir.BufferLoad{Buffer: bufA, Indices: []tir.Expr{i, j}},
				Indices: []tir.Expr{i, j},
			},
		},
	}
	f = tir.NewPrimFunc([]tir.FuncParam{bufA, bufB, m, n}, body)
	return f, m, n, bufA, bufB
}

func paramNames(f *tir.PrimFunc) []string {
	names := make([]string, len(f.Params))
	for i, param := range f.Params {
		names[i] = param.Name
	}
	return names
}

func checkShape(t *testing.T, buf *tir.Buffer, want ...tir.Expr) {
	t.Helper()
	if buf.NDim() != len(want) {
		t.Fatalf("%s has %d dimensions but want %d", buf.Name, buf.NDim(), len(want))
	}
	for i, dim := range buf.Shape {
		if !tir.Equal(dim, want[i]) {
			t.Errorf("%s: dimension %d is %v but want %v", buf.Name, i, dim, want[i])
		}
	}
}

func TestNewPrimFunc(t *testing.T) {
	f, _, _, bufA, _ := copyFunc()
	if diff := cmp.Diff(paramNames(f), []string{"A", "B", "m", "n"}); diff != "" {
		t.Errorf("unexpected parameters:\n%s", diff)
	}
	handleA := f.Params[0]
	if handleA.Typ != tir.HandleDType {
		t.Errorf("handle %s has type %v but want %v", handleA.Name, handleA.Typ, tir.HandleDType)
	}
	got, ok := f.BufferMap.Load(handleA)
	if !ok {
		t.Fatalf("no buffer bound to handle %s", handleA.Name)
	}
	if got != bufA {
		t.Errorf("handle %s binds %v but want %v", handleA.Name, got, bufA)
	}
}

func TestSpecializeScalars(t *testing.T) {
	f, m, n, _, _ := copyFunc()
	sm := tir.NewSpecializeMap().
		BindExpr(m, tir.Const(16)).
		BindExpr(n, tir.Const(16))
	got, err := tir.Specialize(syntacticAnalyzer{}, f, sm)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(paramNames(got), []string{"A", "B"}); diff != "" {
		t.Errorf("unexpected parameters:\n%s", diff)
	}
	for _, buf := range got.BufferMap.All() {
		checkShape(t, buf, tir.Const(16), tir.Const(16))
	}
	outer, ok := got.Body.(*tir.ForStmt)
	if !ok {
		t.Fatalf("the body is a %T but want a loop", got.Body)
	}
	if !tir.Equal(outer.Extent, tir.Const(16)) {
		t.Errorf("the outer extent is %v but want 16", outer.Extent)
	}
	inner := outer.Body.(*tir.ForStmt)
	store := inner.Body.(*tir.BufferStore)
	wantB, _ := got.BufferMap.Load(got.Params[1])
	if store.Buffer != wantB {
		t.Errorf("the store writes %v but want the specialized buffer %v", store.Buffer, wantB)
	}
	load := store.Value.(*tir.BufferLoad)
	wantA, _ := got.BufferMap.Load(got.Params[0])
	if load.Buffer != wantA {
		t.Errorf("the load reads %v but want the specialized buffer %v", load.Buffer, wantA)
	}

	// The input declaration is untouched.
	if diff := cmp.Diff(paramNames(f), []string{"A", "B", "m", "n"}); diff != "" {
		t.Errorf("the input declaration has been modified:\n%s", diff)
	}
	origA, _ := f.BufferMap.Load(f.Params[0])
	checkShape(t, origA, m, n)
}

func TestSpecializeBuffer(t *testing.T) {
	f, _, _, _, _ := copyFunc()
	handleA, handleB := f.Params[0], f.Params[1]
	concreteA := tir.NewBuffer("A", dtype.Float32, tir.Const(16), tir.Const(16))
	sm := tir.NewSpecializeMap().BindBuffer(handleA, concreteA)
	got, err := tir.Specialize(syntacticAnalyzer{}, f, sm)
	if err != nil {
		t.Fatal(err)
	}
	// m and n are resolved through the shape of A and removed from the
	// parameter list; B picks up the resolved dimensions.
	if diff := cmp.Diff(paramNames(got), []string{"A", "B"}); diff != "" {
		t.Errorf("unexpected parameters:\n%s", diff)
	}
	gotA, _ := got.BufferMap.Load(handleA)
	if gotA != concreteA {
		t.Errorf("handle A binds %v but want %v", gotA, concreteA)
	}
	gotB, _ := got.BufferMap.Load(handleB)
	checkShape(t, gotB, tir.Const(16), tir.Const(16))
}

func TestSpecializeErrors(t *testing.T) {
	f, m, _, _, _ := copyFunc()
	handleA := f.Params[0]
	other := tir.NewVar("other")
	tests := []struct {
		desc string
		sm   *tir.SpecializeMap
		want string
	}{
		{
			desc: "unknown parameter",
			sm:   tir.NewSpecializeMap().BindExpr(other, tir.Const(1)),
			want: "not a parameter",
		},
		{
			desc: "conflicting buffer shapes",
			sm: tir.NewSpecializeMap().
				BindBuffer(f.Params[0], tir.NewBuffer("A", dtype.Float32, tir.Const(16), tir.Const(16))).
				BindBuffer(f.Params[1], tir.NewBuffer("B", dtype.Float32, tir.Const(16), tir.Const(8))),
			want: "conflicting values for n",
		},
		{
			desc: "rank mismatch",
			sm:   tir.NewSpecializeMap().BindBuffer(handleA, tir.NewBuffer("A", dtype.Float32, tir.Const(16))),
			want: "rank mismatch",
		},
		{
			desc: "data type mismatch",
			sm:   tir.NewSpecializeMap().BindBuffer(handleA, tir.NewBuffer("A", dtype.Int32, tir.Const(16), tir.Const(16))),
			want: "data type mismatch",
		},
		{
			desc: "expression for a buffer parameter",
			sm:   tir.NewSpecializeMap().BindExpr(handleA, tir.Const(1)),
			want: "binds a buffer",
		},
		{
			desc: "value type mismatch",
			sm:   tir.NewSpecializeMap().BindExpr(m, tir.True()),
			want: "type",
		},
	}
	for _, test := range tests {
		_, err := tir.Specialize(syntacticAnalyzer{}, f, test.sm)
		if err == nil {
			t.Errorf("%s: no error returned", test.desc)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: got error %q but want it to mention %q", test.desc, err.Error(), test.want)
		}
	}
	// Failed specializations leave the declaration untouched.
	if diff := cmp.Diff(paramNames(f), []string{"A", "B", "m", "n"}); diff != "" {
		t.Errorf("the input declaration has been modified:\n%s", diff)
	}
}

func TestWithBodyAndAttrs(t *testing.T) {
	f, _, _, _, _ := copyFunc()
	next := f.WithBody(&tir.SeqStmt{}).WithAttrs(map[string]any{"global_symbol": "memcopy"})
	if next.Body == f.Body {
		t.Errorf("the body has not been replaced")
	}
	if _, ok := next.Attrs["global_symbol"]; !ok {
		t.Errorf("the attribute has not been set")
	}
	if len(f.Attrs) != 0 {
		t.Errorf("the input declaration attributes have been modified: %v", f.Attrs)
	}
}
