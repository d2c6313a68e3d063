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

package indexmap_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/tir/arith"
	"github.com/gx-org/tir/indexmap"
	"github.com/gx-org/tir/tir"
)

// literalAnalyzer only recognizes structural equality. It stands in
// for an analyzer when a test does not exercise symbolic reasoning.
type literalAnalyzer struct{}

func (literalAnalyzer) CanProveEqual(x, y tir.Expr) bool { return tir.Equal(x, y) }

func (literalAnalyzer) Simplify(e tir.Expr) tir.Expr { return e }

func mustNew(t *testing.T, initial []*tir.Var, final []tir.Expr) *indexmap.IndexMap {
	t.Helper()
	m, err := indexmap.New(initial, final)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewErrors(t *testing.T) {
	i := tir.NewVar("i")
	j := tir.NewVar("j")
	tests := []struct {
		desc    string
		initial []*tir.Var
		final   []tir.Expr
		want    string
	}{
		{
			desc:    "duplicate initial index",
			initial: []*tir.Var{i, i},
			final:   []tir.Expr{i, i},
			want:    "duplicate initial index i",
		},
		{
			desc:    "nil final index",
			initial: []*tir.Var{i},
			final:   []tir.Expr{nil},
			want:    "final index 0 is nil",
		},
		{
			desc:    "free variable",
			initial: []*tir.Var{i},
			final:   []tir.Expr{tir.Add(i, j)},
			want:    "not an initial index",
		},
	}
	for _, test := range tests {
		_, err := indexmap.New(test.initial, test.final)
		if err == nil {
			t.Errorf("%s: no error returned", test.desc)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: got error %q but want it to mention %q", test.desc, err.Error(), test.want)
		}
	}
}

func TestMapIndices(t *testing.T) {
	i := tir.NewVar("i")
	j := tir.NewVar("j")
	m := mustNew(t,
		[]*tir.Var{i, j},
		[]tir.Expr{j, tir.Add(tir.Mul(i, tir.Const(4)), j)},
	)
	got, err := m.MapIndices([]tir.Expr{tir.Const(2), tir.Const(3)})
	if err != nil {
		t.Fatal(err)
	}
	want := []tir.Expr{
		tir.Const(3),
		tir.Add(tir.Mul(tir.Const(2), tir.Const(4)), tir.Const(3)),
	}
	for x, e := range got {
		if !tir.Equal(e, want[x]) {
			t.Errorf("index %d is %v but want %v", x, e, want[x])
		}
	}

	if _, err := m.MapIndices([]tir.Expr{tir.Const(2)}); err == nil {
		t.Errorf("no error returned for an arity mismatch")
	}
	if _, err := m.MapShape([]tir.Expr{tir.Const(2)}); err == nil {
		t.Errorf("no error returned for a shape rank mismatch")
	}

	// The map itself is untouched by applications.
	if !tir.Equal(m.FinalIndices[0], j) {
		t.Errorf("the map has been modified: %v", m)
	}
}

func TestMapShape(t *testing.T) {
	i := tir.NewVar("i")
	m := mustNew(t,
		[]*tir.Var{i},
		[]tir.Expr{tir.FloorDiv(i, tir.Const(4)), tir.Const(4)},
	)
	got, err := m.MapShape([]tir.Expr{tir.Const(16)})
	if err != nil {
		t.Fatal(err)
	}
	an := arith.New()
	want := []tir.Expr{tir.Const(4), tir.Const(4)}
	for x, e := range got {
		if !tir.Equal(an.Simplify(e), want[x]) {
			t.Errorf("extent %d is %v but want %v", x, e, want[x])
		}
	}
}

func TestIsEquivalentTo(t *testing.T) {
	i := tir.NewVar("i")
	x := tir.NewVar("x")
	j := tir.NewVar("j")
	scaled := mustNew(t, []*tir.Var{i}, []tir.Expr{tir.Mul(i, tir.Const(4))})
	commuted := mustNew(t, []*tir.Var{x}, []tir.Expr{tir.Mul(tir.Const(4), x)})
	identity := mustNew(t, []*tir.Var{x}, []tir.Expr{x})
	twoDim := mustNew(t, []*tir.Var{i, j}, []tir.Expr{i, j})

	an := arith.New()
	if !scaled.IsEquivalentTo(an, scaled) {
		t.Errorf("%v is not equivalent to itself", scaled)
	}
	if !scaled.IsEquivalentTo(an, commuted) || !commuted.IsEquivalentTo(an, scaled) {
		t.Errorf("%v and %v are not equivalent", scaled, commuted)
	}
	if scaled.IsEquivalentTo(an, identity) {
		t.Errorf("%v is equivalent to %v", scaled, identity)
	}
	if scaled.IsEquivalentTo(an, twoDim) {
		t.Errorf("maps of different arities are equivalent")
	}

	// A weaker analyzer makes the check more conservative.
	if !scaled.IsEquivalentTo(literalAnalyzer{}, scaled) {
		t.Errorf("structural equivalence not recognized")
	}
	if scaled.IsEquivalentTo(literalAnalyzer{}, commuted) {
		t.Errorf("a literal analyzer proved a commuted product")
	}
}

func TestString(t *testing.T) {
	i := tir.NewVar("i")
	j := tir.NewVar("j")
	m := mustNew(t, []*tir.Var{i, j}, []tir.Expr{j, i})
	if diff := cmp.Diff(m.String(), "(i, j) -> (j, i)"); diff != "" {
		t.Errorf("unexpected representation:\n%s", diff)
	}
}
