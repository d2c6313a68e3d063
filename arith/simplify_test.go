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

package arith_test

import (
	"testing"

	"github.com/gx-org/tir/arith"
	"github.com/gx-org/tir/tir"
)

func TestSimplify(t *testing.T) {
	i := tir.NewVar("i")
	j := tir.NewVar("j")
	p := tir.Lt(i, j)
	tests := []struct {
		expr tir.Expr
		want tir.Expr
	}{
		{
			expr: tir.Mul(tir.Add(tir.Const(2), tir.Const(3)), tir.Const(4)),
			want: tir.Const(20),
		},
		{
			expr: tir.Add(i, tir.Const(0)),
			want: i,
		},
		{
			expr: tir.Sub(i, i),
			want: tir.Const(0),
		},
		{
			expr: tir.Mul(i, tir.Const(1)),
			want: i,
		},
		{
			expr: tir.Mul(i, tir.Const(0)),
			want: tir.Const(0),
		},
		{
			expr: tir.FloorDiv(i, tir.Const(1)),
			want: i,
		},
		{
			expr: tir.FloorMod(i, tir.Const(1)),
			want: tir.Const(0),
		},
		{
			expr: tir.FloorDiv(tir.Const(7), tir.Const(2)),
			want: tir.Const(3),
		},
		{
			expr: tir.FloorDiv(tir.Const(-7), tir.Const(2)),
			want: tir.Const(-4),
		},
		{
			expr: tir.FloorMod(tir.Const(-7), tir.Const(2)),
			want: tir.Const(1),
		},
		{
			expr: tir.Min(tir.Const(3), tir.Const(5)),
			want: tir.Const(3),
		},
		{
			expr: tir.Eq(i, i),
			want: tir.True(),
		},
		{
			expr: tir.Lt(i, i),
			want: tir.False(),
		},
		{
			expr: tir.Lt(tir.Const(3), tir.Const(5)),
			want: tir.True(),
		},
		{
			expr: tir.And(tir.True(), p),
			want: p,
		},
		{
			expr: tir.Or(tir.True(), p),
			want: tir.True(),
		},
		{
			expr: tir.And(tir.False(), p),
			want: tir.False(),
		},
		{
			expr: tir.Not(tir.Not(p)),
			want: p,
		},
		{
			expr: tir.Not(tir.False()),
			want: tir.True(),
		},
		{
			expr: tir.Sub(tir.Add(i, tir.Const(1)), i),
			want: tir.Const(1),
		},
		{
			expr: tir.Add(tir.Mul(tir.FloorDiv(i, tir.Const(4)), tir.Const(4)), tir.FloorMod(i, tir.Const(4))),
			want: i,
		},
		{
			// Nothing to rewrite: the expression is returned as is.
			expr: tir.Add(tir.Mul(i, tir.Const(4)), j),
			want: tir.Add(tir.Mul(i, tir.Const(4)), j),
		},
	}
	an := arith.New()
	for n, test := range tests {
		got := an.Simplify(test.expr)
		if !tir.Equal(got, test.want) {
			t.Errorf("test %d: Simplify(%v) = %v but want %v", n, test.expr, got, test.want)
		}
	}
}

func TestCanProveEqual(t *testing.T) {
	i := tir.NewVar("i")
	j := tir.NewVar("j")
	tests := []struct {
		x, y tir.Expr
		want bool
	}{
		{
			x:    tir.Add(tir.Mul(tir.FloorDiv(i, tir.Const(4)), tir.Const(4)), tir.FloorMod(i, tir.Const(4))),
			y:    i,
			want: true,
		},
		{
			x:    tir.Add(tir.Mul(i, tir.Const(4)), j),
			y:    tir.Add(j, tir.Mul(tir.Const(4), i)),
			want: true,
		},
		{
			x:    tir.Sub(tir.Add(i, j), tir.Add(j, i)),
			y:    tir.Const(0),
			want: true,
		},
		{
			x:    tir.Min(i, j),
			y:    tir.Min(i, j),
			want: true,
		},
		{
			x:    i,
			y:    j,
			want: false,
		},
		{
			x:    tir.Add(i, tir.Const(1)),
			y:    i,
			want: false,
		},
		{
			x:    tir.FloorDiv(i, tir.Const(4)),
			y:    tir.FloorDiv(i, tir.Const(2)),
			want: false,
		},
	}
	an := arith.New()
	for n, test := range tests {
		if got := an.CanProveEqual(test.x, test.y); got != test.want {
			t.Errorf("test %d: CanProveEqual(%v, %v) = %v but want %v", n, test.x, test.y, got, test.want)
		}
	}
	if an.CanProveEqual(nil, tir.Const(0)) {
		t.Errorf("a nil expression compares equal")
	}
}
