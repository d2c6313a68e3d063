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
	"fmt"
	"strconv"
	"strings"

	"github.com/gx-org/backend/dtype"
)

// String returns the name of the variable.
func (v *Var) String() string { return v.Name }

// String representation of the immediate.
func (i *IntImm) String() string {
	if i.Typ == dtype.Bool {
		if i.Value != 0 {
			return "true"
		}
		return "false"
	}
	return strconv.FormatInt(i.Value, 10)
}

// String representation of the expression.
// Function-style operators print as calls, all others as infix.
func (e *BinaryExpr) String() string {
	switch e.Op {
	case OpFloorDiv, OpFloorMod, OpMin, OpMax:
		return fmt.Sprintf("%s(%v, %v)", e.Op, e.X, e.Y)
	}
	return fmt.Sprintf("(%v %s %v)", e.X, e.Op, e.Y)
}

// String representation of the negation.
func (e *NotExpr) String() string {
	return fmt.Sprintf("!%v", e.X)
}

// String representation of the load.
func (l *BufferLoad) String() string {
	return fmt.Sprintf("%s[%s]", l.Buffer.Name, exprList(l.Indices))
}

// String representation of the buffer declaration.
func (b *Buffer) String() string {
	return fmt.Sprintf("%s[%s]", b.Name, exprList(b.Shape))
}

func exprList(es []Expr) string {
	strs := make([]string, len(es))
	for i, e := range es {
		strs[i] = e.String()
	}
	return strings.Join(strs, ", ")
}
