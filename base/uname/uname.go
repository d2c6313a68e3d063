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

// Package uname provides unique names.
package uname

import "fmt"

// Unique generates names that do not collide with each other
// nor with a set of reserved names.
type Unique struct {
	taken map[string]bool
	next  map[string]int
}

// New returns a generator with a set of reserved names.
func New(reserved ...string) *Unique {
	u := &Unique{
		taken: make(map[string]bool),
		next:  make(map[string]int),
	}
	for _, name := range reserved {
		u.Register(name)
	}
	return u
}

// Register marks a name as taken.
func (u *Unique) Register(name string) {
	u.taken[name] = true
}

// Name returns a fresh name given a desired base name.
// If the base name is still available, it is returned directly.
// Else, increasing numerical suffixes are tried until a free name is found.
func (u *Unique) Name(root string) string {
	name := root
	for u.taken[name] {
		name = fmt.Sprintf("%s%d", root, u.next[root])
		u.next[root]++
	}
	u.Register(name)
	return name
}
