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
	"github.com/pkg/errors"

	"github.com/gx-org/tir/base/sync"
)

// TensorIntrin is a reusable instruction template: a declaration
// describing a computation and the declaration implementing it for
// execution.
type TensorIntrin struct {
	Desc *PrimFunc
	Impl *PrimFunc
}

var intrinsics sync.Map[string, *TensorIntrin]

// RegisterIntrin registers a tensor intrinsic under a name.
// Registering a name twice is an error.
func RegisterIntrin(name string, intrin *TensorIntrin) error {
	if _, taken := intrinsics.LoadOrStore(name, intrin); taken {
		return errors.Errorf("tensor intrinsic %q is already registered", name)
	}
	return nil
}

// LookupIntrin returns the tensor intrinsic registered under a name.
func LookupIntrin(name string) (*TensorIntrin, error) {
	intrin, ok := intrinsics.Load(name)
	if !ok {
		return nil, errors.Errorf("no tensor intrinsic registered as %q", name)
	}
	return intrin, nil
}
