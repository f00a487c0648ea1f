// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build debug

package mrml

// invariant panics with the given error, which must describe a
// violated internal invariant of the scene.
func invariant(err error) error {
	panic(err)
}
