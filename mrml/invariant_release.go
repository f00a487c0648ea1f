// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !debug

package mrml

import "cogentcore.org/core/base/errors"

// invariant logs and returns the given error, which must describe a
// violated internal invariant of the scene. Build with the debug tag
// to panic instead.
func invariant(err error) error {
	return errors.Log(err)
}
