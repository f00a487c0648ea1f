// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"strconv"
)

// GenerateUniqueID returns an ID for the given node that is not used in
// the scene: the class name of the node followed by the smallest positive
// integer that makes it unique. IDs of removed nodes are reused.
func (s *Scene) GenerateUniqueID(n Node) string {
	return s.uniqueID(n.ClassName(), nil)
}

// uniqueID returns the first ID made of the given base and a positive
// integer that is neither used in the scene nor reserved.
func (s *Scene) uniqueID(base string, reserved map[string]bool) string {
	for i := 1; ; i++ {
		id := base + strconv.Itoa(i)
		if s.byID[id] == nil && !reserved[id] {
			return id
		}
	}
}
