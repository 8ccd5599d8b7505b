/*
 * fileref.go, part of topmodel
 *
 * Copyright 2025 Raul Mera A. (rmeraaatacademicosdotutadotcl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chem

import (
	"os"
	"path/filepath"
)

// FileRef is an immutable handle to a file path. It is only a label: creating one
// never touches the filesystem. A nil *FileRef means "no file", and all the
// methods can be called on it.
type FileRef struct {
	path string
}

// NewFileRef returns a reference to the file at path. The path is kept verbatim.
func NewFileRef(path string) *FileRef {
	return &FileRef{path: path}
}

// Path returns the path as given when the reference was created, or the
// empty string for a nil reference.
func (F *FileRef) Path() string {
	if F == nil {
		return ""
	}
	return F.path
}

// String implements fmt.Stringer
func (F *FileRef) String() string {
	if F == nil {
		return "<no file>"
	}
	return F.path
}

// Base returns the last element of the path.
func (F *FileRef) Base() string {
	if F == nil || F.path == "" {
		return ""
	}
	return filepath.Base(F.path)
}

// Exists returns true if the referenced file exists and is not a directory.
func (F *FileRef) Exists() bool {
	if F == nil || F.path == "" {
		return false
	}
	info, err := os.Stat(F.path)
	return err == nil && !info.IsDir()
}

// Equal returns true if both references point to the same cleaned path.
// Two nil references are equal.
func (F *FileRef) Equal(o *FileRef) bool {
	if F == nil || o == nil {
		return F == o
	}
	return filepath.Clean(F.path) == filepath.Clean(o.path)
}
