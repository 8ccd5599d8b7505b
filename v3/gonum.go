/*
 * gonum.go, part of topmodel
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

//gonum.go contains the Matrix type and its glue to gonum's mat package, plus
//the error types of the package.

package v3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of vectors in 3D space. Within the package it is understood
// that a "vector" is a row vector, i.e. the cartesian coordinates of a point in 3D space.
// The zero-row Matrix is represented by an empty gonum Dense.
type Matrix struct {
	*mat.Dense
}

// Matrix2Dense returns the gonum Dense underlying A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

// Dense2Matrix wraps A in a Matrix. A must have 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	return &Matrix{A}
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice lenght %d not divisible by %d: %d", l, cols, l%cols), []string{"NewMatrix"}, true}
	}
	if rows == 0 {
		return &Matrix{new(mat.Dense)}, nil
	}
	return &Matrix{mat.NewDense(rows, cols, data)}, nil
}

// Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	if vecs == 0 {
		return &Matrix{new(mat.Dense)}
	}
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

// NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	if F.Dense == nil || F.IsEmpty() {
		return 0
	}
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// VecView returns a view of the ith vector of F. Changes in the view are
// reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

// View returns a view of F starting from i,j and spanning r rows and
// c columns. Changes in the view are reflected in F and vice-versa.
func (F *Matrix) View(i, j, r, c int) *Matrix {
	return &Matrix{F.Dense.Slice(i, i+r, j, j+c).(*mat.Dense)}
}

// Clone returns a deep copy of F.
func (F *Matrix) Clone() *Matrix {
	n := F.NVecs()
	ret := Zeros(n)
	if n > 0 {
		ret.Copy(F.Dense)
	}
	return ret
}

//Errors

// Error is the error type for the package. It satisfies the chem.Error interface
// without importing it, to avoid a circular import.
type Error struct {
	message  string
	deco     []string
	critical bool
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// Critical return whether the error is critical or it can be ignored
func (err Error) Critical() bool { return err.critical }

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix      = PanicMsg("topmodel/v3: A Matrix should have 3 columns")
	ErrNotEnoughElements = PanicMsg("topmodel/v3: not enough elements in Matrix")
	ErrShape             = PanicMsg("topmodel/v3: Dimension mismatch")
	ErrIndexOutOfRange   = PanicMsg("topmodel/v3: index out of range")
)
