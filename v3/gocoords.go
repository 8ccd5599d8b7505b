/*
 * gocoords.go, part of topmodel
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//METHODS

// SomeVecs puts in the receiver all the ith vectors of A,
// where i are the numbers in clist. The vectors are in the same order
// than the clist. Panics if the receiver doesn't have len(clist) vectors
// or if an index is out of range.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	an := A.NVecs()
	if F.NVecs() != len(clist) {
		panic(ErrShape)
	}
	checkIndexes(clist, an)
	for key, val := range clist {
		for j := 0; j < 3; j++ {
			F.Set(key, j, A.At(val, j))
		}
	}
}

// SomeVecsSafe is the same as SomeVecs, but it returns an error instead of panicking.
func (F *Matrix) SomeVecsSafe(A *Matrix, clist []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case PanicMsg:
				err = Error{string(e), []string{"SomeVecsSafe"}, true}
			case mat.Error:
				err = Error{fmt.Sprintf("topmodel/v3: Error in a gonum function: %s", e), []string{"SomeVecsSafe"}, true}
			default:
				panic(r)
			}
		}
	}()
	F.SomeVecs(A, clist)
	return err
}

// SetVecs sets the vectors with index n = each value on clist, in the receiver, to the
// n vector of A.
func (F *Matrix) SetVecs(A *Matrix, clist []int) {
	fn := F.NVecs()
	if A.NVecs() < len(clist) {
		panic(ErrShape)
	}
	checkIndexes(clist, fn)
	for key, val := range clist {
		for j := 0; j < 3; j++ {
			F.Set(val, j, A.At(key, j))
		}
	}
}

// checkIndexes panics if any index in clist is outside [0,n).
// It runs before any write so a failed call leaves the receiver untouched.
func checkIndexes(clist []int, n int) {
	for _, val := range clist {
		if val < 0 || val >= n {
			panic(ErrIndexOutOfRange)
		}
	}
}

// Stack puts A stacked over B in F. F must have exactly as many vectors as A and B together.
func (F *Matrix) Stack(A, B *Matrix) {
	an := A.NVecs()
	bn := B.NVecs()
	if F.NVecs() != an+bn {
		panic(ErrShape)
	}
	for i := 0; i < an; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j))
		}
	}
	for i := 0; i < bn; i++ {
		for j := 0; j < 3; j++ {
			F.Set(an+i, j, B.At(i, j))
		}
	}
}

// AddVec adds the row vector vec to each vector of A, putting the result in the receiver.
// A and the receiver can be the same matrix.
func (F *Matrix) AddVec(A, vec *Matrix) {
	an := A.NVecs()
	if vec.NVecs() != 1 || F.NVecs() != an {
		panic(ErrShape)
	}
	v := [3]float64{vec.At(0, 0), vec.At(0, 1), vec.At(0, 2)}
	for i := 0; i < an; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)+v[j])
		}
	}
}

// SubVec subtracts the vector vec to each vector of the matrix A, putting
// the result on the receiver. Panics if matrices are mismatched.
func (F *Matrix) SubVec(A, vec *Matrix) {
	neg := Zeros(1)
	neg.Scale(-1, vec.Dense)
	F.AddVec(A, neg)
}

// Dot returns the dot product of the first vectors of F and B.
func (F *Matrix) Dot(B *Matrix) float64 {
	var ret float64
	for j := 0; j < 3; j++ {
		ret += F.At(0, j) * B.At(0, j)
	}
	return ret
}

// String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r := F.NVecs()
	v := make([]string, 0, r+2)
	v = append(v, "\n[")
	row := make([]float64, 3)
	for i := 0; i < r; i++ {
		mat.Row(row, i, F.Dense)
		sep := "\n"
		if i == r-1 {
			sep = ""
		}
		lead := " "
		if i == 0 {
			lead = ""
		}
		v = append(v, fmt.Sprintf("%s%6.2f %6.2f %6.2f%s", lead, row[0], row[1], row[2], sep))
	}
	v = append(v, " ]")
	return strings.Join(v, "")
}
