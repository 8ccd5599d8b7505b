/*
 * v3_test.go
 *
 * Copyright 2013 Raul Mera <rmera@zinc>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 *
 *
 */

package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(Te, err)
	assert.Equal(Te, 3, A.NVecs())
	_, err = NewMatrix([]float64{1, 2, 3, 4})
	require.Error(Te, err)
	E, err := NewMatrix(nil)
	require.NoError(Te, err)
	assert.Equal(Te, 0, E.NVecs())
	assert.Equal(Te, 0, Zeros(0).NVecs())
}

func TestViews(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(Te, err)
	view := A.VecView(1)
	view.Set(0, 0, 100)
	assert.Equal(Te, 100.0, A.At(1, 0))
	C := A.Clone()
	C.Set(0, 0, -1)
	assert.Equal(Te, 1.0, A.At(0, 0))
}

func TestSomeVecs(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
	A, err := NewMatrix(a)
	require.NoError(Te, err)
	B := Zeros(3)
	cind := []int{1, 3, 5}
	require.NoError(Te, B.SomeVecsSafe(A, cind))
	assert.Equal(Te, []float64{4, 5, 6}, B.RawRowView(0))
	assert.Equal(Te, []float64{16, 17, 18}, B.RawRowView(2))
	//wrong receiver size
	W := Zeros(2)
	assert.Error(Te, W.SomeVecsSafe(A, cind))
	//index out of range
	err = B.SomeVecsSafe(A, []int{1, 2, 6})
	require.Error(Te, err)
	assert.Equal(Te, string(ErrIndexOutOfRange), err.Error())
	//a failed call leaves the receiver untouched
	assert.Equal(Te, []float64{4, 5, 6}, B.RawRowView(0))
	assert.Equal(Te, []float64{10, 11, 12}, B.RawRowView(1))
	C := Zeros(6)
	assert.Panics(Te, func() { C.SetVecs(B, []int{0, 6, 2}) })
	assert.Equal(Te, []float64{0, 0, 0}, C.RawRowView(0))
	//Back to where they were.
	A2 := Zeros(6)
	A2.SetVecs(B, cind)
	assert.Equal(Te, []float64{10, 11, 12}, A2.RawRowView(3))
}

func TestStackAndShift(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 1, 1, 2, 2, 2})
	B, _ := NewMatrix([]float64{3, 3, 3})
	S := Zeros(3)
	S.Stack(A, B)
	assert.Equal(Te, []float64{3, 3, 3}, S.RawRowView(2))
	v, _ := NewMatrix([]float64{1, 0, -1})
	S.SubVec(S, v)
	assert.Equal(Te, []float64{0, 1, 2}, S.RawRowView(0))
	S.AddVec(S, v)
	assert.Equal(Te, []float64{1, 1, 1}, S.RawRowView(0))
	assert.Equal(Te, 0.0, v.Dot(A))
	assert.Panics(Te, func() { Zeros(2).Stack(A, B) })
}
