/*
 * geometric.go, part of topmodel
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
	"math"

	v3 "github.com/rmera/topmodel/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Centroid returns the geometric center of the coordinates in A, as a 1x3 matrix.
func Centroid(A *v3.Matrix) *v3.Matrix {
	ret := v3.Zeros(1)
	col := make([]float64, A.NVecs())
	for j := 0; j < 3; j++ {
		mat.Col(col, j, A.Dense)
		ret.Set(0, j, stat.Mean(col, nil))
	}
	return ret
}

// RotatorTranslatorToSuper superimposes the set of cartesian coordinates given as the rows of the matrix test on
// the set of coordinates in templa, using the Kabsch algorithm. If the optimal rotation is an improper one, the
// reflection is removed, so a proper rotation is always returned.
// It returns the superimposed coordinates of test, the rotation matrix, and the translations to be applied
// before (trans1) and after (trans2) the rotation: X' = (X + trans1)*rotation + trans2.
func RotatorTranslatorToSuper(test, templa *v3.Matrix) (*v3.Matrix, *v3.Matrix, *v3.Matrix, *v3.Matrix, error) {
	tmr := templa.NVecs()
	tsr := test.NVecs()
	if tmr != tsr || tmr == 0 {
		return nil, nil, nil, nil, newCError("RotatorTranslatorToSuper", "Ill-formed matrices: %d and %d vectors", tsr, tmr)
	}
	ctest := Centroid(test)
	ctempla := Centroid(templa)
	p := test.Clone()
	p.SubVec(p, ctest)
	q := templa.Clone()
	q.SubVec(q, ctempla)
	var h mat.Dense
	h.Mul(p.Dense.T(), q.Dense) //covariance, 3x3
	var svd mat.SVD
	if ok := svd.Factorize(&h, mat.SVDFull); !ok {
		return nil, nil, nil, nil, newCError("RotatorTranslatorToSuper", "SVD factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	rot := v3.Zeros(3)
	rot.Mul(&u, v.T())
	if mat.Det(rot.Dense) < 0 {
		//reflection. Flip the direction with the smallest singular value.
		for i := 0; i < 3; i++ {
			u.Set(i, 2, -u.At(i, 2))
		}
		rot.Mul(&u, v.T())
	}
	trans1 := v3.Zeros(1)
	trans1.Scale(-1, ctest.Dense)
	transformed := applySuper(test, rot, trans1, ctempla)
	return transformed, rot, trans1, ctempla, nil
}

// applySuper returns a new matrix with the coordinates in A translated by trans1,
// rotated by rot and then translated by trans2.
func applySuper(A, rot, trans1, trans2 *v3.Matrix) *v3.Matrix {
	tmp := A.Clone()
	tmp.AddVec(tmp, trans1)
	ret := v3.Zeros(A.NVecs())
	ret.Mul(tmp.Dense, rot.Dense)
	ret.AddVec(ret, trans2)
	return ret
}

// Super determines the best rotation and translations to superimpose the coords in test
// listed in testlst on the coords of templa listed in templalst, and returns
// a copy of the whole test with that transformation applied.
// testlst and templalst must have the same number of elements. If both are nil,
// all the coordinates are used, and test and templa must have the same number of vectors.
func Super(test, templa *v3.Matrix, testlst, templalst []int) (*v3.Matrix, error) {
	if len(templalst) != len(testlst) {
		return nil, newCError("Super", "Mismatched template and test atom numbers: %d, %d", len(templalst), len(testlst))
	}
	ctest := test
	ctempla := templa
	if testlst != nil {
		ctest = v3.Zeros(len(testlst))
		if err := ctest.SomeVecsSafe(test, testlst); err != nil {
			return nil, wrapCError("Super", err)
		}
		ctempla = v3.Zeros(len(templalst))
		if err := ctempla.SomeVecsSafe(templa, templalst); err != nil {
			return nil, wrapCError("Super", err)
		}
	}
	_, rot, trans1, trans2, err := RotatorTranslatorToSuper(ctest, ctempla)
	if err != nil {
		return nil, errDecorate(err, "Super")
	}
	return applySuper(test, rot, trans1, trans2), nil
}

// Deviations returns the distance between each pair of equivalent points in test and template.
func Deviations(test, template *v3.Matrix) ([]float64, error) {
	n := template.NVecs()
	if n != test.NVecs() {
		return nil, newCError("Deviations", "Ill-formed matrices: %d and %d vectors", test.NVecs(), n)
	}
	ret := make([]float64, n)
	a := make([]float64, 3)
	b := make([]float64, 3)
	for i := range ret {
		mat.Row(a, i, test.Dense)
		mat.Row(b, i, template.Dense)
		ret[i] = floats.Distance(a, b, 2)
	}
	return ret, nil
}

// RMSD returns the RSMD (root of the mean square deviation) for the sets of cartesian
// coordinates in test and template.
func RMSD(test, template *v3.Matrix) (float64, error) {
	devs, err := Deviations(test, template)
	if err != nil {
		return 0, errDecorate(err, "RMSD")
	}
	if len(devs) == 0 {
		return 0, newCError("RMSD", "No coordinates given")
	}
	for i, d := range devs {
		devs[i] = d * d
	}
	return math.Sqrt(stat.Mean(devs, nil)), nil
}

type atomKey struct {
	chain   string
	molid   int
	molname string
	name    string
}

// EquivalentAtoms returns the indexes of the atoms in a and b that are equivalent,
// i.e. have the same residue name, residue number and atom name. The chain identifier
// is also required to match, unless that gives no equivalences at all. Each atom
// in b is matched at most once.
func EquivalentAtoms(a, b Atomer) ([]int, []int) {
	ia, ib := equivalentAtoms(a, b, true)
	if len(ia) == 0 {
		ia, ib = equivalentAtoms(a, b, false)
	}
	return ia, ib
}

func equivalentAtoms(a, b Atomer, withchain bool) ([]int, []int) {
	key := func(at *Atom) atomKey {
		k := atomKey{molid: at.MolID, molname: at.MolName, name: at.Name}
		if withchain {
			k.chain = at.Chain
		}
		return k
	}
	bkeys := make(map[atomKey][]int, b.Len())
	for i := 0; i < b.Len(); i++ {
		k := key(b.Atom(i))
		bkeys[k] = append(bkeys[k], i)
	}
	var ia, ib []int
	for i := 0; i < a.Len(); i++ {
		k := key(a.Atom(i))
		js := bkeys[k]
		if len(js) == 0 {
			continue
		}
		ia = append(ia, i)
		ib = append(ib, js[0])
		bkeys[k] = js[1:]
	}
	return ia, ib
}

// modelOf returns the PDBModel behind m, and panics if there is none.
func modelOf(m Modeler) *PDBModel {
	if m == nil {
		panic(ErrNilModel)
	}
	ret := m.Model()
	if ret == nil || ret.Molecule == nil {
		panic(ErrNilModel)
	}
	return ret
}

// fitIndexes returns the indexes selected by mask, or all the indexes
// of M if mask is nil.
func (M *PDBModel) fitIndexes(mask []bool) ([]int, error) {
	if mask == nil {
		ret := make([]int, M.Len())
		for i := range ret {
			ret[i] = i
		}
		return ret, nil
	}
	if len(mask) != M.Len() {
		return nil, newCError("fitIndexes", "Mask length (%d) doesn't match the number of atoms (%d)", len(mask), M.Len())
	}
	return MaskIndexes(mask), nil
}

// superAll returns a copy of M with every frame transformed so the atoms in
// indexes of its first frame are superimposed on the atoms refindexes of ref.
func (M *PDBModel) superAll(ref *PDBModel, indexes, refindexes []int) (*PDBModel, error) {
	if len(indexes) == 0 {
		return nil, newCError("superAll", "No atoms to fit on")
	}
	test := v3.Zeros(len(indexes))
	test.SomeVecs(M.Xyz(), indexes)
	templa := v3.Zeros(len(refindexes))
	templa.SomeVecs(ref.Xyz(), refindexes)
	_, rot, trans1, trans2, err := RotatorTranslatorToSuper(test, templa)
	if err != nil {
		return nil, errDecorate(err, "superAll")
	}
	ret := M.Clone()
	for i, c := range ret.Coords {
		ret.Coords[i] = applySuper(c, rot, trans1, trans2)
	}
	return ret, nil
}

// Fit returns a copy of M superimposed on ref. Only the atoms selected by mask (all, if mask
// is nil) are used to obtain the transformation, which is then applied to all the atoms,
// in every frame. M and ref must have the same number of atoms.
func (M *PDBModel) Fit(ref Modeler, mask []bool) (*PDBModel, error) {
	r := modelOf(ref)
	if r.Len() != M.Len() {
		return nil, newCError("Fit", "Reference has %d atoms, model has %d", r.Len(), M.Len())
	}
	idx, err := M.fitIndexes(mask)
	if err != nil {
		return nil, errDecorate(err, "Fit")
	}
	ret, err := M.superAll(r, idx, idx)
	return ret, errDecorate(err, "Fit")
}

// MagicFit returns a copy of M superimposed on ref, using the atoms that are present in
// both models (see EquivalentAtoms). The models need not have the same atoms.
func (M *PDBModel) MagicFit(ref Modeler) (*PDBModel, error) {
	r := modelOf(ref)
	ia, ir := EquivalentAtoms(M, r)
	if len(ia) < 3 {
		return nil, newCError("MagicFit", "Only %d equivalent atoms found, at least 3 needed", len(ia))
	}
	ret, err := M.superAll(r, ia, ir)
	return ret, errDecorate(err, "MagicFit")
}

// pairCoords returns the first-frame coordinates of the atoms of M and other selected by mask.
// If fit is true, the coordinates of M are superimposed on those of other first.
func (M *PDBModel) pairCoords(other Modeler, mask []bool, fit bool) (*v3.Matrix, *v3.Matrix, error) {
	o := modelOf(other)
	if o.Len() != M.Len() {
		return nil, nil, newCError("pairCoords", "Models have %d and %d atoms", M.Len(), o.Len())
	}
	idx, err := M.fitIndexes(mask)
	if err != nil {
		return nil, nil, err
	}
	if len(idx) == 0 {
		return nil, nil, newCError("pairCoords", "Empty selection")
	}
	test := v3.Zeros(len(idx))
	test.SomeVecs(M.Xyz(), idx)
	templa := v3.Zeros(len(idx))
	templa.SomeVecs(o.Xyz(), idx)
	if fit {
		test, _, _, _, err = RotatorTranslatorToSuper(test, templa)
		if err != nil {
			return nil, nil, err
		}
	}
	return test, templa, nil
}

// RMS returns the root mean square deviation between the first frames of M and other,
// considering only the atoms selected by mask (all, if mask is nil). If fit is true,
// the atoms are superimposed before the calculation.
func (M *PDBModel) RMS(other Modeler, mask []bool, fit bool) (float64, error) {
	test, templa, err := M.pairCoords(other, mask, fit)
	if err != nil {
		return 0, errDecorate(err, "RMS")
	}
	return RMSD(test, templa)
}

// Deviations returns, for each atom, its distance to the same atom in other, considering
// the first frames of both models. If fit is true, M is superimposed on other first.
func (M *PDBModel) Deviations(other Modeler, fit bool) ([]float64, error) {
	test, templa, err := M.pairCoords(other, nil, fit)
	if err != nil {
		return nil, errDecorate(err, "Deviations")
	}
	return Deviations(test, templa)
}

