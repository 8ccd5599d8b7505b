/*
 * mask.go, part of topmodel
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

//A mask is a []bool with one element per atom of a model. Atoms for
//which the mask is true are selected.

var backboneNames = []string{"N", "CA", "C", "O", "OXT", "OT1", "OT2", "OC1", "OC2"}

var waterNames = []string{"HOH", "WAT", "TIP3", "TIP", "SOL", "H2O", "DOD"}

// MaskFrom returns a mask which is true for the atoms of M for which f returns true.
func (M *PDBModel) MaskFrom(f func(*Atom) bool) []bool {
	mask := make([]bool, M.Len())
	for i := range mask {
		mask[i] = f(M.Atom(i))
	}
	return mask
}

// MaskProtein returns a mask selecting the atoms in amino acid residues.
func (M *PDBModel) MaskProtein() []bool {
	return M.MaskFrom(func(a *Atom) bool { return IsProteinResidue(a.MolName) })
}

// MaskCA returns a mask selecting the alpha carbons of amino acid residues.
func (M *PDBModel) MaskCA() []bool {
	return M.MaskFrom(func(a *Atom) bool { return a.Name == "CA" && IsProteinResidue(a.MolName) })
}

// MaskBB returns a mask selecting the backbone atoms of amino acid residues.
func (M *PDBModel) MaskBB() []bool {
	return M.MaskFrom(func(a *Atom) bool { return IsProteinResidue(a.MolName) && isInString(backboneNames, a.Name) })
}

// MaskHeavy returns a mask selecting all non-hydrogen atoms.
func (M *PDBModel) MaskHeavy() []bool {
	return M.MaskFrom(func(a *Atom) bool { return a.Symbol != "H" && a.Symbol != "D" })
}

// MaskH2O returns a mask selecting water molecules.
func (M *PDBModel) MaskH2O() []bool {
	return M.MaskFrom(func(a *Atom) bool { return isInString(waterNames, a.MolName) })
}

// MaskIndexes returns the indexes of the true elements of mask.
func MaskIndexes(mask []bool) []int {
	ret := make([]int, 0, len(mask))
	for i, v := range mask {
		if v {
			ret = append(ret, i)
		}
	}
	return ret
}

// MaskAnd returns the element-wise logical and of two masks.
// It panics if the masks have different lengths.
func MaskAnd(a, b []bool) []bool {
	return maskOp(a, b, func(x, y bool) bool { return x && y })
}

// MaskOr returns the element-wise logical or of two masks.
// It panics if the masks have different lengths.
func MaskOr(a, b []bool) []bool {
	return maskOp(a, b, func(x, y bool) bool { return x || y })
}

// MaskNot returns the negation of mask.
func MaskNot(mask []bool) []bool {
	ret := make([]bool, len(mask))
	for i, v := range mask {
		ret[i] = !v
	}
	return ret
}

func maskOp(a, b []bool, op func(x, y bool) bool) []bool {
	if len(a) != len(b) {
		panic(ErrMaskLength)
	}
	ret := make([]bool, len(a))
	for i := range a {
		ret[i] = op(a[i], b[i])
	}
	return ret
}
