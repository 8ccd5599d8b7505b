/*
 * chem.go, part of topmodel
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
	"fmt"

	v3 "github.com/rmera/topmodel/v3"
)

/**Note: Many funcitons here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is way-most likely wrong and should
 * crash. Most panics are related to using the funciton on a nil object or trying to access out-of bounds
 * fields**/

// Atom contains the atoms read except for the coordinates, which will be in a matrix
// and the b-factors, which are in a separate slice of float64.
type Atom struct {
	Name      string  //PDB name of the atom
	ID        int     //The PDB index of the atom
	Tag       int     //Just added this for something that someone might want to keep that is not a float.
	MolName   string  //PDB name of the residue or molecule (3-letter code for residues)
	MolName1  byte    //the one letter name for residues and nucleotids
	Char16    byte    //Whatever is in the column 16 (counting from 0) in a PDB file, anything.
	MolID     int     //PDB index of the corresponding residue or molecule
	Chain     string  //One-character PDB name for a chain.
	Mass      float64 //hopefully all these float64 are not too much memory
	Occupancy float64 //a PDB crystallographic field, often used to store values of interest.
	Vdw       float64 //radius
	Charge    float64 //Partial charge on an atom
	Symbol    string
	Het       bool // is the atom an hetatm in the pdb file? (if applicable)
}

//Atom methods

// Copy puts in the receiver a copy of the Atom object A.
func (N *Atom) Copy(A *Atom) {
	if A == nil || N == nil {
		panic(ErrNilAtom)
	}
	*N = *A
}

/*****Topology type***/

// Topology contains information about a molecule which is not expected to change in time (i.e. everything except for coordinates and b-factors)
type Topology struct {
	Atoms  []*Atom
	charge int
	multi  int
}

// NewTopology returns topology with ats atoms,
// charge charge and multi multiplicity.
// It doesnt check for consitency across slices, correct charge
// or unpaired electrons.
func NewTopology(charge, multi int, ats ...[]*Atom) *Topology {
	top := new(Topology)
	if len(ats) == 0 || ats[0] == nil {
		top.Atoms = make([]*Atom, 0, 0)
	} else {
		top.Atoms = ats[0]
	}
	top.charge = charge
	top.multi = multi
	return top
}

/*Topology methods*/

// Charge returns the total charge of the topology
func (T *Topology) Charge() int {
	return T.charge
}

// Multi returns the multiplicity in the topology
func (T *Topology) Multi() int {
	return T.multi
}

// SetCharge sets the total charge of the topology to i
func (T *Topology) SetCharge(i int) {
	T.charge = i
}

// SetMulti sets the multiplicity in the topology to i
func (T *Topology) SetMulti(i int) {
	T.multi = i
}

// FillMasses tries to get fill the  masses for atom that don't have one
// by getting it from the symbol. Only a few common elements are supported
func (T *Topology) FillMasses() {
	for _, val := range T.Atoms {
		if val.Symbol != "" && val.Mass <= 0 {
			val.Mass = symbolMass[val.Symbol]
		}
	}
}

// CopyAtoms returns a deep copy of the atoms of T in a new Topology with
// the same charge and multiplicity.
func (T *Topology) CopyAtoms() *Topology {
	top := NewTopology(T.charge, T.multi, make([]*Atom, 0, T.Len()))
	for _, val := range T.Atoms {
		at := new(Atom)
		at.Copy(val)
		top.Atoms = append(top.Atoms, at)
	}
	return top
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Topology. Panics if
// out of range.
func (T *Topology) Atom(i int) *Atom {
	if i < 0 || i >= T.Len() {
		panic(ErrAtomOutOfRange)
	}
	return T.Atoms[i]
}

// SetAtom sets the (i+1)th Atom of the topology to aT.
// Panics if out of range
func (T *Topology) SetAtom(i int, at *Atom) {
	if i < 0 || i >= T.Len() {
		panic(ErrAtomOutOfRange)
	}
	T.Atoms[i] = at
}

// AppendAtom appends an atom at the end of the reference
func (T *Topology) AppendAtom(at *Atom) {
	T.Atoms = append(T.Atoms, at)
}

// SomeAtoms fills the topology with copies of the atoms of atomlist in A,
// in the order given. The charge and multiplicity of the receiver are not altered.
// Panics if an index is out of range.
func (T *Topology) SomeAtoms(A Atomer, atomlist []int) {
	ret := make([]*Atom, 0, len(atomlist))
	for _, j := range atomlist {
		at := new(Atom)
		at.Copy(A.Atom(j))
		ret = append(ret, at)
	}
	T.Atoms = ret
}

// SomeAtomsSafe is the same as SomeAtoms but returns an error instead of panicking.
func (T *Topology) SomeAtomsSafe(A Atomer, atomlist []int) error {
	l := A.Len()
	for k, j := range atomlist {
		if j < 0 || j >= l {
			return newCError("SomeAtomsSafe", "Atom requested (Number: %d, value: %d) out of range (%d atoms)", k, j, l)
		}
	}
	T.SomeAtoms(A, atomlist)
	return nil
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// Masses returns a slice of float64 with the masses of the atoms in the topology, or an error if any atom has no mass.
func (T *Topology) Masses() ([]float64, error) {
	mass := make([]float64, T.Len())
	for i, at := range T.Atoms {
		if at.Mass == 0 {
			return nil, newCError("Masses", "Not all the masses have been obtained: %d %v", i, at)
		}
		mass[i] = at.Mass
	}
	return mass, nil
}

/**Type Molecule**/

// Molecule contains all the info for a molecule in many states. The info that is expected to change between states,
// Coordinates and b-factors are stored separately from other atomic info.
type Molecule struct {
	*Topology
	Coords   []*v3.Matrix
	Bfactors [][]float64
}

// NewMolecule makes a molecule with ats atoms, coords coordinates, bfactors b-factors
// charge charge and unpaired unpaired electrons, and returns it. It doesnt check for
// consitency across slices or correct charge or unpaired electrons. bfactors can be nil.
func NewMolecule(coords []*v3.Matrix, ats AtomMultiCharger, bfactors [][]float64) (*Molecule, error) {
	if ats == nil {
		return nil, newCError("NewMolecule", "Supplied a nil Topology")
	}
	if len(coords) == 0 {
		return nil, newCError("NewMolecule", "Supplied a nil or empty Coords slice")
	}
	mol := new(Molecule)
	if top, ok := ats.(*Topology); ok {
		mol.Topology = top
	} else {
		mol.Topology = NewTopology(ats.Charge(), ats.Multi(), make([]*Atom, 0, ats.Len()))
		for i := 0; i < ats.Len(); i++ {
			mol.AppendAtom(ats.Atom(i))
		}
	}
	mol.Coords = coords
	mol.Bfactors = bfactors
	if err := mol.Corrupted(); err != nil {
		return nil, errDecorate(err, "NewMolecule")
	}
	return mol, nil
}

//The molecule methods:

// Copy returns a deep copy of the molecule including coordinates and b-factors.
func (M *Molecule) Copy() *Molecule {
	if err := M.Corrupted(); err != nil {
		panic(ErrCorrupted)
	}
	mol := new(Molecule)
	mol.Topology = M.CopyAtoms()
	mol.Coords = make([]*v3.Matrix, 0, len(M.Coords))
	for _, val := range M.Coords {
		mol.Coords = append(mol.Coords, val.Clone())
	}
	if M.Bfactors != nil {
		mol.Bfactors = make([][]float64, 0, len(M.Bfactors))
		for _, val := range M.Bfactors {
			mol.Bfactors = append(mol.Bfactors, append([]float64(nil), val...))
		}
	}
	return mol
}

// Corrupted checks whether the molecule is corrupted, i.e. the
// coordinates or the b-factors don't match the number of atoms.
func (M *Molecule) Corrupted() error {
	if M == nil || M.Topology == nil {
		return newCError("Corrupted", "Nil molecule or topology")
	}
	for i := range M.Coords {
		if M.Len() != M.Coords[i].NVecs() {
			return newCError("Corrupted", "Inconsistent coordinates/atoms in frame %d: Atoms %d, coords: %d", i, M.Len(), M.Coords[i].NVecs())
		}
	}
	if M.Bfactors == nil {
		return nil
	}
	if len(M.Bfactors) != len(M.Coords) {
		return newCError("Corrupted", "Inconsistent b-factors/frames: %d b-factor sets, %d frames", len(M.Bfactors), len(M.Coords))
	}
	for i, b := range M.Bfactors {
		if len(b) != M.Len() {
			return newCError("Corrupted", "Inconsistent b-factors/atoms in frame %d: Atoms %d, b-factors: %d", i, M.Len(), len(b))
		}
	}
	return nil
}

// LenFrames returns the number of frames in the molecule
func (M *Molecule) LenFrames() int {
	return len(M.Coords)
}

// String returns a short description of the molecule.
func (M *Molecule) String() string {
	return fmt.Sprintf("Molecule: %d atoms, %d frames", M.Len(), M.LenFrames())
}
