/*
 * model.go, part of topmodel
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
	"log/slog"
	"path/filepath"
	"strings"

	v3 "github.com/rmera/topmodel/v3"
)

// ModelRevision identifies the revision of the PDBModel type. It is part of
// the version string of every model.
const ModelRevision = "1.2"

// ModelConfig contains the parameters to build a PDBModel. Only one source of
// structural data is used, with the precedence Source > Molecule > File.
type ModelConfig struct {
	//Structure file to read. PDB, or PDBx/mmCIF if the name ends in .cif or .mmcif,
	//optionally compressed (.gz or .zst).
	File string

	//An existing model to copy. The copy is deep.
	Source Modeler

	//Atoms and coordinates already in memory. The molecule is used, not copied.
	Molecule *Molecule

	//Identifier of the model. If empty, it is taken from the source model, or
	//the first 4 letters of the file name are used.
	Code string

	//Names of residues to drop when the model is built (for instance, "HOH").
	SkipRes []string
}

// PDBModel is a structural model: atoms, one or more frames of coordinates
// and, optionally, b-factors, plus the file it was read from and an identifier.
// Operations that derive a new model (Take, Concat, Compress, Fit...) never
// modify the receiver.
type PDBModel struct {
	*Molecule
	source     *FileRef
	code       string
	resIndex   []int //index of the first atom of each residue
	chainIndex []int //index of the first atom of each chain
}

// NewPDBModel builds a new model from the data in cfg.
func NewPDBModel(cfg ModelConfig) (*PDBModel, error) {
	var err error
	M := &PDBModel{code: cfg.Code}
	switch {
	case cfg.Source != nil:
		src := cfg.Source.Model()
		if src == nil || src.Molecule == nil {
			return nil, newCError("NewPDBModel", "Given a nil source model")
		}
		M.Molecule = src.Molecule.Copy()
		M.source = src.source
		if M.code == "" {
			M.code = src.code
		}
	case cfg.Molecule != nil:
		if err = cfg.Molecule.Corrupted(); err != nil {
			return nil, errDecorate(err, "NewPDBModel")
		}
		if cfg.Molecule.LenFrames() == 0 {
			return nil, newCError("NewPDBModel", "Given a molecule without coordinates")
		}
		M.Molecule = cfg.Molecule
	case cfg.File != "":
		M.Molecule, err = readStructure(cfg.File)
		if err != nil {
			return nil, errDecorate(err, "NewPDBModel")
		}
		M.source = NewFileRef(cfg.File)
		if M.code == "" {
			M.code = codeFromName(cfg.File)
		}
	default:
		return nil, newCError("NewPDBModel", "No source of structural data given")
	}
	if len(cfg.SkipRes) > 0 {
		keep := MaskIndexes(M.MaskFrom(func(a *Atom) bool { return !isInString(cfg.SkipRes, a.MolName) }))
		if len(keep) == 0 {
			return nil, newCError("NewPDBModel", "All atoms belong to skipped residues %v", cfg.SkipRes)
		}
		if len(keep) < M.Len() {
			slog.Info("NewPDBModel: skipped residues", "code", M.code, "residues", cfg.SkipRes, "atoms", M.Len()-len(keep))
			M.Molecule, err = M.takeMolecule(keep)
			if err != nil {
				return nil, errDecorate(err, "NewPDBModel")
			}
		}
	}
	M.resIndex, M.chainIndex = residueAndChainIndexes(M)
	return M, nil
}

// RestorePDBModel builds a model from previously saved data. If rindex or cindex
// are nil, the residue and chain indexes are computed.
func RestorePDBModel(mol *Molecule, source *FileRef, code string, rindex, cindex []int) (*PDBModel, error) {
	if err := mol.Corrupted(); err != nil {
		return nil, errDecorate(err, "RestorePDBModel")
	}
	if len(mol.Coords) == 0 {
		return nil, newCError("RestorePDBModel", "No coordinates given")
	}
	M := &PDBModel{Molecule: mol, source: source, code: code}
	M.resIndex, M.chainIndex = residueAndChainIndexes(M)
	if rindex != nil {
		if err := checkStartIndex(rindex, M.Len()); err != nil {
			return nil, errDecorate(err, "RestorePDBModel: residue index")
		}
		M.resIndex = append([]int(nil), rindex...)
	}
	if cindex != nil {
		if err := checkStartIndex(cindex, M.Len()); err != nil {
			return nil, errDecorate(err, "RestorePDBModel: chain index")
		}
		M.chainIndex = append([]int(nil), cindex...)
	}
	return M, nil
}

// readStructure reads a PDB or PDBx file, depending on the name's extension.
func readStructure(name string) (*Molecule, error) {
	base, _ := trimCompression(name)
	switch tl(filepath.Ext(base)) {
	case ".cif", ".mmcif":
		return PDBxFileRead(name)
	}
	return PDBFileRead(name)
}

// codeFromName returns the first 4 letters of the file name, without the path.
func codeFromName(name string) string {
	base, _ := trimCompression(filepath.Base(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if len(base) > 4 {
		return base[:4]
	}
	return base
}

// Model returns the receiver. It makes PDBModel a Modeler.
func (M *PDBModel) Model() *PDBModel {
	return M
}

// Version returns a string identifying the revision of the model type.
func (M *PDBModel) Version() string {
	return "PDBModel " + ModelRevision
}

// Code returns the identifier of the model.
func (M *PDBModel) Code() string {
	return M.code
}

// Source returns the reference to the file the model was read from, or nil.
func (M *PDBModel) Source() *FileRef {
	return M.source
}

// Xyz returns the coordinates of the first frame of the model.
func (M *PDBModel) Xyz() *v3.Matrix {
	return M.Coords[0]
}

// ResIndex returns a copy of the indexes of the first atom of each residue.
func (M *PDBModel) ResIndex() []int {
	return append([]int(nil), M.resIndex...)
}

// ChainIndex returns a copy of the indexes of the first atom of each chain.
func (M *PDBModel) ChainIndex() []int {
	return append([]int(nil), M.chainIndex...)
}

// LenResidues returns the number of residues in the model.
func (M *PDBModel) LenResidues() int {
	return len(M.resIndex)
}

// LenChains returns the number of chains in the model.
func (M *PDBModel) LenChains() int {
	return len(M.chainIndex)
}

// String implements fmt.Stringer
func (M *PDBModel) String() string {
	return fmt.Sprintf("PDBModel %s: %d atoms, %d residues, %d chains, %d frames", M.code, M.Len(), M.LenResidues(), M.LenChains(), M.LenFrames())
}

// Clone returns a deep copy of the model.
func (M *PDBModel) Clone() *PDBModel {
	return &PDBModel{
		Molecule:   M.Molecule.Copy(),
		source:     M.source,
		code:       M.code,
		resIndex:   M.ResIndex(),
		chainIndex: M.ChainIndex(),
	}
}

// takeMolecule returns a new molecule with the atoms in indices, in that order,
// with their coordinates in every frame and their b-factors.
func (M *PDBModel) takeMolecule(indices []int) (*Molecule, error) {
	if len(indices) == 0 {
		return nil, newCError("takeMolecule", "Empty selection")
	}
	top := NewTopology(M.Charge(), M.Multi())
	if err := top.SomeAtomsSafe(M, indices); err != nil {
		return nil, errDecorate(err, "takeMolecule")
	}
	coords := make([]*v3.Matrix, 0, M.LenFrames())
	for i, c := range M.Coords {
		nc := v3.Zeros(len(indices))
		if err := nc.SomeVecsSafe(c, indices); err != nil {
			return nil, wrapCError(fmt.Sprintf("takeMolecule: frame %d", i), err)
		}
		coords = append(coords, nc)
	}
	var bfac [][]float64
	if M.Bfactors != nil {
		bfac = make([][]float64, 0, len(M.Bfactors))
		for _, b := range M.Bfactors {
			nb := make([]float64, 0, len(indices))
			for _, j := range indices {
				nb = append(nb, b[j])
			}
			bfac = append(bfac, nb)
		}
	}
	return &Molecule{Topology: top, Coords: coords, Bfactors: bfac}, nil
}

// Take returns a new model containing the atoms with the given indices, in the order
// given, with their coordinates in every frame and their b-factors. rindex and cindex
// are the (optional) indexes of the first atom of each residue and chain in the new model.
// If they are nil, they are computed. The new model keeps the code and source of the receiver.
func (M *PDBModel) Take(indices []int, rindex, cindex []int) (*PDBModel, error) {
	mol, err := M.takeMolecule(indices)
	if err != nil {
		return nil, errDecorate(err, "Take")
	}
	ret := &PDBModel{Molecule: mol, source: M.source, code: M.code}
	ret.resIndex, ret.chainIndex = residueAndChainIndexes(ret)
	if rindex != nil {
		if err := checkStartIndex(rindex, len(indices)); err != nil {
			return nil, errDecorate(err, "Take: residue index")
		}
		ret.resIndex = append([]int(nil), rindex...)
	}
	if cindex != nil {
		if err := checkStartIndex(cindex, len(indices)); err != nil {
			return nil, errDecorate(err, "Take: chain index")
		}
		ret.chainIndex = append([]int(nil), cindex...)
	}
	return ret, nil
}

// Compress returns a new model with only the atoms for which mask is true.
func (M *PDBModel) Compress(mask []bool) (*PDBModel, error) {
	if len(mask) != M.Len() {
		return nil, newCError("Compress", "Mask length (%d) doesn't match the number of atoms (%d)", len(mask), M.Len())
	}
	ret, err := M.Take(MaskIndexes(mask), nil, nil)
	return ret, errDecorate(err, "Compress")
}

// Concat returns a new model with the atoms of the receiver followed by those of each of
// the given models, in order. Every frame is concatenated, so all the models must have the
// same number of frames. B-factors are kept only if all the models have them.
// The new model has the code of the receiver and no source file.
func (M *PDBModel) Concat(models ...Modeler) (*PDBModel, error) {
	all := make([]*PDBModel, 0, len(models)+1)
	all = append(all, M)
	for i, m := range models {
		var p *PDBModel
		if m != nil {
			p = m.Model()
		}
		if p == nil || p.Molecule == nil {
			return nil, newCError("Concat", "Model %d is nil", i+1)
		}
		all = append(all, p)
	}
	frames := M.LenFrames()
	total := 0
	charge := 0
	withb := true
	for i, p := range all {
		if p.LenFrames() != frames {
			return nil, newCError("Concat", "Model %d has %d frames, %d expected", i, p.LenFrames(), frames)
		}
		total += p.Len()
		charge += p.Charge()
		if p.Bfactors == nil {
			withb = false
		}
	}
	top := NewTopology(charge, M.Multi(), make([]*Atom, 0, total))
	for _, p := range all {
		for _, a := range p.Atoms {
			at := new(Atom)
			at.Copy(a)
			top.AppendAtom(at)
		}
	}
	coords := make([]*v3.Matrix, frames)
	var bfac [][]float64
	if withb {
		bfac = make([][]float64, frames)
	}
	for f := 0; f < frames; f++ {
		coords[f] = v3.Zeros(total)
		row := 0
		for _, p := range all {
			coords[f].View(row, 0, p.Len(), 3).Copy(p.Coords[f].Dense)
			row += p.Len()
			if withb {
				bfac[f] = append(bfac[f], p.Bfactors[f]...)
			}
		}
	}
	ret := &PDBModel{Molecule: &Molecule{Topology: top, Coords: coords, Bfactors: bfac}, code: M.code}
	ret.resIndex, ret.chainIndex = residueAndChainIndexes(ret)
	return ret, nil
}

// residueAndChainIndexes returns the indexes of the first atoms of each
// residue and of each chain in A.
func residueAndChainIndexes(A Atomer) ([]int, []int) {
	var res, chains []int
	var prev *Atom
	for i := 0; i < A.Len(); i++ {
		at := A.Atom(i)
		if prev == nil || at.Chain != prev.Chain {
			chains = append(chains, i)
		}
		if prev == nil || at.Chain != prev.Chain || at.MolID != prev.MolID || at.MolName != prev.MolName {
			res = append(res, i)
		}
		prev = at
	}
	return res, chains
}

// checkStartIndex checks that index is a valid list of starting positions for
// a model with n atoms: ascending, starting at 0 and below n.
func checkStartIndex(index []int, n int) error {
	for i, v := range index {
		if v < 0 || v >= n {
			return newCError("checkStartIndex", "Index value %d (position %d) out of range for %d atoms", v, i, n)
		}
		if i == 0 && v != 0 {
			return newCError("checkStartIndex", "Index must start at 0, not %d", v)
		}
		if i > 0 && v <= index[i-1] {
			return newCError("checkStartIndex", "Index not ascending at position %d", i)
		}
	}
	return nil
}
