/*
 * pdb.go, part of topmodel
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
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	v3 "github.com/rmera/topmodel/v3"
)

// pdbField returns the trimmed columns [i,j) of line, or the empty
// string if the line is too short.
func pdbField(line string, i, j int) string {
	if len(line) <= i {
		return ""
	}
	if len(line) < j {
		j = len(line)
	}
	return strings.TrimSpace(line[i:j])
}

// Parses a valid ATOM or HETATM line of a PDB file, returns an Atom
// object with the info except for the coordinates and b-factors, which  are returned
// separately as an array of 3 float64 and a float64, respectively. If the b-factor
// can't be read, bfacok is false.
func readFullPDBLine(line string, contlines int) (*Atom, [3]float64, float64, bool, error) {
	var coords [3]float64
	var err error
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	if len(line) < 54 {
		return nil, coords, 0, false, newCError("readFullPDBLine", "Line %d too short for an atom entry", contlines)
	}
	atom.ID, err = strconv.Atoi(pdbField(line, 6, 11))
	if err != nil {
		return nil, coords, 0, false, wrapCError(fmt.Sprintf("readFullPDBLine: line %d", contlines), err)
	}
	atom.Name = pdbField(line, 12, 16)
	atom.Char16 = line[16]
	atom.MolName = pdbField(line, 17, 20)
	atom.MolName1 = oneLetter(atom.MolName)
	atom.Chain = pdbField(line, 21, 22)
	atom.MolID, err = strconv.Atoi(pdbField(line, 22, 26))
	if err != nil {
		return nil, coords, 0, false, wrapCError(fmt.Sprintf("readFullPDBLine: line %d", contlines), err)
	}
	coords, err = readPDBCoords(line)
	if err != nil {
		return nil, coords, 0, false, wrapCError(fmt.Sprintf("readFullPDBLine: line %d", contlines), err)
	}
	//Missing occupancies are not critical.
	if occ, err := strconv.ParseFloat(pdbField(line, 54, 60), 64); err == nil {
		atom.Occupancy = occ
	}
	bfactor, bfacerr := strconv.ParseFloat(pdbField(line, 60, 66), 64)
	atom.Symbol = pdbField(line, 76, 78)
	if len(atom.Symbol) == 2 {
		atom.Symbol = atom.Symbol[:1] + strings.ToLower(atom.Symbol[1:])
	}
	//charges look like "2+" or "1-"
	if c := pdbField(line, 78, 80); len(c) == 2 {
		if q, err := strconv.ParseFloat(c[:1], 64); err == nil {
			if c[1] == '-' {
				q = -q
			}
			atom.Charge = q
		}
	}
	//This part tries to guess the symbol from the atom name, if it has not been read
	if atom.Symbol == "" {
		atom.Symbol, _ = symbolFromName(atom.Name)
	}
	atom.Mass = symbolMass[atom.Symbol] //Not error checking
	return atom, coords, bfactor, bfacerr == nil, nil
}

func readPDBCoords(line string) ([3]float64, error) {
	var coords [3]float64
	var err error
	for i := 0; i < 3; i++ {
		coords[i], err = strconv.ParseFloat(pdbField(line, 30+8*i, 38+8*i), 64)
		if err != nil {
			return coords, err
		}
	}
	return coords, nil
}

// PDBFileRead reads a pdb file. Returns a Molecule. If there is one frame in the PDB
// the coordinates array will be of lenght 1. Files with names ending in .gz or .zst
// are decompressed on the fly.
func PDBFileRead(pdbname string) (*Molecule, error) {
	pdbfile, err := openStructure(pdbname)
	if err != nil {
		return nil, errDecorate(err, "PDBFileRead")
	}
	defer pdbfile.Close()
	mol, err := PDBRead(pdbfile)
	return mol, errDecorate(err, "PDBFileRead: "+pdbname)
}

// PDBRead reads a pdb file from an io.Reader. Returns a Molecule. If there is one frame in the PDB
// the coordinates array will be of lenght 1. Atoms are read only from the first model, the
// following models only contribute coordinates and b-factors.
func PDBRead(pdb io.Reader) (*Molecule, error) {
	molecule := make([]*Atom, 0)
	coords := make([][]float64, 1)
	coords[0] = make([]float64, 0)
	bfactors := make([][]float64, 1)
	bfactors[0] = make([]float64, 0)
	havebfactors := true
	firstModel := true //are we reading the first model? if not we only save coordinates
	contlines := 0     //count the lines read to better report errors
	scanner := bufio.NewScanner(pdb)
	for scanner.Scan() {
		line := scanner.Text()
		contlines++
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			var c [3]float64
			var bfac float64
			var bfacok bool
			if firstModel {
				atom, c2, b, ok, err := readFullPDBLine(line, contlines)
				if err != nil {
					return nil, errDecorate(err, "PDBRead")
				}
				molecule = append(molecule, atom)
				c, bfac, bfacok = c2, b, ok
			} else {
				var err error
				c, err = readPDBCoords(line)
				if err != nil {
					return nil, wrapCError(fmt.Sprintf("PDBRead: line %d", contlines), err)
				}
				var berr error
				bfac, berr = strconv.ParseFloat(pdbField(line, 60, 66), 64)
				bfacok = berr == nil
			}
			last := len(coords) - 1
			coords[last] = append(coords[last], c[0], c[1], c[2])
			bfactors[last] = append(bfactors[last], bfac)
			if !bfacok && havebfactors {
				slog.Warn("PDBRead: couldn't read b-factors, the molecule will have none", "line", contlines)
				havebfactors = false
			}
		case strings.HasPrefix(line, "MODEL"):
			//the first MODEL line doesn't start a new frame
			if len(molecule) > 0 {
				firstModel = false
				coords = append(coords, make([]float64, 0, len(molecule)*3))
				bfactors = append(bfactors, make([]float64, 0, len(molecule)))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, wrapCError("PDBRead", err)
	}
	if len(molecule) == 0 {
		return nil, newCError("PDBRead", "No atoms found")
	}
	//a trailing MODEL without atoms
	if len(coords[len(coords)-1]) == 0 {
		coords = coords[:len(coords)-1]
		bfactors = bfactors[:len(bfactors)-1]
	}
	frames := len(coords)
	mcoords := make([]*v3.Matrix, frames)
	var err error
	for i := 0; i < frames; i++ {
		mcoords[i], err = v3.NewMatrix(coords[i])
		if err != nil {
			return nil, wrapCError(fmt.Sprintf("PDBRead: frame %d", i), err)
		}
	}
	if !havebfactors {
		bfactors = nil
	}
	top := NewTopology(0, 1, molecule)
	returned, err := NewMolecule(mcoords, top, bfactors)
	return returned, errDecorate(err, "PDBRead")
}

// PDBFileWrite writes the frames in coords, with the atoms in mol and the (optional)
// b-factors in bfact, to a PDB file with the name pdbname. Names ending in .gz or
// .zst give compressed files.
func PDBFileWrite(pdbname string, coords []*v3.Matrix, mol Atomer, bfact [][]float64) error {
	out, err := createStructure(pdbname)
	if err != nil {
		return errDecorate(err, "PDBFileWrite")
	}
	err = PDBWrite(out, coords, mol, bfact)
	if err2 := out.Close(); err == nil && err2 != nil {
		err = wrapCError("PDBFileWrite", err2)
	}
	return errDecorate(err, "PDBFileWrite")
}

// PDBWrite writes the frames in coords, with the atoms in mol and the (optional)
// b-factors in bfact, in PDB format to out. If there is more than one frame,
// each is written as a separate MODEL.
func PDBWrite(out io.Writer, coords []*v3.Matrix, mol Atomer, bfact [][]float64) error {
	w := bufio.NewWriter(out)
	multi := len(coords) > 1
	for i, c := range coords {
		if c.NVecs() != mol.Len() {
			return newCError("PDBWrite", "Atoms (%d) and coordinates (%d) in frame %d don't match", mol.Len(), c.NVecs(), i)
		}
		if multi {
			fmt.Fprintf(w, "MODEL     %4d\n", i+1)
		}
		var b []float64
		if len(bfact) > i && len(bfact[i]) == mol.Len() {
			b = bfact[i]
		}
		for j := 0; j < mol.Len(); j++ {
			var bf float64
			if b != nil {
				bf = b[j]
			}
			w.WriteString(pdbAtomLine(mol.Atom(j), c.At(j, 0), c.At(j, 1), c.At(j, 2), bf))
		}
		if multi {
			w.WriteString("ENDMDL\n")
		}
	}
	w.WriteString("END\n")
	if err := w.Flush(); err != nil {
		return wrapCError("PDBWrite", err)
	}
	return nil
}

func pdbAtomLine(a *Atom, x, y, z, bfac float64) string {
	record := "ATOM  "
	if a.Het {
		record = "HETATM"
	}
	name := a.Name
	if len(name) < 4 && len(a.Symbol) < 2 {
		name = " " + name
	}
	c16 := a.Char16
	if c16 == 0 {
		c16 = ' '
	}
	chain := a.Chain
	if chain == "" {
		chain = " "
	}
	charge := "  "
	if a.Charge != 0 && a.Charge == float64(int(a.Charge)) && a.Charge > -10 && a.Charge < 10 {
		if a.Charge > 0 {
			charge = fmt.Sprintf("%d+", int(a.Charge))
		} else {
			charge = fmt.Sprintf("%d-", -int(a.Charge))
		}
	}
	return fmt.Sprintf("%-6s%5d %-4s%c%3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s%s\n",
		record, a.ID%100000, name, c16, a.MolName, chain[:1], a.MolID%10000, x, y, z, a.Occupancy, bfac, strings.ToUpper(a.Symbol), charge)
}
