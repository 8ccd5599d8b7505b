/*
 * pdbx.go, part of topmodel
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
	"path/filepath"
	"strconv"
	"strings"

	v3 "github.com/rmera/topmodel/v3"
)

var tl func(string) string = strings.ToLower

// PDBxFileRead reads a PDBx/mmCIF file. Returns a Molecule with one frame per model
// in the file. Files with names ending in .gz or .zst are decompressed on the fly.
func PDBxFileRead(pdbname string) (*Molecule, error) {
	pdbxfile, err := openStructure(pdbname)
	if err != nil {
		return nil, errDecorate(err, "PDBxFileRead")
	}
	defer pdbxfile.Close()
	mol, err := PDBxRead(pdbxfile)
	return mol, errDecorate(err, "PDBxFileRead: "+pdbname)
}

// PDBxRead reads a PDBx/mmCIF file from an io.Reader. Only the _atom_site loop is read.
func PDBxRead(pdb io.Reader) (*Molecule, error) {
	mol, err := pdbxBufIORead(bufio.NewReader(pdb))
	return mol, errDecorate(err, "PDBxRead")
}

type pdbxmap map[string]int

func newPdbxmap() pdbxmap {
	m := make(pdbxmap, len(pdbxFields))
	for _, v := range pdbxFields {
		m[v] = -1
	}
	return m
}

// adds i to the map[string] entry, if it exists. If not,
// does nothing. Returns the map.
func (m pdbxmap) add(s string, i int) pdbxmap {
	s = strings.TrimSpace(s)
	if _, ok := m[s]; ok {
		m[s] = i
	}
	return m
}

// returns the integer corresponding to the given string in the map
// or -1 if the string is not a key in the map.
func (m pdbxmap) get(s string) int {
	if i, ok := m[s]; ok {
		return i
	}
	return -1
}

// value returns the field s of data, and false if the field
// is not present in the loop or in this line, or it is a CIF null.
func (m pdbxmap) value(s string, data []string) (string, bool) {
	k := m.get(s)
	if k < 0 || k >= len(data) {
		return "", false
	}
	if data[k] == "?" || data[k] == "." {
		return "", false
	}
	return data[k], true
}

func pdbxFillAtom(at *Atom, data []string, m pdbxmap) error {
	var err error
	if s, ok := m.value("_atom_site.type_symbol", data); ok {
		at.Symbol = s
		if len(s) == 2 {
			at.Symbol = s[:1] + strings.ToLower(s[1:])
		}
	}
	if s, ok := m.value("_atom_site.auth_atom_id", data); ok {
		at.Name = strings.Trim(s, "\"")
	} else if s, ok := m.value("_atom_site.label_atom_id", data); ok {
		at.Name = strings.Trim(s, "\"")
	}
	if at.Symbol == "" {
		at.Symbol, _ = symbolFromName(at.Name)
	}
	if s, ok := m.value("_atom_site.auth_comp_id", data); ok {
		at.MolName = s
	} else if s, ok := m.value("_atom_site.label_comp_id", data); ok {
		at.MolName = s
	}
	at.MolName1 = oneLetter(at.MolName)
	if s, ok := m.value("_atom_site.label_alt_id", data); ok {
		at.Char16 = s[0]
	}
	if s, ok := m.value("_atom_site.auth_asym_id", data); ok {
		at.Chain = s
	} else if s, ok := m.value("_atom_site.label_asym_id", data); ok {
		at.Chain = s
	}
	if s, ok := m.value("_atom_site.id", data); ok {
		if at.ID, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("pdbxFillAtom: Couldn't parse ID from %s: %w", s, err)
		}
	}
	if s, ok := m.value("_atom_site.auth_seq_id", data); ok {
		if at.MolID, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("pdbxFillAtom: Couldn't parse MolID from %s: %w", s, err)
		}
	} else if s, ok := m.value("_atom_site.label_seq_id", data); ok {
		if at.MolID, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("pdbxFillAtom: Couldn't parse MolID from %s: %w", s, err)
		}
	}
	if s, ok := m.value("_atom_site.occupancy", data); ok {
		if at.Occupancy, err = strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("pdbxFillAtom: Couldn't parse Occupancy from %s: %w", s, err)
		}
	}
	//Charge, but we won't do anything if we somehow can't read it.
	if s, ok := m.value("_atom_site.pdbx_formal_charge", data); ok {
		if q, err := strconv.ParseFloat(s, 64); err == nil {
			at.Charge = q
		}
	}
	if s, ok := m.value("_atom_site.group_pdb", data); ok {
		at.Het = s != "ATOM"
	}
	at.Mass = symbolMass[at.Symbol]
	return nil
}

func pdbxFillCoords(data []string, coord []float64, m pdbxmap) ([]float64, error) {
	c := []string{"_atom_site.cartn_x", "_atom_site.cartn_y", "_atom_site.cartn_z"}
	for j, v := range c {
		s, ok := m.value(v, data)
		if !ok {
			return coord, fmt.Errorf("pdbxFillCoord: Field %s not present in data %v", v, data)
		}
		fl, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return coord, fmt.Errorf("pdbxFillCoord: Couldn't parse %d cartesian coordinate from %s: %w", j, s, err)
		}
		coord = append(coord, fl)
	}
	return coord, nil
}

func pdbxBufIORead(pdb *bufio.Reader) (*Molecule, error) {
	m := newPdbxmap()
	molecule := make([]*Atom, 0)
	coords := make([][]float64, 1)
	coords[0] = make([]float64, 0, 3)
	bfactors := make([][]float64, 1)
	bfactors[0] = make([]float64, 0)
	currentmodel := -1
	var reading, inloop, done bool
	var field int
	havebfactors := true
	hp := strings.HasPrefix
	for !done {
		line, err := pdb.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return nil, wrapCError("pdbxBufIORead", err)
			}
			done = true
		}
		line = strings.TrimSpace(line)
		if hp(line, "#") || hp(line, ";") || line == "" {
			continue
		}
		if hp(tl(line), "loop_") { //new section
			if reading && len(molecule) > 0 {
				break //the _atom_site loop is over
			}
			reading = false
			inloop = true
			field = 0
			continue
		}
		if hp(line, "_") {
			if inloop && hp(tl(line), "_atom_site.") {
				reading = true
				m.add(tl(line), field)
				field++
				continue
			}
			if reading && len(molecule) > 0 {
				break
			}
			reading = false
			continue
		}
		if !reading {
			continue
		}
		//Here we should be reading the content lines.
		fields := strings.Fields(line)
		if s, ok := m.value("_atom_site.pdbx_pdb_model_num", fields); ok {
			model, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("pdbxBufIORead: Couldn't parse model number from %s: %w", s, err)
			}
			if currentmodel < 0 {
				currentmodel = model
			}
			if model > currentmodel {
				nats := len(molecule)
				coords = append(coords, make([]float64, 0, nats*3))
				bfactors = append(bfactors, make([]float64, 0, nats))
				currentmodel = model
			}
		}
		//we don't read the atoms again for the next models.
		if len(coords) == 1 {
			at := new(Atom)
			if err := pdbxFillAtom(at, fields, m); err != nil {
				return nil, fmt.Errorf("pdbxBufIORead: Couldn't read atom %d: %w", len(molecule)+1, err)
			}
			molecule = append(molecule, at)
		}
		c := len(coords) - 1
		coords[c], err = pdbxFillCoords(fields, coords[c], m)
		if err != nil {
			return nil, fmt.Errorf("pdbxBufIORead: Couldn't read %d th coordinates for frame %d: %w", len(coords[c])/3+1, c, err)
		}
		bf, ok := m.value("_atom_site.b_iso_or_equiv", fields)
		b, err := strconv.ParseFloat(bf, 64)
		if (!ok || err != nil) && havebfactors {
			//It can very well be that the file just doesn't contain b-factors.
			slog.Warn("pdbxBufIORead: couldn't read b-factors, the molecule will have none", "atom", len(bfactors[c])+1, "frame", c)
			havebfactors = false
		}
		bfactors[c] = append(bfactors[c], b)
	}
	if len(molecule) == 0 {
		return nil, newCError("pdbxBufIORead", "No atoms found")
	}
	frames := len(coords)
	mcoords := make([]*v3.Matrix, frames)
	var err error
	for i := 0; i < frames; i++ {
		mcoords[i], err = v3.NewMatrix(coords[i])
		if err != nil {
			return nil, fmt.Errorf("pdbxBufIORead: Couldn't transform coordinates from frame %d: %w", i, err)
		}
	}
	if !havebfactors {
		bfactors = nil
	}
	top := NewTopology(0, 1, molecule)
	returned, err := NewMolecule(mcoords, top, bfactors)
	if err != nil {
		return returned, errDecorate(err, "pdbxBufIORead")
	}
	return returned, nil
}

// PDBxFileWrite writes the frames in coords, with the atoms in mol and the
// (optional) b-factors in bfact, to a PDBx/mmCIF file with the name name.
func PDBxFileWrite(name string, coords []*v3.Matrix, mol Atomer, bfact [][]float64) error {
	pdb, err := createStructure(name)
	if err != nil {
		return errDecorate(err, "PDBxFileWrite")
	}
	base, _ := trimCompression(filepath.Base(name))
	base = strings.TrimSuffix(strings.TrimSuffix(base, ".cif"), ".mmcif")
	err = PDBxWrite(pdb, coords, mol, bfact, base)
	if err2 := pdb.Close(); err == nil && err2 != nil {
		err = wrapCError("PDBxFileWrite", err2)
	}
	return errDecorate(err, "PDBxFileWrite")
}

// PDBxWrite writes the frames in coords, with the atoms in mol and the (optional)
// b-factors in bfact in PDBx/mmCIF format to out. All the frames go in a single
// _atom_site loop, distinguished by their model number.
func PDBxWrite(out io.Writer, coords []*v3.Matrix, mol Atomer, bfact [][]float64, name ...string) error {
	n := "topmodel"
	if len(name) > 0 && name[0] != "" {
		n = name[0]
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "data_%s\n#\nloop_\n", n)
	withb := len(bfact) == len(coords)
	for _, b := range bfact {
		if len(b) != mol.Len() {
			withb = false
		}
	}
	for _, h := range []string{"group_PDB", "id", "type_symbol", "auth_atom_id", "label_alt_id",
		"auth_comp_id", "auth_asym_id", "auth_seq_id", "Cartn_x", "Cartn_y", "Cartn_z",
		"occupancy", "pdbx_formal_charge", "pdbx_PDB_model_num"} {
		fmt.Fprintf(w, "_atom_site.%s\n", h)
	}
	if withb {
		w.WriteString("_atom_site.B_iso_or_equiv\n")
	}
	for i, v := range coords {
		if v.NVecs() != mol.Len() {
			return newCError("PDBxWrite", "Reference (%d) and Coords (%d) don't have the same number of atoms", mol.Len(), v.NVecs())
		}
		for j := 0; j < mol.Len(); j++ {
			a := mol.Atom(j)
			het := "ATOM"
			if a.Het {
				het = "HETATM"
			}
			alt := "."
			if a.Char16 != 0 && a.Char16 != ' ' {
				alt = string(a.Char16)
			}
			chain := a.Chain
			if chain == "" {
				chain = "."
			}
			fmt.Fprintf(w, "%s %d %s %s %s %s %s %d %.3f %.3f %.3f %.2f %d %d", het, a.ID, cifValue(a.Symbol),
				cifValue(a.Name), alt, cifValue(a.MolName), chain, a.MolID, v.At(j, 0), v.At(j, 1), v.At(j, 2), a.Occupancy, int(a.Charge), i+1)
			if withb {
				fmt.Fprintf(w, " %.2f", bfact[i][j])
			}
			w.WriteString("\n")
		}
	}
	w.WriteString("#\n")
	if err := w.Flush(); err != nil {
		return wrapCError("PDBxWrite", err)
	}
	return nil
}

// cifValue quotes names with primes (common in nucleotides) and
// replaces empty values with the CIF null.
func cifValue(s string) string {
	if s == "" {
		return "?"
	}
	if strings.ContainsAny(s, "' ") {
		return "\"" + s + "\""
	}
	return s
}

var pdbxFields = []string{
	"_atom_site.group_pdb",
	"_atom_site.id",
	"_atom_site.type_symbol",
	"_atom_site.label_atom_id",
	"_atom_site.label_alt_id",
	"_atom_site.label_comp_id",
	"_atom_site.label_asym_id",
	"_atom_site.label_entity_id",
	"_atom_site.label_seq_id",
	"_atom_site.pdbx_pdb_ins_code",
	"_atom_site.cartn_x",
	"_atom_site.cartn_y",
	"_atom_site.cartn_z",
	"_atom_site.occupancy",
	"_atom_site.b_iso_or_equiv",
	"_atom_site.pdbx_formal_charge",
	"_atom_site.auth_seq_id",
	"_atom_site.auth_comp_id",
	"_atom_site.auth_asym_id",
	"_atom_site.auth_atom_id",
	"_atom_site.pdbx_pdb_model_num",
}
