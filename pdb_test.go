/*
 * pdb_test.go
 *
 * Copyright 2025 Raul Mera A. (rmeraaatacademicosdotutadotcl)
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

package chem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A dipeptide, a ligand and a water.
const complexPDB = `REMARK   test complex
ATOM      1  N   ALA A   1       0.000   0.000   0.000  1.00  1.50           N  
ATOM      2  CA  ALA A   1       1.458   0.000   0.000  1.00  3.00           C  
ATOM      3  C   ALA A   1       2.009   1.420   0.000  1.00  4.50           C  
ATOM      4  O   ALA A   1       1.251   2.390   0.000  1.00  6.00           O  
ATOM      5  CB  ALA A   1       1.988  -0.773  -1.199  1.00  7.50           C  
ATOM      6  N   GLY A   2       3.332   1.536   0.000  1.00  9.00           N  
ATOM      7  CA  GLY A   2       3.988   2.839   0.000  1.00 10.50           C  
ATOM      8  C   GLY A   2       5.504   2.693   0.100  1.00 12.00           C  
ATOM      9  O   GLY A   2       6.044   1.589   0.200  1.00 13.50           O  
HETATM   10  C1  LIG B   1       8.000   4.000   1.000  1.00 15.00           C  
HETATM   11  O1  LIG B   1       9.200   4.100   1.300  1.00 16.50           O  
HETATM   12  O   HOH W   1      10.000  10.000  10.000  1.00 18.00           O  
END
`

// The ligand alone, in two models.
const ligandPDB = `MODEL        1
HETATM    1  C1  LIG B   1       8.000   4.000   1.000  1.00 15.00           C  
HETATM    2  O1  LIG B   1       9.200   4.100   1.300  1.00 16.50           O  
ENDMDL
MODEL        2
HETATM    1  C1  LIG B   1       8.500   4.000   1.000  1.00 15.00           C  
HETATM    2  O1  LIG B   1       9.700   4.100   1.300  1.00 16.50           O  
ENDMDL
END
`

// No b-factor columns.
const nobfacPDB = `ATOM      1  N   ALA A   1       0.000   0.000   0.000
ATOM      2  CA  ALA A   1       1.458   0.000   0.000
`

// writeFixture writes content to a file called name in a temporary directory
// and returns its path.
func writeFixture(Te *testing.T, name, content string) string {
	Te.Helper()
	path := filepath.Join(Te.TempDir(), name)
	require.NoError(Te, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// Atoms are compared ignoring the fields that PDB files don't keep exactly.
var atomCmp = cmpopts.IgnoreFields(Atom{}, "Mass", "Vdw")

func TestPDBRead(Te *testing.T) {
	mol, err := PDBRead(strings.NewReader(complexPDB))
	require.NoError(Te, err)
	require.Equal(Te, 12, mol.Len())
	require.Equal(Te, 1, mol.LenFrames())
	a := mol.Atom(1)
	assert.Equal(Te, "CA", a.Name)
	assert.Equal(Te, "ALA", a.MolName)
	assert.Equal(Te, byte('A'), a.MolName1)
	assert.Equal(Te, "A", a.Chain)
	assert.Equal(Te, 1, a.MolID)
	assert.Equal(Te, "C", a.Symbol)
	assert.False(Te, a.Het)
	assert.True(Te, mol.Atom(9).Het)
	assert.InDelta(Te, 1.458, mol.Coords[0].At(1, 0), 1e-9)
	assert.InDelta(Te, -1.199, mol.Coords[0].At(4, 2), 1e-9)
	require.NotNil(Te, mol.Bfactors)
	assert.InDelta(Te, 18.0, mol.Bfactors[0][11], 1e-9)
}

func TestPDBReadMultiModel(Te *testing.T) {
	mol, err := PDBRead(strings.NewReader(ligandPDB))
	require.NoError(Te, err)
	assert.Equal(Te, 2, mol.Len())
	require.Equal(Te, 2, mol.LenFrames())
	assert.InDelta(Te, 8.5, mol.Coords[1].At(0, 0), 1e-9)
	assert.Len(Te, mol.Bfactors, 2)
}

func TestPDBReadErrors(Te *testing.T) {
	mol, err := PDBRead(strings.NewReader(nobfacPDB))
	require.NoError(Te, err)
	assert.Nil(Te, mol.Bfactors)
	_, err = PDBRead(strings.NewReader("REMARK nothing here\nEND\n"))
	require.Error(Te, err)
	_, err = PDBRead(strings.NewReader("ATOM      1  N   ALA A   1       0.000   zzzzz   0.000\n"))
	require.Error(Te, err)
	_, err = PDBFileRead(filepath.Join(Te.TempDir(), "missing.pdb"))
	require.Error(Te, err)
}

func TestPDBRoundTrip(Te *testing.T) {
	orig, err := PDBRead(strings.NewReader(complexPDB))
	require.NoError(Te, err)
	dir := Te.TempDir()
	for _, name := range []string{"plain.pdb", "gzipped.pdb.gz", "zstd.pdb.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(Te, PDBFileWrite(path, orig.Coords, orig, orig.Bfactors))
		read, err := PDBFileRead(path)
		require.NoError(Te, err, name)
		require.Equal(Te, orig.Len(), read.Len(), name)
		if diff := cmp.Diff(orig.Atoms, read.Atoms, atomCmp); diff != "" {
			Te.Errorf("%s: atoms differ (-want +got):\n%s", name, diff)
		}
		for i := 0; i < orig.Len(); i++ {
			for j := 0; j < 3; j++ {
				assert.InDelta(Te, orig.Coords[0].At(i, j), read.Coords[0].At(i, j), 1e-3)
			}
			assert.InDelta(Te, orig.Bfactors[0][i], read.Bfactors[0][i], 1e-2)
		}
	}
	//compressed files must really be compressed
	raw, err := os.ReadFile(filepath.Join(dir, "gzipped.pdb.gz"))
	require.NoError(Te, err)
	assert.Equal(Te, []byte{0x1f, 0x8b}, raw[:2])
}

func TestPDBWriteMultiModel(Te *testing.T) {
	mol, err := PDBRead(strings.NewReader(ligandPDB))
	require.NoError(Te, err)
	var sb strings.Builder
	require.NoError(Te, PDBWrite(&sb, mol.Coords, mol, mol.Bfactors))
	assert.Equal(Te, 2, strings.Count(sb.String(), "MODEL "))
	assert.Equal(Te, 2, strings.Count(sb.String(), "ENDMDL"))
	back, err := PDBRead(strings.NewReader(sb.String()))
	require.NoError(Te, err)
	assert.Equal(Te, 2, back.LenFrames())
	err = PDBWrite(&sb, mol.Coords, NewTopology(0, 1), nil)
	require.Error(Te, err)
}

func TestPDBxRoundTrip(Te *testing.T) {
	orig, err := PDBRead(strings.NewReader(ligandPDB))
	require.NoError(Te, err)
	path := filepath.Join(Te.TempDir(), "lig.cif.gz")
	require.NoError(Te, PDBxFileWrite(path, orig.Coords, orig, orig.Bfactors))
	read, err := PDBxFileRead(path)
	require.NoError(Te, err)
	require.Equal(Te, 2, read.Len())
	require.Equal(Te, 2, read.LenFrames())
	assert.Equal(Te, "LIG", read.Atom(0).MolName)
	assert.Equal(Te, "O1", read.Atom(1).Name)
	assert.Equal(Te, "O", read.Atom(1).Symbol)
	assert.InDelta(Te, 9.7, read.Coords[1].At(1, 0), 1e-3)
	require.NotNil(Te, read.Bfactors)
	assert.InDelta(Te, 16.5, read.Bfactors[1][1], 1e-2)
}

func TestFileRef(Te *testing.T) {
	var none *FileRef
	assert.Equal(Te, "", none.Path())
	assert.Equal(Te, "<no file>", none.String())
	assert.False(Te, none.Exists())
	assert.True(Te, none.Equal(nil))
	ref := NewFileRef("data/./rec.psf")
	assert.Equal(Te, "data/./rec.psf", ref.Path())
	assert.Equal(Te, "rec.psf", ref.Base())
	assert.True(Te, ref.Equal(NewFileRef("data/rec.psf")))
	assert.False(Te, ref.Equal(nil))
	assert.False(Te, ref.Exists())
	path := writeFixture(Te, "x.psf", "PSF\n")
	assert.True(Te, NewFileRef(path).Exists())
	assert.False(Te, NewFileRef(filepath.Dir(path)).Exists())
}
