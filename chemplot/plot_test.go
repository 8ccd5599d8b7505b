/*
 * plot_test.go
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

package chemplot

import (
	"os"
	"path/filepath"
	"testing"

	chem "github.com/rmera/topmodel"
	v3 "github.com/rmera/topmodel/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPDB = `ATOM      1  N   ALA A   1       0.000   0.000   0.000  1.00  1.50           N  
ATOM      2  CA  ALA A   1       1.458   0.000   0.000  1.00  3.00           C  
ATOM      3  C   ALA A   1       2.009   1.420   0.000  1.00  4.50           C  
ATOM      4  CB  ALA A   1       1.988  -0.773  -1.199  1.00  7.50           C  
HETATM    5  C1  LIG B   1       8.000   4.000   1.000  1.00 15.00           C  
HETATM    6  O1  LIG B   1       9.200   4.100   1.300  1.00 16.50           O  
END
`

func TestProfile(Te *testing.T) {
	dir := Te.TempDir()
	for _, name := range []string{"profile.png", "profile.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(Te, Profile([]float64{1, 3, 2, 5}, "Test", "x", "y", path))
		info, err := os.Stat(path)
		require.NoError(Te, err)
		assert.Greater(Te, info.Size(), int64(0))
	}
	require.Error(Te, Profile(nil, "Empty", "x", "y", filepath.Join(dir, "empty.png")))
}

func TestDeviationPlot(Te *testing.T) {
	dir := Te.TempDir()
	pdb := filepath.Join(dir, "1tst.pdb")
	require.NoError(Te, os.WriteFile(pdb, []byte(testPDB), 0o644))
	ref, err := chem.NewTopModel(chem.TopConfig{ModelConfig: chem.ModelConfig{File: pdb}, TopPath: "1tst.psf"})
	require.NoError(Te, err)
	moved := ref.Clone()
	shift, err := v3.NewMatrix([]float64{0.5, 0, 0})
	require.NoError(Te, err)
	moved.Xyz().VecView(5).AddVec(moved.Xyz().VecView(5), shift)

	out := filepath.Join(dir, "devs.png")
	require.NoError(Te, DeviationPlot(moved, ref, true, out))
	_, err = os.Stat(out)
	require.NoError(Te, err)

	small, err := ref.Take([]int{0, 1}, nil, nil)
	require.NoError(Te, err)
	require.Error(Te, DeviationPlot(small, ref, false, filepath.Join(dir, "bad.png")))
}

func TestColors(Te *testing.T) {
	seen := map[[3]uint8]bool{}
	for i := 0; i < 5; i++ {
		c := colors(i, 5)
		assert.Equal(Te, uint8(255), c.A)
		seen[[3]uint8{c.R, c.G, c.B}] = true
	}
	assert.Len(Te, seen, 5)
}
