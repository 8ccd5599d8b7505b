/*
 * json_test.go
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

package chemjson

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	chem "github.com/rmera/topmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFramesPDB = `MODEL        1
ATOM      1  N   ALA A   1       0.000   0.000   0.000  1.00  1.50           N  
ATOM      2  CA  ALA A   1       1.458   0.000   0.000  1.00  3.00           C  
HETATM    3  C1  LIG B   1       8.000   4.000   1.000  1.00 15.00           C  
ENDMDL
MODEL        2
ATOM      1  N   ALA A   1       0.100   0.000   0.000  1.00  2.50           N  
ATOM      2  CA  ALA A   1       1.558   0.000   0.000  1.00  4.00           C  
HETATM    3  C1  LIG B   1       8.100   4.000   1.000  1.00 16.00           C  
ENDMDL
END
`

func testModel(Te *testing.T) *chem.TopModel {
	Te.Helper()
	path := filepath.Join(Te.TempDir(), "2frm.pdb")
	require.NoError(Te, os.WriteFile(path, []byte(twoFramesPDB), 0o644))
	m, err := chem.NewTopModel(chem.TopConfig{ModelConfig: chem.ModelConfig{File: path}, TopPath: "/top/2frm.psf"})
	require.NoError(Te, err)
	return m
}

func TestEncodeDecodeModel(Te *testing.T) {
	m := testModel(Te)
	var buf bytes.Buffer
	require.NoError(Te, EncodeModel(&buf, m))
	//header + atoms + coordinates per frame + b-factors per frame
	assert.Equal(Te, 1+3+2*3+2, strings.Count(buf.String(), "\n"))

	back, err := DecodeModel(bufio.NewReader(&buf))
	require.NoError(Te, err)
	assert.Equal(Te, "/top/2frm.psf", back.TopFile().Path())
	assert.Equal(Te, m.InitVersion(), back.InitVersion())
	assert.Equal(Te, m.Code(), back.Code())
	assert.True(Te, m.Source().Equal(back.Source()))
	assert.Equal(Te, m.ResIndex(), back.ResIndex())
	assert.Equal(Te, m.ChainIndex(), back.ChainIndex())
	assert.Equal(Te, m.Bfactors, back.Bfactors)
	if diff := cmp.Diff(m.Atoms, back.Atoms); diff != "" {
		Te.Errorf("atoms differ (-want +got):\n%s", diff)
	}
	require.Equal(Te, 2, back.LenFrames())
	for f := 0; f < 2; f++ {
		assert.Equal(Te, m.Coords[f].RawMatrix().Data, back.Coords[f].RawMatrix().Data)
	}
}

func TestEncodeDecodeKeepsStamp(Te *testing.T) {
	m := testModel(Te)
	old := chem.RestoreTopModel(m.PDBModel, nil, "PDBModel 0.9; TopModel 0.9")
	var buf bytes.Buffer
	require.NoError(Te, EncodeModel(&buf, old))
	back, err := DecodeModel(bufio.NewReader(&buf))
	require.NoError(Te, err)
	assert.Nil(Te, back.TopFile())
	assert.Equal(Te, "PDBModel 0.9; TopModel 0.9", back.InitVersion())
	derived, err := back.Take([]int{0}, nil, nil)
	require.NoError(Te, err)
	assert.Equal(Te, "PDBModel 0.9; TopModel 0.9", derived.InitVersion())
}

func TestDecodeErrors(Te *testing.T) {
	m := testModel(Te)
	var buf bytes.Buffer
	require.NoError(Te, EncodeModel(&buf, m))
	full := buf.String()
	lines := strings.SplitAfter(full, "\n")

	//truncated stream
	_, err := DecodeModel(bufio.NewReader(strings.NewReader(strings.Join(lines[:5], ""))))
	require.Error(Te, err)
	var jerr *Error
	require.ErrorAs(Te, err, &jerr)
	assert.True(Te, jerr.IsError)
	assert.Equal(Te, 6, jerr.Line)

	//garbage in a coordinates line
	bad := append([]string(nil), lines...)
	bad[4] = "{\"Coords\":[1,2]}\n"
	_, err = DecodeModel(bufio.NewReader(strings.NewReader(strings.Join(bad, ""))))
	require.Error(Te, err)
	require.ErrorAs(Te, err, &jerr)
	assert.Equal(Te, 5, jerr.Line)

	_, err = DecodeModel(bufio.NewReader(strings.NewReader("{\"Atoms\":0,\"Frames\":1}\n")))
	require.Error(Te, err)
	_, err = DecodeModel(bufio.NewReader(strings.NewReader("not json\n")))
	require.Error(Te, err)

	//a missing final newline is fine
	back, err := DecodeModel(bufio.NewReader(strings.NewReader(strings.TrimSuffix(full, "\n"))))
	require.NoError(Te, err)
	assert.Equal(Te, 3, back.Len())

	require.Error(Te, EncodeModel(&buf, nil))
}

func TestErrorMarshal(Te *testing.T) {
	jerr := NewError("postprocess", "SomeFunction", os.ErrNotExist)
	assert.Equal(Te, []string{"Caller"}, jerr.Decorate("Caller"))
	assert.Contains(Te, string(jerr.Marshal()), "SomeFunction")
	assert.True(Te, jerr.InPostProcess)
}
