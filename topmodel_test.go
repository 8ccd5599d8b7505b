/*
 * topmodel_test.go
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
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTopModel(Te *testing.T, name, content, top string) *TopModel {
	Te.Helper()
	m, err := NewTopModel(TopConfig{ModelConfig: ModelConfig{File: writeFixture(Te, name, content)}, TopPath: top})
	require.NoError(Te, err)
	return m
}

// captureLog sends the default slog output to a buffer until the test ends.
func captureLog(Te *testing.T) *bytes.Buffer {
	Te.Helper()
	buf := new(bytes.Buffer)
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, nil)))
	Te.Cleanup(func() { slog.SetDefault(old) })
	return buf
}

func TestNewTopModel(Te *testing.T) {
	ref := NewFileRef("/data/complex.psf")
	path := writeFixture(Te, "1cpx.pdb", complexPDB)
	m, err := NewTopModel(TopConfig{ModelConfig: ModelConfig{File: path}, TopFile: ref})
	require.NoError(Te, err)
	assert.Same(Te, ref, m.TopFile())
	assert.Equal(Te, 12, m.Len())
	assert.Equal(Te, "1cpx", m.Code())

	//a path is wrapped in a reference, and the file is never opened
	m2, err := NewTopModel(TopConfig{ModelConfig: ModelConfig{File: path}, TopPath: "does/not/exist.psf"})
	require.NoError(Te, err)
	assert.Equal(Te, "does/not/exist.psf", m2.TopFile().Path())
	assert.False(Te, m2.TopFile().Exists())

	//the explicit reference wins over the path
	m3, err := NewTopModel(TopConfig{ModelConfig: ModelConfig{File: path}, TopFile: ref, TopPath: "other.psf"})
	require.NoError(Te, err)
	assert.Same(Te, ref, m3.TopFile())

	//no reference is not an error
	none, err := NewTopModel(TopConfig{ModelConfig: ModelConfig{File: path}})
	require.NoError(Te, err)
	assert.Nil(Te, none.TopFile())
	assert.Equal(Te, "<no file>", none.TopFile().String())
}

func TestNewTopModelFromSource(Te *testing.T) {
	src := newTopModel(Te, "1cpx.pdb", complexPDB, "rec.psf")
	copied, err := NewTopModel(TopConfig{ModelConfig: ModelConfig{Source: src}})
	require.NoError(Te, err)
	assert.Same(Te, src.TopFile(), copied.TopFile())
	assert.Equal(Te, src.Code(), copied.Code())
	assert.True(Te, copied.Source().Equal(src.Source()))
	//the structural state is copied
	copied.Coords[0].Set(0, 0, -5)
	assert.Equal(Te, 0.0, src.Coords[0].At(0, 0))

	//an explicit reference wins over the inherited one
	other, err := NewTopModel(TopConfig{ModelConfig: ModelConfig{Source: src}, TopPath: "other.psf"})
	require.NoError(Te, err)
	assert.Equal(Te, "other.psf", other.TopFile().Path())

	//a plain structural model has nothing to inherit
	plain, err := NewPDBModel(ModelConfig{Source: src})
	require.NoError(Te, err)
	fromplain, err := NewTopModel(TopConfig{ModelConfig: ModelConfig{Source: plain}})
	require.NoError(Te, err)
	assert.Nil(Te, fromplain.TopFile())
}

func TestNewTopModelErrors(Te *testing.T) {
	_, err := NewTopModel(TopConfig{TopPath: "x.psf"})
	require.Error(Te, err)
	_, errbase := NewPDBModel(ModelConfig{})
	//errors from the base constructor are not translated
	assert.Equal(Te, errbase.Error(), err.Error())
	var cerr *CError
	assert.ErrorAs(Te, err, &cerr)

	var nilsrc *TopModel
	_, err = NewTopModel(TopConfig{ModelConfig: ModelConfig{Source: nilsrc}})
	require.Error(Te, err)
}

func TestTopModelVersion(Te *testing.T) {
	m := newTopModel(Te, "1cpx.pdb", complexPDB, "x.psf")
	v := m.Version()
	assert.True(Te, strings.HasSuffix(v, "; TopModel "+TopModelRevision), v)
	assert.True(Te, strings.HasPrefix(v, m.PDBModel.Version()))
	assert.NotEqual(Te, m.PDBModel.Version(), v)
	assert.Equal(Te, v, m.InitVersion())
	assert.Equal(Te, v, m.Version())
}

func TestTopModelTake(Te *testing.T) {
	A := newTopModel(Te, "1cpx.pdb", complexPDB, "x.psf")
	D, err := A.Take([]int{0, 1, 2}, nil, nil)
	require.NoError(Te, err)
	assert.Equal(Te, "x.psf", D.TopFile().Path())
	assert.Same(Te, A.TopFile(), D.TopFile())
	assert.Equal(Te, A.InitVersion(), D.InitVersion())
	//the structure is exactly what the base Take gives
	base, err := A.PDBModel.Take([]int{0, 1, 2}, nil, nil)
	require.NoError(Te, err)
	if diff := cmp.Diff(base.Atoms, D.Atoms); diff != "" {
		Te.Errorf("atoms differ (-base +topmodel):\n%s", diff)
	}
	assert.Equal(Te, base.Xyz().RawMatrix().Data, D.Xyz().RawMatrix().Data)
	assert.Equal(Te, base.ResIndex(), D.ResIndex())

	//errors are the base ones
	_, err = A.Take([]int{100}, nil, nil)
	require.Error(Te, err)
	_, errbase := A.PDBModel.Take([]int{100}, nil, nil)
	assert.Equal(Te, errbase.Error(), err.Error())

	//a stamp set before a revision change survives derivations
	old := RestoreTopModel(A.PDBModel, A.TopFile(), "PDBModel 0.1; TopModel 0.1")
	derived, err := old.Take([]int{3, 4}, nil, nil)
	require.NoError(Te, err)
	assert.Equal(Te, "PDBModel 0.1; TopModel 0.1", derived.InitVersion())
	assert.NotEqual(Te, derived.InitVersion(), derived.Version())
}

func TestTopModelConcat(Te *testing.T) {
	logs := captureLog(Te)
	A := newTopModel(Te, "rec.pdb", complexPDB, "rec.psf")
	B := newTopModel(Te, "lig.pdb", complexPDB, "lig.psf")
	C, err := A.Concat(B)
	require.NoError(Te, err)
	assert.Equal(Te, "rec.psf", C.TopFile().Path())
	assert.Equal(Te, A.InitVersion(), C.InitVersion())
	assert.Equal(Te, A.Len()+B.Len(), C.Len())
	assert.Equal(Te, A.Code(), C.Code())
	assert.Contains(Te, logs.String(), "lig.psf")

	//receiver without reference: the operand's is still discarded
	none := newTopModel(Te, "none.pdb", complexPDB, "")
	C2, err := none.Concat(B, A)
	require.NoError(Te, err)
	assert.Nil(Te, C2.TopFile())
	assert.Equal(Te, 3*A.Len(), C2.Len())

	//plain models and same references are fine, and not logged
	logs.Reset()
	same := newTopModel(Te, "same.pdb", complexPDB, "./rec.psf")
	C3, err := A.Concat(same, A.PDBModel)
	require.NoError(Te, err)
	assert.Same(Te, A.TopFile(), C3.TopFile())
	assert.Empty(Te, logs.String())

	//errors from the base are returned
	twoframes := newTopModel(Te, "lig2.pdb", ligandPDB, "lig.psf")
	_, err = A.Concat(twoframes)
	require.Error(Te, err)
}

func TestTopModelDerived(Te *testing.T) {
	A := newTopModel(Te, "1cpx.pdb", complexPDB, "x.psf")
	check := func(name string, m *TopModel, err error) {
		Te.Helper()
		require.NoError(Te, err, name)
		assert.Same(Te, A.TopFile(), m.TopFile(), name)
		assert.Equal(Te, A.InitVersion(), m.InitVersion(), name)
	}
	c, err := A.Compress(A.MaskCA())
	check("Compress", c, err)
	check("Clone", A.Clone(), nil)
	mv := RestoreTopModel(moved(A.PDBModel), A.TopFile(), A.InitVersion())
	f, err := mv.Fit(A, nil)
	check("Fit", f, err)
	rms, err := f.RMS(A, nil, false)
	require.NoError(Te, err)
	assert.InDelta(Te, 0, rms, 1e-6)
	mf, err := mv.MagicFit(A)
	check("MagicFit", mf, err)
	//chained derivations
	chained, err := c.Concat(A)
	require.NoError(Te, err)
	chained, err = chained.Take([]int{0, 1}, nil, nil)
	check("chained", chained, err)

	_, err = A.Compress(nil)
	require.Error(Te, err)
	assert.Panics(Te, func() { RestoreTopModel(nil, nil, "") })
}

func TestTopModelAsModeler(Te *testing.T) {
	var nilm *TopModel
	assert.Nil(Te, nilm.Model())
	assert.Nil(Te, nilm.TopFile())
	A := newTopModel(Te, "1cpx.pdb", complexPDB, "x.psf")
	var m Modeler = A
	assert.Same(Te, A.PDBModel, m.Model())
	tf, ok := m.(TopFiler)
	require.True(Te, ok)
	assert.Same(Te, A.TopFile(), tf.TopFile())
}
