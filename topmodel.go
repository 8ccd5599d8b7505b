/*
 * topmodel.go, part of topmodel
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
	"log/slog"
)

// TopModelRevision identifies the revision of the TopModel type. It is appended
// to the version string of the underlying PDBModel.
const TopModelRevision = "1.0"

// TopConfig contains the parameters to build a TopModel.
type TopConfig struct {
	//Parameters for the structural model, passed verbatim to NewPDBModel.
	ModelConfig

	//Reference to the topology file. Used as given if not nil.
	TopFile *FileRef

	//Path to the topology file, used only if TopFile is nil. If both are
	//empty, the reference is inherited from ModelConfig.Source, when
	//the source has one.
	TopPath string
}

// TopModel is a structural model that keeps a reference to the topology file
// (an Xplor PSF or any other force field topology) describing it. The reference
// and the version of the type at creation time are carried by every model derived
// from a TopModel with Take, Concat, Compress, Clone, Fit or MagicFit.
// The topology file itself is never opened.
type TopModel struct {
	*PDBModel
	topFile     *FileRef
	initVersion string
}

// NewTopModel builds a TopModel. Errors from the construction of the structural
// model are returned unchanged.
func NewTopModel(cfg TopConfig) (*TopModel, error) {
	base, err := NewPDBModel(cfg.ModelConfig)
	if err != nil {
		return nil, err
	}
	T := &TopModel{PDBModel: base}
	T.initVersion = T.Version()
	switch {
	case cfg.TopFile != nil:
		T.topFile = cfg.TopFile
	case cfg.TopPath != "":
		T.topFile = NewFileRef(cfg.TopPath)
	default:
		if tf, ok := cfg.Source.(TopFiler); ok {
			T.topFile = tf.TopFile()
		}
	}
	return T, nil
}

// RestoreTopModel builds a TopModel from a structural model and previously
// saved topology reference and creation version. The version is kept as given.
func RestoreTopModel(base *PDBModel, topFile *FileRef, initVersion string) *TopModel {
	if base == nil {
		panic(ErrNilModel)
	}
	return &TopModel{PDBModel: base, topFile: topFile, initVersion: initVersion}
}

// Model returns the structural model of T, or nil if T is nil.
func (T *TopModel) Model() *PDBModel {
	if T == nil {
		return nil
	}
	return T.PDBModel
}

// Version returns a string identifying the revision of the model type.
func (T *TopModel) Version() string {
	return T.PDBModel.Version() + "; TopModel " + TopModelRevision
}

// TopFile returns the reference to the topology file, or nil if there is none.
// The existence of the file is not checked.
func (T *TopModel) TopFile() *FileRef {
	if T == nil {
		return nil
	}
	return T.topFile
}

// InitVersion returns the version of the type at the time the model, or the first
// model it was derived from, was created.
func (T *TopModel) InitVersion() string {
	return T.initVersion
}

// attach returns a TopModel with the structural data of base and the
// topology reference and creation version of T.
func (T *TopModel) attach(base *PDBModel) *TopModel {
	return &TopModel{PDBModel: base, topFile: T.topFile, initVersion: T.initVersion}
}

// Take returns a new TopModel with the atoms in indices. See PDBModel.Take.
func (T *TopModel) Take(indices []int, rindex, cindex []int) (*TopModel, error) {
	base, err := T.PDBModel.Take(indices, rindex, cindex)
	if err != nil {
		return nil, err
	}
	return T.attach(base), nil
}

// Concat returns a new TopModel with the atoms of T followed by those of
// each of the given models. See PDBModel.Concat. The result always keeps the
// topology reference and creation version of T. The references of the other
// models are discarded.
func (T *TopModel) Concat(models ...Modeler) (*TopModel, error) {
	base, err := T.PDBModel.Concat(models...)
	if err != nil {
		return nil, err
	}
	for i, m := range models {
		tf, ok := m.(TopFiler)
		if !ok {
			continue
		}
		if other := tf.TopFile(); other != nil && !other.Equal(T.topFile) {
			slog.Warn("TopModel.Concat: topology file of operand discarded", "operand", i+1, "discarded", other.String(), "kept", T.topFile.String())
		}
	}
	return T.attach(base), nil
}

// Compress returns a new TopModel with the atoms for which mask is true.
func (T *TopModel) Compress(mask []bool) (*TopModel, error) {
	base, err := T.PDBModel.Compress(mask)
	if err != nil {
		return nil, err
	}
	return T.attach(base), nil
}

// Clone returns a deep copy of T.
func (T *TopModel) Clone() *TopModel {
	return T.attach(T.PDBModel.Clone())
}

// Fit returns a copy of T superimposed on ref. See PDBModel.Fit.
func (T *TopModel) Fit(ref Modeler, mask []bool) (*TopModel, error) {
	base, err := T.PDBModel.Fit(ref, mask)
	if err != nil {
		return nil, err
	}
	return T.attach(base), nil
}

// MagicFit returns a copy of T superimposed on ref using equivalent atoms. See PDBModel.MagicFit.
func (T *TopModel) MagicFit(ref Modeler) (*TopModel, error) {
	base, err := T.PDBModel.MagicFit(ref)
	if err != nil {
		return nil, err
	}
	return T.attach(base), nil
}
