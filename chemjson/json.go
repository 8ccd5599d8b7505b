/*
 * json.go, part of topmodel
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

package chemjson

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	chem "github.com/rmera/topmodel"
	v3 "github.com/rmera/topmodel/v3"
)

// Header is the first line of a serialized model. It describes what follows.
type Header struct {
	Code        string
	Source      string //empty if the model has no source file
	TopFile     string //empty if the model has no topology file
	InitVersion string
	Atoms       int
	Frames      int
	Charge      int
	Multi       int
	Bfactors    bool //are there b-factor lines after the coordinates?
	ResIndex    []int
	ChainIndex  []int
}

// Coords is a ready-to-serialize container for the coordinates of one atom.
type Coords struct {
	Coords []float64
}

// Bfactors is a ready-to-serialize container for the b-factors of one frame.
type Bfactors struct {
	Bfactors []float64
}

// An easily JSON-serializable error type,
type Error struct {
	deco          []string
	IsError       bool //If this is false (no error) all the other fields will be at their zero-values.
	InProcess     bool
	InPostProcess bool   //was it in preparing the output?
	Line          int    //the line of the stream where the error happened, if reading.
	Function      string //which go function gave the error
	Message       string //the error itself
}

// Error implements the error interface
func (J *Error) Error() string {
	return J.Function + ": " + J.Message
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (J *Error) Decorate(dec string) []string {
	if dec == "" {
		return J.deco
	}
	J.deco = append(J.deco, dec)
	return J.deco
}

// Marshal serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - "))
	}
	return ret
}

// NewError takes an error and some additional info to create a json-marshal-ble error
func NewError(where, function string, err error) *Error {
	jerr := new(Error)
	jerr.IsError = true
	switch where {
	case "postprocess":
		jerr.InPostProcess = true
	default:
		jerr.InProcess = true
	}
	jerr.Function = function
	jerr.Message = err.Error()
	return jerr
}

// lineError is NewError for errors while reading, with the line number.
func lineError(function string, line int, err error) *Error {
	jerr := NewError("process", function, err)
	jerr.Line = line
	return jerr
}

// EncodeModel writes m to out: a Header line, one line per atom, one coordinates line
// per atom for each frame, and, if the model has them, one b-factors line per frame.
func EncodeModel(out io.Writer, m *chem.TopModel) error {
	const funcname = "EncodeModel"
	if m == nil || m.PDBModel == nil {
		return NewError("postprocess", funcname, fmt.Errorf("nil model"))
	}
	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	h := &Header{
		Code:        m.Code(),
		Source:      m.Source().Path(),
		TopFile:     m.TopFile().Path(),
		InitVersion: m.InitVersion(),
		Atoms:       m.Len(),
		Frames:      m.LenFrames(),
		Charge:      m.Charge(),
		Multi:       m.Multi(),
		Bfactors:    m.Bfactors != nil,
		ResIndex:    m.ResIndex(),
		ChainIndex:  m.ChainIndex(),
	}
	if err := enc.Encode(h); err != nil {
		return NewError("postprocess", funcname+"(header)", err)
	}
	if err := EncodeAtoms(m, enc); err != nil {
		return err
	}
	for _, coords := range m.Coords {
		if err := EncodeCoords(coords, enc); err != nil {
			return err
		}
	}
	if m.Bfactors != nil {
		jb := new(Bfactors)
		for _, b := range m.Bfactors {
			jb.Bfactors = b
			if err := enc.Encode(jb); err != nil {
				return NewError("postprocess", funcname+"(bfactors)", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return NewError("postprocess", funcname, err)
	}
	return nil
}

// EncodeAtoms encodes a chem.Atomer into JSON, one atom per line.
func EncodeAtoms(mol chem.Atomer, enc *json.Encoder) error {
	const funcname = "EncodeAtoms"
	if mol == nil {
		return nil //Its assumed to be intentional.
	}
	for i := 0; i < mol.Len(); i++ {
		if err := enc.Encode(mol.Atom(i)); err != nil {
			return NewError("postprocess", funcname, err)
		}
	}
	return nil
}

// EncodeCoords encodes a set of coordinates into JSON, one point per line.
func EncodeCoords(coords *v3.Matrix, enc *json.Encoder) error {
	c := new(Coords)
	for i := 0; i < coords.NVecs(); i++ {
		c.Coords = coords.RawRowView(i)
		if err := enc.Encode(c); err != nil {
			return NewError("postprocess", "EncodeCoords", err)
		}
	}
	return nil
}

// lineReader reads one line at a time from a bufio.Reader, counting them.
type lineReader struct {
	stream *bufio.Reader
	line   int
}

// next returns the next line. A last line without a newline is fine.
func (r *lineReader) next() ([]byte, error) {
	line, err := r.stream.ReadBytes('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	r.line++
	return line, nil
}

// decode reads the next line into v.
func (r *lineReader) decode(function string, v any) error {
	line, err := r.next()
	if err != nil {
		return lineError(function, r.line+1, err)
	}
	if err := json.Unmarshal(line, v); err != nil {
		return lineError(function, r.line, err)
	}
	return nil
}

// DecodeModel reads a model written by EncodeModel from stream. The topology file reference
// and the creation version are restored as they were saved.
func DecodeModel(stream *bufio.Reader) (*chem.TopModel, error) {
	const funcname = "DecodeModel"
	r := &lineReader{stream: stream}
	h := new(Header)
	if err := r.decode(funcname+"(header)", h); err != nil {
		return nil, err
	}
	if h.Atoms <= 0 || h.Frames <= 0 {
		return nil, lineError(funcname, 1, fmt.Errorf("header announces %d atoms and %d frames", h.Atoms, h.Frames))
	}
	atoms := make([]*chem.Atom, 0, h.Atoms)
	for i := 0; i < h.Atoms; i++ {
		at := new(chem.Atom)
		if err := r.decode(funcname+"(atoms)", at); err != nil {
			return nil, err
		}
		atoms = append(atoms, at)
	}
	coordset := make([]*v3.Matrix, 0, h.Frames)
	for i := 0; i < h.Frames; i++ {
		coords, err := r.decodeCoords(h.Atoms)
		if err != nil {
			return nil, err
		}
		coordset = append(coordset, coords)
	}
	var bfac [][]float64
	if h.Bfactors {
		bfac = make([][]float64, 0, h.Frames)
		jb := new(Bfactors)
		for i := 0; i < h.Frames; i++ {
			jb.Bfactors = nil
			if err := r.decode(funcname+"(bfactors)", jb); err != nil {
				return nil, err
			}
			bfac = append(bfac, jb.Bfactors)
		}
	}
	mol, err := chem.NewMolecule(coordset, chem.NewTopology(h.Charge, h.Multi, atoms), bfac)
	if err != nil {
		return nil, NewError("process", funcname, err)
	}
	base, err := chem.RestorePDBModel(mol, fileRef(h.Source), h.Code, h.ResIndex, h.ChainIndex)
	if err != nil {
		return nil, NewError("process", funcname, err)
	}
	return chem.RestoreTopModel(base, fileRef(h.TopFile), h.InitVersion), nil
}

// DecodeCoords decodes streams from a bufio.Reader containing atomnumber lines with
// 3 JSON floats each into a v3.Matrix with atomnumber rows.
func DecodeCoords(stream *bufio.Reader, atomnumber int) (*v3.Matrix, error) {
	r := &lineReader{stream: stream}
	return r.decodeCoords(atomnumber)
}

func (r *lineReader) decodeCoords(atomnumber int) (*v3.Matrix, error) {
	const funcname = "DecodeCoords"
	rawcoords := make([]float64, 0, 3*atomnumber)
	ctemp := new(Coords)
	for i := 0; i < atomnumber; i++ {
		ctemp.Coords = nil
		if err := r.decode(funcname, ctemp); err != nil {
			return nil, err
		}
		if len(ctemp.Coords) != 3 {
			return nil, lineError(funcname, r.line, fmt.Errorf("%d coordinates for one atom", len(ctemp.Coords)))
		}
		rawcoords = append(rawcoords, ctemp.Coords...)
	}
	coords, err := v3.NewMatrix(rawcoords)
	if err != nil {
		return nil, lineError(funcname, r.line, err)
	}
	return coords, nil
}

func fileRef(path string) *chem.FileRef {
	if path == "" {
		return nil
	}
	return chem.NewFileRef(path)
}
