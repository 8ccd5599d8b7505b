/*
 * dump.go, part of topmodel
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

package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	chem "github.com/rmera/topmodel"
	v3 "github.com/rmera/topmodel/v3"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is the version of the record layout written by Save.
const Format = 1

// record is what goes in a dump file.
type record struct {
	Format      int          `msgpack:"format"`
	Code        string       `msgpack:"code"`
	Source      string       `msgpack:"source,omitempty"`
	TopFile     string       `msgpack:"topfile,omitempty"`
	InitVersion string       `msgpack:"initversion"`
	Charge      int          `msgpack:"charge"`
	Multi       int          `msgpack:"multi"`
	Atoms       []*chem.Atom `msgpack:"atoms"`
	Coords      [][]float64  `msgpack:"coords"` //one slice of 3*len(Atoms) values per frame
	Bfactors    [][]float64  `msgpack:"bfactors,omitempty"`
	ResIndex    []int        `msgpack:"resindex"`
	ChainIndex  []int        `msgpack:"chainindex"`
}

// Save writes m to w.
func Save(w io.Writer, m *chem.TopModel) error {
	if m == nil || m.PDBModel == nil {
		return &Error{message: "Given a nil model", deco: []string{"Save"}, critical: true}
	}
	rec := &record{
		Format:      Format,
		Code:        m.Code(),
		Source:      m.Source().Path(),
		TopFile:     m.TopFile().Path(),
		InitVersion: m.InitVersion(),
		Charge:      m.Charge(),
		Multi:       m.Multi(),
		Atoms:       m.Atoms,
		Coords:      make([][]float64, 0, m.LenFrames()),
		Bfactors:    m.Bfactors,
		ResIndex:    m.ResIndex(),
		ChainIndex:  m.ChainIndex(),
	}
	for _, c := range m.Coords {
		rec.Coords = append(rec.Coords, rawCoords(c))
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return wrapError("Save", "", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(rec); err != nil {
		zw.Close()
		return wrapError("Save", "", err)
	}
	if err := zw.Close(); err != nil {
		return wrapError("Save", "", err)
	}
	return nil
}

// rawCoords returns the coordinates in c, row after row.
func rawCoords(c *v3.Matrix) []float64 {
	ret := make([]float64, 0, 3*c.NVecs())
	for i := 0; i < c.NVecs(); i++ {
		ret = append(ret, c.RawRowView(i)...)
	}
	return ret
}

// Load reads a model written by Save from r. The topology file reference and the
// creation version are restored as they were saved.
func Load(r io.Reader) (*chem.TopModel, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, wrapError("Load", "", err)
	}
	defer zr.Close()
	rec := new(record)
	if err := msgpack.NewDecoder(zr).Decode(rec); err != nil {
		return nil, wrapError("Load", "", err)
	}
	if rec.Format != Format {
		return nil, &Error{message: fmt.Sprintf("Unknown format %d, expected %d", rec.Format, Format), deco: []string{"Load"}, critical: true}
	}
	coords := make([]*v3.Matrix, 0, len(rec.Coords))
	for i, c := range rec.Coords {
		m, err := v3.NewMatrix(c)
		if err != nil {
			return nil, wrapError("Load", "", fmt.Errorf("frame %d: %w", i, err))
		}
		coords = append(coords, m)
	}
	mol, err := chem.NewMolecule(coords, chem.NewTopology(rec.Charge, rec.Multi, rec.Atoms), rec.Bfactors)
	if err != nil {
		return nil, wrapError("Load", "", err)
	}
	base, err := chem.RestorePDBModel(mol, fileRef(rec.Source), rec.Code, rec.ResIndex, rec.ChainIndex)
	if err != nil {
		return nil, wrapError("Load", "", err)
	}
	return chem.RestoreTopModel(base, fileRef(rec.TopFile), rec.InitVersion), nil
}

// SaveFile writes m to a new file with the given name.
func SaveFile(name string, m *chem.TopModel) error {
	f, err := os.Create(name)
	if err != nil {
		return wrapError("SaveFile", name, err)
	}
	w := bufio.NewWriter(f)
	err = Save(w, m)
	if err == nil {
		err = w.Flush()
	}
	if err2 := f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return wrapError("SaveFile", name, err)
	}
	return nil
}

// LoadFile reads a model from the file with the given name.
func LoadFile(name string) (*chem.TopModel, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, wrapError("LoadFile", name, err)
	}
	defer f.Close()
	m, err := Load(bufio.NewReader(f))
	if err != nil {
		return nil, wrapError("LoadFile", name, err)
	}
	return m, nil
}

func fileRef(path string) *chem.FileRef {
	if path == "" {
		return nil
	}
	return chem.NewFileRef(path)
}

//Errors

// Error is the general structure for dump errors. It fullfills chem.Error.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
	err      error
}

func (err *Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("dump error: %s", err.message)
	}
	return fmt.Sprintf("dump file %s error: %s", err.filename, err.message)
}

// Decorate Adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file associated to the error
func (err *Error) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

// Unwrap returns the error that caused this one, if any.
func (err *Error) Unwrap() error { return err.err }

// wrapError wraps err in an *Error. If err already is one, it is only decorated,
// and given the file name if it had none.
func wrapError(caller, filename string, err error) error {
	if e, ok := err.(*Error); ok {
		if e.filename == "" {
			e.filename = filename
		}
		e.Decorate(caller)
		return e
	}
	return &Error{message: err.Error(), filename: filename, deco: []string{caller}, critical: true, err: err}
}

