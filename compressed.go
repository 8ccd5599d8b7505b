/*
 * compressed.go, part of topmodel
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
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

//Why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

// Close closes the object. It can not be used after this call
func (s zstdql) Close() error {
	s.closeql()
	return nil
}

// fileReader wraps a decompressing reader and the file under it, so
// closing it closes both.
type fileReader struct {
	io.Reader
	closers []io.Closer
}

func (f *fileReader) Close() error {
	var err error
	for _, c := range f.closers {
		if err2 := c.Close(); err2 != nil && err == nil {
			err = err2
		}
	}
	return err
}

// trimCompression returns name without a .gz or .zst suffix, and the
// compression format, if any ('z' for gzip, 's' for zstd, 0 for none).
func trimCompression(name string) (string, byte) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return strings.TrimSuffix(name, ".gz"), 'z'
	case strings.HasSuffix(name, ".zst"):
		return strings.TrimSuffix(name, ".zst"), 's'
	}
	return name, 0
}

// openStructure opens the file name for reading, decompressing it on the fly
// if its name ends with .gz (gzip) or .zst (zstd).
func openStructure(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, wrapCError("openStructure", err)
	}
	_, format := trimCompression(name)
	switch format {
	case 'z':
		r, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, wrapCError("openStructure", err)
		}
		return &fileReader{r, []io.Closer{r, f}}, nil
	case 's':
		r, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, wrapCError("openStructure", err)
		}
		return &fileReader{r, []io.Closer{zstdql{r.Close, r}, f}}, nil
	}
	return f, nil
}

// createStructure creates the file name for writing, compressing the output
// if its name ends with .gz (gzip) or .zst (zstd).
func createStructure(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, wrapCError("createStructure", err)
	}
	_, format := trimCompression(name)
	switch format {
	case 'z':
		w := gzip.NewWriter(f)
		return &fileWriter{w, []io.Closer{w, f}}, nil
	case 's':
		w, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, wrapCError("createStructure", err)
		}
		return &fileWriter{w, []io.Closer{w, f}}, nil
	}
	return f, nil
}

// fileWriter is the writing counterpart of fileReader. The compressor is
// closed (and flushed) before the file.
type fileWriter struct {
	io.Writer
	closers []io.Closer
}

func (f *fileWriter) Close() error {
	var err error
	for _, c := range f.closers {
		if err2 := c.Close(); err2 != nil && err == nil {
			err = err2
		}
	}
	return err
}
