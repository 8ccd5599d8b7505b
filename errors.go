/*
 * errors.go, part of topmodel
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
	"errors"
	"fmt"
)

// CError (Chemical error) is the basic error type for the chem package.
type CError struct {
	msg      string
	deco     []string
	critical bool
	err      error //the underlying error, if any
}

// Error returns the error message, preceded by the functions that decorated it.
func (err *CError) Error() string {
	if len(err.deco) == 0 {
		return err.msg
	}
	return fmt.Sprintf("%s: %s", err.deco[0], err.msg)
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored.
func (err *CError) Critical() bool { return err.critical }

// Unwrap returns the error that caused this one, if any.
func (err *CError) Unwrap() error { return err.err }

// newCError builds a critical *CError with the given message, decorated with caller.
func newCError(caller, format string, a ...any) *CError {
	err := &CError{msg: fmt.Sprintf(format, a...), critical: true}
	err.Decorate(caller)
	return err
}

// wrapCError wraps an error from outside the package into a *CError decorated with caller.
func wrapCError(caller string, err error) *CError {
	ret := &CError{msg: err.Error(), critical: true, err: err}
	ret.Decorate(caller)
	return ret
}

// errDecorate decorates err with the caller's name before returning it, if the error
// implements Error. Other errors are returned untouched.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var err2 Error
	if errors.As(err, &err2) {
		err2.Decorate(caller)
	}
	return err
}

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use CError.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilModel       = PanicMsg("topmodel: Given a nil model")
	ErrAtomOutOfRange = PanicMsg("topmodel: Requested atom out of range")
	ErrCorrupted      = PanicMsg("topmodel: Inconsistent atoms/coordinates in molecule")
	ErrNilAtom        = PanicMsg("topmodel: Attempted to copy from or to a nil Atom")
	ErrMaskLength     = PanicMsg("topmodel: Masks of different lengths")
)
