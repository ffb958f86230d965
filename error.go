// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdf

import (
	"errors"
	"fmt"
)

var (
	errNoDate      = errors.New("not a valid date string")
	errNoRectangle = errors.New("not a valid PDF rectangle")
	errEmptyTypes  = errors.New("field schema has no allowed types")
)

// MalformedFileError indicates that an object read from the document table
// could not be interpreted in the shape the caller requested.
type MalformedFileError struct {
	Err error
	Loc []string
}

func (err *MalformedFileError) Error() string {
	msg := "malformed PDF object"
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	for _, loc := range err.Loc {
		msg += " (in " + loc + ")"
	}
	return msg
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// TypeMismatch is returned when SetKey or field validation rejects a value
// whose runtime type is outside a field's allowed type set.
type TypeMismatch struct {
	Field string
	Got   Object
	Want  []TypeTag
}

func (err *TypeMismatch) Error() string {
	return fmt.Sprintf("pdf: field %q: got %T, want one of %v", err.Field, err.Got, err.Want)
}

// UnresolvableReference is returned only by StrictDeref, when a reference
// does not resolve to a live object. Ordinary Deref never returns this: a
// dangling reference reads as Null.
type UnresolvableReference struct {
	Ref Reference
}

func (err *UnresolvableReference) Error() string {
	return fmt.Sprintf("pdf: reference %d %d R does not resolve to an object",
		err.Ref.Number(), err.Ref.Generation())
}

// FilterError reports a codec failure in the streaming filter pipeline. It
// is returned from a Producer's Resume method, and leaves the producer
// permanently in the Errored state.
type FilterError struct {
	Filter Name
	Err    error
}

func (err *FilterError) Error() string {
	return fmt.Sprintf("pdf: problem while decoding %s encoded stream: %s", err.Filter, err.Err)
}

func (err *FilterError) Unwrap() error {
	return err.Err
}

// VersionConflict is returned when writing a field whose MinVersion exceeds
// the document's pinned version and auto-upgrade has been disabled.
type VersionConflict struct {
	Field       string
	MinVersion  Version
	HaveVersion Version
}

func (err *VersionConflict) Error() string {
	return fmt.Sprintf("pdf: field %q requires PDF version %s or later, document is pinned to %s",
		err.Field, err.MinVersion, err.HaveVersion)
}
