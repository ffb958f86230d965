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

// This file contains the composite field types layered on top of the
// elementary Object types from value.go: text strings, dates, rectangles
// and byte strings, plus the Info dictionary built from them.

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
	"unicode/utf16"

	"golang.org/x/text/language"
)

// A Number is either an Integer or a Real.
type Number float64

// GetNumber reads a numeric value, resolving indirect references and
// requiring the result to be an Integer or a Real.
func GetNumber(r Getter, obj Object) (Number, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case Integer:
		return Number(x), nil
	case Real:
		return Number(x), nil
	case nil:
		return 0, nil
	default:
		return 0, &MalformedFileError{
			Err: fmt.Errorf("expected Number but got %T", obj),
		}
	}
}

// AsPDF implements the Object interface.
func (x Number) AsPDF(opt OutputOptions) Native {
	if i := Integer(x); Number(i) == x {
		return i
	}
	return Real(x)
}

// TextString is a Go string decoded from a PDF text string, per the
// StringConverter (MetaTextString, spec.md §4.D #3): UTF-8, regardless of
// which of PDFDocEncoding/UTF-16BE/UTF-8-with-BOM the underlying String
// object used on the wire.
type TextString string

var utf16Marker = []byte{254, 255}
var utf8Marker = []byte{239, 187, 191}

// AsPDF encodes s as a PDF text string, preferring PDFDocEncoding (the
// smallest representation), then UTF-8-with-BOM if the caller opted in via
// OptTextStringUtf8, then falling back to UTF-16BE-with-BOM.
func (s TextString) AsPDF(opt OutputOptions) Native {
	if buf, ok := PDFDocEncode(string(s)); ok {
		return buf
	}
	if opt.HasAny(OptTextStringUtf8) {
		obj := make(String, 0, 3+len(s))
		obj = append(obj, utf8Marker...)
		obj = append(obj, []byte(s)...)
		return obj
	}
	return encodeUTF16BE(string(s))
}

func encodeUTF16BE(s string) String {
	buf := utf16.Encode([]rune(s))
	out := make(String, 0, 2*len(buf)+2)
	out = append(out, utf16Marker...)
	for _, x := range buf {
		out = append(out, byte(x>>8), byte(x))
	}
	return out
}

func utf16DecodeBE(b []byte) string {
	buf := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		buf = append(buf, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(buf))
}

func (x TextString) isObject() {}
func (x TextString) isNative() {}

// decodeTextString decodes a raw PDF String according to its BOM, falling
// back to PDFDocEncoding when no BOM is present (spec.md §4.D #3).
func decodeTextString(x String) string {
	b := []byte(x)
	switch {
	case hasPrefix(b, utf16Marker):
		return utf16DecodeBE(b[2:])
	case hasPrefix(b, utf8Marker):
		return string(b[3:])
	default:
		return PDFDocDecode(x)
	}
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i, c := range prefix {
		if b[i] != c {
			return false
		}
	}
	return true
}

// Date is a PDF date value, stored as a time.Time.
type Date time.Time

// Now returns the current date and time as a Date.
func Now() Date {
	return Date(time.Now())
}

func (d Date) String() string {
	return time.Time(d).Format(time.RFC3339)
}

func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d Date) Equal(other Date) bool {
	return time.Time(d).Equal(time.Time(other))
}

func (Date) isObject() {}
func (Date) isNative() {}

// AsPDF renders d as a PDF date string: "D:YYYYMMDDHHmmSS+HH'mm'".
func (d Date) AsPDF(opt OutputOptions) Native {
	s := time.Time(d).Format("D:20060102150405-0700")
	k := len(s) - 2
	s = s[:k] + "'" + s[k:] + "'"
	return String(s)
}

// parseDate parses a PDF date string. An empty or bare "D:" string parses
// to the zero Date without error (spec.md §8 "Dates").
func parseDate(raw string) (Date, error) {
	var zero Date

	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "'", "")
	if s == "D:" || s == "" {
		return zero, nil
	}
	if strings.HasPrefix(s, "19") || strings.HasPrefix(s, "20") {
		s = "D:" + s
	}

	formats := []string{
		"D:20060102150405-0700",
		"D:20060102150405-07",
		"D:20060102150405Z0000",
		"D:20060102150405Z00",
		"D:20060102150405Z",
		"D:20060102150405",
		"D:200601021504-0700",
		"D:200601021504-07",
		"D:200601021504Z0000",
		"D:200601021504Z00",
		"D:200601021504Z",
		"D:200601021504",
		"D:2006010215",
		"D:20060102",
		"D:200601",
		"D:2006",
		time.ANSIC,
	}
	for _, format := range formats {
		t, err := time.Parse(format, s)
		if err == nil {
			t = t.Truncate(time.Second)
			return Date(t), nil
		}
	}
	return zero, errNoDate
}

// RawString is an opaque byte string: the PDFByteStringConverter's result
// type (MetaByteString, spec.md §4.D #4). Unlike TextString, its bytes are
// never interpreted as text.
type RawString []byte

func (x RawString) AsPDF(OutputOptions) Native { return String(x) }
func (RawString) isObject()                    {}
func (RawString) isNative()                    {}

// Rectangle represents a PDF rectangle, normalized so LLx<=URx, LLy<=URy.
type Rectangle struct {
	LLx, LLy, URx, URy float64
}

func (Rectangle) isObject() {}
func (Rectangle) isNative() {}

// Dx returns the width of the rectangle.
func (r Rectangle) Dx() float64 { return r.URx - r.LLx }

// Dy returns the height of the rectangle.
func (r Rectangle) Dy() float64 { return r.URy - r.LLy }

// GetRectangle resolves references and ensures the result is a rectangle.
// If the object is null, the zero Rectangle is returned.
func GetRectangle(r Getter, obj Object) (Rectangle, error) {
	if rect, ok := obj.(Rectangle); ok {
		return rect, nil
	}
	a, err := GetArray(r, obj)
	if err != nil || a == nil {
		return Rectangle{}, err
	}
	return asRectangle(r, a)
}

// asRectangle converts a 4-element numeric array into a normalized
// Rectangle.
func asRectangle(r Getter, a Array) (Rectangle, error) {
	if len(a) != 4 {
		return Rectangle{}, errNoRectangle
	}
	values, err := GetFloatArray(r, a)
	if err != nil {
		return Rectangle{}, err
	}
	if len(values) != 4 {
		return Rectangle{}, errNoRectangle
	}
	return Rectangle{
		LLx: math.Min(values[0], values[2]),
		LLy: math.Min(values[1], values[3]),
		URx: math.Max(values[0], values[2]),
		URy: math.Max(values[1], values[3]),
	}, nil
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", r.LLx, r.LLy, r.URx, r.URy)
}

func (r Rectangle) AsPDF(opt OutputOptions) Native {
	res := make(Array, 4)
	for i, x := range []float64{r.LLx, r.LLy, r.URx, r.URy} {
		res[i] = Number(x).AsPDF(opt)
	}
	return res
}

// IsZero reports whether r is the zero rectangle.
func (r Rectangle) IsZero() bool {
	return r.LLx == 0 && r.LLy == 0 && r.URx == 0 && r.URy == 0
}

// Equal reports whether two rectangles have identical coordinates.
func (r Rectangle) Equal(other Rectangle) bool {
	return r.LLx == other.LLx && r.LLy == other.LLy &&
		r.URx == other.URx && r.URy == other.URy
}

// NearlyEqual reports whether the corner coordinates of two rectangles
// differ by less than eps.
func (r Rectangle) NearlyEqual(other Rectangle, eps float64) bool {
	return math.Abs(r.LLx-other.LLx) < eps &&
		math.Abs(r.LLy-other.LLy) < eps &&
		math.Abs(r.URx-other.URx) < eps &&
		math.Abs(r.URy-other.URy) < eps
}

// Extend enlarges r in place to also cover other.
func (r *Rectangle) Extend(other Rectangle) {
	if other.IsZero() {
		return
	}
	if r.IsZero() {
		*r = other
		return
	}
	if other.LLx < r.LLx {
		r.LLx = other.LLx
	}
	if other.LLy < r.LLy {
		r.LLy = other.LLy
	}
	if other.URx > r.URx {
		r.URx = other.URx
	}
	if other.URy > r.URy {
		r.URy = other.URy
	}
}

// Round rounds the corner coordinates to the given number of decimal
// places and returns the result.
func (r Rectangle) Round(digits int) Rectangle {
	return Rectangle{
		LLx: roundTo(r.LLx, digits),
		LLy: roundTo(r.LLy, digits),
		URx: roundTo(r.URx, digits),
		URy: roundTo(r.URy, digits),
	}
}

func roundTo(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}

// LanguageTag is a BCP 47 language tag (Catalog.Lang, spec.md's
// "LanguageTag" meta type), backed by golang.org/x/text/language.
type LanguageTag language.Tag

func (t LanguageTag) String() string { return language.Tag(t).String() }

func (t LanguageTag) AsPDF(OutputOptions) Native { return Name(t.String()) }
func (LanguageTag) isObject()                    {}
func (LanguageTag) isNative()                    {}

var languageTagType = reflect.TypeOf(LanguageTag{})

func isLanguageTagType(t reflect.Type) bool {
	return t == languageTagType
}

func parseLanguageTag(s string) (LanguageTag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return LanguageTag{}, err
	}
	return LanguageTag(tag), nil
}

// Info represents a PDF Document Information Dictionary. All fields are
// optional (PDF 32000-1:2008, section 14.3.3).
type Info struct {
	Title    TextString `pdf:"optional"`
	Author   TextString `pdf:"optional"`
	Subject  TextString `pdf:"optional"`
	Keywords TextString `pdf:"optional"`

	// Creator names the application that created the original document, if
	// it was converted to PDF from another format.
	Creator TextString `pdf:"optional"`

	// Producer names the application that performed the conversion to PDF.
	Producer TextString `pdf:"optional"`

	CreationDate Date `pdf:"optional"`
	ModDate      Date `pdf:"optional"`

	// Trapped records whether the document has been trapped: "True",
	// "False", or "Unknown" (the default).
	Trapped Name `pdf:"optional,allowstring"`

	// Custom holds non-standard Info dictionary entries.
	Custom map[string]string `pdf:"extra"`
}

func (Info) isTypedDict() {}
