package pdf

import "reflect"

// Converter implements one entry in the Converter Registry (spec.md §4.D): a
// rule for coercing a raw Object read from a dictionary into the shape a
// field's Go type expects, and the reverse direction is handled by the field
// simply storing a value that already satisfies UsableFor.
//
// Dispatch is first-match: converterFor walks DefaultConverters in order and
// binds the first entry whose UsableFor reports true for the field's
// canonical type tag. A converter registered earlier always wins, even when
// a later converter could also claim the tag.
type Converter interface {
	// UsableFor reports whether this converter is the one responsible for
	// coercing fields declared with the given canonical type tag.
	UsableFor(t TypeTag) bool

	// AdditionalTypes lists extra type tags a field should accept on top of
	// its declared one, because this converter's input can legitimately
	// arrive in more than one raw shape (e.g. a Filespec field also accepts
	// a bare String).
	AdditionalTypes() []TypeTag

	// ConvertNeeded reports whether data, as already resolved from the
	// dictionary, requires this converter's coercion. A value that already
	// has the canonical shape should not be re-converted.
	ConvertNeeded(data Object, types []TypeTag) bool

	// Convert performs the coercion, given the document for context
	// (type-map resolution, wrapping into typed dictionaries).
	Convert(data Object, types []TypeTag, doc *Document) (Object, error)
}

// DefaultConverters is the canonical Converter Registry order from spec.md
// §4.D. Earlier entries take priority during dispatch.
var DefaultConverters = []Converter{
	FileSpecificationConverter{},
	DictionaryConverter{},
	StringConverter{},
	PDFByteStringConverter{},
	DateConverter{},
	RectangleConverter{},
	LanguageConverter{},
	identityConverter{},
}

// identityConverter is the registry's fallback: it never claims a type tag
// during dispatch (converterFor only reaches for it when nothing else
// matched) and its Convert simply returns the value unchanged.
type identityConverter struct{}

func (identityConverter) UsableFor(TypeTag) bool                  { return false }
func (identityConverter) AdditionalTypes() []TypeTag              { return nil }
func (identityConverter) ConvertNeeded(Object, []TypeTag) bool    { return false }
func (identityConverter) Convert(data Object, _ []TypeTag, _ *Document) (Object, error) {
	return data, nil
}

// DictionaryConverter wraps a raw Dict or *Stream into the typed-dictionary
// struct (a TypedDict implementor) declared for the field, via Document.Wrap.
// It deliberately does not claim Rectangle's type tag: Rectangle is a plain
// value struct, not dictionary-shaped, and is handled by RectangleConverter
// instead.
type DictionaryConverter struct{}

func (DictionaryConverter) UsableFor(t TypeTag) bool {
	if t.Class == nil {
		return false
	}
	if t.Class.Kind() != reflect.Struct {
		return false
	}
	return implementsTypedDict(t.Class)
}

func implementsTypedDict(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(reflect.TypeOf((*TypedDict)(nil)).Elem())
}

func (DictionaryConverter) AdditionalTypes() []TypeTag { return nil }

func (DictionaryConverter) ConvertNeeded(data Object, types []TypeTag) bool {
	if _, ok := data.(*Wrapper); ok {
		return false
	}
	switch data.(type) {
	case Dict, *Stream, nil:
		return true
	}
	return false
}

func (DictionaryConverter) Convert(data Object, types []TypeTag, doc *Document) (Object, error) {
	var class reflect.Type
	for _, t := range types {
		if t.Class != nil && t.Class.Kind() == reflect.Struct && implementsTypedDict(t.Class) {
			class = t.Class
			break
		}
	}
	return doc.Wrap(data, class)
}

// StringConverter decodes a PDF text string (MetaTextString) to a TextString
// (Go string, UTF-8), per spec.md §4.D #3: PDFDocEncoding or UTF-16BE,
// detected from the string's byte content, with a UTF-8 BOM (PDF 2.0)
// recognized on read as well.
type StringConverter struct{}

func (StringConverter) UsableFor(t TypeTag) bool { return t.Tag == MetaTextString }
func (StringConverter) AdditionalTypes() []TypeTag { return nil }

func (StringConverter) ConvertNeeded(data Object, _ []TypeTag) bool {
	switch data.(type) {
	case TextString:
		return false
	case String:
		return true
	}
	return false
}

func (StringConverter) Convert(data Object, _ []TypeTag, _ *Document) (Object, error) {
	s, ok := data.(String)
	if !ok {
		return data, nil
	}
	return TextString(decodeTextString(s)), nil
}

// PDFByteStringConverter leaves a String field's bytes untouched (no
// encoding is assumed), wrapping it as RawString so a caller cannot
// accidentally treat it as a decoded TextString. Declaring a field
// MetaByteString when it is in fact meant to be human-readable text is a
// latent overreach this package only flags via ValidateStruct's diagnostics,
// never refuses outright: a stricter-than-necessary annotation should not
// make an otherwise well-formed document fail to load.
type PDFByteStringConverter struct{}

func (PDFByteStringConverter) UsableFor(t TypeTag) bool { return t.Tag == MetaByteString }
func (PDFByteStringConverter) AdditionalTypes() []TypeTag { return nil }

func (PDFByteStringConverter) ConvertNeeded(data Object, _ []TypeTag) bool {
	switch data.(type) {
	case RawString:
		return false
	case String:
		return true
	}
	return false
}

func (PDFByteStringConverter) Convert(data Object, _ []TypeTag, _ *Document) (Object, error) {
	s, ok := data.(String)
	if !ok {
		return data, nil
	}
	return RawString(append(RawString(nil), s...)), nil
}

// DateConverter parses a PDF date string ("D:YYYYMMDD...") into a Date.
type DateConverter struct{}

func (DateConverter) UsableFor(t TypeTag) bool { return t.Tag == MetaDate }
func (DateConverter) AdditionalTypes() []TypeTag { return nil }

func (DateConverter) ConvertNeeded(data Object, _ []TypeTag) bool {
	switch data.(type) {
	case Date:
		return false
	case String:
		return true
	}
	return false
}

func (DateConverter) Convert(data Object, _ []TypeTag, _ *Document) (Object, error) {
	s, ok := data.(String)
	if !ok {
		return data, nil
	}
	d, err := parseDate(string(s))
	if err != nil {
		return data, &FilterError{Filter: "Date", Err: err}
	}
	return d, nil
}

// RectangleConverter promotes a four-element numeric Array into a Rectangle.
type RectangleConverter struct{}

func (RectangleConverter) UsableFor(t TypeTag) bool {
	return t.Class == reflect.TypeOf(Rectangle{})
}
func (RectangleConverter) AdditionalTypes() []TypeTag {
	return []TypeTag{classTag(Array(nil))}
}

func (RectangleConverter) ConvertNeeded(data Object, _ []TypeTag) bool {
	switch data.(type) {
	case Rectangle:
		return false
	case Array:
		return true
	}
	return false
}

func (RectangleConverter) Convert(data Object, _ []TypeTag, doc *Document) (Object, error) {
	arr, ok := data.(Array)
	if !ok {
		return data, nil
	}
	return asRectangle(doc, arr)
}

// FileSpecificationConverter promotes a bare String (a simple file
// specification, spec.md §4.D #1) into a Filespec wrapper with only its
// UF/F field populated, and defers to DictionaryConverter for the ordinary
// dictionary-shaped case.
type FileSpecificationConverter struct{}

func (FileSpecificationConverter) UsableFor(t TypeTag) bool {
	return t.Class == reflect.TypeOf(Filespec{})
}
func (FileSpecificationConverter) AdditionalTypes() []TypeTag {
	return []TypeTag{classTag(String(nil)), classTag(Dict(nil))}
}

func (FileSpecificationConverter) ConvertNeeded(data Object, _ []TypeTag) bool {
	switch data.(type) {
	case *Wrapper:
		return false
	case String, Dict, *Stream:
		return true
	}
	return false
}

func (FileSpecificationConverter) Convert(data Object, _ []TypeTag, doc *Document) (Object, error) {
	if s, ok := data.(String); ok {
		w, err := doc.Wrap(Dict{
			"Type": Name("Filespec"),
			"F":    s,
			"UF":   TextString(decodeTextString(s)),
		}, reflect.TypeOf(Filespec{}))
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	return doc.Wrap(data, reflect.TypeOf(Filespec{}))
}

// LanguageConverter parses a Name's bytes as a BCP 47 language tag.
type LanguageConverter struct{}

func (LanguageConverter) UsableFor(t TypeTag) bool { return t.Tag == MetaLanguageTag }
func (LanguageConverter) AdditionalTypes() []TypeTag { return nil }

func (LanguageConverter) ConvertNeeded(data Object, _ []TypeTag) bool {
	_, isName := data.(Name)
	return isName
}

func (LanguageConverter) Convert(data Object, _ []TypeTag, _ *Document) (Object, error) {
	n, ok := data.(Name)
	if !ok {
		return data, nil
	}
	tag, err := parseLanguageTag(string(n))
	if err != nil {
		return data, &FilterError{Filter: "Lang", Err: err}
	}
	return tag, nil
}
