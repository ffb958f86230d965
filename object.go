package pdf

import "reflect"

// TypedDict is implemented by every typed-dictionary Go struct (Catalog,
// Pages, Page, Filespec, ...). It carries no behaviour; it exists purely so
// the Converter Registry's DictionaryConverter can recognize "a class whose
// ancestry includes the generic typed dictionary" (spec.md §4.D #2) without
// special-casing every concrete struct, and so that Rectangle — a plain
// value struct, not dictionary-shaped — is never mistaken for one.
type TypedDict interface {
	isTypedDict()
}

// Wrapper is the Object Wrapper of spec.md §4.B: a PDF value together with
// its identity (oid), the owning Document, and dirty/deletion bookkeeping.
// Wrapper is itself an Object, so it can be stored back into a Dict/Array
// wherever the wrapped class is expected.
type Wrapper struct {
	ref     Reference // zero means "direct": not independently addressable
	raw     Dict      // the backing, possibly-partially-coerced dictionary
	Typed   any        // the typed-dictionary struct this wrapper decodes into
	Class   reflect.Type
	doc     *Document
	dirty   bool
	deleted bool

	mustBeIndirect bool
}

func (w *Wrapper) AsPDF(opt OutputOptions) Native {
	if w.raw == nil {
		return nil
	}
	return w.raw.AsPDF(opt)
}
func (*Wrapper) isObject() {}
func (*Wrapper) isNative() {}

// OID returns the wrapper's object number and generation. (0, 0) means the
// value is direct (inlined into its container, not independently
// addressable).
func (w *Wrapper) OID() (uint32, uint16) {
	return w.ref.Number(), w.ref.Generation()
}

// Reference returns the Reference this wrapper was read from or assigned
// when added to a Document. It is the zero Reference for direct wrappers.
func (w *Wrapper) Reference() Reference {
	return w.ref
}

// Value returns the raw backing dictionary, before any per-field coercion.
func (w *Wrapper) Value() Object {
	return w.raw
}

// SetValue replaces the wrapper's backing dictionary wholesale and marks it
// dirty. Callers that only need to change one field should use SetKey
// instead, since it goes through schema validation.
func (w *Wrapper) SetValue(v Dict) {
	w.raw = v
	w.dirty = true
}

// Type returns the dictionary's /Type entry if present, otherwise the
// class's declared TypeName.
func (w *Wrapper) Type() Name {
	if w.raw != nil {
		if n, ok := w.raw["Type"].(Name); ok && n != "" {
			return n
		}
	}
	if w.Class != nil {
		return SchemaFor(w.Class).TypeName
	}
	return ""
}

// Key reads a dictionary field by name, performing schema-driven coercion
// (spec.md §4.C read path) when the wrapper's class declares a schema entry
// for it. Absent keys with no default coerce to nil (PDF null). Dangling
// references coerce to nil. A key this class has no schema entry for is
// dereferenced but otherwise returned unconverted.
func (w *Wrapper) Key(name Name) Object {
	v, err := w.keyErr(name)
	if err != nil {
		// Coercion errors during a read never fail the read (spec.md §7):
		// the raw value is what keyErr already leaves in place.
		raw := w.raw[name]
		return w.doc.Deref(raw)
	}
	return v
}

func (w *Wrapper) keyErr(name Name) (Object, error) {
	var schema *ClassSchema
	if w.Class != nil {
		schema = SchemaFor(w.Class)
	}

	var field *Field
	if schema != nil {
		field = schema.byName[name]
	}

	raw, present := w.raw[name]
	if !present {
		if field != nil && field.Default != nil {
			return Clone(field.Default), nil
		}
		return nil, nil
	}

	resolved := w.doc.Deref(raw)
	if field == nil {
		return resolved, nil
	}

	types := resolveFieldTypes(w.doc, field)
	if field.converter != nil && field.converter.ConvertNeeded(resolved, types) {
		converted, err := field.converter.Convert(resolved, types, w.doc)
		if err != nil {
			return resolved, err
		}
		// One-shot memoization: write the coerced value back so repeated
		// reads are idempotent without repeating the coercion work.
		w.raw[name] = converted
		return converted, nil
	}
	return resolved, nil
}

// SetKey validates value against the field's schema (if any) and stores it,
// marking the wrapper dirty. TypeMismatch is returned synchronously; unlike
// the read path, write-path errors are never swallowed.
func (w *Wrapper) SetKey(name Name, value Object) error {
	if w.Class != nil {
		schema := SchemaFor(w.Class)
		if field, ok := schema.byName[name]; ok {
			types := resolveFieldTypes(w.doc, field)
			if len(types) > 0 && !matchesAny(types, value) {
				return &TypeMismatch{Field: string(name), Got: value, Want: types}
			}
			if w.doc != nil && field.MinVersion != 0 {
				if err := w.doc.requireVersion(field.MinVersion, string(name)); err != nil {
					return err
				}
			}
		}
	}
	if w.raw == nil {
		w.raw = Dict{}
	}
	w.raw[name] = value
	w.dirty = true
	return nil
}

func matchesAny(types []TypeTag, value Object) bool {
	if value == nil {
		return true // PDF null is always acceptable unless Required forbids absence
	}
	for _, t := range types {
		if t.Matches(value) {
			return true
		}
	}
	return false
}

func resolveFieldTypes(doc *Document, f *Field) []TypeTag {
	out := make([]TypeTag, len(f.Types))
	for i, t := range f.Types {
		out[i] = resolveTypeTag(doc, t)
	}
	return out
}
