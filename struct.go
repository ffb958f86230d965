package pdf

import (
	"reflect"
	"unicode/utf8"
)

// DecodeDict populates the exported fields of target (a pointer to a
// typed-dictionary struct registered via SchemaFor) from dict, applying
// each field's Converter and defaulting absent fields per their schema
// entry. A field with no schema entry is ignored. Required fields that are
// absent are left at their Go zero value; use ValidateStruct to detect
// that condition instead of failing the decode outright (spec.md §4.C: a
// malformed document should degrade, not abort).
func DecodeDict(doc *Document, target any, dict Dict) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return &MalformedFileError{Err: errEmptyTypes}
	}
	schema := SchemaFor(v.Type())

	for _, f := range schema.Fields {
		if f.PDFName == "" { // the "extra" catch-all field
			assignExtra(v, f, dict, schema)
			continue
		}

		raw, present := dict[f.PDFName]
		if !present {
			if f.Default != nil {
				setField(v, f, Clone(f.Default))
			}
			continue
		}

		// A field declared as Reference keeps the indirect link as-is
		// (Parent/Pages-style fields are meant to be followed by the
		// caller, not eagerly resolved); every other field sees the
		// dereferenced value.
		if len(f.Types) == 1 && f.Types[0] == classTag(Reference(0)) {
			if ref, ok := raw.(Reference); ok {
				setField(v, f, ref)
			}
			continue
		}

		resolved := doc.Deref(raw)
		types := resolveFieldTypes(doc, f)
		value := resolved
		if f.converter != nil && f.converter.ConvertNeeded(resolved, types) {
			converted, err := f.converter.Convert(resolved, types, doc)
			if err != nil {
				continue // degrade: leave the Go field at its zero value
			}
			value = converted
		}
		if f.AllowString {
			if s, isString := value.(String); isString {
				value = Name(s)
			}
		}
		setField(v, f, value)
	}
	return nil
}

func assignExtra(v reflect.Value, f *Field, dict Dict, schema *ClassSchema) {
	fv := v.Elem().Field(f.index)
	if fv.Kind() != reflect.Map {
		return
	}
	known := make(map[Name]bool, len(schema.Fields))
	for _, sf := range schema.Fields {
		known[sf.PDFName] = true
	}
	m := reflect.MakeMap(fv.Type())
	for k, val := range dict {
		if known[k] {
			continue
		}
		if s, ok := val.(String); ok {
			m.SetMapIndex(reflect.ValueOf(string(k)), reflect.ValueOf(decodeTextString(s)))
		} else if n, ok := val.(Name); ok {
			m.SetMapIndex(reflect.ValueOf(string(k)), reflect.ValueOf(string(n)))
		}
	}
	fv.Set(m)
}

func setField(v reflect.Value, f *Field, value Object) {
	fv := v.Elem().Field(f.index)
	if value == nil {
		return
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return
	}
	if fv.Kind() == reflect.Interface {
		fv.Set(rv)
	}
}

// AsDict encodes a typed-dictionary struct into a raw Dict, the reverse of
// DecodeDict. Zero-valued optional fields are omitted; required fields are
// always written, even at their zero value.
func AsDict(target any) Dict {
	v := reflect.ValueOf(target)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	schema := SchemaFor(v.Type())

	dict := Dict{}
	if schema.TypeName != "" {
		dict["Type"] = schema.TypeName
	}

	for _, f := range schema.Fields {
		if f.PDFName == "" {
			encodeExtra(v, f, dict)
			continue
		}
		fv := v.Field(f.index)
		if !f.Required && fv.IsZero() {
			continue
		}
		obj, ok := fv.Interface().(Object)
		if !ok {
			continue
		}
		dict[f.PDFName] = obj
	}
	return dict
}

func encodeExtra(v reflect.Value, f *Field, dict Dict) {
	fv := v.Field(f.index)
	if fv.Kind() != reflect.Map {
		return
	}
	iter := fv.MapRange()
	for iter.Next() {
		dict[Name(iter.Key().String())] = Name(iter.Value().String())
	}
}

// materialize builds a fresh, empty instance of the class registered under
// name in doc's type map, adds it to doc as a new indirect object, and
// returns its Reference. It is ValidateStruct's constructor-based
// auto-correct path (spec.md §4.C, §8 scenario 8): a required field with no
// static Default but a known target class is materialized rather than left
// unset.
func materialize(doc *Document, name Name) (Reference, bool) {
	if doc == nil {
		return 0, false
	}
	class, ok := doc.config.TypeMap[name]
	if !ok {
		return 0, false
	}
	target := reflect.New(class).Interface()
	ref := doc.Add(AsDict(target))
	return ref, true
}

// Diagnostic is one finding of ValidateStruct: a required field that is
// missing, a missing required field that auto-correct filled in, or a
// ByteString field whose bytes are already valid UTF-8 text (spec.md §9,
// the "PDFByteString overreach" open question; reported, never refused).
type Diagnostic struct {
	Field   string
	Message string
}

// ValidateStruct checks a decoded typed-dictionary struct against its
// schema: required fields must be non-zero, and (when autoCorrect is true)
// missing required fields are populated from their Default, or failing
// that by materializing their Construct class, before the check runs. It
// returns whether the struct is now valid and any diagnostics collected
// along the way.
func ValidateStruct(doc *Document, target any, autoCorrect bool) (bool, []Diagnostic) {
	v := reflect.ValueOf(target)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	schema := SchemaFor(v.Type())

	var diags []Diagnostic
	ok := true
	for _, f := range schema.Fields {
		if len(f.Types) > 0 && f.Types[0] == nameTag(MetaByteString) {
			if rs, isRaw := v.Field(f.index).Interface().(RawString); isRaw && len(rs) > 0 && utf8.Valid(rs) {
				diags = append(diags, Diagnostic{
					Field:   string(f.PDFName),
					Message: "ByteString field holds bytes that are already valid UTF-8 text",
				})
			}
		}
		if f.PDFName == "" || !f.Required {
			continue
		}
		fv := v.Field(f.index)
		if !fv.IsZero() {
			continue
		}
		if autoCorrect && f.Default != nil {
			setField(reflect.ValueOf(target), f, Clone(f.Default))
			diags = append(diags, Diagnostic{
				Field:   string(f.PDFName),
				Message: "missing required field auto-corrected from default",
			})
			continue
		}
		if autoCorrect && f.Construct != "" {
			if ref, built := materialize(doc, f.Construct); built {
				setField(reflect.ValueOf(target), f, ref)
				diags = append(diags, Diagnostic{
					Field:   string(f.PDFName),
					Message: "missing required field auto-corrected by constructing a new " + string(f.Construct),
				})
				continue
			}
		}
		ok = false
		diags = append(diags, Diagnostic{
			Field:   string(f.PDFName),
			Message: "required field is missing",
		})
	}
	return ok, diags
}
