package pdf

import (
	"reflect"
	"strings"
	"sync"
)

// TypeTag names one of the types a field is allowed to hold. A TypeTag is
// either a concrete Go representation type (Class non-nil: Dict, Array,
// String, Integer, a typed-dictionary struct type such as Catalog, ...) or a
// Name sentinel (Tag non-empty) that is resolved lazily: either through the
// document's type map (a forward class reference like "Pages") or as one of
// the meta tags below, which name a capability rather than a concrete type.
type TypeTag struct {
	Class reflect.Type
	Tag   Name
}

// Meta tags recognized by the Converter Registry (see convert_registry.go).
// These are never resolved through the type map; a Converter matches them by
// name directly.
const (
	MetaDictShape   Name = "DictShape"   // any Dict-shaped value, concrete or typed
	MetaTextString  Name = "String"      // PDF text string, decoded to UTF-8 on read
	MetaByteString  Name = "ByteString"  // opaque, no-interpretation string
	MetaDate        Name = "Date"        // PDF date string
	MetaFilespec    Name = "Filespec"    // file specification (dict or bare string)
	MetaLanguageTag Name = "LanguageTag" // BCP 47 language tag
)

func classTag(v any) TypeTag {
	return TypeTag{Class: reflect.TypeOf(v)}
}

func nameTag(n Name) TypeTag {
	return TypeTag{Tag: n}
}

func (t TypeTag) String() string {
	if t.Class != nil {
		return t.Class.String()
	}
	return string(t.Tag)
}

// Matches reports whether a concrete Object's runtime type satisfies this
// tag. Name-sentinel tags that have not been resolved against a type map
// (resolveTypeTag) never match anything but themselves being resolved first;
// callers resolve a Field's Types before calling Matches.
func (t TypeTag) Matches(o Object) bool {
	if t.Class == nil {
		return false
	}
	if o == nil {
		return false
	}
	ot := reflect.TypeOf(o)
	if ot == t.Class {
		return true
	}
	// A *Wrapper around a typed dictionary matches the class it wraps.
	if w, ok := o.(*Wrapper); ok {
		wt := reflect.TypeOf(w.Typed)
		if wt != nil && wt.Kind() == reflect.Ptr {
			wt = wt.Elem()
		}
		return wt == t.Class
	}
	return false
}

// resolveTypeTag resolves a Name-sentinel class reference (e.g. "Pages")
// against the document's type map. Meta tags (MetaDictShape and friends) and
// already-concrete tags are returned unchanged.
func resolveTypeTag(doc *Document, t TypeTag) TypeTag {
	if t.Class != nil || t.Tag == "" {
		return t
	}
	switch t.Tag {
	case MetaDictShape, MetaByteString, MetaDate, MetaFilespec, MetaLanguageTag:
		return t
	}
	if doc == nil {
		return t
	}
	if gt, ok := doc.config.TypeMap[t.Tag]; ok {
		return TypeTag{Class: gt}
	}
	return t
}

// IndirectMode constrains whether a field's value must be stored as an
// indirect object, must be direct, or may be either.
type IndirectMode int

const (
	IndirectEither IndirectMode = iota
	IndirectMust
	IndirectNever
)

// Field is a single entry in a typed dictionary's field schema.
type Field struct {
	// GoName is the struct field name this schema entry was built from.
	GoName string
	// PDFName is the dictionary key (defaults to GoName unless overridden).
	PDFName Name
	// Types lists the type tags this field accepts, in declaration order.
	// The first element is the canonical "wrap into" class for dictionary-
	// shaped coercions. Types is extended by Converter.AdditionalTypes when
	// the schema is built (see buildSchema) and deduplicated afterwards.
	Types []TypeTag
	// Required marks the field as mandatory for Validate.
	Required bool
	// Default is returned by DecodeDict when the field is absent from the
	// dictionary; composite defaults are deep-cloned on every read.
	Default Object
	// Indirect constrains how the field's value must be stored on write.
	Indirect IndirectMode
	// MinVersion is the lowest PDF version that may carry this field.
	MinVersion Version
	// AllowString lets a Name-typed field tolerate a bare String value on
	// read (matches the teacher's Info.Trapped behaviour).
	AllowString bool
	// Construct names the registered class (resolved through the document's
	// type map, as for a Name-sentinel TypeTag) that ValidateStruct's
	// auto-correct path instantiates for a Reference-typed required field
	// that is absent and has no Default (spec.md §4.C, the "/Pages is
	// created on a Catalog when absent" case).
	Construct Name
	// converter is the first registry entry whose UsableFor matches this
	// field's canonical type, bound once when the schema is built.
	converter Converter

	index int // reflect.StructField index, for Value().Field(index)
}

// ClassSchema is the field table for one typed-dictionary Go struct type.
type ClassSchema struct {
	GoType   reflect.Type
	TypeName Name // the dictionary's required /Type value, if any
	Fields   []*Field
	byName   map[Name]*Field
}

var schemaCache sync.Map // reflect.Type -> *ClassSchema

// SchemaFor returns the field schema for a typed-dictionary Go struct type,
// building and caching it on first use via reflection over struct tags.
func SchemaFor(t reflect.Type) *ClassSchema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*ClassSchema)
	}
	schema := buildSchema(t)
	actual, _ := schemaCache.LoadOrStore(t, schema)
	return actual.(*ClassSchema)
}

// buildSchema constructs a ClassSchema from a struct type's exported fields
// and their `pdf:"..."` tags. Tag grammar, one comma-separated entry per
// directive:
//
//	pdf:"Type=Catalog"    class discriminator (only meaningful on the
//	                      unexported "_ struct{}" marker field)
//	pdf:"optional"        field is not required
//	pdf:"extra"           catch-all map[string]string for unknown keys
//	pdf:"version=1.5"     MinVersion
//	pdf:"allowstring"     tolerate a bare String for a Name-typed field
//	pdf:"direct"          Indirect = IndirectNever
//	pdf:"indirect"        Indirect = IndirectMust
//	pdf:"name=Foo"        override the dictionary key (default: Go field name)
//	pdf:"class=Pages"     Construct: the registered class ValidateStruct's
//	                      auto-correct materializes when this Reference
//	                      field is required, absent, and has no Default
func buildSchema(t reflect.Type) *ClassSchema {
	schema := &ClassSchema{
		GoType: t,
		byName: make(map[Name]*Field),
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, hasTag := sf.Tag.Lookup("pdf")
		if sf.Name == "_" {
			if hasTag {
				for _, part := range strings.Split(tag, ",") {
					if v, ok := strings.CutPrefix(part, "Type="); ok {
						schema.TypeName = Name(v)
					}
				}
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}

		dirs := map[string]string{}
		if hasTag {
			for _, part := range strings.Split(tag, ",") {
				if k, v, ok := strings.Cut(part, "="); ok {
					dirs[k] = v
				} else {
					dirs[part] = ""
				}
			}
		}

		if _, isExtra := dirs["extra"]; isExtra {
			// The catch-all field is handled directly by DecodeDict/AsDict,
			// not through the ordinary Types/converter machinery.
			schema.Fields = append(schema.Fields, &Field{
				GoName:  sf.Name,
				PDFName: "",
				index:   i,
			})
			continue
		}

		pdfName := Name(sf.Name)
		if v, ok := dirs["name"]; ok {
			pdfName = Name(v)
		}

		f := &Field{
			GoName:      sf.Name,
			PDFName:     pdfName,
			Required:    true,
			index:       i,
			AllowString: false,
		}
		if _, ok := dirs["optional"]; ok {
			f.Required = false
		}
		if _, ok := dirs["allowstring"]; ok {
			f.AllowString = true
		}
		if _, ok := dirs["direct"]; ok {
			f.Indirect = IndirectNever
		}
		if _, ok := dirs["indirect"]; ok {
			f.Indirect = IndirectMust
		}
		if v, ok := dirs["version"]; ok {
			if ver, err := ParseVersion(v); err == nil {
				f.MinVersion = ver
			}
		}
		if v, ok := dirs["class"]; ok {
			f.Construct = Name(v)
		}

		f.Types = typesForGoField(sf.Type)
		f.Types = augmentTypes(f.Types)
		f.converter = converterFor(f.Types)

		schema.Fields = append(schema.Fields, f)
		schema.byName[pdfName] = f
	}

	return schema
}

// typesForGoField infers the canonical PDF type tag(s) for a Go struct
// field's static type. Object-typed fields (the escape hatch used for
// fields this module does not model concretely, e.g. Catalog.OpenAction)
// accept any value and perform no coercion.
func typesForGoField(t reflect.Type) []TypeTag {
	switch t {
	case reflect.TypeOf(Boolean(false)):
		return []TypeTag{classTag(Boolean(false))}
	case reflect.TypeOf(Integer(0)):
		return []TypeTag{classTag(Integer(0))}
	case reflect.TypeOf(Real(0)):
		return []TypeTag{classTag(Real(0))}
	case reflect.TypeOf(Name("")):
		return []TypeTag{classTag(Name(""))}
	case reflect.TypeOf(String(nil)):
		return []TypeTag{classTag(String(nil))}
	case reflect.TypeOf(Array(nil)):
		return []TypeTag{classTag(Array(nil))}
	case reflect.TypeOf(Dict(nil)):
		return []TypeTag{classTag(Dict(nil))}
	case reflect.TypeOf(Reference(0)):
		return []TypeTag{classTag(Reference(0))}
	case reflect.TypeOf(TextString("")):
		return []TypeTag{nameTag(MetaTextString)}
	case reflect.TypeOf(RawString(nil)):
		return []TypeTag{nameTag(MetaByteString)}
	case reflect.TypeOf(Date{}):
		return []TypeTag{nameTag(MetaDate)}
	case reflect.TypeOf(Rectangle{}):
		return []TypeTag{classTag(Rectangle{})}
	case reflect.TypeOf((*bool)(nil)).Elem():
		return []TypeTag{classTag(Boolean(false))}
	}
	if t.Kind() == reflect.Bool {
		return []TypeTag{classTag(Boolean(false))}
	}
	if isLanguageTagType(t) {
		return []TypeTag{nameTag(MetaLanguageTag)}
	}
	if t.Kind() == reflect.Interface {
		// Object / any escape hatch: no schema-driven coercion.
		return nil
	}
	if t.Kind() == reflect.Struct {
		// A typed-dictionary subclass referenced directly by Go type.
		return []TypeTag{{Class: t}}
	}
	return nil
}

// augmentTypes extends a field's declared type list with the additional
// types contributed by whichever converter ends up handling it, and
// deduplicates the result. This mirrors the Converter Registry's
// AdditionalTypes step (spec.md §4.D).
func augmentTypes(types []TypeTag) []TypeTag {
	if len(types) == 0 {
		return types
	}
	for _, c := range DefaultConverters {
		if c.UsableFor(types[0]) {
			types = append(types, c.AdditionalTypes()...)
			break
		}
	}
	return dedupTags(types)
}

func dedupTags(types []TypeTag) []TypeTag {
	seen := make(map[TypeTag]bool, len(types))
	out := types[:0]
	for _, t := range types {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// converterFor returns the first registry converter usable for a field's
// canonical (first) type tag. Dispatch is first-match, never best-match: a
// converter registered earlier always wins over one registered later, even
// if both would claim the same tag.
func converterFor(types []TypeTag) Converter {
	if len(types) == 0 {
		return identityConverter{}
	}
	for _, c := range DefaultConverters {
		if c.UsableFor(types[0]) {
			return c
		}
	}
	return identityConverter{}
}

// reflectFieldValue returns the addressable reflect.Value for a schema
// field on a struct pointer.
func reflectFieldValue(target reflect.Value, f *Field) reflect.Value {
	return target.Elem().Field(f.index)
}
