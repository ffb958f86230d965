package pdf

import (
	"reflect"
	"testing"
)

func TestCatalogTypeMapWrap(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	pagesRef := doc.Add(Dict{"Type": Name("Pages"), "Kids": Array{}, "Count": Integer(0)})
	catRef := doc.Add(Dict{"Type": Name("Catalog"), "Pages": pagesRef})

	w, err := doc.Wrap(catRef, reflect.TypeOf(Catalog{}))
	if err != nil {
		t.Fatal(err)
	}
	cat, ok := w.Typed.(*Catalog)
	if !ok {
		t.Fatalf("Wrapper.Typed = %#v, want *Catalog", w.Typed)
	}
	if cat.Pages != pagesRef {
		t.Errorf("cat.Pages = %v, want %v", cat.Pages, pagesRef)
	}
}

func TestIterTypeFindsCatalog(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	catRef := doc.Add(AsDict(&Catalog{Pages: NewReference(5, 0)}))

	var found []Reference
	for ref := range doc.IterType("Catalog") {
		found = append(found, ref)
	}
	if len(found) != 1 || found[0] != catRef {
		t.Fatalf("IterType(\"Catalog\") = %v, want [%v]", found, catRef)
	}
}

func TestPageMediaBoxConverterFromArray(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	dict := Dict{
		"Type":     Name("Page"),
		"Parent":   NewReference(1, 0),
		"MediaBox": Array{Integer(0), Integer(0), Integer(612), Integer(792)},
	}
	var page Page
	if err := DecodeDict(doc, &page, dict); err != nil {
		t.Fatal(err)
	}
	want := Rectangle{LLx: 0, LLy: 0, URx: 612, URy: 792}
	if !page.MediaBox.Equal(want) {
		t.Errorf("page.MediaBox = %+v, want %+v", page.MediaBox, want)
	}
}

func TestFilespecSchemaFields(t *testing.T) {
	schema := SchemaFor(reflect.TypeOf(Filespec{}))
	if schema.TypeName != "Filespec" {
		t.Errorf("Filespec schema TypeName = %q, want %q", schema.TypeName, "Filespec")
	}
	if _, ok := schema.byName["UF"]; !ok {
		t.Error("Filespec schema missing UF field")
	}
	if field := schema.byName["UF"]; field.MinVersion != V1_7 {
		t.Errorf("Filespec.UF MinVersion = %v, want V1_7", field.MinVersion)
	}
}
