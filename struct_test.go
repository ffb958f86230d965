package pdf

import (
	"reflect"
	"testing"
)

func TestDecodeDictCatalog(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	pagesRef := doc.Add(Dict{"Type": Name("Pages"), "Kids": Array{}, "Count": Integer(0)})

	dict := Dict{
		"Type":  Name("Catalog"),
		"Pages": pagesRef,
		"Lang":  Name("en-US"),
	}

	var cat Catalog
	if err := DecodeDict(doc, &cat, dict); err != nil {
		t.Fatal(err)
	}
	if cat.Pages != pagesRef {
		t.Errorf("cat.Pages = %v, want %v", cat.Pages, pagesRef)
	}
	if cat.Lang.String() != "en-US" {
		t.Errorf("cat.Lang = %q, want %q", cat.Lang.String(), "en-US")
	}
}

func TestDecodeDictMissingOptionalFieldStaysZero(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	var cat Catalog
	if err := DecodeDict(doc, &cat, Dict{"Pages": NewReference(1, 0)}); err != nil {
		t.Fatal(err)
	}
	if cat.Lang.String() != "und" {
		t.Errorf("cat.Lang = %q, want %q (the zero LanguageTag)", cat.Lang.String(), "und")
	}
}

func TestAsDictRoundTripsRequiredFields(t *testing.T) {
	pages := Pages{Kids: Array{}, Count: Integer(0)}
	dict := AsDict(&pages)
	if dict["Type"] != Name("Pages") {
		t.Errorf("AsDict: Type = %v, want Pages", dict["Type"])
	}
	if _, ok := dict["Count"]; !ok {
		t.Error("AsDict omitted required field Count")
	}
}

func TestAsDictOmitsZeroOptionalFields(t *testing.T) {
	page := Page{Parent: NewReference(1, 0)}
	dict := AsDict(&page)
	if _, ok := dict["Rotate"]; ok {
		t.Error("AsDict included zero-valued optional field Rotate")
	}
	if _, ok := dict["Parent"]; !ok {
		t.Error("AsDict omitted required field Parent")
	}
}

func TestValidateStructMissingRequiredField(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	pages := &Pages{} // Kids/Count are required and left zero

	ok, diags := ValidateStruct(doc, pages, false)
	if ok {
		t.Error("ValidateStruct reported valid for a struct missing required fields")
	}
	if len(diags) == 0 {
		t.Error("ValidateStruct returned no diagnostics for a missing required field")
	}
}

func TestValidateStructAutoCorrectWithoutDefaultStaysInvalid(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	page := &Page{Contents: nil}

	// Parent has no Default, so auto-correct cannot fix it; this exercises
	// the "still invalid" branch of the auto-correct path rather than
	// asserting a field this schema never defaults.
	ok, diags := ValidateStruct(doc, page, true)
	if ok {
		t.Error("ValidateStruct(autoCorrect) reported valid despite a missing required field with no default")
	}
	if len(diags) == 0 {
		t.Error("ValidateStruct(autoCorrect) produced no diagnostics")
	}
}

func TestValidateStructAutoCorrectMaterializesPages(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	cat := &Catalog{} // Pages is required and left at its zero Reference

	ok, diags := ValidateStruct(doc, cat, true)
	if !ok {
		t.Fatalf("ValidateStruct(autoCorrect) = false, diags %v, want true after /Pages is materialized", diags)
	}
	if cat.Pages.Number() == 0 {
		t.Fatal("cat.Pages is still the zero Reference, want a freshly constructed Pages object")
	}

	got := doc.Deref(cat.Pages)
	dict, ok := got.(Dict)
	if !ok {
		t.Fatalf("doc.Deref(cat.Pages) = %#v, want a Dict", got)
	}
	if dict["Type"] != Name("Pages") {
		t.Errorf("materialized object Type = %v, want Pages", dict["Type"])
	}
}

func TestObjectFieldKeepsStringWithoutFilespecPromotion(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	dict := Dict{
		"Type": Name("Catalog"),
		"Pages": NewReference(1, 0),
		"AF":   String("attachment.pdf"),
	}
	var cat Catalog
	if err := DecodeDict(doc, &cat, dict); err != nil {
		t.Fatal(err)
	}
	// AF is declared Object (no concrete model), so it stays the raw
	// String; the Filespec promotion only applies to fields whose declared
	// type is Filespec. This test documents that boundary.
	if _, ok := cat.AF.(String); !ok {
		t.Errorf("cat.AF = %#v, want the raw String (Object escape hatch)", cat.AF)
	}
}

func TestWrapperKeyCoercesTextString(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	raw := Dict{"F": String("report.pdf"), "UF": String("report.pdf")}
	w, err := doc.Wrap(raw, reflect.TypeOf(Filespec{}))
	if err != nil {
		t.Fatal(err)
	}
	uf := w.Key("UF")
	ts, ok := uf.(TextString)
	if !ok {
		t.Fatalf("Key(\"UF\") = %#v, want TextString", uf)
	}
	if string(ts) != "report.pdf" {
		t.Errorf("TextString = %q, want %q", ts, "report.pdf")
	}
}
