package pdf

import (
	"errors"
	"reflect"
	"testing"
)

func TestSetKeyRejectsTypeMismatch(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	w, err := doc.Wrap(Dict{"Type": Name("Pages"), "Kids": Array{}, "Count": Integer(0)}, reflect.TypeOf(Pages{}))
	if err != nil {
		t.Fatal(err)
	}
	err = w.SetKey("Count", Name("not-an-integer"))
	var mismatch *TypeMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("SetKey with a wrong-typed value = %#v, want *TypeMismatch", err)
	}
}

func TestSetKeyPropagatesVersionConflict(t *testing.T) {
	doc := NewDocument(V1_0, DefaultConfig())
	doc.PinVersion()
	w, err := doc.Wrap(Dict{"Type": Name("Catalog"), "Pages": NewReference(1, 0)}, reflect.TypeOf(Catalog{}))
	if err != nil {
		t.Fatal(err)
	}

	err = w.SetKey("Threads", NewReference(2, 0)) // Threads requires PDF 1.1
	var conflict *VersionConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("SetKey(Threads) on a V1_0-pinned document = %#v, want *VersionConflict", err)
	}
	if _, present := w.raw["Threads"]; present {
		t.Error("SetKey wrote the field despite returning VersionConflict")
	}
}

func TestSetKeyAutoUpgradesUnpinnedVersion(t *testing.T) {
	doc := NewDocument(V1_0, DefaultConfig())
	w, err := doc.Wrap(Dict{"Type": Name("Catalog"), "Pages": NewReference(1, 0)}, reflect.TypeOf(Catalog{}))
	if err != nil {
		t.Fatal(err)
	}

	if err := w.SetKey("Threads", NewReference(2, 0)); err != nil {
		t.Fatalf("SetKey(Threads) on an unpinned document returned %v, want nil", err)
	}
	if doc.Version() != V1_1 {
		t.Errorf("doc.Version() = %v, want V1_1 after writing a version-1.1 field", doc.Version())
	}
}
