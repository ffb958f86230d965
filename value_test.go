package pdf

import "testing"

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Object
		want bool
	}{
		{"same integer", Integer(5), Integer(5), true},
		{"integer vs real", Integer(5), Real(5.0), false},
		{"nil vs nil", nil, nil, true},
		{"nil vs null-ish", nil, Boolean(false), false},
		{"equal names", Name("Foo"), Name("Foo"), true},
		{"different names", Name("Foo"), Name("Bar"), false},
		{"equal strings", String("abc"), String("abc"), true},
		{"equal arrays", Array{Integer(1), Name("x")}, Array{Integer(1), Name("x")}, true},
		{"arrays different length", Array{Integer(1)}, Array{Integer(1), Integer(2)}, false},
		{"equal dicts", Dict{"A": Integer(1)}, Dict{"A": Integer(1)}, true},
		{"dicts different keys", Dict{"A": Integer(1)}, Dict{"B": Integer(1)}, false},
		{"references", NewReference(1, 0), NewReference(1, 0), true},
		{"references different generation", NewReference(1, 0), NewReference(1, 1), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Equal(c.a, c.b); got != c.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestCloneIndependence(t *testing.T) {
	orig := Dict{"A": Array{String("x")}}
	cp := Clone(orig).(Dict)

	cp["A"].(Array)[0] = String("y")

	if string(orig["A"].(Array)[0].(String)) != "x" {
		t.Error("Clone aliased the original dict's nested array")
	}
}

func TestReferenceNumberGeneration(t *testing.T) {
	ref := NewReference(12, 3)
	if ref.Number() != 12 {
		t.Errorf("Number() = %d, want 12", ref.Number())
	}
	if ref.Generation() != 3 {
		t.Errorf("Generation() = %d, want 3", ref.Generation())
	}
	if ref.String() != "12 3 R" {
		t.Errorf("String() = %q, want %q", ref.String(), "12 3 R")
	}
}

func TestReferenceZeroMeansDirect(t *testing.T) {
	var ref Reference
	if ref.Number() != 0 {
		t.Errorf("zero Reference has non-zero object number %d", ref.Number())
	}
}
