package pdf

import (
	"testing"
	"time"
)

func TestGetRectangleNormalizesCorners(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	arr := Array{Real(10), Real(200), Real(100), Real(20)}
	rect, err := GetRectangle(doc, arr)
	if err != nil {
		t.Fatal(err)
	}
	want := Rectangle{LLx: 10, LLy: 20, URx: 100, URy: 200}
	if !rect.Equal(want) {
		t.Errorf("GetRectangle = %+v, want %+v", rect, want)
	}
}

func TestGetRectangleNullIsZero(t *testing.T) {
	doc := NewDocument(V1_7, DefaultConfig())
	rect, err := GetRectangle(doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !rect.IsZero() {
		t.Errorf("GetRectangle(nil) = %+v, want zero Rectangle", rect)
	}
}

func TestRectangleExtend(t *testing.T) {
	r := Rectangle{LLx: 0, LLy: 0, URx: 10, URy: 10}
	r.Extend(Rectangle{LLx: -5, LLy: 2, URx: 8, URy: 20})
	want := Rectangle{LLx: -5, LLy: 0, URx: 10, URy: 20}
	if !r.Equal(want) {
		t.Errorf("Extend result = %+v, want %+v", r, want)
	}
}

func TestRectangleRound(t *testing.T) {
	r := Rectangle{LLx: 1.005, LLy: 0, URx: 2.4999, URy: 3}
	rounded := r.Round(2)
	if !rounded.NearlyEqual(Rectangle{LLx: 1.0, LLy: 0, URx: 2.5, URy: 3}, 0.011) {
		t.Errorf("Round(2) = %+v", rounded)
	}
}

func TestNumberAsPDFPicksIntegerWhenExact(t *testing.T) {
	n := Number(5)
	if _, ok := n.AsPDF(0).(Integer); !ok {
		t.Errorf("Number(5).AsPDF() = %#v, want Integer", n.AsPDF(0))
	}
	n2 := Number(5.5)
	if _, ok := n2.AsPDF(0).(Real); !ok {
		t.Errorf("Number(5.5).AsPDF() = %#v, want Real", n2.AsPDF(0))
	}
}

func TestDateAsPDFAndParseRoundTrip(t *testing.T) {
	// AsPDF's format only has second resolution, so compare against a
	// second-truncated reference rather than the raw Now() instant.
	d := Date(time.Now().Truncate(time.Second))
	native := d.AsPDF(0)
	s, ok := native.(String)
	if !ok {
		t.Fatalf("Date.AsPDF() = %#v, want String", native)
	}
	parsed, err := parseDate(string(s))
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(d) {
		t.Errorf("round trip = %v, want %v", parsed, d)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := parseDate("not a date")
	if err == nil {
		t.Error("parseDate(\"not a date\") returned nil error")
	}
}
