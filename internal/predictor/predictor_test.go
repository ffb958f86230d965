package predictor

import (
	"bytes"
	"io"
	"testing"
)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func TestPNGUpRoundTrip(t *testing.T) {
	params := Params{Predictor: 15, Colors: 1, BitsPerComponent: 8, Columns: 4}
	want := []byte{10, 20, 30, 40, 11, 19, 33, 39, 12, 18, 36, 38}

	var buf bytes.Buffer
	w, err := NewWriter(nopWriteCloser{&buf}, params)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(want); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(&buf, params)
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("PNG Up round trip = %v, want %v", got, want)
	}
}

func TestPNGUnfilterAllFilterTypes(t *testing.T) {
	bpp := 1
	prev := []byte{10, 20, 30}

	cases := []struct {
		name string
		tag  int
		row  []byte
		want []byte
	}{
		{"none", pngNone, []byte{5, 6, 7}, []byte{5, 6, 7}},
		{"sub", pngSub, []byte{5, 6, 7}, []byte{5, 11, 18}},
		{"up", pngUp, []byte{5, 6, 7}, []byte{15, 26, 37}},
		{"average", pngAverage, []byte{5, 6, 7}, []byte{10, 21, 32}},
		{"paeth", pngPaeth, []byte{5, 6, 7}, []byte{15, 26, 37}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			row := append([]byte(nil), c.row...)
			if err := pngUnfilterRow(c.tag, row, prev, bpp); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(row, c.want) {
				t.Errorf("pngUnfilterRow(%s) = %v, want %v", c.name, row, c.want)
			}
		})
	}
}

func TestPNGUnfilterUnknownTag(t *testing.T) {
	row := []byte{1, 2, 3}
	prev := []byte{0, 0, 0}
	if err := pngUnfilterRow(99, row, prev, 1); err == nil {
		t.Fatal("pngUnfilterRow with an unknown tag returned nil error")
	}
}

func TestTIFFPredictorRoundTripSemantics(t *testing.T) {
	// TIFF prediction decodes delta-coded rows; build one by hand (2 colors,
	// 8 bpc) and check the reader reconstructs the original samples.
	params := Params{Predictor: 2, Colors: 2, BitsPerComponent: 8, Columns: 3}
	original := []byte{10, 20, 12, 22, 14, 24} // 3 pixels x 2 components

	// Derive the delta-coded row a TIFF predictor 2 encoder would produce,
	// then check the reader undoes it back to `original`.
	delta := append([]byte(nil), original...)
	for i := len(delta) - 1; i >= params.Colors; i-- {
		delta[i] -= original[i-params.Colors]
	}

	r, err := NewReader(bytes.NewReader(delta), params)
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, original) {
		t.Fatalf("TIFF predictor round trip = %v, want %v", got, original)
	}
}

func TestNewWriterRejectsTIFF(t *testing.T) {
	_, err := NewWriter(nopWriteCloser{&bytes.Buffer{}}, Params{Predictor: 2})
	if err == nil {
		t.Fatal("NewWriter with TIFF predictor returned nil error, want rejection")
	}
}

func TestPredictorNoneIsPassthrough(t *testing.T) {
	r, err := NewReader(bytes.NewReader([]byte("abc")), Params{Predictor: 1})
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Fatalf("passthrough reader = %q, want %q", got, "abc")
	}
}
