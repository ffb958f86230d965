package pdf

import "testing"

func TestLzwFromDictDefaults(t *testing.T) {
	lf := lzwFromDict(nil)
	if lf.Predictor != 1 || lf.Colors != 1 || lf.BitsPerComponent != 8 || lf.Columns != 1 {
		t.Errorf("lzwFromDict(nil) = %+v, want the PDF defaults", lf)
	}
	if !lf.EarlyChange {
		t.Error("lzwFromDict(nil).EarlyChange = false, want true (the PDF default)")
	}
}

func TestLzwFromDictOverrides(t *testing.T) {
	lf := lzwFromDict(Dict{
		"Predictor":        Integer(12),
		"Colors":           Integer(3),
		"BitsPerComponent": Integer(8),
		"Columns":          Integer(10),
		"EarlyChange":      Integer(0),
	})
	if lf.Predictor != 12 || lf.Colors != 3 || lf.Columns != 10 {
		t.Errorf("lzwFromDict(overrides) = %+v", lf)
	}
	if lf.EarlyChange {
		t.Error("EarlyChange should be false when /EarlyChange 0 is given")
	}
}

func TestLzwFilterToDictOmitsDefaults(t *testing.T) {
	lf := lzwFromDict(nil)
	if d := lf.ToDict(); d != nil {
		t.Errorf("ToDict() for the all-default filter = %v, want nil", d)
	}
}

func TestLzwFilterToDictIncludesPredictor(t *testing.T) {
	lf := lzwFromDict(Dict{"Predictor": Integer(15), "Columns": Integer(4)})
	d := lf.ToDict()
	if d["Predictor"] != Integer(15) {
		t.Errorf("ToDict()[Predictor] = %v, want 15", d["Predictor"])
	}
	if d["Columns"] != Integer(4) {
		t.Errorf("ToDict()[Columns] = %v, want 4", d["Columns"])
	}
}

func TestMakeFilterLZWDecode(t *testing.T) {
	f := makeFilter("LZWDecode", Dict{"EarlyChange": Integer(0)})
	pf, ok := f.(pdfFilter)
	if !ok || pf.lzw == nil {
		t.Fatalf("makeFilter(\"LZWDecode\") = %#v, want a pdfFilter with lzw set", f)
	}
	if pf.lzw.EarlyChange {
		t.Error("makeFilter did not thread /EarlyChange through to lzwFromDict")
	}
}
