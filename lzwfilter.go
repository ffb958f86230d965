package pdf

import (
	"io"

	"github.com/hhrutter/lzw"

	"github.com/chfe/hexapdf/internal/predictor"
)

// lzwFilter implements Filter for /LZWDecode, the wire-compatible twin of
// FlateDecode with an LZW codec swapped in for the compressor and the
// same /Predictor row transform afterwards.
type lzwFilter struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
	EarlyChange      bool
}

func lzwFromDict(parms Dict) *lzwFilter {
	res := &lzwFilter{
		Predictor:        1,
		Colors:           1,
		BitsPerComponent: 8,
		Columns:          1,
		EarlyChange:      true,
	}
	if parms == nil {
		return res
	}
	if val, ok := parms["Predictor"].(Integer); ok && val >= 1 && val <= 15 {
		res.Predictor = int(val)
	}
	if val, ok := parms["Colors"].(Integer); ok && val >= 1 {
		res.Colors = int(val)
	}
	if val, ok := parms["BitsPerComponent"].(Integer); ok &&
		(val == 1 || val == 2 || val == 4 || val == 8 || val == 16) {
		res.BitsPerComponent = int(val)
	}
	if val, ok := parms["Columns"].(Integer); ok && val >= 0 && res.Predictor > 1 {
		res.Columns = int(val)
	}
	if val, ok := parms["EarlyChange"].(Integer); ok {
		res.EarlyChange = (val != 0)
	}
	return res
}

func (lf *lzwFilter) ToDict() Dict {
	res := Dict{}
	needed := false
	if lf.Predictor != 1 {
		res["Predictor"] = Integer(lf.Predictor)
		res["Colors"] = Integer(lf.Colors)
		res["BitsPerComponent"] = Integer(lf.BitsPerComponent)
		res["Columns"] = Integer(lf.Columns)
		needed = true
	}
	if !lf.EarlyChange {
		res["EarlyChange"] = Integer(0)
		needed = true
	}
	if !needed {
		return nil
	}
	return res
}

func (lf *lzwFilter) paramsForPredictor() (int, int, int, int) {
	return lf.Predictor, lf.Colors, lf.BitsPerComponent, lf.Columns
}

// lzwProducer wraps the hhrutter/lzw decoder, itself a plain io.ReadCloser,
// as the Fresh/Streaming/Finished/Errored state machine every Producer in
// this package exposes.
type lzwProducer struct {
	rc    io.ReadCloser
	state producerState
	err   error
}

func newLZWProducer(upstream Producer, earlyChange bool) *lzwProducer {
	return &lzwProducer{rc: lzw.NewReader(asReader(upstream), earlyChange)}
}

func (p *lzwProducer) Alive() bool {
	return p.state != stateFinished && p.state != stateErrored
}

func (p *lzwProducer) Resume() ([]byte, error) {
	if !p.Alive() {
		return nil, p.err
	}
	p.state = stateStreaming
	buf := make([]byte, defaultChunkSize)
	n, err := p.rc.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil || err == io.EOF {
		p.rc.Close()
		p.state = stateFinished
		return nil, nil
	}
	p.state = stateErrored
	p.err = &FilterError{Filter: "LZWDecode", Err: err}
	return nil, p.err
}

func (lf *lzwFilter) Decode(upstream Producer) (Producer, error) {
	out := Producer(newLZWProducer(upstream, lf.EarlyChange))
	if lf.Predictor <= 1 {
		return out, nil
	}
	pr, c, bpc, cols := lf.paramsForPredictor()
	return newPredictorProducer(out, predictor.Params{
		Predictor: pr, Colors: c, BitsPerComponent: bpc, Columns: cols,
	})
}
