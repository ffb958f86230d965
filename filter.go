// Copyright 2020 Jochen Voss <voss@seehuhn.de>
//
// Some code here, e.g. the PNG row transform this file's predictor wrapper
// builds on, is taken from https://pkg.go.dev/rsc.io/pdf . Use of this
// source code is governed by a BSD-style license, which is reproduced here:
//
//     Copyright (c) 2009 The Go Authors. All rights reserved.
//
//     Redistribution and use in source and binary forms, with or without
//     modification, are permitted provided that the following conditions are
//     met:
//
//        * Redistributions of source code must retain the above copyright
//     notice, this list of conditions and the following disclaimer.
//        * Redistributions in binary form must reproduce the above
//     copyright notice, this list of conditions and the following disclaimer
//     in the documentation and/or other materials provided with the
//     distribution.
//        * Neither the name of Google Inc. nor the names of its
//     contributors may be used to endorse or promote products derived from
//     this software without specific prior written permission.
//
//     THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
//     "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
//     LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
//     A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
//     OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
//     SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
//     LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
//     DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
//     THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
//     (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
//     OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package pdf

import (
	"compress/zlib"
	"errors"
	"io"

	"github.com/chfe/hexapdf/ascii85"
	"github.com/chfe/hexapdf/internal/predictor"
)

// Producer is a cooperative, chunked byte source: exactly the shape
// spec.md §4.F and §5 describe for a stream's payload. Resume pulls and
// returns at most one chunk; Alive reports whether a further Resume could
// still yield data. There is no internal read-ahead: a Producer never
// consumes more from its upstream than one Resume call's worth of work
// requires.
type Producer interface {
	// Resume returns the next chunk of decoded bytes, or (nil, nil) once
	// the producer has reached Finished. A non-nil error leaves the
	// producer in the Errored state permanently; every later Resume call
	// returns the same error.
	Resume() ([]byte, error)

	// Alive reports whether the producer has not yet reached Finished or
	// Errored.
	Alive() bool
}

// producerState names the four states spec.md §4.F lists for a Flate
// producer: Fresh (no chunk requested yet), Streaming, Finished (upstream
// exhausted, tail flushed), Errored (permanently failed).
type producerState int

const (
	stateFresh producerState = iota
	stateStreaming
	stateFinished
	stateErrored
)

// readerProducer adapts a plain io.Reader into a Producer, pulling one
// chunkSize-sized read per Resume. It is how raw (not-yet-inflated) stream
// bytes, handed to the pipeline by the parser, enter the Producer world.
type readerProducer struct {
	r         io.Reader
	chunkSize int
	state     producerState
	err       error
}

const defaultChunkSize = 32 * 1024

// NewProducer wraps r as a Producer that yields chunkSize-sized reads. A
// chunkSize of 0 selects a 32KiB default.
func NewProducer(r io.Reader, chunkSize int) Producer {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &readerProducer{r: r, chunkSize: chunkSize}
}

func (p *readerProducer) Alive() bool { return p.state != stateFinished && p.state != stateErrored }

func (p *readerProducer) Resume() ([]byte, error) {
	switch p.state {
	case stateFinished:
		return nil, nil
	case stateErrored:
		return nil, p.err
	}
	if p.err != nil {
		// a read error that arrived together with data is reported now
		p.state = stateErrored
		return nil, p.err
	}
	p.state = stateStreaming
	buf := make([]byte, p.chunkSize)
	n, err := p.r.Read(buf)
	if n > 0 {
		if err != nil && err != io.EOF {
			p.err = err
		}
		return buf[:n], nil
	}
	if err == io.EOF || err == nil {
		p.state = stateFinished
		return nil, nil
	}
	p.state = stateErrored
	p.err = err
	return nil, err
}

// producerReader adapts a Producer back into an io.Reader, for callers
// (DecodeStream, predictor.NewReader) that want the ordinary pull-based Go
// interface rather than the explicit Resume/Alive protocol.
type producerReader struct {
	p    Producer
	pend []byte
	err  error
}

func asReader(p Producer) io.Reader {
	return &producerReader{p: p}
}

func (r *producerReader) Read(b []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	for len(r.pend) == 0 {
		if !r.p.Alive() {
			return 0, io.EOF
		}
		chunk, err := r.p.Resume()
		if err != nil {
			r.err = err
			return 0, err
		}
		if chunk == nil && !r.p.Alive() {
			return 0, io.EOF
		}
		r.pend = chunk
	}
	n := copy(b, r.pend)
	r.pend = r.pend[n:]
	return n, nil
}

// flateProducer is the Flate decoder state machine spec.md §4.F describes:
// it lazily builds a zlib.Reader over its upstream (adapted to io.Reader
// via asReader) on the first Resume, yields inflated chunks, and on
// upstream exhaustion flushes the tail and transitions to Finished. Any
// zlib error transitions to Errored and is reported as a FilterError.
type flateProducer struct {
	upstream Producer
	zr       io.ReadCloser
	state    producerState
	err      error
}

func newFlateProducer(upstream Producer) *flateProducer {
	return &flateProducer{upstream: upstream}
}

func (p *flateProducer) Alive() bool {
	return p.state != stateFinished && p.state != stateErrored
}

func (p *flateProducer) Resume() ([]byte, error) {
	switch p.state {
	case stateFinished, stateErrored:
		return nil, p.err
	case stateFresh:
		zr, err := zlib.NewReader(asReader(p.upstream))
		if err != nil {
			p.state = stateErrored
			p.err = &FilterError{Filter: "FlateDecode", Err: err}
			return nil, p.err
		}
		p.zr = zr
		p.state = stateStreaming
	}

	buf := make([]byte, defaultChunkSize)
	n, err := p.zr.Read(buf)
	if n > 0 {
		if err != nil && err != io.EOF {
			p.state = stateErrored
			p.err = &FilterError{Filter: "FlateDecode", Err: err}
			return buf[:n], p.err
		}
		return buf[:n], nil
	}
	if err == nil || err == io.EOF {
		p.zr.Close()
		p.state = stateFinished
		return nil, nil
	}
	p.state = stateErrored
	p.err = &FilterError{Filter: "FlateDecode", Err: err}
	return nil, p.err
}

// predictorProducer applies the /Predictor row transform (reversed, on
// decode) to an upstream Producer's output, using internal/predictor for
// the row arithmetic. It is itself a Producer, so Predictor and Flate
// compose as spec.md §4.F requires: Predictor chained after Flate on
// decode.
type predictorProducer struct {
	r     io.Reader
	state producerState
	err   error
}

func newPredictorProducer(upstream Producer, params predictor.Params) (*predictorProducer, error) {
	r, err := predictor.NewReader(asReader(upstream), params)
	if err != nil {
		return nil, err
	}
	return &predictorProducer{r: r}, nil
}

func (p *predictorProducer) Alive() bool {
	return p.state != stateFinished && p.state != stateErrored
}

func (p *predictorProducer) Resume() ([]byte, error) {
	if !p.Alive() {
		return nil, p.err
	}
	p.state = stateStreaming
	buf := make([]byte, defaultChunkSize)
	n, err := p.r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil || err == io.EOF {
		p.state = stateFinished
		return nil, nil
	}
	p.state = stateErrored
	p.err = &FilterError{Filter: "Predictor", Err: err}
	return nil, p.err
}

// flateFilter implements Filter for /FlateDecode.
type flateFilter struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
	EarlyChange      bool
}

func ffFromDict(parms Dict) *flateFilter {
	res := &flateFilter{
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

func (ff *flateFilter) params() predictor.Params {
	return predictor.Params{
		Predictor:        ff.Predictor,
		Colors:           ff.Colors,
		BitsPerComponent: ff.BitsPerComponent,
		Columns:          ff.Columns,
	}
}

func (ff *flateFilter) ToDict() Dict {
	res := Dict{}
	needed := false
	if ff.Predictor != 1 {
		res["Predictor"] = Integer(ff.Predictor)
		needed = true
	}
	if ff.Predictor != 1 {
		res["Colors"] = Integer(ff.Colors)
		needed = true
	}
	if ff.Predictor != 1 {
		res["BitsPerComponent"] = Integer(ff.BitsPerComponent)
		needed = true
	}
	if ff.Predictor != 1 {
		res["Columns"] = Integer(ff.Columns)
		needed = true
	}
	if !ff.EarlyChange {
		res["EarlyChange"] = Integer(0)
		needed = true
	}
	if !needed {
		return nil
	}
	return res
}

// Encode returns a WriteCloser that compresses writes with Flate at the
// given level (spec.md §4.F "compression level is read from configuration
// key filter.flate_compression"), applying the predictor transform first
// when one is configured.
func (ff *flateFilter) Encode(w io.WriteCloser, level int) (io.WriteCloser, error) {
	zw, err := zlib.NewWriterLevel(w, level)
	if err != nil {
		return nil, err
	}
	closeBoth := func() error {
		if err := zw.Close(); err != nil {
			return err
		}
		return w.Close()
	}
	inner := &withClose{zw, closeBoth}
	if ff.Predictor <= 1 {
		return inner, nil
	}
	return predictor.NewWriter(inner, ff.params())
}

// Decode returns a Producer yielding ff's decompressed (and, if
// configured, un-predicted) bytes, pulling raw compressed bytes one chunk
// at a time from upstream.
func (ff *flateFilter) Decode(upstream Producer) (Producer, error) {
	flate := Producer(newFlateProducer(upstream))
	if ff.Predictor <= 1 {
		return flate, nil
	}
	return newPredictorProducer(flate, ff.params())
}

type withClose struct {
	io.Writer
	close func() error
}

func (w *withClose) Close() error {
	return w.close()
}

// FilterInfo describes one PDF stream filter as named in a dictionary's
// /Filter and /DecodeParms entries.
type FilterInfo struct {
	Name  Name
	Parms Dict
}

func makeFilter(name Name, parms Dict) Filter {
	switch name {
	case "FlateDecode", "Fl":
		return pdfFilter{name: name, flate: ffFromDict(parms)}
	case "LZWDecode", "LZW":
		return pdfFilter{name: name, lzw: lzwFromDict(parms)}
	case "ASCII85Decode", "A85":
		return pdfFilter{name: name, a85: true}
	default:
		return pdfFilter{name: name, unsupported: true}
	}
}

// Filter is the stream-dictionary-facing view of one codec: it knows how
// to render its own /DecodeParms (ToDict), and how to wrap an io.Reader of
// encoded bytes in a reader of decoded bytes (Decode). A stream's full
// filter chain (its /Filter array) is a sequence of Filters, which
// DecodeStream applies in array order (see GetFilters).
type Filter interface {
	ToDict() Dict
	Decode(v Version, r io.Reader) (io.Reader, error)
}

// pdfFilter dispatches to the one codec it was constructed for. Exactly
// one of flate/lzw is non-nil, or a85 is set, unless unsupported is set.
type pdfFilter struct {
	name        Name
	flate       *flateFilter
	lzw         *lzwFilter
	a85         bool
	unsupported bool
}

func (f pdfFilter) ToDict() Dict {
	switch {
	case f.flate != nil:
		return f.flate.ToDict()
	case f.lzw != nil:
		return f.lzw.ToDict()
	default:
		return nil
	}
}

func (f pdfFilter) Decode(v Version, r io.Reader) (io.Reader, error) {
	if f.unsupported {
		return nil, &FilterError{Filter: f.name, Err: errors.New("unsupported filter type")}
	}
	if f.a85 {
		out, err := ascii85.Decode(r)
		if err != nil {
			return nil, &FilterError{Filter: f.name, Err: err}
		}
		return out, nil
	}
	upstream := NewProducer(r, 0)
	var out Producer
	var err error
	switch {
	case f.flate != nil:
		out, err = f.flate.Decode(upstream)
	case f.lzw != nil:
		out, err = f.lzw.Decode(upstream)
	}
	if err != nil {
		return nil, err
	}
	return asReader(out), nil
}
