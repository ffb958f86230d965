package pdf

// PDFDocEncoding is the single-byte text encoding PDF 32000-1:2008 section
// 7.9.2.2 defines for text strings outside the Latin-1-compatible ASCII
// range: bytes 0x18-0x1F and 0x80-0x9E carry accents and typographic
// punctuation rather than C0/C1 controls, 0xA0 is the euro sign, and the
// rest matches Latin-1 apart from the unassigned bytes PDFDocDecode lists.
//
// Grounded in the rune tables of the retrieved pack's PDFDocEncoding
// implementations; reproduced by value here since no example repo exposes
// this table as an importable package (font/pdfenc is part of the font
// subsystem this module's scope excludes).
var pdfDocToRune = [256]rune{
	0x09: '\t', 0x0a: '\n', 0x0d: '\r',
	0x18: '˘', 0x19: 'ˇ', 0x1a: 'ˆ', 0x1b: '˙',
	0x1c: '˝', 0x1d: '˛', 0x1e: '˚', 0x1f: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…',
	0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
	0x88: '‹', 0x89: '›', 0x8a: '−', 0x8b: '‰',
	0x8c: '„', 0x8d: '“', 0x8e: '”', 0x8f: '‘',
	0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
	0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9a: 'ı', 0x9b: 'ł',
	0x9c: 'œ', 0x9d: 'š', 0x9e: 'ž',
	0xa0: '€',
}

var runeToPdfDoc map[rune]byte

func init() {
	runeToPdfDoc = make(map[rune]byte, 256)
	for b := 0; b < 256; b++ {
		if b >= 0x20 && b <= 0x7e {
			runeToPdfDoc[rune(b)] = byte(b)
			continue
		}
		if b >= 0xa1 && b != 0xad {
			runeToPdfDoc[rune(b)] = byte(b) // Latin-1 Supplement aligns byte-for-byte
			continue
		}
		if r := pdfDocToRune[b]; r != 0 {
			runeToPdfDoc[r] = byte(b)
		}
	}
}

// PDFDocEncode encodes s into PDFDocEncoding, the smallest of the three text
// string encodings this package supports. ok is false if s contains a
// character PDFDocEncoding cannot represent, in which case the caller
// (TextString.AsPDF) falls back to UTF-8 or UTF-16BE.
func PDFDocEncode(s string) (String, bool) {
	out := make(String, 0, len(s))
	for _, r := range s {
		b, ok := runeToPdfDoc[r]
		if !ok {
			return nil, false
		}
		out = append(out, b)
	}
	return out, true
}

// PDFDocDecode decodes a byte string in PDFDocEncoding to a Go string.
// Unassigned byte values (0x00-0x17 excluding whitespace, 0x7f, 0x9f, 0xad) decode
// to U+FFFD rather than being dropped, so the round trip never silently
// shortens the string.
func PDFDocDecode(x String) string {
	runes := make([]rune, 0, len(x))
	for _, b := range x {
		switch {
		case b >= 0x20 && b <= 0x7e:
			runes = append(runes, rune(b))
		case b >= 0xa1 && b != 0xad:
			runes = append(runes, rune(b))
		case pdfDocToRune[b] != 0:
			runes = append(runes, pdfDocToRune[b])
		default:
			runes = append(runes, '�')
		}
	}
	return string(runes)
}
