package pdf

// This file defines the concrete typed dictionaries spec.md §4.C asks for:
// Catalog, the root of a document's object graph, plus the Pages/Page tree
// and file specification dictionaries a Catalog commonly references.
// Fields this module has no concrete model for (form fields, actions,
// optional content, structure trees, ...) stay Object, the escape hatch
// typesForGoField recognizes as "accept anything, no coercion".

// Catalog represents a PDF Document Catalog. The only required field is
// Pages, the root of the page tree.
//
// The Document Catalog is documented in section 7.7.2 of PDF 32000-1:2008.
type Catalog struct {
	_ struct{} `pdf:"Type=Catalog"`

	// Version (PDF 1.4) overrides the file header's version if later.
	Version Version `pdf:"optional,version=1.4"`

	Extensions Object `pdf:"optional"`

	// Pages is the root of the document's page tree.
	Pages Reference `pdf:"class=Pages"`

	PageLabels Object `pdf:"optional,version=1.3"`
	Names      Object `pdf:"optional,version=1.2"`
	Dests      Object `pdf:"optional,version=1.1"`

	ViewerPreferences Object `pdf:"optional,version=1.2"`

	// PageLayout selects the page layout used when the document is opened:
	// SinglePage, OneColumn, TwoColumnLeft, TwoColumnRight, TwoPageLeft,
	// TwoPageRight.
	PageLayout Name `pdf:"optional"`

	// PageMode selects how the document is displayed when opened: UseNone,
	// UseOutlines, UseThumbs, FullScreen, UseOC, UseAttachments.
	PageMode Name `pdf:"optional"`

	Outlines Reference `pdf:"optional"`
	Threads  Reference `pdf:"optional,version=1.1"`

	OpenAction Object `pdf:"optional,version=1.1"`
	AA         Object `pdf:"optional,version=1.2"`
	URI        Object `pdf:"optional,version=1.1"`
	AcroForm   Object `pdf:"optional,version=1.2"`

	Metadata Reference `pdf:"optional,version=1.4"`

	StructTreeRoot Object `pdf:"optional,version=1.3"`
	MarkInfo       Object `pdf:"optional,version=1.4"`

	// Lang specifies the natural language for all text in the document.
	Lang LanguageTag `pdf:"optional,version=1.4"`

	SpiderInfo    Object `pdf:"optional,version=1.3"`
	OutputIntents Object `pdf:"optional,version=1.4"`
	PieceInfo     Object `pdf:"optional,version=1.4"`

	// OCProperties is required if the document contains optional content.
	OCProperties Object `pdf:"optional,version=1.5"`

	Perms        Object `pdf:"optional,version=1.5"`
	Legal        Object `pdf:"optional,version=1.5"`
	Requirements Object `pdf:"optional,version=1.7"`
	Collection   Object `pdf:"optional,version=1.7"`

	// NeedsRendering is used for XFA forms; deprecated in PDF 2.0.
	NeedsRendering Boolean `pdf:"optional"`

	DSS       Object `pdf:"optional,version=2.0"`
	AF        Object `pdf:"optional,version=2.0"`
	DPartRoot Object `pdf:"optional,version=2.0"`
}

func (Catalog) isTypedDict() {}

// Pages is an interior or root node of the page tree.
//
// Documented in section 7.7.3.2 of PDF 32000-1:2008.
type Pages struct {
	_ struct{} `pdf:"Type=Pages"`

	Parent Reference `pdf:"optional"`
	Kids   Array
	Count  Integer
}

func (Pages) isTypedDict() {}

// Page is a leaf node of the page tree.
//
// Documented in section 7.7.3.3 of PDF 32000-1:2008.
type Page struct {
	_ struct{} `pdf:"Type=Page"`

	Parent    Reference
	Resources Object    `pdf:"optional"`
	MediaBox  Rectangle `pdf:"optional"`
	CropBox   Rectangle `pdf:"optional"`
	Contents  Object    `pdf:"optional"`
	Rotate    Integer   `pdf:"optional"`
	Annots    Object    `pdf:"optional"`
}

func (Page) isTypedDict() {}

// Filespec is a file specification dictionary, as accepted by any field
// whose declared type includes Filespec: either a full dictionary, or (per
// FileSpecificationConverter) a bare string naming the file, which promotes
// to a Filespec with only F/UF populated.
//
// Documented in section 7.11.3 of PDF 32000-1:2008.
type Filespec struct {
	_ struct{} `pdf:"Type=Filespec"`

	FS   Name      `pdf:"optional"`
	F    RawString `pdf:"optional"`
	UF   TextString `pdf:"optional,version=1.7"`
	Desc TextString `pdf:"optional"`
	EF   Object     `pdf:"optional"`
}

func (Filespec) isTypedDict() {}
