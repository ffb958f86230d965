package pdf

import (
	"iter"
	"reflect"
	"sort"

	"golang.org/x/exp/maps"
)

// Getter is the minimal read interface a Document (or a test double) must
// provide for the free functions in this file and in container.go to
// resolve references.
type Getter interface {
	GetMeta() *MetaInfo
	Get(ref Reference, canObjStm bool) (Native, error)
}

// MetaInfo carries the document-wide state that lives outside the object
// table proper: the declared PDF version and the trailer's Root/Info
// references.
type MetaInfo struct {
	Version Version
	Trailer Dict
}

// Config holds the process-wide, read-mostly settings spec.md §6 lists as
// "configuration keys consumed by the core". It is threaded explicitly
// through NewDocument rather than mutated as package-level state (see
// SPEC_FULL.md's "Configuration" section for the rationale).
type Config struct {
	// TypeMap resolves a Name sentinel (e.g. "Pages", "Catalog") to the
	// concrete typed-dictionary Go struct type registered for it.
	TypeMap map[Name]reflect.Type
	// FlateCompressionLevel is the Flate compression level (0-9; see
	// compress/flate's level constants). Nothing in this package reads it:
	// the Flate encoder takes its level as an argument from its caller.
	FlateCompressionLevel int
	// Converters is not consulted by this package: field converters are
	// always bound from DefaultConverters, once per struct type, when its
	// schema is first built.
	Converters []Converter
	// CacheSize bounds the Document's LRU cache of stored objects. Zero
	// disables caching.
	CacheSize int
}

// DefaultConfig returns the canonical configuration: the built-in type map
// (Catalog, Pages, Page, Filespec), the default Converter Registry order,
// Flate compression level 6, and a cache of 256 objects.
func DefaultConfig() Config {
	return Config{
		TypeMap: map[Name]reflect.Type{
			"Catalog":  reflect.TypeOf(Catalog{}),
			"Pages":    reflect.TypeOf(Pages{}),
			"Page":     reflect.TypeOf(Page{}),
			"Filespec": reflect.TypeOf(Filespec{}),
		},
		FlateCompressionLevel: 6,
		CacheSize:             256,
	}
}

// Document owns the object table (spec.md §3 "Document"): it stores raw
// values keyed by (objnum, gen), dereferences indirect references, wraps
// raw values into typed objects using the configured type map, and
// allocates new object numbers.
type Document struct {
	objects map[Reference]Object
	nextNum uint32
	config  Config
	cache   *lruCache
	version Version
	trailer Dict
	pinned  bool
}

// NewDocument creates an empty Document. version is the document's initial
// declared PDF version (see UpgradeVersion for how fields raise it later).
func NewDocument(version Version, config Config) *Document {
	if config.TypeMap == nil {
		config = DefaultConfig()
	}
	var cache *lruCache
	if config.CacheSize > 0 {
		cache = newCache(config.CacheSize)
	}
	return &Document{
		objects: make(map[Reference]Object),
		config:  config,
		cache:   cache,
		version: version,
		trailer: Dict{},
	}
}

// GetMeta implements Getter.
func (d *Document) GetMeta() *MetaInfo {
	return &MetaInfo{Version: d.version, Trailer: d.trailer}
}

// Get implements Getter by looking the reference up in the in-memory object
// table. canObjStm is accepted for interface compatibility with a
// byte-level reader that may decline to follow references into object
// streams; an in-memory Document has no such restriction and always
// succeeds (returning nil for an absent entry).
func (d *Document) Get(ref Reference, canObjStm bool) (Native, error) {
	v, ok := d.lookup(ref)
	if !ok {
		return nil, nil
	}
	n, ok := v.(Native)
	if !ok {
		return nil, &MalformedFileError{Loc: []string{"object " + ref.String()}}
	}
	return n, nil
}

// lookup returns the value stored for ref, consulting the Document's LRU
// cache before falling back to the object table and populating the cache
// on a miss. Get, derefChecked and Wrap all resolve through this so that a
// tree traversal's repeated re-derefs of the same references hit the cache
// instead of the object table.
func (d *Document) lookup(ref Reference) (Object, bool) {
	if d.cache != nil {
		if v, ok := d.cache.Get(ref); ok {
			return v, true
		}
	}
	v, ok := d.objects[ref]
	if ok && d.cache != nil {
		d.cache.Put(ref, v)
	}
	return v, ok
}

// String renders a Reference the way PDF syntax would: "12 0 R".
func (r Reference) String() string {
	return itoa(int64(r.Number())) + " " + itoa(int64(r.Generation())) + " R"
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Add stores a value as a new indirect object (generation 0) and returns
// its Reference. This is the only way to mint a brand-new object number;
// the caller later stores a Reference wherever it wants to point at the
// new object.
func (d *Document) Add(v Object) Reference {
	d.nextNum++
	ref := NewReference(d.nextNum, 0)
	d.objects[ref] = v
	if d.cache != nil {
		d.cache.Put(ref, v)
	}
	return ref
}

// Put stores a value under an already-allocated reference, overwriting
// whatever was there (if anything). It is the primitive the parser
// hand-off (spec.md §6) uses to populate the table from (objnum, gen,
// Value) tuples.
func (d *Document) Put(ref Reference, v Object) {
	d.objects[ref] = v
	if d.cache != nil {
		d.cache.Put(ref, v)
	}
}

// Delete removes an object from the table. Subsequent dereferences of ref
// read as Null, exactly as if the object had never existed (spec.md §3
// invariant).
func (d *Document) Delete(ref Reference) {
	delete(d.objects, ref)
	if d.cache != nil && d.cache.Has(ref) {
		d.cache = newCache(d.config.CacheSize)
	}
}

const maxRefDepth = 32

// Deref resolves v if it is a Reference, following chains of references
// until it reaches a non-reference value. A dangling reference, or a
// reference loop, resolves to nil (PDF null) — Deref never errors; use
// StrictDeref when a caller needs to know the difference between "null"
// and "does not resolve".
func (d *Document) Deref(v Object) Object {
	resolved, _ := d.derefChecked(v, false)
	return resolved
}

// StrictDeref behaves like Deref but returns UnresolvableReference when the
// reference does not resolve to a live object (spec.md §7).
func (d *Document) StrictDeref(v Object) (Object, error) {
	return d.derefChecked(v, true)
}

func (d *Document) derefChecked(v Object, strict bool) (Object, error) {
	ref, isRef := v.(Reference)
	if !isRef {
		return v, nil
	}
	origRef := ref
	seen := 0
	for {
		seen++
		if seen > maxRefDepth {
			return nil, nil
		}
		next, ok := d.lookup(ref)
		if !ok {
			if strict {
				return nil, &UnresolvableReference{Ref: origRef}
			}
			return nil, nil
		}
		nref, again := next.(Reference)
		if !again {
			return next, nil
		}
		ref = nref
	}
}

// Wrap resolves value into a typed Wrapper for class. If value already is a
// *Wrapper of exactly this class, it is returned unchanged. Otherwise a
// Dict (or a dangling/null value, which becomes an empty Dict) is wrapped
// fresh. This is the central factory spec.md §4.E describes: the
// DictionaryConverter and the parser hand-off both go through it.
func (d *Document) Wrap(value Object, class reflect.Type) (*Wrapper, error) {
	if w, ok := value.(*Wrapper); ok && w.Class == class {
		return w, nil
	}

	resolved := d.Deref(value)
	var dict Dict
	switch x := resolved.(type) {
	case nil:
		dict = Dict{}
	case Dict:
		dict = x
	case *Stream:
		dict = x.Dict
	default:
		return nil, &MalformedFileError{Err: errTypeMismatchWrap(resolved)}
	}

	var ref Reference
	if r, ok := value.(Reference); ok {
		ref = r
	}

	w := &Wrapper{
		ref:   ref,
		raw:   dict,
		Class: class,
		doc:   d,
	}
	if class != nil {
		typed := reflect.New(class).Interface()
		_ = DecodeDict(d, typed, dict)
		w.Typed = typed
	}
	return w, nil
}

func errTypeMismatchWrap(v Object) error {
	return &TypeMismatch{Field: "(wrap)", Got: v}
}

// All iterates every live object in the table. When current is false, it
// also includes objects the caller has marked deleted in a revision log;
// this Document keeps no revision history, so current has no effect here
// beyond matching the spec.md §4.E signature.
func (d *Document) All(current bool) iter.Seq[Reference] {
	return func(yield func(Reference) bool) {
		refs := maps.Keys(d.objects)
		sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
		for _, ref := range refs {
			if !yield(ref) {
				return
			}
		}
	}
}

// IterType iterates references whose stored Dict (or Stream dict) has a
// /Type entry equal to name.
func (d *Document) IterType(name Name) iter.Seq[Reference] {
	return func(yield func(Reference) bool) {
		for ref := range d.All(true) {
			v := d.objects[ref]
			var dict Dict
			switch x := v.(type) {
			case Dict:
				dict = x
			case *Stream:
				dict = x.Dict
			default:
				continue
			}
			if t, _ := dict["Type"].(Name); t == name {
				if !yield(ref) {
					return
				}
			}
		}
	}
}

// UpgradeVersion raises the document's declared version to v if v is
// higher than the current version. It never downgrades (spec.md §4.C
// "Version check").
func (d *Document) UpgradeVersion(v Version) {
	if v > d.version {
		d.version = v
	}
}

// Version returns the document's currently declared PDF version.
func (d *Document) Version() Version {
	return d.version
}

// requireVersion is called by Wrapper.SetKey when writing a field with a
// MinVersion. With auto-upgrade (the default for a Document obtained via
// NewDocument) the version is simply raised; VersionConflict is reserved
// for callers that have pinned the version via PinVersion.
func (d *Document) requireVersion(min Version, field string) error {
	if d.pinned {
		if min > d.version {
			return &VersionConflict{Field: field, MinVersion: min, HaveVersion: d.version}
		}
		return nil
	}
	d.UpgradeVersion(min)
	return nil
}

// PinVersion disables automatic version upgrades: subsequent writes of a
// field whose MinVersion exceeds the document's version return
// VersionConflict instead of silently raising it.
func (d *Document) PinVersion() {
	d.pinned = true
}
