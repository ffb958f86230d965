package pdf

import "testing"

func TestLruCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := newCache(2)
	r1, r2, r3 := NewReference(1, 0), NewReference(2, 0), NewReference(3, 0)

	c.Put(r1, Integer(1))
	c.Put(r2, Integer(2))
	c.Put(r3, Integer(3)) // evicts r1, the least recently used

	if c.Has(r1) {
		t.Error("r1 should have been evicted")
	}
	if !c.Has(r2) || !c.Has(r3) {
		t.Error("r2 and r3 should still be cached")
	}
}

func TestLruCacheGetRefreshesRecency(t *testing.T) {
	c := newCache(2)
	r1, r2, r3 := NewReference(1, 0), NewReference(2, 0), NewReference(3, 0)

	c.Put(r1, Integer(1))
	c.Put(r2, Integer(2))
	c.Get(r1) // r1 is now more recently used than r2
	c.Put(r3, Integer(3)) // should evict r2, not r1

	if !c.Has(r1) {
		t.Error("r1 should still be cached after Get refreshed its recency")
	}
	if c.Has(r2) {
		t.Error("r2 should have been evicted")
	}
}

func TestLruCacheZeroCapacityDoesNothing(t *testing.T) {
	c := newCache(0)
	ref := NewReference(1, 0)
	c.Put(ref, Integer(1))
	if c.Has(ref) {
		t.Error("a zero-capacity cache should never retain entries")
	}
}

func TestDocumentUsesCacheOnAdd(t *testing.T) {
	doc := NewDocument(V1_7, Config{
		TypeMap:               DefaultConfig().TypeMap,
		FlateCompressionLevel: 6,
		CacheSize:             1,
	})
	ref := doc.Add(Integer(42))
	if !doc.cache.Has(ref) {
		t.Error("Add did not populate the Document's object cache")
	}
}
