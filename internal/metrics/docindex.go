package metrics

import "github.com/RoaringBitmap/roaring/v2"

// docIndex tracks, per tag, the set of sample indices (documents) the tag
// appears in at least once. Document frequency (M7) and pairwise
// co-occurrence cardinality (M8) both reduce to roaring-bitmap
// intersection and cardinality operations.
type docIndex struct {
	bitmaps map[string]*roaring.Bitmap
}

func newDocIndex() *docIndex {
	return &docIndex{bitmaps: make(map[string]*roaring.Bitmap)}
}

func (d *docIndex) add(tag string, sampleIndex int) {
	bm, ok := d.bitmaps[tag]
	if !ok {
		bm = roaring.New()
		d.bitmaps[tag] = bm
	}
	bm.Add(uint32(sampleIndex))
}

func (d *docIndex) frequency(tag string) int {
	bm, ok := d.bitmaps[tag]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// cooccurrence returns the number of samples containing both tags.
func (d *docIndex) cooccurrence(a, b string) int {
	ba, ok := d.bitmaps[a]
	if !ok {
		return 0
	}
	bb, ok := d.bitmaps[b]
	if !ok {
		return 0
	}
	return int(roaring.And(ba, bb).GetCardinality())
}
