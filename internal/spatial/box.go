package spatial

// Box is a latitude/longitude bounding box.
type Box struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether the coordinate lies inside the box, borders
// included.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// BoundsOf computes the bounding box of a set of coordinates. Pairs with a
// missing side are skipped. The second return is false when no complete
// pair was seen.
func BoundsOf(lats, lons []*float64) (Box, bool) {
	var box Box
	found := false
	for i := range lats {
		if i >= len(lons) || !present(lats[i]) || !present(lons[i]) {
			continue
		}
		la, lo := *lats[i], *lons[i]
		if !found {
			box = Box{MinLat: la, MaxLat: la, MinLon: lo, MaxLon: lo}
			found = true
			continue
		}
		if la < box.MinLat {
			box.MinLat = la
		}
		if la > box.MaxLat {
			box.MaxLat = la
		}
		if lo < box.MinLon {
			box.MinLon = lo
		}
		if lo > box.MaxLon {
			box.MaxLon = lo
		}
	}
	return box, found
}
