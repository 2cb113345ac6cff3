package cache

import "strconv"

// ListingKey is the aggregate cache key holding the full ordered product listing.
const ListingKey = "products:all"

// ProductKey derives the per-record cache key for a product identifier.
func ProductKey(id uint) string {
	return "product:" + strconv.FormatUint(uint64(id), 10)
}
