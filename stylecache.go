package windowing

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPlacementCapacity bounds the memoized placements of a session.
const DefaultPlacementCapacity = 1024

// Placement is where the renderer draws an item along the primary axis.
type Placement struct {
	Index  int
	Offset float64
	Size   float64
}

// placementCache memoizes placements while the user scrolls so rows that
// stay on screen keep the same value between frames. It is purged when
// scrolling goes idle and whenever the layout they came from changes.
type placementCache struct {
	entries *lru.Cache[int, Placement]
}

func newPlacementCache(capacity int) (*placementCache, error) {
	if capacity <= 0 {
		capacity = DefaultPlacementCapacity
	}
	cache, err := lru.New[int, Placement](capacity)
	if err != nil {
		return nil, err
	}
	return &placementCache{entries: cache}, nil
}

func (p *placementCache) lookup(index int) (Placement, bool) { return p.entries.Get(index) }

func (p *placementCache) add(pl Placement) { p.entries.Add(pl.Index, pl) }

func (p *placementCache) purge() { p.entries.Purge() }

func (p *placementCache) len() int { return p.entries.Len() }
