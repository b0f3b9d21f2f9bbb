package tile

import "container/list"

// Cache is a content-addressed, LRU-evicted store of Tiles, bounded at
// maxTiles — spec.md §4.5. Eviction is strict LRU over both Get and
// Insert; Insert counts as a use of the inserted key.
//
// Grounded on cuda/src/cache.h/cache.cpp's TileCache: an unordered_map
// paired with a deque acting as the MRU-front/LRU-back queue. container/list
// is the stdlib's own doubly-linked deque and is used here for the same
// reason the original used std::deque — no third-party LRU package appears
// anywhere in the retrieved corpus.
type Cache struct {
	maxTiles int
	tileSize uint32

	tiles map[Key]*list.Element // Key -> node in order, node.Value is *entry
	order *list.List            // front = most recently used

	Hits   uint64
	Misses uint64
}

type entry struct {
	key  Key
	tile *Tile
}

// NewCache constructs a Cache bounded at maxTiles, each tile covering
// tileSize x tileSize cells. maxTiles == 0 is legal: every insert first
// evicts whatever is cached, so the cache holds at most the tile just
// inserted (spec.md §4.5).
func NewCache(maxTiles int, tileSize uint32) *Cache {
	if maxTiles < 0 {
		maxTiles = 0
	}
	return &Cache{
		maxTiles: maxTiles,
		tileSize: tileSize,
		tiles:    make(map[Key]*list.Element),
		order:    list.New(),
	}
}

// TileSize returns the configured side length S of every tile.
func (c *Cache) TileSize() uint32 { return c.tileSize }

// Len reports the current number of cached tiles.
func (c *Cache) Len() int { return len(c.tiles) }

// Get returns the tile for key, promoting it to most-recently-used on a
// hit. On a miss it returns (nil, false) and increments Misses.
func (c *Cache) Get(key Key) (*Tile, bool) {
	el, ok := c.tiles[key]
	if !ok {
		c.Misses++
		return nil, false
	}
	c.order.MoveToFront(el)
	c.Hits++
	return el.Value.(*entry).tile, true
}

// Insert inserts tile under key, transferring ownership to the cache. If
// key is already present, its prior tile is released and replaced. While
// the cache is at or above capacity, the least-recently-used tile is
// evicted (and released) until there is room. Insert places key at the
// most-recently-used end.
func (c *Cache) Insert(key Key, t *Tile) {
	if el, ok := c.tiles[key]; ok {
		el.Value.(*entry).tile.Release()
		c.order.Remove(el)
		delete(c.tiles, key)
	}

	for len(c.tiles) >= c.maxTiles && c.order.Len() > 0 {
		back := c.order.Back()
		c.order.Remove(back)
		victim := back.Value.(*entry)
		delete(c.tiles, victim.key)
		victim.tile.Release()
	}

	el := c.order.PushFront(&entry{key: key, tile: t})
	c.tiles[key] = el
}

// Close releases every remaining cached tile. Call when the cache itself
// is being torn down.
func (c *Cache) Close() {
	for el := c.order.Front(); el != nil; el = el.Next() {
		el.Value.(*entry).tile.Release()
	}
	c.tiles = make(map[Key]*list.Element)
	c.order = list.New()
}
