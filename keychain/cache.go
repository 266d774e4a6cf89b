package keychain

import (
	"errors"
	"sync/atomic"

	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/lightninglabs/neutrino/cache"
	"github.com/lightninglabs/neutrino/cache/lru"
	"golang.org/x/sync/singleflight"
)

// DefaultDerivationCacheSize is the default number of derived keys kept by a
// DerivationCache.
const DefaultDerivationCacheSize = 1000

// derivationKey identifies one derivation: a parent key and a path.
type derivationKey struct {
	parent string
	path   string
}

// flightKey returns the string form of the key used by singleflight.
func (d derivationKey) flightKey() string {
	return d.parent + "|" + d.path
}

// cachedDerivation is the cache entry holding a derived key.
type cachedDerivation struct {
	key *DescriptorKey
}

// Size returns the "size" of an entry.
func (c *cachedDerivation) Size() (uint64, error) {
	return 1, nil
}

// DerivationCache memoizes DescriptorKey.Derive. Concurrent requests for the
// same parent and path share a single derivation, and a result stays
// available until it is evicted by newer entries. Failed derivations are not
// cached.
type DerivationCache struct {
	derived *lru.Cache[derivationKey, *cachedDerivation]

	flights singleflight.Group

	// computations counts the derivations actually performed.
	computations atomic.Uint64
}

// NewDerivationCache creates a cache that holds up to capacity derived keys.
func NewDerivationCache(capacity uint64) *DerivationCache {
	if capacity == 0 {
		capacity = DefaultDerivationCacheSize
	}

	return &DerivationCache{
		derived: lru.NewCache[derivationKey, *cachedDerivation](
			capacity,
		),
	}
}

// Derive returns parent.Derive(path), computing it at most once per distinct
// parent and path while the result is cached.
func (c *DerivationCache) Derive(parent *DescriptorKey,
	path hdpath.DerivationPath) (*DescriptorKey, error) {

	id := derivationKey{
		parent: parent.String(),
		path:   path.String(),
	}

	if key, ok := c.lookup(id); ok {
		return key, nil
	}

	result, err, shared := c.flights.Do(
		id.flightKey(), c.deriveFunc(id, parent, path),
	)
	if err != nil {
		return nil, err
	}

	if shared {
		log.Tracef("Shared derivation of %v", id.path)
	}

	return result.(*DescriptorKey), nil
}

// deriveFunc returns the function run by singleflight to compute and cache a
// single derivation.
func (c *DerivationCache) deriveFunc(id derivationKey, parent *DescriptorKey,
	path hdpath.DerivationPath) func() (any, error) {

	return func() (any, error) {
		// Another flight for the same pair may have finished between
		// the caller's lookup and this one starting.
		if key, ok := c.lookup(id); ok {
			return key, nil
		}

		c.computations.Add(1)
		key, err := parent.Derive(path)
		if err != nil {
			return nil, err
		}

		_, err = c.derived.Put(id, &cachedDerivation{key: key})
		if err != nil {
			log.Warnf("Unable to cache derivation of %v: %v",
				id.path, err)
		}

		return key, nil
	}
}

// lookup returns the cached result for id, if any.
func (c *DerivationCache) lookup(id derivationKey) (*DescriptorKey, bool) {
	entry, err := c.derived.Get(id)
	switch {
	case errors.Is(err, cache.ErrElementNotFound):
		return nil, false

	case err != nil:
		log.Warnf("Unable to read derivation cache: %v", err)
		return nil, false
	}

	return entry.key, true
}

// Computations returns the number of derivations performed so far.
func (c *DerivationCache) Computations() uint64 {
	return c.computations.Load()
}

// Len returns the number of cached keys.
func (c *DerivationCache) Len() int {
	return c.derived.Len()
}
