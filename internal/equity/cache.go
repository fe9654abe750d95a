package equity

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// curveCacheTTL bounds how long a computed curve is reused. Five minutes
// of staleness is acceptable: the underlying quote cache is hour-grained
// anyway.
const curveCacheTTL = 5 * time.Minute

// Key identifies one cached curve. Account "" means all accounts.
type Key struct {
	Account string
	Period  Period
}

// String renders the key for the cache, which hashes strings.
func (k Key) String() string {
	return k.Account + "|" + string(k.Period)
}

// CurveCache memoizes computed equity curves in-process.
type CurveCache struct {
	c *ristretto.Cache
}

// NewCurveCache creates a curve cache sized for a modest number of
// account/period combinations.
func NewCurveCache() (*CurveCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CurveCache{c: c}, nil
}

// Get returns a cached curve, if present and unexpired.
func (cc *CurveCache) Get(key Key) ([]Point, bool) {
	v, ok := cc.c.Get(key.String())
	if !ok {
		return nil, false
	}
	return v.([]Point), true
}

// Set stores a computed curve.
func (cc *CurveCache) Set(key Key, points []Point) {
	cc.c.SetWithTTL(key.String(), points, int64(len(points)+1), curveCacheTTL)
}

// Invalidate drops one cached curve.
func (cc *CurveCache) Invalidate(key Key) {
	cc.c.Del(key.String())
}
