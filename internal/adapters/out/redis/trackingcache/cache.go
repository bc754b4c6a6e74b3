// Package trackingcache keeps public tracking views in Redis.
//
// Every committed parcel write drops the cached view and raises a per-parcel
// version floor. Set refuses views older than the floor, which closes the
// window where a lookup that read storage before a commit would write its
// stale view back after the commit invalidated it. Both steps run as Lua
// scripts so the check and the write are atomic.
package trackingcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

var (
	_ ports.TrackingCache       = (*Cache)(nil)
	_ ports.ParcelWriteObserver = (*Cache)(nil)
)

const (
	keyPrefix   = "parceltrack:track:"
	floorPrefix = "parceltrack:track-floor:"
)

// KEYS[1] view, KEYS[2] floor; ARGV[1] version, ARGV[2] payload, ARGV[3] ttl ms.
var setScript = redis.NewScript(`
local floor = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) < floor then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// KEYS[1] view, KEYS[2] floor; ARGV[1] version, ARGV[2] ttl ms.
var invalidateScript = redis.NewScript(`
local floor = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) > floor then
  redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[2])
end
redis.call('DEL', KEYS[1])
return 1
`)

// Cache is the Redis tracking cache. Views and version floors share one TTL.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New returns a cache whose entries expire after ttl.
func New(client redis.Cmdable, ttl time.Duration) (*Cache, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if ttl < time.Second {
		return nil, errs.NewValueIsOutOfRangeError("ttl", ttl, time.Second, "unbounded")
	}
	return &Cache{client: client, ttl: ttl}, nil
}

func key(trackingNumber string) string {
	return keyPrefix + trackingNumber
}

func floorKey(trackingNumber string) string {
	return floorPrefix + trackingNumber
}

// Get decodes the cached view into dst. A missing entry is not an error.
func (c *Cache) Get(ctx context.Context, trackingNumber string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key(trackingNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get tracking view %s: %w", trackingNumber, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode tracking view %s: %w", trackingNumber, err)
	}
	return true, nil
}

// Set stores view unless a newer version of the parcel was written since.
func (c *Cache) Set(ctx context.Context, trackingNumber string, version int, view any) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode tracking view %s: %w", trackingNumber, err)
	}
	err = setScript.Run(ctx, c.client,
		[]string{key(trackingNumber), floorKey(trackingNumber)},
		version, raw, c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("set tracking view %s: %w", trackingNumber, err)
	}
	return nil
}

// ParcelsWritten drops the cached view of every written parcel and raises
// its version floor.
func (c *Cache) ParcelsWritten(ctx context.Context, writes ...ports.ParcelWrite) error {
	var errList []error
	for _, w := range writes {
		tn := w.TrackingNumber.String()
		err := invalidateScript.Run(ctx, c.client,
			[]string{key(tn), floorKey(tn)},
			w.Version, c.ttl.Milliseconds(),
		).Err()
		if err != nil {
			errList = append(errList, fmt.Errorf("invalidate tracking view %s: %w", tn, err))
		}
	}
	return errors.Join(errList...)
}
