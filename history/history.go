// Package history provides the implementation for tracking and persisting completed rips.
package history

import (
	"github.com/hlsrip-cli/hlsrip/filesystem"
	"github.com/hlsrip-cli/hlsrip/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// cacher provides an abstracted, disk-backed registry for completed rip records.
var cacher = gache.New[map[string]*SavedRip](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of rip records from the persistent store.
func Get() (map[string]*SavedRip, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedRip), nil
	}
	return cached, nil
}

// Save persists a completed rip to the history registry, replacing any
// previous record for the same output path.
func Save(rip *SavedRip) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	saved[rip.encode()] = rip
	return cacher.Set(saved)
}

// Remove permanently deletes a specific rip record from the history registry.
func Remove(rip *SavedRip) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, rip.encode())
	return cacher.Set(saved)
}

// Last returns the most recently completed rip, if any exist.
func Last() mo.Option[*SavedRip] {
	saved, err := Get()
	if err != nil || len(saved) == 0 {
		return mo.None[*SavedRip]()
	}

	var last *SavedRip
	for _, rip := range saved {
		if last == nil || rip.RippedAt.After(last.RippedAt) {
			last = rip
		}
	}
	return mo.Some(last)
}
