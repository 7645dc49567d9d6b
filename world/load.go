// world/load.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package world

import (
	"fmt"

	"github.com/mmp/aloft/log"
	"github.com/mmp/aloft/util"
)

// Load returns the world for a seed, going through the on-disk cache so
// repeated runs with the same seed skip regeneration. Any cache failure
// falls back to generating from scratch.
func Load(seed int64, lg *log.Logger) *World {
	path := fmt.Sprintf("world/%d.msgpack.zst", seed)

	w := &World{}
	if _, err := util.CacheRetrieveObject(path, w); err == nil && w.Seed == seed {
		lg.Debugf("%s: world restored from cache", path)
		return w
	} else if err != nil {
		lg.Debugf("%s: cache miss: %v", path, err)
	}

	w = Generate(seed)
	if err := util.CacheStoreObject(path, w); err != nil {
		lg.Warnf("%s: unable to cache world: %v", path, err)
	}
	return w
}
