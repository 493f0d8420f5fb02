// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
)

// Collection listing cache keys. Every cached page of a collection shares
// the collection's prefix so a single write invalidates all of its pages.

// ListKey builds the cache key for one page of a collection listing.
func ListKey(collection string, page, perPage int, query string) string {
	if query == "" {
		return fmt.Sprintf("list:%s:p%d:n%d", collection, page, perPage)
	}
	return fmt.Sprintf("list:%s:p%d:n%d:q:%s", collection, page, perPage, query)
}

// ItemKey builds the cache key for a single collection item.
func ItemKey(collection string, id int64) string {
	return fmt.Sprintf("item:%s:%d", collection, id)
}

// SlugKey builds the cache key for a slug lookup.
func SlugKey(collection, slug string) string {
	return fmt.Sprintf("slug:%s:%s", collection, slug)
}

// InvalidateCollection drops every cached listing, item, and slug entry
// for the given collection. Called after any write to the collection.
func InvalidateCollection(ctx context.Context, c Cacher, collection string) error {
	if c == nil {
		return nil
	}
	for _, prefix := range []string{
		"list:" + collection + ":",
		"item:" + collection + ":",
		"slug:" + collection + ":",
	} {
		if err := c.DeleteByPrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}
