// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagination

// PageLink is one entry in the compact page-control row. An ellipsis entry
// has Number 0 and Ellipsis true.
type PageLink struct {
	Number   int  `json:"number"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// BuildLinks generates the compact page-link row for a listing: a window of
// up to 5 pages centered on the current page, with the first and last pages
// always present and ellipsis markers for the gaps. Listings that fit on a
// single page get no controls at all.
func (m Meta) BuildLinks() []PageLink {
	if m.TotalPages <= 1 {
		return nil
	}

	start := m.Page - 2
	end := m.Page + 2
	if start < 1 {
		start = 1
		end = 5
	}
	if end > m.TotalPages {
		end = m.TotalPages
		start = end - 4
		if start < 1 {
			start = 1
		}
	}

	var links []PageLink
	if start > 1 {
		links = append(links, PageLink{Number: 1})
		if start > 2 {
			links = append(links, PageLink{Ellipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		links = append(links, PageLink{Number: i, Current: i == m.Page})
	}
	if end < m.TotalPages {
		if end < m.TotalPages-1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Number: m.TotalPages})
	}
	return links
}
