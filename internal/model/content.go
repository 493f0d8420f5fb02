// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Content collection names as used in API routes and cache keys.
const (
	CollectionPosts        = "posts"
	CollectionGallery      = "gallery"
	CollectionTestimonials = "testimonials"
	CollectionPartners     = "partners"
	CollectionAgreements   = "agreements"
)

// Post represents a blog entry. Content is stored as Markdown and rendered
// to sanitized HTML on public reads.
type Post struct {
	ID        int64
	Title     string
	Slug      string
	Content   string
	ImageURL  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GalleryItem represents a single photo or video in the site gallery.
type GalleryItem struct {
	ID          int64
	MediaURL    string
	Description sql.NullString
	CreatedAt   time.Time
}

// Testimonial represents a customer testimonial.
type Testimonial struct {
	ID        int64
	Author    string
	Text      string
	ImageURL  sql.NullString
	CreatedAt time.Time
}

// Partner represents an allied organization listed on the site.
type Partner struct {
	ID          int64
	Name        string
	Department  string
	City        string
	LogoURL     sql.NullString
	Website     sql.NullString
	Phone       sql.NullString
	Description sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Agreement represents a service agreement with a clinic or business.
type Agreement struct {
	ID          int64
	Name        string
	Department  string
	City        string
	LogoURL     sql.NullString
	Address     sql.NullString
	Phone       sql.NullString
	Description sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
