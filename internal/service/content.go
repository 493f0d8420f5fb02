// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/renacermascotas/renacer-go/internal/cache"
	"github.com/renacermascotas/renacer-go/internal/model"
	"github.com/renacermascotas/renacer-go/internal/pagination"
	"github.com/renacermascotas/renacer-go/internal/store"
	"github.com/renacermascotas/renacer-go/internal/util"
)

// DefaultPageSize is the number of items per page for collection listings.
const DefaultPageSize = 5

// ErrNotFound is returned when a requested content item does not exist.
var ErrNotFound = errors.New("content item not found")

// Page is one page of a collection listing.
type Page[T any] struct {
	Items []T             `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// ContentService provides CRUD over the content collections. All five
// collections share the same pagination, caching and invalidation behavior.
type ContentService struct {
	queries *store.Queries
	cache   cache.Cacher
	media   *MediaService
	events  *EventService
	perPage int
}

// NewContentService creates a ContentService. The cache may be nil, in
// which case every read goes to the database. A non-positive perPage
// falls back to DefaultPageSize.
func NewContentService(db *sql.DB, c cache.Cacher, media *MediaService, events *EventService, perPage int) *ContentService {
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	return &ContentService{
		queries: store.New(db),
		cache:   c,
		media:   media,
		events:  events,
		perPage: perPage,
	}
}

// fetchPage runs the count/list pair for one page of a collection. The
// requested page is clamped against the total count before the list query
// runs, so a stale page number after deletes still returns the last page.
func fetchPage[T any](ctx context.Context, page, perPage int,
	count func(context.Context) (int64, error),
	list func(context.Context, int64, int64) ([]T, error),
) (Page[T], error) {
	total, err := count(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	meta := pagination.BuildMeta(page, perPage, total)
	items, err := list(ctx, int64(meta.PerPage), int64(meta.Offset()))
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Meta: meta}, nil
}

// cachedPage wraps fetchPage with a read-through cache keyed on the
// collection, page and filter query.
func cachedPage[T any](ctx context.Context, c cache.Cacher, collection string, page, perPage int, query string,
	fetch func(context.Context) (Page[T], error),
) (Page[T], error) {
	key := cache.ListKey(collection, page, perPage, query)
	if c != nil {
		if data, err := c.Get(ctx, key); err == nil {
			var cached Page[T]
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	result, err := fetch(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	if c != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := c.Set(ctx, key, data, 0); err != nil {
				slog.Warn("failed to cache page", "key", key, "error", err)
			}
		}
	}
	return result, nil
}

// cachedItem wraps a single-row lookup with a read-through cache. Missing
// rows are never cached, so a later insert is visible immediately.
func cachedItem[T any](ctx context.Context, c cache.Cacher, key string, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return fetch(ctx)
	}
	item, err := cache.NewTypedCache[T](c, 0).GetOrSet(ctx, key, func() (*T, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return *item, nil
}

// pageSize normalizes a requested per-page value against the default
// and the global cap.
func (s *ContentService) pageSize(perPage int) int {
	if perPage <= 0 {
		return s.perPage
	}
	if perPage > pagination.MaxPerPage {
		return pagination.MaxPerPage
	}
	return perPage
}

// invalidate drops all cached pages and items for a collection after a write.
func (s *ContentService) invalidate(ctx context.Context, collection string) {
	if err := cache.InvalidateCollection(ctx, s.cache, collection); err != nil {
		slog.Warn("cache invalidation failed", "collection", collection, "error", err)
	}
}

// logWrite records a content mutation in the event log.
func (s *ContentService) logWrite(ctx context.Context, action, collection string, id int64, userID *int64) {
	if s.events == nil {
		return
	}
	msg := fmt.Sprintf("%s %s #%d", action, collection, id)
	_ = s.events.LogContentEvent(ctx, model.EventLevelInfo, msg, userID, map[string]any{
		"collection": collection,
		"item_id":    id,
	})
}

// cleanupMedia removes a store-owned file referenced by a deleted row.
// External URLs and cleanup failures never block the delete.
func (s *ContentService) cleanupMedia(ctx context.Context, rawURL string) {
	if s.media == nil || rawURL == "" {
		return
	}
	if err := s.media.DeleteByURL(ctx, rawURL); err != nil {
		slog.Warn("media cleanup failed", "url", rawURL, "error", err)
	}
}

// mapNotFound converts the driver's no-rows error to ErrNotFound.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ensureUniquePostSlug appends a numeric suffix until the slug is free.
// excludeID skips the row being updated.
func (s *ContentService) ensureUniquePostSlug(ctx context.Context, base string, excludeID int64) (string, error) {
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 2; ; i++ {
		existing, err := s.queries.GetPostBySlug(ctx, slug)
		if errors.Is(err, sql.ErrNoRows) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		if existing.ID == excludeID {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// --- Posts ---

// CreatePostParams holds the caller-supplied fields for a new post.
type CreatePostParams struct {
	Title    string
	Content  string
	ImageURL *string
}

// PostPatch holds a partial update. Nil fields keep their stored value.
type PostPatch struct {
	Title    *string
	Content  *string
	ImageURL *string
}

// ListPosts returns one page of posts, newest first. A non-empty query
// filters by title substring, case-insensitively.
func (s *ContentService) ListPosts(ctx context.Context, page, perPage int, query string) (Page[model.Post], error) {
	perPage = s.pageSize(perPage)
	return cachedPage(ctx, s.cache, model.CollectionPosts, page, perPage, query,
		func(ctx context.Context) (Page[model.Post], error) {
			if query == "" {
				return fetchPage(ctx, page, perPage, s.queries.CountPosts,
					func(ctx context.Context, limit, offset int64) ([]model.Post, error) {
						return s.queries.ListPosts(ctx, store.ListPostsParams{Limit: limit, Offset: offset})
					})
			}
			return fetchPage(ctx, page, perPage,
				func(ctx context.Context) (int64, error) {
					return s.queries.CountSearchPosts(ctx, query)
				},
				func(ctx context.Context, limit, offset int64) ([]model.Post, error) {
					return s.queries.SearchPosts(ctx, store.SearchPostsParams{Query: query, Limit: limit, Offset: offset})
				})
		})
}

// GetPost returns a single post by ID.
func (s *ContentService) GetPost(ctx context.Context, id int64) (model.Post, error) {
	post, err := cachedItem(ctx, s.cache, cache.ItemKey(model.CollectionPosts, id),
		func(ctx context.Context) (model.Post, error) {
			return s.queries.GetPostByID(ctx, id)
		})
	return post, mapNotFound(err)
}

// GetPostBySlug returns a single post by URL slug.
func (s *ContentService) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	post, err := cachedItem(ctx, s.cache, cache.SlugKey(model.CollectionPosts, slug),
		func(ctx context.Context) (model.Post, error) {
			return s.queries.GetPostBySlug(ctx, slug)
		})
	return post, mapNotFound(err)
}

// CreatePost creates a post, generating a unique slug from the title.
func (s *ContentService) CreatePost(ctx context.Context, arg CreatePostParams, userID *int64) (model.Post, error) {
	slug, err := s.ensureUniquePostSlug(ctx, util.Slugify(arg.Title), 0)
	if err != nil {
		return model.Post{}, err
	}

	now := time.Now()
	post, err := s.queries.CreatePost(ctx, store.CreatePostParams{
		Title:     arg.Title,
		Slug:      slug,
		Content:   arg.Content,
		ImageURL:  util.NullStringFromPtr(arg.ImageURL),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Post{}, err
	}

	s.invalidate(ctx, model.CollectionPosts)
	s.logWrite(ctx, "Created", model.CollectionPosts, post.ID, userID)
	return post, nil
}

// UpdatePost applies a partial update. A changed title regenerates the slug.
func (s *ContentService) UpdatePost(ctx context.Context, id int64, patch PostPatch, userID *int64) (model.Post, error) {
	current, err := s.queries.GetPostByID(ctx, id)
	if err != nil {
		return model.Post{}, mapNotFound(err)
	}

	title := current.Title
	content := current.Content
	imageURL := current.ImageURL
	slug := current.Slug

	if patch.Title != nil && *patch.Title != current.Title {
		title = *patch.Title
		slug, err = s.ensureUniquePostSlug(ctx, util.Slugify(title), id)
		if err != nil {
			return model.Post{}, err
		}
	}
	if patch.Content != nil {
		content = *patch.Content
	}
	if patch.ImageURL != nil {
		imageURL = util.NullStringFromValue(*patch.ImageURL)
	}

	post, err := s.queries.UpdatePost(ctx, store.UpdatePostParams{
		ID:        id,
		Title:     title,
		Slug:      slug,
		Content:   content,
		ImageURL:  imageURL,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return model.Post{}, mapNotFound(err)
	}

	s.invalidate(ctx, model.CollectionPosts)
	s.logWrite(ctx, "Updated", model.CollectionPosts, post.ID, userID)
	return post, nil
}

// DeletePost removes a post and cleans up its stored image if we own it.
func (s *ContentService) DeletePost(ctx context.Context, id int64, userID *int64) error {
	post, err := s.queries.GetPostByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.queries.DeletePost(ctx, id); err != nil {
		return err
	}

	if post.ImageURL.Valid {
		s.cleanupMedia(ctx, post.ImageURL.String)
	}
	s.invalidate(ctx, model.CollectionPosts)
	s.logWrite(ctx, "Deleted", model.CollectionPosts, id, userID)
	return nil
}

// --- Gallery ---

// CreateGalleryItemParams holds the caller-supplied fields for a new
// gallery item.
type CreateGalleryItemParams struct {
	MediaURL    string
	Description *string
}

// GalleryItemPatch holds a partial update. Nil fields keep their stored value.
type GalleryItemPatch struct {
	MediaURL    *string
	Description *string
}

// ListGalleryItems returns one page of gallery items, newest first.
func (s *ContentService) ListGalleryItems(ctx context.Context, page, perPage int) (Page[model.GalleryItem], error) {
	perPage = s.pageSize(perPage)
	return cachedPage(ctx, s.cache, model.CollectionGallery, page, perPage, "",
		func(ctx context.Context) (Page[model.GalleryItem], error) {
			return fetchPage(ctx, page, perPage, s.queries.CountGalleryItems,
				func(ctx context.Context, limit, offset int64) ([]model.GalleryItem, error) {
					return s.queries.ListGalleryItems(ctx, store.ListGalleryItemsParams{Limit: limit, Offset: offset})
				})
		})
}

// GetGalleryItem returns a single gallery item by ID.
func (s *ContentService) GetGalleryItem(ctx context.Context, id int64) (model.GalleryItem, error) {
	item, err := cachedItem(ctx, s.cache, cache.ItemKey(model.CollectionGallery, id),
		func(ctx context.Context) (model.GalleryItem, error) {
			return s.queries.GetGalleryItemByID(ctx, id)
		})
	return item, mapNotFound(err)
}

// CreateGalleryItem creates a gallery item.
func (s *ContentService) CreateGalleryItem(ctx context.Context, arg CreateGalleryItemParams, userID *int64) (model.GalleryItem, error) {
	item, err := s.queries.CreateGalleryItem(ctx, store.CreateGalleryItemParams{
		MediaURL:    arg.MediaURL,
		Description: util.NullStringFromPtr(arg.Description),
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return model.GalleryItem{}, err
	}

	s.invalidate(ctx, model.CollectionGallery)
	s.logWrite(ctx, "Created", model.CollectionGallery, item.ID, userID)
	return item, nil
}

// UpdateGalleryItem applies a partial update.
func (s *ContentService) UpdateGalleryItem(ctx context.Context, id int64, patch GalleryItemPatch, userID *int64) (model.GalleryItem, error) {
	current, err := s.queries.GetGalleryItemByID(ctx, id)
	if err != nil {
		return model.GalleryItem{}, mapNotFound(err)
	}

	mediaURL := current.MediaURL
	description := current.Description
	if patch.MediaURL != nil {
		mediaURL = *patch.MediaURL
	}
	if patch.Description != nil {
		description = util.NullStringFromValue(*patch.Description)
	}

	item, err := s.queries.UpdateGalleryItem(ctx, store.UpdateGalleryItemParams{
		ID:          id,
		MediaURL:    mediaURL,
		Description: description,
	})
	if err != nil {
		return model.GalleryItem{}, mapNotFound(err)
	}

	s.invalidate(ctx, model.CollectionGallery)
	s.logWrite(ctx, "Updated", model.CollectionGallery, item.ID, userID)
	return item, nil
}

// DeleteGalleryItem removes a gallery item and its stored media file.
func (s *ContentService) DeleteGalleryItem(ctx context.Context, id int64, userID *int64) error {
	item, err := s.queries.GetGalleryItemByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.queries.DeleteGalleryItem(ctx, id); err != nil {
		return err
	}

	s.cleanupMedia(ctx, item.MediaURL)
	s.invalidate(ctx, model.CollectionGallery)
	s.logWrite(ctx, "Deleted", model.CollectionGallery, id, userID)
	return nil
}

// --- Testimonials ---

// CreateTestimonialParams holds the caller-supplied fields for a new
// testimonial.
type CreateTestimonialParams struct {
	Author   string
	Text     string
	ImageURL *string
}

// TestimonialPatch holds a partial update. Nil fields keep their stored value.
type TestimonialPatch struct {
	Author   *string
	Text     *string
	ImageURL *string
}

// ListTestimonials returns one page of testimonials, newest first.
func (s *ContentService) ListTestimonials(ctx context.Context, page, perPage int) (Page[model.Testimonial], error) {
	perPage = s.pageSize(perPage)
	return cachedPage(ctx, s.cache, model.CollectionTestimonials, page, perPage, "",
		func(ctx context.Context) (Page[model.Testimonial], error) {
			return fetchPage(ctx, page, perPage, s.queries.CountTestimonials,
				func(ctx context.Context, limit, offset int64) ([]model.Testimonial, error) {
					return s.queries.ListTestimonials(ctx, store.ListTestimonialsParams{Limit: limit, Offset: offset})
				})
		})
}

// GetTestimonial returns a single testimonial by ID.
func (s *ContentService) GetTestimonial(ctx context.Context, id int64) (model.Testimonial, error) {
	item, err := cachedItem(ctx, s.cache, cache.ItemKey(model.CollectionTestimonials, id),
		func(ctx context.Context) (model.Testimonial, error) {
			return s.queries.GetTestimonialByID(ctx, id)
		})
	return item, mapNotFound(err)
}

// CreateTestimonial creates a testimonial.
func (s *ContentService) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams, userID *int64) (model.Testimonial, error) {
	item, err := s.queries.CreateTestimonial(ctx, store.CreateTestimonialParams{
		Author:    arg.Author,
		Text:      arg.Text,
		ImageURL:  util.NullStringFromPtr(arg.ImageURL),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return model.Testimonial{}, err
	}

	s.invalidate(ctx, model.CollectionTestimonials)
	s.logWrite(ctx, "Created", model.CollectionTestimonials, item.ID, userID)
	return item, nil
}

// UpdateTestimonial applies a partial update.
func (s *ContentService) UpdateTestimonial(ctx context.Context, id int64, patch TestimonialPatch, userID *int64) (model.Testimonial, error) {
	current, err := s.queries.GetTestimonialByID(ctx, id)
	if err != nil {
		return model.Testimonial{}, mapNotFound(err)
	}

	author := current.Author
	text := current.Text
	imageURL := current.ImageURL
	if patch.Author != nil {
		author = *patch.Author
	}
	if patch.Text != nil {
		text = *patch.Text
	}
	if patch.ImageURL != nil {
		imageURL = util.NullStringFromValue(*patch.ImageURL)
	}

	item, err := s.queries.UpdateTestimonial(ctx, store.UpdateTestimonialParams{
		ID:       id,
		Author:   author,
		Text:     text,
		ImageURL: imageURL,
	})
	if err != nil {
		return model.Testimonial{}, mapNotFound(err)
	}

	s.invalidate(ctx, model.CollectionTestimonials)
	s.logWrite(ctx, "Updated", model.CollectionTestimonials, item.ID, userID)
	return item, nil
}

// DeleteTestimonial removes a testimonial and cleans up its stored image.
func (s *ContentService) DeleteTestimonial(ctx context.Context, id int64, userID *int64) error {
	item, err := s.queries.GetTestimonialByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.queries.DeleteTestimonial(ctx, id); err != nil {
		return err
	}

	if item.ImageURL.Valid {
		s.cleanupMedia(ctx, item.ImageURL.String)
	}
	s.invalidate(ctx, model.CollectionTestimonials)
	s.logWrite(ctx, "Deleted", model.CollectionTestimonials, id, userID)
	return nil
}

// --- Partners ---

// CreatePartnerParams holds the caller-supplied fields for a new partner.
type CreatePartnerParams struct {
	Name        string
	Department  string
	City        string
	LogoURL     *string
	Website     *string
	Phone       *string
	Description *string
}

// PartnerPatch holds a partial update. Nil fields keep their stored value.
type PartnerPatch struct {
	Name        *string
	Department  *string
	City        *string
	LogoURL     *string
	Website     *string
	Phone       *string
	Description *string
}

// ListPartners returns one page of partners ordered by department, city
// and name. A non-empty query filters by name substring.
func (s *ContentService) ListPartners(ctx context.Context, page, perPage int, query string) (Page[model.Partner], error) {
	perPage = s.pageSize(perPage)
	return cachedPage(ctx, s.cache, model.CollectionPartners, page, perPage, query,
		func(ctx context.Context) (Page[model.Partner], error) {
			if query == "" {
				return fetchPage(ctx, page, perPage, s.queries.CountPartners,
					func(ctx context.Context, limit, offset int64) ([]model.Partner, error) {
						return s.queries.ListPartners(ctx, store.ListPartnersParams{Limit: limit, Offset: offset})
					})
			}
			return fetchPage(ctx, page, perPage,
				func(ctx context.Context) (int64, error) {
					return s.queries.CountSearchPartners(ctx, query)
				},
				func(ctx context.Context, limit, offset int64) ([]model.Partner, error) {
					return s.queries.SearchPartners(ctx, store.SearchPartnersParams{Query: query, Limit: limit, Offset: offset})
				})
		})
}

// GetPartner returns a single partner by ID.
func (s *ContentService) GetPartner(ctx context.Context, id int64) (model.Partner, error) {
	item, err := cachedItem(ctx, s.cache, cache.ItemKey(model.CollectionPartners, id),
		func(ctx context.Context) (model.Partner, error) {
			return s.queries.GetPartnerByID(ctx, id)
		})
	return item, mapNotFound(err)
}

// CreatePartner creates a partner.
func (s *ContentService) CreatePartner(ctx context.Context, arg CreatePartnerParams, userID *int64) (model.Partner, error) {
	now := time.Now()
	item, err := s.queries.CreatePartner(ctx, store.CreatePartnerParams{
		Name:        arg.Name,
		Department:  arg.Department,
		City:        arg.City,
		LogoURL:     util.NullStringFromPtr(arg.LogoURL),
		Website:     util.NullStringFromPtr(arg.Website),
		Phone:       util.NullStringFromPtr(arg.Phone),
		Description: util.NullStringFromPtr(arg.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Partner{}, err
	}

	s.invalidate(ctx, model.CollectionPartners)
	s.logWrite(ctx, "Created", model.CollectionPartners, item.ID, userID)
	return item, nil
}

// UpdatePartner applies a partial update.
func (s *ContentService) UpdatePartner(ctx context.Context, id int64, patch PartnerPatch, userID *int64) (model.Partner, error) {
	current, err := s.queries.GetPartnerByID(ctx, id)
	if err != nil {
		return model.Partner{}, mapNotFound(err)
	}

	arg := store.UpdatePartnerParams{
		ID:          id,
		Name:        current.Name,
		Department:  current.Department,
		City:        current.City,
		LogoURL:     current.LogoURL,
		Website:     current.Website,
		Phone:       current.Phone,
		Description: current.Description,
		UpdatedAt:   time.Now(),
	}
	if patch.Name != nil {
		arg.Name = *patch.Name
	}
	if patch.Department != nil {
		arg.Department = *patch.Department
	}
	if patch.City != nil {
		arg.City = *patch.City
	}
	if patch.LogoURL != nil {
		arg.LogoURL = util.NullStringFromValue(*patch.LogoURL)
	}
	if patch.Website != nil {
		arg.Website = util.NullStringFromValue(*patch.Website)
	}
	if patch.Phone != nil {
		arg.Phone = util.NullStringFromValue(*patch.Phone)
	}
	if patch.Description != nil {
		arg.Description = util.NullStringFromValue(*patch.Description)
	}

	item, err := s.queries.UpdatePartner(ctx, arg)
	if err != nil {
		return model.Partner{}, mapNotFound(err)
	}

	s.invalidate(ctx, model.CollectionPartners)
	s.logWrite(ctx, "Updated", model.CollectionPartners, item.ID, userID)
	return item, nil
}

// DeletePartner removes a partner and cleans up its stored logo.
func (s *ContentService) DeletePartner(ctx context.Context, id int64, userID *int64) error {
	item, err := s.queries.GetPartnerByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.queries.DeletePartner(ctx, id); err != nil {
		return err
	}

	if item.LogoURL.Valid {
		s.cleanupMedia(ctx, item.LogoURL.String)
	}
	s.invalidate(ctx, model.CollectionPartners)
	s.logWrite(ctx, "Deleted", model.CollectionPartners, id, userID)
	return nil
}

// --- Agreements ---

// CreateAgreementParams holds the caller-supplied fields for a new agreement.
type CreateAgreementParams struct {
	Name        string
	Department  string
	City        string
	LogoURL     *string
	Address     *string
	Phone       *string
	Description *string
}

// AgreementPatch holds a partial update. Nil fields keep their stored value.
type AgreementPatch struct {
	Name        *string
	Department  *string
	City        *string
	LogoURL     *string
	Address     *string
	Phone       *string
	Description *string
}

// ListAgreements returns one page of agreements ordered by department,
// city and name. A non-empty query filters by name substring.
func (s *ContentService) ListAgreements(ctx context.Context, page, perPage int, query string) (Page[model.Agreement], error) {
	perPage = s.pageSize(perPage)
	return cachedPage(ctx, s.cache, model.CollectionAgreements, page, perPage, query,
		func(ctx context.Context) (Page[model.Agreement], error) {
			if query == "" {
				return fetchPage(ctx, page, perPage, s.queries.CountAgreements,
					func(ctx context.Context, limit, offset int64) ([]model.Agreement, error) {
						return s.queries.ListAgreements(ctx, store.ListAgreementsParams{Limit: limit, Offset: offset})
					})
			}
			return fetchPage(ctx, page, perPage,
				func(ctx context.Context) (int64, error) {
					return s.queries.CountSearchAgreements(ctx, query)
				},
				func(ctx context.Context, limit, offset int64) ([]model.Agreement, error) {
					return s.queries.SearchAgreements(ctx, store.SearchAgreementsParams{Query: query, Limit: limit, Offset: offset})
				})
		})
}

// GetAgreement returns a single agreement by ID.
func (s *ContentService) GetAgreement(ctx context.Context, id int64) (model.Agreement, error) {
	item, err := cachedItem(ctx, s.cache, cache.ItemKey(model.CollectionAgreements, id),
		func(ctx context.Context) (model.Agreement, error) {
			return s.queries.GetAgreementByID(ctx, id)
		})
	return item, mapNotFound(err)
}

// CreateAgreement creates an agreement.
func (s *ContentService) CreateAgreement(ctx context.Context, arg CreateAgreementParams, userID *int64) (model.Agreement, error) {
	now := time.Now()
	item, err := s.queries.CreateAgreement(ctx, store.CreateAgreementParams{
		Name:        arg.Name,
		Department:  arg.Department,
		City:        arg.City,
		LogoURL:     util.NullStringFromPtr(arg.LogoURL),
		Address:     util.NullStringFromPtr(arg.Address),
		Phone:       util.NullStringFromPtr(arg.Phone),
		Description: util.NullStringFromPtr(arg.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Agreement{}, err
	}

	s.invalidate(ctx, model.CollectionAgreements)
	s.logWrite(ctx, "Created", model.CollectionAgreements, item.ID, userID)
	return item, nil
}

// UpdateAgreement applies a partial update.
func (s *ContentService) UpdateAgreement(ctx context.Context, id int64, patch AgreementPatch, userID *int64) (model.Agreement, error) {
	current, err := s.queries.GetAgreementByID(ctx, id)
	if err != nil {
		return model.Agreement{}, mapNotFound(err)
	}

	arg := store.UpdateAgreementParams{
		ID:          id,
		Name:        current.Name,
		Department:  current.Department,
		City:        current.City,
		LogoURL:     current.LogoURL,
		Address:     current.Address,
		Phone:       current.Phone,
		Description: current.Description,
		UpdatedAt:   time.Now(),
	}
	if patch.Name != nil {
		arg.Name = *patch.Name
	}
	if patch.Department != nil {
		arg.Department = *patch.Department
	}
	if patch.City != nil {
		arg.City = *patch.City
	}
	if patch.LogoURL != nil {
		arg.LogoURL = util.NullStringFromValue(*patch.LogoURL)
	}
	if patch.Address != nil {
		arg.Address = util.NullStringFromValue(*patch.Address)
	}
	if patch.Phone != nil {
		arg.Phone = util.NullStringFromValue(*patch.Phone)
	}
	if patch.Description != nil {
		arg.Description = util.NullStringFromValue(*patch.Description)
	}

	item, err := s.queries.UpdateAgreement(ctx, arg)
	if err != nil {
		return model.Agreement{}, mapNotFound(err)
	}

	s.invalidate(ctx, model.CollectionAgreements)
	s.logWrite(ctx, "Updated", model.CollectionAgreements, item.ID, userID)
	return item, nil
}

// DeleteAgreement removes an agreement and cleans up its stored logo.
func (s *ContentService) DeleteAgreement(ctx context.Context, id int64, userID *int64) error {
	item, err := s.queries.GetAgreementByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.queries.DeleteAgreement(ctx, id); err != nil {
		return err
	}

	if item.LogoURL.Valid {
		s.cleanupMedia(ctx, item.LogoURL.String)
	}
	s.invalidate(ctx, model.CollectionAgreements)
	s.logWrite(ctx, "Deleted", model.CollectionAgreements, id, userID)
	return nil
}
