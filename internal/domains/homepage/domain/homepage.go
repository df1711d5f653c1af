package domain

import (
	"errors"
	"strings"

	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var ErrEmptyID = errors.New("homepage id is required")

// Localized is a bilingual string.
type Localized struct {
	EN string
	FR string
}

type Hero struct {
	Title           Localized
	Subtitle        Localized
	BackgroundImage string
	CTAText         Localized
}

// Featured lists the products highlighted on the homepage. ProductIDs is a
// set kept in first-seen order.
type Featured struct {
	Title      Localized
	Subtitle   Localized
	ProductIDs []string
}

type Reviews struct {
	Title    Localized
	Subtitle Localized
}

// Content is everything an admin edits on a homepage configuration.
type Content struct {
	Hero     Hero
	Featured Featured
	Reviews  Reviews
	IsActive bool
}

// Draft is a configuration that has not been stored yet.
type Draft struct {
	Content
}

// Homepage is a stored configuration. At most one is active at a time.
type Homepage struct {
	ID string
	Content
	projection.Metadata
}

// Patch replaces whole sections; nil fields are left untouched.
type Patch struct {
	Hero     *Hero
	Featured *Featured
	Reviews  *Reviews
	IsActive *bool
}

// Normalize trims the background image and dedupes featured product ids.
func (c *Content) Normalize() {
	c.Hero.BackgroundImage = strings.TrimSpace(c.Hero.BackgroundImage)
	c.Featured.ProductIDs = uniqueIDs(c.Featured.ProductIDs)
}

// Apply merges p into h's content.
func (h *Homepage) Apply(p Patch) {
	if p.Hero != nil {
		h.Hero = *p.Hero
	}
	if p.Featured != nil {
		h.Featured = *p.Featured
		h.Featured.ProductIDs = append([]string(nil), p.Featured.ProductIDs...)
	}
	if p.Reviews != nil {
		h.Reviews = *p.Reviews
	}
	if p.IsActive != nil {
		h.IsActive = *p.IsActive
	}
	h.Normalize()
}

func (h *Homepage) Clone() *Homepage {
	if h == nil {
		return nil
	}
	clone := *h
	clone.Featured.ProductIDs = append([]string(nil), h.Featured.ProductIDs...)
	return &clone
}

// SelectActive picks the configuration to serve when more than one is marked
// active: the latest CreatedAt wins, then the greatest id. Returns nil for an
// empty list.
func SelectActive(candidates []*Homepage) *Homepage {
	var chosen *Homepage
	for _, h := range candidates {
		if h == nil || !h.IsActive {
			continue
		}
		if chosen == nil || h.NewerThan(chosen.Metadata) ||
			(h.CreatedAt.Equal(chosen.CreatedAt) && h.ID > chosen.ID) {
			chosen = h
		}
	}
	return chosen
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
