package mapper

import (
	"time"

	homepagedomain "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
)

type Localized struct {
	EN string `json:"en"`
	FR string `json:"fr"`
}

type Hero struct {
	Title           Localized `json:"title"`
	Subtitle        Localized `json:"subtitle"`
	BackgroundImage string    `json:"backgroundImage"`
	CTAText         Localized `json:"ctaText"`
}

type Featured struct {
	Title      Localized `json:"title"`
	Subtitle   Localized `json:"subtitle"`
	ProductIDs []string  `json:"productIds"`
}

type Reviews struct {
	Title    Localized `json:"title"`
	Subtitle Localized `json:"subtitle"`
}

// HomepageInput is the body accepted by the admin create endpoint.
type HomepageInput struct {
	Hero     Hero     `json:"hero"`
	Featured Featured `json:"featured"`
	Reviews  Reviews  `json:"reviews"`
	IsActive bool     `json:"isActive"`
}

// HomepagePatch is the body accepted by the admin update endpoint. Omitted
// sections keep their stored value.
type HomepagePatch struct {
	Hero     *Hero     `json:"hero,omitempty"`
	Featured *Featured `json:"featured,omitempty"`
	Reviews  *Reviews  `json:"reviews,omitempty"`
	IsActive *bool     `json:"isActive,omitempty"`
}

type Homepage struct {
	ID string `json:"id"`
	HomepageInput
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func ToDraft(in HomepageInput) homepagedomain.Draft {
	return homepagedomain.Draft{Content: homepagedomain.Content{
		Hero:     toHero(in.Hero),
		Featured: toFeatured(in.Featured),
		Reviews:  toReviews(in.Reviews),
		IsActive: in.IsActive,
	}}
}

func ToPatch(in HomepagePatch) homepagedomain.Patch {
	var patch homepagedomain.Patch
	if in.Hero != nil {
		hero := toHero(*in.Hero)
		patch.Hero = &hero
	}
	if in.Featured != nil {
		featured := toFeatured(*in.Featured)
		patch.Featured = &featured
	}
	if in.Reviews != nil {
		reviews := toReviews(*in.Reviews)
		patch.Reviews = &reviews
	}
	if in.IsActive != nil {
		active := *in.IsActive
		patch.IsActive = &active
	}
	return patch
}

func FromDomainHomepage(h *homepagedomain.Homepage) Homepage {
	if h == nil {
		return Homepage{}
	}
	productIDs := append([]string{}, h.Featured.ProductIDs...)
	out := Homepage{
		ID: h.ID,
		HomepageInput: HomepageInput{
			Hero: Hero{
				Title:           Localized(h.Hero.Title),
				Subtitle:        Localized(h.Hero.Subtitle),
				BackgroundImage: h.Hero.BackgroundImage,
				CTAText:         Localized(h.Hero.CTAText),
			},
			Featured: Featured{
				Title:      Localized(h.Featured.Title),
				Subtitle:   Localized(h.Featured.Subtitle),
				ProductIDs: productIDs,
			},
			Reviews: Reviews{
				Title:    Localized(h.Reviews.Title),
				Subtitle: Localized(h.Reviews.Subtitle),
			},
			IsActive: h.IsActive,
		},
	}
	if !h.CreatedAt.IsZero() {
		created := h.CreatedAt
		out.CreatedAt = &created
	}
	if !h.UpdatedAt.IsZero() {
		updated := h.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

func FromDomainHomepages(homepages []*homepagedomain.Homepage) []Homepage {
	out := make([]Homepage, 0, len(homepages))
	for _, h := range homepages {
		out = append(out, FromDomainHomepage(h))
	}
	return out
}

func toHero(in Hero) homepagedomain.Hero {
	return homepagedomain.Hero{
		Title:           homepagedomain.Localized(in.Title),
		Subtitle:        homepagedomain.Localized(in.Subtitle),
		BackgroundImage: in.BackgroundImage,
		CTAText:         homepagedomain.Localized(in.CTAText),
	}
}

func toFeatured(in Featured) homepagedomain.Featured {
	return homepagedomain.Featured{
		Title:      homepagedomain.Localized(in.Title),
		Subtitle:   homepagedomain.Localized(in.Subtitle),
		ProductIDs: append([]string(nil), in.ProductIDs...),
	}
}

func toReviews(in Reviews) homepagedomain.Reviews {
	return homepagedomain.Reviews{
		Title:    homepagedomain.Localized(in.Title),
		Subtitle: homepagedomain.Localized(in.Subtitle),
	}
}
