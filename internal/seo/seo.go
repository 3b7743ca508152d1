// seo — метаданные страницы профиля: title/description, OpenGraph, Twitter card
// и структурированные данные schema.org (JSON-LD).
//
// Все функции чистые: выборка фотографий делегируется internal/pictures.
package seo

import (
	"fmt"

	"github.com/pribylovaa/go-profile-gallery/internal/models"
	"github.com/pribylovaa/go-profile-gallery/internal/pictures"
)

// DefaultSiteName подставляется, если siteName не задан.
const DefaultSiteName = "Photo Gallery"

// MaxGalleryImages — сколько фотографий попадает в ImageGallery JSON-LD.
const MaxGalleryImages = 10

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt"`
}

type OpenGraph struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Images      []Image `json:"images"`
}

type Twitter struct {
	Card        string `json:"card"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Metadata — метаданные страницы профиля.
type Metadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OpenGraph   OpenGraph `json:"open_graph"`
	Twitter     Twitter   `json:"twitter"`
}

// BuildMetadata собирает метаданные страницы.
//
// description — headline, а если он пуст, то "View {name}'s photo gallery with {n} photos",
// где n — число публичных фотографий. Картинка OpenGraph — первая публичная фотография.
func BuildMetadata(p *models.Profile, siteName string) (Metadata, error) {
	const op = "seo.BuildMetadata"

	if p == nil {
		return Metadata{}, fmt.Errorf("%s: profile is nil: %w", op, pictures.ErrInvalidArgument)
	}
	if siteName == "" {
		siteName = DefaultSiteName
	}

	public := pictures.PublicPictures(p)
	description := Description(p)
	title := p.Name + " | " + siteName

	images := []Image{}
	if len(public) > 0 {
		first := public[0]
		u, err := pictures.BuildImageURL(first.URLToken)
		if err != nil {
			return Metadata{}, fmt.Errorf("%s: %w", op, err)
		}
		images = append(images, Image{
			URL:    u,
			Width:  first.Width,
			Height: first.Height,
			Alt:    p.Name + " - Featured Photo",
		})
	}

	return Metadata{
		Title:       p.Name,
		Description: description,
		OpenGraph: OpenGraph{
			Title:       title,
			Description: description,
			Type:        "profile",
			Images:      images,
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       title,
			Description: description,
		},
	}, nil
}

// Description — headline профиля или текст по умолчанию.
func Description(p *models.Profile) string {
	if p == nil {
		return ""
	}
	if p.Headline != "" {
		return p.Headline
	}

	return fmt.Sprintf("View %s's photo gallery with %d photos", p.Name, len(pictures.PublicPictures(p)))
}

// Page — метаданные и JSON-LD одной страницы профиля.
type Page struct {
	Metadata Metadata `json:"metadata"`
	JSONLD   JSONLD   `json:"json_ld"`
}

// BuildPage собирает Metadata и JSON-LD за один вызов.
func BuildPage(p *models.Profile, siteName string) (*Page, error) {
	md, err := BuildMetadata(p, siteName)
	if err != nil {
		return nil, err
	}

	ld, err := BuildJSONLD(p)
	if err != nil {
		return nil, err
	}

	return &Page{Metadata: md, JSONLD: ld}, nil
}
