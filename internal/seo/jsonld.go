package seo

import (
	"fmt"

	"github.com/pribylovaa/go-profile-gallery/internal/models"
	"github.com/pribylovaa/go-profile-gallery/internal/pictures"
)

const schemaContext = "https://schema.org"

type Person struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Identifier  string `json:"identifier"`
}

type ImageObject struct {
	Type       string `json:"@type"`
	ContentURL string `json:"contentUrl"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Caption    string `json:"caption"`
}

type ImageGallery struct {
	Type          string        `json:"@type"`
	NumberOfItems int           `json:"numberOfItems"`
	Image         []ImageObject `json:"image"`
}

// JSONLD — schema.org ProfilePage. Image == nil, если публичных фотографий нет.
type JSONLD struct {
	Context    string        `json:"@context"`
	Type       string        `json:"@type"`
	MainEntity Person        `json:"mainEntity"`
	Image      *ImageGallery `json:"image,omitempty"`
}

// BuildJSONLD собирает структурированные данные страницы профиля.
// numberOfItems — все публичные фотографии, в image попадают первые MaxGalleryImages.
func BuildJSONLD(p *models.Profile) (JSONLD, error) {
	const op = "seo.BuildJSONLD"

	if p == nil {
		return JSONLD{}, fmt.Errorf("%s: profile is nil: %w", op, pictures.ErrInvalidArgument)
	}

	out := JSONLD{
		Context: schemaContext,
		Type:    "ProfilePage",
		MainEntity: Person{
			Type:        "Person",
			Name:        p.Name,
			Description: p.Headline,
			Identifier:  p.ID,
		},
	}

	public := pictures.PublicPictures(p)
	if len(public) == 0 {
		return out, nil
	}

	n := min(len(public), MaxGalleryImages)
	images := make([]ImageObject, 0, n)
	for i, pic := range public[:n] {
		u, err := pictures.BuildImageURL(pic.URLToken)
		if err != nil {
			return JSONLD{}, fmt.Errorf("%s: picture %q: %w", op, pic.ID, err)
		}
		images = append(images, ImageObject{
			Type:       "ImageObject",
			ContentURL: u,
			Width:      pic.Width,
			Height:     pic.Height,
			Caption:    fmt.Sprintf("%s - Photo %d", p.Name, i+1),
		})
	}

	out.Image = &ImageGallery{
		Type:          "ImageGallery",
		NumberOfItems: len(public),
		Image:         images,
	}

	return out, nil
}
