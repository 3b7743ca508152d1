package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-profile-gallery/internal/clients/profiles"
	"github.com/pribylovaa/go-profile-gallery/internal/config"
	apierrors "github.com/pribylovaa/go-profile-gallery/internal/errors"
	"github.com/pribylovaa/go-profile-gallery/internal/models"
	"github.com/pribylovaa/go-profile-gallery/internal/pictures"
	"github.com/pribylovaa/go-profile-gallery/internal/seo"
	"github.com/pribylovaa/go-profile-gallery/internal/service"
	"github.com/pribylovaa/go-profile-gallery/mocks"
)

// Хендлеры тестируются поверх настоящего service.Service с мок-источником
// профилей: так проверяется и разбор query, и маппинг ошибок в HTTP.

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockProfileFetcher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := mocks.NewMockProfileFetcher(ctrl)

	svc := service.New(f, config.Config{
		Upstream: config.UpstreamConfig{DefaultSlug: "default-user"},
		Limits:   config.LimitsConfig{Max: 50},
		SEO:      config.SEOConfig{SiteName: "Gallery"},
	})

	h := New(svc)
	r := chi.NewRouter()
	r.Get("/profile", h.GetProfile)
	r.Get("/profile/{slug}", h.GetProfile)
	r.Get("/profile/{slug}/gallery", h.GetGallery)
	r.Get("/profile/{slug}/images", h.GetImageURLs)
	r.Get("/profile/{slug}/metadata", h.GetMetadata)

	return r, f
}

func testProfile() *models.Profile {
	return &models.Profile{
		ID:         "7",
		Name:       "bob",
		PreviewPic: &models.Picture{ID: "p", URLToken: "prev"},
		Pictures: []models.Picture{
			{ID: "1", URLToken: "a", Rating: models.RatingNeutral, IsPublic: true},
			{ID: "2", URLToken: "b", Rating: models.RatingErotic, IsPublic: true},
			{ID: "3", URLToken: "c", Rating: models.RatingAppSafe, IsPublic: false},
		},
		Extra: map[string]json.RawMessage{"location": json.RawMessage(`"Berlin"`)},
	}
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()

	var env apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env.Error
}

func TestGetProfile_DefaultSlugAndExtraFields(t *testing.T) {
	r, f := newTestRouter(t)
	f.EXPECT().FetchProfile(gomock.Any(), "default-user").Return(testProfile(), nil)

	rr := do(t, r, "/profile")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "bob", got["name"])
	require.Equal(t, "Berlin", got["location"])
}

func TestGetProfile_ErrorStatuses(t *testing.T) {
	tcs := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not_found", &profiles.APIError{Status: http.StatusNotFound, URL: "u"}, http.StatusNotFound, "not_found"},
		{"upstream_500", &profiles.APIError{Status: http.StatusInternalServerError, URL: "u"}, http.StatusBadGateway, "bad_gateway"},
		{"timeout", &profiles.TimeoutError{URL: "u"}, http.StatusGatewayTimeout, "deadline_exceeded"},
		{"transport", errors.New("dial tcp: refused"), http.StatusServiceUnavailable, "unavailable"},
		{"canceled", context.Canceled, apierrors.StatusClientClosedRequest, "canceled"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r, f := newTestRouter(t)
			f.EXPECT().FetchProfile(gomock.Any(), "bob").Return(nil, tc.err)

			rr := do(t, r, "/profile/bob")

			require.Equal(t, tc.wantStatus, rr.Code)
			require.Equal(t, tc.wantCode, decodeErr(t, rr).Code)
			require.NotContains(t, rr.Body.String(), "dial tcp")
		})
	}
}

func TestGetGallery_DefaultsAndQuery(t *testing.T) {
	r, f := newTestRouter(t)
	f.EXPECT().FetchProfile(gomock.Any(), "bob").Return(testProfile(), nil).Times(2)

	rr := do(t, r, "/profile/bob/gallery")
	require.Equal(t, http.StatusOK, rr.Code)

	var g models.Gallery
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))
	require.Len(t, g.Items, 1)
	require.Equal(t, "1", g.Items[0].Picture.ID)
	require.Equal(t, pictures.ImageBaseURL+"/prev.jpg", g.PreviewURL)
	require.Equal(t, models.GalleryStats{Total: 3, Public: 2, Safe: 1}, g.Stats)

	rr = do(t, r, "/profile/bob/gallery?public_only=false&safe_only=0&limit=2")
	require.Equal(t, http.StatusOK, rr.Code)

	g = models.Gallery{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))
	require.Len(t, g.Items, 2)
	require.Equal(t, "2", g.Items[1].Picture.ID)
}

func TestGetGallery_BadQueryIs400WithoutUpstreamCall(t *testing.T) {
	for _, q := range []string{"limit=-1", "limit=abc", "public_only=maybe", "safe_only=2"} {
		t.Run(q, func(t *testing.T) {
			r, _ := newTestRouter(t) // FetchProfile не ожидается

			rr := do(t, r, "/profile/bob/gallery?"+q)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Equal(t, "invalid_argument", decodeErr(t, rr).Code)
		})
	}
}

func TestGetImageURLs(t *testing.T) {
	r, f := newTestRouter(t)
	f.EXPECT().FetchProfile(gomock.Any(), "bob").Return(testProfile(), nil)

	rr := do(t, r, "/profile/bob/images?safe_only=false")
	require.Equal(t, http.StatusOK, rr.Code)

	var got imagesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, []string{
		pictures.ImageBaseURL + "/a.jpg",
		pictures.ImageBaseURL + "/b.jpg",
	}, got.URLs)
}

func TestGetImageURLs_EmptyIsArray(t *testing.T) {
	r, f := newTestRouter(t)
	f.EXPECT().FetchProfile(gomock.Any(), "bob").Return(&models.Profile{ID: "7", Name: "bob"}, nil)

	rr := do(t, r, "/profile/bob/images")

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"urls":[]}`, rr.Body.String())
}

func TestGetMetadata(t *testing.T) {
	r, f := newTestRouter(t)
	f.EXPECT().FetchProfile(gomock.Any(), "bob").Return(testProfile(), nil)

	rr := do(t, r, "/profile/bob/metadata")
	require.Equal(t, http.StatusOK, rr.Code)

	var page seo.Page
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Equal(t, "bob | Gallery", page.Metadata.OpenGraph.Title)
	require.Equal(t, "https://schema.org", page.JSONLD.Context)
	require.Equal(t, 2, page.JSONLD.Image.NumberOfItems)
}

func TestGalleryOptions_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	opts, err := galleryOptions(req)
	require.NoError(t, err)
	require.Equal(t, models.DefaultGalleryOptions(), opts)
}

func TestGalleryOptions_InvalidWrapsSentinel(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?limit=-5", nil)

	_, err := galleryOptions(req)
	require.ErrorIs(t, err, service.ErrInvalidArgument)
}
