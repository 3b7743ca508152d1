// grpc содержит gRPC-эндпоинты GalleryService поверх internal/service.
//
// Принципы:
//   - контекст запроса прокидывается в сервис без потерь;
//   - ошибки сервиса транслируются в коды через apierrors.Code;
//   - текст статуса — короткое безопасное сообщение без URL апстрима и деталей.
package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apierrors "github.com/pribylovaa/go-profile-gallery/internal/errors"
	"github.com/pribylovaa/go-profile-gallery/internal/models"
	"github.com/pribylovaa/go-profile-gallery/internal/service"
)

type GalleryServer struct {
	UnimplementedGalleryServiceServer
	service *service.Service
}

// NewGalleryServer создаёт gRPC-сервер галереи.
func NewGalleryServer(svc *service.Service) *GalleryServer {
	return &GalleryServer{service: svc}
}

func (s *GalleryServer) GetProfile(ctx context.Context, req *GetProfileRequest) (*GetProfileResponse, error) {
	p, err := s.service.Profile(ctx, req.Slug)
	if err != nil {
		return nil, toStatus(err)
	}

	return &GetProfileResponse{Profile: p}, nil
}

// GetGallery возвращает отфильтрованную галерею.
// Отрицательный limit -> InvalidArgument без обращения к апстриму.
func (s *GalleryServer) GetGallery(ctx context.Context, req *GetGalleryRequest) (*GetGalleryResponse, error) {
	if req.Limit < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "limit must be >= 0, got %d", req.Limit)
	}

	opts := models.DefaultGalleryOptions()
	if req.PublicOnly != nil {
		opts.PublicOnly = *req.PublicOnly
	}
	if req.SafeOnly != nil {
		opts.SafeOnly = *req.SafeOnly
	}
	opts.Limit = int(req.Limit)

	g, err := s.service.Gallery(ctx, req.Slug, opts)
	if err != nil {
		return nil, toStatus(err)
	}

	return &GetGalleryResponse{Gallery: g}, nil
}

func (s *GalleryServer) GetMetadata(ctx context.Context, req *GetMetadataRequest) (*GetMetadataResponse, error) {
	page, err := s.service.Metadata(ctx, req.Slug)
	if err != nil {
		return nil, toStatus(err)
	}

	return &GetMetadataResponse{Page: page}, nil
}

// toStatus: код — apierrors.Code, сообщение — то же, что уходит в HTTP-конверт.
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := apierrors.Code(err)
	if code == codes.Internal {
		return status.Error(codes.Internal, "internal server error")
	}

	_, resp := apierrors.ToHTTP(err)
	return status.Error(code, resp.Error.Message)
}
