package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pribylovaa/go-profile-gallery/internal/models"
	"github.com/pribylovaa/go-profile-gallery/internal/seo"
)

// Полные имена методов gallery.v1.GalleryService.
const (
	ServiceName = "gallery.v1.GalleryService"

	GalleryService_GetProfile_FullMethodName  = "/" + ServiceName + "/GetProfile"
	GalleryService_GetGallery_FullMethodName  = "/" + ServiceName + "/GetGallery"
	GalleryService_GetMetadata_FullMethodName = "/" + ServiceName + "/GetMetadata"
)

type GetProfileRequest struct {
	// Slug — пустой означает профиль по умолчанию.
	Slug string `json:"slug,omitempty"`
}

type GetProfileResponse struct {
	Profile *models.Profile `json:"profile"`
}

// GetGalleryRequest — параметры выборки; nil-флаги означают true.
type GetGalleryRequest struct {
	Slug       string `json:"slug,omitempty"`
	PublicOnly *bool  `json:"public_only,omitempty"`
	SafeOnly   *bool  `json:"safe_only,omitempty"`
	Limit      int32  `json:"limit,omitempty"`
}

type GetGalleryResponse struct {
	Gallery *models.Gallery `json:"gallery"`
}

type GetMetadataRequest struct {
	Slug string `json:"slug,omitempty"`
}

type GetMetadataResponse struct {
	Page *seo.Page `json:"page"`
}

// GalleryServiceServer — серверная часть gallery.v1.GalleryService.
type GalleryServiceServer interface {
	GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error)
	GetGallery(context.Context, *GetGalleryRequest) (*GetGalleryResponse, error)
	GetMetadata(context.Context, *GetMetadataRequest) (*GetMetadataResponse, error)
}

// UnimplementedGalleryServiceServer встраивается в реализации для совместимости вперёд.
type UnimplementedGalleryServiceServer struct{}

func (UnimplementedGalleryServiceServer) GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetProfile not implemented")
}

func (UnimplementedGalleryServiceServer) GetGallery(context.Context, *GetGalleryRequest) (*GetGalleryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetGallery not implemented")
}

func (UnimplementedGalleryServiceServer) GetMetadata(context.Context, *GetMetadataRequest) (*GetMetadataResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetMetadata not implemented")
}

func RegisterGalleryServiceServer(s grpc.ServiceRegistrar, srv GalleryServiceServer) {
	s.RegisterService(&GalleryService_ServiceDesc, srv)
}

func _GalleryService_GetProfile_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetProfileRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GalleryServiceServer).GetProfile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GalleryService_GetProfile_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GalleryServiceServer).GetProfile(ctx, req.(*GetProfileRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GalleryService_GetGallery_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetGalleryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GalleryServiceServer).GetGallery(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GalleryService_GetGallery_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GalleryServiceServer).GetGallery(ctx, req.(*GetGalleryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GalleryService_GetMetadata_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetMetadataRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GalleryServiceServer).GetMetadata(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GalleryService_GetMetadata_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GalleryServiceServer).GetMetadata(ctx, req.(*GetMetadataRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// GalleryService_ServiceDesc описывает gallery.v1.GalleryService без protoc:
// сообщения — обычные Go-структуры, на проводе JSON (см. CodecName).
var GalleryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GalleryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetProfile", Handler: _GalleryService_GetProfile_Handler},
		{MethodName: "GetGallery", Handler: _GalleryService_GetGallery_Handler},
		{MethodName: "GetMetadata", Handler: _GalleryService_GetMetadata_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gallery/v1/gallery.json",
}
