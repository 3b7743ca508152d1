package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// Client — тонкий клиент GalleryService поверх любого grpc.ClientConnInterface.
// Все вызовы идут с content-subtype json.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error) {
	out := new(GetProfileResponse)
	if err := c.invoke(ctx, GalleryService_GetProfile_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetGallery(ctx context.Context, in *GetGalleryRequest, opts ...grpc.CallOption) (*GetGalleryResponse, error) {
	out := new(GetGalleryResponse)
	if err := c.invoke(ctx, GalleryService_GetGallery_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetMetadata(ctx context.Context, in *GetMetadataRequest, opts ...grpc.CallOption) (*GetMetadataResponse, error) {
	out := new(GetMetadataResponse)
	if err := c.invoke(ctx, GalleryService_GetMetadata_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
