package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Dial connects to a server without TLS, defaulting every call to the JSON codec.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, opts...)
	return grpc.NewClient(addr, opts...)
}

// Client is a typed stub for both services.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListManga(ctx context.Context, req *ListMangaRequest, opts ...grpc.CallOption) (*ListMangaResponse, error) {
	return invoke[ListMangaResponse](ctx, c.cc, "/"+catalogServiceName+"/ListManga", req, opts)
}

func (c *Client) GetManga(ctx context.Context, req *GetMangaRequest, opts ...grpc.CallOption) (*GetMangaResponse, error) {
	return invoke[GetMangaResponse](ctx, c.cc, "/"+catalogServiceName+"/GetManga", req, opts)
}

func (c *Client) Sources(ctx context.Context, req *SourcesRequest, opts ...grpc.CallOption) (*SourcesResponse, error) {
	return invoke[SourcesResponse](ctx, c.cc, "/"+sourceServiceName+"/Sources", req, opts)
}

func (c *Client) List(ctx context.Context, req *ListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	return invoke[ListResponse](ctx, c.cc, "/"+sourceServiceName+"/List", req, opts)
}

func (c *Client) Details(ctx context.Context, req *DetailsRequest, opts ...grpc.CallOption) (*DetailsResponse, error) {
	return invoke[DetailsResponse](ctx, c.cc, "/"+sourceServiceName+"/Details", req, opts)
}

func (c *Client) Pages(ctx context.Context, req *PagesRequest, opts ...grpc.CallOption) (*PagesResponse, error) {
	return invoke[PagesResponse](ctx, c.cc, "/"+sourceServiceName+"/Pages", req, opts)
}

func (c *Client) FilterOptions(ctx context.Context, req *FilterOptionsRequest, opts ...grpc.CallOption) (*FilterOptionsResponse, error) {
	return invoke[FilterOptionsResponse](ctx, c.cc, "/"+sourceServiceName+"/FilterOptions", req, opts)
}
