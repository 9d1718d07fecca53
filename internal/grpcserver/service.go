package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

const (
	catalogServiceName = "mangaparsers.CatalogService"
	sourceServiceName  = "mangaparsers.SourceService"
)

// CatalogServiceServer serves the stored catalog.
type CatalogServiceServer interface {
	ListManga(context.Context, *ListMangaRequest) (*ListMangaResponse, error)
	GetManga(context.Context, *GetMangaRequest) (*GetMangaResponse, error)
}

// SourceServiceServer drives the source plugins live.
type SourceServiceServer interface {
	Sources(context.Context, *SourcesRequest) (*SourcesResponse, error)
	List(context.Context, *ListRequest) (*ListResponse, error)
	Details(context.Context, *DetailsRequest) (*DetailsResponse, error)
	Pages(context.Context, *PagesRequest) (*PagesResponse, error)
	FilterOptions(context.Context, *FilterOptionsRequest) (*FilterOptionsResponse, error)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: catalogServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListManga", Handler: unary(catalogServiceName, "ListManga", CatalogServiceServer.ListManga)},
		{MethodName: "GetManga", Handler: unary(catalogServiceName, "GetManga", CatalogServiceServer.GetManga)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mangaparsers/catalog",
}

var sourceServiceDesc = grpc.ServiceDesc{
	ServiceName: sourceServiceName,
	HandlerType: (*SourceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Sources", Handler: unary(sourceServiceName, "Sources", SourceServiceServer.Sources)},
		{MethodName: "List", Handler: unary(sourceServiceName, "List", SourceServiceServer.List)},
		{MethodName: "Details", Handler: unary(sourceServiceName, "Details", SourceServiceServer.Details)},
		{MethodName: "Pages", Handler: unary(sourceServiceName, "Pages", SourceServiceServer.Pages)},
		{MethodName: "FilterOptions", Handler: unary(sourceServiceName, "FilterOptions", SourceServiceServer.FilterOptions)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mangaparsers/source",
}

func RegisterCatalogService(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

func RegisterSourceService(s grpc.ServiceRegistrar, srv SourceServiceServer) {
	s.RegisterService(&sourceServiceDesc, srv)
}

// unary adapts a typed service method to a grpc method handler.
func unary[S, Req, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + service + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
