package grpcserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mangaparsers/internal/browse"
	"mangaparsers/internal/manga"
	"mangaparsers/internal/parser"
	"mangaparsers/internal/webclient"
	"mangaparsers/pkg/models"
)

type Server struct {
	MangaRepo *manga.Repo
	Registry  *parser.Registry
}

var (
	_ CatalogServiceServer = (*Server)(nil)
	_ SourceServiceServer  = (*Server)(nil)
)

func NewServer(mangaRepo *manga.Repo, reg *parser.Registry) *Server {
	return &Server{MangaRepo: mangaRepo, Registry: reg}
}

func (s *Server) ListManga(ctx context.Context, req *ListMangaRequest) (*ListMangaResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	query := manga.ListQuery{
		Q:      strings.TrimSpace(req.Q),
		Tag:    strings.TrimSpace(req.Tag),
		State:  strings.TrimSpace(req.State),
		Source: strings.TrimSpace(req.Source),
		Limit:  int(req.Limit),
		Offset: int(req.Offset),
	}

	total, err := s.MangaRepo.Count(ctx, query)
	if err != nil {
		return nil, status.Error(codes.Internal, "count failed")
	}

	items, err := s.MangaRepo.List(ctx, query)
	if err != nil {
		return nil, status.Error(codes.Internal, "list failed")
	}

	return &ListMangaResponse{
		Total:  int32(total),
		Limit:  req.Limit,
		Offset: req.Offset,
		Items:  items,
	}, nil
}

func (s *Server) GetManga(ctx context.Context, req *GetMangaRequest) (*GetMangaResponse, error) {
	if req == nil || strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}

	item, err := s.MangaRepo.GetByID(ctx, strings.TrimSpace(req.ID))
	if err != nil {
		return nil, status.Error(codes.Internal, "get failed")
	}
	if item == nil {
		return nil, status.Error(codes.NotFound, "not found")
	}

	return &GetMangaResponse{Manga: item}, nil
}

func (s *Server) Sources(_ context.Context, _ *SourcesRequest) (*SourcesResponse, error) {
	all := s.Registry.All()
	resp := &SourcesResponse{Items: make([]SourceInfo, 0, len(all))}
	for _, p := range all {
		resp.Items = append(resp.Items, sourceInfo(p))
	}
	return resp, nil
}

func (s *Server) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	p, err := s.source(req.Source)
	if err != nil {
		return nil, err
	}

	page := int(req.Page)
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, status.Error(codes.InvalidArgument, "page must be positive")
	}
	order := models.SortUpdated
	if req.Order != "" {
		if order, err = models.ParseSortOrder(req.Order); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}
	filter, err := browse.ParseFilter(p.Source(), req.Query, req.Tags, req.Exclude, req.States, req.Types)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	items, err := p.List(ctx, page, order, filter)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListResponse{Items: items}, nil
}

func (s *Server) Details(ctx context.Context, req *DetailsRequest) (*DetailsResponse, error) {
	p, err := s.source(req.Source)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, status.Error(codes.InvalidArgument, "url required")
	}

	m, err := p.Details(ctx, browse.MangaRef(p.Source(), strings.TrimSpace(req.URL)))
	if err != nil {
		return nil, toStatus(err)
	}
	return &DetailsResponse{Manga: m}, nil
}

func (s *Server) Pages(ctx context.Context, req *PagesRequest) (*PagesResponse, error) {
	p, err := s.source(req.Source)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, status.Error(codes.InvalidArgument, "url required")
	}

	pages, err := p.Pages(ctx, browse.ChapterRef(p.Source(), strings.TrimSpace(req.URL)))
	if err != nil {
		return nil, toStatus(err)
	}
	return &PagesResponse{Pages: pages}, nil
}

func (s *Server) FilterOptions(ctx context.Context, req *FilterOptionsRequest) (*FilterOptionsResponse, error) {
	p, err := s.source(req.Source)
	if err != nil {
		return nil, err
	}
	opts, err := p.FilterOptions(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &FilterOptionsResponse{Source: sourceInfo(p), Options: opts}, nil
}

func (s *Server) source(name string) (parser.Parser, error) {
	if strings.TrimSpace(name) == "" {
		return nil, status.Error(codes.InvalidArgument, "source required")
	}
	p, err := s.Registry.Get(name)
	if err != nil {
		return nil, toStatus(err)
	}
	return p, nil
}

func sourceInfo(p parser.Parser) SourceInfo {
	return SourceInfo{
		Name:         p.Source(),
		Domain:       p.Domain(),
		PageSize:     int32(p.PageSize()),
		SortOrders:   p.SortOrders(),
		Capabilities: p.Capabilities(),
	}
}

// toStatus maps plugin and host errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, parser.ErrUnknownSource):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, parser.ErrInvalidRef):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if code, ok := webclient.StatusCode(err); ok && code == http.StatusNotFound {
		return status.Error(codes.NotFound, err.Error())
	}
	log.Printf("[grpc] upstream: %v", err)
	return status.Error(codes.Unavailable, err.Error())
}
