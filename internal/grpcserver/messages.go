package grpcserver

import "mangaparsers/pkg/models"

type ListMangaRequest struct {
	Q      string `json:"q,omitempty"`
	Tag    string `json:"tag,omitempty"`
	State  string `json:"state,omitempty"`
	Source string `json:"source,omitempty"`
	Limit  int32  `json:"limit,omitempty"`
	Offset int32  `json:"offset,omitempty"`
}

type ListMangaResponse struct {
	Total  int32            `json:"total"`
	Limit  int32            `json:"limit"`
	Offset int32            `json:"offset"`
	Items  []models.MangaDB `json:"items"`
}

type GetMangaRequest struct {
	ID string `json:"id"`
}

type GetMangaResponse struct {
	Manga *models.MangaDB `json:"manga"`
}

type SourcesRequest struct{}

type SourceInfo struct {
	Name         models.Source             `json:"name"`
	Domain       string                    `json:"domain"`
	PageSize     int32                     `json:"page_size"`
	SortOrders   []models.SortOrder        `json:"sort_orders"`
	Capabilities models.FilterCapabilities `json:"capabilities"`
}

type SourcesResponse struct {
	Items []SourceInfo `json:"items"`
}

type ListRequest struct {
	Source  string   `json:"source"`
	Page    int32    `json:"page,omitempty"`
	Order   string   `json:"order,omitempty"`
	Query   string   `json:"query,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
	States  []string `json:"states,omitempty"`
	Types   []string `json:"types,omitempty"`
}

type ListResponse struct {
	Items []models.Manga `json:"items"`
}

type DetailsRequest struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

type DetailsResponse struct {
	Manga models.Manga `json:"manga"`
}

type PagesRequest struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

type PagesResponse struct {
	Pages []models.Page `json:"pages"`
}

type FilterOptionsRequest struct {
	Source string `json:"source"`
}

type FilterOptionsResponse struct {
	Source  SourceInfo           `json:"source"`
	Options models.FilterOptions `json:"options"`
}
