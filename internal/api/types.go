package api

import (
	"context"

	"github.com/wwntg/news-harvester/internal/app"
	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/logger"
	"github.com/wwntg/news-harvester/internal/storage"
)

// NewsService is the read side the handlers serve from.
type NewsService interface {
	GetNewsData(ctx context.Context, source domain.SourceID) (app.NewsData, error)
	All(ctx context.Context) ([]storage.Snapshot, error)
}

var _ NewsService = (*app.NewsReader)(nil)

type Handler struct {
	news NewsService
	log  logger.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

type allNewsResponse struct {
	Count     int                `json:"count"`
	Snapshots []storage.Snapshot `json:"snapshots"`
}
