package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"videohub-service/middleware"
	"videohub-service/model"
	"videohub-service/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoService is the behaviour the HTTP layer needs from service.VideoService.
type VideoService interface {
	AddVideo(ctx context.Context, userID string, in model.VideoInput) (*model.Video, error)
	UpdateVideo(ctx context.Context, userID, videoID string, update model.VideoUpdate) (*model.Video, error)
	DeleteVideo(ctx context.Context, userID, videoID string) error
	GetVideo(ctx context.Context, videoID string) (*model.Video, error)
	AddView(ctx context.Context, videoID, source string) error
	Random(ctx context.Context) ([]model.Video, error)
	Trend(ctx context.Context) ([]model.Video, error)
	SubscribedFeed(ctx context.Context, userID string) ([]model.Video, error)
	ByTags(ctx context.Context, tagsCSV string) ([]model.Video, error)
	Search(ctx context.Context, query string) ([]model.Video, error)
}

// VideoHandler exposes the video operations over gin. Failures are attached
// with c.Error and rendered by middleware.ErrorHandler.
type VideoHandler struct {
	videos VideoService
	log    *zap.Logger
}

func NewVideoHandler(videos VideoService, log *zap.Logger) *VideoHandler {
	return &VideoHandler{videos: videos, log: log}
}

func (h *VideoHandler) AddVideo(c *gin.Context) {
	var in model.VideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	video, err := h.videos.AddVideo(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	var update model.VideoUpdate
	// An empty body is an empty update.
	if err := c.ShouldBindJSON(&update); err != nil && !errors.Is(err, io.EOF) {
		c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	video, err := h.videos.UpdateVideo(c.Request.Context(), middleware.UserID(c), c.Param("id"), update)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	if err := h.videos.DeleteVideo(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "The video has been deleted"})
}

func (h *VideoHandler) GetVideo(c *gin.Context) {
	video, err := h.videos.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) AddView(c *gin.Context) {
	if err := h.videos.AddView(c.Request.Context(), c.Param("id"), service.ViewSourceHTTP); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "The view has been increased"})
}

func (h *VideoHandler) Random(c *gin.Context) {
	h.list(c, "random", func(ctx context.Context) ([]model.Video, error) {
		return h.videos.Random(ctx)
	})
}

func (h *VideoHandler) Trend(c *gin.Context) {
	h.list(c, "trend", func(ctx context.Context) ([]model.Video, error) {
		return h.videos.Trend(ctx)
	})
}

func (h *VideoHandler) Sub(c *gin.Context) {
	userID := middleware.UserID(c)
	h.list(c, "sub", func(ctx context.Context) ([]model.Video, error) {
		return h.videos.SubscribedFeed(ctx, userID)
	})
}

func (h *VideoHandler) GetByTag(c *gin.Context) {
	tags := c.Query("tags")
	h.list(c, "tags", func(ctx context.Context) ([]model.Video, error) {
		return h.videos.ByTags(ctx, tags)
	})
}

func (h *VideoHandler) Search(c *gin.Context) {
	query := c.Query("q")
	h.list(c, "search", func(ctx context.Context) ([]model.Video, error) {
		return h.videos.Search(ctx, query)
	})
}

// list runs a listing query and writes the result as a JSON array.
func (h *VideoHandler) list(c *gin.Context, name string, query func(context.Context) ([]model.Video, error)) {
	videos, err := query(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	h.log.Debug("listed videos", zap.String("query", name), zap.Int("count", len(videos)))
	c.JSON(http.StatusOK, videos)
}
