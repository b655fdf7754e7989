package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"videohub-service/middleware"
	"videohub-service/model"
	"videohub-service/service"
	"videohub-service/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeService records the arguments it was called with and returns canned results.
type fakeService struct {
	video  *model.Video
	videos []model.Video
	err    error

	userID  string
	videoID string
	source  string
	arg     string
	input   model.VideoInput
	update  model.VideoUpdate
}

func (f *fakeService) AddVideo(_ context.Context, userID string, in model.VideoInput) (*model.Video, error) {
	f.userID, f.input = userID, in
	return f.video, f.err
}

func (f *fakeService) UpdateVideo(_ context.Context, userID, videoID string, update model.VideoUpdate) (*model.Video, error) {
	f.userID, f.videoID, f.update = userID, videoID, update
	return f.video, f.err
}

func (f *fakeService) DeleteVideo(_ context.Context, userID, videoID string) error {
	f.userID, f.videoID = userID, videoID
	return f.err
}

func (f *fakeService) GetVideo(_ context.Context, videoID string) (*model.Video, error) {
	f.videoID = videoID
	return f.video, f.err
}

func (f *fakeService) AddView(_ context.Context, videoID, source string) error {
	f.videoID, f.source = videoID, source
	return f.err
}

func (f *fakeService) Random(context.Context) ([]model.Video, error) { return f.videos, f.err }

func (f *fakeService) Trend(context.Context) ([]model.Video, error) { return f.videos, f.err }

func (f *fakeService) SubscribedFeed(_ context.Context, userID string) ([]model.Video, error) {
	f.userID = userID
	return f.videos, f.err
}

func (f *fakeService) ByTags(_ context.Context, tagsCSV string) ([]model.Video, error) {
	f.arg = tagsCSV
	return f.videos, f.err
}

func (f *fakeService) Search(_ context.Context, query string) ([]model.Video, error) {
	f.arg = query
	return f.videos, f.err
}

// asUser stands in for middleware.Auth.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.UserIDKey, id)
		c.Next()
	}
}

func newEngine(svc VideoService) *gin.Engine {
	h := NewVideoHandler(svc, zap.NewNop())
	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))

	r.POST("/videos", asUser("u1"), h.AddVideo)
	r.PUT("/videos/:id", asUser("u1"), h.UpdateVideo)
	r.DELETE("/videos/:id", asUser("u1"), h.DeleteVideo)
	r.GET("/videos/find/:id", h.GetVideo)
	r.PUT("/videos/view/:id", h.AddView)
	r.GET("/videos/random", h.Random)
	r.GET("/videos/trend", h.Trend)
	r.GET("/videos/sub", asUser("u1"), h.Sub)
	r.GET("/videos/tags", h.GetByTag)
	r.GET("/videos/search", h.Search)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleVideo() *model.Video {
	return &model.Video{ID: primitive.NewObjectID(), UserID: "u1", Title: "A", Tags: []string{}}
}

func TestAddVideo(t *testing.T) {
	svc := &fakeService{video: sampleVideo()}
	r := newEngine(svc)

	w := do(r, http.MethodPost, "/videos", `{"title":"A","desc":"d","tags":["go"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got model.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, svc.video.ID, got.ID)
	assert.Equal(t, "u1", svc.userID)
	assert.Equal(t, "d", svc.input.Description)
	assert.Equal(t, []string{"go"}, svc.input.Tags)
}

func TestAddVideoBadRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing title", `{"desc":"no title"}`, "title is required"},
		{"malformed", `{"title":`, "request body is not valid JSON"},
		{"empty body", "", "request body is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{video: sampleVideo()}
			w := do(newEngine(svc), http.MethodPost, "/videos", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			var body model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Empty(t, svc.userID, "service must not be called")
		})
	}
}

func TestUpdateVideoEmptyBody(t *testing.T) {
	svc := &fakeService{video: sampleVideo()}
	w := do(newEngine(svc), http.MethodPut, "/videos/abc", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", svc.videoID)
	assert.True(t, svc.update.Empty())
}

func TestUpdateVideo(t *testing.T) {
	svc := &fakeService{video: sampleVideo()}
	w := do(newEngine(svc), http.MethodPut, "/videos/abc", `{"title":"B"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", svc.videoID)
	require.NotNil(t, svc.update.Title)
	assert.Equal(t, "B", *svc.update.Title)
	assert.Nil(t, svc.update.Description)
}

func TestUpdateVideoErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", service.ErrVideoNotFound, http.StatusNotFound, "Video not found"},
		{"forbidden", &service.Error{Kind: service.ErrForbidden, Message: "You can update only your video"}, http.StatusForbidden, "You can update only your video"},
		{"store failure", errors.New("socket closed"), http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newEngine(&fakeService{err: tt.err}), http.MethodPut, "/videos/abc", `{"title":"B"}`)

			require.Equal(t, tt.wantStatus, w.Code)
			var body model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestDeleteVideo(t *testing.T) {
	svc := &fakeService{}
	w := do(newEngine(svc), http.MethodDelete, "/videos/abc", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"The video has been deleted"}`, w.Body.String())
	assert.Equal(t, "u1", svc.userID)
	assert.Equal(t, "abc", svc.videoID)
}

func TestGetVideoNotFound(t *testing.T) {
	w := do(newEngine(&fakeService{err: service.ErrVideoNotFound}), http.MethodGet, "/videos/find/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddView(t *testing.T) {
	svc := &fakeService{}
	w := do(newEngine(svc), http.MethodPut, "/videos/view/abc", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"The view has been increased"}`, w.Body.String())
	assert.Equal(t, service.ViewSourceHTTP, svc.source)
}

func TestListings(t *testing.T) {
	videos := []model.Video{*sampleVideo(), *sampleVideo()}

	tests := []struct {
		name    string
		target  string
		wantArg string
	}{
		{"random", "/videos/random", ""},
		{"trend", "/videos/trend", ""},
		{"sub", "/videos/sub", ""},
		{"tags", "/videos/tags?tags=go,rust", "go,rust"},
		{"search", "/videos/search?q=Gopher", "Gopher"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{videos: videos}
			w := do(newEngine(svc), http.MethodGet, tt.target, "")

			require.Equal(t, http.StatusOK, w.Code)
			var got []model.Video
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Len(t, got, 2)
			assert.Equal(t, tt.wantArg, svc.arg)
		})
	}
}

func TestListingEmptyIsArray(t *testing.T) {
	w := do(newEngine(&fakeService{videos: []model.Video{}}), http.MethodGet, "/videos/trend", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestSubUserNotFound(t *testing.T) {
	svc := &fakeService{err: service.ErrUserNotFound}
	w := do(newEngine(svc), http.MethodGet, "/videos/sub", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "u1", svc.userID)
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/", Root("video-service"))
	r.GET("/health", Health("video-service", "1.2.3"))

	w := do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"video-service","version":"1.2.3"}`, w.Body.String())

	w = do(r, http.MethodGet, "/", "")
	assert.JSONEq(t, `{"status":"ok","service":"video-service"}`, w.Body.String())
}
