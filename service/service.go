package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"videohub-service/events"
	"videohub-service/metrics"
	"videohub-service/model"
	"videohub-service/store"
	"videohub-service/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// View sources used as metric labels.
const (
	ViewSourceHTTP = "http"
	ViewSourceNATS = "nats"
)

type VideoService struct {
	videos store.VideoStore
	users  store.UserStore
	events events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewVideoService(videos store.VideoStore, users store.UserStore, pub events.Publisher, log *zap.Logger) *VideoService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &VideoService{
		videos: videos,
		users:  users,
		events: pub,
		log:    log,
		now:    time.Now,
	}
}

// AddVideo stores a new video owned by userID.
func (s *VideoService) AddVideo(ctx context.Context, userID string, in model.VideoInput) (*model.Video, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title cannot be empty")
	}

	// MongoDB keeps millisecond precision.
	now := s.now().UTC().Truncate(time.Millisecond)
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	video := &model.Video{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		ImgURL:      in.ImgURL,
		VideoURL:    in.VideoURL,
		Tags:        tags,
		Views:       0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.videos.Insert(ctx, video); err != nil {
		return nil, err
	}

	metrics.VideosCreated.Inc()
	s.log.Info("video created", zap.String("video_id", video.ID.Hex()), zap.String("user_id", userID))
	s.events.Publish(ctx, model.VideoEvent{
		Type:    model.EventVideoCreated,
		VideoID: video.ID.Hex(),
		UserID:  userID,
		Video:   video,
	})
	return video, nil
}

// authorize loads the video and checks that userID owns it.
func (s *VideoService) authorize(ctx context.Context, userID, videoID, operation string) (*model.Video, error) {
	video, err := s.lookup(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.UserID != userID {
		metrics.OwnershipRejections.WithLabelValues(operation).Inc()
		s.log.Warn("ownership check failed",
			zap.String("operation", operation),
			zap.String("video_id", videoID),
			zap.String("user_id", userID))
		return nil, forbidden(fmt.Sprintf("You can %s only your video", operation))
	}
	return video, nil
}

// UpdateVideo merges update into the caller's video.
func (s *VideoService) UpdateVideo(ctx context.Context, userID, videoID string, update model.VideoUpdate) (*model.Video, error) {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, invalid("title cannot be empty")
	}

	video, err := s.authorize(ctx, userID, videoID, "update")
	if err != nil {
		return nil, err
	}
	if update.Empty() {
		return video, nil
	}

	updated, err := s.videos.Update(ctx, videoID, update)
	if err != nil {
		return nil, notFound(err, ErrVideoNotFound)
	}

	s.events.Publish(ctx, model.VideoEvent{
		Type:    model.EventVideoUpdated,
		VideoID: videoID,
		UserID:  userID,
		Video:   updated,
	})
	return updated, nil
}

// DeleteVideo removes the caller's video.
func (s *VideoService) DeleteVideo(ctx context.Context, userID, videoID string) error {
	if _, err := s.authorize(ctx, userID, videoID, "delete"); err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, videoID); err != nil {
		return notFound(err, ErrVideoNotFound)
	}

	metrics.VideosDeleted.Inc()
	s.log.Info("video deleted", zap.String("video_id", videoID), zap.String("user_id", userID))
	s.events.Publish(ctx, model.VideoEvent{Type: model.EventVideoDeleted, VideoID: videoID, UserID: userID})
	return nil
}

// GetVideo returns a video by id. Reads are public.
func (s *VideoService) GetVideo(ctx context.Context, videoID string) (*model.Video, error) {
	return s.lookup(ctx, videoID)
}

// AddView bumps the view counter of a video by one.
func (s *VideoService) AddView(ctx context.Context, videoID, source string) error {
	if err := s.videos.IncrementViews(ctx, videoID); err != nil {
		return notFound(err, ErrVideoNotFound)
	}

	metrics.VideoViews.WithLabelValues(source).Inc()
	s.events.Publish(ctx, model.VideoEvent{Type: model.EventVideoViewed, VideoID: videoID})
	return nil
}

// Random returns up to utils.RandomSampleSize distinct videos in no particular order.
func (s *VideoService) Random(ctx context.Context) ([]model.Video, error) {
	sample, err := s.videos.Sample(ctx, utils.RandomSampleSize)
	if err != nil {
		return nil, err
	}
	// $sample may return the same document twice on large collections.
	seen := make(map[string]struct{}, len(sample))
	out := make([]model.Video, 0, len(sample))
	for _, v := range sample {
		key := v.ID.Hex()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
		if len(out) == utils.RandomSampleSize {
			break
		}
	}
	return out, nil
}

// Trend returns every video, most viewed first.
func (s *VideoService) Trend(ctx context.Context) ([]model.Video, error) {
	videos, err := s.videos.ListByViews(ctx)
	if err != nil {
		return nil, err
	}
	return orEmpty(videos), nil
}

// SubscribedFeed returns the videos of every channel userID subscribes to,
// newest first.
func (s *VideoService) SubscribedFeed(ctx context.Context, userID string) ([]model.Video, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	channels := uniqueNonEmpty(user.SubscribedUsers)
	metrics.FeedChannelsQueried.Observe(float64(len(channels)))

	perChannel := make([][]model.Video, len(channels))
	g, gctx := errgroup.WithContext(ctx)
	for i, channelID := range channels {
		g.Go(func() error {
			videos, err := s.videos.ListByOwner(gctx, channelID)
			if err != nil {
				return fmt.Errorf("channel %s: %w", channelID, err)
			}
			perChannel[i] = videos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	feed := []model.Video{}
	for _, videos := range perChannel {
		feed = append(feed, videos...)
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	return feed, nil
}

// ByTags returns up to utils.TagResultLimit videos carrying any of the
// comma separated tags.
func (s *VideoService) ByTags(ctx context.Context, tagsCSV string) ([]model.Video, error) {
	tags := uniqueNonEmpty(strings.Split(tagsCSV, ","))
	if len(tags) == 0 {
		return []model.Video{}, nil
	}
	videos, err := s.videos.FindByTags(ctx, tags, utils.TagResultLimit)
	if err != nil {
		return nil, err
	}
	return orEmpty(videos), nil
}

// Search returns up to utils.SearchLimit videos whose title, description or
// tags contain query, ignoring case.
func (s *VideoService) Search(ctx context.Context, query string) ([]model.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Video{}, nil
	}
	videos, err := s.videos.Search(ctx, query, utils.SearchLimit)
	if err != nil {
		return nil, err
	}
	return orEmpty(videos), nil
}

func (s *VideoService) lookup(ctx context.Context, videoID string) (*model.Video, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, notFound(err, ErrVideoNotFound)
	}
	return video, nil
}

// notFound translates store.ErrNotFound into kind and passes other errors through.
func notFound(err, kind error) error {
	if errors.Is(err, store.ErrNotFound) {
		return kind
	}
	return err
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func orEmpty(videos []model.Video) []model.Video {
	if videos == nil {
		return []model.Video{}
	}
	return videos
}
