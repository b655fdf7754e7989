// Package store persists videos and reads user subscriptions.
package store

import (
	"context"
	"errors"

	"videohub-service/model"
)

// ErrNotFound is returned when the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// VideoStore is the persistence contract for the videos collection.
type VideoStore interface {
	Insert(ctx context.Context, video *model.Video) error
	FindByID(ctx context.Context, id string) (*model.Video, error)
	Update(ctx context.Context, id string, update model.VideoUpdate) (*model.Video, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	Sample(ctx context.Context, size int) ([]model.Video, error)
	ListByViews(ctx context.Context) ([]model.Video, error)
	ListByOwner(ctx context.Context, userID string) ([]model.Video, error)
	FindByTags(ctx context.Context, tags []string, limit int) ([]model.Video, error)
	Search(ctx context.Context, query string, limit int) ([]model.Video, error)
}

// UserStore reads users. This service never writes them.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}
