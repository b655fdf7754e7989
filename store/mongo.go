package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"videohub-service/metrics"
	"videohub-service/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoVideoStore struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewMongoVideoStore(db *mongo.Database, collection string, log *zap.Logger) *MongoVideoStore {
	return &MongoVideoStore{coll: db.Collection(collection), log: log}
}

// EnsureIndexes creates the indexes backing the listing queries. Failures are
// logged and do not stop the service.
func (s *MongoVideoStore) EnsureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "views", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	for _, index := range indexes {
		if _, err := s.coll.Indexes().CreateOne(ctx, index); err != nil {
			s.log.Warn("failed to create index", zap.Any("keys", index.Keys), zap.Error(err))
		}
	}
}

func (s *MongoVideoStore) Insert(ctx context.Context, video *model.Video) (err error) {
	defer s.observe("insert", time.Now(), &err)

	if video.ID.IsZero() {
		video.ID = primitive.NewObjectID()
	}
	if _, err = s.coll.InsertOne(ctx, video); err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (s *MongoVideoStore) FindByID(ctx context.Context, id string) (_ *model.Video, err error) {
	defer s.observe("find_one", time.Now(), &err)

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var video model.Video
	if err = s.coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&video); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find video %s: %w", id, err)
	}
	return &video, nil
}

func (s *MongoVideoStore) Update(ctx context.Context, id string, update model.VideoUpdate) (_ *model.Video, err error) {
	defer s.observe("find_one_and_update", time.Now(), &err)

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := updateFields(update)
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var video model.Video
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update video %s: %w", id, err)
	}
	return &video, nil
}

func updateFields(update model.VideoUpdate) bson.M {
	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["desc"] = *update.Description
	}
	if update.ImgURL != nil {
		set["imgUrl"] = *update.ImgURL
	}
	if update.VideoURL != nil {
		set["videoUrl"] = *update.VideoURL
	}
	if update.Tags != nil {
		tags := *update.Tags
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}
	return set
}

func (s *MongoVideoStore) Delete(ctx context.Context, id string) (err error) {
	defer s.observe("delete_one", time.Now(), &err)

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("delete video %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoVideoStore) IncrementViews(ctx context.Context, id string) (err error) {
	defer s.observe("update_one", time.Now(), &err)

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoVideoStore) Sample(ctx context.Context, size int) (_ []model.Video, err error) {
	defer s.observe("aggregate", time.Now(), &err)

	pipeline := mongo.Pipeline{{{Key: "$sample", Value: bson.M{"size": size}}}}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample videos: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func (s *MongoVideoStore) ListByViews(ctx context.Context) (_ []model.Video, err error) {
	defer s.observe("find", time.Now(), &err)

	opts := options.Find().SetSort(bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list trending videos: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func (s *MongoVideoStore) ListByOwner(ctx context.Context, userID string) (_ []model.Video, err error) {
	defer s.observe("find", time.Now(), &err)

	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("list videos of %s: %w", userID, err)
	}
	return decodeAll(ctx, cursor)
}

func (s *MongoVideoStore) FindByTags(ctx context.Context, tags []string, limit int) (_ []model.Video, err error) {
	defer s.observe("find", time.Now(), &err)

	opts := options.Find().SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, bson.M{"tags": bson.M{"$in": tags}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find videos by tags: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func (s *MongoVideoStore) Search(ctx context.Context, query string, limit int) (_ []model.Video, err error) {
	defer s.observe("find", time.Now(), &err)

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"desc": pattern},
		bson.M{"tags": pattern},
	}}

	opts := options.Find().SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func (s *MongoVideoStore) observe(operation string, start time.Time, errp *error) {
	observe(operation, s.coll.Name(), start, *errp)
}

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database, collection string) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(collection)}
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (_ *model.User, err error) {
	defer func(start time.Time) { observe("find_one", s.coll.Name(), start, err) }(time.Now())

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var user model.User
	if err = s.coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &user, nil
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]model.Video, error) {
	defer cursor.Close(ctx)

	videos := []model.Video{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}
	return videos, nil
}

func observe(operation, collection string, start time.Time, err error) {
	status := metrics.Status(err)
	if errors.Is(err, ErrNotFound) {
		status = "not_found"
	}
	metrics.MongoOperationsTotal.WithLabelValues(operation, collection, status).Inc()
	metrics.MongoOperationDuration.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
}
