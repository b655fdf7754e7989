package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video represents a user uploaded video stored in MongoDB
type Video struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      string             `bson:"userId" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"desc" json:"desc"`
	ImgURL      string             `bson:"imgUrl" json:"imgUrl"`
	VideoURL    string             `bson:"videoUrl" json:"videoUrl"`
	Tags        []string           `bson:"tags" json:"tags"`
	Views       int64              `bson:"views" json:"views"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// User is the subset of the users collection this service reads
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SubscribedUsers []string           `bson:"subscribedUsers" json:"subscribedUsers"`
}

// VideoInput is the request body for creating a video
type VideoInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"desc"`
	ImgURL      string   `json:"imgUrl"`
	VideoURL    string   `json:"videoUrl"`
	Tags        []string `json:"tags"`
}

// VideoUpdate carries the fields of a partial update. Nil fields are left untouched.
type VideoUpdate struct {
	Title       *string   `json:"title"`
	Description *string   `json:"desc"`
	ImgURL      *string   `json:"imgUrl"`
	VideoURL    *string   `json:"videoUrl"`
	Tags        *[]string `json:"tags"`
}

// Empty reports whether the update changes nothing.
func (u VideoUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.ImgURL == nil && u.VideoURL == nil && u.Tags == nil
}

// Apply merges the update into v.
func (u VideoUpdate) Apply(v *Video) {
	if u.Title != nil {
		v.Title = *u.Title
	}
	if u.Description != nil {
		v.Description = *u.Description
	}
	if u.ImgURL != nil {
		v.ImgURL = *u.ImgURL
	}
	if u.VideoURL != nil {
		v.VideoURL = *u.VideoURL
	}
	if u.Tags != nil {
		v.Tags = append([]string{}, (*u.Tags)...)
	}
}

// MessageResponse is returned by operations that only confirm success
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body written by the central error responder
type ErrorResponse struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}
