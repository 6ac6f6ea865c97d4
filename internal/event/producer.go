// Package event publishes domain events to Kafka for downstream
// consumers such as feeds, search indexers, and notification workers.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"vidtube/internal/domain"
	pkgkafka "vidtube/pkg/kafka"
)

// Kafka topics for published domain events.
const (
	TopicUserRegistered = "vidtube.user.registered"
	TopicVideoPublished = "vidtube.video.published"
	TopicVideoDeleted   = "vidtube.video.deleted"
)

const (
	aggregateTypeUser  = "user"
	aggregateTypeVideo = "video"
	source             = "vidtube"
)

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// VideoPublishedData is the payload for a video.published event.
type VideoPublishedData struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
}

// VideoDeletedData is the payload for a video.deleted event.
type VideoDeletedData struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// Publisher is the subset of the Kafka producer the event layer uses.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes domain events.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates an event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, aggregateTypeUser, source, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return nil
}

// PublishVideoPublished publishes a video.published event.
func (p *Producer) PublishVideoPublished(ctx context.Context, video *domain.Video) error {
	data := VideoPublishedData{
		ID:      video.ID,
		OwnerID: video.OwnerID,
		Title:   video.Title,
	}

	event, err := pkgkafka.NewEvent(TopicVideoPublished, video.ID, aggregateTypeVideo, source, data)
	if err != nil {
		return fmt.Errorf("create video.published event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicVideoPublished, event); err != nil {
		return fmt.Errorf("publish video.published event: %w", err)
	}

	p.logger.DebugContext(ctx, "published video.published event",
		slog.String("video_id", video.ID),
		slog.String("owner_id", video.OwnerID),
	)

	return nil
}

// PublishVideoDeleted publishes a video.deleted event.
func (p *Producer) PublishVideoDeleted(ctx context.Context, video *domain.Video) error {
	data := VideoDeletedData{
		ID:      video.ID,
		OwnerID: video.OwnerID,
	}

	event, err := pkgkafka.NewEvent(TopicVideoDeleted, video.ID, aggregateTypeVideo, source, data)
	if err != nil {
		return fmt.Errorf("create video.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicVideoDeleted, event); err != nil {
		return fmt.Errorf("publish video.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published video.deleted event",
		slog.String("video_id", video.ID),
	)

	return nil
}
