package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"socialhub/internal/middleware"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated         = "post_created"
	EventPostReactionUpdated = "post_reaction_updated"
	EventPostDeleted         = "post_deleted"
	EventPostLiked           = "post_liked"
)

// publishUserEvent sends an event to a single user's channel.
func (s *Server) publishUserEvent(ctx context.Context, userID uint, eventType string, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	message, ok := encodeEvent(ctx, eventType, payload)
	if !ok {
		return
	}
	if err := s.notifier.PublishUser(ctx, userID, message); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish user event",
			slog.String("event", eventType),
			slog.Any("target_user_id", userID),
			slog.String("error", err.Error()))
	}
}

// publishBroadcastEvent fans an event out to every subscriber. Failures are
// logged and never reach the caller.
func (s *Server) publishBroadcastEvent(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	message, ok := encodeEvent(ctx, eventType, payload)
	if !ok {
		return
	}
	if err := s.notifier.PublishBroadcast(ctx, message); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish broadcast event",
			slog.String("event", eventType), slog.String("error", err.Error()))
	}
}

func encodeEvent(ctx context.Context, eventType string, payload map[string]interface{}) (string, bool) {
	eventJSON, err := json.Marshal(map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to marshal event",
			slog.String("event", eventType), slog.String("error", err.Error()))
		return "", false
	}
	return string(eventJSON), true
}
