package providers

import (
	"context"
	"fmt"

	"github.com/medichat/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.Event) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.Event, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelRecommendations carries recommendation.created events
const EventChannelRecommendations = "recommendations"

// GetChatRoomChannel returns the channel name for a chat room
func GetChatRoomChannel(roomID int64) string {
	return fmt.Sprintf("chat:room:%d", roomID)
}
