package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mygamelist/internal/constants"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	CATALOG_CHANNEL Channel = constants.EventsChannel
)

type MessageType string

const (
	GAME_CREATED MessageType = "game_created"
	GAME_UPDATED MessageType = "game_updated"
	GAME_DELETED MessageType = "game_deleted"

	// GAMES_DEDUPED carries the number of rows a duplicate sweep removed.
	GAMES_DEDUPED MessageType = "games_deduped"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	UserID    *uuid.UUID     `json:"userId,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// EventBus fans events out through valkey pub/sub so every instance sees
// them. With a nil client it only notifies handlers in this process.
type EventBus struct {
	client    valkey.Client
	logger    logger.Logger
	handlers  map[Channel][]EventHandler
	listening map[Channel]bool
	mutex     sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		logger:    logger.New("EventBus"),
		handlers:  make(map[Channel][]EventHandler),
		listening: make(map[Channel]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	if eb.client == nil {
		eb.notifyLocalHandlers(channel, event)
		return nil
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		// Peers miss this one but local subscribers still have to react.
		eb.notifyLocalHandlers(channel, event)
		return log.Err(
			"failed to publish event to valkey",
			err,
			"channel", channel,
			"eventID", event.ID,
		)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)

	return nil
}

// PublishGameEvent announces a catalog change.
func (eb *EventBus) PublishGameEvent(eventType MessageType, gameID uuid.UUID, name string) error {
	return eb.Publish(CATALOG_CHANNEL, Event{
		Type: eventType,
		Data: map[string]any{
			"id":   gameID.String(),
			"name": name,
		},
	})
}

func (eb *EventBus) PublishDedupe(deleted int64) error {
	return eb.Publish(CATALOG_CHANNEL, Event{
		Type: GAMES_DEDUPED,
		Data: map[string]any{"deleted": deleted},
	})
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	startListener := eb.client != nil && !eb.listening[channel]
	if startListener {
		eb.listening[channel] = true
	}
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if startListener {
		go eb.listenToChannel(channel)
	}

	return nil
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[channel]...)
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		go func(h EventHandler, handlerIndex int) {
			if err := h(event); err != nil {
				log.Er(
					"handler failed",
					err,
					"channel", channel,
					"eventID", event.ID,
					"handlerIndex", handlerIndex,
				)
			}
		}(handler, i)
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel)
				return
			}

			eb.notifyLocalHandlers(channel, event)
		},
	)
	if err != nil && eb.ctx.Err() == nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}

	eb.mutex.Lock()
	eb.listening[channel] = false
	eb.mutex.Unlock()
}

func (eb *EventBus) Close() error {
	log := eb.logger.Function("Close")

	eb.cancel()

	log.Info("EventBus closed")
	return nil
}
