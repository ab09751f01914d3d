package distribution

import (
	"context"

	"github.com/fixedstream/bondoffice/internal/service"
)

// envelope is the wire form for a distributed update.
type envelope struct {
	Event  string      `json:"event"`
	Entity interface{} `json:"entity"`
}

// Listener publishes every add/update of one service to a pub/sub channel
// as JSON. Publish failures propagate to the original publisher like any
// other listener failure.
func Listener[V any](backend PubSubBackend, channel string) service.Listener[V] {
	return service.ListenerFuncs[V]{
		OnAdd: func(v V) error {
			return backend.Publish(context.Background(), channel, envelope{Event: "add", Entity: v})
		},
		OnUpdate: func(v V) error {
			return backend.Publish(context.Background(), channel, envelope{Event: "update", Entity: v})
		},
	}
}
