// Package distribution publishes entity updates to an external pub/sub
// backend. Backends are terminal consumers: nothing flows back into the
// pipeline.
package distribution

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// PubSubBackend abstracts pub/sub for Redis and Kafka.
// Use Redis for low-latency fan-out, Kafka for persistence/scalability.
type PubSubBackend interface {
	Publish(ctx context.Context, channel string, msg interface{}) error
	Close() error
}

// RedisPubSub implements PubSubBackend using Redis.
type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSub connects a Redis-backed publisher.
func NewRedisPubSub(addr string) *RedisPubSub {
	return &RedisPubSub{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func (r *RedisPubSub) Publish(ctx context.Context, channel string, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channel, data).Err()
}

func (r *RedisPubSub) Close() error {
	return r.client.Close()
}

// KafkaPubSub implements PubSubBackend using Kafka. The channel argument
// becomes the message key; the topic is fixed per writer.
type KafkaPubSub struct {
	writer *kafka.Writer
}

// NewKafkaPubSub connects a Kafka-backed publisher.
func NewKafkaPubSub(brokers []string, topic string) *KafkaPubSub {
	return &KafkaPubSub{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *KafkaPubSub) Publish(ctx context.Context, channel string, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(channel),
		Value: data,
	})
}

func (k *KafkaPubSub) Close() error {
	return k.writer.Close()
}
