package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_RoutesToQueue(t *testing.T) {
	ctx := context.Background()
	amqpURI := amqpURIForTest(ctx, t)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	type testMsg struct {
		Email string `json:"email"`
		Kind  string `json:"kind"`
	}
	msg := testMsg{Email: "ana@example.com", Kind: "registration.created"}

	publisher := NewPublisher(ch)
	require.NoError(t, publisher.Publish(ctx, RegistrationsKey, msg))

	deliveries, err := ch.Consume(RegistrationsQueue, "test-consumer", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		var got testMsg
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, msg, got)
		assert.Equal(t, "application/json", d.ContentType)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublisher_Errors(t *testing.T) {
	ctx := context.Background()
	amqpURI := amqpURIForTest(ctx, t)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	ch, err := SetupChannel(conn, nil)
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	publisher := NewPublisher(ch)

	t.Run("ошибка сериализации", func(t *testing.T) {
		err := publisher.Publish(ctx, RegistrationsKey, struct {
			Ch chan int `json:"ch"`
		}{Ch: make(chan int)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
	})

	t.Run("отменённый контекст", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := publisher.Publish(cancelled, RegistrationsKey, map[string]string{"a": "b"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
