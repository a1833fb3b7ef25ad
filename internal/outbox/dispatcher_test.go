package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type stubWriter struct {
	written map[string][]kafka.Message
	err     error
}

func (s *stubWriter) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	if s.written == nil {
		s.written = make(map[string][]kafka.Message)
	}
	s.written[topic] = append(s.written[topic], msgs...)
	return nil
}

func TestDeliverGroupsByTopic(t *testing.T) {
	writer := &stubWriter{}
	d := NewDispatcher(nil, writer, 0, 10)

	messages := []Message{
		{EventID: 1, OwnerID: "owner-1", EventType: EventSessionLogged, Topic: "training_sessions", PartitionKey: "owner-1", Payload: []byte(`{"sequence":1}`)},
		{EventID: 2, OwnerID: "owner-1", EventType: EventGoalUpdated, Topic: "training_goals", PartitionKey: "owner-1", Payload: []byte(`{"target_sessions":8}`)},
		{EventID: 3, OwnerID: "owner-2", EventType: EventSessionLogged, Topic: "training_sessions", PartitionKey: "owner-2", Payload: []byte(`{"sequence":4}`)},
	}

	require.NoError(t, d.deliver(context.Background(), messages))

	require.Len(t, writer.written["training_sessions"], 2)
	require.Len(t, writer.written["training_goals"], 1)

	first := writer.written["training_sessions"][0]
	require.Equal(t, []byte("owner-1"), first.Key)
	require.Equal(t, "event_type", first.Headers[0].Key)
	require.Equal(t, []byte(EventSessionLogged), first.Headers[0].Value)
}

func TestDeliverPropagatesWriterError(t *testing.T) {
	writer := &stubWriter{err: errors.New("broker down")}
	d := NewDispatcher(nil, writer, 0, 10)

	err := d.deliver(context.Background(), []Message{
		{EventID: 1, Topic: "training_sessions", Payload: []byte(`{}`)},
	})
	require.Error(t, err)
}

func TestTopicFor(t *testing.T) {
	topic, ok := TopicFor(EventSessionLogged)
	require.True(t, ok)
	require.Equal(t, "training_sessions", topic)

	_, ok = TopicFor("session.deleted")
	require.False(t, ok)
}
