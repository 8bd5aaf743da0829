package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerWithoutBrokers(t *testing.T) {
	producer := NewProducer(nil, "adgen-generations")

	mock, ok := producer.(*mockProducer)
	require.True(t, ok)
	assert.Equal(t, "adgen-generations", mock.topic)

	assert.NoError(t, producer.SendMessage(context.Background(), "key", map[string]string{"status": "succeeded"}))
	assert.NoError(t, producer.Close())
}

func TestNewProducerUnreachableBroker(t *testing.T) {
	// nothing listens on port 1
	producer := NewProducer([]string{"127.0.0.1:1"}, "adgen-generations")

	_, ok := producer.(*mockProducer)
	assert.True(t, ok)
}
