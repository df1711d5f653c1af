package events

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "storefront.")
	require.Error(t, err)
}

func TestKafkaPublisher_Topic(t *testing.T) {
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "storefront.")
	require.NoError(t, err)
	defer p.Close()

	require.Equal(t, "storefront.orders.placed", p.Topic(ports.EventOrderPlaced))
	require.Equal(t, "storefront.orders.status-changed", p.Topic(ports.EventOrderStatusChanged))
}
