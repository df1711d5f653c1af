package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	orderdomain "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
)

func TestFromRevenuePoints_FormatsDayAtDisplayTime(t *testing.T) {
	points := FromRevenuePoints([]orderdomain.RevenuePoint{
		{Day: orderdomain.Day{Year: 2024, Month: time.March, Day: 9}, Revenue: 300, DeliveredRevenue: 100},
	}, "02/01/2006")

	require.Equal(t, []RevenuePoint{{Date: "09/03/2024", Revenue: 300, DeliveredRevenue: 100}}, points)
}

func TestToDraft_KeepsSubmittedTotal(t *testing.T) {
	draft := ToDraft(OrderInput{
		CustomerName: "Awa",
		Products:     []OrderProduct{{ID: "p1", Name: "Casque", Price: 100, Quantity: 2}},
		TotalAmount:  150,
	})
	require.Equal(t, int64(150), draft.TotalAmount)
	require.Equal(t, "p1", draft.Lines[0].ProductID)
}
