package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Customer:    Customer{Name: " Awa ", Phone: "+237 6 99 00 00 00", Address: "Douala"},
		Lines:       []Line{{ProductID: "p1", Name: "Casque", Price: 12500, Quantity: 1}},
		TotalAmount: 12500,
	}
}

func TestDraft_Validate(t *testing.T) {
	d := validDraft()
	d.Normalize()
	require.NoError(t, d.Validate())
	require.Equal(t, "Awa", d.Customer.Name)

	noLines := validDraft()
	noLines.Lines = nil
	require.ErrorIs(t, noLines.Validate(), ErrNoLines)

	zeroQty := validDraft()
	zeroQty.Lines[0].Quantity = 0
	require.ErrorIs(t, zeroQty.Validate(), ErrInvalidQuantity)

	noCustomer := validDraft()
	noCustomer.Customer.Address = ""
	require.ErrorIs(t, noCustomer.Validate(), ErrMissingCustomer)
}

func TestDraft_TotalIsNotRecomputed(t *testing.T) {
	d := validDraft()
	d.TotalAmount = 1
	require.NoError(t, d.Validate())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" Shipped ")
	require.NoError(t, err)
	require.Equal(t, StatusShipped, status)

	_, err = ParseStatus("refunded")
	require.ErrorIs(t, err, ErrInvalidStatus)
}
