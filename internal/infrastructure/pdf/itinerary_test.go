package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ololchike/tourpay/internal/domain"
)

func TestRender_ProducesPDF(t *testing.T) {
	booking := &domain.Booking{
		Reference:  "BK100",
		ClientName: "Jane Traveler",
		TourName:   "Masai Mara Safari",
		StartDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Travelers:  2,
		BasePrice:  800,
		TaxAmount:  200,
		TotalPrice: 1000,
	}
	items := []domain.ItineraryItem{
		{Day: 1, Title: "Arrival and game drive", Description: "Transfer from the airstrip.", Accommodation: "Mara Camp"},
		{Day: 2, Title: "Full day in the reserve", Activities: "Game drives, sundowner"},
	}

	out, err := NewItineraryRenderer().Render(booking, items)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRender_EmptyItinerary(t *testing.T) {
	booking := &domain.Booking{
		Reference:  "BK200",
		ClientName: "Sam Guest",
		TourName:   "Zanzibar Escape",
		StartDate:  time.Now(),
		EndDate:    time.Now().AddDate(0, 0, 3),
		Travelers:  1,
		TotalPrice: 500,
	}

	out, err := NewItineraryRenderer().Render(booking, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
