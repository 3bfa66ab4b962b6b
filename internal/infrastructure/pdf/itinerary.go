package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/ololchike/tourpay/internal/domain"
)

// ItineraryRenderer produces the PDF itinerary attached to booking
// confirmation email.
type ItineraryRenderer struct{}

func NewItineraryRenderer() domain.ItineraryRenderer {
	return &ItineraryRenderer{}
}

func (r *ItineraryRenderer) Render(booking *domain.Booking, items []domain.ItineraryItem) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Itinerary %s", booking.Reference), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 12, booking.TourName)
	doc.Ln(14)

	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 7, fmt.Sprintf("Booking reference: %s", booking.Reference))
	doc.Ln(7)
	doc.Cell(0, 7, fmt.Sprintf("Traveler: %s", booking.ClientName))
	doc.Ln(7)
	doc.Cell(0, 7, fmt.Sprintf("Dates: %s to %s",
		booking.StartDate.Format("02 Jan 2006"), booking.EndDate.Format("02 Jan 2006")))
	doc.Ln(7)
	doc.Cell(0, 7, fmt.Sprintf("Travelers: %d", booking.Travelers))
	doc.Ln(12)

	doc.SetFont("Helvetica", "B", 13)
	doc.Cell(0, 8, "Day by day")
	doc.Ln(10)

	for _, item := range items {
		doc.SetFont("Helvetica", "B", 11)
		doc.Cell(0, 7, fmt.Sprintf("Day %d: %s", item.Day, item.Title))
		doc.Ln(7)
		doc.SetFont("Helvetica", "", 10)
		if item.Description != "" {
			doc.MultiCell(0, 5, item.Description, "", "L", false)
		}
		if item.Accommodation != "" {
			doc.Cell(0, 5, fmt.Sprintf("Accommodation: %s", item.Accommodation))
			doc.Ln(5)
		}
		if item.Activities != "" {
			doc.Cell(0, 5, fmt.Sprintf("Activities: %s", item.Activities))
			doc.Ln(5)
		}
		doc.Ln(4)
	}

	doc.SetFont("Helvetica", "B", 13)
	doc.Cell(0, 8, "Price summary")
	doc.Ln(10)
	doc.SetFont("Helvetica", "", 10)
	for _, line := range []struct {
		label  string
		amount float64
	}{
		{"Base price", booking.BasePrice},
		{"Accommodation", booking.AccommodationCost},
		{"Activities", booking.ActivitiesCost},
		{"Tax", booking.TaxAmount},
		{"Total", booking.TotalPrice},
	} {
		doc.Cell(60, 6, line.label)
		doc.Cell(0, 6, fmt.Sprintf("%.2f", line.amount))
		doc.Ln(6)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("itinerary pdf rendering failed: %w", err)
	}
	return buf.Bytes(), nil
}
