package services

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelplan/internal/domain"
	"travelplan/internal/repositories"
	"travelplan/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the printable trip summary (members, flights, expenses).
type DocsService struct {
	Trips     repositories.TripRepository
	Flights   repositories.FlightRepository
	Expenses  repositories.ExpenseRepository
	RequestID string
}

func (s DocsService) GenerateTripSummary(tripID int64) ([]byte, string, error) {
	trip, err := s.Trips.GetByID(tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.NotFoundError{Resource: "trip"}
		}
		return nil, "", err
	}

	members, err := s.Trips.ListMembers(tripID)
	if err != nil {
		return nil, "", err
	}
	flights, err := s.Flights.ListByTrip(tripID)
	if err != nil {
		return nil, "", err
	}
	expenses, err := s.Expenses.ListByTrip(tripID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "trip_summary", fmt.Sprintf("trip_id=%d", tripID))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Summary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRIP SUMMARY")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Trip      : "+safe(trip.Title, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Dates     : %s - %s", safe(trip.StartDate, "-"), safe(trip.EndDate, "-")))
	pdf.Ln(7)
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Username)
	}
	pdf.Cell(0, 7, "Members   : "+safe(strings.Join(names, ", "), "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Flights")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	if len(flights) == 0 {
		pdf.Cell(0, 6, "(none)")
		pdf.Ln(8)
	}
	for _, f := range flights {
		line := fmt.Sprintf("%s %s %s -> %s (%s %s-%s)",
			safe(f.Date, "-"), safe(f.Airline+" "+f.Number, "-"),
			safe(f.Departure, "-"), safe(f.Arrival, "-"),
			safe(f.Type, "-"), safe(f.DepartureTime, "-"), safe(f.ArrivalTime, "-"))
		pdf.MultiCell(0, 6, line, "", "", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Expenses")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	var total float64
	if len(expenses) == 0 {
		pdf.Cell(0, 6, "(none)")
		pdf.Ln(8)
	}
	for _, e := range expenses {
		total += e.Amount
		pdf.Cell(0, 6, fmt.Sprintf("%-24s %10.2f  paid by %s", e.ItemName, e.Amount, safe(e.PayerName, "-")))
		pdf.Ln(6)
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", total))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("TRIP_%d_%s.pdf", trip.ID, safeFilenamePart(trip.Title))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
