// Package document renders the downloadable booking artifacts: the full A4
// ticket and the compact boarding pass.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// Field width budgets, in characters. Values past the budget are clipped
// with an ellipsis rather than overlapping neighbouring columns.
const (
	ticketRouteBudget = 25
	passRouteBudget   = 35
	nameBudget        = 20
	emailBudget       = 25
)

type Generator struct {
	logger *zap.Logger
}

func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{logger: logger}
}

// Ticket renders the A4 ticket for a booking record. The returned file name
// is deterministic so repeated downloads overwrite the same file.
func (g *Generator) Ticket(rec domain.BookingRecord) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(rec.CreatedAt)
	pdf.AddPage()

	// header band
	pdf.SetFillColor(30, 58, 138)
	pdf.Rect(0, 0, 210, 40, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(20, 18, "AirFlight Company")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 28, "Premium Air Travel Experience")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(140, 18, "Ticket: "+rec.TicketNumber)

	// status badge
	pdf.SetFillColor(16, 185, 129)
	pdf.RoundedRect(140, 22, 45, 7, 2, "1234", "F")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(142, 27, strings.ToUpper(string(rec.Status)))

	// content background
	pdf.SetFillColor(248, 250, 252)
	pdf.Rect(10, 45, 190, 180, "F")

	y := 60.0
	y = g.sectionHeader(pdf, y, "FLIGHT INFORMATION")
	g.labelValue(pdf, 20, y, "Flight Number:", 55, rec.Flight.FlightNumber)
	g.labelValueSized(pdf, 20, y+10, "Route:", 55, clipMiddle(rec.Flight.Route(), ticketRouteBudget), 10)
	g.labelValue(pdf, 20, y+20, "Class:", 55, cabinLabel(rec.CabinClass))
	g.labelValue(pdf, 120, y, "Departure:", 150, rec.Flight.DepartureTime.Format("15:04"))
	g.labelValue(pdf, 120, y+10, "Arrival:", 145, rec.Flight.ArrivalTime.Format("15:04"))
	g.labelValue(pdf, 120, y+20, "Date:", 135, rec.Flight.DepartureTime.Format("2006-01-02"))

	y += 45
	y = g.sectionHeader(pdf, y, "PASSENGER INFORMATION")
	g.labelValue(pdf, 20, y, "Passenger Name:", 70, clipEnd(rec.Passenger.FullName(), nameBudget))
	g.labelValue(pdf, 20, y+10, "Email:", 40, clipEnd(rec.Passenger.Email, emailBudget))
	if rec.Seat != nil {
		g.labelValue(pdf, 20, y+20, "Seat Number:", 65, rec.Seat.SeatID)
	}

	y += 45
	y = g.sectionHeader(pdf, y, "BOOKING INFORMATION")
	g.labelValue(pdf, 20, y, "Booking Reference:", 75, rec.BookingReference)
	g.labelValue(pdf, 20, y+10, "Total Amount:", 65, rec.TotalPaid.String())
	g.labelValue(pdf, 20, y+20, "Payment Method:", 75, string(rec.PaymentMethod))
	g.labelValue(pdf, 20, y+30, "Booking Date:", 65, rec.CreatedAt.Format("2006-01-02"))

	g.drawQR(pdf, 140, y, 30, rec.TicketNumber+"-"+rec.BookingReference)

	// notices
	y += 50
	pdf.SetFillColor(254, 243, 199)
	pdf.Rect(15, y, 180, 25, "F")
	pdf.SetTextColor(146, 64, 14)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(20, y+8, "IMPORTANT NOTES:")
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(20, y+15, "- Please arrive at the airport at least 2 hours before departure")
	pdf.Text(20, y+20, "- Valid ID required for domestic flights, passport for international")

	// footer band
	pdf.SetFillColor(30, 58, 138)
	pdf.Rect(0, 270, 210, 27, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(20, 280, "Thank you for choosing AirFlight Company!")
	pdf.Text(20, 288, "For support, contact us at support@airflight.com | +1-800-FLY-HIGH")

	return g.output(pdf, fmt.Sprintf("ticket-%s.pdf", rec.TicketNumber))
}

// BoardingPass renders the compact 210x85 landscape pass.
func (g *Generator) BoardingPass(rec domain.BookingRecord) ([]byte, string, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 210, Ht: 85},
	})
	pdf.SetCreationDate(rec.CreatedAt)
	pdf.AddPage()

	pdf.SetFillColor(30, 58, 138)
	pdf.Rect(0, 0, 210, 85, "F")
	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(10, 10, 190, 65, "F")

	pdf.SetTextColor(30, 58, 138)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(15, 22, "BOARDING PASS")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(15, 32, "Flight "+rec.Flight.FlightNumber)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(15, 40, clipMiddle(rec.Flight.Route(), passRouteBudget))

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(15, 55, rec.Passenger.FullName())

	pdf.SetFont("Helvetica", "", 9)
	seat := "N/A"
	if rec.Seat != nil {
		seat = rec.Seat.SeatID
	}
	pdf.Text(120, 32, "Seat: "+seat)
	pdf.Text(120, 40, "Class: "+cabinLabel(rec.CabinClass))
	pdf.Text(120, 48, "Date: "+rec.Flight.DepartureTime.Format("2006-01-02"))
	pdf.Text(120, 56, "Ticket: "+rec.TicketNumber)

	g.drawQR(pdf, 160, 25, 25, rec.TicketNumber+"-"+rec.Passenger.FullName())

	return g.output(pdf, fmt.Sprintf("boarding-pass-%s.pdf", rec.TicketNumber))
}

func (g *Generator) sectionHeader(pdf *gofpdf.Fpdf, y float64, title string) float64 {
	pdf.SetFillColor(59, 130, 246)
	pdf.Rect(15, y-5, 180, 12, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(20, y+3, title)
	pdf.SetTextColor(55, 65, 81)
	return y + 20
}

func (g *Generator) labelValue(pdf *gofpdf.Fpdf, lx, y float64, label string, vx float64, value string) {
	g.labelValueSized(pdf, lx, y, label, vx, value, 12)
}

func (g *Generator) labelValueSized(pdf *gofpdf.Fpdf, lx, y float64, label string, vx float64, value string, valueSize float64) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(lx, y, label)
	pdf.SetFont("Helvetica", "", valueSize)
	pdf.Text(vx, y, value)
}

func (g *Generator) drawQR(pdf *gofpdf.Fpdf, x, y, size float64, data string) {
	grid := QRPattern(data)
	cell := size / qrGridSize
	pdf.SetFillColor(0, 0, 0)
	for i := 0; i < qrGridSize; i++ {
		for j := 0; j < qrGridSize; j++ {
			if grid[i][j] {
				pdf.Rect(x+float64(i)*cell, y+float64(j)*cell, cell, cell, "F")
			}
		}
	}
}

func (g *Generator) output(pdf *gofpdf.Fpdf, name string) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render %s: %w", name, err)
	}
	if g.logger != nil {
		g.logger.Info("document rendered",
			zap.String("file", name), zap.Int("bytes", buf.Len()))
	}
	return buf.Bytes(), name, nil
}

func cabinLabel(c domain.CabinClass) string {
	if c == "" {
		return "Economy"
	}
	return strings.ToUpper(string(c)[:1]) + string(c)[1:]
}

// clipMiddle keeps budget-3 leading characters plus the ellipsis. Used for
// route strings where the tail carries little information.
func clipMiddle(s string, budget int) string {
	r := []rune(s)
	if len(r) <= budget {
		return s
	}
	return string(r[:budget-3]) + "..."
}

// clipEnd keeps the full budget and appends the ellipsis past it. Matches
// the name and email rendering on the original layout.
func clipEnd(s string, budget int) string {
	r := []rune(s)
	if len(r) <= budget {
		return s
	}
	return string(r[:budget]) + "..."
}
