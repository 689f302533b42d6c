package reporting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"venuedesk/internal/models"
)

// csvHeaders is the fixed 17-column export layout.
var csvHeaders = []string{
	"ID",
	"Requester Name",
	"Company",
	"Designation",
	"Email",
	"Mobile",
	"Venue",
	"Event",
	"Event Date",
	"Start Time",
	"End Time",
	"Guests",
	"Status",
	"Approved By",
	"Approved Date",
	"Created At",
	"Updated At",
}

// ExportCSV renders the bookings as CSV, one row per record in input order.
// Free-text fields are always quoted, with embedded quotes doubled; id,
// date, time, numeric and status fields stay unquoted.
func ExportCSV(bookings []models.BookingRequest) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(csvHeaders, ","))

	for _, b := range bookings {
		fields := []string{
			b.ID,
			quote(b.RequesterName),
			quote(b.CompanyName),
			quote(b.Designation),
			quote(b.Email),
			quote(b.MobileNumber),
			quote(b.VenueRequested),
			quote(b.Event),
			b.EventScheduleStartDate,
			b.EventStartTime,
			b.EventEndTime,
			strconv.Itoa(b.NumberOfGuests),
			b.Status,
			quote(b.ApprovedBy),
			b.ApprovedDate,
			b.CreatedAt.Format(time.RFC3339),
			b.UpdatedAt.Format(time.RFC3339),
		}
		sb.WriteString("\n")
		sb.WriteString(strings.Join(fields, ","))
	}

	return sb.String()
}

// CSVFilename returns the conventional export file name for a point in time.
func CSVFilename(now time.Time) string {
	return fmt.Sprintf("booking-report-%s.csv", now.Format(models.EventDateLayout))
}

// quote wraps a field in double quotes, doubling any embedded quotes so
// commas and newlines inside the value cannot shift columns.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
