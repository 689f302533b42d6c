package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"venuedesk/internal/models"
)

// BookingSource supplies the booking collection the reports are computed
// over. The reporter only ever reads.
type BookingSource interface {
	ListAll(ctx context.Context) ([]models.BookingRequest, error)
}

// Reporter computes aggregate views over the booking collection. All
// operations are pure reads: the same collection always yields the same
// report.
type Reporter struct {
	source BookingSource
	logger *zerolog.Logger
}

func NewReporter(source BookingSource, logger *zerolog.Logger) *Reporter {
	return &Reporter{source: source, logger: logger}
}

// Generate builds the full report. When both dates are given (layout
// 2006-01-02) the collection is first filtered to bookings created inside
// the inclusive range.
func (r *Reporter) Generate(ctx context.Context, startDate, endDate string) (*models.Report, error) {
	bookings, err := r.source.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if startDate != "" && endDate != "" {
		start, err := time.Parse(models.EventDateLayout, startDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
		}
		end, err := time.Parse(models.EventDateLayout, endDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
		}

		filtered := make([]models.BookingRequest, 0, len(bookings))
		for _, b := range bookings {
			if !b.CreatedAt.Before(start) && !b.CreatedAt.After(end) {
				filtered = append(filtered, b)
			}
		}
		bookings = filtered
	}

	report := &models.Report{
		TotalBookings:        len(bookings),
		BookingsByDepartment: make(map[string]int),
		BookingsByVenue:      make(map[string]int),
		BookingsByMonth:      make(map[string]int),
	}

	for _, b := range bookings {
		switch b.Status {
		case models.StatusApproved:
			report.ApprovedBookings++
		case models.StatusRejected:
			report.RejectedBookings++
		case models.StatusPending:
			report.PendingBookings++
		}

		report.BookingsByDepartment[b.CompanyName]++
		report.BookingsByVenue[b.VenueRequested]++
		report.BookingsByMonth[b.CreatedAt.Format(models.MonthBucketLayout)]++
	}

	report.BookingsByStatus = map[string]int{
		"Approved": report.ApprovedBookings,
		"Rejected": report.RejectedBookings,
		"Pending":  report.PendingBookings,
	}

	report.AverageProcessingTime = averageProcessingDays(bookings)
	report.TopRequesters = topRequesters(bookings, 10)
	report.RecentActivity = recentActivity(bookings, 10)

	return report, nil
}

// averageProcessingDays averages UpdatedAt-CreatedAt over reviewed bookings,
// in fractional days. Zero when nothing has been reviewed yet.
func averageProcessingDays(bookings []models.BookingRequest) float64 {
	var total float64
	count := 0
	for _, b := range bookings {
		if b.Status == models.StatusPending {
			continue
		}
		total += b.UpdatedAt.Sub(b.CreatedAt).Hours() / 24
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// topRequesters ranks requesters by booking count, keeping the first-seen
// company per name. The sort is stable so ties keep encounter order.
func topRequesters(bookings []models.BookingRequest, limit int) []models.RequesterCount {
	index := make(map[string]int, len(bookings))
	ranked := make([]models.RequesterCount, 0)

	for _, b := range bookings {
		if i, ok := index[b.RequesterName]; ok {
			ranked[i].Count++
			continue
		}
		index[b.RequesterName] = len(ranked)
		ranked = append(ranked, models.RequesterCount{
			Name:    b.RequesterName,
			Count:   1,
			Company: b.CompanyName,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// recentActivity returns the newest bookings by creation time, newest first.
func recentActivity(bookings []models.BookingRequest, limit int) []models.BookingRequest {
	recent := append([]models.BookingRequest(nil), bookings...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// VenueUtilization reports each venue's share of all bookings, over the
// entire unfiltered collection, sorted by share descending.
func (r *Reporter) VenueUtilization(ctx context.Context) ([]models.VenueUtilization, error) {
	bookings, err := r.source.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, b := range bookings {
		if _, ok := counts[b.VenueRequested]; !ok {
			order = append(order, b.VenueRequested)
		}
		counts[b.VenueRequested]++
	}

	total := len(bookings)
	result := make([]models.VenueUtilization, 0, len(order))
	for _, venue := range order {
		count := counts[venue]
		utilization := 0.0
		if total > 0 {
			utilization = float64(count) / float64(total) * 100
		}
		result = append(result, models.VenueUtilization{
			Venue:       venue,
			Bookings:    count,
			Utilization: utilization,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Utilization > result[j].Utilization
	})
	return result, nil
}

// DepartmentPerformance tallies review outcomes per company over the entire
// collection, sorted by total descending.
func (r *Reporter) DepartmentPerformance(ctx context.Context) ([]models.DepartmentPerformance, error) {
	bookings, err := r.source.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(bookings))
	result := make([]models.DepartmentPerformance, 0)

	for _, b := range bookings {
		i, ok := index[b.CompanyName]
		if !ok {
			i = len(result)
			index[b.CompanyName] = i
			result = append(result, models.DepartmentPerformance{Department: b.CompanyName})
		}

		result[i].Total++
		switch b.Status {
		case models.StatusApproved:
			result[i].Approved++
		case models.StatusRejected:
			result[i].Rejected++
		}
	}

	for i := range result {
		if result[i].Total > 0 {
			result[i].ApprovalRate = float64(result[i].Approved) / float64(result[i].Total) * 100
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total > result[j].Total
	})
	return result, nil
}
