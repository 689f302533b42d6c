package reporting

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuedesk/internal/models"
)

// staticSource serves a fixed collection, standing in for the booking
// service.
type staticSource struct {
	bookings []models.BookingRequest
	err      error
}

func (s *staticSource) ListAll(ctx context.Context) ([]models.BookingRequest, error) {
	return s.bookings, s.err
}

func booking(id, requester, company, venue, status string, createdAt time.Time, processedDays float64) models.BookingRequest {
	return models.BookingRequest{
		ID:             id,
		RequesterName:  requester,
		CompanyName:    company,
		VenueRequested: venue,
		Status:         status,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt.Add(time.Duration(processedDays * 24 * float64(time.Hour))),
	}
}

func newTestReporter(bookings []models.BookingRequest) *Reporter {
	return NewReporter(&staticSource{bookings: bookings}, nil)
}

func TestGenerateAggregateConsistency(t *testing.T) {
	jan := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 5, 9, 0, 0, 0, time.UTC)

	reporter := newTestReporter([]models.BookingRequest{
		booking("b1", "Alice Smith", "MAG", "Tennis Court", models.StatusApproved, jan, 1),
		booking("b2", "Bob Jones", "NEOM", "Tennis Court", models.StatusRejected, jan, 2),
		booking("b3", "Alice Smith", "MAG", "Swimming Pool", models.StatusPending, feb, 0),
	})

	report, err := reporter.Generate(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalBookings)
	assert.Equal(t, 1, report.ApprovedBookings)
	assert.Equal(t, 1, report.RejectedBookings)
	assert.Equal(t, 1, report.PendingBookings)

	statusSum := 0
	for _, count := range report.BookingsByStatus {
		statusSum += count
	}
	assert.Equal(t, report.TotalBookings, statusSum)

	departmentSum := 0
	for _, count := range report.BookingsByDepartment {
		departmentSum += count
	}
	assert.Equal(t, report.TotalBookings, departmentSum)

	assert.Equal(t, map[string]int{"Jan 2025": 2, "Feb 2025": 1}, report.BookingsByMonth)
	assert.Equal(t, 2, report.BookingsByVenue["Tennis Court"])
}

func TestGenerateDateRangeFilterInclusive(t *testing.T) {
	reporter := newTestReporter([]models.BookingRequest{
		booking("b1", "A", "MAG", "Tennis Court", models.StatusPending, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 0),
		booking("b2", "B", "MAG", "Tennis Court", models.StatusPending, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 0),
		booking("b3", "C", "MAG", "Tennis Court", models.StatusPending, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 0),
	})

	report, err := reporter.Generate(context.Background(), "2025-02-01", "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalBookings)
}

func TestGenerateInvalidDates(t *testing.T) {
	reporter := newTestReporter(nil)

	_, err := reporter.Generate(context.Background(), "nope", "2025-03-01")
	assert.Error(t, err)
}

func TestAverageProcessingTime(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

	t.Run("ReviewedOnly", func(t *testing.T) {
		reporter := newTestReporter([]models.BookingRequest{
			booking("b1", "A", "MAG", "Tennis Court", models.StatusApproved, now, 1),
			booking("b2", "B", "MAG", "Tennis Court", models.StatusRejected, now, 3),
			booking("b3", "C", "MAG", "Tennis Court", models.StatusPending, now, 99),
		})

		report, err := reporter.Generate(context.Background(), "", "")
		require.NoError(t, err)
		assert.InDelta(t, 2.0, report.AverageProcessingTime, 1e-9)
	})

	t.Run("AllPendingIsZero", func(t *testing.T) {
		reporter := newTestReporter([]models.BookingRequest{
			booking("b1", "A", "MAG", "Tennis Court", models.StatusPending, now, 0),
		})

		report, err := reporter.Generate(context.Background(), "", "")
		require.NoError(t, err)
		assert.Zero(t, report.AverageProcessingTime)
	})
}

func TestTopRequesters(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	bookings := []models.BookingRequest{
		booking("b1", "Alice Smith", "MAG", "Tennis Court", models.StatusPending, now, 0),
		booking("b2", "Bob Jones", "NEOM", "Tennis Court", models.StatusPending, now, 0),
		booking("b3", "Alice Smith", "Facility Management", "Tennis Court", models.StatusPending, now, 0),
		booking("b4", "Carol White", "MAG", "Tennis Court", models.StatusPending, now, 0),
	}

	report, err := newTestReporter(bookings).Generate(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, report.TopRequesters, 3)
	assert.Equal(t, "Alice Smith", report.TopRequesters[0].Name)
	assert.Equal(t, 2, report.TopRequesters[0].Count)
	// First-seen company wins over later bookings for the same name.
	assert.Equal(t, "MAG", report.TopRequesters[0].Company)
	// Ties keep encounter order.
	assert.Equal(t, "Bob Jones", report.TopRequesters[1].Name)
	assert.Equal(t, "Carol White", report.TopRequesters[2].Name)
}

func TestTopRequestersTruncatesToTen(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	var bookings []models.BookingRequest
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	for i, name := range names {
		bookings = append(bookings, booking(name, name, "MAG", "Tennis Court", models.StatusPending, now.Add(time.Duration(i)*time.Minute), 0))
	}

	report, err := newTestReporter(bookings).Generate(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, report.TopRequesters, 10)
}

func TestRecentActivity(t *testing.T) {
	base := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	var bookings []models.BookingRequest
	for i := 0; i < 12; i++ {
		bookings = append(bookings, booking(
			string(rune('a'+i)), "A", "MAG", "Tennis Court", models.StatusPending,
			base.Add(time.Duration(i)*time.Hour), 0))
	}

	report, err := newTestReporter(bookings).Generate(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, report.RecentActivity, 10)
	assert.Equal(t, "l", report.RecentActivity[0].ID)
	assert.True(t, report.RecentActivity[0].CreatedAt.After(report.RecentActivity[9].CreatedAt))
}

func TestVenueUtilization(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

	t.Run("SharesSumToHundred", func(t *testing.T) {
		reporter := newTestReporter([]models.BookingRequest{
			booking("b1", "A", "MAG", "Tennis Court", models.StatusPending, now, 0),
			booking("b2", "B", "MAG", "Tennis Court", models.StatusPending, now, 0),
			booking("b3", "C", "MAG", "Swimming Pool", models.StatusPending, now, 0),
		})

		utilization, err := reporter.VenueUtilization(context.Background())
		require.NoError(t, err)
		require.Len(t, utilization, 2)

		sum := 0.0
		for _, v := range utilization {
			assert.GreaterOrEqual(t, v.Utilization, 0.0)
			assert.LessOrEqual(t, v.Utilization, 100.0)
			sum += v.Utilization
		}
		assert.InDelta(t, 100.0, sum, 1e-9)

		// Sorted descending by share.
		assert.Equal(t, "Tennis Court", utilization[0].Venue)
		assert.Equal(t, 2, utilization[0].Bookings)
	})

	t.Run("EmptyCollection", func(t *testing.T) {
		utilization, err := newTestReporter(nil).VenueUtilization(context.Background())
		require.NoError(t, err)
		assert.Empty(t, utilization)
	})
}

func TestDepartmentPerformance(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	reporter := newTestReporter([]models.BookingRequest{
		booking("b1", "A", "MAG", "Tennis Court", models.StatusApproved, now, 1),
		booking("b2", "B", "MAG", "Tennis Court", models.StatusRejected, now, 1),
		booking("b3", "C", "MAG", "Tennis Court", models.StatusApproved, now, 1),
		booking("b4", "D", "NEOM", "Tennis Court", models.StatusPending, now, 0),
	})

	performance, err := reporter.DepartmentPerformance(context.Background())
	require.NoError(t, err)
	require.Len(t, performance, 2)

	mag := performance[0]
	assert.Equal(t, "MAG", mag.Department)
	assert.Equal(t, 3, mag.Total)
	assert.Equal(t, 2, mag.Approved)
	assert.Equal(t, 1, mag.Rejected)
	assert.InDelta(t, 100.0*2/3, mag.ApprovalRate, 1e-9)

	neom := performance[1]
	assert.Zero(t, neom.ApprovalRate)
	assert.False(t, math.IsNaN(neom.ApprovalRate))
}

func TestReportIsDeterministic(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	bookings := []models.BookingRequest{
		booking("b1", "A", "MAG", "Tennis Court", models.StatusApproved, now, 1),
		booking("b2", "B", "NEOM", "Swimming Pool", models.StatusPending, now.Add(time.Hour), 0),
	}
	reporter := newTestReporter(bookings)

	first, err := reporter.Generate(context.Background(), "", "")
	require.NoError(t, err)
	second, err := reporter.Generate(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
