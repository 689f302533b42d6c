package models

// Report is a derived aggregate over the booking collection. It is never
// persisted; recomputing over the same collection yields an identical report.
type Report struct {
	TotalBookings    int `json:"totalBookings"`
	ApprovedBookings int `json:"approvedBookings"`
	RejectedBookings int `json:"rejectedBookings"`
	PendingBookings  int `json:"pendingBookings"`

	BookingsByDepartment map[string]int `json:"bookingsByDepartment"`
	BookingsByVenue      map[string]int `json:"bookingsByVenue"`
	BookingsByStatus     map[string]int `json:"bookingsByStatus"`
	BookingsByMonth      map[string]int `json:"bookingsByMonth"`

	// AverageProcessingTime is in fractional days over non-pending bookings.
	AverageProcessingTime float64 `json:"averageProcessingTime"`

	TopRequesters  []RequesterCount `json:"topRequesters"`
	RecentActivity []BookingRequest `json:"recentActivity"`
}

// RequesterCount ranks a requester by number of bookings.
type RequesterCount struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Company string `json:"company"`
}

// VenueUtilization is a venue's share of all bookings.
type VenueUtilization struct {
	Venue       string  `json:"venue"`
	Bookings    int     `json:"bookings"`
	Utilization float64 `json:"utilization"`
}

// DepartmentPerformance tallies review outcomes per requesting company.
type DepartmentPerformance struct {
	Department   string  `json:"department"`
	Total        int     `json:"total"`
	Approved     int     `json:"approved"`
	Rejected     int     `json:"rejected"`
	ApprovalRate float64 `json:"approvalRate"`
}
