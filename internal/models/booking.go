package models

import "time"

// BookingRequest is one facility reservation request with its full lifecycle.
// JSON tags are camelCase so stored payloads stay compatible with the arrays
// written by earlier versions of the application.
type BookingRequest struct {
	ID string `json:"id"`

	// Requester information
	RequesterName        string `json:"requesterName"`
	RequestInitiatedDate string `json:"requestInitiatedDate,omitempty"`
	CompanyName          string `json:"companyName"`
	Designation          string `json:"designation"`
	MobileNumber         string `json:"mobileNumber"`
	Email                string `json:"email"`
	Residence            bool   `json:"residenceOfCamp"`
	UnitNo               string `json:"unitNo,omitempty"`
	UnitLocation         string `json:"unitLocation,omitempty"`

	// Event details
	VenueRequested         string `json:"venueRequested"`
	Event                  string `json:"event"`
	EventScheduleStartDate string `json:"eventScheduleStartDate"`
	EventEndDate           string `json:"eventEndDate"`
	EventStartTime         string `json:"eventStartTime"`
	EventEndTime           string `json:"eventEndTime"`
	NumberOfGuests         int    `json:"numberOfGuests"`

	// Requested services
	AVSystem          bool     `json:"avSystem"`
	AVSystemDetails   string   `json:"avSystemDetails,omitempty"`
	FBServices        bool     `json:"fbServices"`
	FBServicesDetails string   `json:"fbServicesDetails,omitempty"`
	Chargeable        bool     `json:"chargeable"`
	ChargeableAmount  *float64 `json:"chargeableAmount,omitempty"`
	InvoiceTo         string   `json:"invoiceTo,omitempty"`
	Remarks           string   `json:"remarks,omitempty"`

	// Review section, populated by the recreation department
	RequestHandledBy        string `json:"requestHandledBy,omitempty"`
	RequestHandledDate      string `json:"requestHandledDate,omitempty"`
	RequestHandledSignature string `json:"requestHandledSignature,omitempty"`
	ApprovedBy              string `json:"approvedBy,omitempty"`
	ApprovedDate            string `json:"approvedDate,omitempty"`
	ApprovedSignature       string `json:"approvedSignature,omitempty"`
	Approved                *bool  `json:"approved,omitempty"`
	DepartmentRemarks       string `json:"departmentRemarks,omitempty"`

	Status    string    `json:"status"` // pending, approved, rejected
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingUpdate carries a partial set of fields to merge into a stored
// booking. Nil pointers leave the stored value untouched.
type BookingUpdate struct {
	RequesterName          *string `json:"requesterName,omitempty"`
	CompanyName            *string `json:"companyName,omitempty"`
	Designation            *string `json:"designation,omitempty"`
	MobileNumber           *string `json:"mobileNumber,omitempty"`
	Email                  *string `json:"email,omitempty"`
	VenueRequested         *string `json:"venueRequested,omitempty"`
	Event                  *string `json:"event,omitempty"`
	EventScheduleStartDate *string `json:"eventScheduleStartDate,omitempty"`
	EventEndDate           *string `json:"eventEndDate,omitempty"`
	EventStartTime         *string `json:"eventStartTime,omitempty"`
	EventEndTime           *string `json:"eventEndTime,omitempty"`
	NumberOfGuests         *int    `json:"numberOfGuests,omitempty"`
	Remarks                *string `json:"remarks,omitempty"`
	Status                 *string `json:"status,omitempty"`
	Approved               *bool   `json:"approved,omitempty"`
	ApprovedBy             *string `json:"approvedBy,omitempty"`
	ApprovedDate           *string `json:"approvedDate,omitempty"`
	ApprovedSignature      *string `json:"approvedSignature,omitempty"`
	DepartmentRemarks      *string `json:"departmentRemarks,omitempty"`
}
