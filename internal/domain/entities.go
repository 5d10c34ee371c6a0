package domain

import "time"

// Property is one catalog entry. Price and Size are display strings; Price is
// parsed by the pricing package when filtering.
type Property struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	Location          string            `json:"location"`
	Description       string            `json:"description"`
	LongDescription   string            `json:"longDescription"`
	Price             string            `json:"price"`
	Size              string            `json:"size"`
	Bedrooms          int               `json:"bedrooms"`
	Bathrooms         int               `json:"bathrooms"`
	Amenities         Amenities         `json:"amenities"`
	Images            []string          `json:"images"`
	InvestmentDetails InvestmentDetails `json:"investmentDetails"`
	Features          []string          `json:"features"`
}

// Amenities are display-only room facts
type Amenities struct {
	Beds     string `json:"beds"`
	Capacity string `json:"capacity"`
	AC       string `json:"ac"`
	Bathroom string `json:"bathroom"`
}

// InvestmentDetails describes the investment profile of a property
type InvestmentDetails struct {
	ROI            string `json:"roi"`
	ExpectedReturn string `json:"expectedReturn"`
	Location       string `json:"location"`
	PropertyType   string `json:"propertyType"`
}

// Tour is a bookable tour package
type Tour struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Details     string   `json:"details"`
	ImageSrc    string   `json:"imageSrc"`
	Features    []string `json:"features"`
	Duration    string   `json:"duration"`
	Price       string   `json:"price"`
}

// LeadKind identifies which form produced a lead
type LeadKind string

const (
	LeadContact     LeadKind = "contact"
	LeadInquiry     LeadKind = "inquiry"
	LeadTourBooking LeadKind = "tour_booking"
)

// ContactRequest is the general contact form
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message" validate:"required"`
}

// PropertyInquiry is sent from a property page
type PropertyInquiry struct {
	FullName   string `json:"fullName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Property   string `json:"property" validate:"required"`
	PropertyID int    `json:"propertyId,omitempty" validate:"gte=0"`
	Message    string `json:"message" validate:"required"`
}

// TourBooking requests a place on a tour
type TourBooking struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required"`
	TourID          int    `json:"tourId" validate:"required,gt=0"`
	TourDate        string `json:"tourDate" validate:"required,datetime=2006-01-02"`
	NumberOfGuests  int    `json:"numberOfGuests" validate:"min=1,max=10"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// Receipt is returned once a lead has been accepted
type Receipt struct {
	ID              string    `json:"id"`
	Kind            LeadKind  `json:"kind"`
	Status          string    `json:"status"`
	Acknowledgement string    `json:"acknowledgement"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// Receipt status constants
const (
	StatusSuccess = "success"
)
