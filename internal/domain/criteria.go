package domain

import "strconv"

// Criteria holds the listing filter selection. An empty field means no
// constraint on that field.
type Criteria struct {
	Location     string `json:"location"`
	PriceRange   string `json:"priceRange"`
	PropertyType string `json:"propertyType"`
	Bedrooms     string `json:"bedrooms"`
}

// Option is one selectable filter value
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Location values
const (
	LocationNewYork    = "new-york"
	LocationDubai      = "dubai"
	LocationCalifornia = "california"
)

// Property type values
const (
	TypeApartment   = "apartment"
	TypeCondominium = "condominium"
	TypeVilla       = "villa"
)

// BedroomsThreshold is the bedrooms value meaning "this many or more"
const BedroomsThreshold = 3

var (
	LocationOptions = []Option{
		{Value: "", Label: "All Locations"},
		{Value: LocationNewYork, Label: "New York, USA"},
		{Value: LocationDubai, Label: "Dubai, UAE"},
		{Value: LocationCalifornia, Label: "California, USA"},
	}

	PriceRangeOptions = []Option{
		{Value: "", Label: "All Prices"},
		{Value: "0-2500000", Label: "Under $2.5M"},
		{Value: "2500000-3500000", Label: "$2.5M - $3.5M"},
		{Value: "3500000-4500000", Label: "$3.5M - $4.5M"},
		{Value: "4500000+", Label: "$4.5M+"},
	}

	PropertyTypeOptions = []Option{
		{Value: "", Label: "All Types"},
		{Value: TypeApartment, Label: "Luxury Apartment"},
		{Value: TypeCondominium, Label: "Luxury Condominium"},
		{Value: TypeVilla, Label: "Luxury Villa"},
	}

	BedroomOptions = []Option{
		{Value: "", Label: "All"},
		{Value: "1", Label: "1 Bedroom"},
		{Value: "2", Label: "2 Bedrooms"},
		{Value: "3", Label: "3+ Bedrooms"},
	}
)

// CityNames maps a location value to the substring searched in Property.Location
var CityNames = map[string]string{
	LocationNewYork:    "new york",
	LocationDubai:      "dubai",
	LocationCalifornia: "california",
}

// IsZero reports whether no field is constrained
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Validate checks every field against its closed value set
func (c Criteria) Validate() error {
	checks := []struct {
		field   string
		value   string
		options []Option
	}{
		{"location", c.Location, LocationOptions},
		{"priceRange", c.PriceRange, PriceRangeOptions},
		{"propertyType", c.PropertyType, PropertyTypeOptions},
		{"bedrooms", c.Bedrooms, BedroomOptions},
	}
	for _, chk := range checks {
		if !hasOption(chk.options, chk.value) {
			return ValidationError{Field: chk.field, Msg: "unsupported value " + strconv.Quote(chk.value)}
		}
	}
	return nil
}

func hasOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}
