// Package misctraffic queries taxi operators, towing storage yards and
// traffic impact assessment reports.
package misctraffic

import "github.com/ntpc-opendata/ntpc-opendata/internal/opendata"

// TaxiService is a licensed taxi transportation operator.
type TaxiService struct {
	CountyCode string `json:"countycode"`
	Name       string `json:"taxi_transportation_service"`
	Phone      string `json:"phone_number"`
}

// TowingStorage is a yard holding towed vehicles.
type TowingStorage struct {
	Title          string   `json:"title"`
	Address        string   `json:"address"`
	Tel            string   `json:"tel"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	DistanceMeters *float64 `json:"distance,omitempty"`
}

// ImpactAssessment is a published traffic impact assessment report.
type ImpactAssessment struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// API response types (from the NTPC misc traffic datasets).

type taxiRow struct {
	CountyCode *opendata.String `json:"countycode" validate:"required"`
	Name       *opendata.String `json:"taxi_transportation_service" validate:"required"`
	Phone      *opendata.String `json:"phone_number" validate:"required"`
}

type towingRow struct {
	Title     *opendata.String `json:"title" validate:"required"`
	Address   *opendata.String `json:"address" validate:"required"`
	Tel       *opendata.String `json:"tel" validate:"required"`
	Latitude  *opendata.Float  `json:"latitude"`
	Longitude *opendata.Float  `json:"longitude"`
}

type assessmentRow struct {
	Name     *opendata.String `json:"name" validate:"required"`
	Category *opendata.String `json:"category" validate:"required"`
	URL      *opendata.String `json:"url" validate:"required"`
}

func toTaxiService(r *taxiRow) TaxiService {
	return TaxiService{
		CountyCode: opendata.Str(r.CountyCode),
		Name:       opendata.Str(r.Name),
		Phone:      opendata.Str(r.Phone),
	}
}

func toTowingStorage(r *towingRow) TowingStorage {
	return TowingStorage{
		Title:     opendata.Str(r.Title),
		Address:   opendata.Str(r.Address),
		Tel:       opendata.Str(r.Tel),
		Latitude:  opendata.FloatPtr(r.Latitude),
		Longitude: opendata.FloatPtr(r.Longitude),
	}
}

func toImpactAssessment(r *assessmentRow) ImpactAssessment {
	return ImpactAssessment{
		Name:     opendata.Str(r.Name),
		Category: opendata.Str(r.Category),
		URL:      opendata.Str(r.URL),
	}
}
