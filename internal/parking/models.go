// Package parking queries parking lots, realtime availability and roadside spaces.
package parking

import (
	"errors"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
)

// Parking errors.
var (
	// ErrLotNotFound is returned when no lot has the requested ID.
	ErrLotNotFound = errors.New("parking lot not found")
)

// DefaultMinSpaces is the threshold used when AvailabilityQuery.MinSpaces is not positive.
const DefaultMinSpaces = 1

// Lot is an off-street parking facility.
type Lot struct {
	ParkingID       string   `json:"parkingId"`
	Name            string   `json:"name"`
	Area            string   `json:"area"`
	Address         *string  `json:"address"`
	Type            string   `json:"type"`
	TotalSpaces     int      `json:"totalSpaces"`
	AvailableSpaces *int     `json:"availableSpaces"`
	FeeDescription  *string  `json:"feeDescription"`
	OpenHours       *string  `json:"openHours"`
	Longitude       *float64 `json:"longitude"`
	Latitude        *float64 `json:"latitude"`
	UpdatedAt       *string  `json:"updatedAt"`
	DistanceMeters  *float64 `json:"distance,omitempty"`
}

// Availability is the realtime occupancy of a lot.
type Availability struct {
	StatusID        *string  `json:"statusId"`
	ParkingID       string   `json:"parkingId"`
	ParkingName     string   `json:"parkingName"`
	Area            string   `json:"area"`
	TotalSpaces     int      `json:"totalSpaces"`
	AvailableSpaces int      `json:"availableSpaces"`
	OccupancyRate   *float64 `json:"occupancyRate"`
	Status          *string  `json:"status"`
	UpdatedAt       *string  `json:"updatedAt"`
}

// RoadsideSpace is a metered on-street parking cell.
type RoadsideSpace struct {
	ID            string   `json:"ID"`
	CellID        string   `json:"CELLID"`
	Name          string   `json:"NAME"`
	Day           *string  `json:"DAY"`
	Hour          *string  `json:"HOUR"`
	Pay           *string  `json:"PAY"`
	PayCash       *string  `json:"PAYCASH"`
	Memo          *string  `json:"MEMO"`
	RoadID        *string  `json:"ROADID"`
	CellStatus    *string  `json:"CELLSTATUS"`
	IsNowCash     *string  `json:"ISNOWCASH"`
	ParkingStatus *string  `json:"PARKINGSTATUS"`
	Area          *string  `json:"AREA"`
	Lat           *float64 `json:"LAT"`
	Lon           *float64 `json:"LON"`
}

// LotQuery narrows the lot listing. Empty fields match everything.
type LotQuery struct {
	Area string
	Type string
}

// AvailabilityQuery selects lots with free spaces.
type AvailabilityQuery struct {
	MinSpaces int
	Area      string
}

// API response types (from the NTPC parking datasets).

type lotRow struct {
	ParkingID       *opendata.String `json:"parkingId" validate:"required"`
	Name            *opendata.String `json:"name" validate:"required"`
	Area            *opendata.String `json:"area" validate:"required"`
	Address         *opendata.String `json:"address"`
	Type            *opendata.String `json:"type" validate:"required"`
	TotalSpaces     *opendata.Int    `json:"totalSpaces" validate:"required"`
	AvailableSpaces *opendata.Int    `json:"availableSpaces"`
	FeeDescription  *opendata.String `json:"feeDescription"`
	OpenHours       *opendata.String `json:"openHours"`
	Longitude       *opendata.Float  `json:"longitude"`
	Latitude        *opendata.Float  `json:"latitude"`
	UpdatedAt       *opendata.String `json:"updatedAt"`
}

type availabilityRow struct {
	StatusID        *opendata.String `json:"statusId"`
	ParkingID       *opendata.String `json:"parkingId" validate:"required"`
	ParkingName     *opendata.String `json:"parkingName" validate:"required"`
	Area            *opendata.String `json:"area" validate:"required"`
	TotalSpaces     *opendata.Int    `json:"totalSpaces" validate:"required"`
	AvailableSpaces *opendata.Int    `json:"availableSpaces" validate:"required"`
	OccupancyRate   *opendata.Float  `json:"occupancyRate"`
	Status          *opendata.String `json:"status"`
	UpdatedAt       *opendata.String `json:"updatedAt"`
}

type roadsideRow struct {
	ID            *opendata.String `json:"ID" validate:"required"`
	CellID        *opendata.String `json:"CELLID" validate:"required"`
	Name          *opendata.String `json:"NAME" validate:"required"`
	Day           *opendata.String `json:"DAY"`
	Hour          *opendata.String `json:"HOUR"`
	Pay           *opendata.String `json:"PAY"`
	PayCash       *opendata.String `json:"PAYCASH"`
	Memo          *opendata.String `json:"MEMO"`
	RoadID        *opendata.String `json:"ROADID"`
	CellStatus    *opendata.String `json:"CELLSTATUS"`
	IsNowCash     *opendata.String `json:"ISNOWCASH"`
	ParkingStatus *opendata.String `json:"PARKINGSTATUS"`
	Area          *opendata.String `json:"AREA"`
	Lat           *opendata.Float  `json:"LAT"`
	Lon           *opendata.Float  `json:"LON"`
}

func toLot(r *lotRow) Lot {
	return Lot{
		ParkingID:       opendata.Str(r.ParkingID),
		Name:            opendata.Str(r.Name),
		Area:            opendata.Str(r.Area),
		Address:         opendata.StringPtr(r.Address),
		Type:            opendata.Str(r.Type),
		TotalSpaces:     opendata.Num(r.TotalSpaces),
		AvailableSpaces: opendata.IntPtr(r.AvailableSpaces),
		FeeDescription:  opendata.StringPtr(r.FeeDescription),
		OpenHours:       opendata.StringPtr(r.OpenHours),
		Longitude:       opendata.FloatPtr(r.Longitude),
		Latitude:        opendata.FloatPtr(r.Latitude),
		UpdatedAt:       opendata.StringPtr(r.UpdatedAt),
	}
}

func toAvailability(r *availabilityRow) Availability {
	return Availability{
		StatusID:        opendata.StringPtr(r.StatusID),
		ParkingID:       opendata.Str(r.ParkingID),
		ParkingName:     opendata.Str(r.ParkingName),
		Area:            opendata.Str(r.Area),
		TotalSpaces:     opendata.Num(r.TotalSpaces),
		AvailableSpaces: opendata.Num(r.AvailableSpaces),
		OccupancyRate:   opendata.FloatPtr(r.OccupancyRate),
		Status:          opendata.StringPtr(r.Status),
		UpdatedAt:       opendata.StringPtr(r.UpdatedAt),
	}
}

func toRoadsideSpace(r *roadsideRow) RoadsideSpace {
	return RoadsideSpace{
		ID:            opendata.Str(r.ID),
		CellID:        opendata.Str(r.CellID),
		Name:          opendata.Str(r.Name),
		Day:           opendata.StringPtr(r.Day),
		Hour:          opendata.StringPtr(r.Hour),
		Pay:           opendata.StringPtr(r.Pay),
		PayCash:       opendata.StringPtr(r.PayCash),
		Memo:          opendata.StringPtr(r.Memo),
		RoadID:        opendata.StringPtr(r.RoadID),
		CellStatus:    opendata.StringPtr(r.CellStatus),
		IsNowCash:     opendata.StringPtr(r.IsNowCash),
		ParkingStatus: opendata.StringPtr(r.ParkingStatus),
		Area:          opendata.StringPtr(r.Area),
		Lat:           opendata.FloatPtr(r.Lat),
		Lon:           opendata.FloatPtr(r.Lon),
	}
}
