// Package bus queries New Taipei City bus routes, stops and arrival estimates.
package bus

import (
	"errors"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
)

// Bus errors.
var (
	// ErrRouteNotFound is returned when no route matches the requested name.
	ErrRouteNotFound = errors.New("bus route not found")

	// ErrStopNotFound is returned when a route has no stop with the requested name.
	ErrStopNotFound = errors.New("bus stop not found")
)

// Route is a bus route as published by the city.
type Route struct {
	ID                       string  `json:"Id"`
	ProviderID               string  `json:"providerId"`
	ProviderName             string  `json:"providerName"`
	NameZh                   string  `json:"nameZh"`
	NameEn                   string  `json:"nameEn"`
	PathAttributeID          string  `json:"pathAttributeId"`
	PathAttributeName        string  `json:"pathAttributeName"`
	PathAttributeEname       string  `json:"pathAttributeEname"`
	BuildPeriod              *string `json:"buildPeriod"`
	DepartureZh              string  `json:"departureZh"`
	DepartureEn              string  `json:"departureEn"`
	DestinationZh            string  `json:"destinationZh"`
	DestinationEn            string  `json:"destinationEn"`
	RealSequence             *string `json:"realSequence"`
	Distance                 *string `json:"distance"`
	GoFirstBusTime           *string `json:"goFirstBusTime"`
	BackFirstBusTime         *string `json:"backFirstBusTime"`
	GoLastBusTime            *string `json:"goLastBusTime"`
	BackLastBusTime          *string `json:"backLastBusTime"`
	PeakHeadway              *string `json:"peakHeadway"`
	OffPeakHeadway           *string `json:"offPeakHeadway"`
	HeadwayDesc              *string `json:"headwayDesc"`
	BusTimeDesc              *string `json:"busTimeDesc"`
	HolidayGoFirstBusTime    *string `json:"holidayGoFirstBusTime"`
	HolidayBackFirstBusTime  *string `json:"holidayBackFirstBusTime"`
	HolidayGoLastBusTime     *string `json:"holidayGoLastBusTime"`
	HolidayBackLastBusTime   *string `json:"holidayBackLastBusTime"`
	HolidayBusTimeDesc       *string `json:"holidayBusTimeDesc"`
	HolidayPeakHeadway       *string `json:"holidayPeakHeadway"`
	HolidayOffPeakHeadway    *string `json:"holidayOffPeakHeadway"`
	HolidayHeadwayDesc       *string `json:"holidayHeadwayDesc"`
	SegmentBufferZh          *string `json:"segmentBufferZh"`
	SegmentBufferEn          *string `json:"segmentBufferEn"`
	TicketPriceDescriptionZh *string `json:"ticketPriceDescriptionZh"`
	TicketPriceDescriptionEn *string `json:"ticketPriceDescriptionEn"`
}

// Stop is one stop on one route. The same physical stop appears once per route.
type Stop struct {
	ID             string   `json:"Id"`
	RouteID        string   `json:"routeId"`
	NameZh         string   `json:"nameZh"`
	NameEn         string   `json:"nameEn"`
	SeqNo          int      `json:"seqNo"`
	Pgp            string   `json:"pgp"`
	GoBack         string   `json:"goBack"`
	Longitude      float64  `json:"longitude"`
	Latitude       float64  `json:"latitude"`
	Address        *string  `json:"address"`
	StopLocationID string   `json:"stopLocationId"`
	ShowLon        float64  `json:"showLon"`
	ShowLat        float64  `json:"showLat"`
	Vector         *string  `json:"vector"`
	DistanceMeters *float64 `json:"distance,omitempty"`
}

// EstimatedTime is the predicted arrival of the next bus at a stop.
// EstimateTime is in seconds; negative values are status codes (not departed,
// last bus passed, and so on).
type EstimatedTime struct {
	RouteID      string `json:"RouteID"`
	StopID       string `json:"StopID"`
	EstimateTime int    `json:"EstimateTime"`
	GoBack       string `json:"GoBack"`
}

// RouteQuery selects routes. Size defaults to DefaultPageSize.
type RouteQuery struct {
	Name string
	Page int
	Size int
}

// DefaultPageSize is the page size requested when RouteQuery.Size is zero.
const DefaultPageSize = 100

// API response types (from the NTPC bus datasets).

type routeRow struct {
	ID                       *opendata.String `json:"Id" validate:"required"`
	ProviderID               *opendata.String `json:"providerId" validate:"required"`
	ProviderName             *opendata.String `json:"providerName" validate:"required"`
	NameZh                   *opendata.String `json:"nameZh" validate:"required"`
	NameEn                   *opendata.String `json:"nameEn" validate:"required"`
	PathAttributeID          *opendata.String `json:"pathAttributeId" validate:"required"`
	PathAttributeName        *opendata.String `json:"pathAttributeName" validate:"required"`
	PathAttributeEname       *opendata.String `json:"pathAttributeEname" validate:"required"`
	BuildPeriod              *opendata.String `json:"buildPeriod"`
	DepartureZh              *opendata.String `json:"departureZh" validate:"required"`
	DepartureEn              *opendata.String `json:"departureEn" validate:"required"`
	DestinationZh            *opendata.String `json:"destinationZh" validate:"required"`
	DestinationEn            *opendata.String `json:"destinationEn" validate:"required"`
	RealSequence             *opendata.String `json:"realSequence"`
	Distance                 *opendata.String `json:"distance"`
	GoFirstBusTime           *opendata.String `json:"goFirstBusTime"`
	BackFirstBusTime         *opendata.String `json:"backFirstBusTime"`
	GoLastBusTime            *opendata.String `json:"goLastBusTime"`
	BackLastBusTime          *opendata.String `json:"backLastBusTime"`
	PeakHeadway              *opendata.String `json:"peakHeadway"`
	OffPeakHeadway           *opendata.String `json:"offPeakHeadway"`
	HeadwayDesc              *opendata.String `json:"headwayDesc"`
	BusTimeDesc              *opendata.String `json:"busTimeDesc"`
	HolidayGoFirstBusTime    *opendata.String `json:"holidayGoFirstBusTime"`
	HolidayBackFirstBusTime  *opendata.String `json:"holidayBackFirstBusTime"`
	HolidayGoLastBusTime     *opendata.String `json:"holidayGoLastBusTime"`
	HolidayBackLastBusTime   *opendata.String `json:"holidayBackLastBusTime"`
	HolidayBusTimeDesc       *opendata.String `json:"holidayBusTimeDesc"`
	HolidayPeakHeadway       *opendata.String `json:"holidayPeakHeadway"`
	HolidayOffPeakHeadway    *opendata.String `json:"holidayOffPeakHeadway"`
	HolidayHeadwayDesc       *opendata.String `json:"holidayHeadwayDesc"`
	SegmentBufferZh          *opendata.String `json:"segmentBufferZh"`
	SegmentBufferEn          *opendata.String `json:"segmentBufferEn"`
	TicketPriceDescriptionZh *opendata.String `json:"ticketPriceDescriptionZh"`
	TicketPriceDescriptionEn *opendata.String `json:"ticketPriceDescriptionEn"`
}

type stopRow struct {
	ID             *opendata.String `json:"Id" validate:"required"`
	RouteID        *opendata.String `json:"routeId" validate:"required"`
	NameZh         *opendata.String `json:"nameZh" validate:"required"`
	NameEn         *opendata.String `json:"nameEn" validate:"required"`
	SeqNo          *opendata.Int    `json:"seqNo" validate:"required"`
	Pgp            *opendata.String `json:"pgp" validate:"required"`
	GoBack         *opendata.String `json:"goBack" validate:"required"`
	Longitude      *opendata.Float  `json:"longitude" validate:"required"`
	Latitude       *opendata.Float  `json:"latitude" validate:"required"`
	Address        *opendata.String `json:"address"`
	StopLocationID *opendata.String `json:"stopLocationId" validate:"required"`
	ShowLon        *opendata.Float  `json:"showLon" validate:"required"`
	ShowLat        *opendata.Float  `json:"showLat" validate:"required"`
	Vector         *opendata.String `json:"vector"`
}

type estimatedTimeRow struct {
	RouteID      *opendata.String `json:"RouteID" validate:"required"`
	StopID       *opendata.String `json:"StopID" validate:"required"`
	EstimateTime *opendata.Int    `json:"EstimateTime" validate:"required"`
	GoBack       *opendata.String `json:"GoBack" validate:"required"`
}

func toRoute(r *routeRow) Route {
	return Route{
		ID:                       opendata.Str(r.ID),
		ProviderID:               opendata.Str(r.ProviderID),
		ProviderName:             opendata.Str(r.ProviderName),
		NameZh:                   opendata.Str(r.NameZh),
		NameEn:                   opendata.Str(r.NameEn),
		PathAttributeID:          opendata.Str(r.PathAttributeID),
		PathAttributeName:        opendata.Str(r.PathAttributeName),
		PathAttributeEname:       opendata.Str(r.PathAttributeEname),
		BuildPeriod:              opendata.StringPtr(r.BuildPeriod),
		DepartureZh:              opendata.Str(r.DepartureZh),
		DepartureEn:              opendata.Str(r.DepartureEn),
		DestinationZh:            opendata.Str(r.DestinationZh),
		DestinationEn:            opendata.Str(r.DestinationEn),
		RealSequence:             opendata.StringPtr(r.RealSequence),
		Distance:                 opendata.StringPtr(r.Distance),
		GoFirstBusTime:           opendata.StringPtr(r.GoFirstBusTime),
		BackFirstBusTime:         opendata.StringPtr(r.BackFirstBusTime),
		GoLastBusTime:            opendata.StringPtr(r.GoLastBusTime),
		BackLastBusTime:          opendata.StringPtr(r.BackLastBusTime),
		PeakHeadway:              opendata.StringPtr(r.PeakHeadway),
		OffPeakHeadway:           opendata.StringPtr(r.OffPeakHeadway),
		HeadwayDesc:              opendata.StringPtr(r.HeadwayDesc),
		BusTimeDesc:              opendata.StringPtr(r.BusTimeDesc),
		HolidayGoFirstBusTime:    opendata.StringPtr(r.HolidayGoFirstBusTime),
		HolidayBackFirstBusTime:  opendata.StringPtr(r.HolidayBackFirstBusTime),
		HolidayGoLastBusTime:     opendata.StringPtr(r.HolidayGoLastBusTime),
		HolidayBackLastBusTime:   opendata.StringPtr(r.HolidayBackLastBusTime),
		HolidayBusTimeDesc:       opendata.StringPtr(r.HolidayBusTimeDesc),
		HolidayPeakHeadway:       opendata.StringPtr(r.HolidayPeakHeadway),
		HolidayOffPeakHeadway:    opendata.StringPtr(r.HolidayOffPeakHeadway),
		HolidayHeadwayDesc:       opendata.StringPtr(r.HolidayHeadwayDesc),
		SegmentBufferZh:          opendata.StringPtr(r.SegmentBufferZh),
		SegmentBufferEn:          opendata.StringPtr(r.SegmentBufferEn),
		TicketPriceDescriptionZh: opendata.StringPtr(r.TicketPriceDescriptionZh),
		TicketPriceDescriptionEn: opendata.StringPtr(r.TicketPriceDescriptionEn),
	}
}

func toStop(r *stopRow) Stop {
	return Stop{
		ID:             opendata.Str(r.ID),
		RouteID:        opendata.Str(r.RouteID),
		NameZh:         opendata.Str(r.NameZh),
		NameEn:         opendata.Str(r.NameEn),
		SeqNo:          opendata.Num(r.SeqNo),
		Pgp:            opendata.Str(r.Pgp),
		GoBack:         opendata.Str(r.GoBack),
		Longitude:      opendata.Coord(r.Longitude),
		Latitude:       opendata.Coord(r.Latitude),
		Address:        opendata.StringPtr(r.Address),
		StopLocationID: opendata.Str(r.StopLocationID),
		ShowLon:        opendata.Coord(r.ShowLon),
		ShowLat:        opendata.Coord(r.ShowLat),
		Vector:         opendata.StringPtr(r.Vector),
	}
}

func toEstimatedTime(r *estimatedTimeRow) EstimatedTime {
	return EstimatedTime{
		RouteID:      opendata.Str(r.RouteID),
		StopID:       opendata.Str(r.StopID),
		EstimateTime: opendata.Num(r.EstimateTime),
		GoBack:       opendata.Str(r.GoBack),
	}
}
