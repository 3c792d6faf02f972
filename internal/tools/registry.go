package tools

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ntpc-opendata/ntpc-opendata/internal/bike"
	"github.com/ntpc-opendata/ntpc-opendata/internal/bus"
	"github.com/ntpc-opendata/ntpc-opendata/internal/misctraffic"
	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
	"github.com/ntpc-opendata/ntpc-opendata/internal/parking"
	"github.com/ntpc-opendata/ntpc-opendata/internal/traffic"
	"github.com/ntpc-opendata/ntpc-opendata/pkg/geo"
)

// Tool names.
const (
	BusRoutes         = "bus_routes"
	BusStops          = "bus_stops"
	BusArrivals       = "bus_arrivals"
	BusSearchStop     = "bus_search_stop"
	BusNearbyStops    = "bus_nearby_stops"
	BikeYouBike       = "bike_youbike"
	BikeAvailable     = "bike_available"
	BikeNearby        = "bike_nearby"
	BikeRacks         = "bike_racks"
	BikeLanes         = "bike_lanes"
	ParkingList       = "parking_list"
	ParkingInfo       = "parking_info"
	ParkingAvailable  = "parking_available"
	ParkingRoadside   = "parking_roadside"
	ParkingNearby     = "parking_nearby"
	TrafficCameras    = "traffic_cameras"
	TrafficETags      = "traffic_etags"
	MiscTaxiServices  = "misc_taxi_services"
	MiscSearchTaxi    = "misc_search_taxi"
	MiscTowingStorage = "misc_towing_storage"
	MiscNearestTowing = "misc_nearest_towing"
	MiscImpact        = "misc_impact_assessment"
)

// Services are the domain query modules backing the tools.
type Services struct {
	Bus     *bus.Service
	Bike    *bike.Service
	Parking *parking.Service
	Traffic *traffic.Service
	Misc    *misctraffic.Service
}

// NewServices builds every domain service over one row fetcher.
func NewServices(client opendata.RowFetcher, logger zerolog.Logger) Services {
	return Services{
		Bus:     bus.NewService(bus.ServiceConfig{Client: client, Logger: logger}),
		Bike:    bike.NewService(bike.ServiceConfig{Client: client, Logger: logger}),
		Parking: parking.NewService(parking.ServiceConfig{Client: client, Logger: logger}),
		Traffic: traffic.NewService(traffic.ServiceConfig{Client: client, Logger: logger}),
		Misc:    misctraffic.NewService(misctraffic.ServiceConfig{Client: client, Logger: logger}),
	}
}

// NewRegistry registers one tool per domain query.
func NewRegistry(svc Services, logger zerolog.Logger) *Registry {
	return newRegistry(logger,
		define(BusRoutes, "List bus routes, optionally filtered by route name.",
			func(ctx context.Context, a BusRoutesArgs) ([]bus.Route, error) {
				return svc.Bus.Routes(ctx, bus.RouteQuery{Name: a.Name, Page: a.Page, Size: a.Size})
			}),
		define(BusStops, "List the stops served by a bus route.",
			func(ctx context.Context, a BusStopsArgs) ([]bus.Stop, error) {
				return svc.Bus.Stops(ctx, a.Route)
			}),
		define(BusArrivals, "Estimated arrival times for a route, optionally at one stop.",
			func(ctx context.Context, a BusArrivalsArgs) ([]bus.EstimatedTime, error) {
				return svc.Bus.EstimatedTimes(ctx, a.Route, a.Stop)
			}),
		define(BusSearchStop, "Find the routes that serve stops matching a name.",
			func(ctx context.Context, a BusSearchStopArgs) ([]bus.Route, error) {
				return svc.Bus.RoutesByStop(ctx, a.Stop)
			}),
		define(BusNearbyStops, "Bus stops within a radius of a point, nearest first.",
			func(ctx context.Context, a NearbyArgs) ([]bus.Stop, error) {
				return svc.Bus.NearbyStops(ctx, a.radius())
			}),

		define(BikeYouBike, "List YouBike stations, optionally in one district.",
			func(ctx context.Context, a AreaArgs) ([]bike.YouBikeStation, error) {
				return svc.Bike.YouBikeStations(ctx, a.filter())
			}),
		define(BikeAvailable, "YouBike stations with at least min_bikes bikes, most bikes first.",
			func(ctx context.Context, a BikeAvailableArgs) ([]bike.YouBikeStation, error) {
				return svc.Bike.AvailableYouBikes(ctx, a.MinBikes)
			}),
		define(BikeNearby, "YouBike stations within a radius of a point, nearest first.",
			func(ctx context.Context, a NearbyArgs) ([]bike.YouBikeStation, error) {
				return svc.Bike.NearbyYouBikes(ctx, a.radius())
			}),
		define(BikeRacks, "Bicycle rack counts per district or per MRT station.",
			func(ctx context.Context, a BikeRacksArgs) ([]bike.Rack, error) {
				return svc.Bike.BikeRacks(ctx, opendata.AreaFilter{Area: a.Area}, a.NearMRT)
			}),
		define(BikeLanes, "List bike lanes, optionally in one district.",
			func(ctx context.Context, a AreaArgs) ([]bike.Lane, error) {
				return svc.Bike.BikeLanes(ctx, a.filter())
			}),

		define(ParkingList, "List parking lots by district and type.",
			func(ctx context.Context, a ParkingListArgs) ([]parking.Lot, error) {
				return svc.Parking.Lots(ctx, parking.LotQuery{Area: a.Area, Type: a.Type})
			}),
		define(ParkingInfo, "Details of one parking lot.",
			func(ctx context.Context, a ParkingInfoArgs) (*parking.Lot, error) {
				return svc.Parking.Lot(ctx, a.ID)
			}),
		define(ParkingAvailable, "Lots with at least min_spaces free spaces right now, most spaces first.",
			func(ctx context.Context, a ParkingAvailableArgs) ([]parking.Availability, error) {
				return svc.Parking.AvailableLots(ctx, parking.AvailabilityQuery{MinSpaces: a.MinSpaces, Area: a.Area})
			}),
		define(ParkingRoadside, "List metered roadside parking spaces.",
			func(ctx context.Context, a AreaArgs) ([]parking.RoadsideSpace, error) {
				return svc.Parking.RoadsideSpaces(ctx, a.filter())
			}),
		define(ParkingNearby, "Parking lots within a radius of a point, nearest first.",
			func(ctx context.Context, a NearbyArgs) ([]parking.Lot, error) {
				return svc.Parking.NearbyLots(ctx, a.radius())
			}),

		define(TrafficCameras, "Traffic enforcement cameras by district and road.",
			func(ctx context.Context, a TrafficCamerasArgs) ([]traffic.Camera, error) {
				return svc.Traffic.Cameras(ctx, traffic.CameraQuery{Area: a.Area, Road: a.Road})
			}),
		define(TrafficETags, "eTag reader locations, optionally in one district.",
			func(ctx context.Context, a AreaArgs) ([]traffic.ETag, error) {
				return svc.Traffic.ETags(ctx, a.filter())
			}),

		define(MiscTaxiServices, "List registered taxi operators.",
			func(ctx context.Context, _ NoArgs) ([]misctraffic.TaxiService, error) {
				return svc.Misc.TaxiServices(ctx)
			}),
		define(MiscSearchTaxi, "Search taxi operators by name or phone number.",
			func(ctx context.Context, a TaxiSearchArgs) ([]misctraffic.TaxiService, error) {
				return svc.Misc.SearchTaxiServices(ctx, a.Keyword)
			}),
		define(MiscTowingStorage, "List towing storage yards, optionally in one district.",
			func(ctx context.Context, a AreaArgs) ([]misctraffic.TowingStorage, error) {
				return svc.Misc.TowingStorages(ctx, a.filter())
			}),
		define(MiscNearestTowing, "The towing storage yard closest to a point.",
			func(ctx context.Context, a PointArgs) (*misctraffic.TowingStorage, error) {
				return svc.Misc.NearestTowingStorage(ctx, *a.Lat, *a.Lon)
			}),
		define(MiscImpact, "Traffic impact assessment reports, optionally by category.",
			func(ctx context.Context, a ImpactAssessmentArgs) ([]misctraffic.ImpactAssessment, error) {
				return svc.Misc.ImpactAssessments(ctx, a.Category)
			}),
	)
}

// radius is only called after validation, so Lat and Lon are set.
func (a NearbyArgs) radius() geo.Radius {
	return geo.Radius{Lat: *a.Lat, Lon: *a.Lon, Meters: a.Radius}
}

func (a AreaArgs) filter() opendata.AreaFilter {
	return opendata.AreaFilter{Area: a.Area}
}
