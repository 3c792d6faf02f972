package tools

// Argument structs shared by the HTTP tool interface and the CLI. The json
// names double as the CLI flag names.

// BusRoutesArgs filters and pages the bus route listing.
type BusRoutesArgs struct {
	Name string `json:"name" desc:"Route name substring, e.g. 307"`
	Page int    `json:"page" validate:"gte=0" desc:"Upstream page number"`
	Size int    `json:"size" validate:"omitempty,gte=1,lte=1000" desc:"Upstream page size (default 100)"`
}

// BusStopsArgs names the route whose stops are listed.
type BusStopsArgs struct {
	Route string `json:"route" validate:"required" desc:"Route name"`
}

// BusArrivalsArgs selects a route and, optionally, one of its stops.
type BusArrivalsArgs struct {
	Route string `json:"route" validate:"required" desc:"Route name"`
	Stop  string `json:"stop" desc:"Exact stop name"`
}

// BusSearchStopArgs looks up the routes serving a stop.
type BusSearchStopArgs struct {
	Stop string `json:"stop" validate:"required" desc:"Stop name substring"`
}

// NearbyArgs is the argument set of every radius query. Lat and Lon are
// pointers so that an explicit 0 is told apart from a missing value.
type NearbyArgs struct {
	Lat    *float64 `json:"lat" validate:"required,latitude" desc:"Latitude in decimal degrees"`
	Lon    *float64 `json:"lon" validate:"required,longitude" desc:"Longitude in decimal degrees"`
	Radius float64  `json:"radius" validate:"omitempty,gt=0,lte=50000" desc:"Search radius in meters (default 500)"`
}

// AreaArgs is the argument set of every district-filtered listing.
type AreaArgs struct {
	Area string `json:"area" desc:"District name substring, e.g. 板橋"`
}

// BikeAvailableArgs sets the bike count a station needs to be listed.
type BikeAvailableArgs struct {
	MinBikes int `json:"min_bikes" validate:"gte=0" desc:"Minimum available bikes (default 1)"`
}

// BikeRacksArgs filters bicycle racks by district or MRT station.
type BikeRacksArgs struct {
	Area    string `json:"area" desc:"District or MRT station substring"`
	NearMRT bool   `json:"near_mrt" desc:"List racks at MRT stations instead of districts"`
}

// ParkingListArgs filters parking lots by district and lot type.
type ParkingListArgs struct {
	Area string `json:"area" desc:"District name substring"`
	Type string `json:"type" desc:"Lot type substring"`
}

// ParkingInfoArgs identifies a single parking lot.
type ParkingInfoArgs struct {
	ID string `json:"id" validate:"required" desc:"Parking lot ID"`
}

// ParkingAvailableArgs sets the free space count a lot needs to be listed.
type ParkingAvailableArgs struct {
	MinSpaces int    `json:"min_spaces" validate:"gte=0" desc:"Minimum available spaces (default 1)"`
	Area      string `json:"area" desc:"District name substring"`
}

// TrafficCamerasArgs filters traffic cameras by district and road.
type TrafficCamerasArgs struct {
	Area string `json:"area" desc:"District name substring"`
	Road string `json:"road" desc:"Road name substring"`
}

// TaxiSearchArgs matches taxi operators by name or phone number.
type TaxiSearchArgs struct {
	Keyword string `json:"keyword" validate:"required" desc:"Operator name or phone number fragment"`
}

// PointArgs is a single coordinate. As in NearbyArgs, an unset field is nil.
type PointArgs struct {
	Lat *float64 `json:"lat" validate:"required,latitude" desc:"Latitude in decimal degrees"`
	Lon *float64 `json:"lon" validate:"required,longitude" desc:"Longitude in decimal degrees"`
}

// ImpactAssessmentArgs filters traffic impact assessments by category.
type ImpactAssessmentArgs struct {
	Category string `json:"category" desc:"Category substring"`
}

// NoArgs is used by tools without parameters.
type NoArgs struct{}
