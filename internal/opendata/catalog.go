package opendata

import (
	"fmt"
	"sort"
)

// Dataset names used by the domain services.
const (
	ResourceBusStops                = "bus_stops"
	ResourceBusRoutes               = "bus_routes"
	ResourceBusEstimatedTime        = "bus_estimated_time"
	ResourceYouBike                 = "youbike"
	ResourceBikeRacksDistricts      = "bike_racks_districts"
	ResourceBikeRacksMRT            = "bike_racks_mrt"
	ResourceBikeLanes               = "bike_lanes"
	ResourceParkingLots             = "parking_lots"
	ResourceParkingRealtime         = "parking_realtime"
	ResourceRoadsideParking         = "roadside_parking"
	ResourceTrafficCameras          = "traffic_cameras"
	ResourceTrafficETag             = "traffic_etag"
	ResourceTaxiService             = "taxi_service"
	ResourceTowingStorage           = "towing_storage"
	ResourceTrafficImpactAssessment = "traffic_impact_assessment"
)

// Catalog maps dataset names to portal resource IDs.
type Catalog map[string]string

// DefaultCatalog returns the resource IDs published by the NTPC portal.
// Datasets without a published ID are listed with an empty value and must be
// configured before use.
func DefaultCatalog() Catalog {
	return Catalog{
		ResourceBusStops:                "34b402a8-53d9-483d-9406-24a682c2d6dc",
		ResourceBusRoutes:               "0ee4e6bf-cee6-4ec8-8fe1-71f544015127",
		ResourceBusEstimatedTime:        "07f7ccb3-ed00-43c4-966d-08e9dab24e95",
		ResourceYouBike:                 "010e5b15-3823-4b20-b401-b1cf000550c5",
		ResourceParkingLots:             "b1464ef0-9c7c-4a6f-abf7-6bdf32847e68",
		ResourceParkingRealtime:         "e09b35a5-a738-48cc-b0f5-570b67ad9c78",
		ResourceRoadsideParking:         "54a507c4-c038-41b5-bf60-bbecb9d052c6",
		ResourceTrafficCameras:          "157501bf-f1cd-4838-92a7-612770351e43",
		ResourceTrafficETag:             "357b88f7-947e-4f65-b966-c6a40d434fbe",
		ResourceBikeRacksDistricts:      "",
		ResourceBikeRacksMRT:            "",
		ResourceBikeLanes:               "",
		ResourceTaxiService:             "",
		ResourceTowingStorage:           "",
		ResourceTrafficImpactAssessment: "",
	}
}

// Merge returns a copy of c with overrides applied on top.
func (c Catalog) Merge(overrides map[string]string) Catalog {
	merged := make(Catalog, len(c)+len(overrides))
	for name, id := range c {
		merged[name] = id
	}
	for name, id := range overrides {
		merged[name] = id
	}
	return merged
}

// ID resolves a dataset name to its resource ID.
func (c Catalog) ID(name string) (string, error) {
	id, ok := c[name]
	if !ok || id == "" {
		return "", fmt.Errorf("%w: %s", ErrResourceNotConfigured, name)
	}
	return id, nil
}

// Known reports whether id belongs to a configured dataset.
func (c Catalog) Known(id string) bool {
	if id == "" {
		return false
	}
	for _, known := range c {
		if known == id {
			return true
		}
	}
	return false
}

// Names returns the dataset names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
