package cli

import (
	"github.com/spf13/cobra"

	"github.com/ntpc-opendata/ntpc-opendata/internal/tools"
)

// toolCommand runs the named tool with args, a pointer to the tool's argument
// struct whose fields are bound to flags. It panics if args cannot be bound.
func (a *app) toolCommand(catalog *tools.Registry, use, name string, args any) *cobra.Command {
	cmd := &cobra.Command{
		Use:  use,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.registry.Call(cmd.Context(), name, args)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.format, result)
		},
	}
	if d, ok := catalog.Lookup(name); ok {
		cmd.Short = d.Description
	}
	if err := bindFlags(cmd, args); err != nil {
		panic(err)
	}
	return cmd
}

func group(use, short string, cmds ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short, Args: cobra.NoArgs}
	cmd.AddCommand(cmds...)
	return cmd
}

func (a *app) busCommand(c *tools.Registry) *cobra.Command {
	return group("bus", "Bus routes, stops and arrivals",
		a.toolCommand(c, "routes", tools.BusRoutes, &tools.BusRoutesArgs{}),
		a.toolCommand(c, "stops", tools.BusStops, &tools.BusStopsArgs{}),
		a.toolCommand(c, "arrivals", tools.BusArrivals, &tools.BusArrivalsArgs{}),
		a.toolCommand(c, "search-stop", tools.BusSearchStop, &tools.BusSearchStopArgs{}),
		a.toolCommand(c, "nearby-stops", tools.BusNearbyStops, &tools.NearbyArgs{}),
	)
}

func (a *app) bikeCommand(c *tools.Registry) *cobra.Command {
	return group("bike", "YouBike stations, racks and lanes",
		a.toolCommand(c, "youbike", tools.BikeYouBike, &tools.AreaArgs{}),
		a.toolCommand(c, "available-bikes", tools.BikeAvailable, &tools.BikeAvailableArgs{}),
		a.toolCommand(c, "nearby-youbike", tools.BikeNearby, &tools.NearbyArgs{}),
		a.toolCommand(c, "bike-racks", tools.BikeRacks, &tools.BikeRacksArgs{}),
		a.toolCommand(c, "bike-lanes", tools.BikeLanes, &tools.AreaArgs{}),
	)
}

func (a *app) parkingCommand(c *tools.Registry) *cobra.Command {
	return group("parking", "Parking lots and roadside spaces",
		a.toolCommand(c, "list", tools.ParkingList, &tools.ParkingListArgs{}),
		a.toolCommand(c, "info", tools.ParkingInfo, &tools.ParkingInfoArgs{}),
		a.toolCommand(c, "available", tools.ParkingAvailable, &tools.ParkingAvailableArgs{}),
		a.toolCommand(c, "roadside", tools.ParkingRoadside, &tools.AreaArgs{}),
		a.toolCommand(c, "nearby", tools.ParkingNearby, &tools.NearbyArgs{}),
	)
}

func (a *app) trafficCommand(c *tools.Registry) *cobra.Command {
	return group("traffic", "Traffic cameras and eTag readers",
		a.toolCommand(c, "cameras", tools.TrafficCameras, &tools.TrafficCamerasArgs{}),
		a.toolCommand(c, "etags", tools.TrafficETags, &tools.AreaArgs{}),
	)
}

func (a *app) miscCommand(c *tools.Registry) *cobra.Command {
	return group("misc", "Taxi operators, towing yards and impact assessments",
		a.toolCommand(c, "taxi-services", tools.MiscTaxiServices, &tools.NoArgs{}),
		a.toolCommand(c, "search-taxi", tools.MiscSearchTaxi, &tools.TaxiSearchArgs{}),
		a.toolCommand(c, "towing-storage", tools.MiscTowingStorage, &tools.AreaArgs{}),
		a.toolCommand(c, "nearest-towing", tools.MiscNearestTowing, &tools.PointArgs{}),
		a.toolCommand(c, "impact-assessment", tools.MiscImpact, &tools.ImpactAssessmentArgs{}),
	)
}
