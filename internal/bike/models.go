// Package bike queries YouBike 2.0 stations, bicycle racks and bike lanes.
package bike

import "github.com/ntpc-opendata/ntpc-opendata/internal/opendata"

// DefaultMinBikes is the threshold used when AvailableYouBikes gets a
// non-positive minimum.
const DefaultMinBikes = 1

// YouBikeStation is a YouBike 2.0 docking station.
type YouBikeStation struct {
	StationNo      string   `json:"sno"`
	Name           string   `json:"sna"`
	TotalDocks     int      `json:"tot"`
	AvailableBikes int      `json:"sbi"`
	Area           string   `json:"sarea"`
	UpdatedAt      string   `json:"mday"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Address        string   `json:"ar"`
	AreaEn         string   `json:"sareaen"`
	NameEn         string   `json:"snaen"`
	AddressEn      string   `json:"aren"`
	EmptyDocks     int      `json:"bemp"`
	Active         bool     `json:"act"`
	DistanceMeters *float64 `json:"distance,omitempty"`
}

// RackDistrict counts public bicycle racks per district.
type RackDistrict struct {
	Item     string `json:"item"`
	Area     string `json:"the_area_in_new_taipei_city"`
	Quantity int    `json:"quantity"`
}

// RackMRT counts bicycle racks around an MRT station.
type RackMRT struct {
	Item     string `json:"item"`
	Station  string `json:"the_mrt_stations_in_new_taipei_city"`
	Quantity int    `json:"quantity"`
}

// Rack is either a district or an MRT-station rack count.
type Rack struct {
	Item     string `json:"item"`
	Location string `json:"location"`
	Quantity int    `json:"quantity"`
	NearMRT  bool   `json:"near_mrt"`
}

// Lane is a bike lane construction record.
type Lane struct {
	Type       string  `json:"type"`
	CountyCode string  `json:"countycode"`
	District   string  `json:"district"`
	Bikeway    string  `json:"bikeway"`
	Route      string  `json:"route"`
	YearMonth  string  `json:"yyymmroc"`
	Length     float64 `json:"length"`
}

// API response types (from the NTPC bicycle datasets).

type youBikeRow struct {
	StationNo      *opendata.String `json:"sno" validate:"required"`
	Name           *opendata.String `json:"sna" validate:"required"`
	TotalDocks     *opendata.Int    `json:"tot" validate:"required"`
	AvailableBikes *opendata.Int    `json:"sbi" validate:"required"`
	Area           *opendata.String `json:"sarea" validate:"required"`
	UpdatedAt      *opendata.String `json:"mday" validate:"required"`
	Lat            *opendata.Float  `json:"lat" validate:"required"`
	Lng            *opendata.Float  `json:"lng" validate:"required"`
	Address        *opendata.String `json:"ar" validate:"required"`
	AreaEn         *opendata.String `json:"sareaen" validate:"required"`
	NameEn         *opendata.String `json:"snaen" validate:"required"`
	AddressEn      *opendata.String `json:"aren" validate:"required"`
	EmptyDocks     *opendata.Int    `json:"bemp" validate:"required"`
	Active         *opendata.Bool   `json:"act" validate:"required"`
}

type rackDistrictRow struct {
	Item     *opendata.String `json:"item" validate:"required"`
	Area     *opendata.String `json:"the_area_in_new_taipei_city" validate:"required"`
	Quantity *opendata.Int    `json:"quantity" validate:"required"`
}

type rackMRTRow struct {
	Item     *opendata.String `json:"item" validate:"required"`
	Station  *opendata.String `json:"the_mrt_stations_in_new_taipei_city" validate:"required"`
	Quantity *opendata.Int    `json:"quantity" validate:"required"`
}

type laneRow struct {
	Type       *opendata.String `json:"type" validate:"required"`
	CountyCode *opendata.String `json:"countycode" validate:"required"`
	District   *opendata.String `json:"district" validate:"required"`
	Bikeway    *opendata.String `json:"bikeway" validate:"required"`
	Route      *opendata.String `json:"route" validate:"required"`
	YearMonth  *opendata.String `json:"yyymmroc" validate:"required"`
	Length     *opendata.Float  `json:"length" validate:"required"`
}

func toYouBikeStation(r *youBikeRow) YouBikeStation {
	return YouBikeStation{
		StationNo:      opendata.Str(r.StationNo),
		Name:           opendata.Str(r.Name),
		TotalDocks:     opendata.Num(r.TotalDocks),
		AvailableBikes: opendata.Num(r.AvailableBikes),
		Area:           opendata.Str(r.Area),
		UpdatedAt:      opendata.Str(r.UpdatedAt),
		Lat:            opendata.Coord(r.Lat),
		Lng:            opendata.Coord(r.Lng),
		Address:        opendata.Str(r.Address),
		AreaEn:         opendata.Str(r.AreaEn),
		NameEn:         opendata.Str(r.NameEn),
		AddressEn:      opendata.Str(r.AddressEn),
		EmptyDocks:     opendata.Num(r.EmptyDocks),
		Active:         opendata.Flag(r.Active),
	}
}

func toRackDistrict(r *rackDistrictRow) RackDistrict {
	return RackDistrict{
		Item:     opendata.Str(r.Item),
		Area:     opendata.Str(r.Area),
		Quantity: opendata.Num(r.Quantity),
	}
}

func toRackMRT(r *rackMRTRow) RackMRT {
	return RackMRT{
		Item:     opendata.Str(r.Item),
		Station:  opendata.Str(r.Station),
		Quantity: opendata.Num(r.Quantity),
	}
}

func toLane(r *laneRow) Lane {
	return Lane{
		Type:       opendata.Str(r.Type),
		CountyCode: opendata.Str(r.CountyCode),
		District:   opendata.Str(r.District),
		Bikeway:    opendata.Str(r.Bikeway),
		Route:      opendata.Str(r.Route),
		YearMonth:  opendata.Str(r.YearMonth),
		Length:     opendata.Coord(r.Length),
	}
}
