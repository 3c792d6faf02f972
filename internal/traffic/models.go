// Package traffic queries traffic enforcement cameras and eTag readers.
package traffic

import "github.com/ntpc-opendata/ntpc-opendata/internal/opendata"

// Camera is a traffic enforcement camera.
type Camera struct {
	CCTVID   string `json:"cctv_id"`
	District string `json:"district"`
	AreaCode string `json:"areacode"`
	Address  string `json:"address"`
}

// ETag is an eTag reader gantry.
type ETag struct {
	ETagID   string `json:"etag_id"`
	District string `json:"district"`
	AreaCode string `json:"areacode"`
	Address  string `json:"address"`
}

// CameraQuery narrows the camera listing by district and road substrings.
type CameraQuery struct {
	Area string
	Road string
}

type cameraRow struct {
	CCTVID   *opendata.String `json:"cctv_id" validate:"required"`
	District *opendata.String `json:"district" validate:"required"`
	AreaCode *opendata.String `json:"areacode" validate:"required"`
	Address  *opendata.String `json:"address" validate:"required"`
}

type etagRow struct {
	ETagID   *opendata.String `json:"etag_id" validate:"required"`
	District *opendata.String `json:"district" validate:"required"`
	AreaCode *opendata.String `json:"areacode" validate:"required"`
	Address  *opendata.String `json:"address" validate:"required"`
}

func toCamera(r *cameraRow) Camera {
	return Camera{
		CCTVID:   opendata.Str(r.CCTVID),
		District: opendata.Str(r.District),
		AreaCode: opendata.Str(r.AreaCode),
		Address:  opendata.Str(r.Address),
	}
}

func toETag(r *etagRow) ETag {
	return ETag{
		ETagID:   opendata.Str(r.ETagID),
		District: opendata.Str(r.District),
		AreaCode: opendata.Str(r.AreaCode),
		Address:  opendata.Str(r.Address),
	}
}
