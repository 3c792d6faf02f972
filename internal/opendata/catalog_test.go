package opendata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := opendata.DefaultCatalog()

	id, err := catalog.ID(opendata.ResourceBusRoutes)
	require.NoError(t, err)
	assert.Equal(t, "0ee4e6bf-cee6-4ec8-8fe1-71f544015127", id)
	assert.True(t, catalog.Known(id))

	_, err = catalog.ID(opendata.ResourceBikeLanes)
	assert.ErrorIs(t, err, opendata.ErrResourceNotConfigured)

	_, err = catalog.ID("no_such_dataset")
	assert.ErrorIs(t, err, opendata.ErrResourceNotConfigured)

	assert.False(t, catalog.Known(""))
}

func TestCatalog_Merge(t *testing.T) {
	base := opendata.DefaultCatalog()
	merged := base.Merge(map[string]string{
		opendata.ResourceBikeLanes: "lanes-id",
		opendata.ResourceYouBike:   "youbike-v2",
	})

	id, err := merged.ID(opendata.ResourceBikeLanes)
	require.NoError(t, err)
	assert.Equal(t, "lanes-id", id)
	assert.Equal(t, "youbike-v2", merged[opendata.ResourceYouBike])

	// base is untouched
	assert.Empty(t, base[opendata.ResourceBikeLanes])
}

func TestCatalog_Names(t *testing.T) {
	names := opendata.DefaultCatalog().Names()
	require.NotEmpty(t, names)
	assert.Equal(t, opendata.ResourceBikeLanes, names[0])
	assert.IsIncreasing(t, names)
}
