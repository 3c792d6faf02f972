package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntpc-opendata/ntpc-opendata/internal/cli"
	"github.com/ntpc-opendata/ntpc-opendata/internal/config"
	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata/opendatatest"
)

const youbikeJSON = `[
	{"sno":"500101001","sna":"板橋車站","tot":"20","sbi":"0","sarea":"板橋區","mday":"2024-05-01 08:00:00","lat":"25.0143","lng":"121.4637","ar":"縣民大道","sareaen":"Banqiao Dist.","snaen":"Banqiao Station","aren":"Xianmin Blvd.","bemp":"20","act":"1"},
	{"sno":"500101002","sna":"府中站","tot":"20","sbi":"8","sarea":"板橋區","mday":"2024-05-01 08:00:00","lat":"25.0085","lng":"121.4590","ar":"府中路","sareaen":"Banqiao Dist.","snaen":"Fuzhong Station","aren":"Fuzhong Rd.","bemp":"12","act":"1"}
]`

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, fetcher *opendatatest.Fetcher, args ...string) result {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")

	var stdout, stderr bytes.Buffer
	opts := cli.Options{
		Version:   "1.4.0",
		BuildTime: "2026-10-01",
		Stdout:    &stdout,
		Stderr:    &stderr,
	}
	if fetcher != nil {
		opts.Fetcher = fetcher
	}
	root := cli.NewRootCommand(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func bikes() *opendatatest.Fetcher {
	return opendatatest.NewFetcher().With(opendata.ResourceYouBike, youbikeJSON)
}

func TestTable(t *testing.T) {
	res := run(t, bikes(), "bike", "youbike", "--area", "板橋")

	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SNO"), lines[0])
	assert.Contains(t, lines[0], "SBI")
	assert.Contains(t, lines[1], "板橋車站")
	assert.Contains(t, lines[2], "府中站")
	assert.Contains(t, lines[1], "25.0143")
}

func TestTable_NoResults(t *testing.T) {
	res := run(t, bikes(), "bike", "youbike", "--area", "中和")

	require.NoError(t, res.err)
	assert.Equal(t, "no results\n", res.stdout)
}

func TestJSON(t *testing.T) {
	res := run(t, bikes(), "--format", "json", "bike", "available-bikes", "--min-bikes", "5")

	require.NoError(t, res.err)

	var body struct {
		Tool   string `json:"tool"`
		Count  int    `json:"count"`
		Result []struct {
			Name string `json:"sna"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &body))
	assert.Equal(t, "bike_available", body.Tool)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Result, 1)
	assert.Equal(t, "府中站", body.Result[0].Name)
}

func TestSingleRecord(t *testing.T) {
	fetcher := opendatatest.NewFetcher().With(opendata.ResourceParkingLots, `[
		{"parkingId":"P001","name":"板橋車站地下停車場","area":"板橋區","type":"地下停車場","totalSpaces":"600","latitude":"25.0143","longitude":"121.4637"}
	]`)

	res := run(t, fetcher, "parking", "info", "--id", "P001")

	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "板橋車站地下停車場")
}

func TestNilRecord(t *testing.T) {
	res := run(t, opendatatest.NewFetcher(), "misc", "nearest-towing", "--lat", "25.06", "--lon", "121.49")

	require.NoError(t, res.err)
	assert.Equal(t, "no results\n", res.stdout)
}

func TestFlagsFollowArgumentNames(t *testing.T) {
	fetcher := opendatatest.NewFetcher()

	res := run(t, fetcher, "bus", "routes", "--name", "307", "--page", "2", "--size", "50")

	require.NoError(t, res.err)
	calls := fetcher.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "2", calls[0].Params.Get("page"))
	assert.Equal(t, "50", calls[0].Params.Get("size"))
}

func TestZeroCoordinateFlags(t *testing.T) {
	fetcher := bikes()

	res := run(t, fetcher, "bike", "nearby-youbike", "--lat", "0", "--lon", "121.46")

	require.NoError(t, res.err)
	assert.Equal(t, "no results\n", res.stdout)
	calls := fetcher.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, opendata.ResourceYouBike, calls[0].Resource)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *opendatatest.Fetcher
		args    []string
		want    string
	}{
		{
			name:    "missing required flag",
			fetcher: opendatatest.NewFetcher(),
			args:    []string{"bus", "stops"},
			want:    `required flag(s) "route" not set`,
		},
		{
			name:    "missing coordinate flag",
			fetcher: opendatatest.NewFetcher(),
			args:    []string{"misc", "nearest-towing", "--lat", "25.06"},
			want:    `required flag(s) "lon" not set`,
		},
		{
			name:    "invalid coordinate",
			fetcher: opendatatest.NewFetcher(),
			args:    []string{"misc", "nearest-towing", "--lat", "91", "--lon", "121.5"},
			want:    "lat",
		},
		{
			name:    "unknown format",
			fetcher: bikes(),
			args:    []string{"--format", "xml", "bike", "youbike"},
			want:    `unknown format "xml"`,
		},
		{
			name:    "upstream status",
			fetcher: opendatatest.NewFetcher().Failing(opendata.ResourceYouBike, opendatatest.StatusError(http.StatusServiceUnavailable)),
			args:    []string{"bike", "youbike"},
			want:    "Error: upstream request failed (status 503)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.fetcher, tt.args...)
			require.Error(t, res.err)

			var report bytes.Buffer
			assert.Equal(t, 1, cli.Report(&report, res.err))
			assert.Contains(t, report.String(), tt.want)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestReport_NoError(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 0, cli.Report(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestVersion(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "not a url")

	res := run(t, nil, "version")

	require.NoError(t, res.err)
	assert.Equal(t, "ntpc 1.4.0 (built 2026-10-01)\n", res.stdout)
}
