package irradiance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/helioplan/helioplan/pkg/common"
	"github.com/helioplan/helioplan/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// SolarAtlas fetches satellite-derived plane-of-array irradiation from the
// solar atlas API. It is the primary source in the default chain.
type SolarAtlas struct {
	apiURL string
	apiKey string
	client *http.Client

	now func() time.Time
}

// configuredSolarAtlas sets up flags for the solar atlas and returns the
// instance.
func configuredSolarAtlas() *SolarAtlas {
	a := &SolarAtlas{
		client: common.HTTPClient(20 * time.Second),
		now:    time.Now,
	}
	apiURL := lflag.String("solar-atlas-api-url", "https://api.globalsolaratlas.info/data/lta", "URL for the solar atlas API")
	apiKey := lflag.String("solar-atlas-api-key", "", "API key for the solar atlas API (optional)")

	lflag.Do(func() {
		a.apiURL = *apiURL
		a.apiKey = *apiKey
	})

	return a
}

// NewSolarAtlas creates a fetcher against the given base URL. Used by tests
// and by callers that configure themselves.
func NewSolarAtlas(apiURL string, client *http.Client) *SolarAtlas {
	if client == nil {
		client = common.HTTPClient(20 * time.Second)
	}
	return &SolarAtlas{apiURL: apiURL, client: client, now: time.Now}
}

// Source implements Provider.
func (a *SolarAtlas) Source() types.IrradiationSource {
	return types.SourcePrimarySatellite
}

// atlasResponse is the shape of the atlas long-term-average endpoint.
// monthly_gti is the global tilted irradiation in kWh/m² per month.
type atlasResponse struct {
	MonthlyGTI []float64 `json:"monthly_gti"`
	AnnualGTI  float64   `json:"annual_gti"`
}

// Fetch implements Provider.
func (a *SolarAtlas) Fetch(ctx context.Context, coords types.Coordinates, tiltDeg, azimuthDeg float64) (types.IrradiationDataset, error) {
	u, err := url.Parse(a.apiURL)
	if err != nil {
		return types.IrradiationDataset{}, fmt.Errorf("invalid atlas url: %w", err)
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.LatitudeDeg, 'f', 4, 64))
	params.Set("lon", strconv.FormatFloat(coords.LongitudeDeg, 'f', 4, 64))
	params.Set("tilt", strconv.FormatFloat(tiltDeg, 'f', 1, 64))
	params.Set("azimuth", strconv.FormatFloat(azimuthDeg, 'f', 1, 64))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return types.IrradiationDataset{}, fmt.Errorf("failed to create request: %w", err)
	}
	if a.apiKey != "" {
		req.Header.Set("X-Api-Key", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return types.IrradiationDataset{}, fmt.Errorf("failed to fetch atlas data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.IrradiationDataset{}, fmt.Errorf("atlas api returned status: %d", resp.StatusCode)
	}

	var data atlasResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return types.IrradiationDataset{}, fmt.Errorf("failed to decode atlas response: %w", err)
	}
	if len(data.MonthlyGTI) != 12 {
		return types.IrradiationDataset{}, fmt.Errorf("atlas returned %d monthly values, want 12", len(data.MonthlyGTI))
	}

	d := types.IrradiationDataset{
		Source:         types.SourcePrimarySatellite,
		AnnualKWHPerM2: data.AnnualGTI,
		GeneratedAt:    a.now(),
	}
	for i, m := range data.MonthlyGTI {
		if m < 0 {
			m = 0
		}
		d.MonthlyKWHPerM2[i] = m
	}
	if d.AnnualKWHPerM2 == 0 {
		d.AnnualKWHPerM2 = d.MonthlySum()
	}
	return d, nil
}
