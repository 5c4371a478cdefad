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

// powerMonthKeys are the month keys of the POWER climatology response, in
// calendar order.
var powerMonthKeys = [12]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// powerFillValue marks missing data in POWER responses.
const powerFillValue = -999

// NASAPower fetches the NASA POWER reanalysis climatology. POWER reports
// horizontal irradiation as a daily average per month, so values are
// transposed to the requested plane and scaled to monthly totals.
type NASAPower struct {
	apiURL string
	client *http.Client

	now func() time.Time
}

// configuredNASAPower sets up flags for NASA POWER and returns the instance.
func configuredNASAPower() *NASAPower {
	p := &NASAPower{
		client: common.HTTPClient(20 * time.Second),
		now:    time.Now,
	}
	apiURL := lflag.String("nasa-power-api-url", "https://power.larc.nasa.gov/api/temporal/climatology/point", "URL for the NASA POWER climatology API")

	lflag.Do(func() {
		p.apiURL = *apiURL
	})

	return p
}

// NewNASAPower creates a fetcher against the given base URL.
func NewNASAPower(apiURL string, client *http.Client) *NASAPower {
	if client == nil {
		client = common.HTTPClient(20 * time.Second)
	}
	return &NASAPower{apiURL: apiURL, client: client, now: time.Now}
}

// Source implements Provider.
func (p *NASAPower) Source() types.IrradiationSource {
	return types.SourceGlobalReanalysis
}

type powerResponse struct {
	Properties struct {
		Parameter struct {
			AllSkyIrradiance map[string]float64 `json:"ALLSKY_SFC_SW_DWN"`
		} `json:"parameter"`
	} `json:"properties"`
}

// Fetch implements Provider.
func (p *NASAPower) Fetch(ctx context.Context, coords types.Coordinates, tiltDeg, azimuthDeg float64) (types.IrradiationDataset, error) {
	u, err := url.Parse(p.apiURL)
	if err != nil {
		return types.IrradiationDataset{}, fmt.Errorf("invalid power url: %w", err)
	}

	params := url.Values{}
	params.Set("parameters", "ALLSKY_SFC_SW_DWN")
	params.Set("community", "RE")
	params.Set("latitude", strconv.FormatFloat(coords.LatitudeDeg, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(coords.LongitudeDeg, 'f', 4, 64))
	params.Set("format", "JSON")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return types.IrradiationDataset{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return types.IrradiationDataset{}, fmt.Errorf("failed to fetch power data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.IrradiationDataset{}, fmt.Errorf("power api returned status: %d", resp.StatusCode)
	}

	var data powerResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return types.IrradiationDataset{}, fmt.Errorf("failed to decode power response: %w", err)
	}

	monthly := data.Properties.Parameter.AllSkyIrradiance
	if len(monthly) == 0 {
		return types.IrradiationDataset{}, fmt.Errorf("power response missing ALLSKY_SFC_SW_DWN")
	}

	factor := tiltFactor(coords.LatitudeDeg, tiltDeg, azimuthDeg)
	d := types.IrradiationDataset{
		Source:      types.SourceGlobalReanalysis,
		GeneratedAt: p.now(),
	}
	for i, key := range powerMonthKeys {
		daily, ok := monthly[key]
		if !ok || daily <= powerFillValue {
			return types.IrradiationDataset{}, fmt.Errorf("power response missing month %s", key)
		}
		if daily < 0 {
			daily = 0
		}
		d.MonthlyKWHPerM2[i] = daily * daysInMonth[i] * factor
	}
	d.AnnualKWHPerM2 = d.MonthlySum()
	return d, nil
}
