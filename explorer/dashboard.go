package explorer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

// ErrInvalidSelection is returned for selection values outside their domain.
var ErrInvalidSelection = errors.New("explorer: invalid selection")

// DefaultSelection mirrors the initial widget state: first region, every
// survey round, first area, first indicator, first round for comparison.
func DefaultSelection(d models.FilterDomains) models.Selection {
	sel := models.Selection{Surveys: slices.Clone(d.Surveys)}
	if sel.Surveys == nil {
		sel.Surveys = []string{}
	}
	if len(d.Regions) > 0 {
		sel.Region = d.Regions[0]
	}
	if len(d.Areas) > 0 {
		sel.Area = d.Areas[0]
	}
	if len(d.Indicators) > 0 {
		sel.Indicator = d.Indicators[0]
	}
	if len(d.Surveys) > 0 {
		sel.ComparisonSurvey = d.Surveys[0]
	}
	return sel
}

func Validate(d models.FilterDomains, sel models.Selection) error {
	if !slices.Contains(d.Regions, sel.Region) {
		return fmt.Errorf("%w: unknown region %q", ErrInvalidSelection, sel.Region)
	}
	if !slices.Contains(d.Areas, sel.Area) {
		return fmt.Errorf("%w: unknown area %q", ErrInvalidSelection, sel.Area)
	}
	for _, s := range sel.Surveys {
		if !slices.Contains(d.Surveys, s) {
			return fmt.Errorf("%w: unknown survey %q", ErrInvalidSelection, s)
		}
	}
	if !slices.Contains(d.Indicators, sel.Indicator) {
		return fmt.Errorf("%w: unknown indicator %q", ErrInvalidSelection, sel.Indicator)
	}
	if !slices.Contains(d.Surveys, sel.ComparisonSurvey) {
		return fmt.Errorf("%w: unknown comparison survey %q", ErrInvalidSelection, sel.ComparisonSurvey)
	}
	return nil
}

// Explorer binds a dataset to a round order and caches its domains.
type Explorer struct {
	ds      *models.Dataset
	order   RoundOrder
	domains models.FilterDomains
}

func New(ds *models.Dataset, order RoundOrder) *Explorer {
	return &Explorer{ds: ds, order: order, domains: Domains(ds, order)}
}

func (e *Explorer) Dataset() *models.Dataset { return e.ds }

func (e *Explorer) Order() RoundOrder { return e.order }

func (e *Explorer) Domains() models.FilterDomains { return e.domains }

func (e *Explorer) DefaultSelection() models.Selection { return DefaultSelection(e.domains) }

// Build validates sel and derives all dashboard views from it.
func (e *Explorer) Build(sel models.Selection) (*models.Dashboard, error) {
	if err := Validate(e.domains, sel); err != nil {
		return nil, err
	}
	ind, _ := e.ds.Indicator(sel.Indicator)

	filtered := ApplyFilter(e.ds.Records, sel.Region, sel.Surveys, sel.Area)
	comparison := ComputeComparison(e.ds.Records, sel.ComparisonSurvey, sel.Area, ind)
	return &models.Dashboard{
		Selection:       sel,
		KPI:             ComputeLatest(filtered, ind, e.order),
		TrendTitle:      fmt.Sprintf("%s Trend", ind.Name),
		Trend:           ComputeTrend(filtered, ind, e.order),
		ComparisonTitle: fmt.Sprintf("%s - %s", ind.Name, sel.ComparisonSurvey),
		Comparison:      comparison,
		ComparisonStats: SummarizeComparison(comparison),
		Filtered:        filtered,
	}, nil
}
