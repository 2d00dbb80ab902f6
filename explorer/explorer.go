// Package explorer derives the dashboard views from the loaded survey dataset.
// Every function is pure: the dataset is never modified and empty inputs give
// empty results.
package explorer

import (
	"fmt"
	"sort"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

// Domains returns the valid values of every selection field.
func Domains(ds *models.Dataset, order RoundOrder) models.FilterDomains {
	regions := map[string]bool{}
	surveys := map[string]bool{}
	areas := map[string]bool{}
	for _, rec := range ds.Records {
		if rec.Region != "" {
			regions[rec.Region] = true
		}
		if rec.Survey != "" {
			surveys[rec.Survey] = true
		}
		if rec.Area != "" {
			areas[rec.Area] = true
		}
	}

	d := models.FilterDomains{
		Regions:    sortedKeys(regions),
		Surveys:    keys(surveys),
		Areas:      sortedKeys(areas),
		Indicators: ds.IndicatorNames(),
	}
	order.Sort(d.Surveys)
	return d
}

// ApplyFilter keeps records with the given region and area whose survey is in
// surveys. Original order is preserved; an empty survey set matches nothing.
func ApplyFilter(records []models.SurveyRecord, region string, surveys []string, area string) []models.SurveyRecord {
	allowed := make(map[string]bool, len(surveys))
	for _, s := range surveys {
		allowed[s] = true
	}

	out := make([]models.SurveyRecord, 0)
	for _, rec := range records {
		if rec.Region == region && rec.Area == area && allowed[rec.Survey] {
			out = append(out, rec)
		}
	}
	return out
}

// ComputeLatest returns the value of ind on the record with the latest survey
// round, or nil when filtered is empty. With several records on the latest
// round the last one wins. A missing value stays nil.
func ComputeLatest(filtered []models.SurveyRecord, ind models.Indicator, order RoundOrder) *models.KPI {
	if len(filtered) == 0 {
		return nil
	}

	latest := 0
	for i := 1; i < len(filtered); i++ {
		if !order.Less(filtered[i].Survey, filtered[latest].Survey) {
			latest = i
		}
	}

	rec := filtered[latest]
	return &models.KPI{
		Indicator: ind.Name,
		Survey:    rec.Survey,
		Label:     fmt.Sprintf("%s (%s)", ind.Name, rec.Survey),
		Value:     round2(rec.Value(ind)),
	}
}

// ComputeTrend returns one point per filtered record ordered by survey round.
func ComputeTrend(filtered []models.SurveyRecord, ind models.Indicator, order RoundOrder) []models.TrendPoint {
	sorted := make([]models.SurveyRecord, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		return order.Less(sorted[i].Survey, sorted[j].Survey)
	})

	points := make([]models.TrendPoint, 0, len(sorted))
	for _, rec := range sorted {
		points = append(points, models.TrendPoint{Survey: rec.Survey, Value: rec.Value(ind)})
	}
	return points
}

// ComputeComparison compares every region for one survey round and area,
// highest value first. Rows without a region or a value are dropped; equal
// values keep their input order.
func ComputeComparison(records []models.SurveyRecord, survey, area string, ind models.Indicator) []models.ComparisonRow {
	rows := make([]models.ComparisonRow, 0)
	for _, rec := range records {
		if rec.Survey != survey || rec.Area != area || rec.Region == "" {
			continue
		}
		v := rec.Value(ind)
		if v == nil {
			continue
		}
		rows = append(rows, models.ComparisonRow{Region: rec.Region, Value: *v})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Value > rows[j].Value
	})
	return rows
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := roundToTwo(*v)
	return &r
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := keys(set)
	sort.Strings(out)
	return out
}
