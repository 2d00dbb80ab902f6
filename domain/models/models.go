package models

// Identifier columns of the survey export, in the order they must appear.
const (
	ColumnRegion = "India/States/UTs"
	ColumnSurvey = "Survey"
	ColumnArea   = "Area"
)

var IdentifierColumns = []string{ColumnRegion, ColumnSurvey, ColumnArea}

// Indicator describes one numeric metric column.
type Indicator struct {
	Name   string `json:"name"`
	Column int    `json:"column"` // position in the source header
	Index  int    `json:"-"`      // position in SurveyRecord.Values
}

// SurveyRecord is one row of the export. A nil value is a missing cell.
type SurveyRecord struct {
	Region string     `json:"region"`
	Survey string     `json:"survey"`
	Area   string     `json:"area"`
	Values []*float64 `json:"values"`
}

// Value returns the record's value for ind, nil when missing.
func (r SurveyRecord) Value(ind Indicator) *float64 {
	if ind.Index < 0 || ind.Index >= len(r.Values) {
		return nil
	}
	return r.Values[ind.Index]
}

// Dataset is immutable once built.
type Dataset struct {
	Source     string         `json:"source"`
	Indicators []Indicator    `json:"indicators"`
	Records    []SurveyRecord `json:"records"`

	byName map[string]int
}

func NewDataset(source string, indicatorNames []string, columnOffset int, records []SurveyRecord) *Dataset {
	ds := &Dataset{
		Source:     source,
		Indicators: make([]Indicator, len(indicatorNames)),
		Records:    records,
		byName:     make(map[string]int, len(indicatorNames)),
	}
	for i, name := range indicatorNames {
		ds.Indicators[i] = Indicator{Name: name, Column: columnOffset + i, Index: i}
		ds.byName[name] = i
	}
	return ds
}

// Indicator looks a metric up by its column name.
func (d *Dataset) Indicator(name string) (Indicator, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Indicator{}, false
	}
	return d.Indicators[i], true
}

func (d *Dataset) IndicatorNames() []string {
	names := make([]string, len(d.Indicators))
	for i, ind := range d.Indicators {
		names[i] = ind.Name
	}
	return names
}

// Selection is the user's current filter state.
type Selection struct {
	Region           string   `json:"region"`
	Surveys          []string `json:"surveys"`
	Area             string   `json:"area"`
	Indicator        string   `json:"indicator"`
	ComparisonSurvey string   `json:"comparisonSurvey"`
}

type FilterDomains struct {
	Regions    []string `json:"regions"`
	Surveys    []string `json:"surveys"`
	Areas      []string `json:"areas"`
	Indicators []string `json:"indicators"`
}

// KPI is the headline value of the latest survey round.
type KPI struct {
	Indicator string   `json:"indicator"`
	Survey    string   `json:"survey"`
	Label     string   `json:"label"`
	Value     *float64 `json:"value"`
}

type TrendPoint struct {
	Survey string   `json:"survey"`
	Value  *float64 `json:"value"`
}

type ComparisonRow struct {
	Region string  `json:"region"`
	Value  float64 `json:"value"`
}

// ComparisonStats summarizes the spread of a comparison across regions.
type ComparisonStats struct {
	Count    int      `json:"count"`
	Average  float64  `json:"average"`
	Median   float64  `json:"median"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Q1       float64  `json:"q1"`
	Q3       float64  `json:"q3"`
	IQR      float64  `json:"iqr"`
	Outliers []string `json:"outliers"` // regions outside 1.5 IQR of the quartiles
}

// Dashboard holds every view derived from one Selection.
type Dashboard struct {
	Selection       Selection        `json:"selection"`
	KPI             *KPI             `json:"kpi"`
	TrendTitle      string           `json:"trendTitle"`
	Trend           []TrendPoint     `json:"trend"`
	ComparisonTitle string           `json:"comparisonTitle"`
	Comparison      []ComparisonRow  `json:"comparison"`
	ComparisonStats *ComparisonStats `json:"comparisonStats"`
	Filtered        []SurveyRecord   `json:"-"`
}
