package main

import (
	"github.com/vamsi260801-bit/nhfs/domain/models"
	"github.com/vamsi260801-bit/nhfs/explorer"
)

func fptr(v float64) *float64 { return &v }

// testExplorer serves two states, two survey rounds and two indicators.
// Kerala Urban has no Stunting values at all.
func testExplorer() *explorer.Explorer {
	ds := models.NewDataset("fixture", []string{"Anaemia", "Stunting"}, 3, []models.SurveyRecord{
		{Region: "Kerala", Survey: "NFHS-4", Area: "Total", Values: []*float64{fptr(34.3), fptr(19.7)}},
		{Region: "Kerala", Survey: "NFHS-5", Area: "Total", Values: []*float64{fptr(36.345), fptr(23.4)}},
		{Region: "Kerala", Survey: "NFHS-5", Area: "Urban", Values: []*float64{fptr(35.1), nil}},
		{Region: "Bihar", Survey: "NFHS-4", Area: "Total", Values: []*float64{fptr(60.3), fptr(48.3)}},
		{Region: "Bihar", Survey: "NFHS-5", Area: "Total", Values: []*float64{fptr(63.5), fptr(42.9)}},
	})
	return explorer.New(ds, explorer.NewRoundOrder(nil))
}
