package validation

import (
	"slices"
	"testing"

	"github.com/ctdata/ct-placenames/placenames/entities"
)

func TestValidateNames(t *testing.T) {
	v := NewDataValidator()

	tests := []struct {
		name    string
		names   entities.PlaceNames
		wantErr bool
	}{
		{"complete", entities.PlaceNames{Towns: []string{"Avon"}, Counties: []string{"Hartford County"}}, false},
		{"no towns", entities.PlaceNames{Counties: []string{"Hartford County"}}, true},
		{"no counties", entities.PlaceNames{Towns: []string{"Avon"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateNames(tt.names)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNames() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReportDataQuality(t *testing.T) {
	v := NewDataValidator()

	report := v.ReportDataQuality(entities.PlaceNames{
		Towns:    []string{"Salem", "Avon", "Salem", " ", "Windham", "Windham"},
		Counties: []string{"Windham", "Tolland County", "Tolland County", "", "Windham"},
	})

	if !slices.Equal(report.DuplicateTowns, []string{"Salem", "Windham"}) {
		t.Errorf("unexpected duplicate towns %v", report.DuplicateTowns)
	}
	if !slices.Equal(report.DuplicateCounties, []string{"Tolland County", "Windham"}) {
		t.Errorf("unexpected duplicate counties %v", report.DuplicateCounties)
	}
	if report.BlankTowns != 1 || report.BlankCounties != 1 {
		t.Errorf("expected one blank of each kind, got towns=%d counties=%d", report.BlankTowns, report.BlankCounties)
	}
	if !slices.Equal(report.OverlappingNames, []string{"Windham"}) {
		t.Errorf("unexpected overlap %v", report.OverlappingNames)
	}
}

func TestReportDataQualityClean(t *testing.T) {
	report := NewDataValidator().ReportDataQuality(entities.PlaceNames{
		Towns:    []string{"Avon", "Bethel"},
		Counties: []string{"Fairfield County"},
	})

	if len(report.DuplicateTowns) != 0 || len(report.DuplicateCounties) != 0 || len(report.OverlappingNames) != 0 {
		t.Errorf("expected a clean report, got %+v", report)
	}
	if report.OverlappingNames == nil {
		t.Error("overlap list should be empty, not nil, so it encodes as []")
	}
}

func TestValidateInput(t *testing.T) {
	v := NewDataValidator()

	valid := []string{"Avon", "new haven", "East Haddam", "Hawk's Nest", "St. Mary", "Montréal", "Wilton-Norwalk"}
	for _, input := range valid {
		if err := v.ValidateInput(input); err != nil {
			t.Errorf("ValidateInput(%q) unexpected error: %v", input, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"ab",
		"this input is far longer than the fifty characters allowed",
		"one two three four five six seven",
		"<script>alert(1)</script>",
		"avon' or 1=1",
		"../etc/passwd",
		"avon; rm",
		"avon$",
		"aaaaaaa",
	}
	for _, input := range invalid {
		if err := v.ValidateInput(input); err == nil {
			t.Errorf("ValidateInput(%q) expected an error", input)
		}
	}
}
