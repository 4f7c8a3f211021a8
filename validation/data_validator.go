// Package validation checks refreshed place names and user input.
package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/ctdata/ct-placenames/interfaces"
	"github.com/ctdata/ct-placenames/placenames/entities"
)

var (
	// Letters in any script, digits, spaces and the punctuation place names use
	inputRegex = regexp.MustCompile(`^[\p{L}0-9\s\-\.']+$`)

	// Substring checks, cheaper than a regex for fixed patterns
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"eval(", "expression(", "url(", "@import",
		// SQL injection
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/", "exec(",
		// Command injection
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal
		"../", "..\\", "%2e%2e", "file://",
	}
)

const (
	minInputLength = 3
	maxInputLength = 50
	maxInputWords  = 6
	maxRepetition  = 5
)

// Compile-time check to ensure DataValidatorImpl implements DataValidator
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateNames rejects a refresh that produced no towns or no counties.
func (v *DataValidatorImpl) ValidateNames(names entities.PlaceNames) error {
	if len(names.Towns) == 0 {
		return fmt.Errorf("town list is empty")
	}
	if len(names.Counties) == 0 {
		return fmt.Errorf("county list is empty")
	}
	return nil
}

// ReportDataQuality lists duplicates, blanks and names found in both lists.
// Duplicate and overlap lists are sorted.
func (v *DataValidatorImpl) ReportDataQuality(names entities.PlaceNames) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		DuplicateTowns:    duplicates(names.Towns),
		DuplicateCounties: duplicates(names.Counties),
		BlankTowns:        countBlank(names.Towns),
		BlankCounties:     countBlank(names.Counties),
		OverlappingNames:  []string{},
	}

	towns := make(map[string]struct{}, len(names.Towns))
	for _, town := range names.Towns {
		towns[town] = struct{}{}
	}
	seen := make(map[string]struct{})
	for _, county := range names.Counties {
		if _, ok := towns[county]; !ok {
			continue
		}
		if _, dup := seen[county]; dup {
			continue
		}
		seen[county] = struct{}{}
		report.OverlappingNames = append(report.OverlappingNames, county)
	}
	slices.Sort(report.OverlappingNames)

	return report
}

func duplicates(values []string) []string {
	counts := make(map[string]int, len(values))
	for _, value := range values {
		counts[value]++
	}

	dups := []string{}
	for value, count := range counts {
		if count > 1 {
			dups = append(dups, value)
		}
	}
	slices.Sort(dups)
	return dups
}

func countBlank(values []string) int {
	blank := 0
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			blank++
		}
	}
	return blank
}

// ValidateInput validates a name or search term supplied by a client.
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	length := len([]rune(input))
	if length < minInputLength {
		return fmt.Errorf("input too short: minimum %d characters", minInputLength)
	}
	if length > maxInputLength {
		return fmt.Errorf("input too long: maximum %d characters", maxInputLength)
	}

	if len(strings.Fields(input)) > maxInputWords {
		return fmt.Errorf("search query too complex: maximum %d words allowed", maxInputWords)
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes and periods are allowed")
	}

	if hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// hasExcessiveRepetition reports a run of more than maxRepetition identical characters
func hasExcessiveRepetition(input string) bool {
	var last rune
	run := 0
	for _, r := range input {
		if r == last {
			run++
		} else {
			last = r
			run = 1
		}
		if run > maxRepetition {
			return true
		}
	}
	return false
}
