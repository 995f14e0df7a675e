package openlibrary

import (
	"regexp"
	"strconv"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// ExtractYear pulls the first 4-digit run out of free-text publish-date
// strings like "Jan 01, 1937" or "1st ed. 2003". Returns 0 when no 4-digit
// run exists.
func ExtractYear(text string) int {
	match := yearPattern.FindString(text)
	if match == "" {
		return 0
	}
	year, _ := strconv.Atoi(match)
	return year
}
