package output

import (
	"strconv"
	"unicode/utf8"
)

// charsPerToken approximates how many characters of Python source make up one
// model token.
const charsPerToken = 4

// EstimateTokens approximates the number of tokens a block of source costs
// when sent for critique, rounded to the nearest token.
func EstimateTokens(text string) int {
	runes := utf8.RuneCountInString(text)
	return (runes + charsPerToken/2) / charsPerToken
}

// FormatTokenCount renders a token count, switching to "1.2k" form at 1000.
func FormatTokenCount(tokens int) string {
	if tokens < 1000 {
		return strconv.Itoa(tokens)
	}
	return strconv.FormatFloat(float64(tokens)/1000, 'f', 1, 64) + "k"
}
