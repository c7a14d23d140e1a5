package analytics

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"campaignhub/models"
)

// Amounts are shown the way the marketing team reads them: Indonesian digit
// grouping, no fraction.
var printer = message.NewPrinter(language.Indonesian)

func rupiah(v float64) string {
	return "Rp " + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

func count(n int64) string {
	return printer.Sprint(number.Decimal(n))
}

func percent(v float64, digits int) string {
	return strconv.FormatFloat(v, 'f', digits, 64)
}

// titleCase upper-cases the first letter of each word. Casers carry state,
// so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.Indonesian).String(s)
}

// ProductLabel is the display name of a product code.
func ProductLabel(p models.Product) string {
	return titleCase(strings.ReplaceAll(string(p), "_", " "))
}
