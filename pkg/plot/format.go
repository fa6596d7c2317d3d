package plot

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// formatLocale renders v with en-US grouping and up to three fraction digits
func formatLocale(v float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

// toPrecision renders v with p significant digits, switching to exponent
// notation when the exponent is below -6 or at least p ("1.000", "0.001235",
// "1.235e+5").
func toPrecision(v float64, p int) string {
	if v == 0 {
		return strconv.FormatFloat(0, 'f', p-1, 64)
	}

	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', p-1, 64), "e")
	e, _ := strconv.Atoi(exp)

	if e < -6 || e >= p {
		sign := "+"
		if e < 0 {
			sign, e = "-", -e
		}
		return mantissa + "e" + sign + strconv.Itoa(e)
	}

	return strconv.FormatFloat(v, 'f', p-1-e, 64)
}

// roundSignificant rounds v to p significant digits and prints the shortest
// decimal form ("2", "-5.1", "120")
func roundSignificant(v float64, p int) string {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'e', p-1, 64), 64)
	if err != nil {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
