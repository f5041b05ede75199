// Package format renders amounts and timestamps for an account's locale and
// currency.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

type Formatter interface {
	FormatCurrency(amount decimal.Decimal, locale string, currency string) string
	FormatDateTime(t time.Time, locale string) string
	FormatMovementDate(t time.Time) string
}

type localeFormatter struct{}

func Default() Formatter {
	return localeFormatter{}
}

func (localeFormatter) FormatCurrency(amount decimal.Decimal, locale string, currency string) string {
	return FormatCurrency(amount, locale, currency)
}

func (localeFormatter) FormatDateTime(t time.Time, locale string) string {
	return FormatDateTime(t, locale)
}

func (localeFormatter) FormatMovementDate(t time.Time) string {
	return FormatMovementDate(t)
}

// FormatCurrency uses the currency's symbol, fraction digits and symbol
// placement. The locale only picks the separators.
func FormatCurrency(amount decimal.Decimal, locale string, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}

	l := matchLocale(locale)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.LessThan(minMinor) || minor.GreaterThan(maxMinor) {
		// beyond int64 minor units: keep every digit, skip the symbol layout
		return localDigits(l, amount.StringFixed(int32(cur.Fraction))+" "+code)
	}

	sep := separatorsFor(l)
	f := money.NewFormatter(cur.Fraction, sep.decimal, sep.thousand, cur.Grapheme, cur.Template)
	return localDigits(l, f.Format(minor.IntPart()))
}

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// FormatDateTime renders weekday, day, long month, year, hour and minute in
// the conventions of the matched locale.
func FormatDateTime(t time.Time, locale string) string {
	switch matchLocale(locale) {
	case localeGB:
		return fmt.Sprintf("%s %d %s %d at %s",
			t.Weekday().String()[:3], t.Day(), t.Month().String(), t.Year(), t.Format("15:04"))
	case localeDE:
		return fmt.Sprintf("%s, %d. %s %d um %s",
			germanWeekdays[t.Weekday()], t.Day(), germanMonths[t.Month()-1], t.Year(), t.Format("15:04"))
	case localeSY:
		period := "ص"
		if t.Hour() >= 12 {
			period = "م"
		}
		return fmt.Sprintf("%s، %s %s %s في %s:%s %s",
			arabicWeekdays[t.Weekday()],
			arabicDigits(fmt.Sprint(t.Day())),
			arabicMonths[t.Month()-1],
			arabicDigits(fmt.Sprint(t.Year())),
			arabicDigits(t.Format("3")),
			arabicDigits(t.Format("04")),
			period)
	default:
		return t.Format("Mon, January 2, 2006 at 3:04 PM")
	}
}

// FormatMovementDate is the locale independent stamp shown next to each
// movement row.
func FormatMovementDate(t time.Time) string {
	return t.Format("02 January 2006, 15:04")
}

type supportedLocale int

const (
	localeUS supportedLocale = iota
	localeGB
	localeDE
	localeSY
)

var (
	supportedTags = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.MustParse("de-DE"),
		language.MustParse("ar-SY"),
	}
	matcher = language.NewMatcher(supportedTags)
)

func matchLocale(locale string) supportedLocale {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return localeUS
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return localeUS
	}
	return supportedLocale(idx)
}

type separators struct {
	decimal  string
	thousand string
}

func separatorsFor(l supportedLocale) separators {
	switch l {
	case localeDE:
		return separators{decimal: ",", thousand: "."}
	case localeSY:
		return separators{decimal: "٫", thousand: "٬"}
	default:
		return separators{decimal: ".", thousand: ","}
	}
}

var germanWeekdays = [...]string{"So.", "Mo.", "Di.", "Mi.", "Do.", "Fr.", "Sa."}

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

var arabicWeekdays = [...]string{"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت"}

var arabicMonths = [...]string{
	"كانون الثاني", "شباط", "آذار", "نيسان", "أيار", "حزيران",
	"تموز", "آب", "أيلول", "تشرين الأول", "تشرين الثاني", "كانون الأول",
}

// localDigits writes s in the digit set of the locale.
func localDigits(l supportedLocale, s string) string {
	if l == localeSY {
		return arabicDigits(s)
	}
	return s
}

func arabicDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune('٠' + (r - '0'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
