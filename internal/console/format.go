package console

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Форматы, в которых API отдает created_at и time.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// formatter переводит числа и даты в вид en-US.
type formatter struct {
	printer *message.Printer
	loc     *time.Location
}

func newFormatter(loc *time.Location) *formatter {
	if loc == nil {
		loc = time.Local
	}
	return &formatter{
		printer: message.NewPrinter(language.AmericanEnglish),
		loc:     loc,
	}
}

// Count — целое с группировкой разрядов: 1000000 -> 1,000,000
func (f *formatter) Count(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Currency — доллары с центами: 1234.5 -> $1,234.50
func (f *formatter) Currency(v float64) string {
	if v < 0 {
		return "-$" + f.printer.Sprintf("%.2f", -v)
	}
	return "$" + f.printer.Sprintf("%.2f", v)
}

// Date форматирует момент в часовом поясе консоли. Нераспознанное значение
// возвращается как есть.
func (f *formatter) Date(raw string) string {
	for _, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		switch layout {
		case time.RFC3339Nano:
			t, err = time.Parse(layout, raw)
		case "2006-01-02":
			t, err = time.ParseInLocation(layout, raw, time.UTC)
		default:
			t, err = time.ParseInLocation(layout, raw, f.loc)
		}
		if err == nil {
			return t.In(f.loc).Format("1/2/2006, 3:04:05 PM")
		}
	}
	return raw
}

// Clock Только время, для строки "последнее обновление"
func (f *formatter) Clock(t time.Time) string {
	return t.In(f.loc).Format("3:04:05 PM")
}

// plain печатает число без группировки и лишних нулей: 3 -> "3", 2.5 -> "2.5"
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// UsagePercent считает ширину полосы использования в процентах.
// Лимит 0 или меньше считается исчерпанным.
func UsagePercent(usage, limit float64) float64 {
	if limit <= 0 {
		return 100
	}
	if usage <= 0 {
		return 0
	}
	return min(100, usage/limit*100)
}
