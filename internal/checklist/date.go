package checklist

import "time"

var obsDateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02",
}

const displayDateLayout = "January 2, 2006"

// FormatDate turns an obsDt value such as "2026-02-07 14:30" into
// "February 7, 2026". Values matching neither layout are returned unchanged.
func FormatDate(obsDt string) string {
	for _, layout := range obsDateLayouts {
		if t, err := time.Parse(layout, obsDt); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return obsDt
}
