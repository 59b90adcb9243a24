package domain

type Classification string

const (
	StatusGrey   Classification = "grey"
	StatusGreen  Classification = "green"
	StatusOrange Classification = "orange"
	StatusRed    Classification = "red"
)

// DailyStatus is one page's health over one calendar day in one time zone.
// (PageID, Day, Zone) is the logical key; re-upserting the same key must
// overwrite.
type DailyStatus struct {
	PageID PageID         `json:"page_id"`
	Day    string         `json:"day"` // YYYY-MM-DD in the zone
	Zone   string         `json:"timezone"`
	Status Classification `json:"status"`
}

// Classify summarizes a day's worth of check results.
// No records at all means grey: the page wasn't being checked, which is
// not the same as healthy.
func Classify(results []CheckResult, redThreshold int) Classification {
	if len(results) == 0 {
		return StatusGrey
	}
	errs := 0
	for _, r := range results {
		if r.Error != nil && *r.Error != "" {
			errs++
		}
	}
	switch {
	case errs >= redThreshold:
		return StatusRed
	case errs > 0:
		return StatusOrange
	default:
		return StatusGreen
	}
}
