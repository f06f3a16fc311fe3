// services/booking/pricing.go
package booking

import (
	"fmt"
	"math"
	"time"

	"gatherly/models"
)

// priceProposal resolves the selected plan and addons against the listing and
// prices the range under the listing's duration policy. An active hot deal
// discounts the plan portion only.
func priceProposal(l *models.Listing, start, end time.Time, planName string, addonNames []string, now time.Time) (*models.Plan, []models.Addon, float64, error) {
	var plan *models.Plan
	if planName != "" {
		for i := range l.Plans {
			if l.Plans[i].Name == planName {
				plan = &l.Plans[i]
				break
			}
		}
		if plan == nil {
			return nil, nil, 0, fmt.Errorf("listing has no plan named %q", planName)
		}
	} else if len(l.Plans) > 0 {
		plan = &l.Plans[0]
	}

	var addons []models.Addon
	for _, name := range addonNames {
		found := false
		for _, a := range l.Addons {
			if a.Name == name {
				addons = append(addons, a)
				found = true
				break
			}
		}
		if !found {
			return nil, nil, 0, fmt.Errorf("listing has no addon named %q", name)
		}
	}

	total := 0.0
	if plan != nil {
		base := plan.Price * float64(billableUnits(l.BookingDurationType, start, end))
		if deal := l.HotDeal; deal != nil && now.Before(deal.EndsAt) && deal.PercentOff > 0 {
			base = base * float64(100-deal.PercentOff) / 100
		}
		total += base
	}
	for _, a := range addons {
		total += a.Price
	}
	return plan, addons, math.Round(total*100) / 100, nil
}

// billableUnits counts hours or calendar days covered by [start, end).
func billableUnits(durationType string, start, end time.Time) int {
	switch durationType {
	case models.DurationPerDay:
		startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		// An exclusive midnight end stays on the previous day.
		last := end.Add(-time.Nanosecond)
		lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, last.Location())
		return int(lastDay.Sub(startDay).Hours()/24) + 1
	default:
		return int(math.Ceil(end.Sub(start).Hours()))
	}
}
