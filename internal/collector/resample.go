package collector

import "github.com/breakoutsentinel/sentinel/internal/model"

// ResampleWeekly converts daily bars into ISO-week bars. Each weekly bar is
// stamped with the date of its first session.
func ResampleWeekly(daily model.BarSeries) model.BarSeries {
	if len(daily) == 0 {
		return nil
	}
	var weekly model.BarSeries
	var week model.Bar
	var weekKey int
	started := false

	for _, d := range daily {
		year, isoWeek := d.Time.ISOWeek()
		key := year*100 + isoWeek

		if !started || key != weekKey {
			if started {
				weekly = append(weekly, week)
			}
			week = d
			weekKey = key
			started = true
			continue
		}
		if d.High > week.High {
			week.High = d.High
		}
		if d.Low < week.Low {
			week.Low = d.Low
		}
		week.Close = d.Close
		week.Volume += d.Volume
	}
	weekly = append(weekly, week)
	return weekly
}
