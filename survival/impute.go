// SURVT: Cancer Registry Survival Time Library
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/survt/blob/master/LICENSE.txt>.

package survival

import "math"

// timelineEntry keeps the two date snapshots of one timeline position: orig is the
// normalized date as reported and is never overwritten by interpolation; imputed
// starts as a copy of orig and gets its unknown components filled in.
type timelineEntry struct {
	orig    dateParts
	imputed dateParts
}

// timeline is a patient's chronologically sequenced diagnosis dates plus the date of
// last contact as an anchor entry at the end. The birth date acts as an implicit
// entry preceding the first position. One interpolation routine serves both the
// diagnosis records and the anchor.
type timeline struct {
	recs  []*seqRecord
	dolc  *timelineEntry
	birth dateParts
}

func (tl *timeline) size() int {
	return len(tl.recs) + 1
}

func (tl *timeline) entry(i int) *timelineEntry {
	if i < len(tl.recs) {
		return &tl.recs[i].timelineEntry
	}
	return tl.dolc
}

// imputeDays fills the unknown day of every entry that has a known month. The day
// becomes the midpoint, rounded down, between the nearest preceding and following
// known days within the same year and month; the bounds default to 1 and the length
// of the month. The birth day seeds the lower bound for the first position.
func (tl *timeline) imputeDays() {
	for i := 0; i < tl.size(); i++ {
		e := tl.entry(i)
		if e.imputed.Month == UnknownMonthDay || e.imputed.Day != UnknownMonthDay {
			continue
		}
		earliest := 0
		if i == 0 && tl.birth.Year == e.imputed.Year && tl.birth.Month == e.imputed.Month && tl.birth.Day != UnknownMonthDay {
			earliest = tl.birth.Day
		}
		for j := i - 1; j >= 0; j-- {
			prev := tl.entry(j)
			if prev.imputed.Day != UnknownMonthDay {
				if prev.imputed.Year == e.imputed.Year && prev.imputed.Month == e.imputed.Month {
					earliest = prev.imputed.Day
				}
				break
			}
		}
		if earliest == 0 {
			earliest = 1
		}
		latest := 0
		for j := i + 1; j < tl.size(); j++ {
			next := tl.entry(j)
			if next.imputed.Day != UnknownMonthDay {
				if next.imputed.Year == e.imputed.Year && next.imputed.Month == e.imputed.Month {
					latest = next.imputed.Day
				}
				break
			}
		}
		if latest == 0 {
			latest = daysIn(e.imputed.Year, e.imputed.Month)
		}
		e.imputed.Day = (earliest + latest) / 2
	}
}

// imputeMonthsAndDays fills the unknown month and day of every remaining entry. The
// bounds are the nearest preceding and following entries with a known month within
// the same year, defaulting to January 1 and December 31; the birth date seeds the
// lower bound for the first position. The entry becomes the day-count midpoint
// between the two bounding calendar dates. This midpoint deliberately rounds on day
// counts, not on day-of-month values like imputeDays does; the two strategies give
// different results and both are part of the algorithm's published behavior.
func (tl *timeline) imputeMonthsAndDays() {
	for i := 0; i < tl.size(); i++ {
		e := tl.entry(i)
		if e.imputed.Month != UnknownMonthDay {
			continue
		}
		earliestMonth, earliestDay := 0, 0
		if i == 0 && tl.birth.Year == e.imputed.Year && tl.birth.Month != UnknownMonthDay {
			earliestMonth = tl.birth.Month
			earliestDay = 1
			if tl.birth.Day != UnknownMonthDay {
				earliestDay = tl.birth.Day
			}
		}
		for j := i - 1; j >= 0; j-- {
			prev := tl.entry(j)
			if prev.imputed.Month != UnknownMonthDay {
				if prev.imputed.Year == e.imputed.Year {
					earliestMonth = prev.imputed.Month
					earliestDay = prev.imputed.Day
				}
				break
			}
		}
		if earliestMonth == 0 {
			earliestMonth, earliestDay = 1, 1
		}
		latestMonth, latestDay := 0, 0
		for j := i + 1; j < tl.size(); j++ {
			next := tl.entry(j)
			if next.imputed.Month != UnknownMonthDay {
				if next.imputed.Year == e.imputed.Year {
					latestMonth = next.imputed.Month
					latestDay = next.imputed.Day
				}
				break
			}
		}
		if latestMonth == 0 {
			latestMonth, latestDay = 12, 31
		}
		lo := civil(e.imputed.Year, earliestMonth, earliestDay)
		hi := civil(e.imputed.Year, latestMonth, latestDay)
		mid := lo.AddDate(0, 0, int(math.Floor(float64(daysBetween(lo, hi))/2)))
		e.imputed.Month = int(mid.Month())
		e.imputed.Day = mid.Day()
	}
}
