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

import "time"

// civil returns the calendar date at midnight UTC. UTC keeps day arithmetic exact.
func civil(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts the calendar days from a to b. The result is negative when b
// precedes a. Both times come from civil, so their Unix seconds are exact multiples
// of a day and the count stays exact for arbitrarily long spans.
func daysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}

// validDate reports whether year, month, and day form a real calendar date.
// time.Date normalizes out-of-range components, so an impossible date comes back
// changed.
func validDate(year, month, day int) bool {
	t := civil(year, month, day)
	return t.Year() == year && t.Month() == time.Month(month) && t.Day() == day
}

// daysIn returns the number of days in the given month.
func daysIn(year, month int) int {
	return civil(year, month+1, 0).Day()
}
