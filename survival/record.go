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

import "strconv"

// dateParts holds one registry date as year, month, and day components. Year 9999 and
// month or day 99 mean the component is unknown. An unknown year implies an unknown
// month, and an unknown month implies an unknown day.
type dateParts struct {
	Year, Month, Day int
}

// parseField converts a raw registry field to an int, mapping blank or non-numeric
// values to the given sentinel. A field counts as numeric only if every character is a
// digit, so signs, spaces, and placeholder codes all map to the sentinel.
func parseField(s string, sentinel int) int {
	if s == "" {
		return sentinel
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return sentinel
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return sentinel
	}
	return n
}

// newDateParts normalizes three raw date fields into dateParts, propagating
// unknownness downward: no year means no month, no month means no day.
func newDateParts(year, month, day string) dateParts {
	d := dateParts{
		Year:  parseField(year, UnknownYear),
		Month: parseField(month, UnknownMonthDay),
		Day:   parseField(day, UnknownMonthDay),
	}
	if d.Year == UnknownYear {
		d.Month = UnknownMonthDay
	}
	if d.Month == UnknownMonthDay {
		d.Day = UnknownMonthDay
	}
	return d
}

// repairDate degrades an impossible calendar date component-wise: an invalid day
// collapses to unknown, an invalid month collapses both month and day. Unknown
// components stand in as 1 (and the unknown year as 1900) for the validity check.
func repairDate(d dateParts) dateParts {
	y, m, day := d.Year, d.Month, d.Day
	if y == UnknownYear {
		y = 1900
	}
	if m == UnknownMonthDay {
		m = 1
	}
	if day == UnknownMonthDay {
		day = 1
	}
	if !validDate(y, m, day) {
		if d.Month >= 1 && d.Month <= 12 {
			d.Day = UnknownMonthDay
		} else {
			d.Month = UnknownMonthDay
			d.Day = UnknownMonthDay
		}
	}
	return d
}

// repairBirth normalizes a birth date for use as the timeline's implicit first entry.
func repairBirth(b dateParts) dateParts {
	if b.Year == UnknownYear {
		b.Month = UnknownMonthDay
	}
	if b.Month == UnknownMonthDay {
		b.Day = UnknownMonthDay
	}
	return repairDate(b)
}

// seqRecord is the sequencing view of one diagnosis record: the normalized date
// snapshots, the adjusted sequence number, and the links to its input and output
// records.
type seqRecord struct {
	timelineEntry
	in     *InputRecord
	out    *OutputRecord
	seqNum int
}

func newSeqRecord(in *InputRecord, out *OutputRecord) *seqRecord {
	rec := &seqRecord{in: in, out: out}
	rec.orig = newDateParts(in.DiagnosisYear, in.DiagnosisMonth, in.DiagnosisDay)
	rec.imputed = rec.orig
	rec.seqNum = parseField(in.SequenceNumber, -1)
	return rec
}

// sortKey returns the total-order key (year, month, day, sequence number) that
// sequences a patient's records chronologically. Unknown components carry their
// sentinel bucket, so comparison falls through to the adjusted sequence number
// whenever date components tie or are unknown.
func (r *seqRecord) sortKey() [4]int {
	return [4]int{r.orig.Year, r.orig.Month, r.orig.Day, r.seqNum}
}

func (r *seqRecord) less(o *seqRecord) bool {
	a, b := r.sortKey(), o.sortKey()
	for k := 0; k < 4; k++ {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}
