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

import "testing"

// testRecord builds an input record with a fixed birth date; the date of last
// contact and vital status must be shared by all records of a patient.
func testRecord(dxY, dxM, dxD, dolcY, dolcM, dolcD, vs, seq, source string) InputRecord {
	return InputRecord{
		DiagnosisYear:    dxY,
		DiagnosisMonth:   dxM,
		DiagnosisDay:     dxD,
		LastContactYear:  dolcY,
		LastContactMonth: dolcM,
		LastContactDay:   dolcD,
		BirthYear:        "1940",
		BirthMonth:       "01",
		BirthDay:         "15",
		VitalStatus:      vs,
		SequenceNumber:   seq,
		ReportingSource:  source,
	}
}

func TestCompleteRecord(t *testing.T) {
	records := []InputRecord{
		testRecord("2010", "03", "15", "2010", "03", "20", "0", "00", "1"),
	}
	results := ComputeSurvival(records, 2015)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.SurvivalMonths != "0000" || r.SurvivalMonthsFlag != FlagCompleteSomeSurvival {
		t.Errorf("expected 0000/%s, got %s/%s", FlagCompleteSomeSurvival, r.SurvivalMonths, r.SurvivalMonthsFlag)
	}
	if r.SurvivalMonthsPresumedAlive != "0000" || r.SurvivalMonthsFlagPresumedAlive != FlagCompleteSomeSurvival {
		t.Errorf("presumed alive differs for a dead patient with a known DOLC: %s/%s",
			r.SurvivalMonthsPresumedAlive, r.SurvivalMonthsFlagPresumedAlive)
	}
	if r.LastContactYear != "2010" || r.LastContactMonth != "03" || r.LastContactDay != "20" {
		t.Errorf("unexpected imputed DOLC: %q %q %q", r.LastContactYear, r.LastContactMonth, r.LastContactDay)
	}
	if r.SortedIndex != 0 {
		t.Errorf("expected sorted index 0, got %d", r.SortedIndex)
	}
}

func TestDayImputationUsesNeighborBounds(t *testing.T) {
	records := []InputRecord{
		testRecord("2008", "06", "10", "2009", "01", "05", "0", "00", "1"),
		testRecord("2008", "06", "", "2009", "01", "05", "0", "01", "1"),
	}
	results := ComputeSurvival(records, 2015)
	r2 := results[1]
	// earliest bound 10 from the preceding record, latest bound 30 (end of June)
	if r2.DiagnosisDay != "20" {
		t.Errorf("expected imputed day 20, got %q", r2.DiagnosisDay)
	}
	if r2.DiagnosisMonth != "06" {
		t.Errorf("known month was altered: %q", r2.DiagnosisMonth)
	}
	if r2.SurvivalMonthsFlag != FlagMissingSomeSurvival {
		t.Errorf("expected flag %s, got %s", FlagMissingSomeSurvival, r2.SurvivalMonthsFlag)
	}
	if r2.SurvivalMonths != "0006" {
		t.Errorf("expected 0006 months, got %s", r2.SurvivalMonths)
	}
	r1 := results[0]
	if r1.SurvivalMonthsFlag != FlagCompleteSomeSurvival || r1.SurvivalMonths != "0006" {
		t.Errorf("expected 0006/%s for the complete record, got %s/%s",
			FlagCompleteSomeSurvival, r1.SurvivalMonths, r1.SurvivalMonthsFlag)
	}
}

func TestBirthDateSeedsDayImputation(t *testing.T) {
	// the first record shares year and month with the birth date, so the birth day
	// becomes the earliest bound: (15+30)/2 = 22
	records := []InputRecord{{
		DiagnosisYear:    "1940",
		DiagnosisMonth:   "06",
		DiagnosisDay:     "",
		LastContactYear:  "1941",
		LastContactMonth: "01",
		LastContactDay:   "05",
		BirthYear:        "1940",
		BirthMonth:       "06",
		BirthDay:         "15",
		VitalStatus:      "0",
		SequenceNumber:   "00",
		ReportingSource:  "1",
	}}
	results := ComputeSurvival(records, 2015)
	r := results[0]
	if r.DiagnosisDay != "22" {
		t.Errorf("expected imputed day 22, got %q", r.DiagnosisDay)
	}
	if r.DiagnosisMonth != "06" {
		t.Errorf("known month was altered: %q", r.DiagnosisMonth)
	}
	if r.SurvivalMonths != "0006" || r.SurvivalMonthsFlag != FlagMissingSomeSurvival {
		t.Errorf("expected 0006/%s, got %s/%s", FlagMissingSomeSurvival, r.SurvivalMonths, r.SurvivalMonthsFlag)
	}
}

func TestBirthDateSeedsMonthImputation(t *testing.T) {
	record := func(birthDay string) InputRecord {
		return InputRecord{
			DiagnosisYear:    "1940",
			DiagnosisMonth:   "",
			DiagnosisDay:     "",
			LastContactYear:  "1941",
			LastContactMonth: "05",
			LastContactDay:   "01",
			BirthYear:        "1940",
			BirthMonth:       "03",
			BirthDay:         birthDay,
			VitalStatus:      "0",
			SequenceNumber:   "00",
			ReportingSource:  "1",
		}
	}
	// the birth date 1940-03-10 is the lower bound, December 31 the default upper
	// bound; the day-count midpoint lands on August 5
	results := ComputeSurvival([]InputRecord{record("10")}, 2015)
	r := results[0]
	if r.DiagnosisMonth != "08" || r.DiagnosisDay != "05" {
		t.Errorf("expected imputed 08-05, got %q-%q", r.DiagnosisMonth, r.DiagnosisDay)
	}
	if r.SurvivalMonths != "0008" || r.SurvivalMonthsFlag != FlagMissingSomeSurvival {
		t.Errorf("expected 0008/%s, got %s/%s", FlagMissingSomeSurvival, r.SurvivalMonths, r.SurvivalMonthsFlag)
	}
	// an unknown birth day degrades the lower bound to the first of the birth month
	results = ComputeSurvival([]InputRecord{record("")}, 2015)
	r = results[0]
	if r.DiagnosisMonth != "07" || r.DiagnosisDay != "31" {
		t.Errorf("expected imputed 07-31, got %q-%q", r.DiagnosisMonth, r.DiagnosisDay)
	}
}

func TestDisagreeingRecords(t *testing.T) {
	records := []InputRecord{
		testRecord("2010", "03", "15", "2011", "03", "20", "0", "00", "1"),
		testRecord("2011", "05", "15", "2012", "03", "20", "0", "01", "1"),
	}
	results := ComputeSurvival(records, 2015)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.SurvivalMonths != UnknownSurvival || r.SurvivalMonthsFlag != FlagUnknown {
			t.Errorf("record %d: expected unknown survival, got %s/%s", i, r.SurvivalMonths, r.SurvivalMonthsFlag)
		}
		if r.SurvivalMonthsPresumedAlive != UnknownSurvival || r.SurvivalMonthsFlagPresumedAlive != FlagUnknown {
			t.Errorf("record %d: expected unknown presumed alive survival", i)
		}
		if r.DiagnosisYear != BlankYear || r.LastContactYear != BlankYear {
			t.Errorf("record %d: expected blanked dates, got %q %q", i, r.DiagnosisYear, r.LastContactYear)
		}
		if r.SortedIndex != i {
			t.Errorf("record %d: expected input-order index, got %d", i, r.SortedIndex)
		}
	}
}

func TestDolcBeyondStudyCutoff(t *testing.T) {
	records := []InputRecord{
		testRecord("2010", "01", "01", "2050", "06", "15", "0", "00", "1"),
	}
	results := ComputeSurvival(records, 2020)
	r := results[0]
	if r.LastContactYear != "2020" || r.LastContactMonth != "12" || r.LastContactDay != "31" {
		t.Errorf("expected DOLC clamped to 2020-12-31, got %q %q %q",
			r.LastContactYear, r.LastContactMonth, r.LastContactDay)
	}
	if r.SurvivalMonths != "0131" || r.SurvivalMonthsFlag != FlagCompleteSomeSurvival {
		t.Errorf("expected 0131/%s, got %s/%s", FlagCompleteSomeSurvival, r.SurvivalMonths, r.SurvivalMonthsFlag)
	}
	if r.SurvivalMonthsPresumedAlive != "0131" {
		t.Errorf("expected the same clamp for presumed alive, got %s", r.SurvivalMonthsPresumedAlive)
	}
}

func TestPresumedAlive(t *testing.T) {
	records := []InputRecord{
		testRecord("2018", "03", "10", "", "", "", "1", "00", "1"),
	}
	results := ComputeSurvival(records, 2020)
	r := results[0]
	if r.SurvivalMonths != UnknownSurvival || r.SurvivalMonthsFlag != FlagUnknown {
		t.Errorf("expected unknown raw survival for an unknown DOLC, got %s/%s", r.SurvivalMonths, r.SurvivalMonthsFlag)
	}
	if r.LastContactYear != BlankYear || r.LastContactMonth != BlankMonth || r.LastContactDay != BlankDay {
		t.Errorf("expected blank raw DOLC, got %q %q %q", r.LastContactYear, r.LastContactMonth, r.LastContactDay)
	}
	if r.SurvivalMonthsPresumedAlive != "0033" || r.SurvivalMonthsFlagPresumedAlive != FlagCompleteSomeSurvival {
		t.Errorf("expected 0033/%s presumed alive, got %s/%s",
			FlagCompleteSomeSurvival, r.SurvivalMonthsPresumedAlive, r.SurvivalMonthsFlagPresumedAlive)
	}
	if r.LastContactYearPresumedAlive != "2020" || r.LastContactMonthPresumedAlive != "12" || r.LastContactDayPresumedAlive != "31" {
		t.Errorf("expected end-of-study DOLC presumed alive, got %q %q %q",
			r.LastContactYearPresumedAlive, r.LastContactMonthPresumedAlive, r.LastContactDayPresumedAlive)
	}
}

func TestUnknownDolcDeadPatient(t *testing.T) {
	records := []InputRecord{
		testRecord("2012", "04", "02", "", "", "", "0", "00", "1"),
		testRecord("2013", "05", "03", "", "", "", "0", "01", "1"),
	}
	results := ComputeSurvival(records, 2015)
	for i, r := range results {
		if r.SurvivalMonths != UnknownSurvival || r.SurvivalMonthsFlag != FlagUnknown {
			t.Errorf("record %d: expected unknown raw survival", i)
		}
		if r.SurvivalMonthsPresumedAlive != UnknownSurvival || r.SurvivalMonthsFlagPresumedAlive != FlagUnknown {
			t.Errorf("record %d: expected unknown presumed alive survival for a dead patient", i)
		}
	}
}

func TestDCOAutopsyOverride(t *testing.T) {
	for _, source := range []string{"6", "7"} {
		records := []InputRecord{
			testRecord("2010", "03", "15", "2012", "03", "20", "0", "00", source),
		}
		results := ComputeSurvival(records, 2015)
		r := results[0]
		if r.SurvivalMonthsFlag != FlagDCOAutopsyOnly || r.SurvivalMonths != UnknownSurvival {
			t.Errorf("source %s: expected %s/%s, got %s/%s", source, UnknownSurvival, FlagDCOAutopsyOnly,
				r.SurvivalMonths, r.SurvivalMonthsFlag)
		}
		if r.SurvivalMonthsFlagPresumedAlive != FlagDCOAutopsyOnly || r.SurvivalMonthsPresumedAlive != UnknownSurvival {
			t.Errorf("source %s: override must also apply presumed alive", source)
		}
	}
}

func TestNegativeSurvivalBecomesUnknown(t *testing.T) {
	records := []InputRecord{
		testRecord("2015", "06", "10", "2010", "01", "01", "0", "00", "1"),
	}
	results := ComputeSurvival(records, 2020)
	r := results[0]
	if r.SurvivalMonths != UnknownSurvival || r.SurvivalMonthsFlag != FlagUnknown {
		t.Errorf("expected unknown survival for a diagnosis after the DOLC, got %s/%s",
			r.SurvivalMonths, r.SurvivalMonthsFlag)
	}
}

func TestKnownComponentsNeverAltered(t *testing.T) {
	// known components are echoed exactly as supplied, without re-padding
	records := []InputRecord{
		testRecord("2012", "7", "4", "2013", "8", "9", "0", "00", "1"),
	}
	results := ComputeSurvival(records, 2015)
	r := results[0]
	if r.DiagnosisYear != "2012" || r.DiagnosisMonth != "7" || r.DiagnosisDay != "4" {
		t.Errorf("known diagnosis date was altered: %q %q %q", r.DiagnosisYear, r.DiagnosisMonth, r.DiagnosisDay)
	}
}

func TestSortedIndexPermutation(t *testing.T) {
	records := []InputRecord{
		testRecord("2012", "05", "01", "2013", "01", "01", "0", "01", "1"),
		testRecord("2010", "03", "15", "2013", "01", "01", "0", "00", "1"),
		testRecord("1890", "01", "01", "2013", "01", "01", "0", "02", "1"),
		testRecord("2011", "07", "", "2013", "01", "01", "0", "03", "1"),
	}
	results := ComputeSurvival(records, 2015)
	if len(results) != len(records) {
		t.Fatalf("expected %d results, got %d", len(records), len(results))
	}
	expected := []int{2, 0, 3, 1}
	seen := map[int]bool{}
	for i, r := range results {
		if r.SortedIndex != expected[i] {
			t.Errorf("record %d: expected sorted index %d, got %d", i, expected[i], r.SortedIndex)
		}
		if seen[r.SortedIndex] {
			t.Errorf("duplicate sorted index %d", r.SortedIndex)
		}
		seen[r.SortedIndex] = true
	}
	// the excluded record still gets blanked diagnosis fields and the imputed DOLC
	invalid := results[2]
	if invalid.DiagnosisYear != BlankYear || invalid.SurvivalMonthsFlag != FlagUnknown {
		t.Errorf("expected an excluded record with blank diagnosis and unknown flag, got %q/%s",
			invalid.DiagnosisYear, invalid.SurvivalMonthsFlag)
	}
	if invalid.LastContactYear != "2013" || invalid.LastContactMonth != "01" || invalid.LastContactDay != "01" {
		t.Errorf("excluded record misses the imputed DOLC: %q %q %q",
			invalid.LastContactYear, invalid.LastContactMonth, invalid.LastContactDay)
	}
}

func TestSequenceNumberTieBreak(t *testing.T) {
	records := []InputRecord{
		testRecord("2010", "06", "15", "2012", "01", "01", "0", "01", "1"),
		testRecord("2010", "06", "15", "2012", "01", "01", "0", "00", "1"),
	}
	results := ComputeSurvival(records, 2015)
	if results[0].SortedIndex != 1 || results[1].SortedIndex != 0 {
		t.Errorf("expected the lower sequence number to sort first, got %d and %d",
			results[0].SortedIndex, results[1].SortedIndex)
	}

	// non-federal sequence numbers (60-97) always sort after federal ones
	records = []InputRecord{
		testRecord("2010", "06", "15", "2012", "01", "01", "0", "60", "1"),
		testRecord("2010", "06", "15", "2012", "01", "01", "0", "01", "1"),
	}
	results = ComputeSurvival(records, 2015)
	if results[0].SortedIndex != 1 || results[1].SortedIndex != 0 {
		t.Errorf("expected the non-federal sequence to sort last, got %d and %d",
			results[0].SortedIndex, results[1].SortedIndex)
	}
}

func TestMissingMonthImputation(t *testing.T) {
	// month 13 is impossible, so month and day collapse to unknown and get imputed
	// from the day-count midpoint between January 1 and the DOLC
	records := []InputRecord{
		testRecord("2010", "13", "05", "2010", "08", "20", "0", "00", "1"),
	}
	results := ComputeSurvival(records, 2015)
	r := results[0]
	if r.DiagnosisMonth != "04" || r.DiagnosisDay != "26" {
		t.Errorf("expected imputed 04-26, got %q-%q", r.DiagnosisMonth, r.DiagnosisDay)
	}
	if r.SurvivalMonthsFlag != FlagMissingNoSurvivalPossible {
		t.Errorf("expected flag %s, got %s", FlagMissingNoSurvivalPossible, r.SurvivalMonthsFlag)
	}
	if r.SurvivalMonths != "0003" {
		t.Errorf("expected 0003 months, got %s", r.SurvivalMonths)
	}
}

func TestInvalidDayRepair(t *testing.T) {
	// February 30 does not exist; the day collapses to unknown and is imputed to the
	// midpoint of February
	records := []InputRecord{
		testRecord("2010", "02", "30", "2010", "06", "15", "0", "00", "1"),
	}
	results := ComputeSurvival(records, 2015)
	r := results[0]
	if r.DiagnosisDay != "14" {
		t.Errorf("expected imputed day 14, got %q", r.DiagnosisDay)
	}
	if r.DiagnosisMonth != "02" {
		t.Errorf("month must survive a day repair, got %q", r.DiagnosisMonth)
	}
	if r.SurvivalMonthsFlag != FlagMissingSomeSurvival {
		t.Errorf("expected flag %s, got %s", FlagMissingSomeSurvival, r.SurvivalMonthsFlag)
	}
	if r.SurvivalMonths != "0003" {
		t.Errorf("expected 0003 months, got %s", r.SurvivalMonths)
	}
}

func TestComputeSurvivalFromFields(t *testing.T) {
	records := []map[string]string{{
		PropDxYear:          "2010",
		PropDxMonth:         "03",
		PropDxDay:           "15",
		PropDolcYear:        "2010",
		PropDolcMonth:       "03",
		PropDolcDay:         "20",
		PropBirthYear:       "1940",
		PropBirthMonth:      "01",
		PropBirthDay:        "15",
		PropVitalStatus:     "0",
		PropSequenceNumber:  "00",
		PropReportingSource: "1",
	}}
	results := ComputeSurvivalFromFields(records, 2015)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].SurvivalMonths != "0000" || results[0].SurvivalMonthsFlag != FlagCompleteSomeSurvival {
		t.Errorf("field-map entry differs from the record entry: %s/%s",
			results[0].SurvivalMonths, results[0].SurvivalMonthsFlag)
	}
}

func TestEmptyPatient(t *testing.T) {
	results := ComputeSurvival(nil, 2015)
	if len(results) != 0 {
		t.Errorf("expected no results for an empty patient, got %d", len(results))
	}
}

func TestFixupFlags(t *testing.T) {
	build := func(flags ...string) []*seqRecord {
		recs := make([]*seqRecord, len(flags))
		for i, flag := range flags {
			recs[i] = &seqRecord{out: &OutputRecord{
				SurvivalMonthsFlag:              flag,
				SurvivalMonthsFlagPresumedAlive: flag,
			}}
		}
		return recs
	}
	collect := func(recs []*seqRecord, presumeAlive bool) []string {
		flags := make([]string, len(recs))
		for i, rec := range recs {
			if presumeAlive {
				flags[i] = rec.out.SurvivalMonthsFlagPresumedAlive
			} else {
				flags[i] = rec.out.SurvivalMonthsFlag
			}
		}
		return flags
	}
	cases := []struct {
		in, want []string
	}{
		{[]string{"2", "1"}, []string{"3", "1"}},
		{[]string{"2", "3"}, []string{"3", "3"}},
		{[]string{"2", "9", "1"}, []string{"3", "9", "1"}},
		{[]string{"1", "2"}, []string{"1", "2"}},
		{[]string{"2", "0"}, []string{"2", "0"}},
		{[]string{"2", "2", "1"}, []string{"3", "3", "1"}},
	}
	for _, c := range cases {
		for _, presumeAlive := range []bool{false, true} {
			recs := build(c.in...)
			fixupFlags(recs, presumeAlive)
			got := collect(recs, presumeAlive)
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("fixup(%v, presumeAlive=%v): expected %v, got %v", c.in, presumeAlive, c.want, got)
					break
				}
			}
		}
	}
}
