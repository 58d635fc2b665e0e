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

// Package survival calculates the survival time in months for a patient, represented
// as an ordered list of tumor records. For each record it derives an imputed diagnosis
// date, an imputed date of last contact (DOLC), the number of whole months between
// them, and a flag describing how much of the date information was usable. The
// calculation runs under two policies: once with the DOLC as reported, and once
// presuming a patient with vital status alive to be alive through the study cutoff
// date.
//
// See https://seer.cancer.gov/survivaltime/ for the algorithm specification.
package survival

import (
	"fmt"
	"math"
	"sort"
)

const (
	AlgName = "Survival Time in Months"
	Version = "2.2"
)

// Names of the registry fields consumed by the calculation, for callers that address
// fields by name rather than through InputRecord.
const (
	PropDxYear          = "dateOfDiagnosisYear"
	PropDxMonth         = "dateOfDiagnosisMonth"
	PropDxDay           = "dateOfDiagnosisDay"
	PropDolcYear        = "dateOfLastContactYear"
	PropDolcMonth       = "dateOfLastContactMonth"
	PropDolcDay         = "dateOfLastContactDay"
	PropBirthYear       = "birthDateYear"
	PropBirthMonth      = "birthDateMonth"
	PropBirthDay        = "birthDateDay"
	PropVitalStatus     = "vitalStatus"
	PropSequenceNumber  = "sequenceNumberCentral"
	PropReportingSource = "typeOfReportingSource"
)

// Survival flag codes.
const (
	FlagCompleteNoSurvival        = "0"
	FlagCompleteSomeSurvival      = "1"
	FlagMissingNoSurvivalPossible = "2"
	FlagMissingSomeSurvival       = "3"
	FlagDCOAutopsyOnly            = "8"
	FlagUnknown                   = "9"
)

// Sentinel and blank encodings shared with the registry record layouts.
const (
	UnknownYear     = 9999
	UnknownMonthDay = 99

	UnknownSurvival = "9999"
	BlankYear       = "    "
	BlankMonth      = "  "
	BlankDay        = "  "
)

const (
	daysPerMonth     = 365.24 / 12
	vitalStatusAlive = 1
	endMonth         = 12
	endDay           = 31
)

// InputRecord holds the raw registry fields of one tumor record. All fields are text
// so that blank and placeholder encodings from the source record layout are preserved;
// any field may be absent or non-numeric.
type InputRecord struct {
	DiagnosisYear, DiagnosisMonth, DiagnosisDay       string
	LastContactYear, LastContactMonth, LastContactDay string
	BirthYear, BirthMonth, BirthDay                   string
	VitalStatus                                       string
	SequenceNumber                                    string // sequenceNumberCentral
	ReportingSource                                   string // typeOfReportingSource
}

// OutputRecord holds the computed survival data of one tumor record. Imputed
// diagnosis components are zero-padded; known diagnosis components are echoed exactly
// as the caller supplied them. The contact date fields always carry the imputed DOLC,
// zero-padded. SortedIndex is the record's rank in the patient's chronological
// sequence; the output list itself stays in the caller's order.
type OutputRecord struct {
	DiagnosisYear, DiagnosisMonth, DiagnosisDay       string
	LastContactYear, LastContactMonth, LastContactDay string

	LastContactYearPresumedAlive  string
	LastContactMonthPresumedAlive string
	LastContactDayPresumedAlive   string

	SurvivalMonths                  string
	SurvivalMonthsFlag              string
	SurvivalMonthsPresumedAlive     string
	SurvivalMonthsFlagPresumedAlive string

	SortedIndex int
}

// ComputeSurvivalFromFields calculates the survival time for a patient whose records
// are given as maps of registry field names (the Prop... constants) to raw values.
func ComputeSurvivalFromFields(records []map[string]string, endPointYear int) []OutputRecord {
	list := make([]InputRecord, len(records))
	for i, fields := range records {
		list[i] = InputRecord{
			DiagnosisYear:    fields[PropDxYear],
			DiagnosisMonth:   fields[PropDxMonth],
			DiagnosisDay:     fields[PropDxDay],
			LastContactYear:  fields[PropDolcYear],
			LastContactMonth: fields[PropDolcMonth],
			LastContactDay:   fields[PropDolcDay],
			BirthYear:        fields[PropBirthYear],
			BirthMonth:       fields[PropBirthMonth],
			BirthDay:         fields[PropBirthDay],
			VitalStatus:      fields[PropVitalStatus],
			SequenceNumber:   fields[PropSequenceNumber],
			ReportingSource:  fields[PropReportingSource],
		}
	}
	return ComputeSurvival(list, endPointYear)
}

// ComputeSurvival calculates the survival time for the given patient under both the
// reported-DOLC and the presumed-alive policy. The result list has the same length
// and order as the input list; no input ever produces an error. Insufficient or
// inconsistent date information degrades to unknown results rather than failing.
func ComputeSurvival(records []InputRecord, endPointYear int) (results []OutputRecord) {
	if len(records) == 0 {
		return []OutputRecord{}
	}

	// Safety net: a patient that trips an unforeseen calendar or arithmetic condition
	// gets unknown results in input order instead of a hard failure.
	defer func() {
		if recover() != nil {
			results = unknownResults(records)
		}
	}()

	// All records of a patient must report the same DOLC and vital status. A patient
	// with disagreeing records is unprocessable as a whole.
	first := records[0]
	for _, r := range records {
		if r.LastContactYear != first.LastContactYear ||
			r.LastContactMonth != first.LastContactMonth ||
			r.LastContactDay != first.LastContactDay ||
			r.VitalStatus != first.VitalStatus {
			return invalidPatientResults(len(records))
		}
	}

	dolc := newDateParts(first.LastContactYear, first.LastContactMonth, first.LastContactDay)
	if dolc.Year < 1900 {
		dolc.Year = UnknownYear
		dolc.Month = UnknownMonthDay
		dolc.Day = UnknownMonthDay
	}
	vs := parseField(first.VitalStatus, 9)
	birth := newDateParts(first.BirthYear, first.BirthMonth, first.BirthDay)

	results = make([]OutputRecord, len(records))
	var seqRecs []*seqRecord
	for i := range records {
		in := &records[i]
		out := &results[i]
		out.DiagnosisYear = in.DiagnosisYear
		out.DiagnosisMonth = in.DiagnosisMonth
		out.DiagnosisDay = in.DiagnosisDay
		out.LastContactYear = in.LastContactYear
		out.LastContactMonth = in.LastContactMonth
		out.LastContactDay = in.LastContactDay
		out.LastContactYearPresumedAlive = in.LastContactYear
		out.LastContactMonthPresumedAlive = in.LastContactMonth
		out.LastContactDayPresumedAlive = in.LastContactDay
		out.SortedIndex = -1

		rec := newSeqRecord(in, out)
		if rec.orig.Year == UnknownYear || rec.orig.Year < 1900 || rec.orig.Year > endPointYear {
			out.SurvivalMonths = UnknownSurvival
			out.SurvivalMonthsFlag = FlagUnknown
			out.SurvivalMonthsPresumedAlive = UnknownSurvival
			out.SurvivalMonthsFlagPresumedAlive = FlagUnknown
			out.DiagnosisYear = BlankYear
			out.DiagnosisMonth = BlankMonth
			out.DiagnosisDay = BlankDay
			continue
		}
		rec.orig = repairDate(rec.orig)
		rec.imputed = rec.orig
		seqRecs = append(seqRecs, rec)
	}

	// There are two families of sequence numbers: federal (00-59, 98, 99) and
	// non-federal (60-97). Non-federal sequences must always sort after federal ones,
	// so shift them to 160-197.
	for _, rec := range seqRecs {
		if rec.seqNum >= 60 && rec.seqNum <= 97 {
			rec.seqNum += 100
		}
	}
	sort.SliceStable(seqRecs, func(i, j int) bool {
		return seqRecs[i].less(seqRecs[j])
	})

	// Reported-DOLC policy. It cannot handle an unknown DOLC.
	if dolc.Year != UnknownYear {
		runPolicy(seqRecs, results, dolc, birth, vs, endPointYear, false)
	} else {
		for _, rec := range seqRecs {
			rec.out.SurvivalMonths = UnknownSurvival
			rec.out.SurvivalMonthsFlag = FlagUnknown
			rec.out.LastContactYear = BlankYear
			rec.out.LastContactMonth = BlankMonth
			rec.out.LastContactDay = BlankDay
		}
	}

	// Presumed-alive policy. It can handle an unknown DOLC, but only for a patient
	// whose vital status says alive.
	if dolc.Year != UnknownYear || vs == vitalStatusAlive {
		runPolicy(seqRecs, results, dolc, birth, vs, endPointYear, true)
	} else {
		for _, rec := range seqRecs {
			rec.out.SurvivalMonthsPresumedAlive = UnknownSurvival
			rec.out.SurvivalMonthsFlagPresumedAlive = FlagUnknown
			rec.out.LastContactYearPresumedAlive = BlankYear
			rec.out.LastContactMonthPresumedAlive = BlankMonth
			rec.out.LastContactDayPresumedAlive = BlankDay
		}
	}

	// Death-certificate-only and autopsy-only records carry no usable survival
	// information, whatever was computed for them.
	for _, rec := range seqRecs {
		if rec.in.ReportingSource == "6" || rec.in.ReportingSource == "7" {
			rec.out.SurvivalMonths = UnknownSurvival
			rec.out.SurvivalMonthsFlag = FlagDCOAutopsyOnly
			rec.out.SurvivalMonthsPresumedAlive = UnknownSurvival
			rec.out.SurvivalMonthsFlagPresumedAlive = FlagDCOAutopsyOnly
		}
	}

	// Sequenced records get their chronological rank; excluded records follow in
	// their original relative order.
	idx := 0
	for _, rec := range seqRecs {
		rec.out.SortedIndex = idx
		idx++
	}
	for i := range results {
		if results[i].SortedIndex < 0 {
			results[i].SortedIndex = idx
			idx++
		}
	}
	return results
}

// runPolicy performs the imputation and survival calculation for one policy. The
// sequenced records and the DOLC anchor are re-imputed from their original components
// on every call, so the two policy runs stay independent.
func runPolicy(recs []*seqRecord, results []OutputRecord, dolc, birth dateParts, vs, endYear int, presumeAlive bool) {
	dolc = repairDate(dolc)
	birth = repairBirth(birth)
	anchor := &timelineEntry{orig: dolc, imputed: dolc}
	for _, rec := range recs {
		rec.imputed = rec.orig
	}

	tl := &timeline{recs: recs, dolc: anchor, birth: birth}
	tl.imputeDays()
	tl.imputeMonthsAndDays()

	// Only originally unknown diagnosis components surface as imputed output; known
	// components keep the caller's encoding.
	for _, rec := range recs {
		if rec.orig.Month == UnknownMonthDay {
			rec.out.DiagnosisMonth = pad2(rec.imputed.Month)
			rec.out.DiagnosisDay = pad2(rec.imputed.Day)
		} else if rec.orig.Day == UnknownMonthDay {
			rec.out.DiagnosisDay = pad2(rec.imputed.Day)
		}
	}

	// Interpolating a contact date for a patient with no known DOLC year would be
	// meaningless, so the filled components are discarded again.
	if dolc.Year == UnknownYear {
		anchor.imputed.Month = UnknownMonthDay
		anchor.imputed.Day = UnknownMonthDay
	}

	// A DOLC beyond the study cutoff clamps to the end-of-study date.
	if dolc.Year != UnknownYear && dolc.Year > endYear {
		anchor.imputed = dateParts{Year: endYear, Month: endMonth, Day: endDay}
	}
	if anchor.imputed.Year != UnknownYear {
		for i := range results {
			results[i].LastContactYear = pad4(anchor.imputed.Year)
			results[i].LastContactMonth = pad2(anchor.imputed.Month)
			results[i].LastContactDay = pad2(anchor.imputed.Day)
		}
	}

	// Presuming alive, a patient with vital status alive is followed through the
	// end-of-study date regardless of the reported DOLC.
	if presumeAlive && vs == vitalStatusAlive {
		anchor.imputed = dateParts{Year: endYear, Month: endMonth, Day: endDay}
	}
	if anchor.imputed.Year != UnknownYear {
		for i := range results {
			results[i].LastContactYearPresumedAlive = pad4(anchor.imputed.Year)
			results[i].LastContactMonthPresumedAlive = pad2(anchor.imputed.Month)
			results[i].LastContactDayPresumedAlive = pad2(anchor.imputed.Day)
		}
	}

	// When the study cutoff serves as the DOLC, it also serves as the fully known
	// contact date for flag evaluation.
	if anchor.imputed == (dateParts{Year: endYear, Month: endMonth, Day: endDay}) {
		anchor.orig = anchor.imputed
	}

	dolcDate := civil(anchor.imputed.Year, anchor.imputed.Month, anchor.imputed.Day)
	for _, rec := range recs {
		days := daysBetween(civil(rec.imputed.Year, rec.imputed.Month, rec.imputed.Day), dolcDate)
		months := int(math.Floor(float64(days) / daysPerMonth))
		if months < 0 {
			// negative survival cannot occur validly
			months = 9999
		}

		var flag string
		switch {
		case months == 9999:
			flag = FlagUnknown
		case rec.orig.Month == UnknownMonthDay || rec.orig.Day == UnknownMonthDay ||
			anchor.orig.Month == UnknownMonthDay || anchor.orig.Day == UnknownMonthDay:
			if rec.orig.Year == anchor.orig.Year &&
				(rec.orig.Month == anchor.orig.Month || rec.orig.Month == UnknownMonthDay || anchor.orig.Month == UnknownMonthDay) {
				flag = FlagMissingNoSurvivalPossible
			} else {
				flag = FlagMissingSomeSurvival
			}
		case days > 0:
			flag = FlagCompleteSomeSurvival
		default:
			flag = FlagCompleteNoSurvival
		}

		if presumeAlive {
			rec.out.SurvivalMonthsPresumedAlive = pad4(months)
			rec.out.SurvivalMonthsFlagPresumedAlive = flag
		} else {
			rec.out.SurvivalMonths = pad4(months)
			rec.out.SurvivalMonthsFlag = flag
		}
	}

	fixupFlags(recs, presumeAlive)
}

// fixupFlags walks the sequenced records in reverse chronological order. Once a later
// tumor shows some survival, an earlier tumor of the same patient cannot have had
// zero survival, so its "no survival possible" flag is upgraded to "some survival".
func fixupFlags(recs []*seqRecord, presumeAlive bool) {
	someSurvival := false
	for i := len(recs) - 1; i >= 0; i-- {
		out := recs[i].out
		flag := out.SurvivalMonthsFlag
		if presumeAlive {
			flag = out.SurvivalMonthsFlagPresumedAlive
		}
		if flag == FlagCompleteSomeSurvival || flag == FlagMissingSomeSurvival {
			someSurvival = true
		}
		if flag == FlagMissingNoSurvivalPossible && someSurvival {
			if presumeAlive {
				out.SurvivalMonthsFlagPresumedAlive = FlagMissingSomeSurvival
			} else {
				out.SurvivalMonthsFlag = FlagMissingSomeSurvival
			}
		}
	}
}

// invalidPatientResults builds the all-unknown result list for a patient whose
// records disagree on DOLC or vital status.
func invalidPatientResults(n int) []OutputRecord {
	results := make([]OutputRecord, n)
	for i := range results {
		results[i] = OutputRecord{
			DiagnosisYear:                   BlankYear,
			DiagnosisMonth:                  BlankMonth,
			DiagnosisDay:                    BlankDay,
			LastContactYear:                 BlankYear,
			LastContactMonth:                BlankMonth,
			LastContactDay:                  BlankDay,
			LastContactYearPresumedAlive:    BlankYear,
			LastContactMonthPresumedAlive:   BlankMonth,
			LastContactDayPresumedAlive:     BlankDay,
			SurvivalMonths:                  UnknownSurvival,
			SurvivalMonthsFlag:              FlagUnknown,
			SurvivalMonthsPresumedAlive:     UnknownSurvival,
			SurvivalMonthsFlagPresumedAlive: FlagUnknown,
			SortedIndex:                     i,
		}
	}
	return results
}

// unknownResults builds the safety-net result list: unknown survival for every record
// in input order, echoing the reported dates.
func unknownResults(records []InputRecord) []OutputRecord {
	results := make([]OutputRecord, len(records))
	for i := range records {
		in := &records[i]
		results[i] = OutputRecord{
			DiagnosisYear:                   in.DiagnosisYear,
			DiagnosisMonth:                  in.DiagnosisMonth,
			DiagnosisDay:                    in.DiagnosisDay,
			LastContactYear:                 in.LastContactYear,
			LastContactMonth:                in.LastContactMonth,
			LastContactDay:                  in.LastContactDay,
			LastContactYearPresumedAlive:    in.LastContactYear,
			LastContactMonthPresumedAlive:   in.LastContactMonth,
			LastContactDayPresumedAlive:     in.LastContactDay,
			SurvivalMonths:                  UnknownSurvival,
			SurvivalMonthsFlag:              FlagUnknown,
			SurvivalMonthsPresumedAlive:     UnknownSurvival,
			SurvivalMonthsFlagPresumedAlive: FlagUnknown,
			SortedIndex:                     i,
		}
	}
	return results
}

func pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}

func pad4(n int) string {
	return fmt.Sprintf("%04d", n)
}
