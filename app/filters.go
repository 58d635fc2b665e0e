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

package app

import (
	"strconv"

	"survt/utils"
)

// PatientFilter prescribes a function type for selecting patients before a batch
// computation, e.g. only patients reported dead, or patients without
// death-certificate-only records.
type PatientFilter func(p *PatientRecords) bool

// ApplyPatientFilters keeps the patients that pass all given filters, preserving
// their order.
func ApplyPatientFilters(filters []PatientFilter, patients []*PatientRecords) []*PatientRecords {
	result := []*PatientRecords{}
	for _, patient := range patients {
		keep := true
		for _, filter := range filters {
			if !filter(patient) {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, patient)
		}
	}
	return result
}

// VitalStatusFilter keeps patients whose records report the given vital status code.
func VitalStatusFilter(status string) PatientFilter {
	return func(p *PatientRecords) bool {
		return len(p.Records) > 0 && p.Records[0].VitalStatus == status
	}
}

// AliveFilter keeps patients reported alive.
func AliveFilter() PatientFilter {
	return VitalStatusFilter("1")
}

// DeadFilter keeps patients reported dead.
func DeadFilter() PatientFilter {
	return VitalStatusFilter("0")
}

// DiagnosisYearFilter keeps patients with at least one record whose diagnosis year
// falls in the given range, both years inclusive.
func DiagnosisYearFilter(from, to int) PatientFilter {
	return func(p *PatientRecords) bool {
		for _, record := range p.Records {
			year, err := strconv.Atoi(record.DiagnosisYear)
			if err == nil && year >= from && year <= to {
				return true
			}
		}
		return false
	}
}

// NoDCOFilter removes patients all of whose records were reported by death
// certificate or autopsy only. Such patients can only ever produce the DCO/autopsy
// flag.
func NoDCOFilter() PatientFilter {
	return func(p *PatientRecords) bool {
		for _, record := range p.Records {
			if !utils.MemberString(record.ReportingSource, []string{"6", "7"}) {
				return true
			}
		}
		return false
	}
}
