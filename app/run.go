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
	"github.com/exascience/pargo/parallel"

	"survt/survival"
)

// PatientResult pairs a patient with the survival data computed for its tumor
// records, in the patient's original record order.
type PatientResult struct {
	Patient *PatientRecords
	Records []survival.OutputRecord
}

// ComputePatients runs the survival time computation for all given patients. Patients
// are fully independent, so the batch is parallelized across patients; a single
// patient's computation is never split up.
func ComputePatients(patients []*PatientRecords, endPointYear int) []*PatientResult {
	results := make([]*PatientResult, len(patients))
	parallel.Range(0, len(patients), 0, func(low, high int) {
		for i := low; i < high; i++ {
			results[i] = &PatientResult{
				Patient: patients[i],
				Records: survival.ComputeSurvival(patients[i].Records, endPointYear),
			}
		}
	})
	return results
}

// FlagCounts tallies the reported-DOLC survival flag distribution over all computed
// records, for the batch summary.
func FlagCounts(results []*PatientResult) map[string]int {
	counts := map[string]int{}
	for _, result := range results {
		for _, record := range result.Records {
			counts[record.SurvivalMonthsFlag]++
		}
	}
	return counts
}
