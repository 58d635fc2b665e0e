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
	"fmt"

	"github.com/valyala/fastrand"

	"survt/survival"
	"survt/utils"
)

//Synthetic registry extracts for smoke runs and benchmarks. The generated records
//follow the shape of a real extract: a patient's records share one DOLC and one vital
//status, date components are partially unknown with registry-like frequencies, days
//stay within 1-28 so every generated date is a real calendar date, and a small
//fraction of records is reported by death certificate or autopsy only.

// SimulatePatients generates a synthetic registry extract of nofPatients patients
// with diagnosis years leading up to endPointYear.
func SimulatePatients(nofPatients, endPointYear int) []*PatientRecords {
	fmt.Println("Simulating a registry extract of ", nofPatients, " patients.")
	patients := make([]*PatientRecords, nofPatients)
	for i := 0; i < nofPatients; i++ {
		patient := &PatientRecords{ID: fmt.Sprintf("P%08d", i)}
		vitalStatus := "0"
		if fastrand.Uint32n(2) > 0 {
			vitalStatus = "1"
		}
		dolcYear := endPointYear - int(fastrand.Uint32n(8))
		dolcY, dolcM, dolcD := simDate(dolcYear)
		if fastrand.Uint32n(20) == 0 {
			// a few patients have no contact date on record at all
			dolcY, dolcM, dolcD = "", "", ""
		}
		birthY, birthM, birthD := simDate(1920 + int(fastrand.Uint32n(60)))
		nofTumors := 1 + int(fastrand.Uint32n(3))
		for t := 0; t < nofTumors; t++ {
			dxYear := utils.MaxInt(1920, dolcYear-int(fastrand.Uint32n(12)))
			dxY, dxM, dxD := simDate(dxYear)
			sequence := fmt.Sprintf("%02d", t)
			if nofTumors > 1 && fastrand.Uint32n(10) == 0 {
				sequence = fmt.Sprintf("%02d", 60+t)
			}
			source := "1"
			if fastrand.Uint32n(25) == 0 {
				source = "6"
			} else if fastrand.Uint32n(50) == 0 {
				source = "7"
			}
			patient.Records = append(patient.Records, survival.InputRecord{
				DiagnosisYear:    dxY,
				DiagnosisMonth:   dxM,
				DiagnosisDay:     dxD,
				LastContactYear:  dolcY,
				LastContactMonth: dolcM,
				LastContactDay:   dolcD,
				BirthYear:        birthY,
				BirthMonth:       birthM,
				BirthDay:         birthD,
				VitalStatus:      vitalStatus,
				SequenceNumber:   sequence,
				ReportingSource:  source,
			})
		}
		patients[i] = patient
	}
	return patients
}

// simDate produces the string fields of a date in the given year. Roughly one in
// eight dates has an unknown day and one in sixteen an unknown month as well.
func simDate(year int) (y, m, d string) {
	y = fmt.Sprintf("%04d", year)
	m = fmt.Sprintf("%02d", 1+fastrand.Uint32n(12))
	d = fmt.Sprintf("%02d", 1+fastrand.Uint32n(28))
	if fastrand.Uint32n(8) == 0 {
		d = "99"
		if fastrand.Uint32n(2) == 0 {
			m = "99"
		}
	}
	return y, m, d
}
