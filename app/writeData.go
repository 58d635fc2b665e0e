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
	"encoding/csv"
	"os"
	"strconv"
)

// WriteSurvivalData writes the computed survival data to a CSV file, one row per
// tumor record, patients in input order and records in each patient's original
// record order.
func WriteSurvivalData(file string, results []*PatientResult) {
	f, err := os.Create(file)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			panic(err)
		}
	}()
	writer := csv.NewWriter(f)
	header := []string{
		PropPatientID, "sortedIndex",
		"survivalTimeDxYear", "survivalTimeDxMonth", "survivalTimeDxDay",
		"survivalTimeDolcYear", "survivalTimeDolcMonth", "survivalTimeDolcDay",
		"survivalTimeDolcYearPresumedAlive", "survivalTimeDolcMonthPresumedAlive", "survivalTimeDolcDayPresumedAlive",
		"survivalMonths", "survivalMonthsFlag",
		"survivalMonthsPresumedAlive", "survivalMonthsFlagPresumedAlive",
	}
	if err := writer.Write(header); err != nil {
		panic(err)
	}
	for _, result := range results {
		for _, record := range result.Records {
			row := []string{
				result.Patient.ID, strconv.Itoa(record.SortedIndex),
				record.DiagnosisYear, record.DiagnosisMonth, record.DiagnosisDay,
				record.LastContactYear, record.LastContactMonth, record.LastContactDay,
				record.LastContactYearPresumedAlive, record.LastContactMonthPresumedAlive, record.LastContactDayPresumedAlive,
				record.SurvivalMonths, record.SurvivalMonthsFlag,
				record.SurvivalMonthsPresumedAlive, record.SurvivalMonthsFlagPresumedAlive,
			}
			if err := writer.Write(row); err != nil {
				panic(err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		panic(err)
	}
}
