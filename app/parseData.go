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
	"fmt"
	"io"
	"os"

	"survt/survival"
)

//Registry extracts are provided as CSV files with one row per tumor record. Columns
//are addressed through the header row by the survival field vocabulary
//(dateOfDiagnosisYear ... typeOfReportingSource) plus a patientIdNumber column that
//groups the rows into patients. Other columns are ignored. The date and status fields
//are passed to the algorithm as raw strings, so blank and placeholder encodings from
//the registry layout survive the trip.

// PropPatientID is the name of the CSV column that identifies the patient a tumor
// record belongs to.
const PropPatientID = "patientIdNumber"

// PatientRecords groups the tumor records of one patient in file order.
type PatientRecords struct {
	ID      string
	Records []survival.InputRecord
}

// ParseRegistryData parses a registry CSV file into per-patient record bundles.
// Patients keep the order of their first appearance in the file, and the records of a
// patient keep file order, so the computed sortedIndex can be related back to the
// extract.
func ParseRegistryData(file string) []*PatientRecords {
	fmt.Println("Parsing registry records from file: ", file)
	f, err := os.Open(file)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		panic(err)
	}
	columns := map[string]int{}
	for i, name := range header {
		columns[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	patients := []*PatientRecords{}
	index := map[string]*PatientRecords{}
	nofRecords := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(err)
		}
		record := survival.InputRecord{
			DiagnosisYear:    field(row, survival.PropDxYear),
			DiagnosisMonth:   field(row, survival.PropDxMonth),
			DiagnosisDay:     field(row, survival.PropDxDay),
			LastContactYear:  field(row, survival.PropDolcYear),
			LastContactMonth: field(row, survival.PropDolcMonth),
			LastContactDay:   field(row, survival.PropDolcDay),
			BirthYear:        field(row, survival.PropBirthYear),
			BirthMonth:       field(row, survival.PropBirthMonth),
			BirthDay:         field(row, survival.PropBirthDay),
			VitalStatus:      field(row, survival.PropVitalStatus),
			SequenceNumber:   field(row, survival.PropSequenceNumber),
			ReportingSource:  field(row, survival.PropReportingSource),
		}
		pid := field(row, PropPatientID)
		patient, ok := index[pid]
		if !ok {
			patient = &PatientRecords{ID: pid}
			index[pid] = patient
			patients = append(patients, patient)
		}
		patient.Records = append(patient.Records, record)
		nofRecords++
	}
	fmt.Println("Parsed ", nofRecords, " tumor records for ", len(patients), " patients.")
	return patients
}
