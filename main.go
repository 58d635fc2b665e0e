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

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"survt/app"
	"survt/utils"
)

/*
Survt computes the survival time in months for the patients in a cancer registry
extract.

Usage:
	survt recordsFile outputFile [flags]

Example:
	survt records.csv survival.csv --endYear 2020 --pfilters dead --nrOfThreads 8

The flags are:

--endYear nr
	The end point year of the study, also called the study cutoff or current reporting
	year. Diagnosis dates after this year are treated as unknown, and the presumed
	alive calculation follows alive patients through December 31 of this year.
--pfilters alive | dead | dco- | dxYYYY+ | dxYYYY-
	A list of filters for selecting the patients to compute. alive and dead select on
	the reported vital status; dco- removes patients known only through a death
	certificate or an autopsy; dxYYYY+ and dxYYYY- keep patients with a diagnosis in or
	after, respectively in or before, the year YYYY.
--simulate nr
	Instead of reading recordsFile, generate a synthetic extract of nr patients and
	compute that. Useful for smoke runs and benchmarking.
--nrOfThreads nr
	The number of threads survt uses.
*/

const (
	programVersion = "2.2"
	programName    = "survt"
)

func programMessage() string {
	return fmt.Sprint(programName, " version ", programVersion, " compiled with ", runtime.Version())
}

const survtHelp = "\nsurvt parameters:\n" +
	"survt recordsFile outputFile\n" +
	"[--endYear nr]\n" +
	"[--pfilters alive | dead | dco- | dxYYYY+ | dxYYYY-]\n" +
	"[--simulate nr]\n" +
	"[--nrOfThreads nr]\n"

func parseFlags(flags flag.FlagSet, requiredArgs int, help string) {
	if len(os.Args) < requiredArgs {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
	flags.SetOutput(io.Discard)
	if err := flags.Parse(os.Args[requiredArgs:]); err != nil {
		x := 0
		if err != flag.ErrHelp {
			fmt.Fprint(os.Stderr, err)
		}
		fmt.Fprint(os.Stderr, help)
		os.Exit(x)
	}
	if flags.NArg() > 0 {
		fmt.Fprint(os.Stderr, "Cannot parse remaining parameters:", flags.Args())
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
}

func getFileName(s, help string) string {
	switch s {
	case "-h", "--h", "-help", "--help":
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
	return s
}

func getPatientFilter(s string) app.PatientFilter {
	id := func(p *app.PatientRecords) bool { return true }
	switch s {
	case "id":
		return id
	case "alive":
		return app.AliveFilter()
	case "dead":
		return app.DeadFilter()
	case "dco-":
		return app.NoDCOFilter()
	}
	// dxYYYY+ and dxYYYY- select on the diagnosis year
	if strings.HasPrefix(s, "dx") && len(s) == 7 {
		if year, err := strconv.Atoi(s[2:6]); err == nil {
			switch s[6] {
			case '+':
				return app.DiagnosisYearFilter(year, 9998)
			case '-':
				return app.DiagnosisYearFilter(0, year)
			}
		}
	}
	return id
}

func getPatientFilters(f string) []app.PatientFilter {
	fs := strings.Split(f, ",")
	result := []app.PatientFilter{}
	for _, f := range fs {
		result = append(result, getPatientFilter(f))
	}
	return result
}

func main() {
	var (
		// required parameters
		recordsFile string //The file with the registry tumor records.
		outputFile  string //The file where computed survival data is written.
		// optional flags
		endYear     int
		pfilters    string
		simulate    int
		nrOfThreads int
	)
	var flags flag.FlagSet
	// options for the survt command
	flags.IntVar(&endYear, "endYear", time.Now().Year()-1, "The end point year of the study. The presumed "+
		"alive calculation follows alive patients through December 31 of this year.")
	flags.StringVar(&pfilters, "pfilters", "id", "A list of pfilters to restrict computation to specific "+
		"patients.")
	flags.IntVar(&simulate, "simulate", 0, "Generate a synthetic extract of the given number of patients "+
		"instead of reading the records file.")
	flags.IntVar(&nrOfThreads, "nrOfThreads", 0, "The number of threads survt uses.")
	// parse optional arguments
	parseFlags(flags, 3, survtHelp)
	// parse required arguments
	recordsFile = getFileName(os.Args[1], survtHelp)
	outputFile = getFileName(os.Args[2], survtHelp)
	// build an output command line
	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " ", recordsFile, " ", outputFile)
	fmt.Fprint(&command, " --endYear ", endYear)
	fmt.Fprint(&command, " --pfilters ", pfilters)
	if simulate > 0 {
		fmt.Fprint(&command, " --simulate ", simulate)
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nrOfThreads ", nrOfThreads)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	logger.Info(programMessage())
	logger.Info("Executing command", zap.String("command", command.String()))

	//1. Collect the patient records
	var patients []*app.PatientRecords
	if simulate > 0 {
		patients = app.SimulatePatients(simulate, endYear)
	} else {
		patients = app.ParseRegistryData(recordsFile)
	}
	patients = app.ApplyPatientFilters(getPatientFilters(pfilters), patients)
	logger.Info("Computing survival time",
		zap.Int("patients", len(patients)),
		zap.Int("endPointYear", endYear))

	//2. Compute the survival data, parallelized across patients
	start := time.Now()
	results := app.ComputePatients(patients, endYear)
	logger.Info("Computation done", zap.Duration("elapsed", time.Since(start)))

	//3. Write the results
	app.WriteSurvivalData(outputFile, results)
	logger.Info("Wrote survival data", zap.String("file", outputFile))

	//4. Print a summary of the computed flags
	counts := app.FlagCounts(results)
	logger.Info("Survival flag distribution",
		zap.Int("completeNoSurvival", counts["0"]),
		zap.Int("completeSomeSurvival", counts["1"]),
		zap.Int("missingNoSurvivalPossible", counts["2"]),
		zap.Int("missingSomeSurvival", counts["3"]),
		zap.Int("dcoAutopsyOnly", counts["8"]),
		zap.Int("unknown", counts["9"]))
	fmt.Println("Sample of computed patients:")
	for i := 0; i < utils.MinInt(len(results), 5); i++ {
		result := results[i]
		for _, record := range result.Records {
			fmt.Println(result.Patient.ID, " dx ", record.DiagnosisYear, record.DiagnosisMonth,
				record.DiagnosisDay, " months ", record.SurvivalMonths, " flag ", record.SurvivalMonthsFlag)
		}
	}
}
