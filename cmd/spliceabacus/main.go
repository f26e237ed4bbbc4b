//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
	"git.sr.ht/~vejnar/SpliceAbacus/lib/norm"
)

var version = "DEV"

func main() {
	// Arguments: General
	var pathReport string
	var nWorker, verboseLevel int
	var appendOutput, verbose, printVersion bool
	flag.StringVar(&pathReport, "path_report", "", "Write report to path (stdout with -)")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s)")
	flag.IntVar(&verboseLevel, "verbose_level", 0, "Verbose level")
	flag.BoolVar(&appendOutput, "append", false, "Append to output matrices and vectors (default create)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Annotation
	var pathAnnotationsRaw, namesRaw, formatAnnotation, eventTypeRaw string
	flag.StringVar(&pathAnnotationsRaw, "path_annotation", "", "Path to event annotation file(s), one per condition (comma separated)")
	flag.StringVar(&namesRaw, "name", "", "Condition name(s) (comma separated, default annotation file name)")
	flag.StringVar(&formatAnnotation, "format_annotation", "miso", "Format of annotation: 'miso', 'rmats', 'bed', 'bed12', 'eric' or 'xintao'")
	flag.StringVar(&eventTypeRaw, "event_type", "se", "Event type: 'se', 'a5ss', 'a3ss', 'ri' or 'mxe'")
	// Arguments: Tracks
	var ipPos, ipNeg, inputPos, inputNeg, ipBam, inputBam, libraryR1StrandRaw string
	var minMappingQuality, minOverlap int
	flag.StringVar(&ipPos, "path_ip_pos", "", "Path to IP bedGraph (+ strand)")
	flag.StringVar(&ipNeg, "path_ip_neg", "", "Path to IP bedGraph (- strand)")
	flag.StringVar(&inputPos, "path_input_pos", "", "Path to input bedGraph (+ strand)")
	flag.StringVar(&inputNeg, "path_input_neg", "", "Path to input bedGraph (- strand)")
	flag.StringVar(&ipBam, "path_ip_bam", "", "Path to indexed IP BAM (instead of bedGraph)")
	flag.StringVar(&inputBam, "path_input_bam", "", "Path to indexed input BAM (instead of bedGraph)")
	flag.StringVar(&libraryR1StrandRaw, "read_strand", "", "Read 1 strand, i.e. + (+1) or - (-1) or unstranded if empty")
	flag.IntVar(&minMappingQuality, "read_min_mapping_quality", 0, "Minimum read mapping quality")
	flag.IntVar(&minOverlap, "read_min_overlap", 0, "Minimum overlap of the read with the sampled range")
	// Arguments: Windows
	var exonOffset, intronOffset int
	flag.IntVar(&exonOffset, "exon_offset", 50, "Number of bases sampled into the exon from each boundary")
	flag.IntVar(&intronOffset, "intron_offset", 300, "Number of bases sampled into the intron from each boundary")
	// Arguments: Normalization
	var normalizationRaw string
	var ipPseudocount, inputPseudocount, confidence float64
	flag.StringVar(&normalizationRaw, "normalization", "pdf", "Normalization: 'density', 'input', 'pdf', 'subtract', 'per_region_subtract' or 'entropy'")
	flag.Float64Var(&ipPseudocount, "ip_pseudocount", 0, "IP pseudocount (default from BAM index)")
	flag.Float64Var(&inputPseudocount, "input_pseudocount", 0, "Input pseudocount (default from BAM index)")
	flag.Float64Var(&confidence, "confidence", 0.95, "Fraction of values kept per position for mean and SEM")
	// Arguments: Output
	var outputDir, matrixFormat, pathMapping string
	var noRaw bool
	flag.StringVar(&outputDir, "output_dir", ".", "Output directory")
	flag.StringVar(&matrixFormat, "matrix_format", "csv", "Matrix output format: 'csv' or 'binary', optionally with '+lz4'")
	flag.StringVar(&pathMapping, "path_mapping", "", "Path to event name(s) mapping (tabulated file)")
	flag.BoolVar(&noRaw, "no_raw", false, "Skip writing raw IP and input matrices")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Verbose
	if verbose && verboseLevel == 0 {
		verboseLevel = 1
	}
	switch {
	case verboseLevel > 1:
		log.SetLevel(log.DebugLevel)
	case verboseLevel > 0:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}

	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	// Time start
	timeStart := time.Now()

	// Check arguments
	if len(pathAnnotationsRaw) == 0 {
		log.Fatal("No annotation input")
	}
	var conditions []Condition
	var names []string
	if namesRaw != "" {
		names = strings.Split(namesRaw, ",")
	}
	for i, p := range strings.Split(pathAnnotationsRaw, ",") {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			log.Fatalln(p, "not found")
		}
		c := Condition{Path: p}
		if i < len(names) {
			c.Name = names[i]
		} else {
			c.Name = strings.SplitN(filepath.Base(p), ".", 2)[0]
		}
		conditions = append(conditions, c)
	}
	if len(names) > 0 && len(names) != len(conditions) {
		log.Fatalf("%d names for %d annotation files", len(names), len(conditions))
	}
	if exonOffset < 0 || intronOffset < 0 {
		log.Fatal("Offsets must be positive")
	}
	if !(confidence > 0 && confidence <= 1) {
		log.Fatal("Confidence must be in (0,1]")
	}
	// Annotation parser
	format, err := feature.ParseFormat(formatAnnotation)
	if err != nil {
		log.Fatal(err)
	}
	eventType, err := feature.ParseEventType(eventTypeRaw)
	if err != nil {
		log.Fatal(err)
	}
	parser, err := feature.NewParser(format, eventType)
	if err != nil {
		log.Fatal(err)
	}
	// Normalization
	method, err := norm.ParseMethod(normalizationRaw)
	if err != nil {
		log.Fatal(err)
	}
	// libraryR1Strand
	var libraryR1Strand int8
	if libraryR1StrandRaw != "" {
		s, err := feature.ParseStrand(libraryR1StrandRaw)
		if err != nil {
			log.Fatal(err)
		}
		libraryR1Strand = int8(s)
	}

	// Open tracks
	bamOpts := BamOptions{LibraryR1Strand: libraryR1Strand, MinMappingQuality: byte(minMappingQuality), MinOverlap: minOverlap}
	ip, err := OpenTrack("IP", ipPos, ipNeg, ipBam, ipPseudocount, bamOpts)
	if err != nil {
		log.Fatal(err)
	}
	defer ip.Close()
	log.Infof("%.1fmin - IP track loaded", time.Since(timeStart).Minutes())
	var input *Track
	if method != norm.Density && method != norm.PDF {
		input, err = OpenTrack("input", inputPos, inputNeg, inputBam, inputPseudocount, bamOpts)
		if err != nil {
			log.Fatal(err)
		}
		defer input.Close()
		log.Infof("%.1fmin - Input track loaded", time.Since(timeStart).Minutes())
	}

	// Open event mapping
	var mapping map[string]string
	if pathMapping != "" {
		mapping, err = feature.OpenMapping(pathMapping)
		if err != nil {
			log.Fatal(err)
		}
	}

	// Output directory
	if err := os.MkdirAll(outputDir, 0777); err != nil {
		log.Fatal(err)
	}

	p := Pipeline{
		Parser:       parser,
		IP:           ip,
		Input:        input,
		Inner:        exonOffset,
		Outer:        intronOffset,
		Method:       method,
		Confidence:   confidence,
		OutputDir:    outputDir,
		MatrixFormat: matrixFormat,
		Mapping:      mapping,
		WriteRaw:     !noRaw,
		Append:       appendOutput,
		Workers:      nWorker,
		TimeStart:    timeStart,
	}
	reports := p.Run(conditions)

	// Report
	if pathReport != "" {
		if err := WriteReport(pathReport, reports); err != nil {
			log.Fatal(err)
		}
	}

	var nFailed int
	for _, r := range reports {
		if r.Error != "" {
			nFailed++
		}
	}
	log.Infof("%.1fmin - Done %d condition(s), %d failed", time.Since(timeStart).Minutes(), len(reports), nFailed)
	if nFailed == len(reports) {
		os.Exit(1)
	}
}
