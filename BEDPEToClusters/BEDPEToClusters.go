/* Tool to convert BEDPE chromatin interaction files into per-chromosome contact-matrix cluster files */

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	utils "github.com/thomasgilgenast/bedpe-to-clusters/BEDPEToClustersUtils"
)

/*BEDPEFILENAMES multiple input bedpe files */
var BEDPEFILENAMES utils.ArrayFlags

/*REGIONFILENAME bed file with regions of interest used to filter anchors */
var REGIONFILENAME utils.Filename

/*FILENAMEOUT output file name template */
var FILENAMEOUT string

/*RESOLUTION contact matrix resolution in base pairs */
var RESOLUTION int

/*THREADNB number of threads for filtering and writing */
var THREADNB int

/*CREATECOO write boolean sparse COO files instead of cluster JSON */
var CREATECOO bool

/*CHROMTAG substring of the output template replaced by each chromosome name */
const CHROMTAG = "{chrom}"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `
#################### MODULE TO CONVERT BEDPE INTERACTION FILES INTO CONTACT MATRIX CLUSTERS ########################

"""Convert a BEDPE file into one cluster JSON file per chromosome at a given matrix resolution"""
USAGE: BEDPEToClusters -bedpe <file> -res <int> (optionnal -out <string> -coo -regions <bedfile> -threads <int>)

One file is written per chromosome seen in the first anchor column. Only intra-chromosomal
(cis) records produce clusters; inter-chromosomal pairs are skipped.

`)
		flag.PrintDefaults()
	}

	flag.Var(&BEDPEFILENAMES, "bedpe", "name of the BEDPE file(s) (plain, .gz, .bz2 or .bgz)")
	flag.IntVar(&RESOLUTION, "res", 0, "contact matrix resolution in base pairs")
	flag.StringVar(&FILENAMEOUT, "out", "",
		"name template of the output files ({chrom} is replaced by the chromosome name)")
	flag.BoolVar(&CREATECOO, "coo", false,
		"write the pixel union of each chromosome as a boolean sparse matrix in COO format")
	flag.Var(&REGIONFILENAME, "regions",
		"name of a bed file with regions of interest; only records with both anchors overlapping a region are kept")
	flag.IntVar(&THREADNB, "threads", 1, "threads concurrency")
	flag.Parse()

	tail := flag.Args()

	if len(tail) > 0 {
		log.Fatal(fmt.Sprintf("Error wrongly formatted arguments: %s \n", tail))
	}

	switch {
	case len(BEDPEFILENAMES) == 0:
		log.Fatal("Error at least one -bedpe file must be provided!\n")
	case RESOLUTION <= 0:
		log.Fatal("Error -res must be a positive number of base pairs!\n")
	case THREADNB < 1:
		log.Fatal("Error -threads must be at least 1!\n")
	}

	FILENAMEOUT = formatOutputTemplate(FILENAMEOUT, CREATECOO)

	tStart := time.Now()
	bedpeToClusterFiles()
	tDiff := time.Since(tStart)
	fmt.Printf("done in time: %f s \n", tDiff.Seconds())
}

/*formatOutputTemplate return the output template to use: the default
one when empty, and a tagged default when the template has no chromosome
placeholder */
func formatOutputTemplate(template string, createCoo bool) string {
	defaultTemplate := fmt.Sprintf("%s_clusters.json", CHROMTAG)

	if createCoo {
		defaultTemplate = fmt.Sprintf("%s_pixels.coo", CHROMTAG)
	}

	switch {
	case template == "":
		return defaultTemplate
	case !strings.Contains(template, CHROMTAG):
		return fmt.Sprintf("%s_%s", template, defaultTemplate)
	}

	return template
}
