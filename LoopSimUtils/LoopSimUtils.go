/* Suite of functions dedicated to generate simulated BEDPE chromatin interaction files */

package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	utils "github.com/thomasgilgenast/bedpe-to-clusters/BEDPEToClustersUtils"
	"github.com/valyala/fastrand"
)

/*CHRSIZEFILENAME chromosome sizes file (chromosome and length, tab-separated) */
var CHRSIZEFILENAME utils.Filename

/*FILENAMEOUT output file name output */
var FILENAMEOUT string

/*LOOPNB Number of loops to generate per chromosome */
var LOOPNB int

/*MAXBINS maximum anchor span in bins */
var MAXBINS int

/*RESOLUTION contact matrix resolution in base pairs used to align anchors */
var RESOLUTION int

/*TRANSPROB fraction of trans (inter-chromosomal) pairs */
var TRANSPROB float64

/*SEED Seed used for random processes */
var SEED int

/*SIMULATELOOPS Simulate a BEDPE loop file using a chromosome sizes file */
var SIMULATELOOPS bool

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `
#################### MODULE TO CREATE SIMULATED BEDPE CHROMATIN LOOP FILES ########################

USAGE: LoopSimUtils -simulate -chrsize <file> -res <int> (-nb <int> -maxbins <int> -trans <float> -seed <int> -out <string>)

Anchors are aligned on matrix bins, so a simulated file converts without partial bin overlaps.

`)
		flag.PrintDefaults()
	}

	flag.Var(&CHRSIZEFILENAME, "chrsize", "name of the chromosome sizes file (chromosome<tab>length)")
	flag.IntVar(&RESOLUTION, "res", 10000, "contact matrix resolution in base pairs")
	flag.IntVar(&LOOPNB, "nb", 1000, "Number of loops to generate per chromosome")
	flag.IntVar(&MAXBINS, "maxbins", 5, "Maximum anchor span in bins")
	flag.Float64Var(&TRANSPROB, "trans", 0, "fraction of trans (inter-chromosomal) pairs")
	flag.IntVar(&SEED, "seed", 2019, "Seed used for random processes")
	flag.StringVar(&FILENAMEOUT, "out", "simulated_loops.bedpe", "name of the output file")
	flag.BoolVar(&SIMULATELOOPS, "simulate", false, `Simulate BEDPE loop files`)
	flag.Parse()

	switch {
	case SIMULATELOOPS:
		switch {
		case CHRSIZEFILENAME == "":
			log.Fatal("Error -chrsize file must be provided!\n")
		case RESOLUTION <= 0:
			log.Fatal("Error -res must be a positive number of base pairs!\n")
		case MAXBINS < 1:
			log.Fatal("Error -maxbins must be at least 1!\n")
		case TRANSPROB < 0 || TRANSPROB > 1:
			log.Fatal("Error -trans must be between 0 and 1!\n")
		}

		simulateLoopFile()
	default:
		fmt.Printf("USAGE: LoopSimUtils -simulate -chrsize <file> -res <int> (-nb <int> -maxbins <int> -trans <float> -seed <int> -out <string>)\n")
	}
}

func simulateLoopFile() {
	tStart := time.Now()

	chromSizes, err := utils.LoadChromSizes(CHRSIZEFILENAME)
	utils.Check(err)

	chroms := usableChroms(chromSizes)

	if len(chroms) == 0 {
		log.Fatal("Error no chromosome from the size file is at least one bin long!\n")
	}

	rand.Seed(int64(SEED))

	writer, err := utils.ReturnWriter(FILENAMEOUT)
	utils.Check(err)

	defer utils.CloseFile(writer)

	var buffer bytes.Buffer

	count := 0

	for _, chrom := range chroms {
		for i := 0; i < LOOPNB; i++ {
			chrom2 := chrom

			if TRANSPROB > 0 && len(chroms) > 1 {
				randNum := float64(fastrand.Uint32n(1000000)) / 1000000.0

				if randNum < TRANSPROB {
					for chrom2 == chrom {
						chrom2 = chroms[rand.Intn(len(chroms))]
					}
				}
			}

			start1, end1 := randomAnchor(chromSizes[chrom])
			start2, end2 := randomAnchor(chromSizes[chrom2])

			buffer.WriteString(chrom)
			buffer.WriteRune('\t')
			buffer.WriteString(strconv.Itoa(start1))
			buffer.WriteRune('\t')
			buffer.WriteString(strconv.Itoa(end1))
			buffer.WriteRune('\t')
			buffer.WriteString(chrom2)
			buffer.WriteRune('\t')
			buffer.WriteString(strconv.Itoa(start2))
			buffer.WriteRune('\t')
			buffer.WriteString(strconv.Itoa(end2))
			buffer.WriteRune('\n')

			_, err = writer.Write(buffer.Bytes())
			utils.Check(err)

			buffer.Reset()
			count++
		}
	}

	fmt.Printf("Nb loops: %d\n", count)
	fmt.Printf("File: %s written!\n", FILENAMEOUT)

	tDiff := time.Since(tStart)
	fmt.Printf("Simulating loops done in time: %f s \n", tDiff.Seconds())
}

/*usableChroms return the sorted chromosomes spanning at least one full bin */
func usableChroms(chromSizes map[string]int) []string {
	chroms := make([]string, 0, len(chromSizes))

	for chrom, size := range chromSizes {
		if size/RESOLUTION < 1 {
			continue
		}

		chroms = append(chroms, chrom)
	}

	sort.Strings(chroms)

	return chroms
}

/*randomAnchor draw a bin-aligned anchor inside the chromosome: a span
of 1 to MAXBINS bins (capped by the chromosome length) at a random
bin offset */
func randomAnchor(chromSize int) (start, end int) {
	nbBins := chromSize / RESOLUTION

	span := 1 + rand.Intn(MAXBINS)

	if span > nbBins {
		span = nbBins
	}

	startBin := rand.Intn(nbBins - span + 1)

	start = startBin * RESOLUTION
	end = (startBin + span) * RESOLUTION

	return start, end
}
