/* Pipeline turning BEDPE records into per-chromosome cluster files */

package main

import (
	"fmt"
	"strings"
	"sync"

	utils "github.com/thomasgilgenast/bedpe-to-clusters/BEDPEToClustersUtils"
)

func bedpeToClusterFiles() {
	records := loadRecords()

	clusters, err := utils.BedpeToClusters(records, RESOLUTION)
	utils.Check(err)

	chroms := clusters.Chroms()
	fmt.Printf("Nb chromosomes: %d\n", len(chroms))

	switch {
	case THREADNB > 1:
		writeClusterFilesThreading(clusters, chroms)
	default:
		writeClusterFiles(clusters, chroms)
	}
}

func loadRecords() []utils.InteractionRecord {
	records := make([]utils.InteractionRecord, 0)

	for _, bedpe := range BEDPEFILENAMES {
		fmt.Printf("Scanning bedpe file: %s...\n", bedpe)

		loaded, err := utils.LoadBedpe(utils.Filename(bedpe))
		utils.Check(err)

		records = append(records, loaded...)
	}

	fmt.Printf("Nb records: %d\n", len(records))

	if REGIONFILENAME == "" {
		return records
	}

	intervalObject, err := utils.CreateRegionIntervalTreeObjectFromFile(REGIONFILENAME)
	utils.Check(err)

	filtered, err := utils.FilterRecordsByRegions(records, intervalObject, THREADNB)
	utils.Check(err)

	fmt.Printf("Nb records kept after region filtering: %d\n", len(filtered))

	return filtered
}

func writeClusterFiles(clusters utils.ClusterCollection, chroms []string) {
	for _, chrom := range chroms {
		writeOneChrom(clusters[chrom], chrom)
	}
}

func writeClusterFilesThreading(clusters utils.ClusterCollection, chroms []string) {
	threadsChannel := make(chan int, THREADNB)

	for i := 0; i < THREADNB; i++ {
		threadsChannel <- i
	}

	var waiting sync.WaitGroup
	waiting.Add(len(chroms))

	for _, chrom := range chroms {
		threadID := <-threadsChannel

		go func(chrom string, threadID int) {
			defer waiting.Done()
			writeOneChrom(clusters[chrom], chrom)
			threadsChannel <- threadID
		}(chrom, threadID)
	}

	waiting.Wait()
}

func writeOneChrom(clusters []utils.Cluster, chrom string) {
	outputfile := strings.ReplaceAll(FILENAMEOUT, CHROMTAG, chrom)

	switch {
	case CREATECOO:
		utils.Check(utils.WriteClustersToCOOFile(clusters, outputfile))
	default:
		utils.Check(utils.SaveClusters(clusters, outputfile))
	}

	fmt.Printf("File: %s written!\n", outputfile)
}
