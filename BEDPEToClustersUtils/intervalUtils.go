/* Region filtering: per-chromosome interval trees built from a BED file,
used to restrict BEDPE records to anchors overlapping regions of interest */

package bedpetoclustersutils

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/biogo/store/interval"
	"github.com/jinzhu/copier"
)

/*IntInterval Integer-specific intervals */
type IntInterval struct {
	Start, End int
	UID        uintptr
}

/*Overlap rule for two Interval */
func (i IntInterval) Overlap(b interval.IntRange) bool {
	return i.End >= b.Start && i.Start <= b.End
}

/*ID Return the ID of Interval */
func (i IntInterval) ID() uintptr {
	return i.UID
}

/*Range Return the range of Interval */
func (i IntInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.Start, End: i.End}
}

/*String Return the string rep of Interval */
func (i IntInterval) String() string {
	return fmt.Sprintf("(%d, %d) id: %d", i.Start, i.End, i.ID())
}

/*RegionIntervalTreeObject region interval trees per chromosome */
type RegionIntervalTreeObject struct {
	Chrintervaldict map[string]*interval.IntTree
	RegionNb        int
}

/*CreateRegionIntervalTreeObjectFromFile load a BED file (chrom start
end, extra columns ignored) into per-chromosome interval trees */
func CreateRegionIntervalTreeObjectFromFile(bedfile Filename) (
	intervalObject RegionIntervalTreeObject, err error) {

	scanner, file, err := bedfile.ReturnReader()

	if err != nil {
		return intervalObject, err
	}

	defer CloseFile(file)

	fmt.Printf("create region interval tree...\n")
	tStart := time.Now()

	intervalObject.Chrintervaldict = make(map[string]*interval.IntTree)

	var isInside bool

	lineNb := 0
	count := 0

	for scanner.Scan() {
		lineNb++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		split := strings.Split(line, "\t")

		if len(split) < 3 {
			return intervalObject, &ParseError{
				Filename: bedfile.String(),
				Line:     lineNb,
				Reason:   "expected at least 3 tab-separated fields (chrom start end)",
			}
		}

		start, err1 := strconv.Atoi(split[1])
		end, err2 := strconv.Atoi(split[2])

		if err1 != nil || err2 != nil {
			return intervalObject, &ParseError{
				Filename: bedfile.String(),
				Line:     lineNb,
				Reason:   fmt.Sprintf("region %q cannot be used as chr int int", line),
			}
		}

		inter := IntInterval{Start: start, End: end}
		inter.UID = uintptr(count)

		if _, isInside = intervalObject.Chrintervaldict[split[0]]; !isInside {
			intervalObject.Chrintervaldict[split[0]] = &interval.IntTree{}
		}

		if err := intervalObject.Chrintervaldict[split[0]].Insert(inter, false); err != nil {
			return intervalObject, err
		}

		count++
	}

	if err := scanner.Err(); err != nil {
		return intervalObject, err
	}

	intervalObject.RegionNb = count

	tDiff := time.Since(tStart)
	fmt.Printf("create region index done in time: %f s \n", tDiff.Seconds())

	return intervalObject, nil
}

/*CopyForThreads copy the interval trees once per thread so workers can
query without locking */
func (intervalObject *RegionIntervalTreeObject) CopyForThreads(threadnb int) (
	map[int]map[string]*interval.IntTree, error) {

	treesPerThread := make(map[int]map[string]*interval.IntTree)

	for i := 0; i < threadnb; i++ {
		treesPerThread[i] = make(map[string]*interval.IntTree)

		for chrom, tree := range intervalObject.Chrintervaldict {
			treesPerThread[i][chrom] = &interval.IntTree{}
			err := copier.Copy(treesPerThread[i][chrom], tree)

			if err != nil {
				return nil, err
			}
		}
	}

	return treesPerThread, nil
}

/*FilterRecordsByRegions keep the records whose two anchors each overlap
at least one region. With threadnb > 1 the records are chunked across
goroutines, each querying its own tree copies; record order is
preserved either way */
func FilterRecordsByRegions(records []InteractionRecord,
	intervalObject RegionIntervalTreeObject, threadnb int) ([]InteractionRecord, error) {

	if threadnb <= 1 {
		return filterRecordsChunk(records, intervalObject.Chrintervaldict), nil
	}

	treesPerThread, err := intervalObject.CopyForThreads(threadnb)

	if err != nil {
		return nil, err
	}

	chunk := len(records) / threadnb
	results := make([][]InteractionRecord, threadnb)

	var waiting sync.WaitGroup
	waiting.Add(threadnb)

	for i := 0; i < threadnb; i++ {
		begin := i * chunk
		end := (i + 1) * chunk

		if i == threadnb-1 {
			end = len(records)
		}

		go func(thread int, records []InteractionRecord) {
			defer waiting.Done()
			results[thread] = filterRecordsChunk(records, treesPerThread[thread])
		}(i, records[begin:end])
	}

	waiting.Wait()

	kept := make([]InteractionRecord, 0, len(records))

	for _, result := range results {
		kept = append(kept, result...)
	}

	return kept, nil
}

func filterRecordsChunk(records []InteractionRecord,
	trees map[string]*interval.IntTree) []InteractionRecord {

	kept := make([]InteractionRecord, 0, len(records))

	for _, record := range records {
		if !anchorOverlapsRegion(trees, record.Chrom1, record.Start1, record.End1) {
			continue
		}

		if !anchorOverlapsRegion(trees, record.Chrom2, record.Start2, record.End2) {
			continue
		}

		kept = append(kept, record)
	}

	return kept
}

func anchorOverlapsRegion(trees map[string]*interval.IntTree,
	chrom string, start, end int) bool {

	tree, isInside := trees[chrom]

	if !isInside {
		return false
	}

	return len(tree.Get(IntInterval{Start: start, End: end})) > 0
}
