/* BEDPE parsing: load paired genomic anchors from tab-separated files */

package bedpetoclustersutils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

/*InteractionRecord one BEDPE row: two genomic anchors with 0-based
half-open coordinates */
type InteractionRecord struct {
	Chrom1 string
	Start1 int
	End1   int
	Chrom2 string
	Start2 int
	End2   int
}

/*ParseError malformed line in an input file */
type ParseError struct {
	Filename string
	Line     int
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s line %d: %s", e.Filename, e.Line, e.Reason)
}

/*LoadBedpe load the first 6 columns of a BEDPE file (chrom1 start1
end1 chrom2 start2 end2). Extra columns are ignored and blank lines
are skipped. Lines are counted from 1 for error reporting */
func LoadBedpe(fname Filename) ([]InteractionRecord, error) {
	scanner, file, err := fname.ReturnReader()

	if err != nil {
		return nil, err
	}

	defer CloseFile(file)

	records := make([]InteractionRecord, 0)
	lineNb := 0

	for scanner.Scan() {
		lineNb++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		record, err := parseBedpeLine(line)

		if err != nil {
			return nil, &ParseError{
				Filename: fname.String(),
				Line:     lineNb,
				Reason:   fmt.Sprintf("%s in row %q", err, line),
			}
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}

	return records, nil
}

func parseBedpeLine(line string) (record InteractionRecord, err error) {
	split := strings.Split(line, "\t")

	if len(split) < 6 {
		err = fmt.Errorf("expected at least 6 tab-separated fields, found %d", len(split))
		return record, err
	}

	record.Chrom1 = split[0]
	record.Chrom2 = split[3]

	record.Start1, err = strconv.Atoi(split[1])

	if err != nil {
		return record, fmt.Errorf("start1 %q is not an integer", split[1])
	}

	record.End1, err = strconv.Atoi(split[2])

	if err != nil {
		return record, fmt.Errorf("end1 %q is not an integer", split[2])
	}

	record.Start2, err = strconv.Atoi(split[4])

	if err != nil {
		return record, fmt.Errorf("start2 %q is not an integer", split[4])
	}

	record.End2, err = strconv.Atoi(split[5])

	if err != nil {
		return record, fmt.Errorf("end2 %q is not an integer", split[5])
	}

	return record, nil
}
