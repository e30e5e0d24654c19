/* Contact-matrix clusters: bin ranges, pixel sets, JSON and COO output */

package bedpetoclustersutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

/*Pixel one entry of a contact matrix, identified by its bin indices */
type Pixel struct {
	Row int
	Col int
}

/*Cluster set of pixels belonging to one interaction */
type Cluster map[Pixel]bool

/*ClusterCollection clusters grouped by chromosome name */
type ClusterCollection map[string][]Cluster

/*BinRange rectangle of bin indices covered by one interaction record */
type BinRange struct {
	RowMin int
	RowMax int
	ColMin int
	ColMax int
}

/*InvalidParameterError invalid run parameter */
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

/*SerializationError value that cannot cross the JSON boundary */
type SerializationError struct {
	Value  interface{}
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot serialize %v (%T): %s", e.Value, e.Value, e.Reason)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

/*ToBinRange project the record's base-pair coordinates onto bin indices
at the given resolution. Starts use floor division, ends are exclusive
so the last covered bin is ceilDiv(end, resolution) - 1. A resolution
of zero or less yields an empty range */
func (record InteractionRecord) ToBinRange(resolution int) BinRange {
	if resolution <= 0 {
		return BinRange{RowMax: -1, ColMax: -1}
	}

	return BinRange{
		RowMin: record.Start1 / resolution,
		RowMax: ceilDiv(record.End1, resolution) - 1,
		ColMin: record.Start2 / resolution,
		ColMax: ceilDiv(record.End2, resolution) - 1,
	}
}

/*Expand enumerate every pixel of the bin rectangle */
func (binRange BinRange) Expand() Cluster {
	cluster := make(Cluster)

	for row := binRange.RowMin; row <= binRange.RowMax; row++ {
		for col := binRange.ColMin; col <= binRange.ColMax; col++ {
			cluster[Pixel{Row: row, Col: col}] = true
		}
	}

	return cluster
}

/*BedpeToClusters convert BEDPE records to per-chromosome cluster lists
at the given resolution. Every chromosome seen as chrom1 gets a key;
only cis records (chrom1 == chrom2) contribute clusters, in file order.
Trans records are dropped */
func BedpeToClusters(records []InteractionRecord, resolution int) (ClusterCollection, error) {
	if resolution <= 0 {
		return nil, &InvalidParameterError{
			Param:  "resolution",
			Reason: fmt.Sprintf("must be a positive number of base pairs, found %d", resolution),
		}
	}

	clusters := make(ClusterCollection)

	for _, record := range records {
		if _, isInside := clusters[record.Chrom1]; !isInside {
			clusters[record.Chrom1] = make([]Cluster, 0)
		}

		if record.Chrom1 != record.Chrom2 {
			continue
		}

		binRange := record.ToBinRange(resolution)
		clusters[record.Chrom1] = append(clusters[record.Chrom1], binRange.Expand())
	}

	return clusters, nil
}

/*Chroms return the chromosome names in sorted order */
func (collection ClusterCollection) Chroms() []string {
	chroms := make([]string, 0, len(collection))

	for chrom := range collection {
		chroms = append(chroms, chrom)
	}

	sort.Strings(chroms)

	return chroms
}

func (cluster Cluster) sortedPixels() []Pixel {
	pixels := make([]Pixel, 0, len(cluster))

	for pixel := range cluster {
		pixels = append(pixels, pixel)
	}

	sort.Slice(pixels, func(i int, j int) bool {
		if pixels[i].Row == pixels[j].Row {
			return pixels[i].Col < pixels[j].Col
		}

		return pixels[i].Row < pixels[j].Row
	})

	return pixels
}

/*NormalizeCoord reduce any accepted numeric type to int or float64 for
JSON encoding. Integer widths map to int, floats to float64, and a
json.Number becomes int when integral. Unsupported types and uint64
values above MaxInt64 return a SerializationError */
func NormalizeCoord(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, &SerializationError{Value: value, Reason: "overflows int64"}
		}

		return int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, &SerializationError{Value: value, Reason: "overflows int64"}
		}

		return int(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}

		if f, err := v.Float64(); err == nil {
			return f, nil
		}

		return nil, &SerializationError{Value: value, Reason: "not a number"}
	}

	return nil, &SerializationError{Value: value, Reason: "unsupported type"}
}

/*SaveClusters write a cluster list as nested-array JSON: one array of
[row, col] pairs per cluster, pixels in sorted order, no trailing
newline. A .gz, .bz2 or .bgz extension selects compressed output */
func SaveClusters(clusters []Cluster, fname string) error {
	document := make([][][]interface{}, len(clusters))

	for pos, cluster := range clusters {
		pixels := cluster.sortedPixels()
		document[pos] = make([][]interface{}, len(pixels))

		for pos2, pixel := range pixels {
			row, err := NormalizeCoord(pixel.Row)

			if err != nil {
				return err
			}

			col, err := NormalizeCoord(pixel.Col)

			if err != nil {
				return err
			}

			document[pos][pos2] = []interface{}{row, col}
		}
	}

	encoded, err := json.Marshal(document)

	if err != nil {
		return errors.Wrapf(err, "encoding clusters for %s", fname)
	}

	writer, err := ReturnWriter(fname)

	if err != nil {
		return err
	}

	if _, err = writer.Write(encoded); err != nil {
		writer.Close()
		return errors.Wrapf(err, "writing %s", fname)
	}

	return errors.Wrapf(writer.Close(), "closing %s", fname)
}

/*LoadClusters read a cluster list back from nested-array JSON. Bin
indices must be integral numbers */
func LoadClusters(fname Filename) ([]Cluster, error) {
	reader, file, err := ReturnRawReader(string(fname))

	if err != nil {
		return nil, err
	}

	defer CloseFile(file)

	var document [][][]json.Number

	if err := json.NewDecoder(reader).Decode(&document); err != nil {
		return nil, errors.Wrapf(err, "decoding clusters from %s", fname)
	}

	clusters := make([]Cluster, len(document))

	for pos, pixelList := range document {
		clusters[pos] = make(Cluster)

		for _, pair := range pixelList {
			if len(pair) != 2 {
				return nil, &SerializationError{
					Value:  pair,
					Reason: "pixel must be a [row, col] pair",
				}
			}

			row, err := coordToBinIndex(pair[0])

			if err != nil {
				return nil, err
			}

			col, err := coordToBinIndex(pair[1])

			if err != nil {
				return nil, err
			}

			clusters[pos][Pixel{Row: row, Col: col}] = true
		}
	}

	return clusters, nil
}

func coordToBinIndex(num json.Number) (int, error) {
	normalized, err := NormalizeCoord(num)

	if err != nil {
		return 0, err
	}

	switch v := normalized.(type) {
	case int:
		return v, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}

	return 0, &SerializationError{Value: num, Reason: "bin index must be an integer"}
}

/*ClustersToPixelSet union of the pixels of every cluster in the list */
func ClustersToPixelSet(clusters []Cluster) Cluster {
	pixelSet := make(Cluster)

	for _, cluster := range clusters {
		for pixel := range cluster {
			pixelSet[pixel] = true
		}
	}

	return pixelSet
}

/*WriteClustersToCOOFile write the union pixel set of a cluster list as
boolean COO text: row <tab> col <tab> 1 per unique pixel, sorted */
func WriteClustersToCOOFile(clusters []Cluster, fname string) error {
	writer, err := ReturnWriter(fname)

	if err != nil {
		return err
	}

	var buffer bytes.Buffer

	for _, pixel := range ClustersToPixelSet(clusters).sortedPixels() {
		buffer.WriteString(strconv.Itoa(pixel.Row))
		buffer.WriteRune('\t')
		buffer.WriteString(strconv.Itoa(pixel.Col))
		buffer.WriteString("\t1\n")
	}

	if _, err = writer.Write(buffer.Bytes()); err != nil {
		writer.Close()
		return errors.Wrapf(err, "writing %s", fname)
	}

	return errors.Wrapf(writer.Close(), "closing %s", fname)
}
