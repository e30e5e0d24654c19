/* Shared helpers for the bedpe-to-clusters tools: flag value types and
compression-aware file readers/writers */

package bedpetoclustersutils

import (
	"bufio"
	"io"
	"os"
	"path"
	"strings"
	"strconv"
	"fmt"
	originalbzip2 "compress/bzip2"
	"github.com/biogo/hts/bgzf"
	"github.com/dsnet/compress/bzip2"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

/*Filename type used to check if files exist when parsed as a flag */
type Filename string

/*Set ... */
func (i *Filename) Set(filename string) error {
	if _, err := os.Stat(filename); err != nil {
		return err
	}

	*i = Filename(filename)
	return nil
}

func (i *Filename) String() string {
	return string(*i)
}

/*ReturnReader Return reader for the file */
func (i *Filename) ReturnReader() (*bufio.Scanner, *os.File, error) {
	return ReturnReader(string(*i))
}

/*ArrayFlags ... */
type ArrayFlags []string

/*String ... */
func (i *ArrayFlags) String() string {
	var str string
	for _, s := range *i {
		str = str + "\t" + s
	}

	return str
}

/*Set ... */
func (i *ArrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

type closer interface {
	Close() error
}

/*Check ... */
func Check(err error) {
	if err != nil {
		panic(err)
	}
}

/*CloseFile close file checking error */
func CloseFile(file closer) {
	err := file.Close()
	Check(err)
}

/*ReturnReader Return a line scanner for a possibly compressed file.
The compression is selected from the extension: .gz (pgzip), .bz2
(stdlib bzip2) or .bgz (blocked gzip). Close the returned *os.File
when done */
func ReturnReader(fname string) (*bufio.Scanner, *os.File, error) {
	reader, fileOpen, err := ReturnRawReader(fname)

	if err != nil {
		return nil, nil, err
	}

	return bufio.NewScanner(reader), fileOpen, nil
}

/*ReturnRawReader Return an uncompressing io.Reader for a file without
the line-scanning layer (used for whole-document decoding) */
func ReturnRawReader(fname string) (io.Reader, *os.File, error) {
	fileOpen, err := os.Open(fname)

	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening %s", fname)
	}

	var reader io.Reader

	switch path.Ext(fname) {
	case ".bz2":
		reader = originalbzip2.NewReader(bufio.NewReader(fileOpen))

	case ".gz":
		reader, err = gzip.NewReader(bufio.NewReader(fileOpen))

	case ".bgz":
		reader, err = bgzf.NewReader(fileOpen, 0)

	default:
		reader = fileOpen
	}

	if err != nil {
		fileOpen.Close()
		return nil, nil, errors.Wrapf(err, "opening compressed stream for %s", fname)
	}

	return reader, fileOpen, nil
}

/*ReturnWriter Return a writer for a possibly compressed file. The
compression is selected from the extension: .gz (pgzip), .bz2 (bzip2)
or .bgz (blocked gzip). Closing the returned writer closes the
underlying file */
func ReturnWriter(fname string) (io.WriteCloser, error) {
	outputFile, err := os.Create(fname)

	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", fname)
	}

	var compressor io.WriteCloser

	switch path.Ext(fname) {
	case ".bz2":
		compressor, err = bzip2.NewWriter(outputFile, new(bzip2.WriterConfig))

	case ".gz":
		compressor = gzip.NewWriter(outputFile)

	case ".bgz":
		compressor = bgzf.NewWriter(outputFile, 0)

	default:
		return outputFile, nil
	}

	if err != nil {
		outputFile.Close()
		return nil, errors.Wrapf(err, "creating compressed stream for %s", fname)
	}

	return &compressedWriter{compressor: compressor, file: outputFile}, nil
}

/*compressedWriter closes the compression layer before the file it wraps */
type compressedWriter struct {
	compressor io.WriteCloser
	file       *os.File
}

func (w *compressedWriter) Write(p []byte) (int, error) {
	return w.compressor.Write(p)
}

func (w *compressedWriter) Close() error {
	if err := w.compressor.Close(); err != nil {
		w.file.Close()
		return err
	}

	return w.file.Close()
}

/*LoadChromSizes load a UCSC-style chrom.sizes file (chromosome name and
length in base pairs, tab-separated) into a map */
func LoadChromSizes(fname Filename) (map[string]int, error) {
	scanner, file, err := fname.ReturnReader()

	if err != nil {
		return nil, err
	}

	defer CloseFile(file)

	chromSizes := make(map[string]int)
	lineNb := 0

	for scanner.Scan() {
		lineNb++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		split := strings.Split(line, "\t")

		if len(split) < 2 {
			return nil, &ParseError{
				Filename: fname.String(),
				Line:     lineNb,
				Reason:   "expected at least 2 tab-separated fields (chromosome and length)",
			}
		}

		length, err := strconv.Atoi(split[1])

		if err != nil {
			return nil, &ParseError{
				Filename: fname.String(),
				Line:     lineNb,
				Reason:   fmt.Sprintf("chromosome length %q is not an integer", split[1]),
			}
		}

		chromSizes[split[0]] = length
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}

	return chromSizes, nil
}
