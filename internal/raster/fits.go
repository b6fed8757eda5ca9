package raster

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const (
	fitsCardSize   = 80
	fitsBlockCards = 36

	// maxFITSSamples bounds width*height*bands before any data buffer is
	// allocated from header values.
	maxFITSSamples = 1 << 28
)

// FITS is a raster read from the primary HDU of a FITS file.
//
// A 2-axis HDU yields a single band. A 3-axis HDU yields NAXIS3 bands, each
// NAXIS2 rows by NAXIS1 columns. Rows are kept in file order.
type FITS struct {
	*Memory

	// Header holds the parsed header cards keyed by upper-case keyword.
	// String values are unquoted, logical values are "True" or "False".
	Header map[string]string

	// Bitpix is the on-disk sample format (8, 16, 32, -32 or -64).
	Bitpix int
}

// OpenFITS reads a FITS file from disk.
func OpenFITS(path string) (*FITS, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FITS file: %w", err)
	}
	defer f.Close()
	return ReadFITS(f)
}

// ReadFITS reads the primary HDU of a FITS stream.
//
// Supported BITPIX values are 8 (unsigned), 16 and 32 (signed integers), -32
// and -64 (IEEE floats). BZERO and BSCALE are applied to every sample.
func ReadFITS(r io.Reader) (*FITS, error) {
	br := bufio.NewReader(r)

	header, err := readFITSHeader(br)
	if err != nil {
		return nil, err
	}

	bitpix, err := headerInt(header, "BITPIX")
	if err != nil {
		return nil, err
	}
	naxis, err := headerInt(header, "NAXIS")
	if err != nil {
		return nil, err
	}
	if naxis != 2 && naxis != 3 {
		return nil, fmt.Errorf("unsupported FITS NAXIS=%d (want 2 or 3)", naxis)
	}
	width, err := headerInt(header, "NAXIS1")
	if err != nil {
		return nil, err
	}
	height, err := headerInt(header, "NAXIS2")
	if err != nil {
		return nil, err
	}
	bands := 1
	if naxis == 3 {
		if bands, err = headerInt(header, "NAXIS3"); err != nil {
			return nil, err
		}
	}
	if width <= 0 || height <= 0 || bands <= 0 {
		return nil, fmt.Errorf("invalid FITS dimensions: NAXIS1=%d, NAXIS2=%d, bands=%d", width, height, bands)
	}
	if width > maxFITSSamples/height || width*height > maxFITSSamples/bands {
		return nil, fmt.Errorf("FITS data too large: NAXIS1=%d, NAXIS2=%d, bands=%d exceeds %d samples",
			width, height, bands, maxFITSSamples)
	}

	bzero := headerFloat(header, "BZERO", 0)
	bscale := headerFloat(header, "BSCALE", 1)

	decode, size, err := sampleDecoder(bitpix)
	if err != nil {
		return nil, err
	}

	planes := make([]*mat.Dense, bands)
	raw := make([]byte, width*height*size)
	for b := 0; b < bands; b++ {
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("reading FITS band %d: %w", b+1, err)
		}
		data := make([]float64, width*height)
		for i := range data {
			data[i] = decode(raw[i*size:])*bscale + bzero
		}
		planes[b] = mat.NewDense(height, width, data)
	}

	m, err := NewMemory(planes...)
	if err != nil {
		return nil, err
	}
	return &FITS{Memory: m, Header: header, Bitpix: bitpix}, nil
}

// readFITSHeader consumes header blocks up to and including the one holding
// the END card.
func readFITSHeader(r io.Reader) (map[string]string, error) {
	header := make(map[string]string)
	card := make([]byte, fitsCardSize)

	for {
		done := false
		for i := 0; i < fitsBlockCards; i++ {
			if _, err := io.ReadFull(r, card); err != nil {
				return nil, fmt.Errorf("reading FITS header card: %w", err)
			}
			if done {
				continue
			}

			record := string(card)
			keyword := strings.ToUpper(strings.TrimSpace(record[:8]))
			if keyword == "END" {
				done = true
				continue
			}
			if keyword == "" || record[8] != '=' || record[9] != ' ' {
				continue
			}
			if v := parseFITSValue(record[10:]); v != "" {
				header[keyword] = v
			}
		}
		if done {
			return header, nil
		}
	}
}

// parseFITSValue strips the inline comment and decodes quoted strings and
// logical values. Inside a string two consecutive single quotes stand for one.
func parseFITSValue(field string) string {
	field = strings.TrimSpace(field)
	if strings.HasPrefix(field, "'") {
		var sb strings.Builder
		for i := 1; i < len(field); i++ {
			if field[i] == '\'' {
				if i+1 < len(field) && field[i+1] == '\'' {
					sb.WriteByte('\'')
					i++
					continue
				}
				break
			}
			sb.WriteByte(field[i])
		}
		return strings.TrimRight(sb.String(), " ")
	}

	field = strings.TrimSpace(strings.SplitN(field, "/", 2)[0])
	switch field {
	case "T":
		return "True"
	case "F":
		return "False"
	}
	return field
}

func headerInt(header map[string]string, key string) (int, error) {
	v, ok := header[key]
	if !ok {
		return 0, fmt.Errorf("FITS header missing %s", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("FITS header %s=%q: %w", key, v, err)
	}
	return n, nil
}

func headerFloat(header map[string]string, key string, def float64) float64 {
	v, ok := header[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// sampleDecoder returns the big-endian decoder and byte width for a BITPIX.
func sampleDecoder(bitpix int) (func([]byte) float64, int, error) {
	switch bitpix {
	case 8:
		return func(b []byte) float64 { return float64(b[0]) }, 1, nil
	case 16:
		return func(b []byte) float64 { return float64(int16(binary.BigEndian.Uint16(b))) }, 2, nil
	case 32:
		return func(b []byte) float64 { return float64(int32(binary.BigEndian.Uint32(b))) }, 4, nil
	case -32:
		return func(b []byte) float64 { return float64(math.Float32frombits(binary.BigEndian.Uint32(b))) }, 4, nil
	case -64:
		return func(b []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b)) }, 8, nil
	default:
		return nil, 0, fmt.Errorf("unsupported BITPIX: %d", bitpix)
	}
}
