package stationstats

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

var testStations = []string{
	"Abha", "Abidjan", "Amman", "amman", "Bulawayo", "Hamburg", "Oslo",
	"Zurich", "Zürich", "İzmir", "St. John's", "Las Palmas de Gran Canaria",
}

// generateInput builds rows of records over the given station names.
// When dirty is set it also mixes in blank lines, CRLF endings and
// malformed records.
func generateInput(rng *rand.Rand, rows int, stations []string, dirty bool) string {
	var sb strings.Builder
	for range rows {
		if dirty {
			switch rng.IntN(20) {
			case 0:
				sb.WriteString("badline\n")
				continue
			case 1:
				sb.WriteString("\n")
				continue
			case 2:
				sb.WriteString(stations[rng.IntN(len(stations))] + ";12.34\n")
				continue
			}
		}
		v := rng.IntN(1999) - 999
		sb.WriteString(stations[rng.IntN(len(stations))])
		sb.WriteByte(';')
		sb.WriteString(strconv.FormatFloat(float64(v)/10, 'f', 1, 64))
		if dirty && rng.IntN(4) == 0 {
			sb.WriteByte('\r')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

var validValue = regexp.MustCompile(`^-?[0-9]+\.[0-9]$`)

// referenceReport computes the report with plain string handling, as an
// oracle for the chunked pipeline.
func referenceReport(input string) string {
	type agg struct {
		min, max, sum, count int64
	}
	m := make(map[string]*agg)
	for _, line := range strings.Split(input, "\n") {
		key, val, ok := strings.Cut(line, ";")
		if !ok {
			continue
		}
		val = strings.TrimSuffix(val, "\r")
		if !validValue.MatchString(val) {
			continue
		}
		n, err := strconv.ParseInt(strings.Replace(val, ".", "", 1), 10, 64)
		if err != nil {
			panic(err)
		}
		a, ok := m[key]
		if !ok {
			m[key] = &agg{min: n, max: n, sum: n, count: 1}
			continue
		}
		a.min = min(a.min, n)
		a.max = max(a.max, n)
		a.sum += n
		a.count++
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		a := m[k]
		mean := fmt.Sprintf("%.1f", float64(a.sum)/(float64(a.count)*10))
		if mean == "-0.0" {
			mean = "0.0"
		}
		parts = append(parts, fmt.Sprintf("%s: %.1f/%s/%.1f",
			k, float64(a.min)/10, mean, float64(a.max)/10))
	}
	return strings.Join(parts, ", ") + "\n"
}

// writeTempFile writes data to a file in a per-test directory.
func writeTempFile(t testing.TB, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measurements.txt")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
