// Gen writes a synthetic measurements file for stationstats.
//
// Usage:
//
//	go run ./cmd/gen -rows 100000000 -o data/measurements.txt
//
// Flags:
//
//	-rows      Number of records (default: 1,000,000)
//	-stations  Number of distinct keys (default: 413)
//	-seed      RNG seed; equal seeds give identical files (default: 1)
//	-crlf      Terminate records with "\r\n"
//	-o         Output path (default: data/measurements.txt)
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var baseNames = []string{
	"Abha", "Abidjan", "Accra", "Addis Ababa", "Adelaide", "Alexandria",
	"Amman", "Amsterdam", "Anchorage", "Ankara", "Athens", "Auckland",
	"Baghdad", "Bangkok", "Barcelona", "Beirut", "Belgrade", "Bergen",
	"Bratislava", "Bulawayo", "Cairo", "Chișinău", "Córdoba", "Dakar",
	"Dublin", "Hamburg", "İzmir", "Kraków", "Lagos", "Las Palmas de Gran Canaria",
	"Oslo", "Reykjavík", "São Paulo", "St. John's", "Tórshavn", "Zürich",
}

type station struct {
	name string
	mean float64
}

func makeStations(rng *rand.Rand, n int) []station {
	out := make([]station, n)
	for i := range out {
		name := baseNames[i%len(baseNames)]
		if i >= len(baseNames) {
			name += " " + strconv.Itoa(i/len(baseNames))
		}
		out[i] = station{name: name, mean: rng.Float64()*60 - 20}
	}
	return out
}

func main() {
	rows := flag.Int("rows", 1_000_000, "number of records")
	numStations := flag.Int("stations", 413, "number of distinct keys")
	seed := flag.Uint64("seed", 1, "rng seed")
	crlf := flag.Bool("crlf", false, "terminate records with CRLF")
	output := flag.String("o", "data/measurements.txt", "output path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *rows < 0 || *numStations <= 0 {
		logger.Error("rows must be >= 0 and stations > 0")
		os.Exit(2)
	}
	if err := generate(*output, *rows, *numStations, *seed, *crlf, logger); err != nil {
		logger.Error("generate failed", slog.String("output", *output), slog.Any("error", err))
		os.Exit(1)
	}
}

func generate(path string, rows, numStations int, seed uint64, crlf bool, logger *slog.Logger) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	stations := makeStations(rng, numStations)

	eol := []byte("\n")
	if crlf {
		eol = []byte("\r\n")
	}

	start := time.Now()
	w := bufio.NewWriterSize(f, 1<<20)
	var line []byte
	for i := range rows {
		s := &stations[rng.IntN(len(stations))]
		v := max(-99.9, min(99.9, s.mean+rng.NormFloat64()*10))

		line = append(line[:0], s.name...)
		line = append(line, ';')
		line = strconv.AppendFloat(line, v, 'f', 1, 64)
		line = append(line, eol...)
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		if (i+1)%10_000_000 == 0 {
			logger.Info("progress", slog.Int("rows", i+1))
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	logger.Info("done", slog.Int("rows", rows), slog.Int("stations", numStations),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}
