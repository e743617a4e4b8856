package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/bundle"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
	"github.com/jayveertalekar0/movie-recommendation-system/pkg/utils"
)

func runPack() {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	catalogPath := fs.String("catalog", "", "catalog file (.csv or .xlsx) with title, language, feature_text columns")
	vectorsPath := fs.String("vectors", "", "vector file (.csv), one row of floats per catalog row")
	outPath := fs.String("out", "movies.bundle", "output bundle path")
	normalize := fs.Bool("normalize", false, "L2-normalize vectors before packing")
	_ = fs.Parse(os.Args[2:])

	if *catalogPath == "" || *vectorsPath == "" {
		fmt.Println("Usage: movierec pack --catalog <file> --vectors <file> [--out <path>] [--normalize]")
		os.Exit(1)
	}

	records, err := readCatalog(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read catalog: %v\n", err)
		os.Exit(1)
	}
	vectors, err := readVectors(*vectorsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read vectors: %v\n", err)
		os.Exit(1)
	}
	if *normalize {
		for _, vec := range vectors {
			utils.NormalizeL2(vec)
		}
	}
	b, err := assembleBundle(records, vectors)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to assemble bundle: %v\n", err)
		os.Exit(1)
	}
	if err := bundle.Write(*outPath, b); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write bundle: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Packed %d movies across %d languages into %s\n",
		len(b.Records), len(b.Partitions), *outPath)
}

// readCatalog reads the catalog table from a CSV or XLSX file. The first row
// is a header; title and language columns are required, feature_text is
// optional.
func readCatalog(path string) ([]models.MovieRecord, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx":
		rows, err = readXLSXRows(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (use .csv or .xlsx)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return rowsToRecords(rows)
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// headerIndex locates the title, language and feature_text columns in the
// header row, case-insensitively. featureIdx is -1 when the column is absent.
func headerIndex(header []string) (titleIdx, langIdx, featureIdx int, err error) {
	titleIdx, langIdx, featureIdx = -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "title", "movie_name":
			titleIdx = i
		case "language":
			langIdx = i
		case "feature_text", "tags", "combined":
			featureIdx = i
		}
	}
	if titleIdx < 0 {
		return 0, 0, 0, fmt.Errorf("catalog header has no title column")
	}
	if langIdx < 0 {
		return 0, 0, 0, fmt.Errorf("catalog header has no language column")
	}
	return titleIdx, langIdx, featureIdx, nil
}

func rowsToRecords(rows [][]string) ([]models.MovieRecord, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("catalog needs a header row and at least one movie")
	}
	titleIdx, langIdx, featureIdx, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}
	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	records := make([]models.MovieRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := models.MovieRecord{
			Title:       cell(row, titleIdx),
			Language:    cell(row, langIdx),
			FeatureText: cell(row, featureIdx),
		}
		if rec.Language == "" {
			return nil, fmt.Errorf("catalog row %d (%q) has no language", i+2, rec.Title)
		}
		records = append(records, rec)
	}
	return records, nil
}

// readVectors reads the vector sidecar: one CSV row of floats per catalog
// row, same order.
func readVectors(path string) ([][]float32, error) {
	rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}
	vectors := make([][]float32, 0, len(rows))
	for i, row := range rows {
		vec, err := parseVectorRow(row)
		if err != nil {
			return nil, fmt.Errorf("vector row %d: %w", i+1, err)
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func parseVectorRow(row []string) ([]float32, error) {
	vec := make([]float32, 0, len(row))
	for _, field := range row {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		f, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return nil, fmt.Errorf("bad float %q: %w", field, err)
		}
		vec = append(vec, float32(f))
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("empty vector")
	}
	return vec, nil
}

// assembleBundle pairs catalog rows with their vectors and groups them into
// per-language partitions, preserving catalog order within each partition.
func assembleBundle(records []models.MovieRecord, vectors [][]float32) (*bundle.Bundle, error) {
	if len(records) != len(vectors) {
		return nil, fmt.Errorf("%d catalog rows but %d vectors", len(records), len(vectors))
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty catalog")
	}
	dim := len(vectors[0])

	partitionOf := make(map[string]*bundle.Partition)
	var order []string
	for i, rec := range records {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i+1, len(vectors[i]), dim)
		}
		p, ok := partitionOf[rec.Language]
		if !ok {
			p = &bundle.Partition{Language: rec.Language, Dim: dim}
			partitionOf[rec.Language] = p
			order = append(order, rec.Language)
		}
		p.Vectors = append(p.Vectors, vectors[i])
	}

	b := &bundle.Bundle{Records: records}
	for _, lang := range order {
		b.Partitions = append(b.Partitions, *partitionOf[lang])
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
