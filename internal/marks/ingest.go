package marks

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"srms_backend/internal/shared"
)

// Format identifies a supported upload file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// StudentIDColumn is the required key column of every marks table.
const StudentIDColumn = "StudentID"

// DetectFormat maps an uploaded filename to a supported format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", status.Error(codes.InvalidArgument, "Only Excel or CSV files allowed")
	}
}

// ParseMarksTable reads an uploaded marks table into Result documents.
// The first row is the header; every non-StudentID column is a subject
// marked out of 100. Total, Percentage and Grade are derived per row, and
// the subject count is captured so later recomputations share the same
// percentage denominator.
func ParseMarksTable(r io.Reader, format Format) ([]shared.Result, error) {
	var (
		rows [][]string
		err  error
	)

	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		return nil, status.Error(codes.InvalidArgument, "unsupported upload format")
	}
	if err != nil {
		return nil, err
	}

	return buildResults(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to read CSV file: %v", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to read Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, status.Error(codes.InvalidArgument, "Excel file contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to read Excel sheet: %v", err)
	}
	return rows, nil
}

func buildResults(rows [][]string) ([]shared.Result, error) {
	if len(rows) == 0 {
		return nil, status.Error(codes.InvalidArgument, "uploaded file is empty")
	}

	header := rows[0]
	idIdx := -1
	subjectIdx := map[int]string{}
	seen := map[string]bool{}
	for i, col := range header {
		name := strings.TrimSpace(col)
		if name == "" {
			continue
		}
		if name == StudentIDColumn {
			idIdx = i
			continue
		}
		// A repeated subject column would double-count in Total while
		// collapsing to one key in the subjects map.
		if seen[name] {
			return nil, status.Errorf(codes.InvalidArgument, "duplicate subject column %q", name)
		}
		seen[name] = true
		subjectIdx[i] = name
	}

	if idIdx == -1 {
		return nil, status.Error(codes.InvalidArgument, "Missing StudentID column")
	}
	if len(rows) < 2 {
		return nil, status.Error(codes.InvalidArgument, "uploaded file has no data rows")
	}

	now := time.Now()
	results := make([]shared.Result, 0, len(rows)-1)
	for rowNum, row := range rows[1:] {
		if idIdx >= len(row) || strings.TrimSpace(row[idIdx]) == "" {
			return nil, status.Errorf(codes.InvalidArgument, "missing StudentID in row %d", rowNum+2)
		}
		studentID := strings.TrimSpace(row[idIdx])

		subjects := make(map[string]float64, len(subjectIdx))
		total := 0.0
		for i, subject := range subjectIdx {
			// Missing trailing cells count as zero marks.
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			mark := 0.0
			if cell != "" {
				var err error
				mark, err = strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, status.Errorf(codes.InvalidArgument,
						"invalid mark %q for %s in row %d", cell, subject, rowNum+2)
				}
			}
			subjects[subject] = mark
			total += mark
		}

		percentage := shared.Percentage(total, len(subjectIdx))
		results = append(results, shared.Result{
			ID:           shared.GenerateResultID(),
			StudentID:    studentID,
			Subjects:     subjects,
			SubjectCount: len(subjectIdx),
			Total:        total,
			Percentage:   percentage,
			Grade:        shared.GradeFor(percentage),
			UploadedAt:   now,
		})
	}

	return results, nil
}
