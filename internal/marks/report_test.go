package marks

import (
	"bytes"
	"testing"
	"time"

	"srms_backend/internal/shared"
)

func TestRenderResultPDF(t *testing.T) {
	result := &shared.Result{
		ID:           "res_test",
		StudentID:    "STU001",
		Subjects:     map[string]float64{"Math": 80, "Sci": 70},
		SubjectCount: 2,
		Total:        150,
		Percentage:   75.00,
		Grade:        "B",
		UploadedAt:   time.Now(),
	}

	pdfBytes, err := RenderResultPDF(result)
	if err != nil {
		t.Fatalf("RenderResultPDF failed: %v", err)
	}

	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
	if len(pdfBytes) < 500 {
		t.Errorf("PDF suspiciously small: %d bytes", len(pdfBytes))
	}
}
