package marks

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"srms_backend/internal/shared"
)

// RenderResultPDF emits a fixed-layout single-page A4 summary for one
// student: StudentID, Total, Percentage and Grade as plain text fields.
func RenderResultPDF(res *shared.Result) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	// A4 is 842pt tall; fields sit at fixed offsets from the top.
	x := 100.0
	y := 92.0
	lines := []string{
		fmt.Sprintf("Student ID: %s", res.StudentID),
		fmt.Sprintf("Total Marks: %g", res.Total),
		fmt.Sprintf("Percentage: %.2f%%", res.Percentage),
		fmt.Sprintf("Grade: %s", res.Grade),
	}
	for _, line := range lines {
		pdf.Text(x, y, line)
		y += 20
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to render PDF: %v", err)
	}
	return buf.Bytes(), nil
}
