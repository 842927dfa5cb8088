package marks

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"srms_backend/internal/shared"
)

// Service implements marks ingestion, per-student PDF reporting and
// store-wide result analytics.
type Service struct {
	config     *shared.Config
	resultsCol *mongo.Collection
}

// Analytics is the store-wide result rollup.
type Analytics struct {
	TotalStudents     int      `json:"total_students"`
	AveragePercentage float64  `json:"average_percentage"`
	TopStudents       []bson.M `json:"top_students"`
}

// NewService creates a new marks Service instance
func NewService(db *mongo.Database, config *shared.Config) *Service {
	return &Service{
		config:     config,
		resultsCol: db.Collection("results"),
	}
}

// Upload parses an uploaded marks table and inserts every row as a new
// Result document. Re-uploading appends; there is no upsert.
func (s *Service) Upload(ctx context.Context, filename string, file io.Reader) (int, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return 0, err
	}

	results, err := ParseMarksTable(file, format)
	if err != nil {
		return 0, err
	}

	docs := make([]interface{}, len(results))
	for i, r := range results {
		docs[i] = r
	}

	queryCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := s.resultsCol.InsertMany(queryCtx, docs); err != nil {
		return 0, status.Error(codes.Internal, "failed to save results")
	}

	return len(results), nil
}

// Download renders the result PDF for one student and persists a copy under
// the configured report directory. Returns the PDF bytes and the download
// filename.
func (s *Service) Download(ctx context.Context, studentID string) ([]byte, string, error) {
	var result shared.Result
	err := shared.FindOneWithTimeout(ctx, s.resultsCol, bson.M{"student_id": studentID}, &result, 5*time.Second)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", status.Error(codes.NotFound, "Result not found")
		}
		return nil, "", status.Error(codes.Internal, "database error")
	}

	pdfBytes, err := RenderResultPDF(&result)
	if err != nil {
		return nil, "", err
	}

	filename := studentID + "_result.pdf"
	if err := os.MkdirAll(s.config.ReportDir, 0o755); err != nil {
		return nil, "", status.Error(codes.Internal, "failed to create report directory")
	}
	if err := os.WriteFile(filepath.Join(s.config.ReportDir, filename), pdfBytes, 0o644); err != nil {
		return nil, "", status.Error(codes.Internal, "failed to write report file")
	}

	return pdfBytes, filename, nil
}

// AnalyticsReport computes the store-wide rollup: student count, average
// percentage and the top 3 students by percentage.
func (s *Service) AnalyticsReport(ctx context.Context) (*Analytics, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.resultsCol.Find(queryCtx, bson.M{})
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to load results")
	}
	defer cursor.Close(queryCtx)

	var docs []bson.M
	if err := cursor.All(queryCtx, &docs); err != nil {
		return nil, status.Error(codes.Internal, "failed to decode results")
	}

	if len(docs) == 0 {
		return nil, status.Error(codes.NotFound, "No results found")
	}

	percentages := normalizePercentages(docs)
	avg, err := stats.Mean(percentages)
	if err != nil {
		avg = 0
	}

	return &Analytics{
		TotalStudents:     len(docs),
		AveragePercentage: shared.Round2(avg),
		TopStudents:       rankTop(docs, 3),
	}, nil
}

// normalizePercentages coerces every document's percentage to a float64,
// writing the normalized value back so ranking and the response agree.
// Non-convertible values become 0. Raw BSON _id and uploaded_at values are
// rewritten to JSON-friendly forms on the way through.
func normalizePercentages(docs []bson.M) []float64 {
	percentages := make([]float64, len(docs))
	for i, doc := range docs {
		if oid, ok := doc["_id"].(primitive.ObjectID); ok {
			doc["_id"] = oid.Hex()
		}
		if ts, err := shared.GetTime(doc["uploaded_at"]); err == nil {
			doc["uploaded_at"] = ts
		}
		p, err := shared.GetFloat64(doc["percentage"])
		if err != nil {
			p = 0
		}
		doc["percentage"] = p
		percentages[i] = p
	}
	return percentages
}

// rankTop returns the n highest-percentage documents, descending. The sort
// is stable so ties keep store iteration order.
func rankTop(docs []bson.M, n int) []bson.M {
	ranked := make([]bson.M, len(docs))
	copy(ranked, docs)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, _ := shared.GetFloat64(ranked[i]["percentage"])
		pj, _ := shared.GetFloat64(ranked[j]["percentage"])
		return pi > pj
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
