package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"srms_backend/internal/shared"
)

// testDB connects to the MongoDB instance named by MONGO_URI. Tests needing
// a live store skip when it is unset.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()

	_ = godotenv.Load("../../.env")
	uri := shared.GetEnv("MONGO_URI", "")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping MongoDB-backed test")
	}

	cfg := shared.MongoConfig{
		URI:            uri,
		Database:       shared.GetEnv("DATABASE_NAME", "srms_test"),
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    10,
		MinPoolSize:    1,
		MaxIdleTime:    30 * time.Second,
	}

	client, db, err := shared.ConnectMongoDB(&cfg)
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	t.Cleanup(func() { shared.DisconnectMongoDB(client) })

	return db
}

func TestAssignmentService_Integration(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := shared.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	svc := NewService(db)
	studentID := shared.GenerateID("test_stu")

	created, err := svc.Create(ctx, CreateParams{
		Title:       "Integration Worksheet",
		Description: "Live store workflow checks",
		Subject:     "Math",
		MaxMarks:    20,
		TeacherID:   "test_teacher",
		DueDate:     "2026-09-30",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Cleanup(func() {
		db.Collection("assignments").DeleteOne(ctx, bson.M{"_id": created.ID})
		db.Collection("submissions").DeleteMany(ctx, bson.M{"student_id": studentID})
		db.Collection("results").DeleteMany(ctx, bson.M{"student_id": studentID})
	})

	seed := shared.Result{
		ID:           shared.GenerateResultID(),
		StudentID:    studentID,
		Subjects:     map[string]float64{"Math": 80, "Science": 70},
		SubjectCount: 2,
		Total:        150,
		Percentage:   75,
		Grade:        "B",
		UploadedAt:   time.Now(),
	}
	if _, err := db.Collection("results").InsertOne(ctx, seed); err != nil {
		t.Fatalf("Failed to seed result: %v", err)
	}

	fetchResult := func(t *testing.T) shared.Result {
		t.Helper()
		var r shared.Result
		if err := db.Collection("results").FindOne(ctx, bson.M{"_id": seed.ID}).Decode(&r); err != nil {
			t.Fatalf("Failed to fetch result: %v", err)
		}
		return r
	}

	t.Run("verify without submission leaves the result untouched", func(t *testing.T) {
		err := svc.Verify(ctx, created.ID, studentID, 10)
		if status.Code(err) != codes.NotFound {
			t.Fatalf("Verify code = %v, want NotFound", status.Code(err))
		}

		r := fetchResult(t)
		if r.Total != 150 || r.Percentage != 75 || r.Grade != "B" {
			t.Errorf("result changed to total=%v pct=%v grade=%q, want 150/75/B", r.Total, r.Percentage, r.Grade)
		}
	})

	t.Run("second submit is rejected with state unchanged", func(t *testing.T) {
		if err := svc.Submit(ctx, created.ID, studentID); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		err := svc.Submit(ctx, created.ID, studentID)
		if status.Code(err) != codes.AlreadyExists {
			t.Fatalf("second Submit code = %v, want AlreadyExists", status.Code(err))
		}

		count, err := db.Collection("submissions").CountDocuments(ctx,
			bson.M{"assignment_id": created.ID, "student_id": studentID})
		if err != nil {
			t.Fatalf("CountDocuments failed: %v", err)
		}
		if count != 1 {
			t.Errorf("submission count = %d, want 1", count)
		}
	})

	t.Run("repeated verification moves total but never the denominator", func(t *testing.T) {
		if err := svc.Verify(ctx, created.ID, studentID, 10); err != nil {
			t.Fatalf("Verify failed: %v", err)
		}

		r := fetchResult(t)
		if r.Total != 160 || r.Percentage != 80.00 || r.SubjectCount != 2 {
			t.Errorf("after first verify: total=%v pct=%v count=%d, want 160/80.00/2", r.Total, r.Percentage, r.SubjectCount)
		}

		if err := svc.Verify(ctx, created.ID, studentID, 10); err != nil {
			t.Fatalf("second Verify failed: %v", err)
		}

		r = fetchResult(t)
		if r.Total != 170 || r.Percentage != 85.00 || r.SubjectCount != 2 {
			t.Errorf("after second verify: total=%v pct=%v count=%d, want 170/85.00/2", r.Total, r.Percentage, r.SubjectCount)
		}
		if r.Grade != "B" {
			t.Errorf("grade = %q, want B", r.Grade)
		}
	})
}

func TestSummarize(t *testing.T) {
	t.Run("mixed statuses", func(t *testing.T) {
		submissions := []shared.Submission{
			{Status: shared.StatusSubmitted},
			{Status: shared.StatusSubmitted},
			{Status: shared.StatusCompleted},
			{Status: shared.StatusCompleted},
			{Status: shared.StatusCompleted},
		}

		summary := summarize(submissions)
		if summary.TotalStudents != 5 {
			t.Errorf("TotalStudents = %d, want 5", summary.TotalStudents)
		}
		if summary.Submitted != 2 {
			t.Errorf("Submitted = %d, want 2", summary.Submitted)
		}
		if summary.Completed != 3 {
			t.Errorf("Completed = %d, want 3", summary.Completed)
		}
		// pending is the documented approximation: total - submitted
		if summary.Pending != 3 {
			t.Errorf("Pending = %d, want 3", summary.Pending)
		}
	})

	t.Run("no submissions", func(t *testing.T) {
		summary := summarize(nil)
		if summary.TotalStudents != 0 || summary.Submitted != 0 || summary.Completed != 0 || summary.Pending != 0 {
			t.Errorf("empty summary = %+v, want all zeros", summary)
		}
	})
}

func TestAnalyze(t *testing.T) {
	t.Run("rates and means over completed only", func(t *testing.T) {
		submissions := []shared.Submission{
			{Status: shared.StatusSubmitted, ObtainedMarks: 0},
			{Status: shared.StatusCompleted, ObtainedMarks: 10},
			{Status: shared.StatusCompleted, ObtainedMarks: 20},
			{Status: shared.StatusCompleted, ObtainedMarks: 15},
		}

		analytics := analyze(submissions)
		if analytics.TotalSubmissions != 4 {
			t.Errorf("TotalSubmissions = %d, want 4", analytics.TotalSubmissions)
		}
		if analytics.CompletedRate != 75.00 {
			t.Errorf("CompletedRate = %v, want 75.00", analytics.CompletedRate)
		}
		if analytics.AverageInternalMarks != 15.00 {
			t.Errorf("AverageInternalMarks = %v, want 15.00", analytics.AverageInternalMarks)
		}
	})

	t.Run("no submissions yields zeros, not division by zero", func(t *testing.T) {
		analytics := analyze(nil)
		if analytics.CompletedRate != 0 {
			t.Errorf("CompletedRate = %v, want 0", analytics.CompletedRate)
		}
		if analytics.AverageInternalMarks != 0 {
			t.Errorf("AverageInternalMarks = %v, want 0", analytics.AverageInternalMarks)
		}
	})

	t.Run("rounding", func(t *testing.T) {
		submissions := []shared.Submission{
			{Status: shared.StatusCompleted, ObtainedMarks: 10},
			{Status: shared.StatusSubmitted},
			{Status: shared.StatusSubmitted},
		}

		analytics := analyze(submissions)
		if analytics.CompletedRate != 33.33 {
			t.Errorf("CompletedRate = %v, want 33.33", analytics.CompletedRate)
		}
	})
}
