package assignment

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"srms_backend/internal/shared"
)

// Service implements the assignment workflow: teacher-authored assignments,
// per-student submissions walking Pending -> Submitted -> Completed, and
// the verification step that folds obtained marks into the student's Result.
type Service struct {
	assignmentsCol *mongo.Collection
	submissionsCol *mongo.Collection
	resultsCol     *mongo.Collection
}

// CreateParams are the inputs for a new assignment.
type CreateParams struct {
	Title       string
	Description string
	Subject     string
	MaxMarks    float64
	TeacherID   string
	DueDate     string
}

// StudentView is an assignment annotated with one student's submission state.
type StudentView struct {
	shared.Assignment
	Status        string   `json:"status"`
	ObtainedMarks *float64 `json:"obtainedMarks"`
}

// StatusSummary is the per-assignment submission rollup.
type StatusSummary struct {
	Assignment    string `json:"assignment"`
	TotalStudents int    `json:"total_students"`
	Submitted     int    `json:"submitted"`
	Completed     int    `json:"completed"`
	Pending       int    `json:"pending"`
}

// Analytics is the workflow-wide rollup.
type Analytics struct {
	TotalAssignments     int     `json:"total_assignments"`
	TotalSubmissions     int     `json:"total_submissions"`
	CompletedRate        float64 `json:"completed_rate"`
	AverageInternalMarks float64 `json:"average_internal_marks"`
}

// NewService creates a new assignment Service instance
func NewService(db *mongo.Database) *Service {
	return &Service{
		assignmentsCol: db.Collection("assignments"),
		submissionsCol: db.Collection("submissions"),
		resultsCol:     db.Collection("results"),
	}
}

// Create stores a new assignment with the creation time stamped.
func (s *Service) Create(ctx context.Context, params CreateParams) (*shared.Assignment, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	assignment := shared.Assignment{
		ID:          shared.GenerateAssignmentID(),
		Title:       params.Title,
		Description: params.Description,
		Subject:     params.Subject,
		MaxMarks:    params.MaxMarks,
		CreatedBy:   params.TeacherID,
		DueDate:     params.DueDate,
		CreatedAt:   time.Now(),
	}

	if _, err := s.assignmentsCol.InsertOne(queryCtx, assignment); err != nil {
		return nil, status.Error(codes.Internal, "failed to create assignment")
	}

	return &assignment, nil
}

// ListForStudent returns every assignment annotated with this student's
// submission status ("Pending" when none exists) and obtained marks.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]StudentView, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.assignmentsCol.Find(queryCtx, bson.M{}, findOptions)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to load assignments")
	}
	defer cursor.Close(queryCtx)

	var assignments []shared.Assignment
	if err := cursor.All(queryCtx, &assignments); err != nil {
		return nil, status.Error(codes.Internal, "failed to decode assignments")
	}

	subCursor, err := s.submissionsCol.Find(queryCtx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to load submissions")
	}
	defer subCursor.Close(queryCtx)

	var submissions []shared.Submission
	if err := subCursor.All(queryCtx, &submissions); err != nil {
		return nil, status.Error(codes.Internal, "failed to decode submissions")
	}

	byAssignment := make(map[string]shared.Submission, len(submissions))
	for _, sub := range submissions {
		byAssignment[sub.AssignmentID] = sub
	}

	views := make([]StudentView, 0, len(assignments))
	for _, a := range assignments {
		view := StudentView{Assignment: a, Status: shared.StatusPending}
		if sub, ok := byAssignment[a.ID]; ok {
			view.Status = sub.Status
			marks := sub.ObtainedMarks
			view.ObtainedMarks = &marks
		}
		views = append(views, view)
	}

	return views, nil
}

// Submit transitions a (assignment, student) pair from no-submission to
// Submitted. A second submit for the same pair is rejected; the unique index
// on the pair backs up the pre-check under concurrency.
func (s *Service) Submit(ctx context.Context, assignmentID, studentID string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"assignment_id": assignmentID, "student_id": studentID}
	count, err := shared.CountDocumentsWithTimeout(ctx, s.submissionsCol, filter, 5*time.Second)
	if err != nil {
		return status.Error(codes.Internal, "database error")
	}
	if count > 0 {
		return status.Error(codes.AlreadyExists, "Already submitted")
	}

	submission := shared.Submission{
		ID:            shared.GenerateSubmissionID(),
		AssignmentID:  assignmentID,
		StudentID:     studentID,
		Status:        shared.StatusSubmitted,
		ObtainedMarks: 0, // set by teacher review
		SubmittedAt:   time.Now(),
	}

	if _, err := s.submissionsCol.InsertOne(queryCtx, submission); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return status.Error(codes.AlreadyExists, "Already submitted")
		}
		return status.Error(codes.Internal, "failed to save submission")
	}

	return nil
}

// Verify transitions a submission from Submitted to Completed, stamping the
// obtained marks and verification time. When a Result document exists for
// the student the marks are folded into its total and the percentage and
// grade recomputed with the subject count stored at ingestion; when none
// exists the result update is skipped. The two writes share no transaction.
func (s *Service) Verify(ctx context.Context, assignmentID, studentID string, obtainedMarks float64) error {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"assignment_id": assignmentID, "student_id": studentID}
	var submission shared.Submission
	if err := s.submissionsCol.FindOne(queryCtx, filter).Decode(&submission); err != nil {
		if err == mongo.ErrNoDocuments {
			return status.Error(codes.NotFound, "Submission not found")
		}
		return status.Error(codes.Internal, "database error")
	}

	_, err := s.submissionsCol.UpdateOne(queryCtx, filter, bson.M{
		"$set": bson.M{
			"status":         shared.StatusCompleted,
			"obtained_marks": obtainedMarks,
			"verified_at":    time.Now(),
		},
	})
	if err != nil {
		return status.Error(codes.Internal, "failed to update submission")
	}

	var result shared.Result
	err = s.resultsCol.FindOne(queryCtx, bson.M{"student_id": studentID}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil // no Result for this student, nothing to fold into
		}
		return status.Error(codes.Internal, "database error")
	}

	newTotal := result.Total + obtainedMarks
	newPercentage := shared.Percentage(newTotal, result.SubjectCount)
	_, err = s.resultsCol.UpdateOne(queryCtx, bson.M{"_id": result.ID}, bson.M{
		"$set": bson.M{
			"total":      newTotal,
			"percentage": newPercentage,
			"grade":      shared.GradeFor(newPercentage),
		},
	})
	if err != nil {
		return status.Error(codes.Internal, "failed to update result")
	}

	return nil
}

// Status returns the submission rollup for one assignment.
func (s *Service) Status(ctx context.Context, assignmentID string) (*StatusSummary, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var assignment shared.Assignment
	err := s.assignmentsCol.FindOne(queryCtx, bson.M{"_id": assignmentID}).Decode(&assignment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "Assignment not found")
		}
		return nil, status.Error(codes.Internal, "database error")
	}

	cursor, err := s.submissionsCol.Find(queryCtx, bson.M{"assignment_id": assignmentID})
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to load submissions")
	}
	defer cursor.Close(queryCtx)

	var submissions []shared.Submission
	if err := cursor.All(queryCtx, &submissions); err != nil {
		return nil, status.Error(codes.Internal, "failed to decode submissions")
	}

	summary := summarize(submissions)
	summary.Assignment = assignment.Title
	return &summary, nil
}

// AnalyticsReport computes the workflow-wide rollup across all assignments
// and submissions.
func (s *Service) AnalyticsReport(ctx context.Context) (*Analytics, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	totalAssignments, err := s.assignmentsCol.CountDocuments(queryCtx, bson.M{})
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to count assignments")
	}

	cursor, err := s.submissionsCol.Find(queryCtx, bson.M{})
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to load submissions")
	}
	defer cursor.Close(queryCtx)

	var submissions []shared.Submission
	if err := cursor.All(queryCtx, &submissions); err != nil {
		return nil, status.Error(codes.Internal, "failed to decode submissions")
	}

	analytics := analyze(submissions)
	analytics.TotalAssignments = int(totalAssignments)
	return &analytics, nil
}

// summarize counts submissions by status. Pending is approximated as
// total - submitted since there is no enrollment roster to count against.
func summarize(submissions []shared.Submission) StatusSummary {
	summary := StatusSummary{TotalStudents: len(submissions)}
	for _, sub := range submissions {
		switch sub.Status {
		case shared.StatusSubmitted:
			summary.Submitted++
		case shared.StatusCompleted:
			summary.Completed++
		}
	}
	summary.Pending = summary.TotalStudents - summary.Submitted
	return summary
}

// analyze derives the completion rate and the mean obtained marks over
// Completed submissions. Both are 0 when there is nothing to average.
func analyze(submissions []shared.Submission) Analytics {
	analytics := Analytics{TotalSubmissions: len(submissions)}

	completedMarks := []float64{}
	for _, sub := range submissions {
		if sub.Status == shared.StatusCompleted {
			completedMarks = append(completedMarks, sub.ObtainedMarks)
		}
	}

	if analytics.TotalSubmissions > 0 {
		rate := float64(len(completedMarks)) / float64(analytics.TotalSubmissions) * 100
		analytics.CompletedRate = shared.Round2(rate)
	}

	if avg, err := stats.Mean(completedMarks); err == nil {
		analytics.AverageInternalMarks = shared.Round2(avg)
	}

	return analytics
}
