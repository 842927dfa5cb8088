// ============================================================================
// internal/shared/models.go
// Data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"math"
	"time"
)

// ============================================================================
// User Models
// ============================================================================

// User represents a user account (student, teacher, or admin)
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	Role         string    `bson:"role" json:"role"`       // Student, Teacher, Admin
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Student is the minimal student record behind the stub endpoints.
type Student struct {
	ID        string `bson:"_id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	Course    string `bson:"course" json:"course"`
	ClassName string `bson:"class_name" json:"className"`
}

// ============================================================================
// Result Models
// ============================================================================

// Result is the per-student aggregate marks record produced by a bulk
// upload. StudentID is the natural key from the uploaded table, not a user
// document ID. SubjectCount is captured at ingestion and is the percentage
// denominator for every later recomputation.
type Result struct {
	ID           string             `bson:"_id" json:"id"`
	StudentID    string             `bson:"student_id" json:"StudentID"`
	Subjects     map[string]float64 `bson:"subjects" json:"subjects"`
	SubjectCount int                `bson:"subject_count" json:"subject_count"`
	Total        float64            `bson:"total" json:"Total"`
	Percentage   float64            `bson:"percentage" json:"Percentage"`
	Grade        string             `bson:"grade" json:"Grade"`
	UploadedAt   time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}

// ============================================================================
// Assignment Models
// ============================================================================

// Assignment represents a teacher-authored assignment. Immutable after create.
type Assignment struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Subject     string    `bson:"subject" json:"subject"`
	MaxMarks    float64   `bson:"max_marks" json:"maxMarks"`
	CreatedBy   string    `bson:"created_by" json:"createdBy"`
	DueDate     string    `bson:"due_date" json:"dueDate"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// Submission represents a student's response to an assignment. One document
// per (assignment, student) pair; absence of a document means "Pending".
type Submission struct {
	ID            string    `bson:"_id" json:"id"`
	AssignmentID  string    `bson:"assignment_id" json:"assignmentId"`
	StudentID     string    `bson:"student_id" json:"studentId"`
	Status        string    `bson:"status" json:"status"` // Submitted, Completed
	ObtainedMarks float64   `bson:"obtained_marks" json:"obtainedMarks"`
	SubmittedAt   time.Time `bson:"submitted_at" json:"submittedAt"`
	VerifiedAt    time.Time `bson:"verified_at,omitempty" json:"verifiedAt,omitempty"`
}

// ============================================================================
// Constants
// ============================================================================

const (
	// User roles
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
	RoleAdmin   = "Admin"

	// Submission statuses
	StatusPending   = "Pending" // implicit: no submission document exists
	StatusSubmitted = "Submitted"
	StatusCompleted = "Completed"

	// Each subject column in an uploaded marks table is marked out of 100.
	MarksPerSubject = 100.0
)

// ValidRoles is the fixed set of accepted user roles.
var ValidRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

// IsValidRole checks if a user role is in the fixed set
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ============================================================================
// Grade Derivation Helpers
// ============================================================================

// GradeFor maps a percentage to a letter grade. Thresholds are inclusive:
// >=90 A, >=75 B, >=60 C, else D.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 75:
		return "B"
	case percentage >= 60:
		return "C"
	default:
		return "D"
	}
}

// Percentage derives the percentage from a total over subjectCount subjects,
// rounded to 2 decimals. Returns 0 when subjectCount is 0.
func Percentage(total float64, subjectCount int) float64 {
	if subjectCount <= 0 {
		return 0
	}
	return Round2(total / (float64(subjectCount) * MarksPerSubject) * 100)
}

// Round2 rounds to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
