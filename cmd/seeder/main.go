package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"srms_backend/internal/shared"
)

// Development seeder: drops the database and loads demo accounts, a sample
// assignment, and sample results for each demo student.

const CommonPassword = "password"

type userSeed struct {
	ID    string
	Name  string
	Email string
	Role  string
}

func main() {
	log.Println("Starting SRMS database seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	config, err := shared.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&config.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	if err := db.Drop(context.Background()); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}
	log.Println("Database cleared successfully.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := shared.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	seedUsers(ctx, db, config)
	seedAssignments(ctx, db)
	seedResults(ctx, db)

	log.Println("Seeding complete.")
}

func seedUsers(ctx context.Context, db *mongo.Database, config *shared.Config) {
	hash, err := bcrypt.GenerateFromPassword([]byte(CommonPassword), config.Security.BCryptCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	seeds := []userSeed{
		{"admin-001", "Ada Admin", "admin@example.com", shared.RoleAdmin},
		{"teacher-001", "Tom Teacher", "teacher@example.com", shared.RoleTeacher},
		{"student-001", "Sam Student", "student@example.com", shared.RoleStudent},
		{"student-002", "Sally Scholar", "student2@example.com", shared.RoleStudent},
	}

	users := make([]interface{}, len(seeds))
	for i, seed := range seeds {
		users[i] = shared.User{
			ID:           seed.ID,
			Name:         seed.Name,
			Email:        seed.Email,
			PasswordHash: string(hash),
			Role:         seed.Role,
			CreatedAt:    time.Now(),
		}
	}

	if _, err := db.Collection("users").InsertMany(ctx, users); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Seeded %d users (password: %q)", len(users), CommonPassword)
}

func seedAssignments(ctx context.Context, db *mongo.Database) {
	assignment := shared.Assignment{
		ID:          "asg-demo-001",
		Title:       "Algebra Worksheet 1",
		Description: "Linear equations practice set",
		Subject:     "Math",
		MaxMarks:    20,
		CreatedBy:   "teacher-001",
		DueDate:     "2026-09-15",
		CreatedAt:   time.Now(),
	}

	if _, err := db.Collection("assignments").InsertOne(ctx, assignment); err != nil {
		log.Fatalf("Failed to seed assignment: %v", err)
	}
	log.Println("Seeded 1 assignment")
}

func seedResults(ctx context.Context, db *mongo.Database) {
	rows := []struct {
		StudentID string
		Subjects  map[string]float64
	}{
		{"STU001", map[string]float64{"Math": 80, "Science": 70}},
		{"STU002", map[string]float64{"Math": 95, "Science": 91}},
	}

	results := make([]interface{}, len(rows))
	for i, row := range rows {
		total := 0.0
		for _, mark := range row.Subjects {
			total += mark
		}
		percentage := shared.Percentage(total, len(row.Subjects))
		results[i] = shared.Result{
			ID:           shared.GenerateResultID(),
			StudentID:    row.StudentID,
			Subjects:     row.Subjects,
			SubjectCount: len(row.Subjects),
			Total:        total,
			Percentage:   percentage,
			Grade:        shared.GradeFor(percentage),
			UploadedAt:   time.Now(),
		}
	}

	if _, err := db.Collection("results").InsertMany(ctx, results); err != nil {
		log.Fatalf("Failed to seed results: %v", err)
	}
	log.Printf("Seeded %d results", len(results))
}
