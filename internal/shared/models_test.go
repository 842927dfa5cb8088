package shared

import "testing"

func TestGradeFor(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{100, "A"},
		{90, "A"},
		{89.99, "B"},
		{75, "B"},
		{74.99, "C"},
		{60, "C"},
		{59.99, "D"},
		{0, "D"},
	}

	for _, tt := range tests {
		if got := GradeFor(tt.percentage); got != tt.want {
			t.Errorf("GradeFor(%v) = %q, want %q", tt.percentage, got, tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	t.Run("two subjects", func(t *testing.T) {
		// Math=80 + Sci=70 over 2 subjects out of 100 each
		if got := Percentage(150, 2); got != 75.00 {
			t.Errorf("Percentage(150, 2) = %v, want 75.00", got)
		}
	})

	t.Run("rounding", func(t *testing.T) {
		if got := Percentage(100, 3); got != 33.33 {
			t.Errorf("Percentage(100, 3) = %v, want 33.33", got)
		}
	})

	t.Run("zero subjects", func(t *testing.T) {
		if got := Percentage(150, 0); got != 0 {
			t.Errorf("Percentage(150, 0) = %v, want 0", got)
		}
	})

	t.Run("total can exceed the subject ceiling", func(t *testing.T) {
		// Verified internal marks push the total past subjectCount*100.
		if got := Percentage(220, 2); got != 110.00 {
			t.Errorf("Percentage(220, 2) = %v, want 110.00", got)
		}
	})
}

func TestRound2(t *testing.T) {
	if got := Round2(74.996); got != 75.00 {
		t.Errorf("Round2(74.996) = %v, want 75", got)
	}
	if got := Round2(33.333333); got != 33.33 {
		t.Errorf("Round2(33.333333) = %v, want 33.33", got)
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleStudent, RoleTeacher, RoleAdmin} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}

	for _, role := range []string{"student", "Principal", ""} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true, want false", role)
		}
	}
}
