package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateProfile checks a Profile for constraint violations.
func ValidateProfile(p *Profile) error {
	var ve ValidationError

	username := strings.TrimSpace(p.Username)
	if username == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "username", Message: "is required"})
	} else if len([]rune(username)) > 50 {
		ve.Errors = append(ve.Errors, FieldError{Field: "username", Message: "must be 50 characters or fewer"})
	} else if strings.ContainsAny(username, " \t\n") {
		ve.Errors = append(ve.Errors, FieldError{Field: "username", Message: "must not contain whitespace"})
	}

	if len([]rune(p.Bio)) > 1000 {
		ve.Errors = append(ve.Errors, FieldError{Field: "bio", Message: "must be 1000 characters or fewer"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidatePost checks a Post for constraint violations.
func ValidatePost(p *Post) error {
	var ve ValidationError

	content := strings.TrimSpace(p.Content)
	if content == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "content", Message: "is required"})
	} else if len([]rune(content)) > 5000 {
		ve.Errors = append(ve.Errors, FieldError{Field: "content", Message: "must be 5000 characters or fewer"})
	}

	if !p.Type.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "post_type",
			Message: fmt.Sprintf("invalid value %q", p.Type),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidatePlace checks a Place for constraint violations.
func ValidatePlace(p *Place) error {
	var ve ValidationError

	if strings.TrimSpace(p.Name) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(p.Category) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "category", Message: "is required"})
	}
	if err := validateCoordinates(p.Latitude, p.Longitude); err != nil {
		ve.Errors = append(ve.Errors, *err)
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateEvent checks an Event for constraint violations. A zero StartTime
// is rejected here, before any rank bookkeeping touches other records.
func ValidateEvent(e *Event) error {
	var ve ValidationError

	title := strings.TrimSpace(e.Title)
	if title == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	} else if len([]rune(title)) > 200 {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "must be 200 characters or fewer"})
	}

	if strings.TrimSpace(e.LocationName) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "location_name", Message: "is required"})
	}

	if e.StartTime.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "start_time", Message: "is required"})
	}
	if e.EndTime != nil && !e.StartTime.IsZero() && e.EndTime.Before(e.StartTime) {
		ve.Errors = append(ve.Errors, FieldError{Field: "end_time", Message: "must not be before start_time"})
	}

	if e.MaxAttendees < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "max_participants",
			Message: fmt.Sprintf("must be zero or positive, got %d", e.MaxAttendees),
		})
	}

	if err := validateCoordinates(e.Latitude, e.Longitude); err != nil {
		ve.Errors = append(ve.Errors, *err)
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

func validateCoordinates(lat, lng float64) *FieldError {
	if lat < -90 || lat > 90 {
		return &FieldError{Field: "latitude", Message: fmt.Sprintf("must be between -90 and 90, got %v", lat)}
	}
	if lng < -180 || lng > 180 {
		return &FieldError{Field: "longitude", Message: fmt.Sprintf("must be between -180 and 180, got %v", lng)}
	}
	return nil
}
