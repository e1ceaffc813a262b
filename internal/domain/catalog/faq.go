package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FAQ is a frequently asked question shown on the marketplace help page
type FAQ struct {
	shared.BaseEntity
	Question  string `gorm:"type:varchar(255);not null"`
	Answer    string `gorm:"type:text;not null"`
	SortOrder int    `gorm:"not null;default:0"`
	Active    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (FAQ) TableName() string {
	return "faqs"
}

// NewFAQ creates a new FAQ entry
func NewFAQ(question, answer string, sortOrder int) (*FAQ, error) {
	if err := validateFAQQuestion(question); err != nil {
		return nil, err
	}
	if strings.TrimSpace(answer) == "" {
		return nil, shared.NewDomainError("INVALID_ANSWER", "Answer cannot be empty")
	}

	return &FAQ{
		BaseEntity: shared.NewBaseEntity(),
		Question:   strings.TrimSpace(question),
		Answer:     answer,
		SortOrder:  sortOrder,
		Active:     true,
	}, nil
}

// Update updates the question and answer
func (f *FAQ) Update(question, answer string) error {
	if err := validateFAQQuestion(question); err != nil {
		return err
	}
	if strings.TrimSpace(answer) == "" {
		return shared.NewDomainError("INVALID_ANSWER", "Answer cannot be empty")
	}

	f.Question = strings.TrimSpace(question)
	f.Answer = answer
	f.UpdatedAt = time.Now()

	return nil
}

// SetSortOrder changes the display position
func (f *FAQ) SetSortOrder(order int) {
	f.SortOrder = order
	f.UpdatedAt = time.Now()
}

// Activate shows the FAQ on the help page
func (f *FAQ) Activate() {
	f.Active = true
	f.UpdatedAt = time.Now()
}

// Deactivate hides the FAQ without deleting it
func (f *FAQ) Deactivate() {
	f.Active = false
	f.UpdatedAt = time.Now()
}

func validateFAQQuestion(question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return shared.NewDomainError("INVALID_QUESTION", "Question cannot be empty")
	}
	if len(question) > 255 {
		return shared.NewDomainError("INVALID_QUESTION", "Question cannot exceed 255 characters")
	}
	return nil
}

// FAQRepository defines the interface for FAQ persistence
type FAQRepository interface {
	// Create saves a FAQ entry
	Create(ctx context.Context, faq *FAQ) error

	// Update updates a FAQ entry
	Update(ctx context.Context, faq *FAQ) error

	// Delete deletes a FAQ entry
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a FAQ entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FAQ, error)

	// FindActive returns active FAQs in display order
	FindActive(ctx context.Context) ([]*FAQ, error)

	// FindAll returns all FAQs in display order
	FindAll(ctx context.Context) ([]*FAQ, error)
}
