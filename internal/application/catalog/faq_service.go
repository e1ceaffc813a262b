package catalog

import (
	"context"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// FAQService handles help page FAQ management
type FAQService struct {
	faqRepo catalog.FAQRepository
}

// NewFAQService creates a new FAQService
func NewFAQService(faqRepo catalog.FAQRepository) *FAQService {
	return &FAQService{faqRepo: faqRepo}
}

// Create creates a new FAQ entry
func (s *FAQService) Create(ctx context.Context, req CreateFAQRequest) (*FAQResponse, error) {
	faq, err := catalog.NewFAQ(req.Question, req.Answer, req.SortOrder)
	if err != nil {
		return nil, err
	}

	if err := s.faqRepo.Create(ctx, faq); err != nil {
		return nil, err
	}

	response := ToFAQResponse(faq)
	return &response, nil
}

// Update updates a FAQ entry
func (s *FAQService) Update(ctx context.Context, id uuid.UUID, req UpdateFAQRequest) (*FAQResponse, error) {
	faq, err := s.faqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	question := valueOr(req.Question, faq.Question)
	answer := valueOr(req.Answer, faq.Answer)
	if err := faq.Update(question, answer); err != nil {
		return nil, err
	}

	if err := s.faqRepo.Update(ctx, faq); err != nil {
		return nil, err
	}

	response := ToFAQResponse(faq)
	return &response, nil
}

// Delete deletes a FAQ entry
func (s *FAQService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.faqRepo.Delete(ctx, id)
}

// ListActive retrieves active FAQ entries in display order
func (s *FAQService) ListActive(ctx context.Context) ([]FAQResponse, error) {
	faqs, err := s.faqRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	return toFAQResponses(faqs), nil
}

// ListAll retrieves every FAQ entry for management screens
func (s *FAQService) ListAll(ctx context.Context) ([]FAQResponse, error) {
	faqs, err := s.faqRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return toFAQResponses(faqs), nil
}

// SetActive toggles a FAQ entry's visibility
func (s *FAQService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*FAQResponse, error) {
	faq, err := s.faqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		faq.Activate()
	} else {
		faq.Deactivate()
	}

	if err := s.faqRepo.Update(ctx, faq); err != nil {
		return nil, err
	}

	response := ToFAQResponse(faq)
	return &response, nil
}

func toFAQResponses(faqs []*catalog.FAQ) []FAQResponse {
	responses := make([]FAQResponse, len(faqs))
	for i, f := range faqs {
		responses[i] = ToFAQResponse(f)
	}
	return responses
}
