package bulk

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/baysoko/backend/internal/domain/bulk"
	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	csvimport "github.com/baysoko/backend/internal/infrastructure/import"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// maxImportRows caps one CSV upload
	maxImportRows = 1000
	// maxImportErrors caps how many row errors are kept per upload
	maxImportErrors = 100
	// maxImportFileSize caps the uploaded file at 5 MB
	maxImportFileSize = 5 << 20
)

// ListingImportService handles bulk listing uploads from CSV. Bulk
// upload is a premium store feature.
type ListingImportService struct {
	historyRepo  bulk.ImportHistoryRepository
	listingRepo  catalog.ListingRepository
	categoryRepo catalog.CategoryRepository
	storeRepo    store.StoreRepository
	logger       *zap.Logger
}

// NewListingImportService creates a new ListingImportService
func NewListingImportService(
	historyRepo bulk.ImportHistoryRepository,
	listingRepo catalog.ListingRepository,
	categoryRepo catalog.CategoryRepository,
	storeRepo store.StoreRepository,
	logger *zap.Logger,
) *ListingImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingImportService{
		historyRepo:  historyRepo,
		listingRepo:  listingRepo,
		categoryRepo: categoryRepo,
		storeRepo:    storeRepo,
		logger:       logger,
	}
}

// fieldRules returns the per-column validation rules for listing CSVs
func (s *ListingImportService) fieldRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field("title").Required().String().MinLength(1).MaxLength(200).Build(),
		csvimport.Field("description").Required().String().MinLength(1).Build(),
		csvimport.Field("price").Required().Decimal().MinValue(decimal.New(1, -2)).Build(),
		csvimport.Field("stock").Required().Int().MinValue(decimal.Zero).Build(),
		csvimport.Field("location").Required().String().Custom(validateLocation).Build(),
		csvimport.Field("condition").String().Custom(validateCondition).Build(),
		csvimport.Field("delivery_option").String().Custom(validateDeliveryOption).Build(),
		csvimport.Field("category").String().MaxLength(100).Build(),
	}
}

func validateLocation(value string) error {
	if !catalog.ListingLocation(value).IsValid() {
		return fmt.Errorf("unknown location %q", value)
	}
	return nil
}

func validateCondition(value string) error {
	if value == "" {
		return nil
	}
	if !catalog.ListingCondition(value).IsValid() {
		return fmt.Errorf("condition must be 'new', 'used' or 'refurbished'")
	}
	return nil
}

func validateDeliveryOption(value string) error {
	if value == "" {
		return nil
	}
	if !catalog.DeliveryOption(value).IsValid() {
		return fmt.Errorf("delivery_option must be 'pickup', 'delivery' or 'shipping'")
	}
	return nil
}

// ImportCSV runs one CSV upload end to end and records it in the
// store's upload history. Row failures do not stop the upload; an
// unreadable file or a conflict under the fail mode does.
func (s *ListingImportService) ImportCSV(ctx context.Context, sellerID, storeID uuid.UUID, fileName string, data []byte, mode bulk.ConflictMode) (*ImportResultResponse, error) {
	st, err := s.requirePremiumStore(ctx, sellerID, storeID)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "The uploaded file is empty")
	}
	if len(data) > maxImportFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "The uploaded file exceeds 5 MB")
	}
	if mode == "" {
		mode = bulk.ConflictModeSkip
	}

	history, err := bulk.NewImportHistory(st.ID, fileName, int64(len(data)), mode, sellerID)
	if err != nil {
		return nil, err
	}
	if err := s.saveHistory(ctx, history); err != nil {
		return nil, err
	}

	rows, parseErrs, err := s.parseRows(data)
	if err != nil {
		return s.failUpload(ctx, history, parseErrs)
	}
	if len(rows) > maxImportRows {
		return s.failUpload(ctx, history, []bulk.ImportErrorDetail{{
			Row:     1,
			Code:    "TOO_MANY_ROWS",
			Message: fmt.Sprintf("Upload exceeds %d rows", maxImportRows),
		}})
	}

	if err := history.StartProcessing(len(rows)); err != nil {
		return nil, err
	}
	if err := s.saveHistory(ctx, history); err != nil {
		return nil, err
	}

	result, err := s.importRows(ctx, st, history, rows, mode)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Listing upload finished",
		zap.String("store_id", st.ID.String()),
		zap.String("upload_id", history.ID.String()),
		zap.String("status", string(history.Status)),
		zap.Int("total_rows", history.TotalRows),
		zap.Int("success_rows", history.SuccessRows),
		zap.Int("error_rows", history.ErrorRows))

	return result, nil
}

// parseRows reads the CSV into rows, reporting file-level problems as
// error details
func (s *ListingImportService) parseRows(data []byte) ([]*csvimport.Row, []bulk.ImportErrorDetail, error) {
	parser, err := csvimport.ParseFromBytes(data)
	if err != nil {
		return nil, []bulk.ImportErrorDetail{{Row: 0, Code: "INVALID_FILE", Message: err.Error()}}, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, []bulk.ImportErrorDetail{{Row: 1, Code: "MISSING_HEADER", Message: err.Error()}}, err
	}
	if missing := parser.ValidateHeaders([]string{"title", "description", "price", "stock", "location"}); len(missing) > 0 {
		details := make([]bulk.ImportErrorDetail, len(missing))
		for i, col := range missing {
			details[i] = bulk.ImportErrorDetail{
				Row:     1,
				Column:  col,
				Code:    "MISSING_COLUMN",
				Message: fmt.Sprintf("Required column %q is missing", col),
			}
		}
		return nil, details, shared.NewDomainError("MISSING_COLUMNS", "Required columns are missing")
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, []bulk.ImportErrorDetail{{Row: parser.CurrentRow(), Code: "MALFORMED_ROW", Message: err.Error()}}, err
	}
	return rows, nil, nil
}

func (s *ListingImportService) importRows(ctx context.Context, st *store.Store, history *bulk.ImportHistory, rows []*csvimport.Row, mode bulk.ConflictMode) (*ImportResultResponse, error) {
	validator := csvimport.NewFieldValidator(s.fieldRules(), maxImportErrors)
	categories := make(map[string]*catalog.Category)
	var success, updated, skipped, failed int

	for _, row := range rows {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !validator.ValidateRow(row) {
			failed++
			continue
		}

		outcome, err := s.importRow(ctx, st, row, mode, categories, validator.Errors())
		if err != nil {
			if errors.Is(err, errConflictAbort) {
				return s.failUpload(ctx, history, toErrorDetails(validator.Errors().Errors()))
			}
			return nil, err
		}
		switch outcome {
		case rowCreated:
			success++
		case rowUpdated:
			updated++
		case rowSkipped:
			skipped++
		case rowFailed:
			failed++
		}
	}

	details := toErrorDetails(validator.Errors().Errors())
	if err := history.Complete(success, failed, skipped, updated, details); err != nil {
		return nil, err
	}
	if err := s.saveHistory(ctx, history); err != nil {
		return nil, err
	}

	return ToImportResultResponse(history), nil
}

type rowOutcome int

const (
	rowCreated rowOutcome = iota
	rowUpdated
	rowSkipped
	rowFailed
)

// errConflictAbort aborts the whole upload under the fail mode
var errConflictAbort = errors.New("conflicting row")

func (s *ListingImportService) importRow(
	ctx context.Context,
	st *store.Store,
	row *csvimport.Row,
	mode bulk.ConflictMode,
	categories map[string]*catalog.Category,
	errs *csvimport.ErrorCollection,
) (rowOutcome, error) {
	title := row.Get("title")
	description := row.Get("description")
	price, err := decimal.NewFromString(row.Get("price"))
	if err != nil {
		errs.AddTypeError(row.LineNumber, "price", "decimal", row.Get("price"))
		return rowFailed, nil
	}
	stock, err := strconv.Atoi(row.Get("stock"))
	if err != nil {
		errs.AddTypeError(row.LineNumber, "stock", "integer", row.Get("stock"))
		return rowFailed, nil
	}
	location := catalog.ListingLocation(row.Get("location"))
	condition := catalog.ListingCondition(row.GetOrDefault("condition", string(catalog.ConditionUsed)))
	delivery := catalog.DeliveryOption(row.GetOrDefault("delivery_option", string(catalog.DeliveryOptionPickup)))

	var categoryID *uuid.UUID
	if name := row.Get("category"); name != "" {
		category, ok := categories[name]
		if !ok {
			found, err := s.categoryRepo.FindByName(ctx, name)
			if err != nil {
				if !errors.Is(err, shared.ErrNotFound) {
					return rowFailed, err
				}
				errs.Add(csvimport.NewRowErrorWithValue(row.LineNumber, "category",
					csvimport.ErrCodeImportReferenceNotFound, "category does not exist", name))
				return rowFailed, nil
			}
			categories[name] = found
			category = found
		}
		categoryID = &category.ID
	}

	// Conflict detection keys on the slug the title produces, which
	// is unique per store.
	existing, err := s.listingRepo.FindBySlug(ctx, shared.Slugify(title))
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return rowFailed, err
	}
	if existing != nil && existing.StoreID == st.ID {
		switch mode {
		case bulk.ConflictModeSkip:
			return rowSkipped, nil
		case bulk.ConflictModeFail:
			errs.AddDuplicateError(row.LineNumber, "title", title, true)
			return rowFailed, errConflictAbort
		case bulk.ConflictModeUpdate:
			return s.updateExisting(ctx, existing, title, description, price, stock, categoryID, row, errs)
		}
	}

	slug, err := shared.UniqueSlug(title, func(candidate string) (bool, error) {
		return s.listingRepo.ExistsBySlug(ctx, candidate)
	})
	if err != nil {
		return rowFailed, err
	}

	listing, err := catalog.NewListing(st.ID, st.OwnerID, title, description, slug, price, location, condition, delivery, stock)
	if err != nil {
		errs.Add(rowErrorFromDomain(row.LineNumber, err))
		return rowFailed, nil
	}
	listing.SetCategory(categoryID)

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		s.logger.Warn("Failed to create imported listing",
			zap.Int("row", row.LineNumber), zap.Error(err))
		errs.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportUnknown, "could not save listing"))
		return rowFailed, nil
	}
	return rowCreated, nil
}

func (s *ListingImportService) updateExisting(
	ctx context.Context,
	listing *catalog.Listing,
	title, description string,
	price decimal.Decimal,
	stock int,
	categoryID *uuid.UUID,
	row *csvimport.Row,
	errs *csvimport.ErrorCollection,
) (rowOutcome, error) {
	if err := listing.Update(title, description); err != nil {
		errs.Add(rowErrorFromDomain(row.LineNumber, err))
		return rowFailed, nil
	}
	if err := listing.ChangePrice(price); err != nil {
		errs.Add(rowErrorFromDomain(row.LineNumber, err))
		return rowFailed, nil
	}
	if listing.Stock != stock {
		if err := listing.AdjustStock(stock); err != nil {
			errs.Add(rowErrorFromDomain(row.LineNumber, err))
			return rowFailed, nil
		}
	}
	if categoryID != nil {
		listing.SetCategory(categoryID)
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		s.logger.Warn("Failed to update imported listing",
			zap.Int("row", row.LineNumber), zap.Error(err))
		errs.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportUnknown, "could not save listing"))
		return rowFailed, nil
	}
	return rowUpdated, nil
}

func (s *ListingImportService) requirePremiumStore(ctx context.Context, sellerID, storeID uuid.UUID) (*store.Store, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}
	if !st.IsOwnedBy(sellerID) {
		return nil, shared.NewDomainError("NOT_STORE_OWNER", "Only the store owner can upload listings")
	}
	if !st.Premium {
		return nil, shared.NewDomainError("PREMIUM_REQUIRED", "Bulk upload requires an active subscription")
	}
	return st, nil
}

func (s *ListingImportService) failUpload(ctx context.Context, history *bulk.ImportHistory, details []bulk.ImportErrorDetail) (*ImportResultResponse, error) {
	if err := history.Fail(details); err != nil {
		return nil, err
	}
	if err := s.saveHistory(ctx, history); err != nil {
		return nil, err
	}
	return ToImportResultResponse(history), nil
}

func (s *ListingImportService) saveHistory(ctx context.Context, history *bulk.ImportHistory) error {
	json, err := history.ErrorDetailsJSON()
	if err != nil {
		return err
	}
	history.ErrorsJSON = json
	if err := s.historyRepo.Save(ctx, history); err != nil {
		s.logger.Error("Failed to save upload record",
			zap.String("upload_id", history.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

func rowErrorFromDomain(line int, err error) csvimport.RowError {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return csvimport.NewRowError(line, "", domainErr.Code, domainErr.Message)
	}
	return csvimport.NewRowError(line, "", csvimport.ErrCodeImportValidation, err.Error())
}

func toErrorDetails(rowErrors []csvimport.RowError) []bulk.ImportErrorDetail {
	details := make([]bulk.ImportErrorDetail, len(rowErrors))
	for i, re := range rowErrors {
		details[i] = bulk.ImportErrorDetail{
			Row:     re.Row,
			Column:  re.Column,
			Code:    re.Code,
			Message: re.Message,
			Value:   re.Value,
		}
	}
	return details
}
