package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/printing"
	"github.com/invoicer/backend/internal/infrastructure/telemetry"
)

// Service exposes company data and confirmation write-back
type Service struct {
	store   catalog.Store
	metrics *telemetry.InvoiceMetrics
	backend string
	logger  *zap.Logger
}

// NewService creates a new catalog service. metrics may be nil.
func NewService(store catalog.Store, metrics *telemetry.InvoiceMetrics, backend string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, metrics: metrics, backend: backend, logger: log.Named("catalog")}
}

// GetCompany returns the profile, items and customers of a company
func (s *Service) GetCompany(ctx context.Context, companyID string) (*catalog.Company, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "get_company",
		telemetry.WithAttribute(telemetry.SpanAttrCompanyID, companyID))
	defer span.End()

	snap, err := catalog.LoadSnapshot(ctx, s.store, companyID)
	if err != nil {
		s.observe(ctx, err)
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &catalog.Company{
		Profile:   snap.Profile,
		Items:     snap.Index.Items(),
		Customers: snap.Customers,
	}, nil
}

// CompanyMarkdown renders the company overview. A missing company renders
// the not-found heading instead of failing.
func (s *Service) CompanyMarkdown(ctx context.Context, companyID string) (string, error) {
	company, err := s.GetCompany(ctx, companyID)
	if errors.Is(err, catalog.ErrCompanyNotFound) {
		return printing.CompanyNotFoundMarkdown, nil
	}
	if err != nil {
		return "", err
	}
	return printing.CompanyMarkdown(company), nil
}

// ConfirmItems writes confirmed items to the catalog. Every item needs a unit
// price and a tax rate. Names already stored are reported as skipped, so
// repeating a request changes nothing.
func (s *Service) ConfirmItems(ctx context.Context, companyID string, req ConfirmItemsRequest) (*ConfirmItemsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "confirm_items",
		telemetry.WithAttribute(telemetry.SpanAttrCompanyID, companyID))
	defer span.End()

	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "At least one item is required")
	}
	items := make([]catalog.Item, 0, len(req.Items))
	for _, in := range req.Items {
		if err := in.Validate(); err != nil {
			return nil, err
		}
		if !in.IsComplete() {
			return nil, shared.NewDomainError("INCOMPLETE_ITEM",
				fmt.Sprintf("Item %q needs a unit price and a tax rate before it can be saved", in.ItemName))
		}
		item, err := toItem(in)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if _, err := s.store.GetBusinessProfile(ctx, companyID); err != nil {
		s.observe(ctx, err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := &ConfirmItemsResponse{BatchID: uuid.NewString(), Saved: []string{}, Skipped: []string{}}
	for _, item := range items {
		saved, err := s.store.PutItem(ctx, companyID, item)
		if err != nil {
			s.observe(ctx, err)
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("save item %q: %w", item.Name, err)
		}
		if saved {
			resp.Saved = append(resp.Saved, item.Name)
		} else {
			resp.Skipped = append(resp.Skipped, item.Name)
		}
	}

	s.metrics.RecordItemsConfirmed(ctx, companyID, len(resp.Saved), len(resp.Skipped))
	logger.With(ctx, s.logger).Info("items confirmed",
		zap.String("company_id", companyID),
		zap.String("batch_id", resp.BatchID),
		zap.Strings("saved", resp.Saved),
		zap.Strings("skipped", resp.Skipped),
	)
	return resp, nil
}

func (s *Service) observe(ctx context.Context, err error) {
	if errors.Is(err, shared.ErrCatalogUnavailable) {
		s.metrics.RecordCatalogUnavailable(ctx, s.backend)
		logger.With(ctx, s.logger).Error("catalog unavailable", zap.Error(err))
	}
}

func toItem(in invoice.ItemInput) (catalog.Item, error) {
	price, _ := in.UnitPrice.Decimal()
	rate, _ := in.TaxRate.Decimal()
	return catalog.NewItem(in.ItemName, price, rate)
}
