// Package importapp loads supplier catalogs from YAML price-list feeds.
//
// An import runs in stages: the URL is validated, the feed is fetched and parsed,
// and the parsed catalog replaces the shop's listings inside one transaction.
// Every run past URL validation leaves a FeedImport history record.
package importapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/b2bprocure/backend/internal/domain/bulk"
	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/infrastructure/feed"
	"github.com/b2bprocure/backend/internal/infrastructure/logger"
	"github.com/b2bprocure/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultImportTimeout bounds the persist transaction when none is configured
const DefaultImportTimeout = 60 * time.Second

// Fetcher downloads a feed document
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Parser turns a feed document into a validated catalog
type Parser interface {
	Parse(data []byte) (*catalog.Feed, error)
}

// FeedImportService runs catalog imports for shop accounts
type FeedImportService struct {
	uow           catalog.UnitOfWork
	history       bulk.FeedImportRepository
	fetcher       Fetcher
	parser        Parser
	publisher     shared.EventPublisher
	importTimeout time.Duration
	logger        *zap.Logger
}

// NewFeedImportService creates a new FeedImportService
func NewFeedImportService(
	uow catalog.UnitOfWork,
	history bulk.FeedImportRepository,
	fetcher Fetcher,
	parser Parser,
	publisher shared.EventPublisher,
	importTimeout time.Duration,
	logger *zap.Logger,
) *FeedImportService {
	if importTimeout <= 0 {
		importTimeout = DefaultImportTimeout
	}
	return &FeedImportService{
		uow:           uow,
		history:       history,
		fetcher:       fetcher,
		parser:        parser,
		publisher:     publisher,
		importTimeout: importTimeout,
		logger:        logger,
	}
}

// Import replaces the caller's catalog with the feed at req.URL
func (s *FeedImportService) Import(ctx context.Context, p identity.Principal, req ImportFeedRequest) (result *ImportResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "FeedImportService", "Import",
		attribute.String("feed.url", req.URL))
	defer telemetry.End(span, &err)

	if err := p.RequireShop(); err != nil {
		return nil, err
	}

	u, err := catalog.ParseFeedURL(req.URL)
	if err != nil {
		message := err.Error()
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			message = domainErr.Message
		}
		return nil, stageError(bulk.StageValidate, shared.CodeValidation, message, nil)
	}
	feedURL := u.String()

	log := logger.Or(ctx, s.logger).With(
		zap.String("user_id", p.UserID.String()),
		zap.String("url", feedURL),
	)

	history, err := bulk.NewFeedImport(p.UserID, feedURL)
	if err != nil {
		return nil, err
	}
	if err := s.history.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to save import history: %w", err)
	}

	data, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		log.Warn("feed fetch failed", zap.Error(err))
		return nil, s.fail(ctx, history, stageError(bulk.StageFetch, shared.CodeFeedFetchFailed,
			"Failed to fetch feed: "+err.Error(), nil))
	}

	parsed, err := s.parser.Parse(data)
	if err != nil {
		var details []bulk.ImportErrorDetail
		var parseErr *feed.ParseError
		if errors.As(err, &parseErr) {
			details = parseErr.Details()
		}
		log.Info("feed rejected", zap.Int("bytes", len(data)), zap.Error(err))
		return nil, s.fail(ctx, history, stageError(bulk.StageParse, shared.CodeFeedParseFailed, err.Error(), details))
	}

	persistCtx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	shop, counters, err := s.persist(persistCtx, p.UserID, feedURL, parsed)
	if err != nil {
		log.Error("feed persist failed", zap.Error(err))
		return nil, s.fail(ctx, history, stageError(bulk.StagePersist, shared.CodeFeedPersistFailed,
			"Failed to save catalog: "+err.Error(), nil))
	}

	if err := history.Complete(shop.ID, counters); err != nil {
		return nil, err
	}
	if err := s.history.Save(context.WithoutCancel(ctx), history); err != nil {
		log.Error("failed to record completed import", zap.Error(err))
	}

	log.Info("catalog imported",
		zap.String("shop_id", shop.ID.String()),
		zap.Int("categories", counters.Categories),
		zap.Int("products", counters.Products),
		zap.Int("parameters", counters.Parameters),
		zap.Int("removed", counters.Removed),
		zap.Duration("duration", history.Duration()),
	)

	if s.publisher != nil {
		event := catalog.NewCatalogImportedEvent(shop, counters.Categories, counters.Products)
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Error("failed to publish catalog imported event", zap.Error(err))
		}
	}

	return &ImportResult{
		ImportID:   history.ID,
		ShopID:     shop.ID,
		Categories: counters.Categories,
		Products:   counters.Products,
		Parameters: counters.Parameters,
		Removed:    counters.Removed,
	}, nil
}

// fail records the failure on the history outside any import transaction and returns serr
func (s *FeedImportService) fail(ctx context.Context, history *bulk.FeedImport, serr *StageError) error {
	if err := history.Fail(serr.Stage, serr.Err.Message, serr.Details); err == nil {
		if err := s.history.Save(context.WithoutCancel(ctx), history); err != nil {
			logger.Or(ctx, s.logger).Error("failed to record failed import",
				zap.String("import_id", history.ID.String()),
				zap.Error(err),
			)
		}
	}
	return serr
}

// persist writes the parsed catalog in one transaction
func (s *FeedImportService) persist(ctx context.Context, ownerID uuid.UUID, feedURL string, f *catalog.Feed) (*catalog.Shop, bulk.ImportCounters, error) {
	var (
		shop     *catalog.Shop
		counters bulk.ImportCounters
	)

	err := s.uow.Within(ctx, func(repos catalog.Repositories) error {
		var err error
		shop, err = s.upsertShop(ctx, repos.Shops, ownerID, f.Shop, feedURL)
		if err != nil {
			return err
		}

		categories := make(map[int64]uuid.UUID, len(f.Categories))
		for _, c := range f.Categories {
			category, _, err := repos.Categories.GetOrCreateByExternalID(ctx, c.ID, c.Name)
			if err != nil {
				return fmt.Errorf("category %d: %w", c.ID, err)
			}
			if err := repos.Categories.AttachShop(ctx, category.ID, shop.ID); err != nil {
				return fmt.Errorf("attach category %d: %w", c.ID, err)
			}
			categories[c.ID] = category.ID
		}
		counters.Categories = len(categories)

		removed, err := repos.ProductInfos.DeleteByShop(ctx, shop.ID)
		if err != nil {
			return fmt.Errorf("remove previous listings: %w", err)
		}
		counters.Removed = int(removed)

		parameters := make(map[string]uuid.UUID)
		for _, good := range f.Goods {
			categoryID, ok := categories[good.Category]
			if !ok {
				return fmt.Errorf("good %d: category %d is not declared", good.ID, good.Category)
			}

			product, _, err := repos.Products.GetOrCreate(ctx, good.Name, categoryID)
			if err != nil {
				return fmt.Errorf("good %d: %w", good.ID, err)
			}
			info, err := catalog.NewProductInfo(product.ID, shop.ID, catalog.ProductInfoSpec{
				ExternalID:  good.ID,
				Model:       good.Model,
				Name:        good.Name,
				Description: good.Description,
				Quantity:    good.Quantity,
				Price:       good.Price,
				PriceRRC:    good.PriceRRC,
			})
			if err != nil {
				return fmt.Errorf("good %d: %w", good.ID, err)
			}

			values := make([]*catalog.ProductParameter, 0, len(good.Parameters))
			for _, name := range good.ParameterNames() {
				paramID, ok := parameters[name]
				if !ok {
					param, _, err := repos.Parameters.GetOrCreate(ctx, name)
					if err != nil {
						return fmt.Errorf("parameter %q: %w", name, err)
					}
					paramID = param.ID
					parameters[name] = paramID
				}
				values = append(values, catalog.NewProductParameter(info.ID, paramID, good.Parameters[name]))
			}

			if err := repos.ProductInfos.Create(ctx, info, values); err != nil {
				return fmt.Errorf("good %d: %w", good.ID, err)
			}
			counters.Products++
			counters.Parameters += len(values)
		}
		return nil
	})
	if err != nil {
		return nil, bulk.ImportCounters{}, err
	}
	return shop, counters, nil
}

// upsertShop returns the owner's shop, renaming it to name when the feed calls it differently
func (s *FeedImportService) upsertShop(ctx context.Context, shops catalog.ShopRepository, ownerID uuid.UUID, name, feedURL string) (*catalog.Shop, error) {
	shop, err := shops.FindByOwner(ctx, ownerID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shop, err = catalog.NewShop(ownerID, name, feedURL)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if shop.Name != name {
			if err := shop.Rename(name); err != nil {
				return nil, err
			}
		}
		if err := shop.SetURL(feedURL); err != nil {
			return nil, err
		}
	}

	if err := shops.Save(ctx, shop); err != nil {
		return nil, fmt.Errorf("save shop: %w", err)
	}
	return shop, nil
}

// History lists the caller's imports, newest first
func (s *FeedImportService) History(ctx context.Context, p identity.Principal, filter HistoryListFilter) (*HistoryListResponse, error) {
	if err := p.RequireShop(); err != nil {
		return nil, err
	}

	f := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	records, total, err := s.history.ListByUser(ctx, p.UserID, f)
	if err != nil {
		return nil, err
	}

	items := make([]FeedImportResponse, len(records))
	for i := range records {
		items[i] = ToFeedImportResponse(&records[i])
	}
	return &HistoryListResponse{
		Items:    items,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}
