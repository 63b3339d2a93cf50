package service

import (
	"context"
	"errors"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/domain/policy"
	"portalmunicipal/cmd/internal/infrastructure/cache"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/apierror"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type NewsRepository interface {
	FindAll(ctx context.Context, status entity.NewsStatus) ([]*entity.News, error)
	FindByID(ctx context.Context, id int64) (*entity.News, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*entity.News, error)
	Save(ctx context.Context, news *entity.News) error
	Delete(ctx context.Context, news *entity.News) error
	PublishDue(ctx context.Context, now int64) (int64, error)
}

type DefaultNewsService struct {
	NewsRepo NewsRepository
	Cache    *PublicCache
	Validate *validator.Validate
	// Now is swapped in tests.
	Now func() int64
}

func NewNewsService(newsRepo NewsRepository, publicCache *PublicCache, validate *validator.Validate) *DefaultNewsService {
	return &DefaultNewsService{
		NewsRepo: newsRepo,
		Cache:    publicCache,
		Validate: validate,
		Now:      utils.NowUTC,
	}
}

func (s *DefaultNewsService) ListPublic(ctx context.Context) ([]*contract.NewsResponse, apierror.ErrorResponse) {
	return cachedResponse(ctx, s.Cache, cache.Key(cache.PrefixNews, "list"), func() ([]*contract.NewsResponse, apierror.ErrorResponse) {
		news, err := s.NewsRepo.FindAll(ctx, entity.NewsPublished)
		if err != nil {
			log.Errorf("failed to fetch news: %v", err)
			return nil, apierror.InternalServerError
		}

		resp := make([]*contract.NewsResponse, len(news))
		for i, n := range news {
			// Listings only carry the summary.
			resp[i] = toNewsResponse(n, false)
		}
		return resp, nil
	})
}

func (s *DefaultNewsService) GetPublicBySlug(ctx context.Context, slug string) (*contract.NewsResponse, apierror.ErrorResponse) {
	return cachedResponse(ctx, s.Cache, cache.Key(cache.PrefixNews, "slug", slug), func() (*contract.NewsResponse, apierror.ErrorResponse) {
		news, err := s.NewsRepo.FindPublishedBySlug(ctx, slug)
		if err != nil {
			log.Errorf("failed to fetch news: %v", err)
			return nil, apierror.InternalServerError
		}

		if news == nil {
			return nil, apierror.NewsNotFoundError
		}
		return toNewsResponse(news, true), nil
	})
}

func (s *DefaultNewsService) ListNews(ctx context.Context, actor *entity.Actor, status string) ([]*contract.NewsResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapViewAdmin); apierr != nil {
		return nil, apierr
	}

	var filter entity.NewsStatus
	if status != "" {
		parsed, ok := parseNewsStatus(status)
		if !ok {
			return nil, apierror.NewInvalidFieldValueError("status", status)
		}
		filter = parsed
	}

	news, err := s.NewsRepo.FindAll(ctx, filter)
	if err != nil {
		log.Errorf("failed to fetch news: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NewsResponse, len(news))
	for i, n := range news {
		resp[i] = toNewsResponse(n, false)
	}
	return resp, nil
}

// CreateNews stores a draft. A publish_at in the request schedules it right away.
func (s *DefaultNewsService) CreateNews(ctx context.Context, actor *entity.Actor, req *contract.NewsRequest) (*contract.NewsResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageContent); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := s.Now()
	news := &entity.News{
		Title:       req.Title,
		Slug:        slugOrDefault(req.Slug, req.Title),
		Summary:     req.Summary,
		Body:        req.Body,
		CoverURL:    req.CoverURL,
		Status:      entity.NewsDraft,
		CreatedByID: actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.PublishAt != nil {
		if apierr := policy.Authorize(actor, entity.CapPublishContent); apierr != nil {
			return nil, apierr
		}

		publishAt, apierr := parsePublishAt(*req.PublishAt)
		if apierr != nil {
			return nil, apierr
		}
		schedule(news, publishAt, now)
	}

	if apierr := s.save(ctx, news); apierr != nil {
		return nil, apierr
	}
	return toNewsResponse(news, true), nil
}

func (s *DefaultNewsService) UpdateNews(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateNewsRequest) (*contract.NewsResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageContent); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	news, apierr := s.load(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if req.Title != nil {
		news.Title = *req.Title
	}
	if req.Slug != nil {
		news.Slug = *req.Slug
	}
	if req.Summary != nil {
		news.Summary = *req.Summary
	}
	if req.Body != nil {
		news.Body = *req.Body
	}
	if req.CoverURL != nil {
		news.CoverURL = *req.CoverURL
	}
	if req.Status != nil {
		// Back to draft or archived, both leave the public listing.
		news.Status = entity.NewsStatus(*req.Status)
		news.PublishAt = nil
	}
	news.UpdatedAt = s.Now()

	if apierr = s.save(ctx, news); apierr != nil {
		return nil, apierr
	}
	return toNewsResponse(news, true), nil
}

// PublishNews publishes immediately, or schedules when publish_at is in the future.
func (s *DefaultNewsService) PublishNews(ctx context.Context, actor *entity.Actor, id int64, req *contract.PublishNewsRequest) (*contract.NewsResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapPublishContent); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	news, apierr := s.load(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	now := s.Now()
	publishAt := now
	if req.PublishAt != nil {
		if publishAt, apierr = parsePublishAt(*req.PublishAt); apierr != nil {
			return nil, apierr
		}
	}

	schedule(news, publishAt, now)
	news.UpdatedAt = now

	if apierr = s.save(ctx, news); apierr != nil {
		return nil, apierr
	}
	return toNewsResponse(news, true), nil
}

func (s *DefaultNewsService) DeleteNews(ctx context.Context, actor *entity.Actor, id int64) apierror.ErrorResponse {
	if apierr := policy.Authorize(actor, entity.CapManageContent); apierr != nil {
		return apierr
	}

	news, apierr := s.load(ctx, id)
	if apierr != nil {
		return apierr
	}

	if err := s.NewsRepo.Delete(ctx, news); err != nil {
		log.Errorf("failed to delete news: %v", err)
		return apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixNews)
	return nil
}

// PublishDue publishes every scheduled news item whose time has come.
// It is run by the news publisher job.
func (s *DefaultNewsService) PublishDue(ctx context.Context) (int64, error) {
	count, err := s.NewsRepo.PublishDue(ctx, s.Now())
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.Cache.Invalidate(ctx, cache.PrefixNews)
	}
	return count, nil
}

func (s *DefaultNewsService) load(ctx context.Context, id int64) (*entity.News, apierror.ErrorResponse) {
	news, err := s.NewsRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch news: %v", err)
		return nil, apierror.InternalServerError
	}

	if news == nil {
		return nil, apierror.NewsNotFoundError
	}
	return news, nil
}

func (s *DefaultNewsService) save(ctx context.Context, news *entity.News) apierror.ErrorResponse {
	err := s.NewsRepo.Save(ctx, news)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.DuplicateSlugError
	}

	if err != nil {
		log.Errorf("failed to save news: %v", err)
		return apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixNews)
	return nil
}

// schedule sets PUBLISHED when publishAt is due and SCHEDULED otherwise.
func schedule(news *entity.News, publishAt, now int64) {
	news.PublishAt = &publishAt
	if publishAt <= now {
		news.Status = entity.NewsPublished
	} else {
		news.Status = entity.NewsScheduled
	}
}

func parsePublishAt(raw string) (int64, apierror.ErrorResponse) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, apierror.NewInvalidFieldValueError("publish_at", raw)
	}
	return t.UTC().UnixMilli(), nil
}

func parseNewsStatus(raw string) (entity.NewsStatus, bool) {
	status := entity.NewsStatus(raw)
	switch status {
	case entity.NewsDraft, entity.NewsScheduled, entity.NewsPublished, entity.NewsArchived:
		return status, true
	}
	return "", false
}

func toNewsResponse(n *entity.News, withBody bool) *contract.NewsResponse {
	resp := &contract.NewsResponse{
		ID:        n.ID,
		Title:     n.Title,
		Slug:      n.Slug,
		Summary:   n.Summary,
		CoverURL:  n.CoverURL,
		Status:    string(n.Status),
		PublishAt: utils.FormatEpochPtr(n.PublishAt),
		CreatedAt: utils.FormatEpoch(n.CreatedAt),
		UpdatedAt: utils.FormatEpoch(n.UpdatedAt),
	}
	if withBody {
		resp.Body = n.Body
	}
	return resp
}
