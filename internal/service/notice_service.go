package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/observability"
	"github.com/karierni-denik/denik-api/internal/repository"
)

func noticeCacheKey(page, pageSize int) string {
	return fmt.Sprintf("notices:page:%d:size:%d", page, pageSize)
}

// NoticeService runs the school-wide notice board. Every authenticated user
// can read; teachers post, and only the author or an admin may edit or
// remove an entry.
type NoticeService interface {
	List(ctx context.Context, page, pageSize int) (dto.NoticeListResponse, error)
	Create(ctx context.Context, payload dto.NoticeCreateRequest, actor Actor) (dto.NoticeResponse, error)
	Update(ctx context.Context, id uint, payload dto.NoticeUpdateRequest, actor Actor) (dto.NoticeResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type noticeService struct {
	notices   repository.NoticeRepository
	events    EventPublisher
	cache     *redis.Client
	cacheTTL  time.Duration
	policy    *bluemonday.Policy
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewNoticeService constructs a NoticeService instance.
func NewNoticeService(notices repository.NoticeRepository, events EventPublisher, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) NoticeService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("u", "mark")
	return &noticeService{
		notices:   notices,
		events:    events,
		cache:     cache,
		cacheTTL:  cacheTTL,
		policy:    policy,
		validator: validate,
		logger:    logger.With().Str("component", "notice_service").Logger(),
		now:       time.Now,
	}
}

func (s *noticeService) List(ctx context.Context, page, pageSize int) (dto.NoticeListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	cacheKey := noticeCacheKey(page, pageSize)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.NoticeListResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				observability.NoticeCacheRequests().WithLabelValues("hit").Inc()
				response.CacheHit = true
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read notice cache")
		}
		observability.NoticeCacheRequests().WithLabelValues("miss").Inc()
	}

	notices, total, err := s.notices.List(ctx, repository.NoticeFilter{Page: page, PageSize: pageSize})
	if err != nil {
		return dto.NoticeListResponse{}, err
	}

	response := dto.NoticeListResponse{
		Notices: dto.NewNoticeResponseSlice(notices),
		Total:   total,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store notice cache")
			}
		}
	}

	return response, nil
}

func (s *noticeService) Create(ctx context.Context, payload dto.NoticeCreateRequest, actor Actor) (dto.NoticeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NoticeResponse{}, err
	}
	if !actor.IsTeacher() {
		return dto.NoticeResponse{}, ErrAccessDenied
	}

	notice := models.Notice{
		AuthorID:    actor.ID,
		Title:       payload.Title,
		Body:        s.policy.Sanitize(payload.Body),
		Pinned:      payload.Pinned,
		PublishedAt: s.now(),
	}
	if err := s.notices.Create(ctx, &notice); err != nil {
		return dto.NoticeResponse{}, err
	}
	s.invalidate(ctx)

	if s.events != nil {
		s.events.Publish("notices.posted", map[string]interface{}{
			"notice_id": notice.ID,
			"title":     notice.Title,
			"pinned":    notice.Pinned,
		})
	}

	stored, err := s.notices.GetByID(ctx, notice.ID)
	if err != nil {
		return dto.NoticeResponse{}, err
	}
	s.logger.Info().Uint("notice_id", notice.ID).Msg("notice posted")
	return dto.NewNoticeResponse(stored), nil
}

func (s *noticeService) Update(ctx context.Context, id uint, payload dto.NoticeUpdateRequest, actor Actor) (dto.NoticeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NoticeResponse{}, err
	}
	notice, err := s.requireAuthored(ctx, id, actor)
	if err != nil {
		return dto.NoticeResponse{}, err
	}

	if payload.Title != nil {
		notice.Title = *payload.Title
	}
	if payload.Body != nil {
		notice.Body = s.policy.Sanitize(*payload.Body)
	}
	if payload.Pinned != nil {
		notice.Pinned = *payload.Pinned
	}
	if err := s.notices.Update(ctx, &notice); err != nil {
		return dto.NoticeResponse{}, err
	}
	s.invalidate(ctx)

	return dto.NewNoticeResponse(notice), nil
}

func (s *noticeService) Delete(ctx context.Context, id uint, actor Actor) error {
	if _, err := s.requireAuthored(ctx, id, actor); err != nil {
		return err
	}
	if err := s.notices.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(ctx)
	s.logger.Info().Uint("notice_id", id).Msg("notice removed")
	return nil
}

func (s *noticeService) requireAuthored(ctx context.Context, id uint, actor Actor) (models.Notice, error) {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Notice{}, ErrNotFound
		}
		return models.Notice{}, err
	}
	if notice.AuthorID != actor.ID && !actor.IsAdmin() {
		return models.Notice{}, ErrAccessDenied
	}
	return notice, nil
}

// invalidate drops every cached page. Scanning by prefix keeps the key
// schema in one place instead of tracking which pages were populated.
func (s *noticeService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, "notices:page:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", iter.Val()).Msg("failed to invalidate notice cache")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("notice cache scan failed")
	}
}
