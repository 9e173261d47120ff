package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"finsight/internal/assistant/config"
	"finsight/internal/assistant/dto"
	"finsight/internal/assistant/parser"
	"finsight/internal/assistant/repository"
	"finsight/pkg/common"
	"finsight/pkg/logger"
	"finsight/pkg/redis"
)

// ErrAllProvidersExhausted means both the primary and the secondary AI
// provider failed for a query.
var ErrAllProvidersExhausted = errors.New("all AI providers exhausted")

// UserFacingErrorMessage is the only error text shown to end users when every
// provider fails. Internal errors are never surfaced in raw form.
const UserFacingErrorMessage = "Unable to process your query at this time. Please try again later."

// QueryService answers free-text financial questions: primary provider first,
// the secondary on failure, a fixed error when both fail.
type QueryService interface {
	Query(ctx context.Context, query string) (*dto.QueryResponse, error)
	LatestResult() (*dto.QueryResponse, bool)
}

type queryService struct {
	cfg       *config.Config
	logger    *logger.Logger
	primary   repository.AIRepository
	secondary repository.AIRepository
	finnhub   repository.FinnhubRepository
	redis     *redis.Client

	// issued grows on every submit; a completion is applied to the latest
	// result slot only while its number is still the latest issued, which
	// discards stale responses from superseded requests.
	issued uint64
	mu     sync.RWMutex
	latest *dto.QueryResponse
}

// NewQueryService creates the free-text query flow. The finnhub repository
// and redis client are optional: without finnhub the symbol prompt carries no
// live context block, without redis responses are not cached.
func NewQueryService(cfg *config.Config, log *logger.Logger, primary, secondary repository.AIRepository, finnhub repository.FinnhubRepository, redisClient *redis.Client) QueryService {
	return &queryService{
		cfg:       cfg,
		logger:    log,
		primary:   primary,
		secondary: secondary,
		finnhub:   finnhub,
		redis:     redisClient,
	}
}

// Query runs the full flow for one question. The primary attempt fully
// resolves before the secondary begins; a new submit while a previous one is
// in flight is allowed to race, the sequence number settles the slot.
func (s *queryService) Query(ctx context.Context, query string) (*dto.QueryResponse, error) {
	seq := atomic.AddUint64(&s.issued, 1)

	symbol := parser.ExtractStockSymbol(query)

	if cached, ok := s.cacheGet(ctx, query); ok {
		s.apply(seq, cached)
		return cached, nil
	}

	var prompt string
	if symbol != "" {
		prompt = repository.BuildSymbolAnalysisPrompt(query, symbol, s.buildStockContext(ctx, symbol))
	} else {
		prompt = repository.BuildGeneralQueryPrompt(query)
	}

	content, providerName, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	content, sources := parser.ExtractSources(content)
	sections := parser.SplitSections(content)

	cards := make([]dto.Card, 0, len(sections))
	for _, section := range sections {
		cards = append(cards, dto.Card{Title: section.Title, Body: section.Body})
	}

	resp := &dto.QueryResponse{
		Symbol:     symbol,
		Content:    content,
		Sources:    sources,
		Cards:      cards,
		Provider:   providerName,
		AnsweredAt: time.Now(),
	}

	s.apply(seq, resp)
	s.cacheSet(ctx, query, resp)

	return resp, nil
}

// LatestResult returns the last applied query response, if any.
func (s *queryService) LatestResult() (*dto.QueryResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, false
	}
	return s.latest, true
}

func (s *queryService) generate(ctx context.Context, prompt string) (string, string, error) {
	content, err := s.primary.Generate(ctx, prompt)
	if err == nil {
		return content, s.primary.Name(), nil
	}

	s.logger.Warn("Primary AI provider failed, falling back",
		logger.StringField("provider", s.primary.Name()),
		logger.ErrorField(err),
	)

	if s.secondary == nil {
		return "", "", fmt.Errorf("%w: %v", ErrAllProvidersExhausted, err)
	}

	content, err = s.secondary.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("Secondary AI provider failed",
			logger.StringField("provider", s.secondary.Name()),
			logger.ErrorField(err),
		)
		return "", "", fmt.Errorf("%w: %v", ErrAllProvidersExhausted, err)
	}

	return content, s.secondary.Name(), nil
}

func (s *queryService) apply(seq uint64, resp *dto.QueryResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != atomic.LoadUint64(&s.issued) {
		s.logger.Debug("Discarding stale query result", logger.IntField("seq", int(seq)))
		return
	}
	s.latest = resp
}

func (s *queryService) cacheGet(ctx context.Context, query string) (*dto.QueryResponse, bool) {
	if s.redis == nil {
		return nil, false
	}
	raw, err := s.redis.Get(ctx, queryCacheKey(query)).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.QueryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (s *queryService) cacheSet(ctx context.Context, query string, resp *dto.QueryResponse) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, queryCacheKey(query), raw, s.cfg.Assistant.QueryCacheTTL).Err(); err != nil {
		s.logger.Debug("Failed to cache query response", logger.ErrorField(err))
	}
}

func queryCacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return common.RedisKeyQueryPrefix + hex.EncodeToString(sum[:])
}
