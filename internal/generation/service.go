// Package generation serves personalized product images: it reports whether
// one exists for a shopper, and generates missing ones in the background.
package generation

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/wichananm65/pet-shop-storefront/internal/product"
	"github.com/wichananm65/pet-shop-storefront/internal/user"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Trigger outcomes.
const (
	StatusStarted       = "generation_started"
	StatusAlreadyExists = "already_exists"
	StatusSkipped       = "skipped"
)

var ErrProductNotFound = errors.New("product not found")

// Status answers GET /products/{id}/personalized-image.
type Status struct {
	HasPersonalizedImage    bool    `json:"has_personalized_image"`
	PersonalizedImageURL    *string `json:"personalized_image_url"`
	IsGenerating            bool    `json:"is_generating"`
	OriginalImageURL        string  `json:"original_image_url"`
	ReadyForPersonalization bool    `json:"ready_for_personalization,omitempty"`
	AuthenticationRequired  bool    `json:"authentication_required,omitempty"`
	ProfileImageRequired    bool    `json:"profile_image_required,omitempty"`
}

// Result answers POST /products/{id}/generate-personalized-image.
type Result struct {
	Status               string `json:"status"`
	PersonalizedImageURL string `json:"personalized_image_url,omitempty"`
	Message              string `json:"message,omitempty"`
	EstimatedTime        string `json:"estimated_time,omitempty"`
	OriginalImageURL     string `json:"original_image_url,omitempty"`
	JobID                string `json:"job_id,omitempty"`
}

type ProductLookup interface {
	GetByID(id int) (product.Product, error)
}

type UserLookup interface {
	GetByID(id int) (user.User, error)
}

type Options struct {
	// StaticDir is the filesystem root behind the /static URL prefix.
	StaticDir     string
	MaxConcurrent int64
	Logger        *zap.Logger
}

type Service struct {
	cache    *Cache
	gen      Generator
	products ProductLookup
	users    UserLookup
	opts     Options
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted
	wg     sync.WaitGroup

	mu   sync.Mutex
	jobs map[string]string // cache key -> job id
}

func NewService(cache *Cache, gen Generator, products ProductLookup, users UserLookup, opts Options) *Service {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cache:    cache,
		gen:      gen,
		products: products,
		users:    users,
		opts:     opts,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		sem:      semaphore.NewWeighted(opts.MaxConcurrent),
		jobs:     map[string]string{},
	}
}

// Status reports the personalized image state of productID for userID.
// A zero userID means an anonymous caller.
func (s *Service) Status(userID, productID int) (Status, error) {
	p, err := s.products.GetByID(productID)
	if err != nil {
		return Status{}, ErrProductNotFound
	}
	st := Status{OriginalImageURL: p.Image}
	if userID == 0 {
		st.AuthenticationRequired = true
		return st, nil
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		st.AuthenticationRequired = true
		return st, nil
	}
	if u.Image == nil || *u.Image == "" {
		st.ProfileImageRequired = true
		return st, nil
	}

	if url, ok := s.cache.Lookup(userID, productID); ok {
		st.HasPersonalizedImage = true
		st.PersonalizedImageURL = &url
		st.ReadyForPersonalization = true
		return st, nil
	}
	if s.generating(userID, productID) {
		st.IsGenerating = true
		return st, nil
	}
	st.ReadyForPersonalization = true
	return st, nil
}

// Trigger starts background generation unless the image exists, is already
// being generated, or the caller cannot be personalized.
func (s *Service) Trigger(userID, productID int) (Result, error) {
	p, err := s.products.GetByID(productID)
	if err != nil {
		return Result{}, ErrProductNotFound
	}
	if userID == 0 {
		return Result{Status: StatusSkipped, Message: "User not logged in - personalized image generation skipped", OriginalImageURL: p.Image}, nil
	}
	u, err := s.users.GetByID(userID)
	if err != nil || u.Image == nil || *u.Image == "" {
		return Result{Status: StatusSkipped, Message: "Profile image required for personalization", OriginalImageURL: p.Image}, nil
	}
	if url, ok := s.cache.Lookup(userID, productID); ok {
		return Result{Status: StatusAlreadyExists, PersonalizedImageURL: url, Message: "Personalized image already exists"}, nil
	}

	key := Key(userID, productID)
	s.mu.Lock()
	jobID, running := s.jobs[key]
	if !running {
		jobID = uuid.NewString()
		s.jobs[key] = jobID
	}
	s.mu.Unlock()

	if !running {
		s.wg.Add(1)
		go s.run(jobID, userID, productID, s.localPath(*u.Image), s.localPath(p.Image))
	}
	return Result{
		Status:        StatusStarted,
		Message:       "Personalized image generation started",
		EstimatedTime: "30-60 seconds",
		JobID:         jobID,
	}, nil
}

func (s *Service) run(jobID string, userID, productID int, avatarPath, productPath string) {
	defer s.wg.Done()
	defer s.finish(userID, productID)

	log := s.logger.With(zap.String("job_id", jobID), zap.Int("user_id", userID), zap.Int("product_id", productID))
	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		log.Debug("generation abandoned", zap.Error(err))
		return
	}
	defer s.sem.Release(1)

	if _, ok := s.cache.Lookup(userID, productID); ok {
		log.Debug("image already cached")
		return
	}
	log.Info("generating personalized image", zap.String("avatar", avatarPath), zap.String("product", productPath))
	if err := s.gen.Generate(s.ctx, avatarPath, productPath, s.cache.Path(userID, productID)); err != nil {
		log.Warn("image generation failed", zap.Error(err))
		return
	}
	log.Info("personalized image ready", zap.String("url", s.cache.URL(userID, productID)))
}

func (s *Service) generating(userID, productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[Key(userID, productID)]
	return ok
}

func (s *Service) finish(userID, productID int) {
	s.mu.Lock()
	delete(s.jobs, Key(userID, productID))
	s.mu.Unlock()
}

// localPath resolves a /static/... URL to a file under StaticDir.
func (s *Service) localPath(url string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(url, "/"), "static/")
	return filepath.Join(s.opts.StaticDir, filepath.FromSlash(rel))
}

// ForgetProduct drops every cached image of productID, so the next check
// generates a fresh one.
func (s *Service) ForgetProduct(productID int) error {
	if err := s.cache.ClearProduct(productID); err != nil {
		return err
	}
	s.logger.Debug("cleared cached images", zap.Int("product_id", productID))
	return nil
}

// ForgetUser drops every cached image generated for userID.
func (s *Service) ForgetUser(userID int) error {
	if err := s.cache.ClearUser(userID); err != nil {
		return err
	}
	s.logger.Debug("cleared cached images", zap.Int("user_id", userID))
	return nil
}

// Wait blocks until every running generation has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close cancels pending generations and waits for running ones.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}
