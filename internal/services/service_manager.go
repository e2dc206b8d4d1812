package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campus-hub/student-registry/internal/events"
	"github.com/campus-hub/student-registry/internal/repositories"
)

// serviceManager implements ServiceManager
type serviceManager struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher

	student StudentService
	export  ExportService

	mu          sync.RWMutex
	initialized bool
}

func NewDefaultServiceManager(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.repo == nil {
		return fmt.Errorf("repository is required")
	}

	sm.student = NewStudentService(sm.repo, sm.logger, sm.publisher)
	sm.export = NewExportService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("Services initialized")
	return nil
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.student
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.export
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			return fmt.Errorf("failed to close event publisher: %w", err)
		}
	}

	sm.initialized = false
	sm.logger.Info("Services shut down")
	return nil
}
