package service

import (
	"sync"
	"time"

	"github.com/sesmlabs/fabric/internal/domain"
	"go.uber.org/zap"
)

const defaultSweepInterval = 5 * time.Second

// SweeperService removes expired episodic entries on a schedule.
// Correctness does not depend on it (reads sweep lazily); it only
// bounds how long dead entries occupy memory between reads. Sweep
// failures are impossible by construction and nothing here surfaces
// errors to callers.
type SweeperService struct {
	episodic domain.EpisodicStore
	clock    domain.Clock
	logger   *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewSweeperService(es domain.EpisodicStore, clock domain.Clock, logger *zap.Logger) *SweeperService {
	return &SweeperService{
		episodic: es,
		clock:    clock,
		logger:   logger,
		interval: defaultSweepInterval,
		stopCh:   make(chan struct{}),
	}
}

func (s *SweeperService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the sweeper in a background goroutine.
func (s *SweeperService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("episodic sweeper started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				if removed := s.episodic.Sweep(s.clock.Now()); removed > 0 {
					s.logger.Info("swept expired episodic memories", zap.Int("removed", removed))
				}
			case <-s.stopCh:
				s.logger.Info("episodic sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper.
func (s *SweeperService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}
