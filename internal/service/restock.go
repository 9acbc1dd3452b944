package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/access"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

const (
	restockPollInterval = time.Second
	restockBatchSize    = 100
)

// ListRestockAlerts возвращает уведомления о нехватке продукции в филиале менеджера.
func (s *Service) ListRestockAlerts(ctx context.Context, actor model.Actor) ([]model.RestockAlert, error) {
	if !access.Authorize(actor, access.ActionRestockList, actor.Branch) {
		return nil, ErrForbidden
	}
	return s.repo.ListRestockAlerts(ctx, actor.Branch)
}

// StartRestockNotifications отправляет новые уведомления во внешний сервис, пока не отменён ctx.
// Без настроенного Notifier возвращается сразу.
func (s *Service) StartRestockNotifications(ctx context.Context) {
	if s.notifier == nil {
		return
	}

	ticker := time.NewTicker(restockPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.processRestockBatch(ctx)
		}
	}
}

func (s *Service) processRestockBatch(ctx context.Context) {
	alerts, err := s.repo.GetPendingRestockAlerts(ctx, restockBatchSize)
	if err != nil {
		s.logger.Warn("failed to load pending restock alerts", zap.Error(err))
		return
	}

	for _, a := range alerts {
		statusCode, retryAfter, err := s.notifier.SendRestockAlert(ctx, a)
		if err != nil {
			s.logger.Warn("restock alert delivery failed", zap.Error(err), zap.Int64("alertID", a.ID))
			continue
		}

		if statusCode == http.StatusTooManyRequests {
			if retryAfter > 0 {
				timer := time.NewTimer(retryAfter)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
			}
			continue
		}

		if err := s.repo.MarkRestockAlertSent(ctx, a.ID, s.now()); err != nil {
			s.logger.Warn("failed to mark restock alert sent", zap.Error(err), zap.Int64("alertID", a.ID))
		}
	}
}
