package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"usinahub/usinahub-backend/internal/mailer"
	"usinahub/usinahub-backend/internal/procurement"
	"usinahub/usinahub-backend/internal/team"
	"usinahub/usinahub-backend/pkg/apperrors"
	"usinahub/usinahub-backend/pkg/workflows"
)

// Pusher delivers real-time payloads to connected clients.
type Pusher interface {
	SendToUser(userID uint, msg PushMessage)
}

// Service persists notifications and fans them out over websocket and
// email. It implements the procurement transition hook.
type Service struct {
	db     *gorm.DB
	pusher Pusher
	mail   mailer.Mailer
	team   *team.Service
	logger *zap.Logger
}

func NewService(db *gorm.DB, pusher Pusher, mail mailer.Mailer, teamService *team.Service, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		pusher: pusher,
		mail:   mail,
		team:   teamService,
		logger: logger,
	}
}

// NotifyTransition alerts every team member holding the hierarchy level
// required for the material's new status. Failures are logged, never
// propagated: the workflow transition already committed.
func (s *Service) NotifyTransition(ctx context.Context, material *procurement.ProjectMaterial, fromStatus, toStatus, nextLevel string) {
	members, err := s.team.ListByLevel(ctx, nextLevel)
	if err != nil {
		s.logger.Error("listing approvers for notification", zap.String("level", nextLevel), zap.Error(err))
		return
	}

	title := "Material aguardando aprovação"
	message := fmt.Sprintf("O material %q aguarda aprovação do nível %s.",
		material.ItemName, workflows.LevelLabel(nextLevel))
	metadata, _ := json.Marshal(map[string]any{
		"material_id": material.ID,
		"project_id":  material.ProjectID,
		"from_status": fromStatus,
		"to_status":   toStatus,
	})

	for _, member := range members {
		if member.UserID != nil {
			notification := &Notification{
				UserID:   *member.UserID,
				Type:     TypeApprovalPending,
				Title:    title,
				Message:  message,
				Metadata: metadata,
			}
			if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
				s.logger.Error("persisting notification", zap.Uint("user_id", *member.UserID), zap.Error(err))
				continue
			}
			s.pusher.SendToUser(*member.UserID, PushMessage{
				Type:      TypeApprovalPending,
				Title:     title,
				Message:   message,
				Metadata:  metadata,
				Timestamp: time.Now(),
			})
		}

		if member.Email != "" {
			body := fmt.Sprintf("<p>%s</p><p>Acesse o sistema para aprovar ou rejeitar.</p>", message)
			if err := s.mail.Send(ctx, member.Email, title, body); err != nil {
				s.logger.Warn("sending approval email", zap.String("to", member.Email), zap.Error(err))
			}
		}
	}
}

func (s *Service) ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]Notification, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	var list []Notification
	err := query.Order("created_at DESC").Limit(100).Find(&list).Error
	return list, err
}

func (s *Service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID uint) error {
	result := s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("notificação não encontrada")
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
