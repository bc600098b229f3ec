package projects

import (
	"context"
	"time"

	"go.uber.org/zap"

	"usinahub/usinahub-backend/pkg/apperrors"
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type ProjectInput struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	ClientID    *uint      `json:"client_id"`
	LeaderID    *uint      `json:"leader_id"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      int64      `json:"budget"`
}

// Create creates a project in the planning phase. When both dates are
// given, one default activity per phase is created with the day span
// partitioned evenly across the five phases.
func (s *Service) Create(ctx context.Context, input ProjectInput) (*Project, error) {
	status := input.Status
	if status == "" {
		status = StatusAtivo
	}
	project := &Project{
		Name:        input.Name,
		Description: input.Description,
		ClientID:    input.ClientID,
		LeaderID:    input.LeaderID,
		Phase:       PhasePlanejamento,
		Status:      status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Budget:      input.Budget,
	}

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		if err := tx.CreateProject(ctx, project); err != nil {
			return err
		}
		if input.StartDate != nil && input.EndDate != nil {
			for i, span := range PartitionPhases(*input.StartDate, *input.EndDate) {
				start, end := span.Start, span.End
				activity := &PhaseActivity{
					ProjectID:    project.ID,
					Name:         "Atividade de " + span.Phase,
					Phase:        span.Phase,
					StartDate:    &start,
					EndDate:      &end,
					DisplayOrder: i,
				}
				if err := tx.CreateActivity(ctx, activity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Project, error) {
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperrors.NotFound("projeto não encontrado")
	}
	return project, nil
}

func (s *Service) List(ctx context.Context) ([]Project, error) {
	return s.repo.ListProjects(ctx)
}

func (s *Service) Update(ctx context.Context, id uint, input ProjectInput) (*Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Name = input.Name
	project.Description = input.Description
	project.ClientID = input.ClientID
	project.LeaderID = input.LeaderID
	if input.Status != "" {
		project.Status = input.Status
	}
	project.StartDate = input.StartDate
	project.EndDate = input.EndDate
	project.Budget = input.Budget
	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteProject(ctx, id)
}

type ActivityInput struct {
	Name         string     `json:"name" binding:"required"`
	Phase        string     `json:"phase" binding:"required"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	DisplayOrder int        `json:"display_order"`
	AssigneeID   *uint      `json:"assignee_id"`
}

func validPhase(phase string) bool {
	for _, p := range PhaseOrder {
		if p == phase {
			return true
		}
	}
	return false
}

func (s *Service) CreateActivity(ctx context.Context, projectID uint, input ActivityInput) (*PhaseActivity, error) {
	if !validPhase(input.Phase) {
		return nil, apperrors.Validation("fase inválida")
	}
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	activity := &PhaseActivity{
		ProjectID:    projectID,
		Name:         input.Name,
		Phase:        input.Phase,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		DisplayOrder: input.DisplayOrder,
		AssigneeID:   input.AssigneeID,
	}
	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *Service) getActivity(ctx context.Context, repo Repository, id uint) (*PhaseActivity, error) {
	activity, err := repo.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, apperrors.NotFound("atividade não encontrada")
	}
	return activity, nil
}

type ActivityUpdateInput struct {
	Name         *string    `json:"name"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Progress     *int       `json:"progress"`
	Completed    *bool      `json:"completed"`
	DisplayOrder *int       `json:"display_order"`
	AssigneeID   *uint      `json:"assignee_id"`
}

// UpdateActivity applies a partial update. Progress, completion and dates
// may only be set directly while the activity has no subtasks; with
// subtasks present they are derived and direct writes are refused.
func (s *Service) UpdateActivity(ctx context.Context, id uint, input ActivityUpdateInput) (*PhaseActivity, error) {
	var updated *PhaseActivity
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		activity, err := tx.GetActivityForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if activity == nil {
			return apperrors.NotFound("atividade não encontrada")
		}

		subtasks, err := tx.ListSubtasks(ctx, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			activity.Name = *input.Name
		}
		if input.DisplayOrder != nil {
			activity.DisplayOrder = *input.DisplayOrder
		}
		if input.AssigneeID != nil {
			activity.AssigneeID = input.AssigneeID
		}
		if len(subtasks) == 0 {
			if input.StartDate != nil {
				activity.StartDate = input.StartDate
			}
			if input.EndDate != nil {
				activity.EndDate = input.EndDate
			}
			if input.Progress != nil {
				p := *input.Progress
				if p < 0 || p > 100 {
					return apperrors.Validation("progresso deve estar entre 0 e 100")
				}
				activity.Progress = p
				activity.Completed = p == 100
				if activity.Completed {
					now := time.Now()
					activity.CompletedAt = &now
				} else {
					activity.CompletedAt = nil
				}
			}
			if input.Completed != nil {
				activity.Completed = *input.Completed
				if *input.Completed {
					activity.Progress = 100
					now := time.Now()
					activity.CompletedAt = &now
				} else {
					activity.CompletedAt = nil
				}
			}
		} else if input.Progress != nil || input.Completed != nil {
			return apperrors.Validation("progresso é derivado das subtarefas desta atividade")
		}

		if err := tx.UpdateActivity(ctx, activity); err != nil {
			return err
		}

		if activity.Completed {
			if _, err := s.advancePhaseLocked(ctx, tx, activity.ProjectID, activity.Phase); err != nil {
				return err
			}
		}

		updated = activity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteActivity(ctx context.Context, id uint) error {
	activity, err := s.getActivity(ctx, s.repo, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteActivity(ctx, activity.ID)
}

type SubtaskInput struct {
	Name         string     `json:"name" binding:"required"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	DisplayOrder int        `json:"display_order"`
	AssigneeID   *uint      `json:"assignee_id"`
}

// CreateSubtask adds a subtask and re-derives the parent activity's dates
// and progress in the same transaction.
func (s *Service) CreateSubtask(ctx context.Context, activityID uint, input SubtaskInput) (*PhaseSubtask, error) {
	var subtask *PhaseSubtask
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		activity, err := tx.GetActivityForUpdate(ctx, activityID)
		if err != nil {
			return err
		}
		if activity == nil {
			return apperrors.NotFound("atividade não encontrada")
		}

		subtask = &PhaseSubtask{
			ActivityID:   activityID,
			Name:         input.Name,
			StartDate:    input.StartDate,
			EndDate:      input.EndDate,
			DisplayOrder: input.DisplayOrder,
			AssigneeID:   input.AssigneeID,
		}
		if err := tx.CreateSubtask(ctx, subtask); err != nil {
			return err
		}
		return s.rederiveActivityLocked(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}
	return subtask, nil
}

type SubtaskUpdateInput struct {
	Name         *string    `json:"name"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	DisplayOrder *int       `json:"display_order"`
	AssigneeID   *uint      `json:"assignee_id"`
}

func (s *Service) UpdateSubtask(ctx context.Context, id uint, input SubtaskUpdateInput) (*PhaseSubtask, error) {
	var updated *PhaseSubtask
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		subtask, err := tx.GetSubtask(ctx, id)
		if err != nil {
			return err
		}
		if subtask == nil {
			return apperrors.NotFound("subtarefa não encontrada")
		}

		activity, err := tx.GetActivityForUpdate(ctx, subtask.ActivityID)
		if err != nil {
			return err
		}
		if activity == nil {
			return apperrors.NotFound("atividade não encontrada")
		}

		if input.Name != nil {
			subtask.Name = *input.Name
		}
		if input.StartDate != nil {
			subtask.StartDate = input.StartDate
		}
		if input.EndDate != nil {
			subtask.EndDate = input.EndDate
		}
		if input.DisplayOrder != nil {
			subtask.DisplayOrder = *input.DisplayOrder
		}
		if input.AssigneeID != nil {
			subtask.AssigneeID = input.AssigneeID
		}
		if err := tx.UpdateSubtask(ctx, subtask); err != nil {
			return err
		}

		updated = subtask
		return s.rederiveActivityLocked(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteSubtask(ctx context.Context, id uint) error {
	return s.repo.WithTx(ctx, func(tx Repository) error {
		subtask, err := tx.GetSubtask(ctx, id)
		if err != nil {
			return err
		}
		if subtask == nil {
			return apperrors.NotFound("subtarefa não encontrada")
		}

		activity, err := tx.GetActivityForUpdate(ctx, subtask.ActivityID)
		if err != nil {
			return err
		}
		if activity == nil {
			return apperrors.NotFound("atividade não encontrada")
		}

		if err := tx.DeleteSubtask(ctx, id); err != nil {
			return err
		}
		return s.rederiveActivityLocked(ctx, tx, activity)
	})
}

// ToggleResult reports the state after a subtask completion toggle.
type ToggleResult struct {
	Subtask       *PhaseSubtask  `json:"subtask"`
	Activity      *PhaseActivity `json:"activity"`
	PhaseAdvanced bool           `json:"phase_advanced"`
	NewPhase      string         `json:"new_phase,omitempty"`
}

// ToggleSubtaskCompleted flips the subtask's completed bit, re-derives
// the parent activity's progress and completion, and advances the project
// phase when every activity in the current phase reached 100%. The whole
// operation runs in one transaction with the activity row locked.
func (s *Service) ToggleSubtaskCompleted(ctx context.Context, id uint) (*ToggleResult, error) {
	result := &ToggleResult{}
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		subtask, err := tx.GetSubtask(ctx, id)
		if err != nil {
			return err
		}
		if subtask == nil {
			return apperrors.NotFound("subtarefa não encontrada")
		}

		activity, err := tx.GetActivityForUpdate(ctx, subtask.ActivityID)
		if err != nil {
			return err
		}
		if activity == nil {
			return apperrors.NotFound("atividade não encontrada")
		}

		subtask.Completed = !subtask.Completed
		if subtask.Completed {
			now := time.Now()
			subtask.CompletedAt = &now
		} else {
			subtask.CompletedAt = nil
		}
		if err := tx.UpdateSubtask(ctx, subtask); err != nil {
			return err
		}

		if err := s.rederiveActivityLocked(ctx, tx, activity); err != nil {
			return err
		}

		if activity.Completed {
			advanced, err := s.advancePhaseLocked(ctx, tx, activity.ProjectID, activity.Phase)
			if err != nil {
				return err
			}
			result.PhaseAdvanced = advanced
			if advanced {
				result.NewPhase = NextPhase(activity.Phase)
			}
		}

		result.Subtask = subtask
		result.Activity = activity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecalculateActivityDates re-derives one activity's date span from its
// subtasks. No-op when the activity has no subtask with both dates set.
func (s *Service) RecalculateActivityDates(ctx context.Context, activityID uint) error {
	return s.repo.WithTx(ctx, func(tx Repository) error {
		activity, err := tx.GetActivityForUpdate(ctx, activityID)
		if err != nil {
			return err
		}
		if activity == nil {
			return apperrors.NotFound("atividade não encontrada")
		}
		return s.rederiveActivityLocked(ctx, tx, activity)
	})
}

// ReconcileSchedules re-derives dates and progress for every activity.
// Runs nightly as a safety net; activities without subtasks are left
// untouched by the derivation.
func (s *Service) ReconcileSchedules(ctx context.Context) error {
	list, err := s.repo.ListProjects(ctx)
	if err != nil {
		return err
	}
	for _, project := range list {
		activities, err := s.repo.ListActivities(ctx, project.ID)
		if err != nil {
			return err
		}
		for _, activity := range activities {
			if err := s.RecalculateActivityDates(ctx, activity.ID); err != nil {
				s.logger.Warn("schedule reconciliation failed",
					zap.Uint("activity_id", activity.ID),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// rederiveActivityLocked recomputes dates, progress and completion from
// the activity's subtasks. The caller must hold the activity row lock.
// Activities without subtasks keep their user-set values.
func (s *Service) rederiveActivityLocked(ctx context.Context, tx Repository, activity *PhaseActivity) error {
	subtasks, err := tx.ListSubtasks(ctx, activity.ID)
	if err != nil {
		return err
	}
	if len(subtasks) == 0 {
		return nil
	}

	if start, end, ok := DeriveActivityDates(subtasks); ok {
		activity.StartDate = &start
		activity.EndDate = &end
	}

	completedCount := 0
	for _, st := range subtasks {
		if st.Completed {
			completedCount++
		}
	}
	activity.Progress = DeriveProgress(completedCount, len(subtasks))
	wasCompleted := activity.Completed
	activity.Completed = activity.Progress == 100
	if activity.Completed && !wasCompleted {
		now := time.Now()
		activity.CompletedAt = &now
	} else if !activity.Completed {
		activity.CompletedAt = nil
	}

	return tx.UpdateActivity(ctx, activity)
}

// advancePhaseLocked moves the project to the next phase when every
// activity in currentPhase is at 100%. Returns whether it advanced.
func (s *Service) advancePhaseLocked(ctx context.Context, tx Repository, projectID uint, currentPhase string) (bool, error) {
	activities, err := tx.ListActivitiesByPhase(ctx, projectID, currentPhase)
	if err != nil {
		return false, err
	}
	for _, a := range activities {
		if a.Progress != 100 {
			return false, nil
		}
	}

	next := NextPhase(currentPhase)
	if next == currentPhase {
		return false, nil
	}
	if err := tx.UpdateProjectPhase(ctx, projectID, next); err != nil {
		return false, err
	}
	s.logger.Info("project phase advanced",
		zap.Uint("project_id", projectID),
		zap.String("from", currentPhase),
		zap.String("to", next),
	)
	return true, nil
}

type CommentInput struct {
	Content string `json:"content" binding:"required"`
}

func (s *Service) AddComment(ctx context.Context, activityID, authorID uint, authorName string, input CommentInput) (*TaskComment, error) {
	if _, err := s.getActivity(ctx, s.repo, activityID); err != nil {
		return nil, err
	}
	comment := &TaskComment{
		ActivityID: activityID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Content:    input.Content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, activityID uint) ([]TaskComment, error) {
	return s.repo.ListComments(ctx, activityID)
}

func (s *Service) ListActivities(ctx context.Context, projectID uint) ([]PhaseActivity, error) {
	return s.repo.ListActivities(ctx, projectID)
}

func (s *Service) ListSubtasks(ctx context.Context, activityID uint) ([]PhaseSubtask, error) {
	return s.repo.ListSubtasks(ctx, activityID)
}
