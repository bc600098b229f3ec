package projects

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// WithTx runs fn inside one database transaction; the Repository
	// passed to fn is bound to that transaction.
	WithTx(ctx context.Context, fn func(Repository) error) error

	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id uint) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	UpdateProject(ctx context.Context, project *Project) error
	UpdateProjectPhase(ctx context.Context, id uint, phase string) error
	DeleteProject(ctx context.Context, id uint) error

	CreateActivity(ctx context.Context, activity *PhaseActivity) error
	GetActivity(ctx context.Context, id uint) (*PhaseActivity, error)
	// GetActivityForUpdate locks the activity row for the duration of the
	// surrounding transaction.
	GetActivityForUpdate(ctx context.Context, id uint) (*PhaseActivity, error)
	ListActivities(ctx context.Context, projectID uint) ([]PhaseActivity, error)
	ListActivitiesByPhase(ctx context.Context, projectID uint, phase string) ([]PhaseActivity, error)
	UpdateActivity(ctx context.Context, activity *PhaseActivity) error
	DeleteActivity(ctx context.Context, id uint) error

	CreateSubtask(ctx context.Context, subtask *PhaseSubtask) error
	GetSubtask(ctx context.Context, id uint) (*PhaseSubtask, error)
	ListSubtasks(ctx context.Context, activityID uint) ([]PhaseSubtask, error)
	UpdateSubtask(ctx context.Context, subtask *PhaseSubtask) error
	DeleteSubtask(ctx context.Context, id uint) error

	CreateComment(ctx context.Context, comment *TaskComment) error
	ListComments(ctx context.Context, activityID uint) ([]TaskComment, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) CreateProject(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *gormRepository) GetProject(ctx context.Context, id uint) (*Project, error) {
	var project Project
	err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("phase_activities.display_order")
		}).
		Preload("Activities.Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("phase_subtasks.display_order")
		}).
		First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &project, err
}

func (r *gormRepository) ListProjects(ctx context.Context) ([]Project, error) {
	var list []Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *gormRepository) UpdateProject(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *gormRepository) UpdateProjectPhase(ctx context.Context, id uint, phase string) error {
	return r.db.WithContext(ctx).Model(&Project{}).Where("id = ?", id).Update("phase", phase).Error
}

func (r *gormRepository) DeleteProject(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Project{}, id).Error
}

func (r *gormRepository) CreateActivity(ctx context.Context, activity *PhaseActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *gormRepository) GetActivity(ctx context.Context, id uint) (*PhaseActivity, error) {
	var activity PhaseActivity
	err := r.db.WithContext(ctx).First(&activity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &activity, err
}

func (r *gormRepository) GetActivityForUpdate(ctx context.Context, id uint) (*PhaseActivity, error) {
	var activity PhaseActivity
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&activity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &activity, err
}

func (r *gormRepository) ListActivities(ctx context.Context, projectID uint) ([]PhaseActivity, error) {
	var list []PhaseActivity
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("display_order").
		Find(&list).Error
	return list, err
}

func (r *gormRepository) ListActivitiesByPhase(ctx context.Context, projectID uint, phase string) ([]PhaseActivity, error) {
	var list []PhaseActivity
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND phase = ?", projectID, phase).
		Order("display_order").
		Find(&list).Error
	return list, err
}

func (r *gormRepository) UpdateActivity(ctx context.Context, activity *PhaseActivity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *gormRepository) DeleteActivity(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&PhaseSubtask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", id).Delete(&TaskComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&PhaseActivity{}, id).Error
	})
}

func (r *gormRepository) CreateSubtask(ctx context.Context, subtask *PhaseSubtask) error {
	return r.db.WithContext(ctx).Create(subtask).Error
}

func (r *gormRepository) GetSubtask(ctx context.Context, id uint) (*PhaseSubtask, error) {
	var subtask PhaseSubtask
	err := r.db.WithContext(ctx).First(&subtask, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &subtask, err
}

func (r *gormRepository) ListSubtasks(ctx context.Context, activityID uint) ([]PhaseSubtask, error) {
	var list []PhaseSubtask
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("display_order").
		Find(&list).Error
	return list, err
}

func (r *gormRepository) UpdateSubtask(ctx context.Context, subtask *PhaseSubtask) error {
	return r.db.WithContext(ctx).Save(subtask).Error
}

func (r *gormRepository) DeleteSubtask(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&PhaseSubtask{}, id).Error
}

func (r *gormRepository) CreateComment(ctx context.Context, comment *TaskComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *gormRepository) ListComments(ctx context.Context, activityID uint) ([]TaskComment, error) {
	var list []TaskComment
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at").
		Find(&list).Error
	return list, err
}
