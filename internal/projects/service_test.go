package projects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"usinahub/usinahub-backend/pkg/apperrors"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *mockRepository) CreateProject(ctx context.Context, project *Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *mockRepository) GetProject(ctx context.Context, id uint) (*Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func (m *mockRepository) ListProjects(ctx context.Context) ([]Project, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Project), args.Error(1)
}

func (m *mockRepository) UpdateProject(ctx context.Context, project *Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *mockRepository) UpdateProjectPhase(ctx context.Context, id uint, phase string) error {
	args := m.Called(ctx, id, phase)
	return args.Error(0)
}

func (m *mockRepository) DeleteProject(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) CreateActivity(ctx context.Context, activity *PhaseActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *mockRepository) GetActivity(ctx context.Context, id uint) (*PhaseActivity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PhaseActivity), args.Error(1)
}

func (m *mockRepository) GetActivityForUpdate(ctx context.Context, id uint) (*PhaseActivity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PhaseActivity), args.Error(1)
}

func (m *mockRepository) ListActivities(ctx context.Context, projectID uint) ([]PhaseActivity, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]PhaseActivity), args.Error(1)
}

func (m *mockRepository) ListActivitiesByPhase(ctx context.Context, projectID uint, phase string) ([]PhaseActivity, error) {
	args := m.Called(ctx, projectID, phase)
	return args.Get(0).([]PhaseActivity), args.Error(1)
}

func (m *mockRepository) UpdateActivity(ctx context.Context, activity *PhaseActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *mockRepository) DeleteActivity(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) CreateSubtask(ctx context.Context, subtask *PhaseSubtask) error {
	args := m.Called(ctx, subtask)
	return args.Error(0)
}

func (m *mockRepository) GetSubtask(ctx context.Context, id uint) (*PhaseSubtask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PhaseSubtask), args.Error(1)
}

func (m *mockRepository) ListSubtasks(ctx context.Context, activityID uint) ([]PhaseSubtask, error) {
	args := m.Called(ctx, activityID)
	return args.Get(0).([]PhaseSubtask), args.Error(1)
}

func (m *mockRepository) UpdateSubtask(ctx context.Context, subtask *PhaseSubtask) error {
	args := m.Called(ctx, subtask)
	return args.Error(0)
}

func (m *mockRepository) DeleteSubtask(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) CreateComment(ctx context.Context, comment *TaskComment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockRepository) ListComments(ctx context.Context, activityID uint) ([]TaskComment, error) {
	args := m.Called(ctx, activityID)
	return args.Get(0).([]TaskComment), args.Error(1)
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func TestCreateProjectGeneratesDefaultActivities(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("CreateProject", mock.Anything, mock.AnythingOfType("*projects.Project")).Return(nil)

	var created []*PhaseActivity
	repo.On("CreateActivity", mock.Anything, mock.AnythingOfType("*projects.PhaseActivity")).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*PhaseActivity))
		}).Return(nil)

	project, err := svc.Create(context.Background(), ProjectInput{
		Name:      "Lote de flanges",
		StartDate: datePtr("2024-01-01"),
		EndDate:   datePtr("2024-01-31"),
	})

	assert.NoError(t, err)
	assert.Equal(t, PhasePlanejamento, project.Phase)
	assert.Len(t, created, 5)
	for i, activity := range created {
		assert.Equal(t, PhaseOrder[i], activity.Phase)
	}
	// 30 days / 5 phases = 6 days each; last phase absorbs rounding.
	assert.Equal(t, date("2024-01-01"), *created[0].StartDate)
	assert.Equal(t, date("2024-01-07"), *created[1].StartDate)
	assert.Equal(t, date("2024-01-31"), *created[4].EndDate)
}

func TestCreateProjectWithoutDatesSkipsDefaultActivities(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("CreateProject", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(context.Background(), ProjectInput{Name: "Sem cronograma"})

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "CreateActivity", mock.Anything, mock.Anything)
}

func TestToggleSubtaskDerivesActivityDates(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, zap.NewNop())

	activity := &PhaseActivity{ID: 7, ProjectID: 1, Phase: PhaseDesenvolvimento}
	subtask := &PhaseSubtask{ID: 70, ActivityID: 7, StartDate: datePtr("2024-01-05"), EndDate: datePtr("2024-01-10")}

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetSubtask", mock.Anything, uint(70)).Return(subtask, nil)
	repo.On("GetActivityForUpdate", mock.Anything, uint(7)).Return(activity, nil)
	// Register ListSubtasks after UpdateSubtask runs so the snapshot of
	// *subtask reflects the toggled state, as a real repository would.
	repo.On("UpdateSubtask", mock.Anything, subtask).Run(func(mock.Arguments) {
		repo.On("ListSubtasks", mock.Anything, uint(7)).Return([]PhaseSubtask{
			{ID: 69, ActivityID: 7, StartDate: datePtr("2024-01-01"), EndDate: datePtr("2024-01-03"), Completed: false},
			*subtask,
		}, nil)
	}).Return(nil)
	repo.On("UpdateActivity", mock.Anything, activity).Return(nil)

	result, err := svc.ToggleSubtaskCompleted(context.Background(), 70)

	assert.NoError(t, err)
	assert.True(t, result.Subtask.Completed)
	assert.Equal(t, date("2024-01-01"), *result.Activity.StartDate)
	assert.Equal(t, date("2024-01-10"), *result.Activity.EndDate)
	assert.Equal(t, 50, result.Activity.Progress)
	assert.False(t, result.PhaseAdvanced)
}

func TestToggleSubtaskProgressRounding(t *testing.T) {
	cases := []struct {
		completed int
		total     int
		want      int
	}{
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
	}
	for _, tc := range cases {
		repo := new(mockRepository)
		svc := NewService(repo, zap.NewNop())

		activity := &PhaseActivity{ID: 7, ProjectID: 1, Phase: PhaseTestes}
		subtask := &PhaseSubtask{ID: 70, ActivityID: 7}

		subtasks := make([]PhaseSubtask, tc.total)
		for i := range subtasks {
			subtasks[i] = PhaseSubtask{ID: uint(60 + i), ActivityID: 7, Completed: i < tc.completed}
		}

		repo.On("WithTx", mock.Anything).Return(nil)
		repo.On("GetSubtask", mock.Anything, uint(70)).Return(subtask, nil)
		repo.On("GetActivityForUpdate", mock.Anything, uint(7)).Return(activity, nil)
		repo.On("UpdateSubtask", mock.Anything, subtask).Return(nil)
		repo.On("ListSubtasks", mock.Anything, uint(7)).Return(subtasks, nil)
		repo.On("UpdateActivity", mock.Anything, activity).Return(nil)
		repo.On("ListActivitiesByPhase", mock.Anything, uint(1), PhaseTestes).
			Return([]PhaseActivity{{ID: 7, Progress: 100}, {ID: 8, Progress: 40}}, nil)

		result, err := svc.ToggleSubtaskCompleted(context.Background(), 70)

		assert.NoError(t, err)
		assert.Equal(t, tc.want, result.Activity.Progress)
		assert.Equal(t, tc.want == 100, result.Activity.Completed)
	}
}

func TestToggleSubtaskAdvancesPhaseWhenAllActivitiesComplete(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, zap.NewNop())

	activity := &PhaseActivity{ID: 7, ProjectID: 1, Phase: PhaseDesenvolvimento}
	subtask := &PhaseSubtask{ID: 70, ActivityID: 7}

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetSubtask", mock.Anything, uint(70)).Return(subtask, nil)
	repo.On("GetActivityForUpdate", mock.Anything, uint(7)).Return(activity, nil)
	repo.On("UpdateSubtask", mock.Anything, subtask).Return(nil)
	repo.On("ListSubtasks", mock.Anything, uint(7)).Return([]PhaseSubtask{
		{ID: 70, ActivityID: 7, Completed: true},
	}, nil)
	repo.On("UpdateActivity", mock.Anything, activity).Return(nil)
	repo.On("ListActivitiesByPhase", mock.Anything, uint(1), PhaseDesenvolvimento).
		Return([]PhaseActivity{{ID: 7, Progress: 100}}, nil)
	repo.On("UpdateProjectPhase", mock.Anything, uint(1), PhaseTestes).Return(nil)

	result, err := svc.ToggleSubtaskCompleted(context.Background(), 70)

	assert.NoError(t, err)
	assert.True(t, result.PhaseAdvanced)
	assert.Equal(t, PhaseTestes, result.NewPhase)
	repo.AssertCalled(t, "UpdateProjectPhase", mock.Anything, uint(1), PhaseTestes)
}

func TestUncompletingSubtaskNeverRegressesPhase(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, zap.NewNop())

	activity := &PhaseActivity{ID: 7, ProjectID: 1, Phase: PhaseDesenvolvimento, Progress: 100, Completed: true}
	subtask := &PhaseSubtask{ID: 70, ActivityID: 7, Completed: true, CompletedAt: datePtr("2024-02-01")}

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetSubtask", mock.Anything, uint(70)).Return(subtask, nil)
	repo.On("GetActivityForUpdate", mock.Anything, uint(7)).Return(activity, nil)
	repo.On("UpdateSubtask", mock.Anything, subtask).Return(nil)
	repo.On("ListSubtasks", mock.Anything, uint(7)).Return([]PhaseSubtask{
		{ID: 70, ActivityID: 7, Completed: false},
	}, nil)
	repo.On("UpdateActivity", mock.Anything, activity).Return(nil)

	result, err := svc.ToggleSubtaskCompleted(context.Background(), 70)

	assert.NoError(t, err)
	assert.False(t, result.Subtask.Completed)
	assert.Equal(t, 0, result.Activity.Progress)
	assert.False(t, result.PhaseAdvanced)
	repo.AssertNotCalled(t, "UpdateProjectPhase", mock.Anything, mock.Anything, mock.Anything)
}

func TestManualProgressRefusedWithSubtasks(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, zap.NewNop())

	activity := &PhaseActivity{ID: 7, ProjectID: 1, Phase: PhaseTestes}
	progress := 80

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetActivityForUpdate", mock.Anything, uint(7)).Return(activity, nil)
	repo.On("ListSubtasks", mock.Anything, uint(7)).Return([]PhaseSubtask{{ID: 70}}, nil)

	_, err := svc.UpdateActivity(context.Background(), 7, ActivityUpdateInput{Progress: &progress})

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestManualProgressAllowedWithoutSubtasks(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, zap.NewNop())

	activity := &PhaseActivity{ID: 7, ProjectID: 1, Phase: PhaseTestes}
	progress := 100

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetActivityForUpdate", mock.Anything, uint(7)).Return(activity, nil)
	repo.On("ListSubtasks", mock.Anything, uint(7)).Return([]PhaseSubtask{}, nil)
	repo.On("UpdateActivity", mock.Anything, activity).Return(nil)
	repo.On("ListActivitiesByPhase", mock.Anything, uint(1), PhaseTestes).
		Return([]PhaseActivity{{ID: 7, Progress: 100}, {ID: 9, Progress: 10}}, nil)

	updated, err := svc.UpdateActivity(context.Background(), 7, ActivityUpdateInput{Progress: &progress})

	assert.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.True(t, updated.Completed)
	assert.NotNil(t, updated.CompletedAt)
}

func TestSubtaskWithMissingDatesIgnoredInDerivation(t *testing.T) {
	start, end, ok := DeriveActivityDates([]PhaseSubtask{
		{StartDate: datePtr("2024-01-01"), EndDate: datePtr("2024-01-10")},
		{StartDate: datePtr("2023-12-01")},
		{},
	})
	assert.True(t, ok)
	assert.Equal(t, date("2024-01-01"), start)
	assert.Equal(t, date("2024-01-10"), end)

	_, _, ok = DeriveActivityDates([]PhaseSubtask{{}, {StartDate: datePtr("2024-01-01")}})
	assert.False(t, ok)
}

func TestNextPhaseStopsAtFinal(t *testing.T) {
	assert.Equal(t, PhaseDesenvolvimento, NextPhase(PhasePlanejamento))
	assert.Equal(t, PhaseFinalizado, NextPhase(PhaseEntrega))
	assert.Equal(t, PhaseFinalizado, NextPhase(PhaseFinalizado))
}
