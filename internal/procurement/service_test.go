package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"usinahub/usinahub-backend/pkg/apperrors"
	"usinahub/usinahub-backend/pkg/workflows"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *mockRepository) CreateMaterial(ctx context.Context, material *ProjectMaterial) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *mockRepository) GetMaterial(ctx context.Context, id uint) (*ProjectMaterial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProjectMaterial), args.Error(1)
}

func (m *mockRepository) GetMaterialForUpdate(ctx context.Context, id uint) (*ProjectMaterial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProjectMaterial), args.Error(1)
}

func (m *mockRepository) ListMaterialsByProject(ctx context.Context, projectID uint) ([]ProjectMaterial, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]ProjectMaterial), args.Error(1)
}

func (m *mockRepository) UpdateMaterial(ctx context.Context, material *ProjectMaterial) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *mockRepository) DeleteMaterial(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) CreateApproval(ctx context.Context, approval *MaterialApproval) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}

func (m *mockRepository) ListApprovals(ctx context.Context, materialID uint) ([]MaterialApproval, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).([]MaterialApproval), args.Error(1)
}

func (m *mockRepository) CreateQuotation(ctx context.Context, quotation *MaterialQuotation) error {
	args := m.Called(ctx, quotation)
	return args.Error(0)
}

func (m *mockRepository) GetQuotation(ctx context.Context, id uint) (*MaterialQuotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MaterialQuotation), args.Error(1)
}

func (m *mockRepository) ListQuotations(ctx context.Context, materialID uint) ([]MaterialQuotation, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).([]MaterialQuotation), args.Error(1)
}

func (m *mockRepository) UpdateQuotation(ctx context.Context, quotation *MaterialQuotation) error {
	args := m.Called(ctx, quotation)
	return args.Error(0)
}

func (m *mockRepository) DeleteQuotation(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) ClearRecommended(ctx context.Context, materialID uint) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func (m *mockRepository) SetRecommended(ctx context.Context, quotationID uint) error {
	args := m.Called(ctx, quotationID)
	return args.Error(0)
}

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) NotifyTransition(_ context.Context, _ *ProjectMaterial, _, _, nextLevel string) {
	n.calls = append(n.calls, nextLevel)
}

func newTestService(repo *mockRepository, notifier Notifier) *Service {
	return NewService(repo, notifier, zap.NewNop())
}

func lider() Actor {
	return Actor{UserID: 1, Name: "Ana Lima", HierarchyLevel: workflows.LevelLider}
}

func TestApproveWalksTheChain(t *testing.T) {
	repo := new(mockRepository)
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier)

	material := &ProjectMaterial{ID: 10, ProjectID: 3, ApprovalStatus: workflows.StatusPending}

	var audit []*MaterialApproval
	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetMaterialForUpdate", mock.Anything, uint(10)).Return(material, nil)
	repo.On("UpdateMaterial", mock.Anything, material).Return(nil)
	repo.On("CreateApproval", mock.Anything, mock.AnythingOfType("*procurement.MaterialApproval")).
		Run(func(args mock.Arguments) {
			audit = append(audit, args.Get(1).(*MaterialApproval))
		}).Return(nil)

	result, err := svc.Approve(context.Background(), 10, lider(), "ok")
	assert.NoError(t, err)
	assert.Equal(t, workflows.StatusPending, result.OldStatus)
	assert.Equal(t, workflows.StatusLeader, result.NewStatus)
	assert.Equal(t, workflows.StatusLeader, material.ApprovalStatus)

	gerente := Actor{UserID: 2, Name: "Bruno Reis", HierarchyLevel: workflows.LevelGerente}
	result, err = svc.Approve(context.Background(), 10, gerente, "")
	assert.NoError(t, err)
	assert.Equal(t, workflows.StatusManager, result.NewStatus)

	assert.Len(t, audit, 2)
	assert.Equal(t, ActionApproved, audit[0].Action)
	assert.Equal(t, workflows.StatusPending, audit[0].FromStatus)
	assert.Equal(t, workflows.StatusLeader, audit[0].ToStatus)
	assert.Equal(t, "Ana Lima", audit[0].ApproverName)

	// Next approver level notified at each step.
	assert.Equal(t, []string{workflows.LevelGerente, workflows.LevelComprador}, notifier.calls)
}

func TestApproveWrongRoleForbidden(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil)

	material := &ProjectMaterial{ID: 10, ApprovalStatus: workflows.StatusManager}
	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetMaterialForUpdate", mock.Anything, uint(10)).Return(material, nil)

	colaborador := Actor{UserID: 3, Name: "Caio Souza", HierarchyLevel: workflows.LevelColaborador}
	_, err := svc.Approve(context.Background(), 10, colaborador, "")

	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	assert.Contains(t, err.Error(), "Comprador")
	assert.Equal(t, workflows.StatusManager, material.ApprovalStatus)
	repo.AssertNotCalled(t, "CreateApproval", mock.Anything, mock.Anything)
}

func TestApproveWithoutTeamMemberForbidden(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil)

	_, err := svc.Approve(context.Background(), 10, Actor{UserID: 9, Name: "Sem Vínculo"}, "")

	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	repo.AssertNotCalled(t, "GetMaterialForUpdate", mock.Anything, mock.Anything)
}

func TestTerminalStatesProduceNoAuditRows(t *testing.T) {
	for _, status := range []string{workflows.StatusPurchased, workflows.StatusReceived, workflows.StatusRejected} {
		repo := new(mockRepository)
		svc := newTestService(repo, nil)

		material := &ProjectMaterial{ID: 10, ApprovalStatus: status}
		repo.On("WithTx", mock.Anything).Return(nil)
		repo.On("GetMaterialForUpdate", mock.Anything, uint(10)).Return(material, nil)

		_, err := svc.Approve(context.Background(), 10, lider(), "")
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState), status)

		_, err = svc.Reject(context.Background(), 10, lider(), "não serve")
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState), status)

		repo.AssertNotCalled(t, "CreateApproval", mock.Anything, mock.Anything)
		assert.Equal(t, status, material.ApprovalStatus)
	}
}

func TestRejectRequiresComment(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil)

	_, err := svc.Reject(context.Background(), 10, lider(), "   ")

	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	repo.AssertNotCalled(t, "GetMaterialForUpdate", mock.Anything, mock.Anything)
}

func TestRejectMovesToTerminal(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil)

	material := &ProjectMaterial{ID: 10, ApprovalStatus: workflows.StatusQuotation}
	var audit *MaterialApproval

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetMaterialForUpdate", mock.Anything, uint(10)).Return(material, nil)
	repo.On("UpdateMaterial", mock.Anything, material).Return(nil)
	repo.On("CreateApproval", mock.Anything, mock.AnythingOfType("*procurement.MaterialApproval")).
		Run(func(args mock.Arguments) {
			audit = args.Get(1).(*MaterialApproval)
		}).Return(nil)

	diretor := Actor{UserID: 4, Name: "Dora Nunes", HierarchyLevel: workflows.LevelDiretor}
	result, err := svc.Reject(context.Background(), 10, diretor, "fornecedor sem estoque")

	assert.NoError(t, err)
	assert.Equal(t, workflows.StatusRejected, result.NewStatus)
	assert.Equal(t, workflows.StatusRejected, material.ApprovalStatus)
	assert.Equal(t, ActionRejected, audit.Action)
	assert.Equal(t, workflows.StatusQuotation, audit.FromStatus)
	assert.Equal(t, "fornecedor sem estoque", audit.Comments)
}

func TestConfirmPurchaseOnlyFromFinancial(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil)

	material := &ProjectMaterial{ID: 10, ApprovalStatus: workflows.StatusFinancial}
	var audit *MaterialApproval

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetMaterialForUpdate", mock.Anything, uint(10)).Return(material, nil)
	repo.On("UpdateMaterial", mock.Anything, material).Return(nil)
	repo.On("CreateApproval", mock.Anything, mock.AnythingOfType("*procurement.MaterialApproval")).
		Run(func(args mock.Arguments) {
			audit = args.Get(1).(*MaterialApproval)
		}).Return(nil)

	delivery := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	comprador := Actor{UserID: 5, Name: "Edu Prado", HierarchyLevel: workflows.LevelComprador}

	result, err := svc.ConfirmPurchase(context.Background(), 10, comprador, delivery)
	assert.NoError(t, err)
	assert.Equal(t, workflows.StatusPurchased, result.NewStatus)
	assert.NotNil(t, material.PurchaseDate)
	assert.Equal(t, delivery, *material.ExpectedDeliveryDate)
	assert.Equal(t, ActionPurchased, audit.Action)
	assert.Contains(t, audit.Comments, "15/03/2024")

	// Repeating the call fails: status is no longer financial.
	_, err = svc.ConfirmPurchase(context.Background(), 10, comprador, delivery)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestConfirmReceivingOnlyFromPurchased(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil)

	material := &ProjectMaterial{ID: 10, ApprovalStatus: workflows.StatusPurchased}
	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetMaterialForUpdate", mock.Anything, uint(10)).Return(material, nil)
	repo.On("UpdateMaterial", mock.Anything, material).Return(nil)
	repo.On("CreateApproval", mock.Anything, mock.Anything).Return(nil)

	actor := Actor{UserID: 6, Name: "Fábio Luz", HierarchyLevel: workflows.LevelColaborador}
	result, err := svc.ConfirmReceiving(context.Background(), 10, actor, "Almoxarifado - João")

	assert.NoError(t, err)
	assert.Equal(t, workflows.StatusReceived, result.NewStatus)
	assert.Equal(t, "Almoxarifado - João", material.ReceivedBy)
	assert.NotNil(t, material.ReceivedDate)

	_, err = svc.ConfirmReceiving(context.Background(), 10, actor, "de novo")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestSetRecommendedQuotationClearsThenSets(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil)

	material := &ProjectMaterial{ID: 10, ApprovalStatus: workflows.StatusQuotation}
	quotation := &MaterialQuotation{ID: 42, MaterialID: 10, SupplierName: "Aços Vale"}

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetMaterialForUpdate", mock.Anything, uint(10)).Return(material, nil)
	repo.On("GetQuotation", mock.Anything, uint(42)).Return(quotation, nil)
	repo.On("ClearRecommended", mock.Anything, uint(10)).Return(nil)
	repo.On("SetRecommended", mock.Anything, uint(42)).Return(nil)
	repo.On("UpdateMaterial", mock.Anything, material).Return(nil)

	err := svc.SetRecommendedQuotation(context.Background(), 10, 42)

	assert.NoError(t, err)
	assert.Equal(t, uint(42), *material.RecommendedQuotationID)
	repo.AssertCalled(t, "ClearRecommended", mock.Anything, uint(10))
}

func TestSetRecommendedQuotationWrongMaterial(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil)

	material := &ProjectMaterial{ID: 10}
	quotation := &MaterialQuotation{ID: 42, MaterialID: 99}

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetMaterialForUpdate", mock.Anything, uint(10)).Return(material, nil)
	repo.On("GetQuotation", mock.Anything, uint(42)).Return(quotation, nil)

	err := svc.SetRecommendedQuotation(context.Background(), 10, 42)

	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	repo.AssertNotCalled(t, "SetRecommended", mock.Anything, mock.Anything)
}

func TestUpdateOnlyWhilePending(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil)

	material := &ProjectMaterial{ID: 10, ApprovalStatus: workflows.StatusLeader}
	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("GetMaterialForUpdate", mock.Anything, uint(10)).Return(material, nil)

	_, err := svc.Update(context.Background(), 10, MaterialInput{ItemName: "Barra 1045", Quantity: 5})

	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestDeleteGatedAfterPending(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil)

	material := &ProjectMaterial{ID: 10, ApprovalStatus: workflows.StatusManager}
	repo.On("GetMaterial", mock.Anything, uint(10)).Return(material, nil)

	err := svc.Delete(context.Background(), 10, Actor{UserID: 1})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	repo.On("DeleteMaterial", mock.Anything, uint(10)).Return(nil)
	err = svc.Delete(context.Background(), 10, Actor{UserID: 1, IsAdmin: true})
	assert.NoError(t, err)
}
