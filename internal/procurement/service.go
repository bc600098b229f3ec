package procurement

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"usinahub/usinahub-backend/pkg/apperrors"
	"usinahub/usinahub-backend/pkg/workflows"
)

// Actor identifies who is acting on a material: the authenticated user
// plus the hierarchy level of their linked team member. An empty
// HierarchyLevel means the user has no team member record.
type Actor struct {
	UserID         uint
	Name           string
	HierarchyLevel string
	IsAdmin        bool
}

// Notifier is told about successful workflow transitions so the next
// approver level can be alerted. Implementations must not fail the
// transition; errors are theirs to log.
type Notifier interface {
	NotifyTransition(ctx context.Context, material *ProjectMaterial, fromStatus, toStatus, nextLevel string)
}

// NopNotifier discards transition events.
type NopNotifier struct{}

func (NopNotifier) NotifyTransition(context.Context, *ProjectMaterial, string, string, string) {}

type Service struct {
	repo     Repository
	machine  *workflows.StateMachine
	notifier Notifier
	logger   *zap.Logger
}

func NewService(repo Repository, notifier Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		repo:     repo,
		machine:  workflows.NewStateMachine(),
		notifier: notifier,
		logger:   logger,
	}
}

type MaterialInput struct {
	ItemName         string `json:"item_name" binding:"required"`
	Quantity         int64  `json:"quantity" binding:"required"`
	Unit             string `json:"unit"`
	UnitPrice        int64  `json:"unit_price"`
	Supplier         string `json:"supplier"`
	RequestingSector string `json:"requesting_sector"`
}

func (s *Service) Create(ctx context.Context, projectID uint, actor Actor, input MaterialInput) (*ProjectMaterial, error) {
	if input.Quantity <= 0 {
		return nil, apperrors.Validation("quantidade deve ser maior que zero")
	}
	requestedBy := actor.UserID
	material := &ProjectMaterial{
		ProjectID:        projectID,
		ItemName:         input.ItemName,
		Quantity:         input.Quantity,
		Unit:             input.Unit,
		UnitPrice:        input.UnitPrice,
		Supplier:         input.Supplier,
		RequestingSector: input.RequestingSector,
		ApprovalStatus:   workflows.StatusPending,
		RequestedByID:    &requestedBy,
	}
	if err := s.repo.CreateMaterial(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*ProjectMaterial, error) {
	material, err := s.repo.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, apperrors.NotFound("material não encontrado")
	}
	return material, nil
}

func (s *Service) ListByProject(ctx context.Context, projectID uint) ([]ProjectMaterial, error) {
	return s.repo.ListMaterialsByProject(ctx, projectID)
}

// Update edits non-status fields. Only pending materials are editable;
// anything already in the approval chain is frozen.
func (s *Service) Update(ctx context.Context, id uint, input MaterialInput) (*ProjectMaterial, error) {
	var updated *ProjectMaterial
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		material, err := tx.GetMaterialForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if material == nil {
			return apperrors.NotFound("material não encontrado")
		}
		if material.ApprovalStatus != workflows.StatusPending {
			return apperrors.InvalidState("material em aprovação não pode ser editado")
		}
		if input.Quantity <= 0 {
			return apperrors.Validation("quantidade deve ser maior que zero")
		}

		material.ItemName = input.ItemName
		material.Quantity = input.Quantity
		material.Unit = input.Unit
		material.UnitPrice = input.UnitPrice
		material.Supplier = input.Supplier
		material.RequestingSector = input.RequestingSector

		updated = material
		return tx.UpdateMaterial(ctx, material)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a material request. Once a request has left pending it
// can only be deleted by an admin.
func (s *Service) Delete(ctx context.Context, id uint, actor Actor) error {
	material, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if material.ApprovalStatus != workflows.StatusPending && !actor.IsAdmin {
		return apperrors.Forbidden("apenas administradores podem excluir materiais em aprovação")
	}
	return s.repo.DeleteMaterial(ctx, material.ID)
}

// TransitionResult reports a workflow step.
type TransitionResult struct {
	Success   bool   `json:"success"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

func requireTeamMember(actor Actor) error {
	if actor.HierarchyLevel == "" {
		return apperrors.Forbidden("usuário não está vinculado a um membro da equipe")
	}
	return nil
}

// Approve moves the material one step forward in the approval chain.
// The caller's hierarchy level must match the level required by the
// material's current status. Lock, status change and audit insert happen
// in one transaction.
func (s *Service) Approve(ctx context.Context, materialID uint, actor Actor, comments string) (*TransitionResult, error) {
	if err := requireTeamMember(actor); err != nil {
		return nil, err
	}

	result := &TransitionResult{}
	var notifyMaterial *ProjectMaterial
	var nextLevel string

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		material, err := tx.GetMaterialForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		if material == nil {
			return apperrors.NotFound("material não encontrado")
		}

		transition, ok := s.machine.TransitionFor(material.ApprovalStatus)
		if !ok {
			return apperrors.InvalidState("material não está em um estado aprovável")
		}
		if actor.HierarchyLevel != transition.RequiredLevel {
			return apperrors.Forbidden("aprovação nesta etapa requer o nível " + workflows.LevelLabel(transition.RequiredLevel))
		}

		oldStatus := material.ApprovalStatus
		material.ApprovalStatus = transition.Next
		if err := tx.UpdateMaterial(ctx, material); err != nil {
			return err
		}

		approval := &MaterialApproval{
			MaterialID:   material.ID,
			ApproverID:   actor.UserID,
			ApproverName: actor.Name,
			ApproverRole: actor.HierarchyLevel,
			Action:       ActionApproved,
			FromStatus:   oldStatus,
			ToStatus:     transition.Next,
			Comments:     comments,
		}
		if err := tx.CreateApproval(ctx, approval); err != nil {
			return err
		}

		result.Success = true
		result.OldStatus = oldStatus
		result.NewStatus = transition.Next
		notifyMaterial = material
		nextLevel, _ = s.machine.RequiredLevel(transition.Next)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("material approved",
		zap.Uint("material_id", materialID),
		zap.String("from", result.OldStatus),
		zap.String("to", result.NewStatus),
		zap.String("approver", actor.Name),
	)
	if nextLevel != "" {
		s.notifier.NotifyTransition(ctx, notifyMaterial, result.OldStatus, result.NewStatus, nextLevel)
	}
	return result, nil
}

// Reject moves the material to the terminal rejected status. The same
// role gate as Approve applies and the comment is mandatory. Statuses
// without a transition entry (purchased, received, rejected) cannot be
// rejected.
func (s *Service) Reject(ctx context.Context, materialID uint, actor Actor, comments string) (*TransitionResult, error) {
	if err := requireTeamMember(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(comments) == "" {
		return nil, apperrors.Validation("comentário é obrigatório ao rejeitar")
	}

	result := &TransitionResult{}
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		material, err := tx.GetMaterialForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		if material == nil {
			return apperrors.NotFound("material não encontrado")
		}

		requiredLevel, ok := s.machine.RequiredLevel(material.ApprovalStatus)
		if !ok {
			return apperrors.InvalidState("material não está em um estado rejeitável")
		}
		if actor.HierarchyLevel != requiredLevel {
			return apperrors.Forbidden("rejeição nesta etapa requer o nível " + workflows.LevelLabel(requiredLevel))
		}

		oldStatus := material.ApprovalStatus
		material.ApprovalStatus = workflows.StatusRejected
		if err := tx.UpdateMaterial(ctx, material); err != nil {
			return err
		}

		approval := &MaterialApproval{
			MaterialID:   material.ID,
			ApproverID:   actor.UserID,
			ApproverName: actor.Name,
			ApproverRole: actor.HierarchyLevel,
			Action:       ActionRejected,
			FromStatus:   oldStatus,
			ToStatus:     workflows.StatusRejected,
			Comments:     comments,
		}
		if err := tx.CreateApproval(ctx, approval); err != nil {
			return err
		}

		result.Success = true
		result.OldStatus = oldStatus
		result.NewStatus = workflows.StatusRejected
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("material rejected",
		zap.Uint("material_id", materialID),
		zap.String("from", result.OldStatus),
		zap.String("approver", actor.Name),
	)
	return result, nil
}

// ConfirmPurchase moves a fully approved material (financial) to
// purchased, recording the purchase date and expected delivery.
func (s *Service) ConfirmPurchase(ctx context.Context, materialID uint, actor Actor, expectedDelivery time.Time) (*TransitionResult, error) {
	result := &TransitionResult{}
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		material, err := tx.GetMaterialForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		if material == nil {
			return apperrors.NotFound("material não encontrado")
		}
		if material.ApprovalStatus != workflows.StatusFinancial {
			return apperrors.InvalidState("compra só pode ser confirmada após aprovação financeira")
		}

		now := time.Now()
		oldStatus := material.ApprovalStatus
		material.ApprovalStatus = workflows.StatusPurchased
		material.PurchaseDate = &now
		material.ExpectedDeliveryDate = &expectedDelivery
		if err := tx.UpdateMaterial(ctx, material); err != nil {
			return err
		}

		approval := &MaterialApproval{
			MaterialID:   material.ID,
			ApproverID:   actor.UserID,
			ApproverName: actor.Name,
			ApproverRole: actor.HierarchyLevel,
			Action:       ActionPurchased,
			FromStatus:   oldStatus,
			ToStatus:     workflows.StatusPurchased,
			Comments:     "Compra confirmada. Entrega prevista para " + expectedDelivery.Format("02/01/2006"),
		}
		if err := tx.CreateApproval(ctx, approval); err != nil {
			return err
		}

		result.Success = true
		result.OldStatus = oldStatus
		result.NewStatus = workflows.StatusPurchased
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmReceiving moves a purchased material to the terminal received
// status, recording who received it and when.
func (s *Service) ConfirmReceiving(ctx context.Context, materialID uint, actor Actor, receivedBy string) (*TransitionResult, error) {
	if strings.TrimSpace(receivedBy) == "" {
		return nil, apperrors.Validation("informe quem recebeu o material")
	}

	result := &TransitionResult{}
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		material, err := tx.GetMaterialForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		if material == nil {
			return apperrors.NotFound("material não encontrado")
		}
		if material.ApprovalStatus != workflows.StatusPurchased {
			return apperrors.InvalidState("recebimento só pode ser confirmado após a compra")
		}

		now := time.Now()
		oldStatus := material.ApprovalStatus
		material.ApprovalStatus = workflows.StatusReceived
		material.ReceivedDate = &now
		material.ReceivedBy = receivedBy
		if err := tx.UpdateMaterial(ctx, material); err != nil {
			return err
		}

		approval := &MaterialApproval{
			MaterialID:   material.ID,
			ApproverID:   actor.UserID,
			ApproverName: actor.Name,
			ApproverRole: actor.HierarchyLevel,
			Action:       ActionReceived,
			FromStatus:   oldStatus,
			ToStatus:     workflows.StatusReceived,
			Comments:     "Recebido por " + receivedBy,
		}
		if err := tx.CreateApproval(ctx, approval); err != nil {
			return err
		}

		result.Success = true
		result.OldStatus = oldStatus
		result.NewStatus = workflows.StatusReceived
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetRecommendedQuotation marks one quotation as recommended, clearing
// the flag on all others of the same material first so at most one ever
// carries it.
func (s *Service) SetRecommendedQuotation(ctx context.Context, materialID, quotationID uint) error {
	return s.repo.WithTx(ctx, func(tx Repository) error {
		material, err := tx.GetMaterialForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		if material == nil {
			return apperrors.NotFound("material não encontrado")
		}

		quotation, err := tx.GetQuotation(ctx, quotationID)
		if err != nil {
			return err
		}
		if quotation == nil || quotation.MaterialID != materialID {
			return apperrors.NotFound("cotação não encontrada para este material")
		}

		if err := tx.ClearRecommended(ctx, materialID); err != nil {
			return err
		}
		if err := tx.SetRecommended(ctx, quotationID); err != nil {
			return err
		}

		material.RecommendedQuotationID = &quotationID
		return tx.UpdateMaterial(ctx, material)
	})
}

type QuotationInput struct {
	SupplierName string `json:"supplier_name" binding:"required"`
	QuotedPrice  int64  `json:"quoted_price" binding:"required"`
	DeliveryDays int    `json:"delivery_days"`
	PaymentTerms string `json:"payment_terms"`
	Notes        string `json:"notes"`
}

func (s *Service) AddQuotation(ctx context.Context, materialID uint, input QuotationInput) (*MaterialQuotation, error) {
	if _, err := s.Get(ctx, materialID); err != nil {
		return nil, err
	}
	if input.QuotedPrice <= 0 {
		return nil, apperrors.Validation("preço cotado deve ser maior que zero")
	}
	quotation := &MaterialQuotation{
		MaterialID:   materialID,
		SupplierName: input.SupplierName,
		QuotedPrice:  input.QuotedPrice,
		DeliveryDays: input.DeliveryDays,
		PaymentTerms: input.PaymentTerms,
		Notes:        input.Notes,
	}
	if err := s.repo.CreateQuotation(ctx, quotation); err != nil {
		return nil, err
	}
	return quotation, nil
}

func (s *Service) UpdateQuotation(ctx context.Context, id uint, input QuotationInput) (*MaterialQuotation, error) {
	quotation, err := s.repo.GetQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperrors.NotFound("cotação não encontrada")
	}
	if input.QuotedPrice <= 0 {
		return nil, apperrors.Validation("preço cotado deve ser maior que zero")
	}

	quotation.SupplierName = input.SupplierName
	quotation.QuotedPrice = input.QuotedPrice
	quotation.DeliveryDays = input.DeliveryDays
	quotation.PaymentTerms = input.PaymentTerms
	quotation.Notes = input.Notes
	if err := s.repo.UpdateQuotation(ctx, quotation); err != nil {
		return nil, err
	}
	return quotation, nil
}

// DeleteQuotation removes a quotation; a recommended quotation also has
// its link on the material cleared.
func (s *Service) DeleteQuotation(ctx context.Context, id uint) error {
	return s.repo.WithTx(ctx, func(tx Repository) error {
		quotation, err := tx.GetQuotation(ctx, id)
		if err != nil {
			return err
		}
		if quotation == nil {
			return apperrors.NotFound("cotação não encontrada")
		}

		if quotation.IsRecommended {
			material, err := tx.GetMaterialForUpdate(ctx, quotation.MaterialID)
			if err != nil {
				return err
			}
			if material != nil && material.RecommendedQuotationID != nil && *material.RecommendedQuotationID == id {
				material.RecommendedQuotationID = nil
				if err := tx.UpdateMaterial(ctx, material); err != nil {
					return err
				}
			}
		}
		return tx.DeleteQuotation(ctx, id)
	})
}

func (s *Service) ListApprovals(ctx context.Context, materialID uint) ([]MaterialApproval, error) {
	return s.repo.ListApprovals(ctx, materialID)
}

func (s *Service) ListQuotations(ctx context.Context, materialID uint) ([]MaterialQuotation, error) {
	return s.repo.ListQuotations(ctx, materialID)
}
