package procurement

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"usinahub/usinahub-backend/internal/auth"
	"usinahub/usinahub-backend/pkg/apperrors"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/projects/:id/materials", h.ListByProject)
	r.POST("/projects/:id/materials", h.Create)

	materials := r.Group("/project-materials")
	{
		materials.GET("/:id", h.Get)
		materials.PUT("/:id", h.Update)
		materials.DELETE("/:id", h.Delete)
		materials.POST("/:id/approve", h.Approve)
		materials.POST("/:id/reject", h.Reject)
		materials.POST("/:id/confirm-purchase", h.ConfirmPurchase)
		materials.POST("/:id/confirm-receiving", h.ConfirmReceiving)
		materials.POST("/:id/recommended-quotation", h.SetRecommendedQuotation)
		materials.GET("/:id/approvals", h.ListApprovals)
		materials.GET("/:id/quotations", h.ListQuotations)
		materials.POST("/:id/quotations", h.AddQuotation)
	}

	quotations := r.Group("/quotations")
	{
		quotations.PUT("/:id", h.UpdateQuotation)
		quotations.DELETE("/:id", h.DeleteQuotation)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("id inválido"))
		return 0, false
	}
	return uint(id), true
}

func actorFrom(c *gin.Context) (Actor, bool) {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("autenticação necessária"))
		return Actor{}, false
	}
	return Actor{
		UserID:         authCtx.UserID,
		Name:           authCtx.Name,
		HierarchyLevel: authCtx.HierarchyLevel,
		IsAdmin:        authCtx.Role == auth.RoleAdmin,
	}, true
}

func (h *Handler) ListByProject(c *gin.Context) {
	projectID, ok := parseID(c)
	if !ok {
		return
	}
	list, err := h.service.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Create(c *gin.Context) {
	projectID, ok := parseID(c)
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input MaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	material, err := h.service.Create(c.Request.Context(), projectID, actor, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, material)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	material, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input MaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	material, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, actor); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input struct {
		Comments string `json:"comments"`
	}
	// Body is optional for approve.
	_ = c.ShouldBindJSON(&input)

	result, err := h.service.Approve(c.Request.Context(), id, actor, input.Comments)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input struct {
		Comments string `json:"comments" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("comentário é obrigatório ao rejeitar"))
		return
	}
	result, err := h.service.Reject(c.Request.Context(), id, actor, input.Comments)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ConfirmPurchase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input struct {
		ExpectedDeliveryDate time.Time `json:"expected_delivery_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("data de entrega prevista é obrigatória"))
		return
	}
	result, err := h.service.ConfirmPurchase(c.Request.Context(), id, actor, input.ExpectedDeliveryDate)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ConfirmReceiving(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input struct {
		ReceivedBy string `json:"received_by" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("informe quem recebeu o material"))
		return
	}
	result, err := h.service.ConfirmReceiving(c.Request.Context(), id, actor, input.ReceivedBy)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) SetRecommendedQuotation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input struct {
		QuotationID uint `json:"quotation_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	if err := h.service.SetRecommendedQuotation(c.Request.Context(), id, input.QuotationID); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListApprovals(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	list, err := h.service.ListApprovals(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) ListQuotations(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	list, err := h.service.ListQuotations(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) AddQuotation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input QuotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	quotation, err := h.service.AddQuotation(c.Request.Context(), id, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, quotation)
}

func (h *Handler) UpdateQuotation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input QuotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	quotation, err := h.service.UpdateQuotation(c.Request.Context(), id, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, quotation)
}

func (h *Handler) DeleteQuotation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteQuotation(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
