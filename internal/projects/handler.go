package projects

import (
	"net/http"
	"strconv"

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

// RegisterRoutes mounts project, activity and subtask routes. Activities
// and subtasks get top-level groups so clients can address them by id
// without carrying the project id around.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.GET("", h.List)
		projects.POST("", h.Create)
		projects.GET("/:id", h.Get)
		projects.PUT("/:id", h.Update)
		projects.DELETE("/:id", h.Delete)
		projects.GET("/:id/activities", h.ListActivities)
		projects.POST("/:id/activities", h.CreateActivity)
	}

	activities := r.Group("/activities")
	{
		activities.PUT("/:id", h.UpdateActivity)
		activities.DELETE("/:id", h.DeleteActivity)
		activities.GET("/:id/subtasks", h.ListSubtasks)
		activities.POST("/:id/subtasks", h.CreateSubtask)
		activities.GET("/:id/comments", h.ListComments)
		activities.POST("/:id/comments", h.AddComment)
	}

	subtasks := r.Group("/subtasks")
	{
		subtasks.PUT("/:id", h.UpdateSubtask)
		subtasks.DELETE("/:id", h.DeleteSubtask)
		subtasks.POST("/:id/toggle", h.ToggleSubtask)
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

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Create(c *gin.Context) {
	var input ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	project, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	project, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	project, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListActivities(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	list, err := h.service.ListActivities(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	activity, err := h.service.CreateActivity(c.Request.Context(), id, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (h *Handler) UpdateActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input ActivityUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	activity, err := h.service.UpdateActivity(c.Request.Context(), id, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (h *Handler) DeleteActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteActivity(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListSubtasks(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	list, err := h.service.ListSubtasks(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateSubtask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input SubtaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	subtask, err := h.service.CreateSubtask(c.Request.Context(), id, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, subtask)
}

func (h *Handler) UpdateSubtask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input SubtaskUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	subtask, err := h.service.UpdateSubtask(c.Request.Context(), id, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, subtask)
}

func (h *Handler) DeleteSubtask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSubtask(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ToggleSubtask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.service.ToggleSubtaskCompleted(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListComments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	list, err := h.service.ListComments(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) AddComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actx, ok := auth.FromContext(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("autenticação necessária"))
		return
	}
	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), id, actx.UserID, actx.Name, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
