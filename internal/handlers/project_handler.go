package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mixing-service/internal/services"
)

type ProjectHandler struct {
	projects *services.ProjectService
	logger   *zap.Logger
}

func NewProjectHandler(projects *services.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// ListProjects returns the caller's projects
// @Summary List own projects
// @Description List all mixing projects owned by the authenticated user, newest first
// @Tags projects
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} ProjectResponse "Projects"
// @Failure 401 {object} map[string]interface{} "Missing or invalid token"
// @Router /api/projects [get]
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.projects.ListOwnedProjects(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newProjectResponses(projects))
}

// GetProject returns a project by ID
// @Summary Get a project by ID
// @Description Get a project owned by the caller. Staff can read any project.
// @Tags projects
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Project ID" Format(uuid)
// @Success 200 {object} ProjectResponse "Project found"
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Failure 404 {object} map[string]interface{} "Project not found"
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	project, err := h.projects.GetVisibleProject(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newProjectResponse(project))
}

// GetProjectState returns the whole project page in one document
// @Summary Get the project state
// @Description Songs, groups, tracks, comments, final files and the owner's credit balance
// @Tags projects
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Project ID" Format(uuid)
// @Success 200 {object} ProjectStateResponse "Project state"
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Failure 404 {object} map[string]interface{} "Project not found"
// @Router /api/projects/{id}/state [get]
func (h *ProjectHandler) GetProjectState(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	state, err := h.projects.State(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newProjectStateResponse(state))
}

// SubmitProject hands the project in for mixing
// @Summary Submit a project
// @Description Move a waiting project to in progress. Submitting twice has no further effect. Redirects to the project.
// @Tags projects
// @Security ApiKeyAuth
// @Param id path string true "Project ID" Format(uuid)
// @Success 302 "Redirect to the project"
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Failure 404 {object} map[string]interface{} "Project not found"
// @Router /projects/{id}/submit [post]
func (h *ProjectHandler) SubmitProject(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	if _, err := h.projects.Submit(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Redirect("/api/projects/"+id.String(), fiber.StatusFound)
}
