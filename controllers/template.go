package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/owlCoder/task-management-system-software-sub000/middleware"
	"github.com/owlCoder/task-management-system-software-sub000/services"
)

type TemplateController struct {
	Templates *services.TemplateService
}

func (tc *TemplateController) GetTemplates(c *gin.Context) {
	templates, err := tc.Templates.GetAllTemplates()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (tc *TemplateController) GetTemplate(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	template, err := tc.Templates.GetTemplateByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (tc *TemplateController) CreateTemplate(c *gin.Context) {
	var input services.CreateTemplateInput
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	template, err := tc.Templates.CreateTemplate(c.Request.Context(), input, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (tc *TemplateController) AddDependency(c *gin.Context) {
	templateID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	dependsOnID, ok := parseUintParam(c, "dependsOnId")
	if !ok {
		return
	}

	err := tc.Templates.AddDependency(c.Request.Context(), templateID, dependsOnID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (tc *TemplateController) CreateTask(c *gin.Context) {
	templateID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		SprintID uint `json:"sprint_id"`
		WorkerID uint `json:"worker_id"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.SprintID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sprint_id is required"})
		return
	}

	task, err := tc.Templates.CreateTaskFromTemplate(c.Request.Context(), templateID, input.SprintID, input.WorkerID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}
