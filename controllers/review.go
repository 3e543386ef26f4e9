package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/owlCoder/task-management-system-software-sub000/middleware"
	"github.com/owlCoder/task-management-system-software-sub000/services"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func (rc *ReviewController) GetReviews(c *gin.Context) {
	reviews, err := rc.Reviews.GetReviews(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (rc *ReviewController) GetPending(c *gin.Context) {
	reviews, err := rc.Reviews.GetTasksForReview()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (rc *ReviewController) SendToReview(c *gin.Context) {
	taskID, ok := parseUintParam(c, "taskId")
	if !ok {
		return
	}

	review, err := rc.Reviews.SendToReview(taskID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (rc *ReviewController) Approve(c *gin.Context) {
	taskID, ok := parseUintParam(c, "taskId")
	if !ok {
		return
	}

	review, err := rc.Reviews.Approve(taskID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (rc *ReviewController) Reject(c *gin.Context) {
	taskID, ok := parseUintParam(c, "taskId")
	if !ok {
		return
	}

	var input struct {
		Comment string `json:"comment"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := rc.Reviews.Reject(taskID, middleware.UserID(c), input.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (rc *ReviewController) GetHistory(c *gin.Context) {
	taskID, ok := parseUintParam(c, "taskId")
	if !ok {
		return
	}

	history, err := rc.Reviews.GetReviewHistory(taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (rc *ReviewController) GetComment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	comment, err := rc.Reviews.GetCommentByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}
