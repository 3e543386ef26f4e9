package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/owlCoder/task-management-system-software-sub000/apperr"
	"github.com/owlCoder/task-management-system-software-sub000/clients"
	"github.com/owlCoder/task-management-system-software-sub000/constants"
	"github.com/owlCoder/task-management-system-software-sub000/models"
)

// TemplateService owns the template graph and task instantiation.
// Unlike the review state machine it talks to the sibling services:
// the User service for role checks, the Task service for creation,
// and the Notification service on a detached path.
type TemplateService struct {
	DB            *gorm.DB
	Users         *clients.UserClient
	Tasks         *clients.TaskClient
	Notifications *clients.NotificationClient

	// NotifyTimeout bounds the detached notification call, which runs
	// off the request context.
	NotifyTimeout time.Duration
}

// NewTemplateService wires the service with the same timeout on the
// detached notification path that the notification client uses for
// its own calls.
func NewTemplateService(db *gorm.DB, users *clients.UserClient, tasks *clients.TaskClient, notifications *clients.NotificationClient) *TemplateService {
	return &TemplateService{
		DB:            db,
		Users:         users,
		Tasks:         tasks,
		Notifications: notifications,
		NotifyTimeout: notifications.HTTP.Timeout,
	}
}

type CreateTemplateInput struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	EstimatedCost  float64 `json:"estimated_cost"`
	AttachmentType string  `json:"attachment_type"`
}

// requirePM resolves a user through the User service and demands the
// project manager role. An unresolvable user fails the gate the same
// way a wrong role does.
func (s *TemplateService) requirePM(ctx context.Context, userID uint) error {
	user, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.Forbidden("requester is not a project manager")
		}
		return err
	}
	if user.Role != constants.RoleProjectManager {
		return apperr.Forbidden("requester is not a project manager")
	}
	return nil
}

func (s *TemplateService) CreateTemplate(ctx context.Context, input CreateTemplateInput, creatorID uint) (*models.TaskTemplate, error) {
	if err := s.requirePM(ctx, creatorID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, apperr.InvalidInput("title must not be empty")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperr.InvalidInput("description must not be empty")
	}
	if input.EstimatedCost < 0 {
		return nil, apperr.InvalidInput("estimated cost must not be negative")
	}
	if strings.TrimSpace(input.AttachmentType) == "" {
		return nil, apperr.InvalidInput("attachment type is required")
	}

	template := models.TaskTemplate{
		Title:          input.Title,
		Description:    input.Description,
		EstimatedCost:  input.EstimatedCost,
		AttachmentType: input.AttachmentType,
		CreatedByID:    creatorID,
		CreatedAt:      time.Now(),
		Dependencies:   []models.TemplateDependency{},
	}
	if err := s.DB.Create(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// AddDependency records that templateID depends on dependsOnID.
// Self-loops are rejected outright and the edge set is walked so an
// edge closing a cycle is refused before it is written.
func (s *TemplateService) AddDependency(ctx context.Context, templateID, dependsOnID, requesterID uint) error {
	if err := s.requirePM(ctx, requesterID); err != nil {
		return err
	}
	if templateID == dependsOnID {
		return apperr.InvalidInput("a template cannot depend on itself")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TaskTemplate{}).Where("id IN ?", []uint{templateID, dependsOnID}).Count(&count).Error; err != nil {
			return err
		}
		if count != 2 {
			return apperr.NotFound("template not found")
		}

		if err := tx.Model(&models.TemplateDependency{}).
			Where("template_id = ? AND depends_on_id = ?", templateID, dependsOnID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("dependency already exists")
		}

		cyclic, err := s.wouldCycle(tx, templateID, dependsOnID)
		if err != nil {
			return err
		}
		if cyclic {
			return apperr.Conflict("dependency would create a cycle")
		}

		edge := models.TemplateDependency{
			TemplateID:  templateID,
			DependsOnID: dependsOnID,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&edge).Error; err != nil {
			// Racing insert of the same ordered pair hits the unique
			// index; report it like any other duplicate.
			return apperr.Conflict("dependency already exists")
		}
		return nil
	})
}

// wouldCycle walks the existing edges from dependsOnID; reaching
// templateID means the new edge would close a cycle.
func (s *TemplateService) wouldCycle(tx *gorm.DB, templateID, dependsOnID uint) (bool, error) {
	var edges []models.TemplateDependency
	if err := tx.Find(&edges).Error; err != nil {
		return false, err
	}

	next := make(map[uint][]uint, len(edges))
	for _, e := range edges {
		next[e.TemplateID] = append(next[e.TemplateID], e.DependsOnID)
	}

	visited := map[uint]bool{}
	stack := []uint{dependsOnID}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == templateID {
			return true, nil
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		stack = append(stack, next[node]...)
	}
	return false, nil
}

// CreateTaskFromTemplate instantiates a template into a concrete
// task via the Task service, acting as the given project manager.
// When a worker is specified, a task-assigned notification goes out
// on a detached goroutine; its failure is logged, never surfaced.
func (s *TemplateService) CreateTaskFromTemplate(ctx context.Context, templateID, sprintID, workerID, pmID uint) (*clients.Task, error) {
	var template models.TaskTemplate
	if err := s.DB.First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("template not found")
		}
		return nil, err
	}

	pm, err := s.Users.GetUser(ctx, pmID)
	if err != nil {
		return nil, err
	}
	if pm.Role != constants.RoleProjectManager {
		return nil, apperr.Forbidden("acting user is not a project manager")
	}

	if workerID != 0 && !s.Users.VerifyUserExists(ctx, workerID) {
		return nil, apperr.NotFound("worker not found")
	}

	task, err := s.Tasks.CreateTask(ctx, sprintID, clients.CreateTaskInput{
		Title:         template.Title,
		Description:   template.Description,
		EstimatedCost: template.EstimatedCost,
	}, pmID)
	if err != nil {
		return nil, err
	}

	if workerID != 0 {
		go s.notifyAssignment(workerID, task)
	}
	return task, nil
}

func (s *TemplateService) notifyAssignment(workerID uint, task *clients.Task) {
	timeout := s.NotifyTimeout
	if timeout <= 0 {
		timeout = clients.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := s.Notifications.Notify(ctx, clients.NotifyRequest{
		UserIDs: []uint{workerID},
		Title:   "New task assigned",
		Body:    fmt.Sprintf("You have been assigned the task %q", task.Title),
		Type:    clients.NotificationTypeTaskAssigned,
	})
	if err != nil {
		log.Printf("notify assignment of task %d to user %d: %v", task.ID, workerID, err)
	}
}

func (s *TemplateService) GetTemplateByID(id uint) (*models.TaskTemplate, error) {
	var template models.TaskTemplate
	if err := s.DB.Preload("Dependencies").First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("template not found")
		}
		return nil, err
	}
	return &template, nil
}

func (s *TemplateService) GetAllTemplates() ([]models.TaskTemplate, error) {
	var templates []models.TaskTemplate
	if err := s.DB.Preload("Dependencies").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}
