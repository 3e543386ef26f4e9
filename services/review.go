package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/owlCoder/task-management-system-software-sub000/apperr"
	"github.com/owlCoder/task-management-system-software-sub000/constants"
	"github.com/owlCoder/task-management-system-software-sub000/models"
)

// ReviewService owns the review state machine. Authorization happens
// at the API boundary; the state machine trusts its caller. Every
// transition runs inside one transaction and appends a ReviewEvent,
// so the current row and the trail never disagree.
type ReviewService struct {
	DB *gorm.DB
}

// ReviewHistory is the flattened row plus the ordered transition
// trail, ready for the UI to render.
type ReviewHistory struct {
	Review   models.Review          `json:"review"`
	Events   []models.ReviewEvent   `json:"events"`
	Comments []models.ReviewComment `json:"comments"`
}

// SendToReview submits a task for review. A first submission creates
// the row; a resubmission resets the existing row to review status
// with a fresh timestamp, whatever its prior status, and clears the
// previous decision fields.
func (s *ReviewService) SendToReview(taskID, authorID uint) (*models.Review, error) {
	var review models.Review

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		err := tx.Where("task_id = ?", taskID).First(&review).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.Review{
				TaskID:      taskID,
				AuthorID:    authorID,
				Status:      constants.ReviewStatusReview,
				SubmittedAt: now,
			}
			if err := tx.Create(&review).Error; err != nil {
				// Lost a first-submission race on the task_id unique
				// index; fall through to the resubmission path.
				if err := tx.Where("task_id = ?", taskID).First(&review).Error; err != nil {
					return err
				}
				return s.resubmit(tx, &review, authorID, now)
			}
		case err != nil:
			return err
		default:
			return s.resubmit(tx, &review, authorID, now)
		}

		return s.appendEvent(tx, taskID, authorID, constants.ReviewActionSubmitted, nil)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) resubmit(tx *gorm.DB, review *models.Review, authorID uint, now time.Time) error {
	updates := map[string]any{
		"status":         constants.ReviewStatusReview,
		"author_id":      authorID,
		"submitted_at":   now,
		"reviewed_by_id": nil,
		"reviewed_at":    nil,
	}
	if err := tx.Model(review).Updates(updates).Error; err != nil {
		return err
	}
	review.Status = constants.ReviewStatusReview
	review.AuthorID = authorID
	review.SubmittedAt = now
	review.ReviewedByID = nil
	review.ReviewedAt = nil
	return s.appendEvent(tx, review.TaskID, authorID, constants.ReviewActionSubmitted, nil)
}

// Approve moves a pending review to approved. The status guard lives
// in the UPDATE itself, so of two racing transitions exactly one
// sees an affected row and the other gets FORBIDDEN.
func (s *ReviewService) Approve(taskID, reviewerID uint) (*models.Review, error) {
	var review models.Review

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		res := tx.Model(&models.Review{}).
			Where("task_id = ? AND status = ?", taskID, constants.ReviewStatusReview).
			Updates(map[string]any{
				"status":         constants.ReviewStatusApproved,
				"reviewed_by_id": reviewerID,
				"reviewed_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.transitionRefused(tx, taskID)
		}

		if err := s.appendEvent(tx, taskID, reviewerID, constants.ReviewActionApproved, nil); err != nil {
			return err
		}
		return tx.Where("task_id = ?", taskID).First(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Reject moves a pending review to rejected and records the
// reviewer's comment. The comment insert and the row update are one
// transaction: no observable state has a rejected status without its
// comment.
func (s *ReviewService) Reject(taskID, reviewerID uint, commentText string) (*models.ReviewComment, error) {
	if strings.TrimSpace(commentText) == "" {
		return nil, apperr.InvalidInput("rejection comment must not be empty")
	}

	var comment models.ReviewComment

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		res := tx.Model(&models.Review{}).
			Where("task_id = ? AND status = ?", taskID, constants.ReviewStatusReview).
			Updates(map[string]any{
				"status":         constants.ReviewStatusRejected,
				"reviewed_by_id": reviewerID,
				"reviewed_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.transitionRefused(tx, taskID)
		}

		var review models.Review
		if err := tx.Where("task_id = ?", taskID).First(&review).Error; err != nil {
			return err
		}

		comment = models.ReviewComment{
			ReviewID:  review.ID,
			TaskID:    taskID,
			AuthorID:  reviewerID,
			Comment:   commentText,
			CreatedAt: now,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&review).Update("latest_comment_id", comment.ID).Error; err != nil {
			return err
		}

		return s.appendEvent(tx, taskID, reviewerID, constants.ReviewActionRejected, &comment.ID)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// transitionRefused decides why a guarded UPDATE touched nothing:
// either the row does not exist or it is not in review status.
func (s *ReviewService) transitionRefused(tx *gorm.DB, taskID uint) error {
	var count int64
	if err := tx.Model(&models.Review{}).Where("task_id = ?", taskID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound("no review exists for this task")
	}
	return apperr.Forbidden("task is not awaiting review")
}

func (s *ReviewService) appendEvent(tx *gorm.DB, taskID, actorID uint, action string, commentID *uint) error {
	// Seq is allocated inside the INSERT itself. A separate
	// MAX-then-insert would let two racing transitions read the same
	// value and strand the loser on the unique index.
	return tx.Exec(
		`INSERT INTO review_events (task_id, seq, action, actor_id, comment_id, created_at)
		 SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?
		 FROM review_events WHERE task_id = ?`,
		taskID, action, actorID, commentID, time.Now(), taskID,
	).Error
}

// GetReviews lists reviews, newest submissions first, optionally
// filtered by status.
func (s *ReviewService) GetReviews(statusFilter string) ([]models.Review, error) {
	if statusFilter != "" && !constants.IsReviewStatus(statusFilter) {
		return nil, apperr.InvalidInput("unknown review status: " + statusFilter)
	}

	q := s.DB.Order("submitted_at DESC")
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}

	var reviews []models.Review
	if err := q.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetTasksForReview returns the pending queue, oldest first.
func (s *ReviewService) GetTasksForReview() ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.
		Where("status = ?", constants.ReviewStatusReview).
		Order("submitted_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetReviewHistory reconstructs the trail for one task from the
// event log and the comments it references.
func (s *ReviewService) GetReviewHistory(taskID uint) (*ReviewHistory, error) {
	var review models.Review
	if err := s.DB.Where("task_id = ?", taskID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no review exists for this task")
		}
		return nil, err
	}

	var events []models.ReviewEvent
	if err := s.DB.Where("task_id = ?", taskID).Order("seq ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	var comments []models.ReviewComment
	if err := s.DB.Where("task_id = ?", taskID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}

	return &ReviewHistory{Review: review, Events: events, Comments: comments}, nil
}

func (s *ReviewService) GetCommentByID(id uint) (*models.ReviewComment, error) {
	var comment models.ReviewComment
	if err := s.DB.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, err
	}
	return &comment, nil
}
