package repository

import (
	"github.com/teamhub/teamhub-api/internal/models"
	"gorm.io/gorm"
)

// GormSprintRepository is a GORM implementation of SprintRepository
type GormSprintRepository struct {
	db *gorm.DB
}

// NewSprintRepository creates a new SprintRepository
func NewSprintRepository(db *gorm.DB) SprintRepository {
	return &GormSprintRepository{db: db}
}

// Create creates a new sprint
func (r *GormSprintRepository) Create(sprint *models.Sprint) error {
	return r.db.Create(sprint).Error
}

// FindByIDForOwner finds a sprint by ID scoped to its owner. A sprint owned
// by someone else is indistinguishable from a missing one.
func (r *GormSprintRepository) FindByIDForOwner(id, ownerID uint64) (*models.Sprint, error) {
	var sprint models.Sprint
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).
		First(&sprint).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

// ListByOwner lists sprints owned by a user
func (r *GormSprintRepository) ListByOwner(ownerID uint64) ([]models.Sprint, error) {
	var sprints []models.Sprint
	if err := r.db.Where("owner_id = ?", ownerID).
		Order("start_date ASC").
		Find(&sprints).Error; err != nil {
		return nil, err
	}
	return sprints, nil
}

// Update persists changes to a sprint
func (r *GormSprintRepository) Update(sprint *models.Sprint) error {
	return r.db.Save(sprint).Error
}

// Delete deletes a sprint and moves its tasks to the global backlog
func (r *GormSprintRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("sprint_id = ?", id).
			Update("sprint_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Sprint{}, id).Error
	})
}
