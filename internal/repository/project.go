package repository

import (
	"context"

	"github.com/eklundh/tidflow/internal/model"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	// Delete is a hard delete; the project manager UI has no soft-delete.
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Project, error)
	GetByCode(ctx context.Context, code string) (*model.Project, error)
	List(ctx context.Context, status string) ([]model.Project, error)
	// ActiveCodes lists the project codes offered to the AI classifier.
	ActiveCodes(ctx context.Context) ([]string, error)
	// AllocatedHours sums all hours ever allocated to the project.
	AllocatedHours(ctx context.Context, projectID uint) (float64, error)
}

type projectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepo) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Project{}, id).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) GetByCode(ctx context.Context, code string) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("project_code = ?", code).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) List(ctx context.Context, status string) ([]model.Project, error) {
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var projects []model.Project
	err := q.Order("project_code").Find(&projects).Error
	return projects, err
}

func (r *projectRepo) ActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("status IN ?", []string{model.ProjectStatusPlanned, model.ProjectStatusOngoing}).
		Order("project_code").
		Pluck("project_code", &codes).Error
	return codes, err
}

func (r *projectRepo) AllocatedHours(ctx context.Context, projectID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.ProjectAllocation{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&total).Error
	return total, err
}
