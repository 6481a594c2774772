package repository

import (
	"context"

	"github.com/eklundh/tidflow/internal/model"
	"gorm.io/gorm"
)

type ApprovalRepo interface {
	Create(ctx context.Context, req *model.ApprovalRequest) error
	Update(ctx context.Context, req *model.ApprovalRequest) error
	GetByID(ctx context.Context, id uint) (*model.ApprovalRequest, error)
	ListPending(ctx context.Context) ([]model.ApprovalRequest, error)
	ListByRequester(ctx context.Context, email string) ([]model.ApprovalRequest, error)
	// ApplyTimeCorrection persists the approved request and the corrected
	// time entry in a single transaction. Either both writes land or
	// neither does, and a failed attempt leaves the request pending so it
	// can simply be re-driven.
	ApplyTimeCorrection(ctx context.Context, req *model.ApprovalRequest, entry *model.TimeEntry) error
}

type approvalRepo struct {
	db *gorm.DB
}

func NewApprovalRepo(db *gorm.DB) ApprovalRepo {
	return &approvalRepo{db: db}
}

func (r *approvalRepo) Create(ctx context.Context, req *model.ApprovalRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *approvalRepo) Update(ctx context.Context, req *model.ApprovalRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *approvalRepo) GetByID(ctx context.Context, id uint) (*model.ApprovalRequest, error) {
	var req model.ApprovalRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *approvalRepo) ListPending(ctx context.Context) ([]model.ApprovalRequest, error) {
	var reqs []model.ApprovalRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", model.ApprovalStatusPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *approvalRepo) ListByRequester(ctx context.Context, email string) ([]model.ApprovalRequest, error) {
	var reqs []model.ApprovalRequest
	err := r.db.WithContext(ctx).
		Where("requester_email = ?", email).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *approvalRepo) ApplyTimeCorrection(ctx context.Context, req *model.ApprovalRequest, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(req).Error; err != nil {
			return err
		}
		return tx.Omit("Breaks", "Allocations").Save(entry).Error
	})
}
