package repository

import (
	"context"

	"github.com/amirphl/reachbee/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentRecordRepositoryImpl implements ContentRecordRepository
type ContentRecordRepositoryImpl struct {
	*BaseRepository[models.ContentRecord, models.ContentRecordFilter]
}

func NewContentRecordRepository(db *gorm.DB) ContentRecordRepository {
	return &ContentRecordRepositoryImpl{BaseRepository: NewBaseRepository[models.ContentRecord, models.ContentRecordFilter](db)}
}

func (r *ContentRecordRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.ContentRecord, error) {
	rows, err := r.ByFilter(ctx, models.ContentRecordFilter{UUID: &id}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *ContentRecordRepositoryImpl) applyFilter(db *gorm.DB, f models.ContentRecordFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Type != nil {
		db = db.Where("type = ?", *f.Type)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ContentRecordRepositoryImpl) ByFilter(ctx context.Context, filter models.ContentRecordFilter, orderBy string, limit, offset int) ([]*models.ContentRecord, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.ContentRecord{}), filter), orderBy, limit, offset)
	var rows []*models.ContentRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ContentRecordRepositoryImpl) Count(ctx context.Context, filter models.ContentRecordFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.ContentRecord{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
