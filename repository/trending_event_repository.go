package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/reachbee/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrendingEventRepositoryImpl implements TrendingEventRepository
type TrendingEventRepositoryImpl struct {
	*BaseRepository[models.TrendingEvent, models.TrendingEventFilter]
}

func NewTrendingEventRepository(db *gorm.DB) TrendingEventRepository {
	return &TrendingEventRepositoryImpl{BaseRepository: NewBaseRepository[models.TrendingEvent, models.TrendingEventFilter](db)}
}

// InsertIgnoreDuplicates stores events, skipping ones already known by (title, location, date)
func (r *TrendingEventRepositoryImpl) InsertIgnoreDuplicates(ctx context.Context, events []*models.TrendingEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(events, 100)
	if res.Error != nil {
		err = fmt.Errorf("failed to insert trending events: %w", res.Error)
	}

	if err := finishWrite(db, shouldCommit, err); err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

func (r *TrendingEventRepositoryImpl) applyFilter(db *gorm.DB, f models.TrendingEventFilter) *gorm.DB {
	if f.EventType != nil {
		db = db.Where("event_type = ?", *f.EventType)
	}
	if f.Location != nil {
		db = db.Where("location = ?", *f.Location)
	}
	if f.DateFrom != nil {
		db = db.Where("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		db = db.Where("date <= ?", *f.DateTo)
	}
	return db
}

func (r *TrendingEventRepositoryImpl) ByFilter(ctx context.Context, filter models.TrendingEventFilter, orderBy string, limit, offset int) ([]*models.TrendingEvent, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.TrendingEvent{}), filter), orderBy, limit, offset)
	var rows []*models.TrendingEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TrendingEventRepositoryImpl) Count(ctx context.Context, filter models.TrendingEventFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.TrendingEvent{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
