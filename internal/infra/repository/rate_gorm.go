package repository

import (
	"context"
	"database/sql"

	"bookex/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RateGormRepository struct {
	db *gorm.DB
}

func NewRateGormRepository(db *gorm.DB) *RateGormRepository {
	return &RateGormRepository{db: db}
}

// (user, book)が既にあればratingを上書き
func (r *RateGormRepository) Upsert(ctx context.Context, userID int64, bookID int64, rating int) error {
	rate := model.Rate{UserID: userID, BookID: bookID, Rating: rating}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(&rate).Error
	if err != nil {
		return translate(err, "upsert rate")
	}
	return nil
}

func (r *RateGormRepository) ListByBook(ctx context.Context, bookID int64) ([]model.Rate, error) {
	var rates []model.Rate
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("id asc").
		Find(&rates).Error; err != nil {
		return []model.Rate{}, translate(err, "list rates")
	}
	return rates, nil
}

// 平均評価。評価が無ければnil
func (r *RateGormRepository) Average(ctx context.Context, bookID int64) (*float64, error) {
	var avg sql.NullFloat64

	row := r.db.WithContext(ctx).
		Model(&model.Rate{}).
		Select("AVG(rating)").
		Where("book_id = ?", bookID).
		Row()
	if err := row.Scan(&avg); err != nil {
		return nil, translate(err, "average rating")
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}

func (r *RateGormRepository) AveragesByBook(ctx context.Context, bookIDs []int64) (map[int64]float64, error) {
	out := map[int64]float64{}
	if len(bookIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.WithContext(ctx).
		Model(&model.Rate{}).
		Select("book_id, AVG(rating)").
		Where("book_id IN ?", bookIDs).
		Group("book_id").
		Rows()
	if err != nil {
		return nil, translate(err, "average ratings")
	}
	defer rows.Close()

	for rows.Next() {
		var bookID int64
		var avg float64
		if err := rows.Scan(&bookID, &avg); err != nil {
			return nil, translate(err, "average ratings")
		}
		out[bookID] = avg
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "average ratings")
	}
	return out, nil
}

func (r *RateGormRepository) DeleteByBookID(ctx context.Context, bookID int64) error {
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&model.Rate{}).Error; err != nil {
		return translate(err, "delete rates by book")
	}
	return nil
}
