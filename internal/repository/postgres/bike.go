package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
)

type bikeRepository struct {
	db *sql.DB
}

func NewBikeRepository(db *sql.DB) repository.BikeRepository {
	return &bikeRepository{db: db}
}

const bikeColumns = `id, name, model, category, status, weekly_price_cents, sale_price_cents, battery_wh, range_km, description, image_urls, featured, created_on, updated_on`

func scanBike(row scanner) (*domain.Bike, error) {
	b := &domain.Bike{}
	err := row.Scan(&b.ID, &b.Name, &b.Model, &b.Category, &b.Status, &b.WeeklyPriceCents, &b.SalePriceCents,
		&b.BatteryWh, &b.RangeKm, &b.Description, pq.Array(&b.ImageURLs), &b.Featured, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if b.ImageURLs == nil {
		b.ImageURLs = []string{}
	}
	return b, nil
}

func (r *bikeRepository) Create(ctx context.Context, b *domain.Bike) error {
	logger.DatabaseCall("INSERT", "bikes", "name", b.Name)
	now := time.Now().UTC()
	b.CreatedOn = now
	b.UpdatedOn = now
	if b.ImageURLs == nil {
		b.ImageURLs = []string{}
	}
	query := `INSERT INTO bikes (name, model, category, status, weekly_price_cents, sale_price_cents, battery_wh, range_km, description, image_urls, featured, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, b.Name, b.Model, b.Category, b.Status, b.WeeklyPriceCents, b.SalePriceCents,
		b.BatteryWh, b.RangeKm, b.Description, pq.Array(b.ImageURLs), b.Featured, b.CreatedOn, b.UpdatedOn).Scan(&b.ID)
	return mapError(err, "create bike")
}

func (r *bikeRepository) GetByID(ctx context.Context, id int32) (*domain.Bike, error) {
	b, err := scanBike(r.db.QueryRowContext(ctx, `SELECT `+bikeColumns+` FROM bikes WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get bike")
	}
	return b, nil
}

func (r *bikeRepository) Update(ctx context.Context, b *domain.Bike) error {
	logger.DatabaseCall("UPDATE", "bikes", "id", b.ID)
	b.UpdatedOn = time.Now().UTC()
	if b.ImageURLs == nil {
		b.ImageURLs = []string{}
	}
	query := `UPDATE bikes SET name=$1, model=$2, category=$3, status=$4, weekly_price_cents=$5, sale_price_cents=$6,
	          battery_wh=$7, range_km=$8, description=$9, image_urls=$10, featured=$11, updated_on=$12 WHERE id=$13`
	res, err := r.db.ExecContext(ctx, query, b.Name, b.Model, b.Category, b.Status, b.WeeklyPriceCents, b.SalePriceCents,
		b.BatteryWh, b.RangeKm, b.Description, pq.Array(b.ImageURLs), b.Featured, b.UpdatedOn, b.ID)
	if err != nil {
		return mapError(err, "update bike")
	}
	return expectRow(res, "update bike")
}

func (r *bikeRepository) UpdateStatus(ctx context.Context, id int32, status domain.BikeStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bikes SET status = $1, updated_on = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return mapError(err, "update bike status")
	}
	return expectRow(res, "update bike status")
}

func (r *bikeRepository) AddImage(ctx context.Context, id int32, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bikes SET image_urls = array_append(image_urls, $1), updated_on = $2 WHERE id = $3`, url, time.Now().UTC(), id)
	if err != nil {
		return mapError(err, "add bike image")
	}
	return expectRow(res, "add bike image")
}

func (r *bikeRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "bikes", "id", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM bikes WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete bike")
	}
	return expectRow(res, "delete bike")
}

// List returns bikes ordered featured first, then by name. An empty category lists all bikes.
func (r *bikeRepository) List(ctx context.Context, category domain.BikeCategory) ([]domain.Bike, error) {
	query := `SELECT ` + bikeColumns + ` FROM bikes`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY featured DESC, name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list bikes")
	}
	defer rows.Close()

	bikes := []domain.Bike{}
	for rows.Next() {
		b, err := scanBike(rows)
		if err != nil {
			return nil, err
		}
		bikes = append(bikes, *b)
	}
	return bikes, rows.Err()
}
