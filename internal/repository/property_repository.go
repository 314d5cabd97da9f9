package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/josiaO/SmartDalaliTZ/internal/model"
)

// propertyRow is the flat table shape of model.Property.
type propertyRow struct {
	ID           int64           `db:"id"`
	Title        string          `db:"title"`
	Description  string          `db:"description"`
	PropertyType string          `db:"property_type"`
	Type         string          `db:"type"`
	Price        float64         `db:"price"`
	City         string          `db:"city"`
	Address      string          `db:"address"`
	Latitude     sql.NullFloat64 `db:"latitude"`
	Longitude    sql.NullFloat64 `db:"longitude"`
	Images       pq.StringArray  `db:"images"`
	Bedrooms     sql.NullInt64   `db:"bedrooms"`
	Bathrooms    sql.NullInt64   `db:"bathrooms"`
	Area         float64         `db:"area"`
	AgentID      string          `db:"agent_id"`
	AgentName    string          `db:"agent_name"`
	AgentPhone   string          `db:"agent_phone"`
	Featured     bool            `db:"featured"`
	Status       string          `db:"status"`
	PhotoFileID  string          `db:"photo_file_id"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func toRow(p *model.Property) propertyRow {
	row := propertyRow{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		PropertyType: p.PropertyType,
		Type:         string(p.Type),
		Price:        p.Price,
		City:         p.Location.City,
		Address:      p.Location.Address,
		Images:       pq.StringArray(p.Images),
		Area:         p.Area,
		AgentID:      p.AgentID,
		AgentName:    p.AgentName,
		AgentPhone:   p.AgentPhone,
		Featured:     p.Featured,
		Status:       string(p.Status),
		PhotoFileID:  p.PhotoFileID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
	if c := p.Location.Coordinates; c != nil {
		row.Latitude = sql.NullFloat64{Float64: c.Lat, Valid: true}
		row.Longitude = sql.NullFloat64{Float64: c.Lng, Valid: true}
	}
	if p.Bedrooms != nil {
		row.Bedrooms = sql.NullInt64{Int64: int64(*p.Bedrooms), Valid: true}
	}
	if p.Bathrooms != nil {
		row.Bathrooms = sql.NullInt64{Int64: int64(*p.Bathrooms), Valid: true}
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = row.UpdatedAt
	}
	return row
}

func (r *propertyRow) toModel() model.Property {
	p := model.Property{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		PropertyType: r.PropertyType,
		Type:         model.TransactionType(r.Type),
		Price:        r.Price,
		Location: model.Location{
			City:    r.City,
			Address: r.Address,
		},
		Images:      []string(r.Images),
		Area:        r.Area,
		AgentID:     r.AgentID,
		AgentName:   r.AgentName,
		AgentPhone:  r.AgentPhone,
		Featured:    r.Featured,
		Status:      model.Status(r.Status),
		PhotoFileID: r.PhotoFileID,
		CreatedAt:   r.CreatedAt,
	}
	// Half a coordinate pair is treated as none.
	if r.Latitude.Valid && r.Longitude.Valid {
		p.Location.Coordinates = &model.Coordinates{Lat: r.Latitude.Float64, Lng: r.Longitude.Float64}
	}
	if r.Bedrooms.Valid {
		v := int(r.Bedrooms.Int64)
		p.Bedrooms = &v
	}
	if r.Bathrooms.Valid {
		v := int(r.Bathrooms.Int64)
		p.Bathrooms = &v
	}
	return p
}

func toModels(rows []propertyRow) []model.Property {
	out := make([]model.Property, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out
}

type PropertyRepository struct {
	DB *sqlx.DB
}

func NewPropertyRepository(db *sqlx.DB) *PropertyRepository {
	return &PropertyRepository{DB: db}
}

const propertyColumns = `title, description, property_type, type, price, city, address,
	latitude, longitude, images, bedrooms, bathrooms, area,
	agent_id, agent_name, agent_phone, featured, status, photo_file_id, created_at, updated_at`

const propertyValues = `:title, :description, :property_type, :type, :price, :city, :address,
	:latitude, :longitude, :images, :bedrooms, :bathrooms, :area,
	:agent_id, :agent_name, :agent_phone, :featured, :status, :photo_file_id, :created_at, :updated_at`

// Create inserts p and stores the generated id back into it. A non-zero p.ID
// is kept as is, which the fixture seeding relies on.
func (r *PropertyRepository) Create(ctx context.Context, p *model.Property) error {
	row := toRow(p)
	q := `INSERT INTO properties (` + propertyColumns + `) VALUES (` + propertyValues + `) RETURNING id, created_at`
	if p.ID != 0 {
		q = `INSERT INTO properties (id, ` + propertyColumns + `) VALUES (:id, ` + propertyValues + `) RETURNING id, created_at`
	}

	rows, err := r.DB.NamedQueryContext(ctx, q, row)
	if err != nil {
		return fmt.Errorf("PropertyRepository.Create: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("PropertyRepository.Create: %w", err)
		}
		return fmt.Errorf("PropertyRepository.Create: no id returned")
	}
	if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("PropertyRepository.Create scan: %w", err)
	}
	return nil
}

// SyncIDSequence moves the id sequence past rows inserted with explicit ids.
func (r *PropertyRepository) SyncIDSequence(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('properties', 'id'), COALESCE(MAX(id), 1)) FROM properties`)
	if err != nil {
		return fmt.Errorf("PropertyRepository.SyncIDSequence: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*model.Property, error) {
	var row propertyRow
	err := r.DB.GetContext(ctx, &row, `SELECT * FROM properties WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("PropertyRepository.GetByID: %w", err)
	}
	p := row.toModel()
	return &p, nil
}

// ListByStatus returns every property with the given status, oldest id first
// so that list order is stable across calls.
func (r *PropertyRepository) ListByStatus(ctx context.Context, status model.Status) ([]model.Property, error) {
	var rows []propertyRow
	err := r.DB.SelectContext(ctx, &rows, `SELECT * FROM properties WHERE status = $1 ORDER BY id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("PropertyRepository.ListByStatus: %w", err)
	}
	return toModels(rows), nil
}

func (r *PropertyRepository) ListByAgent(ctx context.Context, agentID string) ([]model.Property, error) {
	var rows []propertyRow
	err := r.DB.SelectContext(ctx, &rows, `SELECT * FROM properties WHERE agent_id = $1 ORDER BY id`, agentID)
	if err != nil {
		return nil, fmt.Errorf("PropertyRepository.ListByAgent: %w", err)
	}
	return toModels(rows), nil
}

// ListAll is used by the admin overview.
func (r *PropertyRepository) ListAll(ctx context.Context, limit int) ([]model.Property, error) {
	var rows []propertyRow
	err := r.DB.SelectContext(ctx, &rows, `SELECT * FROM properties ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("PropertyRepository.ListAll: %w", err)
	}
	return toModels(rows), nil
}

func (r *PropertyRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(1) FROM properties`); err != nil {
		return 0, fmt.Errorf("PropertyRepository.Count: %w", err)
	}
	return n, nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *model.Property) error {
	row := toRow(p)
	res, err := r.DB.NamedExecContext(ctx, `
		UPDATE properties SET
			title         = :title,
			description   = :description,
			property_type = :property_type,
			type          = :type,
			price         = :price,
			city          = :city,
			address       = :address,
			latitude      = :latitude,
			longitude     = :longitude,
			images        = :images,
			bedrooms      = :bedrooms,
			bathrooms     = :bathrooms,
			area          = :area,
			featured      = :featured,
			status        = :status,
			updated_at    = :updated_at
		WHERE id = :id
	`, row)
	if err != nil {
		return fmt.Errorf("PropertyRepository.Update: %w", err)
	}
	return expectOneRow(res, "PropertyRepository.Update")
}

func (r *PropertyRepository) SetStatus(ctx context.Context, id int64, status model.Status) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE properties SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("PropertyRepository.SetStatus: %w", err)
	}
	return expectOneRow(res, "PropertyRepository.SetStatus")
}

func (r *PropertyRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("PropertyRepository.Delete: %w", err)
	}
	return expectOneRow(res, "PropertyRepository.Delete")
}

// SetPhoto records the GridFS file id and appends its public URL to images
// unless it is already there.
func (r *PropertyRepository) SetPhoto(ctx context.Context, id int64, fileID, url string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE properties
		SET photo_file_id = $1,
		    images = CASE WHEN $2 = ANY(images) THEN images ELSE array_append(images, $2) END,
		    updated_at = now()
		WHERE id = $3
	`, fileID, url, id)
	if err != nil {
		return fmt.Errorf("PropertyRepository.SetPhoto: %w", err)
	}
	return expectOneRow(res, "PropertyRepository.SetPhoto")
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
