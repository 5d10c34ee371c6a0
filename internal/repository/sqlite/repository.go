package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/julianbeese/luxury_estate/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Repository provides database access for the property catalog
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable foreign keys and WAL mode
	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return repo, nil
}

// NewWithDB wraps an already migrated connection
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate() error {
	// Read and execute migration file
	migration, err := migrationsFS.ReadFile("migrations/001_initial.sql")
	if err != nil {
		return err
	}
	_, err = r.db.Exec(string(migration))
	return err
}

// Seeding

// SeedCatalog replaces the stored catalog with the given records in one transaction
func (r *Repository) SeedCatalog(ctx context.Context, properties []domain.Property, tours []domain.Tour) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM properties`); err != nil {
		return fmt.Errorf("clear properties: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tours`); err != nil {
		return fmt.Errorf("clear tours: %w", err)
	}

	for i := range properties {
		if err := insertProperty(ctx, tx, i, &properties[i]); err != nil {
			return fmt.Errorf("insert property %d: %w", properties[i].ID, err)
		}
	}
	for i := range tours {
		if err := insertTour(ctx, tx, i, &tours[i]); err != nil {
			return fmt.Errorf("insert tour %d: %w", tours[i].ID, err)
		}
	}

	return tx.Commit()
}

// insertProperty stores p at catalog position pos
func insertProperty(ctx context.Context, tx *sql.Tx, pos int, p *domain.Property) error {
	amenities, _ := json.Marshal(p.Amenities)
	images, _ := json.Marshal(p.Images)
	details, _ := json.Marshal(p.InvestmentDetails)
	features, _ := json.Marshal(p.Features)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO properties (
			id, position, name, location, description, long_description, price, size,
			bedrooms, bathrooms, amenities, images, investment_details, features
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, pos, p.Name, p.Location, nullableString(p.Description), nullableString(p.LongDescription),
		p.Price, nullableString(p.Size), p.Bedrooms, p.Bathrooms,
		string(amenities), string(images), string(details), string(features),
	)
	return err
}

func insertTour(ctx context.Context, tx *sql.Tx, pos int, t *domain.Tour) error {
	features, _ := json.Marshal(t.Features)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO tours (id, position, name, description, details, image_src, features, duration, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, pos, t.Name, nullableString(t.Description), nullableString(t.Details),
		nullableString(t.ImageSrc), string(features), nullableString(t.Duration), nullableString(t.Price),
	)
	return err
}

// Property methods

// ListProperties returns all properties in the order they were seeded
func (r *Repository) ListProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, location, description, long_description, price, size,
			bedrooms, bathrooms, amenities, images, investment_details, features
		FROM properties ORDER BY position, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		var description, longDescription, size sql.NullString
		var amenities, images, details, features sql.NullString

		err := rows.Scan(
			&p.ID, &p.Name, &p.Location, &description, &longDescription, &p.Price, &size,
			&p.Bedrooms, &p.Bathrooms, &amenities, &images, &details, &features,
		)
		if err != nil {
			return nil, err
		}

		p.Description = description.String
		p.LongDescription = longDescription.String
		p.Size = size.String
		if err := unmarshalColumns(
			column{"amenities", amenities, &p.Amenities},
			column{"images", images, &p.Images},
			column{"investment_details", details, &p.InvestmentDetails},
			column{"features", features, &p.Features},
		); err != nil {
			return nil, fmt.Errorf("property %d: %w", p.ID, err)
		}

		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// CountProperties returns the number of stored properties
func (r *Repository) CountProperties(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&n)
	return n, err
}

// Tour methods

// ListTours returns all tours in the order they were seeded
func (r *Repository) ListTours(ctx context.Context) ([]domain.Tour, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, details, image_src, features, duration, price
		FROM tours ORDER BY position, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tours []domain.Tour
	for rows.Next() {
		var t domain.Tour
		var description, details, imageSrc, features, duration, price sql.NullString

		if err := rows.Scan(&t.ID, &t.Name, &description, &details, &imageSrc, &features, &duration, &price); err != nil {
			return nil, err
		}

		t.Description = description.String
		t.Details = details.String
		t.ImageSrc = imageSrc.String
		t.Duration = duration.String
		t.Price = price.String
		if err := unmarshalColumns(column{"features", features, &t.Features}); err != nil {
			return nil, fmt.Errorf("tour %d: %w", t.ID, err)
		}

		tours = append(tours, t)
	}
	return tours, rows.Err()
}

// Helper functions

type column struct {
	name  string
	value sql.NullString
	dest  any
}

func unmarshalColumns(cols ...column) error {
	for _, c := range cols {
		if !c.value.Valid || c.value.String == "" {
			continue
		}
		if err := json.Unmarshal([]byte(c.value.String), c.dest); err != nil {
			return fmt.Errorf("decode %s: %w", c.name, err)
		}
	}
	return nil
}

func nullableString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
