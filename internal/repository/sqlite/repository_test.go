package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/julianbeese/luxury_estate/internal/catalog"
	"github.com/julianbeese/luxury_estate/internal/domain"
)

var propertyColumns = []string{
	"id", "name", "location", "description", "long_description", "price", "size",
	"bedrooms", "bathrooms", "amenities", "images", "investment_details", "features",
}

func TestListPropertiesDecodesJSONColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM properties ORDER BY position, id").
		WillReturnRows(sqlmock.NewRows(propertyColumns).
			AddRow(2, "Skyline Executive Suite", "Dubai, UAE", "desc", nil, "$3,200,000", nil,
				2, 2, `{"beds":"2 King Beds"}`, `["/a.jpg","/b.jpg"]`, `{"propertyType":"Luxury Condominium"}`, `["Pool"]`).
			AddRow(5, "Desert Oasis Villa", "Dubai, UAE", nil, nil, "$5,200,000", "6,000 sq ft",
				3, 4, nil, `["/c.jpg"]`, `{"propertyType":"Luxury Villa"}`, nil))

	repo := NewWithDB(db)
	props, err := repo.ListProperties(context.Background())
	if err != nil {
		t.Fatalf("ListProperties: %v", err)
	}
	if len(props) != 2 {
		t.Fatalf("len=%d want=2", len(props))
	}

	p := props[0]
	if p.Amenities.Beds != "2 King Beds" || len(p.Images) != 2 || p.InvestmentDetails.PropertyType != "Luxury Condominium" {
		t.Fatalf("json columns not decoded: %+v", p)
	}
	if p.LongDescription != "" || p.Size != "" {
		t.Fatalf("NULL columns should decode as empty strings")
	}
	if props[1].Features != nil || props[1].Size != "6,000 sq ft" {
		t.Fatalf("unexpected second row %+v", props[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListPropertiesRejectsCorruptJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM properties").
		WillReturnRows(sqlmock.NewRows(propertyColumns).
			AddRow(9, "Broken", "Nowhere", nil, nil, "$1", nil, 0, 0, nil, `["/x.jpg"`, nil, nil))

	if _, err := NewWithDB(db).ListProperties(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSeedCatalogRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM properties").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM tours").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO properties").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO properties").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	props := []domain.Property{
		{ID: 1, Name: "A", Location: "Dubai, UAE", Price: "$1", Images: []string{"/a.jpg"}},
		{ID: 2, Name: "B", Location: "Dubai, UAE", Price: "$2", Images: []string{"/b.jpg"}},
	}
	if err := NewWithDB(db).SeedCatalog(context.Background(), props, nil); err == nil {
		t.Fatalf("expected seed error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSeedAndLoadRoundTrip(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer repo.Close()

	doc, err := catalog.EmbeddedDocument()
	if err != nil {
		t.Fatalf("embedded catalog: %v", err)
	}
	ctx := context.Background()
	if err := repo.SeedCatalog(ctx, doc.Properties, doc.Tours); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}
	// Seeding twice replaces rather than duplicates.
	if err := repo.SeedCatalog(ctx, doc.Properties, doc.Tours); err != nil {
		t.Fatalf("second SeedCatalog: %v", err)
	}

	n, err := repo.CountProperties(ctx)
	if err != nil || n != len(doc.Properties) {
		t.Fatalf("count=%d err=%v want=%d", n, err, len(doc.Properties))
	}

	props, err := repo.ListProperties(ctx)
	if err != nil {
		t.Fatalf("ListProperties: %v", err)
	}
	tours, err := repo.ListTours(ctx)
	if err != nil {
		t.Fatalf("ListTours: %v", err)
	}

	c, err := catalog.New(props, tours)
	if err != nil {
		t.Fatalf("catalog from sqlite: %v", err)
	}
	p, err := c.Property(11)
	if err != nil {
		t.Fatalf("Property(11): %v", err)
	}
	want := doc.Properties[10]
	if p.Name != want.Name || p.Price != want.Price || p.InvestmentDetails != want.InvestmentDetails || len(p.Images) != len(want.Images) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", p, want)
	}
	if len(c.Tours()) != len(doc.Tours) {
		t.Fatalf("tours=%d want=%d", len(c.Tours()), len(doc.Tours))
	}
}

func TestListKeepsSeedOrder(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer repo.Close()

	props := []domain.Property{
		{ID: 9, Name: "Nine", Location: "Dubai, UAE", Price: "$9", Images: []string{"/9.jpg"}},
		{ID: 3, Name: "Three", Location: "Dubai, UAE", Price: "$3", Images: []string{"/3.jpg"}},
		{ID: 5, Name: "Five", Location: "Dubai, UAE", Price: "$5", Images: []string{"/5.jpg"}},
	}
	tours := []domain.Tour{{ID: 4, Name: "Four"}, {ID: 2, Name: "Two"}}

	ctx := context.Background()
	if err := repo.SeedCatalog(ctx, props, tours); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}

	got, err := repo.ListProperties(ctx)
	if err != nil {
		t.Fatalf("ListProperties: %v", err)
	}
	for i, want := range []int{9, 3, 5} {
		if got[i].ID != want {
			t.Fatalf("property order %v, want 9,3,5", got)
		}
	}

	gotTours, err := repo.ListTours(ctx)
	if err != nil {
		t.Fatalf("ListTours: %v", err)
	}
	if len(gotTours) != 2 || gotTours[0].ID != 4 || gotTours[1].ID != 2 {
		t.Fatalf("tour order %v, want 4,2", gotTours)
	}
}
