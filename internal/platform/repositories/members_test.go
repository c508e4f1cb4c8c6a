package repositories

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRoleOf_NoRowIsEmptyNotError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT role FROM organization_members").
		WithArgs("usr_1", "org_1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	repo := NewMemberRepository(db)
	role, err := repo.RoleOf("usr_1", "org_1")
	if err != nil {
		t.Fatalf("Expected no error for missing membership, got %v", err)
	}
	if role != "" {
		t.Errorf("Expected empty role, got %q", role)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRoleOf_QueryErrorPropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT role FROM organization_members").
		WillReturnError(errors.New("connection lost"))

	repo := NewMemberRepository(db)
	if _, err := repo.RoleOf("usr_1", "org_1"); err == nil {
		t.Error("Expected query error to propagate, got nil")
	}
}

func TestIncrementClicks_SingleAtomicUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	// The increment must be one UPDATE, never a read-modify-write.
	mock.ExpectExec(`UPDATE short_urls SET click_count = click_count \+ 1`).
		WithArgs("url_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewShortURLRepository(db)
	if err := repo.IncrementClicks("url_1"); err != nil {
		t.Fatalf("IncrementClicks failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
