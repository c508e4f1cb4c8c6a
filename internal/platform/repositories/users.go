package repositories

import (
	"database/sql"

	"shortspace/internal/platform/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	return r.getOne(`
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE id = ?
	`, id)
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne(`
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE username = ?
	`, username)
}

// GetByEmail matches case-insensitively; the email column carries
// COLLATE NOCASE.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE email = ?
	`, email)
}

func (r *UserRepository) getOne(query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
