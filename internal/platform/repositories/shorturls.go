package repositories

import (
	"database/sql"
	"time"

	"shortspace/internal/platform/models"
)

type ShortURLRepository struct {
	db *sql.DB
}

func NewShortURLRepository(db *sql.DB) *ShortURLRepository {
	return &ShortURLRepository{db: db}
}

const shortURLColumns = `
	u.id, u.original_url, u.short_code, u.namespace_id, u.created_by,
	u.click_count, u.created_at, u.updated_at, n.name, n.organization_id
`

func (r *ShortURLRepository) Create(u *models.ShortURL) error {
	_, err := r.db.Exec(`
		INSERT INTO short_urls (id, original_url, short_code, namespace_id, created_by, click_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.OriginalURL, u.ShortCode, u.NamespaceID, u.CreatedBy, u.ClickCount, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *ShortURLRepository) GetByID(id string) (*models.ShortURL, error) {
	row := r.db.QueryRow(`
		SELECT `+shortURLColumns+`
		FROM short_urls u
		JOIN namespaces n ON n.id = u.namespace_id
		WHERE u.id = ?
	`, id)
	return scanShortURL(row)
}

func (r *ShortURLRepository) GetByOriginalURL(originalURL string) (*models.ShortURL, error) {
	row := r.db.QueryRow(`
		SELECT `+shortURLColumns+`
		FROM short_urls u
		JOIN namespaces n ON n.id = u.namespace_id
		WHERE u.original_url = ?
	`, originalURL)
	return scanShortURL(row)
}

// Short codes are unique across all namespaces; availability is
// checked globally.
func (r *ShortURLRepository) ExistsByShortCode(code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM short_urls WHERE short_code = ?)`, code).Scan(&exists)
	return exists, err
}

func (r *ShortURLRepository) GetByNamespaceAndCode(namespaceName, code string) (*models.ShortURL, error) {
	row := r.db.QueryRow(`
		SELECT `+shortURLColumns+`
		FROM short_urls u
		JOIN namespaces n ON n.id = u.namespace_id
		WHERE n.name = ? AND u.short_code = ?
	`, namespaceName, code)
	return scanShortURL(row)
}

// ListForUser returns short URLs in organizations where the user
// holds any role, optionally filtered to one namespace.
func (r *ShortURLRepository) ListForUser(userID, namespaceFilter string) ([]*models.ShortURL, error) {
	query := `
		SELECT ` + shortURLColumns + `
		FROM short_urls u
		JOIN namespaces n ON n.id = u.namespace_id
		JOIN organization_members m ON m.organization_id = n.organization_id
		WHERE m.user_id = ?
	`
	args := []interface{}{userID}
	if namespaceFilter != "" {
		query += " AND u.namespace_id = ?"
		args = append(args, namespaceFilter)
	}
	query += " ORDER BY u.created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []*models.ShortURL
	for rows.Next() {
		u, err := scanShortURL(rows)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (r *ShortURLRepository) Update(u *models.ShortURL) error {
	_, err := r.db.Exec(`
		UPDATE short_urls SET original_url = ?, short_code = ?, updated_at = ? WHERE id = ?
	`, u.OriginalURL, u.ShortCode, time.Now().Unix(), u.ID)
	return err
}

func (r *ShortURLRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM short_urls WHERE id = ?`, id)
	return err
}

// IncrementClicks bumps the counter in a single UPDATE. The increment
// happens inside the storage engine, so concurrent redirects to the
// same code never lose an update.
func (r *ShortURLRepository) IncrementClicks(id string) error {
	_, err := r.db.Exec(`UPDATE short_urls SET click_count = click_count + 1 WHERE id = ?`, id)
	return err
}

func scanShortURL(s interface {
	Scan(dest ...interface{}) error
}) (*models.ShortURL, error) {
	u := &models.ShortURL{}
	var createdBy sql.NullString

	err := s.Scan(
		&u.ID, &u.OriginalURL, &u.ShortCode, &u.NamespaceID, &createdBy,
		&u.ClickCount, &u.CreatedAt, &u.UpdatedAt, &u.NamespaceName, &u.OrgID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if createdBy.Valid {
		u.CreatedBy = createdBy.String
	}
	return u, nil
}
