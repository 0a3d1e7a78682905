package repository

import (
	"database/sql"

	"botpanel/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type ManhwaRepository interface {
	Save(m *models.Manhwa) error
	GetByID(id int64) (*models.Manhwa, error)
	GetByTitle(title string) (*models.Manhwa, error)
	GetAll(limit int) ([]*models.Manhwa, error)
	GetSeries(limit int) ([]*models.Manhwa, error)
	Search(term string, limit int) ([]*models.Manhwa, error)
	Update(m *models.Manhwa) error
	Delete(id int64) error
	Count() (int64, error)
}

type manhwaRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewManhwaRepository(db *sqlx.DB, logger *zap.Logger) ManhwaRepository {
	return &manhwaRepository{db: db, logger: logger}
}

func (r *manhwaRepository) Save(m *models.Manhwa) error {
	query := `INSERT INTO manhwas (titulo, autor, genero, estado, descripcion, url, proveedor, fecha_registro, usuario_registro)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowx(query, m.Title, m.Author, m.Genre, m.Status, m.Description, m.URL, m.Provider,
		m.RegisteredAt, m.RegisteredBy).Scan(&m.ID)
}

func (r *manhwaRepository) GetByID(id int64) (*models.Manhwa, error) {
	var m models.Manhwa
	err := r.db.Get(&m, `SELECT * FROM manhwas WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *manhwaRepository) GetByTitle(title string) (*models.Manhwa, error) {
	var m models.Manhwa
	err := r.db.Get(&m, `SELECT * FROM manhwas WHERE LOWER(titulo) = LOWER($1)`, title)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *manhwaRepository) GetAll(limit int) ([]*models.Manhwa, error) {
	var out []*models.Manhwa
	err := r.db.Select(&out, `SELECT * FROM manhwas ORDER BY titulo ASC LIMIT $1`, limit)
	return out, err
}

// GetSeries lists entries registered through /addserie; they carry a
// "Serie - " genre prefix rather than a table of their own.
func (r *manhwaRepository) GetSeries(limit int) ([]*models.Manhwa, error) {
	var out []*models.Manhwa
	err := r.db.Select(&out, `SELECT * FROM manhwas WHERE genero LIKE 'Serie - %' ORDER BY titulo ASC LIMIT $1`, limit)
	return out, err
}

func (r *manhwaRepository) Search(term string, limit int) ([]*models.Manhwa, error) {
	var out []*models.Manhwa
	err := r.db.Select(&out, `SELECT * FROM manhwas WHERE titulo ILIKE $1 ORDER BY titulo ASC LIMIT $2`, "%"+term+"%", limit)
	return out, err
}

func (r *manhwaRepository) Update(m *models.Manhwa) error {
	query := `UPDATE manhwas SET titulo = $1, autor = $2, genero = $3, estado = $4, descripcion = $5, url = $6, proveedor = $7
	          WHERE id = $8`
	res, err := r.db.Exec(query, m.Title, m.Author, m.Genre, m.Status, m.Description, m.URL, m.Provider, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *manhwaRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM manhwas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *manhwaRepository) Count() (int64, error) {
	var n int64
	err := r.db.Get(&n, `SELECT COUNT(*) FROM manhwas`)
	return n, err
}
