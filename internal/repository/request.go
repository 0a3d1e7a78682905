package repository

import (
	"database/sql"

	"botpanel/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type RequestRepository interface {
	Save(req *models.Request) error
	GetByID(id int64) (*models.Request, error)
	GetByUsername(username string, limit int) ([]*models.Request, error)
	GetPending(limit int) ([]*models.Request, error)
	GetAll(limit int) ([]*models.Request, error)
	UpdateStatus(id int64, status string) error
	Delete(id int64) error
	Count() (int64, error)
}

type requestRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRequestRepository(db *sqlx.DB, logger *zap.Logger) RequestRepository {
	return &requestRepository{db: db, logger: logger}
}

func (r *requestRepository) Save(req *models.Request) error {
	query := `INSERT INTO pedidos (texto, estado, usuario, grupo, fecha)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowx(query, req.Text, req.Status, req.Username, req.GroupID, req.CreatedAt).Scan(&req.ID)
}

func (r *requestRepository) GetByID(id int64) (*models.Request, error) {
	var req models.Request
	err := r.db.Get(&req, `SELECT * FROM pedidos WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) GetByUsername(username string, limit int) ([]*models.Request, error) {
	var out []*models.Request
	err := r.db.Select(&out, `SELECT * FROM pedidos WHERE usuario = $1 ORDER BY fecha DESC LIMIT $2`, username, limit)
	return out, err
}

func (r *requestRepository) GetPending(limit int) ([]*models.Request, error) {
	var out []*models.Request
	err := r.db.Select(&out, `SELECT * FROM pedidos WHERE estado = $1 ORDER BY fecha ASC LIMIT $2`, models.RequestPending, limit)
	return out, err
}

func (r *requestRepository) GetAll(limit int) ([]*models.Request, error) {
	var out []*models.Request
	err := r.db.Select(&out, `SELECT * FROM pedidos ORDER BY fecha DESC LIMIT $1`, limit)
	return out, err
}

func (r *requestRepository) UpdateStatus(id int64, status string) error {
	res, err := r.db.Exec(`UPDATE pedidos SET estado = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *requestRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM pedidos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *requestRepository) Count() (int64, error) {
	var n int64
	err := r.db.Get(&n, `SELECT COUNT(*) FROM pedidos`)
	return n, err
}
