package repository

import (
	"botpanel/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CategoryStat is the per-category rollup of the audit log.
type CategoryStat struct {
	Category string `db:"tipo" json:"category"`
	Total    int64  `db:"total" json:"total"`
}

type LogRepository interface {
	Save(e *models.LogEntry) error
	GetAll(limit int) ([]*models.LogEntry, error)
	GetByCategory(category string, limit int) ([]*models.LogEntry, error)
	GetStats() ([]*CategoryStat, error)
	Purge(keepDays int) (int64, error)
}

type logRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLogRepository(db *sqlx.DB, logger *zap.Logger) LogRepository {
	return &logRepository{db: db, logger: logger}
}

func (r *logRepository) Save(e *models.LogEntry) error {
	query := `INSERT INTO logs (tipo, comando, usuario, grupo, fecha, detalles)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowx(query, e.Category, e.Command, e.Username, e.GroupID, e.CreatedAt, e.Details).Scan(&e.ID)
}

func (r *logRepository) GetAll(limit int) ([]*models.LogEntry, error) {
	var out []*models.LogEntry
	err := r.db.Select(&out, `SELECT * FROM logs ORDER BY fecha DESC LIMIT $1`, limit)
	return out, err
}

func (r *logRepository) GetByCategory(category string, limit int) ([]*models.LogEntry, error) {
	var out []*models.LogEntry
	err := r.db.Select(&out, `SELECT * FROM logs WHERE tipo = $1 ORDER BY fecha DESC LIMIT $2`, category, limit)
	return out, err
}

func (r *logRepository) GetStats() ([]*CategoryStat, error) {
	var out []*CategoryStat
	err := r.db.Select(&out, `SELECT tipo, COUNT(*) AS total FROM logs GROUP BY tipo ORDER BY total DESC`)
	return out, err
}

// Purge drops entries older than keepDays and reports how many went.
func (r *logRepository) Purge(keepDays int) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM logs WHERE fecha < NOW() - make_interval(days => $1)`, keepDays)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return n, err
}
