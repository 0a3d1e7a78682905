package repository

import (
	"database/sql"
	"strconv"

	"botpanel/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ContributionFilter narrows provider-contribution listings for the panel.
type ContributionFilter struct {
	Provider string
	Title    string
	Kind     string
	Limit    int
}

// FileFilter narrows stored-file listings. Zero-value fields are ignored.
type FileFilter struct {
	Category string
	Username string
	Name     string
	Limit    int
}

// FileCategoryStat is one aggregate row of the stored-file report.
type FileCategoryStat struct {
	Category  string `db:"categoria" json:"category"`
	Total     int64  `db:"total" json:"total"`
	TotalSize int64  `db:"total_size" json:"total_size"`
}

// ProviderStat is one aggregate row of the provider dashboard.
type ProviderStat struct {
	Provider      string `db:"proveedor" json:"provider"`
	Total         int64  `db:"total" json:"total"`
	TotalSize     int64  `db:"total_size" json:"total_size"`
	DistinctTitle int64  `db:"titulos" json:"distinct_titles"`
}

type ContributionRepository interface {
	Save(c *models.Contribution) error
	// SaveIfNew inserts the contribution unless another row already claims
	// its origin message ID. Returns false when the row already existed.
	SaveIfNew(c *models.Contribution) (bool, error)
	GetByID(id int64) (*models.Contribution, error)
	GetByUsername(username string, limit int) ([]*models.Contribution, error)
	GetByKind(kind string, limit int) ([]*models.Contribution, error)
	GetAll(limit int) ([]*models.Contribution, error)
	GetProviderContributions(f ContributionFilter) ([]*models.Contribution, error)
	GetProviderStats() ([]*ProviderStat, error)
	// GetStoredFiles lists contributions that carry a stored media file.
	GetStoredFiles(f FileFilter) ([]*models.Contribution, error)
	GetFileStats() ([]*FileCategoryStat, error)
	SearchByContent(term string) (*models.Contribution, error)
	Delete(id int64) error
	Count() (int64, error)
}

type contributionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewContributionRepository(db *sqlx.DB, logger *zap.Logger) ContributionRepository {
	return &contributionRepository{db: db, logger: logger}
}

const contributionColumns = `id, contenido, tipo, usuario, grupo, fecha, archivo_path, archivo_size, proveedor, manhwa_titulo, contenido_tipo, origen_msg_id, mensaje_original`

func (r *contributionRepository) Save(c *models.Contribution) error {
	query := `INSERT INTO aportes (contenido, tipo, usuario, grupo, fecha, archivo_path, archivo_size, proveedor, manhwa_titulo, contenido_tipo, origen_msg_id, mensaje_original)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	return r.db.QueryRowx(query, c.Content, c.Kind, c.Username, c.GroupID, c.CreatedAt,
		c.FilePath, c.FileSize, c.Provider, c.Title, c.ContentType, c.OriginMsgID, c.OriginRaw).Scan(&c.ID)
}

func (r *contributionRepository) SaveIfNew(c *models.Contribution) (bool, error) {
	query := `INSERT INTO aportes (contenido, tipo, usuario, grupo, fecha, archivo_path, archivo_size, proveedor, manhwa_titulo, contenido_tipo, origen_msg_id, mensaje_original)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          ON CONFLICT (origen_msg_id) WHERE origen_msg_id IS NOT NULL DO NOTHING
	          RETURNING id`
	err := r.db.QueryRowx(query, c.Content, c.Kind, c.Username, c.GroupID, c.CreatedAt,
		c.FilePath, c.FileSize, c.Provider, c.Title, c.ContentType, c.OriginMsgID, c.OriginRaw).Scan(&c.ID)
	if err == sql.ErrNoRows {
		return false, nil // duplicate origin message, nothing inserted
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *contributionRepository) GetByID(id int64) (*models.Contribution, error) {
	var c models.Contribution
	err := r.db.Get(&c, `SELECT `+contributionColumns+` FROM aportes WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *contributionRepository) GetByUsername(username string, limit int) ([]*models.Contribution, error) {
	var out []*models.Contribution
	err := r.db.Select(&out, `SELECT `+contributionColumns+` FROM aportes WHERE usuario = $1 ORDER BY fecha DESC LIMIT $2`, username, limit)
	return out, err
}

func (r *contributionRepository) GetByKind(kind string, limit int) ([]*models.Contribution, error) {
	var out []*models.Contribution
	err := r.db.Select(&out, `SELECT `+contributionColumns+` FROM aportes WHERE tipo = $1 ORDER BY fecha DESC LIMIT $2`, kind, limit)
	return out, err
}

func (r *contributionRepository) GetAll(limit int) ([]*models.Contribution, error) {
	var out []*models.Contribution
	err := r.db.Select(&out, `SELECT `+contributionColumns+` FROM aportes ORDER BY fecha DESC LIMIT $1`, limit)
	return out, err
}

func (r *contributionRepository) GetProviderContributions(f ContributionFilter) ([]*models.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM aportes WHERE tipo = 'proveedor_auto'`
	args := []interface{}{}
	i := 1

	if f.Provider != "" {
		query += ` AND proveedor = $` + strconv.Itoa(i)
		args = append(args, f.Provider)
		i++
	}
	if f.Title != "" {
		query += ` AND manhwa_titulo ILIKE $` + strconv.Itoa(i)
		args = append(args, "%"+f.Title+"%")
		i++
	}
	if f.Kind != "" {
		query += ` AND contenido_tipo = $` + strconv.Itoa(i)
		args = append(args, f.Kind)
		i++
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` ORDER BY fecha DESC LIMIT $` + strconv.Itoa(i)
	args = append(args, limit)

	var out []*models.Contribution
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *contributionRepository) GetProviderStats() ([]*ProviderStat, error) {
	var out []*ProviderStat
	query := `
		SELECT
			COALESCE(proveedor, 'General') AS proveedor,
			COUNT(*) AS total,
			COALESCE(SUM(archivo_size), 0) AS total_size,
			COUNT(DISTINCT manhwa_titulo) AS titulos
		FROM aportes
		WHERE tipo = 'proveedor_auto'
		GROUP BY COALESCE(proveedor, 'General')
		ORDER BY total DESC
	`
	err := r.db.Select(&out, query)
	return out, err
}

func (r *contributionRepository) GetStoredFiles(f FileFilter) ([]*models.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM aportes WHERE archivo_path IS NOT NULL`
	args := []interface{}{}
	i := 1

	if f.Category != "" {
		query += ` AND contenido_tipo = $` + strconv.Itoa(i)
		args = append(args, f.Category)
		i++
	}
	if f.Username != "" {
		query += ` AND usuario = $` + strconv.Itoa(i)
		args = append(args, f.Username)
		i++
	}
	if f.Name != "" {
		query += ` AND archivo_path ILIKE $` + strconv.Itoa(i)
		args = append(args, "%"+f.Name+"%")
		i++
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	query += ` ORDER BY fecha DESC LIMIT $` + strconv.Itoa(i)
	args = append(args, limit)

	var out []*models.Contribution
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *contributionRepository) GetFileStats() ([]*FileCategoryStat, error) {
	var out []*FileCategoryStat
	query := `
		SELECT
			COALESCE(contenido_tipo, 'desconocido') AS categoria,
			COUNT(*) AS total,
			COALESCE(SUM(archivo_size), 0) AS total_size
		FROM aportes
		WHERE archivo_path IS NOT NULL
		GROUP BY COALESCE(contenido_tipo, 'desconocido')
		ORDER BY total DESC
	`
	err := r.db.Select(&out, query)
	return out, err
}

func (r *contributionRepository) SearchByContent(term string) (*models.Contribution, error) {
	var c models.Contribution
	err := r.db.Get(&c, `SELECT `+contributionColumns+` FROM aportes WHERE contenido ILIKE $1 ORDER BY fecha DESC LIMIT 1`, "%"+term+"%")
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *contributionRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM aportes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *contributionRepository) Count() (int64, error) {
	var n int64
	err := r.db.Get(&n, `SELECT COUNT(*) FROM aportes`)
	return n, err
}
