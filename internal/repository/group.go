package repository

import (
	"database/sql"

	"botpanel/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type GroupRepository interface {
	Save(g *models.Group) error
	GetByJID(jid string) (*models.Group, error)
	GetAll() ([]*models.Group, error)
	GetProviders() ([]*models.Group, error)
	UpdateSettings(jid string, warnings, restrictions bool) error
	Delete(jid string) error
}

type groupRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewGroupRepository(db *sqlx.DB, logger *zap.Logger) GroupRepository {
	return &groupRepository{db: db, logger: logger}
}

// Save upserts on the chat JID so re-registering a group refreshes its
// name, kind and provider label instead of failing.
func (r *groupRepository) Save(g *models.Group) error {
	query := `INSERT INTO grupos_autorizados (jid, nombre, tipo, proveedor, min_mensajes, max_advertencias, advertencias_activas, restricciones_activas)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (jid) DO UPDATE SET nombre = EXCLUDED.nombre, tipo = EXCLUDED.tipo, proveedor = EXCLUDED.proveedor`
	_, err := r.db.Exec(query, g.JID, g.Name, g.Kind, g.Provider, g.MinMessages, g.MaxWarnings, g.WarningsEnabled, g.RestrictionsEnabled)
	return err
}

func (r *groupRepository) GetByJID(jid string) (*models.Group, error) {
	var g models.Group
	err := r.db.Get(&g, `SELECT * FROM grupos_autorizados WHERE jid = $1`, jid)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *groupRepository) GetAll() ([]*models.Group, error) {
	var out []*models.Group
	err := r.db.Select(&out, `SELECT * FROM grupos_autorizados ORDER BY nombre ASC`)
	return out, err
}

func (r *groupRepository) GetProviders() ([]*models.Group, error) {
	var out []*models.Group
	err := r.db.Select(&out, `SELECT * FROM grupos_autorizados WHERE tipo = $1 ORDER BY nombre ASC`, models.GroupProvider)
	return out, err
}

func (r *groupRepository) UpdateSettings(jid string, warnings, restrictions bool) error {
	res, err := r.db.Exec(`UPDATE grupos_autorizados SET advertencias_activas = $1, restricciones_activas = $2 WHERE jid = $3`,
		warnings, restrictions, jid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *groupRepository) Delete(jid string) error {
	res, err := r.db.Exec(`DELETE FROM grupos_autorizados WHERE jid = $1`, jid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
