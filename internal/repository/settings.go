package repository

import (
	"database/sql"

	"botpanel/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Well-known bot_config keys.
const (
	SettingPrivateMode    = "modo_privado"
	SettingFriendsOnly    = "modo_amigos"
	SettingWarningsActive = "advertencias_activas"
)

type SettingsRepository interface {
	Get(key string) (*models.Setting, error)
	// GetBool reads a toggle, falling back to def when the key is absent.
	GetBool(key string, def bool) (bool, error)
	Set(key, value string) error
	GetAll() ([]*models.Setting, error)
}

type settingsRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSettingsRepository(db *sqlx.DB, logger *zap.Logger) SettingsRepository {
	return &settingsRepository{db: db, logger: logger}
}

func (r *settingsRepository) Get(key string) (*models.Setting, error) {
	var s models.Setting
	err := r.db.Get(&s, `SELECT * FROM bot_config WHERE clave = $1`, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) GetBool(key string, def bool) (bool, error) {
	s, err := r.Get(key)
	if err != nil {
		return def, err
	}
	if s == nil {
		return def, nil
	}
	return s.Value == "true", nil
}

func (r *settingsRepository) Set(key, value string) error {
	query := `INSERT INTO bot_config (clave, valor, fecha_modificacion)
	          VALUES ($1, $2, NOW())
	          ON CONFLICT (clave) DO UPDATE SET valor = EXCLUDED.valor, fecha_modificacion = NOW()`
	_, err := r.db.Exec(query, key, value)
	return err
}

func (r *settingsRepository) GetAll() ([]*models.Setting, error) {
	var out []*models.Setting
	err := r.db.Select(&out, `SELECT * FROM bot_config ORDER BY clave ASC`)
	return out, err
}
