package repository

import (
	"database/sql"

	"botpanel/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type UserRepository interface {
	CreateUser(u *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	GetByChatID(chatID string) (*models.User, error)
	GetAll() ([]*models.User, error)
	UpdateRole(username, role string) error
	Delete(username string) error

	// Bans live alongside users: both answer "who is this sender".
	Ban(b *models.Ban) error
	Unban(username string) error
	IsBanned(username string) (bool, error)
	GetBans() ([]*models.Ban, error)
}

type userRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) CreateUser(u *models.User) error {
	query := `INSERT INTO usuarios (username, password_hash, rol, whatsapp_number, grupo_registro, fecha_registro)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowx(query, u.Username, u.PasswordHash, u.Role, u.ChatID, u.GroupID, u.CreatedAt).Scan(&u.ID)
}

func (r *userRepository) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.Get(&u, `SELECT * FROM usuarios WHERE username = $1`, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByChatID(chatID string) (*models.User, error) {
	var u models.User
	err := r.db.Get(&u, `SELECT * FROM usuarios WHERE whatsapp_number = $1`, chatID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetAll() ([]*models.User, error) {
	var out []*models.User
	err := r.db.Select(&out, `SELECT * FROM usuarios ORDER BY fecha_registro DESC`)
	return out, err
}

func (r *userRepository) UpdateRole(username, role string) error {
	res, err := r.db.Exec(`UPDATE usuarios SET rol = $1 WHERE username = $2`, role, username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(username string) error {
	res, err := r.db.Exec(`DELETE FROM usuarios WHERE username = $1`, username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *userRepository) Ban(b *models.Ban) error {
	query := `INSERT INTO baneados (usuario, motivo, fecha)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (usuario) DO UPDATE SET motivo = EXCLUDED.motivo, fecha = EXCLUDED.fecha`
	_, err := r.db.Exec(query, b.Username, b.Reason, b.CreatedAt)
	return err
}

func (r *userRepository) Unban(username string) error {
	res, err := r.db.Exec(`DELETE FROM baneados WHERE usuario = $1`, username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *userRepository) IsBanned(username string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM baneados WHERE usuario = $1`, username)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) GetBans() ([]*models.Ban, error) {
	var out []*models.Ban
	err := r.db.Select(&out, `SELECT * FROM baneados ORDER BY fecha DESC`)
	return out, err
}
