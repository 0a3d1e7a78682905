package repository

import (
	"database/sql"
	"errors"

	"botpanel/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrAlreadyVoted reports a second ballot from the same voter in a poll.
// The database constraint is the source of truth, so concurrent duplicate
// votes collapse into this error instead of both landing.
var ErrAlreadyVoted = errors.New("user has already voted in this poll")

// VoteCount is one option's tally for a poll.
type VoteCount struct {
	Option string `db:"opcion" json:"option"`
	Count  int64  `db:"total" json:"count"`
}

type PollRepository interface {
	Save(p *models.Poll) error
	GetByID(id int64) (*models.Poll, error)
	GetActive() ([]*models.Poll, error)
	GetAll(limit int) ([]*models.Poll, error)
	Close(id int64) error
	Delete(id int64) error
	SaveVote(v *models.Vote) error
	GetVotes(pollID int64) ([]*models.Vote, error)
	CountVotes(pollID int64) ([]*VoteCount, error)
}

type pollRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPollRepository(db *sqlx.DB, logger *zap.Logger) PollRepository {
	return &pollRepository{db: db, logger: logger}
}

func (r *pollRepository) Save(p *models.Poll) error {
	query := `INSERT INTO votaciones (titulo, descripcion, opciones, fecha_inicio, fecha_fin, estado, creador)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowx(query, p.Title, p.Description, p.Options, p.StartsAt, p.EndsAt, p.Status, p.Creator).Scan(&p.ID)
}

func (r *pollRepository) GetByID(id int64) (*models.Poll, error) {
	var p models.Poll
	err := r.db.Get(&p, `SELECT * FROM votaciones WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *pollRepository) GetActive() ([]*models.Poll, error) {
	var out []*models.Poll
	err := r.db.Select(&out, `SELECT * FROM votaciones WHERE estado = $1 ORDER BY fecha_inicio DESC`, models.PollActive)
	return out, err
}

func (r *pollRepository) GetAll(limit int) ([]*models.Poll, error) {
	var out []*models.Poll
	err := r.db.Select(&out, `SELECT * FROM votaciones ORDER BY fecha_inicio DESC LIMIT $1`, limit)
	return out, err
}

func (r *pollRepository) Close(id int64) error {
	res, err := r.db.Exec(`UPDATE votaciones SET estado = $1, fecha_fin = NOW() WHERE id = $2 AND estado = $3`,
		models.PollClosed, id, models.PollActive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the poll and its ballots via the FK cascade.
func (r *pollRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM votaciones WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *pollRepository) SaveVote(v *models.Vote) error {
	query := `INSERT INTO votos (votacion_id, usuario, opcion, fecha)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowx(query, v.PollID, v.Username, v.Option, v.CreatedAt).Scan(&v.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyVoted
		}
		return err
	}
	return nil
}

func (r *pollRepository) GetVotes(pollID int64) ([]*models.Vote, error) {
	var out []*models.Vote
	err := r.db.Select(&out, `SELECT * FROM votos WHERE votacion_id = $1 ORDER BY fecha ASC`, pollID)
	return out, err
}

func (r *pollRepository) CountVotes(pollID int64) ([]*VoteCount, error) {
	var out []*VoteCount
	query := `SELECT opcion, COUNT(*) AS total FROM votos WHERE votacion_id = $1 GROUP BY opcion ORDER BY total DESC`
	err := r.db.Select(&out, query, pollID)
	return out, err
}
