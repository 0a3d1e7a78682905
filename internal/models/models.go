package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Contribution represents a classified content artifact stored in 'aportes'.
// Rows are created by the /addaporte command or by the provider pipeline;
// they are never updated, only deleted by privileged panel users.
type Contribution struct {
	ID           int64     `db:"id" json:"id"`
	Content      string    `db:"contenido" json:"content"`
	Kind         string    `db:"tipo" json:"kind"` // free-form tag: manhwa, ilustracion, extra, proveedor_auto, ...
	Username     string    `db:"usuario" json:"username"`
	GroupID      *string   `db:"grupo" json:"group_id,omitempty"`
	CreatedAt    time.Time `db:"fecha" json:"created_at"`
	FilePath     *string   `db:"archivo_path" json:"file_path,omitempty"`
	FileSize     *int64    `db:"archivo_size" json:"file_size,omitempty"`
	Provider     *string   `db:"proveedor" json:"provider,omitempty"`
	Title        *string   `db:"manhwa_titulo" json:"title,omitempty"`
	ContentType  *string   `db:"contenido_tipo" json:"content_type,omitempty"`
	OriginMsgID  *string   `db:"origen_msg_id" json:"origin_message_id,omitempty"`
	OriginRaw    *string   `db:"mensaje_original" json:"origin_raw,omitempty"` // JSON snapshot of the source message
}

// Request statuses form a closed enum; transitions are deliberately
// unconstrained (any state to any state).
const (
	RequestPending    = "pendiente"
	RequestInProgress = "en_proceso"
	RequestCompleted  = "completado"
	RequestRejected   = "rechazado"
)

// Request is a user's ask for content, stored in 'pedidos'.
type Request struct {
	ID        int64     `db:"id" json:"id"`
	Text      string    `db:"texto" json:"text"`
	Status    string    `db:"estado" json:"status"`
	Username  string    `db:"usuario" json:"username"`
	GroupID   *string   `db:"grupo" json:"group_id,omitempty"`
	CreatedAt time.Time `db:"fecha" json:"created_at"`
}

// Poll lifecycle states.
const (
	PollActive = "activa"
	PollClosed = "cerrada"
)

// Poll is a titled question with a serialized option list, stored in 'votaciones'.
type Poll struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"titulo" json:"title"`
	Description string     `db:"descripcion" json:"description"`
	Options     string     `db:"opciones" json:"options"` // JSON array of option strings
	StartsAt    time.Time  `db:"fecha_inicio" json:"starts_at"`
	EndsAt      *time.Time `db:"fecha_fin" json:"ends_at,omitempty"`
	Status      string     `db:"estado" json:"status"`
	Creator     string     `db:"creador" json:"creator"`
}

// Vote is a single ballot in 'votos'; (poll, voter) is unique at the storage
// layer, so a duplicate insert fails rather than racing past a pre-check.
type Vote struct {
	ID        int64     `db:"id" json:"id"`
	PollID    int64     `db:"votacion_id" json:"poll_id"`
	Username  string    `db:"usuario" json:"username"`
	Option    string    `db:"opcion" json:"option"`
	CreatedAt time.Time `db:"fecha" json:"created_at"`
}

// Group kinds.
const (
	GroupNormal   = "normal"
	GroupProvider = "proveedor"
)

// Group is an authorized chat group, stored in 'grupos_autorizados'.
// Provider groups are the only source of automatic classification.
type Group struct {
	JID                 string `db:"jid" json:"jid"`
	Name                string `db:"nombre" json:"name"`
	Kind                string `db:"tipo" json:"kind"`
	Provider            string `db:"proveedor" json:"provider"`
	MinMessages         int    `db:"min_mensajes" json:"min_messages"`
	MaxWarnings         int    `db:"max_advertencias" json:"max_warnings"`
	WarningsEnabled     bool   `db:"advertencias_activas" json:"warnings_enabled"`
	RestrictionsEnabled bool   `db:"restricciones_activas" json:"restrictions_enabled"`
}

// Manhwa is a catalog entry in 'manhwas'. Series share the table with a
// "Serie - <genre>" genre prefix, mirroring how the catalog grew.
type Manhwa struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"titulo" json:"title"`
	Author       string    `db:"autor" json:"author"`
	Genre        string    `db:"genero" json:"genre"`
	Status       string    `db:"estado" json:"status"`
	Description  string    `db:"descripcion" json:"description"`
	URL          string    `db:"url" json:"url"`
	Provider     string    `db:"proveedor" json:"provider"`
	RegisteredAt time.Time `db:"fecha_registro" json:"registered_at"`
	RegisteredBy string    `db:"usuario_registro" json:"registered_by"`
}

// Roles form the sole authorization axis.
const (
	RoleOwner        = "owner"
	RoleAdmin        = "admin"
	RoleCollaborator = "colaborador"
	RoleUser         = "usuario"
)

// User is a panel account in 'usuarios', optionally linked to a chat identity.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"rol" json:"role"`
	ChatID       *string   `db:"whatsapp_number" json:"chat_id,omitempty"`
	GroupID      *string   `db:"grupo_registro" json:"group_id,omitempty"`
	CreatedAt    time.Time `db:"fecha_registro" json:"created_at"`
}

// Ban marks a chat identity as banned; presence of a row is the ban.
type Ban struct {
	Username  string    `db:"usuario" json:"username"`
	Reason    string    `db:"motivo" json:"reason"`
	CreatedAt time.Time `db:"fecha" json:"created_at"`
}

// LogEntry is one append-only audit row in 'logs'.
type LogEntry struct {
	ID        int64     `db:"id" json:"id"`
	Category  string    `db:"tipo" json:"category"` // consulta, comando, administracion, configuracion, proveedor, ...
	Command   string    `db:"comando" json:"command"`
	Username  string    `db:"usuario" json:"username"`
	GroupID   *string   `db:"grupo" json:"group_id,omitempty"`
	CreatedAt time.Time `db:"fecha" json:"created_at"`
	Details   *string   `db:"detalles" json:"details,omitempty"` // JSON blob
}

// Setting is a persisted runtime toggle in 'bot_config'.
type Setting struct {
	Key        string    `db:"clave" json:"key"`
	Value      string    `db:"valor" json:"value"`
	Desc       string    `db:"descripcion" json:"description"`
	ModifiedAt time.Time `db:"fecha_modificacion" json:"modified_at"`
}

// Claims defines the structure of the JWT claims issued to panel users.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
