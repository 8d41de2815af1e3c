package auth

// Role distingue los dos perfiles de la app.
type Role string

const (
	RolePatient   Role = "patient"
	RoleTherapist Role = "therapist"
)

// Claims representa la información extraída del token.
// Ninguna operación del core acepta un identity venido del body/query:
// todo se deriva de estos claims.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}
