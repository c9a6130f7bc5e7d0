package model

// Partner is one of the two fixed business owners. The roster is seeded by
// migration and is not user-creatable.
type Partner struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar,omitempty"`
	PasswordHash string `json:"-"`
}

// Session is a signed-in partner identity. It lives in the durable cache so
// it survives API restarts; logging out deletes it.
type Session struct {
	Token       string `json:"token"`
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
}
