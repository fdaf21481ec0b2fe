package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for the Community Hub server.
// It includes standard claims required by the JWT specification and the custom claims
// necessary for identifying guest sessions.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the identifier of the session holder, a server-generated Guest ID.
	ID string `json:"id"`

	// UserType defines the role of the session holder. Every session issued by this
	// server is a "guest" session; the field is kept for forward compatibility with
	// registered accounts.
	UserType string `json:"user_type"`
}
