package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/alcotrade/alcotrade-cms/pkg/enums"
)

// AccessTokenPayload is what MintAccessToken signs.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.Role
	JTI    string
}

type AccessTokenClaims struct {
	UserID uuid.UUID  `json:"user_id"`
	Email  string     `json:"email,omitempty"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

var _ jwt.ClaimsValidator = (*AccessTokenClaims)(nil)

// Validate runs after the registered claim checks. A token without a user,
// a role or a jti cannot be tied to a session.
func (c *AccessTokenClaims) Validate() error {
	switch {
	case c.UserID == uuid.Nil:
		return fmt.Errorf("token carries no user id")
	case !c.Role.IsValid():
		return fmt.Errorf("token carries unknown role %q", c.Role)
	case c.ID == "":
		return fmt.Errorf("token carries no jti")
	}
	return nil
}
