package identity

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS256

// Claims is the session token payload issued by the identity provider.
type Claims struct {
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	ImageURL  string   `json:"image_url"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secretKey string
	issuer    string
	adminRole string
}

func NewVerifier(secretKey, issuer, adminRole string) *Verifier {
	if adminRole == "" {
		adminRole = models.CapabilityAdmin
	}
	return &Verifier{
		secretKey: secretKey,
		issuer:    issuer,
		adminRole: adminRole,
	}
}

// Verify checks the signature, expiry and issuer of token and returns the
// identity it asserts. The provider's admin role is mapped onto
// models.CapabilityAdmin.
func (v *Verifier) Verify(token string) (models.Identity, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{signingMethod.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	_, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.secretKey), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, app_errors.ErrTokenExpired
		}
		return models.Identity{}, fmt.Errorf("%w: %v", app_errors.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return models.Identity{}, fmt.Errorf("%w: missing subject", app_errors.ErrInvalidToken)
	}

	roles := make([]string, 0, len(claims.Roles)+1)
	admin := false
	for _, r := range claims.Roles {
		roles = append(roles, r)
		if r == v.adminRole {
			admin = true
		}
	}
	if admin && v.adminRole != models.CapabilityAdmin {
		roles = append(roles, models.CapabilityAdmin)
	}

	return models.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		ImageURL:  claims.ImageURL,
		Roles:     roles,
	}, nil
}
