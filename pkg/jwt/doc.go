// Package jwt signs and validates RS256 bearer tokens for the Clubhouse API.
//
// # Token Generation
//
//	svc, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/private.pem",
//	    Issuer:         "clubhouse",
//	    ExpirationMins: 60,
//	})
//	token, err := svc.Sign(jwt.Claims{UserID: "user:ada", Roles: []string{"moderator"}})
//
// # Token Validation
//
// A service built from only a public key can validate but not sign:
//
//	claims, err := svc.Validate(tokenString)
//	if errors.Is(err, jwt.ErrTokenExpired) {
//	    // ask the client to sign in again
//	}
//
// Claims embed jwt.RegisteredClaims and add user_id, email, username and
// roles.
package jwt
