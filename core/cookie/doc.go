// Package cookie describes cookie attributes for the response view and signs
// cookie values.
//
// Options are functional:
//
//	res.Cookie("session", id,
//		cookie.WithHTTPOnly(),
//		cookie.WithSecure(),
//		cookie.WithSameSite(cookie.SameSiteLax),
//		cookie.WithMaxAge(24*time.Hour),
//	)
//
// Signed cookies carry an HMAC-SHA256 signature in the "s:<value>.<sig>"
// form. Reading them back through the request view verifies the signature:
//
//	signer, _ := cookie.NewSigner(newSecret, oldSecret)
//	v, err := signer.Unsign(raw)
package cookie
