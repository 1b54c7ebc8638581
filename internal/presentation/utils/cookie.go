package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	CookieAdminSession = "admin_session"

	adminSessionTTL = 24 * time.Hour
)

// signSession produces "expiry.signature" where the signature covers the
// expiry timestamp. Sessions carry no identity, only proof that the holder
// passed the login form.
func signSession(secret []byte, expiresAt int64) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(expiresAt, 10)))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return strconv.FormatInt(expiresAt, 10) + "." + sig
}

func SetAdminSessionCookie(w http.ResponseWriter, secret []byte) {
	expiresAt := time.Now().Add(adminSessionTTL)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieAdminSession,
		Value:    signSession(secret, expiresAt.Unix()),
		Path:     "/",
		HttpOnly: true,
		Expires:  expiresAt,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearAdminSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieAdminSession,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(-24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
}

func HasValidAdminSession(r *http.Request, secret []byte) bool {
	if len(secret) == 0 {
		return false
	}

	cookie, err := r.Cookie(CookieAdminSession)
	if err != nil {
		return false
	}

	expiry, _, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return false
	}

	expiresAt, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil || time.Now().Unix() > expiresAt {
		return false
	}

	expected := signSession(secret, expiresAt)

	return hmac.Equal([]byte(cookie.Value), []byte(expected))
}
