package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"gallery-app/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

const (
	CSRFField  = "_csrf"
	CSRFHeader = "csrf-token"
	csrfLabel  = "csrf"
)

var ErrBadCSRFToken = errors.New("invalid csrf token")

// CSRFToken returns the token forms must echo back for this session.
func CSRFToken(c *gin.Context) string {
	return csrfTokenFor(SessionFrom(c).CSRFSecret())
}

func csrfTokenFor(secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(csrfLabel))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CSRF rejects unsafe requests that do not carry the session's token in
// the header, the form or JSON body, or the query string.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		presented := c.GetHeader(CSRFHeader)
		if presented == "" {
			presented = c.PostForm(CSRFField)
		}
		if presented == "" && c.ContentType() == gin.MIMEJSON {
			presented = csrfFromJSON(c)
		}
		if presented == "" {
			presented = c.Query(CSRFField)
		}

		secret := SessionFrom(c).data.CSRFSecret
		if secret == "" || presented == "" || !hmac.Equal([]byte(presented), []byte(csrfTokenFor(secret))) {
			metrics.CSRFRejections.Inc()
			_ = c.Error(ErrBadCSRFToken)
			c.Abort()
			return
		}
		c.Next()
	}
}

// csrfFromJSON peeks at the _csrf member of a JSON object body and puts
// the body back for the handler.
func csrfFromJSON(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	buf, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(buf))
	if err != nil {
		return ""
	}
	var body struct {
		CSRF string `json:"_csrf"`
	}
	if json.Unmarshal(buf, &body) != nil {
		return ""
	}
	return body.CSRF
}
