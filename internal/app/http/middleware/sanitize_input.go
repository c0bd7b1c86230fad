package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

const maxFormMemory = 32 << 20

// SanitizeAndCleanInputMiddleware strips markup from string fields of JSON
// and form bodies using bluemonday. Secrets and URL fields pass untouched.
// Values keep their literal characters: "Smith & Sons" stays as typed.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		switch c.ContentType() {
		case gin.MIMEJSON:
			if !sanitizeJSON(c, policy) {
				return
			}
		case gin.MIMEPOSTForm:
			if err := c.Request.ParseForm(); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed form"})
				return
			}
			sanitizeValues(c.Request.PostForm, policy)
			sanitizeValues(c.Request.Form, policy)
		case gin.MIMEMultipartPOSTForm:
			if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed form"})
				return
			}
			sanitizeValues(c.Request.PostForm, policy)
			sanitizeValues(c.Request.Form, policy)
			if c.Request.MultipartForm != nil {
				sanitizeValues(c.Request.MultipartForm.Value, policy)
			}
		}

		c.Next()
	}
}

func sanitizeJSON(c *gin.Context, policy *bluemonday.Policy) bool {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return false
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		c.Request.Body = io.NopCloser(bytes.NewReader(buf))
		return true
	}

	var body map[string]interface{}
	if err := json.Unmarshal(buf, &body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
		return false
	}
	for k, v := range body {
		if str, ok := v.(string); ok && !skipSanitize(k) {
			body[k] = stripMarkup(policy, str)
		}
	}

	newBody, _ := json.Marshal(body)
	c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
	c.Request.ContentLength = int64(len(newBody))
	return true
}

func sanitizeValues(values map[string][]string, policy *bluemonday.Policy) {
	for k, vs := range values {
		if skipSanitize(k) {
			continue
		}
		for i, v := range vs {
			vs[i] = stripMarkup(policy, v)
		}
	}
}

// stripMarkup drops tags and undoes the entity escaping bluemonday applies
// to the remaining text.
func stripMarkup(policy *bluemonday.Policy, v string) string {
	return html.UnescapeString(policy.Sanitize(v))
}

func skipSanitize(field string) bool {
	return field == CSRFField ||
		strings.Contains(field, "password") ||
		strings.HasSuffix(field, "_url")
}
