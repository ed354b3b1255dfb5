package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"

	"gymflow/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var errMalformedJSON = apperr.Validation("VALIDATION_ERROR", "Malformed JSON")

// Fields that hold secrets are passed through untouched.
var unsanitized = map[string]bool{
	"password": true,
}

// Sanitize strips markup from every string in JSON request bodies.
func Sanitize() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		if !hasBody(c.Request) {
			c.Next()
			return
		}

		buf, err := readBody(c)
		if err != nil {
			abort(c, apperr.Validation("VALIDATION_ERROR", "Invalid body"))
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Next()
			return
		}

		decoder := json.NewDecoder(bytes.NewReader(buf))
		decoder.UseNumber()
		var body interface{}
		if err := decoder.Decode(&body); err != nil {
			abort(c, errMalformedJSON)
			return
		}

		cleaned, err := json.Marshal(sanitizeValue(policy, "", body))
		if err != nil {
			abort(c, errMalformedJSON)
			return
		}
		setBody(c, cleaned)
		c.Next()
	}
}

func sanitizeValue(policy *bluemonday.Policy, key string, v interface{}) interface{} {
	switch typed := v.(type) {
	case string:
		if unsanitized[key] {
			return typed
		}
		return stripMarkup(policy, typed)
	case map[string]interface{}:
		for k, inner := range typed {
			typed[k] = sanitizeValue(policy, k, inner)
		}
		return typed
	case []interface{}:
		for i, inner := range typed {
			typed[i] = sanitizeValue(policy, key, inner)
		}
		return typed
	default:
		return v
	}
}

// stripMarkup removes tags but stores plain text, so "Gold & Silver" stays
// as typed. Escaped markup is decoded and stripped again until stable.
func stripMarkup(policy *bluemonday.Policy, s string) string {
	for i := 0; i < 3; i++ {
		out := html.UnescapeString(policy.Sanitize(s))
		if out == s {
			return out
		}
		s = out
	}
	return s
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.Body != nil && r.Body != http.NoBody
	}
	return false
}

// readBody drains the request body and puts an identical copy back.
func readBody(c *gin.Context) ([]byte, error) {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	setBody(c, buf)
	return buf, nil
}

func setBody(c *gin.Context, buf []byte) {
	c.Request.Body = io.NopCloser(bytes.NewReader(buf))
	c.Request.ContentLength = int64(len(buf))
}
