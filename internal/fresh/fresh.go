// Package fresh implements RFC 7232 freshness checks shared by the request
// and response views.
package fresh

import (
	"net/http"
	"strings"
	"time"
)

// Check reports whether a cached representation described by the request
// headers is still valid for a response carrying resHeader.
func Check(reqHeader, resHeader http.Header) bool {
	modifiedSince := reqHeader.Get("If-Modified-Since")
	noneMatch := reqHeader.Get("If-None-Match")
	if modifiedSince == "" && noneMatch == "" {
		return false
	}

	if strings.Contains(reqHeader.Get("Cache-Control"), "no-cache") {
		return false
	}

	if noneMatch != "" && noneMatch != "*" {
		etag := resHeader.Get("ETag")
		if etag == "" || !matchETag(noneMatch, etag) {
			return false
		}
	}

	if modifiedSince != "" {
		lastModified := resHeader.Get("Last-Modified")
		if lastModified == "" {
			return false
		}
		lm, err := http.ParseTime(lastModified)
		if err != nil {
			return false
		}
		ims, err := http.ParseTime(modifiedSince)
		if err != nil {
			return false
		}
		if lm.After(ims.Add(time.Second - 1)) {
			return false
		}
	}

	return true
}

// Applicable reports whether a request method and response status can be
// answered from cache.
func Applicable(method string, status int) bool {
	if method != http.MethodGet && method != http.MethodHead {
		return false
	}
	return (status >= 200 && status < 300) || status == http.StatusNotModified
}

func matchETag(list, etag string) bool {
	etag = strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(list, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}
