package request

import (
	"mime"
	"strconv"
	"strings"
)

type mediaRange struct {
	typ, sub string
	q        float64
}

// Accepts returns the offer that best matches the Accept header. Offers are
// full media types ("application/json"), extensions ("json") or wildcards.
// Without an Accept header the first offer wins.
func (r *Request) Accepts(offers ...string) (string, bool) {
	if len(offers) == 0 {
		return "", false
	}
	accept := r.raw.Header.Get("Accept")
	if accept == "" {
		return offers[0], true
	}

	ranges := parseAccept(accept)
	best, bestQ := "", 0.0
	for _, offer := range offers {
		if q := quality(ranges, NormalizeType(offer)); q > bestQ {
			best, bestQ = offer, q
		}
	}
	return best, bestQ > 0
}

// Is returns the first of types matching the request Content-Type.
// Requests without a body never match.
func (r *Request) Is(types ...string) (string, bool) {
	if r.raw.ContentLength == 0 && len(r.raw.TransferEncoding) == 0 {
		return "", false
	}
	return MatchType(r.raw.Header.Get("Content-Type"), types...)
}

// MatchType returns the first pattern that matches contentType. Patterns may
// be extensions ("json"), full types, wildcards ("text/*") or structured
// syntax suffixes ("+json", "application/*+json").
func MatchType(contentType string, patterns ...string) (string, bool) {
	actual, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	for _, p := range patterns {
		if mimeMatch(NormalizeType(p), actual) {
			return p, true
		}
	}
	return "", false
}

// NormalizeType expands an extension or suffix into a media type pattern.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	switch {
	case strings.HasPrefix(t, "+"):
		return "*/*" + t
	case strings.Contains(t, "/"):
		return t
	}
	if full := mime.TypeByExtension("." + t); full != "" {
		if mt, _, err := mime.ParseMediaType(full); err == nil {
			return mt
		}
	}
	return t
}

func mimeMatch(pattern, actual string) bool {
	pt, ps, ok := strings.Cut(pattern, "/")
	if !ok {
		return false
	}
	at, as, ok := strings.Cut(actual, "/")
	if !ok {
		return false
	}
	if pt != "*" && pt != at {
		return false
	}
	if ps == "*" || ps == as {
		return true
	}
	if suffix, ok := strings.CutPrefix(ps, "*+"); ok {
		return strings.HasSuffix(as, "+"+suffix)
	}
	return false
}

func parseAccept(header string) []mediaRange {
	parts := strings.Split(header, ",")
	out := make([]mediaRange, 0, len(parts))
	for _, part := range parts {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		typ, sub, ok := strings.Cut(mt, "/")
		if !ok {
			continue
		}
		q := 1.0
		if v, ok := params["q"]; ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				q = f
			}
		}
		out = append(out, mediaRange{typ: typ, sub: sub, q: q})
	}
	return out
}

// quality returns the q value of the most specific range matching mt.
func quality(ranges []mediaRange, mt string) float64 {
	typ, sub, ok := strings.Cut(mt, "/")
	if !ok {
		return 0
	}
	q, specificity := 0.0, -1
	for _, rg := range ranges {
		s := -1
		switch {
		case rg.typ == typ && rg.sub == sub:
			s = 2
		case rg.typ == typ && rg.sub == "*":
			s = 1
		case rg.typ == "*" && rg.sub == "*":
			s = 0
		}
		if s > specificity {
			q, specificity = rg.q, s
		}
	}
	return q
}
