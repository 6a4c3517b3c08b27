package middleware

import (
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/dmitrymomot/conduit/core/bytesize"
	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
)

// BodyParserConfig configures the body parsers.
// The env tags let it be loaded with config.Load.
type BodyParserConfig struct {
	// Limit is the largest accepted body after inflation (default: 100kb)
	Limit bytesize.Limit `env:"BODY_LIMIT" envDefault:"100kb"`

	// DisableInflate rejects gzip and deflate encoded bodies with 415
	DisableInflate bool `env:"BODY_DISABLE_INFLATE"`

	// Loose accepts any JSON value at the top level. By default only
	// objects and arrays are accepted.
	Loose bool `env:"BODY_LOOSE_JSON"`

	// ParameterLimit caps the number of urlencoded fields (default: 1000)
	ParameterLimit int `env:"BODY_PARAMETER_LIMIT" envDefault:"1000"`

	// Types overrides the media types the parser handles. Patterns follow
	// request.MatchType, e.g. "json", "application/*+json", "text/*".
	Types []string

	// Verify inspects the raw body before parsing. Errors without a status
	// code answer 403.
	Verify func(req *request.Request, body []byte) error

	// Skip defines a function to skip parsing for specific requests
	Skip func(req *request.Request) bool
}

const (
	defaultBodyLimit      = 100 * 1024
	defaultParameterLimit = 1000
)

// JSON parses application/json bodies (and "+json" suffixes) into
// request.JSONBody.
func JSON() handler.Middleware {
	return JSONWithConfig(BodyParserConfig{})
}

// JSONWithConfig is JSON with custom configuration.
func JSONWithConfig(cfg BodyParserConfig) handler.Middleware {
	return bodyParser(cfg, []string{"application/json", "application/*+json"}, func(cfg BodyParserConfig, body []byte, charset string) (request.Body, error) {
		if charset != "" && !strings.HasPrefix(charset, "utf-") {
			return nil, response.ErrUnsupportedMediaType.WithMessage(fmt.Sprintf("unsupported charset %q", strings.ToUpper(charset)))
		}
		if !cfg.Loose {
			if first := firstNonSpace(body); first != '{' && first != '[' {
				return nil, response.ErrBadRequest.WithMessage("JSON body must be an object or an array")
			}
		}
		if !gjson.ValidBytes(body) {
			return nil, response.ErrBadRequest.WithMessage("invalid JSON body")
		}
		return request.JSONBody(body), nil
	})
}

// Raw reads application/octet-stream bodies into request.RawBody.
func Raw() handler.Middleware {
	return RawWithConfig(BodyParserConfig{})
}

// RawWithConfig is Raw with custom configuration.
func RawWithConfig(cfg BodyParserConfig) handler.Middleware {
	return bodyParser(cfg, []string{"application/octet-stream"}, func(_ BodyParserConfig, body []byte, _ string) (request.Body, error) {
		return request.RawBody(body), nil
	})
}

// Text reads text/plain bodies into request.TextBody, decoding the declared
// charset to UTF-8.
func Text() handler.Middleware {
	return TextWithConfig(BodyParserConfig{})
}

// TextWithConfig is Text with custom configuration.
func TextWithConfig(cfg BodyParserConfig) handler.Middleware {
	return bodyParser(cfg, []string{"text/plain"}, func(_ BodyParserConfig, body []byte, charset string) (request.Body, error) {
		decoded, err := decodeCharset(body, charset)
		if err != nil {
			return nil, err
		}
		return request.TextBody(decoded), nil
	})
}

// URLEncoded parses application/x-www-form-urlencoded bodies into
// request.FormBody. Repeated keys keep their first value.
func URLEncoded() handler.Middleware {
	return URLEncodedWithConfig(BodyParserConfig{})
}

// URLEncodedWithConfig is URLEncoded with custom configuration.
func URLEncodedWithConfig(cfg BodyParserConfig) handler.Middleware {
	return bodyParser(cfg, []string{"application/x-www-form-urlencoded"}, func(cfg BodyParserConfig, body []byte, charset string) (request.Body, error) {
		decoded, err := decodeCharset(body, charset)
		if err != nil {
			return nil, err
		}
		if n := strings.Count(decoded, "&") + 1; n > cfg.ParameterLimit {
			return nil, response.ErrRequestEntityTooLarge.WithMessage("too many parameters").
				WithDetails(map[string]any{"limit": cfg.ParameterLimit})
		}
		values, err := url.ParseQuery(decoded)
		if err != nil {
			return nil, response.ErrBadRequest.WithMessage("invalid urlencoded body").WithCause(err)
		}
		form := make(request.FormBody, len(values))
		for k, vs := range values {
			if len(vs) > 0 {
				form[k] = vs[0]
			}
		}
		return form, nil
	})
}

type parseFunc func(cfg BodyParserConfig, body []byte, charset string) (request.Body, error)

func bodyParser(cfg BodyParserConfig, defaultTypes []string, parse parseFunc) handler.Middleware {
	if cfg.Limit.IsZero() {
		cfg.Limit = bytesize.B(defaultBodyLimit)
	}
	if cfg.ParameterLimit <= 0 {
		cfg.ParameterLimit = defaultParameterLimit
	}
	types := cfg.Types
	if len(types) == 0 {
		types = defaultTypes
	}

	return handler.From(func(next handler.Next, req *request.Request, _ *response.Response) handler.Done {
		if req.HasBody() {
			return next.Advance()
		}
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Advance()
		}
		if _, ok := req.Is(types...); !ok {
			return next.Advance()
		}

		body, err := readBody(req, cfg)
		if err != nil {
			return next.Fail(err)
		}

		var charset string
		if _, params, err := mime.ParseMediaType(req.Raw().Header.Get("Content-Type")); err == nil {
			charset = strings.ToLower(params["charset"])
		}
		parsed, err := parse(cfg, body, charset)
		if err != nil {
			return next.Fail(err)
		}

		req.SetBody(parsed)
		return next.Advance()
	})
}

func readBody(req *request.Request, cfg BodyParserConfig) ([]byte, error) {
	raw := req.Raw()
	limit := cfg.Limit.Bytes()

	if raw.ContentLength > limit {
		return nil, tooLarge(cfg.Limit, raw.ContentLength)
	}

	var body io.Reader = raw.Body
	switch encoding := strings.ToLower(strings.TrimSpace(raw.Header.Get("Content-Encoding"))); encoding {
	case "", "identity":
	case "gzip", "deflate":
		if cfg.DisableInflate {
			return nil, unsupportedEncoding(encoding)
		}
		var (
			rc  io.ReadCloser
			err error
		)
		if encoding == "gzip" {
			rc, err = gzip.NewReader(raw.Body)
		} else {
			rc, err = zlib.NewReader(raw.Body)
		}
		if err != nil {
			return nil, response.ErrBadRequest.WithMessage("invalid " + encoding + " body").WithCause(err)
		}
		defer rc.Close()
		body = rc
	default:
		return nil, unsupportedEncoding(encoding)
	}

	b, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, response.ErrBadRequest.WithMessage("failed to read request body").WithCause(err)
	}
	if int64(len(b)) > limit {
		return nil, tooLarge(cfg.Limit, -1)
	}

	if cfg.Verify != nil {
		if err := cfg.Verify(req, b); err != nil {
			if _, ok := handler.ErrorStatus(err); ok {
				return nil, err
			}
			return nil, response.ErrForbidden.WithMessage(err.Error()).WithCause(err)
		}
	}
	return b, nil
}

func decodeCharset(body []byte, charset string) (string, error) {
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return string(body), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", response.ErrUnsupportedMediaType.WithMessage(fmt.Sprintf("unsupported charset %q", strings.ToUpper(charset)))
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", response.ErrBadRequest.WithMessage("invalid " + charset + " body").WithCause(err)
	}
	return string(decoded), nil
}

func tooLarge(limit bytesize.Limit, length int64) error {
	details := map[string]any{"limit": limit.Bytes()}
	message := "request entity too large, maximum allowed: " + limit.Human()
	if length > 0 {
		details["length"] = length
		message = fmt.Sprintf("request entity too large, size: %s, maximum allowed: %s",
			humanize.IBytes(uint64(length)), limit.Human())
	}
	return response.ErrRequestEntityTooLarge.WithMessage(message).WithDetails(details)
}

func unsupportedEncoding(encoding string) error {
	return response.ErrUnsupportedMediaType.WithMessage(fmt.Sprintf("unsupported content encoding %q", encoding))
}

func firstNonSpace(b []byte) byte {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return c
	}
	return 0
}
