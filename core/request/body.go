package request

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// ErrNoJSONBody is returned by DecodeJSON when no JSON body was parsed.
var ErrNoJSONBody = errors.New("request: no JSON body")

// Body is a parsed request payload. It is one of JSONBody, RawBody, TextBody
// or FormBody.
type Body interface {
	isBody()
}

// JSONBody is an undecoded JSON document.
type JSONBody json.RawMessage

// RawBody is the unparsed byte payload.
type RawBody []byte

// TextBody is a decoded text payload.
type TextBody string

// FormBody holds url-encoded fields, first value per key.
type FormBody map[string]string

func (JSONBody) isBody() {}
func (RawBody) isBody()  {}
func (TextBody) isBody() {}
func (FormBody) isBody() {}

// SetBody attaches the payload produced by a body parser, replacing any
// previous one. At most one variant is ever present.
func (r *Request) SetBody(b Body) {
	r.body = b
}

// HasBody reports whether a body parser attached a payload.
func (r *Request) HasBody() bool {
	return r.body != nil
}

// BodyJSON returns the JSON payload.
func (r *Request) BodyJSON() (json.RawMessage, bool) {
	b, ok := r.body.(JSONBody)
	return json.RawMessage(b), ok
}

// BodyRaw returns the raw payload.
func (r *Request) BodyRaw() ([]byte, bool) {
	b, ok := r.body.(RawBody)
	return []byte(b), ok
}

// BodyText returns the text payload.
func (r *Request) BodyText() (string, bool) {
	b, ok := r.body.(TextBody)
	return string(b), ok
}

// BodyForm returns the url-encoded payload.
func (r *Request) BodyForm() (map[string]string, bool) {
	b, ok := r.body.(FormBody)
	return map[string]string(b), ok
}

// DecodeJSON unmarshals the JSON payload into v.
func (r *Request) DecodeJSON(v any) error {
	raw, ok := r.BodyJSON()
	if !ok {
		return ErrNoJSONBody
	}
	return json.Unmarshal(raw, v)
}

// BodyPath looks up a gjson path such as "user.name" or "items.#" in the
// JSON payload.
func (r *Request) BodyPath(path string) (gjson.Result, bool) {
	raw, ok := r.BodyJSON()
	if !ok {
		return gjson.Result{}, false
	}
	res := gjson.GetBytes(raw, path)
	return res, res.Exists()
}
