package request

import "strings"

// Method is the closed set of HTTP methods the pipeline recognizes.
type Method uint8

const (
	MethodUnknown Method = iota
	MethodGet
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
	MethodHead
	MethodOptions
	MethodTrace
	MethodConnect
)

var methodNames = [...]string{
	MethodUnknown: "",
	MethodGet:     "GET",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodPatch:   "PATCH",
	MethodDelete:  "DELETE",
	MethodHead:    "HEAD",
	MethodOptions: "OPTIONS",
	MethodTrace:   "TRACE",
	MethodConnect: "CONNECT",
}

// ParseMethod matches s case-insensitively against the known methods.
// Any other string yields MethodUnknown.
func ParseMethod(s string) Method {
	for m := MethodGet; m <= MethodConnect; m++ {
		if strings.EqualFold(s, methodNames[m]) {
			return m
		}
	}
	return MethodUnknown
}

// String returns the canonical upper-case name, or "UNKNOWN".
func (m Method) String() string {
	if m == MethodUnknown || int(m) >= len(methodNames) {
		return "UNKNOWN"
	}
	return methodNames[m]
}

// Protocol is the closed set of URL schemes a request can arrive over.
type Protocol uint8

const (
	ProtocolUnknown Protocol = iota
	ProtocolHTTP
	ProtocolHTTPS
)

// ParseProtocol matches s case-insensitively against "http" and "https".
func ParseProtocol(s string) Protocol {
	switch {
	case strings.EqualFold(s, "http"):
		return ProtocolHTTP
	case strings.EqualFold(s, "https"):
		return ProtocolHTTPS
	default:
		return ProtocolUnknown
	}
}

func (p Protocol) String() string {
	switch p {
	case ProtocolHTTP:
		return "http"
	case ProtocolHTTPS:
		return "https"
	default:
		return "unknown"
	}
}
