// Package pguri translates PostgreSQL connection URIs of the form
//
//	postgresql://[user[:password]@][host][:port][/dbname][?key=value&...]
//
// into a normalized set of connection parameters, interpreted the same way
// the standard PostgreSQL command-line client interprets them. The result
// is an ordered Params mapping using a fixed vocabulary (hostname, port,
// database, username, password, socket_dir, ssl, connect_timeout) plus
// verbatim passthrough of any unrecognized query keys.
package pguri

import (
	"net/url"
	"strconv"
	"strings"
)

// Scheme is the only URI scheme accepted by Parse.
const Scheme = "postgresql"

// Parse decomposes uri and maps its positional fields and query-string
// fields into a single Params mapping. Query-string fields are applied
// after positional fields and override them when both name the same
// parameter. Empty positional hosts and empty query values produce no
// entry at all. Parse is a pure function and safe for concurrent use.
func Parse(uri string) (*Params, error) {
	u, err := url.Parse(uri)
	if err != nil {
		// url.Parse validates the port digits itself, so a bad
		// positional port surfaces here rather than via Port().
		if port, ok := positionalPort(uri); ok && !validPort(port) {
			return nil, ErrInvalidPort.New("%q", port)
		}
		return nil, ErrInvalidURI.Wrap(err)
	}

	if u.Scheme != Scheme {
		return nil, ErrUnsupportedScheme.New("%q", u.Scheme)
	}

	params := newParams()
	if err := applyPositional(u, params); err != nil {
		return nil, err
	}
	if err := applyQuery(u.RawQuery, params); err != nil {
		return nil, err
	}

	return params, nil
}

// positionalPort extracts the raw port from the authority of an unparsed
// URI: everything between the last colon of the host part and the end of
// the authority. Reports false when the authority carries no port.
func positionalPort(uri string) (string, bool) {
	authority, ok := strings.CutPrefix(uri, Scheme+"://")
	if !ok {
		return "", false
	}
	if i := strings.IndexAny(authority, "/?#"); i >= 0 {
		authority = authority[:i]
	}
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		authority = authority[i+1:]
	}

	i := strings.LastIndexByte(authority, ':')
	// A colon inside an IPv6 literal is not a port separator.
	if i < 0 || strings.Contains(authority[i:], "]") {
		return "", false
	}
	return authority[i+1:], true
}

func validPort(port string) bool {
	for _, ch := range port {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// applyPositional maps the URI's structural components onto params. Each
// component is handled independently; absent components emit nothing.
func applyPositional(u *url.URL, params *Params) error {
	// A positional host is always a hostname, never a socket directory,
	// even when it starts with "/".
	if host := u.Hostname(); host != "" {
		params.Set("hostname", host)
	}

	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return ErrInvalidPort.New("%q", portStr)
		}
		params.Set("port", port)
	}

	// One leading slash belongs to the URI grammar; the database name is
	// whatever remains, including the empty string.
	if u.Path != "" {
		params.Set("database", strings.TrimPrefix(u.Path, "/"))
	}

	if u.User != nil {
		params.Set("username", u.User.Username())
		if password, ok := u.User.Password(); ok {
			params.Set("password", password)
		}
	}

	return nil
}

// applyQuery decodes the raw query string pair by pair, in order, and maps
// each pair onto params. Later pairs overwrite earlier ones, and every
// query entry overwrites a positional entry of the same name.
func applyQuery(rawQuery string, params *Params) error {
	if rawQuery == "" {
		return nil
	}

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return ErrInvalidURI.Wrap(err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return ErrInvalidURI.Wrap(err)
		}

		// An empty value drops the pair entirely, whatever the key.
		if value == "" {
			continue
		}

		switch key {
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return ErrInvalidPort.New("%q", value)
			}
			params.Set("port", port)
		case "host":
			// A leading slash marks a unix socket directory, the
			// same convention libpq uses.
			if strings.HasPrefix(value, "/") {
				params.Set("socket_dir", value)
			} else {
				params.Set("hostname", value)
			}
		case "user":
			params.Set("username", value)
		case "dbname":
			params.Set("database", value)
		case "sslmode":
			params.Set("ssl", value != "disable")
		case "connect_timeout":
			seconds, err := strconv.Atoi(value)
			if err != nil {
				return ErrInvalidTimeout.New("%q", value)
			}
			params.Set("connect_timeout", seconds*1000)
		default:
			params.Set(key, value)
		}
	}

	return nil
}
