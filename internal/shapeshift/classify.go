package shapeshift

// CallOptions adjusts how one call's response is normalized. The zero
// value means default handling (arbitrary-precision decimal parsing).
type CallOptions struct {
	// ParseNumber is applied to every numeric-like string in the
	// response. Nil means ParseDecimal. The parser is threaded through
	// the whole normalization pass explicitly; there is no process-wide
	// override.
	ParseNumber NumericParser
}

// CallOption mutates CallOptions.
type CallOption func(*CallOptions)

// WithNumericParser overrides the numeric parser for one call.
func WithNumericParser(p NumericParser) CallOption {
	return func(o *CallOptions) { o.ParseNumber = p }
}

// Classify separates success from remote failure and normalizes the
// decoded response body for one operation. It returns exactly one of a
// canonical value or an error (*RemoteError or *ValidationError); transport
// failures never reach this layer.
func Classify(op string, body any, opts CallOptions) (any, error) {
	parse := opts.ParseNumber
	if parse == nil {
		parse = ParseDecimal
	}

	m, isMap := body.(map[string]any)

	// validateAddress nominally errors on bad addresses but still carries
	// the validity verdict; the verdict wins over the error marker.
	if op == OpValidateAddress {
		if isMap {
			if v, ok := m["isvalid"]; ok {
				return v, nil
			}
		}
		if msg, found := remoteError(m, isMap); found {
			return nil, &RemoteError{Op: op, Message: msg, Raw: body}
		}
		return nil, &ValidationError{Op: op, Field: "isvalid", Raw: body}
	}

	if msg, found := remoteError(m, isMap); found {
		return nil, &RemoteError{Op: op, Message: msg, Raw: body}
	}

	if OpTags(op).Has(TagNumericResponse) {
		// A single bare field named after the operation, not a mapping;
		// the general key rules do not apply.
		if isMap {
			if v, ok := m[op]; ok {
				if s, ok := v.(string); ok {
					return parse(s), nil
				}
				return v, nil
			}
		}
		return nil, &ValidationError{Op: op, Field: op, Raw: body}
	}

	switch op {
	case OpSendAmount:
		// The transaction payload arrives wrapped in a "success" envelope.
		if isMap {
			if payload, ok := m["success"]; ok {
				return tidyIn(payload, parse), nil
			}
			return nil, &ValidationError{Op: op, Field: "success", Raw: body}
		}
	case OpMail:
		// Opaque free text, not data to be typed.
		return body, nil
	}

	return tidyIn(body, parse), nil
}

// remoteError extracts the remote-error indicator from a response mapping.
// A present "error" key counts as a failure even with a blank message.
func remoteError(m map[string]any, isMap bool) (msg string, found bool) {
	if !isMap {
		return "", false
	}
	v, ok := m["error"]
	if !ok || v == nil {
		return "", false
	}
	s, _ := v.(string)
	if s == "" {
		s = emptyRemoteErrorMessage
	}
	return s, true
}
