package track

// normalize.go enforces the empty-not-null wire convention and provides the
// JSON boundary helpers. Go's zero-value strings already satisfy the
// convention for struct fields, so normalization is concerned with the parts
// encoding/json would otherwise emit as null - chiefly a nil DeskDetails
// slice - and runs immediately before serialization.

import "encoding/json"

// Normalize converts any null-equivalent in the response to the
// empty-string/empty-array wire convention. It mutates resp in place and is
// idempotent.
func Normalize(resp *StatusResponse) *StatusResponse {
	if resp == nil {
		return nil
	}
	if resp.DeskDetails == nil {
		resp.DeskDetails = []DeskDetail{}
	}
	return resp
}

// MarshalResponse normalizes and serializes a response to its inner JSON form.
func MarshalResponse(resp *StatusResponse) (string, error) {
	data, err := json.Marshal(Normalize(resp))
	if err != nil {
		return "", WrapFormatError(err, "failed to serialize status response")
	}
	return string(data), nil
}

// UnmarshalRequest parses a decrypted inner request body.
func UnmarshalRequest(data string) (*StatusRequest, error) {
	var req StatusRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return nil, WrapFormatError(err, "failed to parse status request JSON")
	}
	return &req, nil
}

// UnmarshalResponse parses a decrypted inner response body (client role).
func UnmarshalResponse(data string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, WrapFormatError(err, "failed to parse status response JSON")
	}
	return &resp, nil
}

// UnmarshalEnvelope parses the outer {"data": ...} wrapper.
func UnmarshalEnvelope(data string) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, WrapFormatError(err, "failed to parse envelope JSON")
	}
	return &env, nil
}
