package types

// OK is embedded (untagged) in every success payload so the JSON body
// carries "ok": true next to its own fields.
type OK struct {
	OK bool `json:"ok"`
}

// Ack returns a populated OK marker.
func Ack() OK { return OK{OK: true} }

type SuccessEnvelope struct {
	OK
	Data any `json:"data,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	OK    bool     `json:"ok"`
	Error APIError `json:"error"`
}

// IDResponse answers create calls that hand back the new row id.
type IDResponse struct {
	OK
	ID string `json:"id"`
}

// CountResponse answers bulk operations.
type CountResponse struct {
	OK
	Count int64 `json:"count"`
}
