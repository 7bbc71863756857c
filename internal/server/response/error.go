package response

// Error is the envelope of a failed call, as decoded by clients.
type Error struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  struct {
		Message string `json:"message"`
	} `json:"extras"`
}

func (e Error) Error() string {
	return e.Extras.Message
}
