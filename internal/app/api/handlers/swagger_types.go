package handlers

// RespOK is a generic OK envelope for documentation purposes.
type RespOK struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// RespErr is the error envelope: a taxonomy code and a client-safe message.
type RespErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
