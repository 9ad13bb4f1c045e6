package handlers

// Custom WebSocket close codes used by the match handlers, more specific
// than the standard set.
const (
	BadSubprotocolError   = 3000 // client connected with an unsupported subprotocol
	MatchAlreadyOverError = 3003 // match reached GameOver before the connection
)
