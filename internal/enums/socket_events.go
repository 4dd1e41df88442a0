package enums

// Client -> server socket events
const (
	SOCKET_EVENT_JOIN_CONVERSATION  = "conversation:join"
	SOCKET_EVENT_LEAVE_CONVERSATION = "conversation:leave"
	SOCKET_EVENT_TYPING_START       = "typing:start"
	SOCKET_EVENT_TYPING_STOP        = "typing:stop"
)

// Server -> client socket events
const (
	SOCKET_EVENT_NEW_MESSAGE  = "message:new"
	SOCKET_EVENT_READ_MESSAGE = "message:read"
)
