package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody    = Error("invalid request body")
	ErrEmailAlreadyExists    = Error("user with this email already exists")
	ErrUserNameAlreadyExists = Error("username already taken")
	ErrUserNotFound          = Error("user not found")
	ErrWrongPassword         = Error("wrong password")
	ErrInvalidToken          = Error("invalid token")
	ErrUnauthorized          = Error("unauthorized")
	ErrInvalidEmail          = Error("invalid email")
	ErrInvalidPassword       = Error("password must be at least 6 characters")
	ErrInvalidUserName       = Error("username must be between 3 and 30 characters")
	ErrInvalidUser           = Error("invalid user")
	ErrInvalidRequest        = Error("invalid request")
	ErrInvalidParams         = Error("invalid params")
	ErrInvalidOtp            = Error("invalid verification code")
	ErrOtpExpired            = Error("verification code expired")
	ErrConversationNotFound  = Error("conversation not found")
	ErrSelfConversation      = Error("cannot start a conversation with yourself")
	ErrNotConversationMember = Error("user is not a member of this conversation")
	ErrMessageNotFound       = Error("message not found")
	ErrEmptyMessage          = Error("message requires content or media")
	ErrInternal              = Error("something went wrong")
)
