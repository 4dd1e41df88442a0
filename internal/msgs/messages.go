package msgs

const (
	MsgOperationSuccessful      = "operation successful"
	MsgOperationFailed          = "operation failed"
	MsgUserCreatedSuccessfully  = "user created successfully"
	MsgUserVerifiedSuccessfully = "user verified successfully"
	MsgYouMustLoginFirst        = "you must login first"
	MsgConversationCreated      = "conversation created"
	MsgConversationFetched      = "existing conversation fetched"
	MsgMessageSent              = "message sent"
	MsgMessageMarkedAsRead      = "message marked as read"
	MsgFileUploadedSuccessfully = "file uploaded successfully"
	MsgContactAddedSuccessfully = "contact added successfully"
)
