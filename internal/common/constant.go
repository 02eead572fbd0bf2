package common

const (
	// AccessTokenHeaderName is the gRPC metadata / HTTP header carrying the
	// bearer token.
	AccessTokenHeaderName = "authorization"

	// BearerScheme prefixes the token inside AccessTokenHeaderName.
	BearerScheme = "Bearer"

	// EntityUser and EntityTask name entities in NotFoundError.
	EntityUser = "user"
	EntityTask = "task"

	// FieldUsername and FieldEmail name unique fields in ConflictError.
	FieldUsername = "username"
	FieldEmail    = "email"
)
