package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "cw_access_token"
	COOKIE_REDIRECT_NAME     = "cw_redirect"
)
