package auth

type SessionKey string

var (
	SessionKeyToken          SessionKey = "auth_token"
	SessionKeyTokenIssuedAt  SessionKey = "auth_token_issued_at"
	SessionKeyUserData       SessionKey = "auth_user"
	SessionKeyRedirectOrigin SessionKey = "redirect_origin"
	SessionKeyOauthState     SessionKey = "oauth_state"
	SessionKeyCredential     SessionKey = "credential_key"
)
