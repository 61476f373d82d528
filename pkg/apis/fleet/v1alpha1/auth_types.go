package v1alpha1

// Grant types accepted by the token endpoint. Only GrantTypeRefreshToken is
// implemented; the others answer 501.
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeRefreshToken      = "refresh_token"
	GrantTypeClientCredentials = "client_credentials"
)

// TokenRequest is the body of a token endpoint call, discriminated by
// grant_type. Fields that do not apply to the selected grant are left empty.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
	Code         string `json:"code,omitempty"`
	RedirectURI  string `json:"redirect_uri,omitempty"`

	// Scope is the space-separated list of scope names being requested.
	Scope    string `json:"scope,omitempty"`
	Audience string `json:"audience,omitempty"`
}

// RawToken is the wire form of a freshly minted token pair.
type RawToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    uint64 `json:"expires_in"`
}
