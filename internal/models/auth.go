package models

import "encoding/json"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is what the login and refresh endpoints hand out. Customer refreshes
// answer with the bare pair, every other call wraps it in an envelope.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	SessionID    string `json:"sessionId,omitempty"`
	ExpiresAt    string `json:"expiresAt,omitempty"`
}

// UnmarshalJSON also accepts the back-office login shape, which names the access
// token "token".
func (t *TokenPair) UnmarshalJSON(raw []byte) error {
	type plain TokenPair
	var decoded struct {
		plain
		Token string `json:"token"`
	}
	err := json.Unmarshal(raw, &decoded)
	if err != nil {
		return err
	}
	*t = TokenPair(decoded.plain)
	if t.AccessToken == "" {
		t.AccessToken = decoded.Token
	}
	return nil
}

func (t TokenPair) Valid() bool {
	return t.AccessToken != ""
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}
