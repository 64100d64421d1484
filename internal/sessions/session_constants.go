package sessions

// Note the UI may depend on some of these values, changing them will cause breaking changes
const (
	SessionCookieName = "_onboarding_session"
	SessionCtxKey     = "onboarding_session"
)

const (
	sessionNamespacePrefix = "session"
	sessionRecordKey       = "meta"
)
