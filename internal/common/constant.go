package common

// SessionCookieName is the cookie that carries the signed session credential
// on authenticated requests.
const SessionCookieName = "homedrive_session"
