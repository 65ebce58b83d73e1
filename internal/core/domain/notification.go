package domain

// NotificationKind names the message templates the server sends.
type NotificationKind string

const (
	NotifyWelcome       NotificationKind = "welcome"
	NotifyPasswordReset NotificationKind = "password_reset"
	NotifyNewComment    NotificationKind = "new_comment"
)

// Notification is an outgoing email.
type Notification struct {
	ID      string
	Kind    NotificationKind
	To      string
	Subject string
	Body    string
}
