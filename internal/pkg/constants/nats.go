package constants

// NATS Subjects
const (
	SubjectNotifyBroadcast    = "notify.broadcast"
	SubjectNotifyResource     = "notify.resource"
	SubjectNotifyNotification = "notify.notification"
)
