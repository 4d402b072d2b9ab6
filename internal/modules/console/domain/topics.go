package domain

import "strings"

const (
	SystemEntity      = "system"
	CalendarEntity    = "calendar"
	AppointmentEntity = "appointments"

	ActionConnected    = "connected"
	ActionPong         = "pong"
	ActionError        = "error"
	ActionNotification = "notification"
	ActionNavigate     = "navigate"
	ActionEvents       = "events"
	ActionMovePending  = "move_pending"
	ActionCreated      = "created"
	ActionUpdated      = "updated"
	ActionDeleted      = "deleted"

	TopicSystemConnected    = SystemEntity + "." + ActionConnected
	TopicSystemPong         = SystemEntity + "." + ActionPong
	TopicSystemError        = SystemEntity + "." + ActionError
	TopicSystemNotification = SystemEntity + "." + ActionNotification
	TopicSystemNavigate     = SystemEntity + "." + ActionNavigate
	TopicCalendarEvents     = CalendarEntity + "." + ActionEvents
	TopicCalendarMove       = CalendarEntity + "." + ActionMovePending
)

// AppointmentTopics are the backend change topics that invalidate calendars.
func AppointmentTopics() []string {
	return []string{
		CustomTopic(AppointmentEntity, ActionCreated),
		CustomTopic(AppointmentEntity, ActionUpdated),
		CustomTopic(AppointmentEntity, ActionDeleted),
	}
}

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}

// SplitTopic splits "entity.action"; the action of a dotless topic is empty.
func SplitTopic(topic string) (string, string) {
	trimmed := strings.TrimSpace(topic)
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 {
		return trimmed, ""
	}
	return trimmed[:idx], trimmed[idx+1:]
}
