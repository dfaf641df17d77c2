package cache

// Crisis escalation dedup keys. The alert and the author notification are
// claimed separately so a retry only redoes the step that failed.
// Format: "crisis:alert:<contentID>", "crisis:notify:<contentID>"
func CrisisAlertKey(contentID string) string {
	return "crisis:alert:" + contentID
}

func CrisisNotificationKey(contentID string) string {
	return "crisis:notify:" + contentID
}
