package slack

// BuildNotificationBlocks is exported for testing
var BuildNotificationBlocks = buildNotificationBlocks
