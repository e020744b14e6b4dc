package cache

import "time"

const (
	KEY_ORDER = "order:%s"
	ORDER_TTL = 24 * time.Hour
)
