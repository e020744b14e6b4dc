package cache

import "time"

const (
	KEY_VARIANT = "variant:%d"
	VARIANT_TTL = time.Hour
)
