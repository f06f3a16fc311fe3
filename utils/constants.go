// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// BookingDraftPrefix is the prefix used for cached booking draft sessions.
const BookingDraftPrefix = "bookingdraft:"

// CalendarCachePrefix is the prefix used for cached listing calendar ranges.
const CalendarCachePrefix = "calendar:"
