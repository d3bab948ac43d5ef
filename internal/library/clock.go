package library

import "time"

// nowFunc is replaced in tests.
var nowFunc = time.Now

func nowMillis() int64 {
	return nowFunc().UnixMilli()
}
