package util

import (
	"time"
	// embedded zoneinfo so Asia/Seoul resolves on hosts without tzdata
	_ "time/tzdata"
)

// KST is the zone every draw date and schedule is expressed in. It must be a
// named IANA zone: gocron prefixes crontabs with CRON_TZ=<name>.
var KST = mustLoadLocation("Asia/Seoul")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
