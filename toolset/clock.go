package toolset

import (
	"context"
	"time"

	"github.com/spetersoncode/thinkact/tool"
)

// ClockName is the tool name of the clock tool.
const ClockName = "current_time"

// ClockArgs are the arguments of current_time.
type ClockArgs struct {
	Timezone string `json:"timezone,omitempty" desc:"IANA time zone such as Europe/Paris; default UTC"`
}

// Clock returns a tool reporting the current time in RFC 3339 form.
func Clock() tool.Registration {
	return clockWith(time.Now)
}

func clockWith(now func() time.Time) tool.Registration {
	return tool.Func(ClockName, "Get the current date and time", func(ctx context.Context, args ClockArgs) (string, error) {
		loc := time.UTC
		if args.Timezone != "" {
			l, err := time.LoadLocation(args.Timezone)
			if err != nil {
				return "", err
			}
			loc = l
		}
		t := now().In(loc)
		return t.Format(time.RFC3339) + " (" + t.Weekday().String() + ")", nil
	})
}
