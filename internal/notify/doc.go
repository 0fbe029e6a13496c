// Package notify delivers generated lines by email: on demand for previews
// and on a weekly cron schedule for active subscribers.
package notify
