package cmd

const DESCRIPTION = `
autoattend joins your scheduled online classes for you. It builds
the day's meetings from a weekly calendar, opens each meeting at its
start time, clicks the join button and leaves again when the slot
ends, sending a notice for every step.
`

const (
	RunDescription = `The run command starts the attendance daemon in the
foreground. It keeps running until it is stopped with
"autoattend stop" or an interrupt, rebuilding the schedule
every midnight and restarting itself after a crash.

Example:
        autoattend run
        autoattend --config ~/classes.yaml run

`
	CheckDescription = `The check command validates the configuration and prints
the schedule of a day (today by default) without opening
any meeting.

Example:
        autoattend check
        autoattend check --date 2025-10-20

`
	StatusDescription = `The status command asks a running daemon for its current
state over the local status endpoint. The endpoint is only
available when an RPC secret is configured.

Example:
        AUTOATTEND_RPC_SECRET=s3cret autoattend status

`
	HistoryDescription = `The history command prints the most recent meeting
transitions recorded in the attendance journal.

Example:
        autoattend history
        autoattend history --limit 50

`
	CredsDescription = `The creds command stores or removes the notification bot
token in the system keyring. When no keyring service is
available the token is kept in a private file in the
configuration directory.

Example:
        autoattend creds set 123456:ABC-DEF
        autoattend creds delete

`
	StopDescription = `The stop command asks the running daemon to shut down and
waits for it to exit.

Example:
        autoattend stop

`
)
