// Package redact masks secrets in command lines before they are echoed to
// the terminal or written to the debug log.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs, bearer tokens and provider-specific
// tokens (GitHub, Slack). Command-line aware rules also mask the value that
// follows a sensitive flag (--password, --token, ...) and the value of
// sensitive KEY=value assignments such as -e DB_PASSWORD=hunter2.
package redact
