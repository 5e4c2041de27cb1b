// Package extension loads per-project commands into a registry.
//
// A project extends the tool in two ways. Go programs embedding the tool
// pass [Func] values that register commands directly. Any project may also
// carry a manifest (manage_plugins.yaml) at its root declaring a project
// configuration and commands built from steps:
//
//	config:
//	  name: shop
//	  compose_files: [docker-compose.yml]
//	  env_compose_pattern: docker-compose.{env}.yml
//	commands:
//	  - name: db
//	    help: Database helpers
//	    subcommands:
//	      - name: psql
//	        steps:
//	          - require_running: db
//	          - compose: [exec, db, psql, -U, "{{ .Args.user }}"]
//	        arguments:
//	          - flags: [--user]
//	            default: postgres
//
// Step tokens are text/template strings evaluated against the parsed
// arguments (.Args), the selected environment (.Env), the project
// configuration (.Project) and the project root (.ProjectDir). A token of
// the form "...name" expands to every value of the list argument name.
// Tokens that render empty are dropped.
package extension
