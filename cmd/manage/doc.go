// Manage runs docker compose lifecycle commands for a project and the
// project's own commands declared in manage_plugins.yaml.
//
// The binary locates the project from its own path: the directory holding
// it, or that directory's parent when it is named "scripts".
//
// Usage:
//
//	manage up web              # start services detached
//	manage -e prod build       # build with the prod compose overlay
//	manage logs -f --tail 100  # follow logs
//	manage shell -s web        # open a shell in the web container
//	manage clean --all         # remove project containers and volumes
//
// ENVIRONMENT overrides the project's default environment; --env wins over
// both.
package main
