// Package driving defines the interfaces external actors use to drive
// the core: the CLI, the HTTP API, and the terminal chat client.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driving
