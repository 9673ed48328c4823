// Package secret resolves projector passwords from configuration values.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Registry)
//   - Resolving secret references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:PJLINK_PASSWORD
//   - File-backed: secretref:file:/etc/projectors/boardroom.pass
//
// Plain strings pass through untouched, so a literal password in
// configuration keeps working.
package secret
