// Package auth reconciles two login paths, password credentials and
// third-party identity providers, onto a single stable user record, then
// mints a signed session token carrying that record's claims.
//
// Credential path:
//   - UserProvider verifies an email/password pair against the stored bcrypt
//     hash. Missing input fails before any store access; nonexistent emails,
//     provider-only accounts without a password, and wrong passwords all
//     collapse into the same ErrInvalidCredentials so callers cannot probe
//     for account existence.
//
// Social path:
//   - The social subpackage links a verified provider profile to a user
//     keyed by email, creating the record when none exists. The first
//     provider to link an account wins; later logins from a different
//     provider never overwrite the stored linkage.
//
// Tokens:
//   - TokenService signs SessionClaims (subject id + role) with a
//     process-wide secret injected at construction. Verification rebuilds a
//     SessionObject from the token alone and reports every failure mode as
//     the single ErrTokenInvalid.
//
// Activity sinks:
//   - ActivitySink is a best-effort audit emitter used by Auther and the
//     social linker. Errors are logged, never propagated, so telemetry can
//     forward to a database or queue without blocking authentication.
package auth
