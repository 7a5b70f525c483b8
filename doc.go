// Package directory is a user-directory and authentication service: it
// stores account records (login, credential digest, profile, role, and a
// soft-delete audit trail) and exposes the lifecycle operations to
// authenticate, create, update, and retire them behind a cookie session.
//
// Account lifecycle:
//   - Accounts move between active and revoked through the Policy layer.
//     Revocation is a soft delete: the record stays in the store with its
//     login reserved until an admin restores it or removes it for good.
//   - LifecycleGuard centralizes the transition table and audit stamping;
//     Policy is the only writer against the store.
//
// Sessions:
//   - Auther mints an HS256 token with a fixed three-claim schema (id,
//     login, role) and a non-sliding expiry. RouteAuthenticator carries it
//     in an HTTP-only, same-site-strict cookie and re-derives the acting
//     account from the live record on every privileged call, so the role
//     claim is never trusted past issuance.
package directory
