// Package bloglist implements a small multi-user blog list API: users
// register and log in, and authenticated users create, like and delete the
// blogs they own while everybody else can read them.
//
// Authentication:
//   - Passwords are stored as bcrypt hashes (HashPassword, PasswordMatches).
//   - Login issues HS256 JWTs through TokenService. Tokens are stateless and
//     carry the user id as subject plus an optional expiry.
//
// Request pipeline:
//   - Pipeline wires the jwtware stages in front of the controllers. The
//     token extractor runs on every route and never fails; the user extractor
//     is mounted on mutation routes only and short-circuits with 401 before
//     the handler runs.
//   - Controllers read the resolved identity through RequestContextFrom and
//     gate mutations with Classify, which wraps the pure Decide ownership rule.
//
// Errors:
//   - Failures are go-errors values tagged with a text code. ErrorHandler is
//     installed as the fiber error handler and translates them into a status
//     code and a {"error": "..."} body.
package bloglist
