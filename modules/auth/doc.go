// Package auth implements account registration, password login, Kakao OAuth
// login and stateless cookie sessions.
//
// Sessions are JWT claims signed with a shared secret and carried in an
// HttpOnly bearer cookie; there is no server-side session store, tokens
// simply expire. The OAuth bridge exchanges the provider authorization code
// for an access token, fetches the user profile and maps it to a local
// account, creating one on first login.
package auth
