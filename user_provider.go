package bloglist

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UserProvider resolves identities from the user store
type UserProvider struct {
	store  UserStore
	hasher PasswordAuthenticator
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		hasher: BcryptHasher{},
		logger: defaultLogger("bloglist.user_provider"),
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	u.logger = normalizeLogger(l, "bloglist.user_provider")
	return u
}

func (u *UserProvider) WithHasher(h PasswordAuthenticator) *UserProvider {
	if h != nil {
		u.hasher = h
	}
	return u
}

// VerifyIdentity will find the user, compare to the password, and return
// the user. Unknown usernames and wrong passwords fail the same way, and
// both pay for one bcrypt comparison.
func (u UserProvider) VerifyIdentity(ctx context.Context, username, password string) (*User, error) {
	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		if IsNotFound(err) {
			_ = u.hasher.ComparePasswordAndHash(password, dummyHash())
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := u.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return user, nil
}

// FindIdentityByID loads the user a token subject refers to. A subject
// that is not an id, or no longer exists, is ErrIdentityNotFound.
func (u UserProvider) FindIdentityByID(ctx context.Context, subject string) (*User, error) {
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrIdentityNotFound
	}

	user, err := u.store.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve identity")
	}

	return user, nil
}
