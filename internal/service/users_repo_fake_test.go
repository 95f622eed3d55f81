package service

import (
	"bytes"
	"context"
	"io"

	"optitrack-data/internal/domain"
	"optitrack-data/internal/repository"
)

type fakeUsersRepo struct {
	users    map[string]*repository.AuthUser // by user id
	failWith error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*repository.AuthUser{}}
}

func (f *fakeUsersRepo) CreateUser(ctx context.Context, u repository.AuthUser) error {
	if f.failWith != nil {
		return f.failWith
	}
	cp := u
	f.users[u.UserID] = &cp
	return nil
}

func (f *fakeUsersRepo) GetByEmailHash(ctx context.Context, emailHash string) (*repository.AuthUser, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.EmailHash == emailHash {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := u.User
	return &cp, nil
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, userID string, fields map[string]any) error {
	if f.failWith != nil {
		return f.failWith
	}
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "first_name":
			u.FirstName = s
		case "last_name":
			u.LastName = s
		case "occupation":
			u.Occupation = domain.Occupation(s)
		case "profile_picture":
			u.ProfilePicture = s
		}
	}
	return nil
}

// fakeBlobStore records uploads in memory.
type fakeBlobStore struct {
	blobs map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, r io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	f.blobs[key] = buf.Bytes()
	return nil
}

func (f *fakeBlobStore) URL(key string) string {
	return "/static/" + key
}
