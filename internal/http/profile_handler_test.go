package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"optitrack-data/internal/domain"
	"optitrack-data/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProfileRouter(auth *stubAuthService) *Router {
	r := NewRouter(zap.NewNop())
	r.RegisterProfileRoutes(NewProfileHandler(auth, zap.NewNop()))
	return r
}

func TestGetProfile(t *testing.T) {
	router := newProfileRouter(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	code, result := decodeEnvelope(t, w.Body)
	require.Equal(t, ResultSuccess, code)

	var user domain.User
	require.NoError(t, json.Unmarshal(result, &user))
	assert.Equal(t, testUser.UserID, user.UserID)
}

func TestUpdateProfile_Endpoint(t *testing.T) {
	auth := &stubAuthService{
		updateProfileFn: func(ctx context.Context, userID string, req service.UpdateProfileRequest) (*domain.User, error) {
			assert.Equal(t, testUser.UserID, userID)
			u := testUser
			u.FirstName = req.FirstName
			return &u, nil
		},
	}
	router := newProfileRouter(auth)

	body, _ := json.Marshal(service.UpdateProfileRequest{FirstName: "Samuel"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	code, result := decodeEnvelope(t, w.Body)
	require.Equal(t, ResultSuccess, code)

	var user domain.User
	require.NoError(t, json.Unmarshal(result, &user))
	assert.Equal(t, "Samuel", user.FirstName)
}

func TestUploadPicture_Multipart(t *testing.T) {
	auth := &stubAuthService{
		uploadPictureFn: func(ctx context.Context, userID, filename string, data io.Reader) (*domain.User, error) {
			assert.Equal(t, "me.png", filename)
			content, err := io.ReadAll(data)
			require.NoError(t, err)
			assert.Equal(t, []byte("png-bytes"), content)

			u := testUser
			u.ProfilePicture = "/static/profilePictures/u-1.png"
			return &u, nil
		},
	}
	router := newProfileRouter(auth)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("picture", "me.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/picture", &buf)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	code, result := decodeEnvelope(t, w.Body)
	require.Equal(t, ResultSuccess, code)

	var user domain.User
	require.NoError(t, json.Unmarshal(result, &user))
	assert.Equal(t, "/static/profilePictures/u-1.png", user.ProfilePicture)
}

func TestUploadPicture_MissingFile(t *testing.T) {
	router := newProfileRouter(&stubAuthService{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/picture", &buf)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	code, _ := decodeEnvelope(t, w.Body)
	assert.Equal(t, ResultError, code)
}
