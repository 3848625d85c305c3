package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"vidstream/internal/model"
)

// Repository mocks follow the service package: per-test function fields with
// benign defaults, plus call tracking where tests assert on it.

type mockUserRepo struct {
	createFn          func(ctx context.Context, user *model.User) error
	getByIDFn         func(ctx context.Context, id int64) (*model.User, error)
	getByIdentifierFn func(ctx context.Context, username, email string) (*model.User, error)
	existsFn          func(ctx context.Context, username, email string) (bool, error)
	updateAvatarFn    func(ctx context.Context, userID int64, avatarURL string) (*model.User, error)

	createCalls int
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) GetByIdentifier(ctx context.Context, username, email string) (*model.User, error) {
	if m.getByIdentifierFn != nil {
		return m.getByIdentifierFn(ctx, username, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, username, email)
	}
	return false, nil
}

func (m *mockUserRepo) SetRefreshToken(ctx context.Context, userID int64, token string) error {
	return nil
}

func (m *mockUserRepo) RotateRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error) {
	return true, nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHashed string) error {
	return nil
}

func (m *mockUserRepo) UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*model.User, error) {
	return &model.User{ID: userID, FullName: fullName, Email: email}, nil
}

func (m *mockUserRepo) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*model.User, error) {
	if m.updateAvatarFn != nil {
		return m.updateAvatarFn(ctx, userID, avatarURL)
	}
	return &model.User{ID: userID, AvatarURL: avatarURL}, nil
}

func (m *mockUserRepo) UpdateCoverImage(ctx context.Context, userID int64, coverImageURL string) (*model.User, error) {
	return &model.User{ID: userID, CoverImageURL: coverImageURL}, nil
}

type mockVideoRepo struct {
	createFn func(ctx context.Context, video *model.Video) error
}

func (m *mockVideoRepo) Create(ctx context.Context, video *model.Video) error {
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	video.ID = 1
	return nil
}

func (m *mockVideoRepo) GetByID(ctx context.Context, videoID int64) (*model.VideoWithOwner, error) {
	return nil, model.ErrVideoNotFound
}

func (m *mockVideoRepo) RecordView(ctx context.Context, viewerID, videoID int64) error {
	return nil
}

func (m *mockVideoRepo) GetWatchHistory(ctx context.Context, userID int64) ([]model.WatchHistoryEntry, error) {
	return nil, nil
}

// stubUploader records which folders were uploaded to and which objects were
// deleted, without touching storage.
type stubUploader struct {
	uploadErr error

	uploads     []string
	deletedKeys []string
	deletedURLs []string
}

func (s *stubUploader) upload(folder string) (*model.UploadResult, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.uploads = append(s.uploads, folder)
	key := folder + "/hosted-object"
	return &model.UploadResult{URL: "https://media.test/" + key, Key: key}, nil
}

func (s *stubUploader) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	return s.upload("avatars")
}

func (s *stubUploader) UploadCoverImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	return s.upload("covers")
}

func (s *stubUploader) UploadThumbnail(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	return s.upload("thumbnails")
}

func (s *stubUploader) UploadVideo(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	return s.upload("videos")
}

func (s *stubUploader) DeleteObject(ctx context.Context, key string) error {
	s.deletedKeys = append(s.deletedKeys, key)
	return nil
}

func (s *stubUploader) DeleteByURL(ctx context.Context, url string) error {
	s.deletedURLs = append(s.deletedURLs, url)
	return nil
}

// stubAuthenticator hands the fixed user to the auth middleware for requests
// carrying any token.
type stubAuthenticator struct {
	user *model.User
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	return s.user, nil
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for field, filename := range files {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("file-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}
