package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "avatar.png", "avatar.png", false},
		{"spaces", "my cat.jpg", "my_cat.jpg", false},
		{"traversal", "../../etc/passwd", "etc_passwd", false},
		{"windows path", `C:\Users\me\pic.png`, "C_Users_me_pic.png", false},
		{"accents", "café.png", "cafe.png", false},
		{"leading dots", "...hidden.png", "hidden.png", false},
		{"device name", "con.png", "_con.png", false},
		{"only unsafe", "???", "", true},
		{"only non ascii", "日本", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilename)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func multipartFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("profile_pic", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["profile_pic"][0]
}

func TestPictureStore_SaveOverwritesSameName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profile_pics")
	store, err := NewPictureStore(dir)
	require.NoError(t, err)

	name, err := store.Save(multipartFile(t, "../me.png", []byte("first")))
	require.NoError(t, err)
	assert.Equal(t, "me.png", name)

	_, err = store.Save(multipartFile(t, "me.png", []byte("second")))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "me.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestPictureStore_SaveRejectsUnusableName(t *testing.T) {
	store, err := NewPictureStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(multipartFile(t, "???", []byte("x")))
	assert.ErrorIs(t, err, ErrInvalidFilename)
}

func TestNewPictureStoreInstallsDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pics")

	_, err := NewPictureStore(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "default.png"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", http.DetectContentType(data))
}

func TestNewPictureStoreKeepsExistingDefault(t *testing.T) {
	dir := t.TempDir()
	custom := []byte("site specific avatar")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.png"), custom, 0o644))

	_, err := NewPictureStore(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "default.png"))
	require.NoError(t, err)
	assert.Equal(t, custom, data)
}
