package photo

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["photo"][0]
}

func TestSaveKeepsExtension(t *testing.T) {
	store := NewStore(t.TempDir())

	name, err := store.Save(uploadHeader(t, "logo.png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(name))
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Save(uploadHeader(t, "big.png", make([]byte, MaxUploadSize+1)))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestRemoveIgnoresMissingFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	name, err := store.Save(uploadHeader(t, "logo.png", []byte("png-bytes")))
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	// Second removal of the same file is fine.
	assert.NoError(t, store.Remove(name))
	assert.NoError(t, store.Remove(""))
}
