package netx

import (
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_SetReplacesAndHas(t *testing.T) {
	var f Form
	f.Set("descricao", "old")
	f.Set("descricao", "new")
	f.Set("imagens_manter", "")

	v, ok := f.Value("descricao")
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.True(t, f.Has("imagens_manter"))
	assert.False(t, f.Has("missing"))
}

func TestForm_Encode(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "foto.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\nrest"), 0o600))

	var f Form
	f.Set("nome_alimento", "Arroz")
	f.Attach("imagens", png)
	assert.Equal(t, []string{png}, f.Files("imagens"))

	body, contentType, err := f.Encode()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(body, params["boundary"])

	part, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "nome_alimento", part.FormName())
	b, _ := io.ReadAll(part)
	assert.Equal(t, "Arroz", string(b))

	part, err = r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "imagens", part.FormName())
	assert.Equal(t, "foto.png", part.FileName())
	assert.Equal(t, "image/png", part.Header.Get("Content-Type"))

	_, err = r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestForm_EncodeMissingFile(t *testing.T) {
	var f Form
	f.Attach("imagens", filepath.Join(t.TempDir(), "gone.jpg"))

	_, _, err := f.Encode()
	require.Error(t, err)
}
