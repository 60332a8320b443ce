package media

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/core"
)

func TestParsePayload(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello"))

	p, err := ParsePayload("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.MIME)
	assert.Equal(t, []byte("hello"), p.Data)
	assert.Equal(t, core.MediaTypeImage, p.Type())
}

func TestParsePayloadRejectsMalformed(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("x"))

	cases := []struct {
		name    string
		payload string
	}{
		{"missing scheme", "image/png;base64," + encoded},
		{"missing separator", "data:image/png," + encoded},
		{"empty mime", "data:;base64," + encoded},
		{"mime without slash", "data:png;base64," + encoded},
		{"empty payload", "data:image/png;base64,"},
		{"invalid base64", "data:image/png;base64,!!not-base64!!"},
		{"empty string", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePayload(tc.payload)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestPayloadEncodeRoundTrip(t *testing.T) {
	p := &Payload{MIME: "audio/mpeg", Data: []byte{0x49, 0x44, 0x33}}

	got, err := ParsePayload(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, p.MIME, got.MIME)
	assert.Equal(t, p.Data, got.Data)
}

func TestExtensionForMIME(t *testing.T) {
	cases := []struct {
		mime string
		want string
	}{
		{"image/png", "png"},
		{"image/jpeg", "jpg"},
		{"image/jpg", "jpg"},
		{"image/gif", "gif"},
		{"image/webp", "webp"},
		{"image/svg+xml", "svg"},
		{"audio/mpeg", "mp3"},
		{"audio/mp3", "mp3"},
		{"audio/wav", "wav"},
		{"audio/x-wav", "wav"},
		{"audio/ogg", "ogg"},
		{"audio/ogg;codecs=opus", "ogg"},
		{"audio/mp4", "m4a"},
		{"audio/aac", "aac"},
		{"audio/flac", "flac"},
		{"IMAGE/PNG", "png"},
		// unknown subtypes fall back to the subtype token
		{"image/bmp", "bmp"},
		{"audio/x-speex", "speex"},
		{"image/+", "bin"},
		{"garbage", "bin"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtensionForMIME(tc.mime), "mime %q", tc.mime)
	}
}

func TestMIMEForExtensionInvertsUploadTable(t *testing.T) {
	// Every canonical MIME must survive MIME -> ext -> MIME unchanged;
	// a drift between the two lookups mislabels content on read.
	for ext, mime := range extensionMIME {
		assert.Equal(t, mime, MIMEForExtension(ext), "ext %q", ext)
		assert.Equal(t, mime, MIMEForExtension(ExtensionForMIME(mime)), "mime %q", mime)
	}

	assert.Equal(t, "application/octet-stream", MIMEForExtension("xyz"))
}

func TestNewIdentifierShape(t *testing.T) {
	id := NewIdentifier("kb1", "audio/ogg;codecs=opus")

	assert.True(t, strings.HasPrefix(id, "kb1_"), "id %q", id)
	assert.True(t, strings.HasSuffix(id, ".ogg"), "id %q", id)

	parts := strings.Split(strings.TrimSuffix(id, ".ogg"), "_")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 6)

	svgID := NewIdentifier("kb1", "image/svg+xml")
	assert.True(t, strings.HasSuffix(svgID, ".svg"), "id %q", svgID)
}

func TestPrepareUpload(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("riff"))

	id, data, err := PrepareUpload("kb1", "data:audio/wav;base64,"+encoded)
	require.NoError(t, err)
	assert.Equal(t, []byte("riff"), data)
	assert.True(t, strings.HasSuffix(id, ".wav"))

	_, _, err = PrepareUpload("kb1", "data:video/mp4;base64,"+encoded)
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)

	_, _, err = PrepareUpload("kb1", "not a data uri")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestRefNormalization(t *testing.T) {
	assert.Equal(t, "img1.png", StripRef("local-media://img1.png"))
	assert.Equal(t, "img1.png", StripRef("local-image://img1.png"))
	assert.Equal(t, "img1.png", StripRef("img1.png"))

	// Either generation of reference canonicalizes to the current form.
	assert.Equal(t, "local-media://img1.png", CanonicalRef("img1.png"))
	assert.Equal(t, "local-media://img1.png", CanonicalRef("local-image://img1.png"))
	assert.Equal(t, "local-media://img1.png", CanonicalRef("local-media://img1.png"))
}

func TestKnownExtension(t *testing.T) {
	assert.True(t, KnownExtension("kb1_123_abcdef.png"))
	assert.True(t, KnownExtension("kb1_123_abcdef.flac"))
	assert.True(t, KnownExtension("a.JPEG"))
	assert.False(t, KnownExtension("notes.txt"))
	assert.False(t, KnownExtension("no-extension"))
	assert.False(t, KnownExtension("trailing-dot."))
}
